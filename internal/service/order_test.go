package service

import (
	"testing"
	"time"

	"github.com/Ontinet-com/contract/internal/domain/order"
	ierr "github.com/Ontinet-com/contract/internal/errors"
	"github.com/Ontinet-com/contract/internal/testutil"
	"github.com/Ontinet-com/contract/internal/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type OrderServiceSuite struct {
	testutil.BaseServiceTestSuite
	service  OrderService
	testData struct {
		sale     *order.Order
		purchase *order.Order
	}
}

func TestOrderService(t *testing.T) {
	suite.Run(t, new(OrderServiceSuite))
}

func (s *OrderServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.service = NewOrderService(newTestServiceParams(&s.BaseServiceTestSuite))
	s.setupTestData()
}

func (s *OrderServiceSuite) newOrder(kind types.OrderKind, partnerID string, date time.Time) *order.Order {
	ctx := s.GetContext()
	o := &order.Order{
		ID:        types.GenerateUUIDWithPrefix(types.UUID_PREFIX_ORDER),
		Name:      types.GenerateShortIDWithPrefix(kind.ShortIDPrefix()),
		Kind:      kind,
		State:     types.OrderStateDraft,
		PartnerID: partnerID,
		DateOrder: date,
		BaseModel: types.GetDefaultBaseModel(ctx),
	}
	o.Lines = []*order.OrderLine{{
		ID:             types.GenerateUUIDWithPrefix(types.UUID_PREFIX_ORDER_LINE),
		OrderID:        o.ID,
		ContractLineID: "cline_" + partnerID,
		Name:           "Services",
		Quantity:       decimal.NewFromInt(2),
		PriceUnit:      decimal.NewFromInt(30),
		Discount:       decimal.NewFromInt(10),
		BaseModel:      types.GetDefaultBaseModel(ctx),
	}}
	s.Require().NoError(s.GetStores().OrderRepo.Create(ctx, o))
	return o
}

func (s *OrderServiceSuite) setupTestData() {
	s.testData.sale = s.newOrder(types.OrderKindSale, "partner_1", types.MustParseDate("2020-01-15"))
	s.testData.purchase = s.newOrder(types.OrderKindPurchase, "partner_2", types.MustParseDate("2020-01-10"))
}

func (s *OrderServiceSuite) TestGetOrder() {
	resp, err := s.service.GetOrder(s.GetContext(), s.testData.sale.ID)
	s.NoError(err)
	s.Equal(types.OrderKindSale, resp.Kind)
	s.Require().Len(resp.Lines, 1)
	s.True(decimal.NewFromInt(54).Equal(resp.Lines[0].PriceSubtotal))
	s.True(decimal.NewFromInt(54).Equal(resp.AmountUntaxed))

	_, err = s.service.GetOrder(s.GetContext(), "order_missing")
	s.True(ierr.IsNotFound(err))
}

func (s *OrderServiceSuite) TestListOrders() {
	ctx := s.GetContext()

	all, err := s.service.ListOrders(ctx, nil)
	s.NoError(err)
	s.Require().Len(all.Items, 2)
	s.Equal(s.testData.sale.ID, all.Items[0].ID, "newest first")

	filter := types.NewOrderFilter()
	filter.Kind = types.OrderKindPurchase
	purchases, err := s.service.ListOrders(ctx, filter)
	s.NoError(err)
	s.Require().Len(purchases.Items, 1)
	s.Equal(s.testData.purchase.ID, purchases.Items[0].ID)

	filter = types.NewOrderFilter()
	filter.ContractLineIDs = []string{"cline_partner_1"}
	byLine, err := s.service.ListOrders(ctx, filter)
	s.NoError(err)
	s.Require().Len(byLine.Items, 1)
	s.Equal(s.testData.sale.ID, byLine.Items[0].ID)
}

func (s *OrderServiceSuite) TestConfirmOrder() {
	ctx := s.GetContext()

	resp, err := s.service.ConfirmOrder(ctx, s.testData.sale.ID)
	s.NoError(err)
	s.Equal(types.OrderStateConfirmed, resp.State)
	s.Require().NotNil(resp.ConfirmedAt)
	s.Equal(testutil.DefaultTestNow, *resp.ConfirmedAt)

	stored, err := s.GetStores().OrderRepo.Get(ctx, s.testData.sale.ID)
	s.NoError(err)
	s.True(stored.IsConfirmed())

	_, err = s.service.ConfirmOrder(ctx, s.testData.sale.ID)
	s.True(ierr.IsInvalidOperation(err))

	filter := types.NewOrderFilter()
	filter.State = types.OrderStateDraft
	drafts, err := s.service.ListOrders(ctx, filter)
	s.NoError(err)
	s.Len(drafts.Items, 1)
}
