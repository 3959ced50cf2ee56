package service

import (
	"errors"
	"testing"
	"time"

	"github.com/Ontinet-com/contract/internal/api/dto"
	"github.com/Ontinet-com/contract/internal/domain/contract"
	ierr "github.com/Ontinet-com/contract/internal/errors"
	"github.com/Ontinet-com/contract/internal/testutil"
	"github.com/Ontinet-com/contract/internal/types"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type GenerationServiceSuite struct {
	testutil.BaseServiceTestSuite
	service         GenerationService
	contractService ContractService
	orderService    OrderService
	testData        struct {
		product  *dto.ProductResponse
		contract *dto.ContractResponse
	}
}

func TestGenerationService(t *testing.T) {
	suite.Run(t, new(GenerationServiceSuite))
}

func (s *GenerationServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.setupService()
	s.setupTestData()
}

func (s *GenerationServiceSuite) setupService() {
	params := newTestServiceParams(&s.BaseServiceTestSuite)
	s.service = NewGenerationService(params)
	s.contractService = NewContractService(params)
	s.orderService = NewOrderService(params)
}

func (s *GenerationServiceSuite) setupTestData() {
	var err error
	s.testData.product, err = NewProductService(newTestServiceParams(&s.BaseServiceTestSuite)).
		CreateProduct(s.GetContext(), testProductRequest())
	s.Require().NoError(err)

	s.testData.contract, err = s.contractService.CreateContract(s.GetContext(), testContractRequest(s.testData.product.ID))
	s.Require().NoError(err)
}

func (s *GenerationServiceSuite) line(id string) *contract.ContractLine {
	line, err := s.GetStores().ContractLineRepo.Get(s.GetContext(), id)
	s.Require().NoError(err)
	return line
}

func (s *GenerationServiceSuite) firstLineID() string {
	return s.testData.contract.Lines[0].ID
}

func (s *GenerationServiceSuite) TestGenerateOrder() {
	ctx := s.GetContext()
	s.True(decimal.NewFromInt(50).Equal(s.testData.contract.Lines[0].PriceSubtotal))

	resp, err := s.service.GenerateOrder(ctx, s.testData.contract.ID, types.OrderKindSale)
	s.NoError(err)
	s.Require().NotNil(resp)

	s.Equal(types.OrderKindSale, resp.Kind)
	s.Equal(types.OrderStateDraft, resp.State)
	s.Contains(resp.Name, types.SHORT_ID_PREFIX_SALE_ORDER)
	s.Equal("partner_1", resp.PartnerID)
	s.Equal("user_1", resp.UserID)
	s.Equal("analytic_1", resp.AnalyticAccountID)
	s.Equal("Test Contract", resp.Origin)
	s.Equal(types.MustParseDate("2020-01-15"), resp.DateOrder)

	s.Require().Len(resp.Lines, 1)
	orderLine := resp.Lines[0]
	s.Equal(s.firstLineID(), orderLine.ContractLineID)
	s.Equal("Services from 2020-01-15 to 2020-02-15", orderLine.Name)
	s.Equal([]string{"tax_sale_15"}, []string(orderLine.TaxIDs))
	s.True(decimal.NewFromInt(50).Equal(orderLine.PriceSubtotal))
	s.True(decimal.NewFromInt(50).Equal(orderLine.Discount))
	s.True(decimal.NewFromInt(50).Equal(resp.AmountUntaxed))
	s.Equal("uom_unit", orderLine.UomID)

	line := s.line(s.firstLineID())
	s.Equal(types.MustParseDate("2020-02-15"), *line.RecurringNextDate)
	s.Equal(types.MustParseDate("2020-02-15"), *line.LastDateInvoiced)
}

func (s *GenerationServiceSuite) TestGenerateOrderNotDueIsNoop() {
	ctx := s.GetContext()

	first, err := s.service.GenerateOrder(ctx, s.testData.contract.ID, "")
	s.NoError(err)
	s.NotNil(first)

	second, err := s.service.GenerateOrder(ctx, s.testData.contract.ID, "")
	s.NoError(err)
	s.Nil(second)

	s.Equal(types.MustParseDate("2020-02-15"), *s.line(s.firstLineID()).RecurringNextDate)

	count, err := s.service.CountGenerated(ctx, s.testData.contract.ID)
	s.NoError(err)
	s.Equal(1, count)
}

func (s *GenerationServiceSuite) TestGenerateNextOrderCounts() {
	ctx := s.GetContext()

	for i := 0; i < 3; i++ {
		resp, err := s.service.GenerateNextOrder(ctx, s.testData.contract.ID)
		s.NoError(err)
		s.NotNil(resp)
	}

	count, err := s.service.CountGenerated(ctx, s.testData.contract.ID)
	s.NoError(err)
	s.Equal(3, count)
	s.Equal(types.MustParseDate("2020-04-15"), *s.line(s.firstLineID()).RecurringNextDate)

	orders, err := s.service.ListGeneratedOrders(ctx, s.testData.contract.ID, nil)
	s.NoError(err)
	s.Len(orders.Items, 3)
	s.Equal(3, orders.Pagination.Total)

	names := lo.Map(orders.Items, func(o *dto.OrderResponse, _ int) string { return o.Lines[0].Name })
	s.ElementsMatch([]string{
		"Services from 2020-01-15 to 2020-02-15",
		"Services from 2020-02-15 to 2020-03-15",
		"Services from 2020-03-15 to 2020-04-15",
	}, names)
}

func (s *GenerationServiceSuite) TestGenerateOrderRollsBackOnFailure() {
	ctx := s.GetContext()
	s.GetStores().OrderRepo.SetCreateError(errors.New("insert failed"))
	defer s.GetStores().OrderRepo.SetCreateError(nil)

	resp, err := s.service.GenerateOrder(ctx, s.testData.contract.ID, types.OrderKindSale)
	s.Error(err)
	s.Nil(resp)

	line := s.line(s.firstLineID())
	s.Equal(types.MustParseDate("2020-01-15"), *line.RecurringNextDate)
	s.Nil(line.LastDateInvoiced)

	count, err := s.service.CountGenerated(ctx, s.testData.contract.ID)
	s.NoError(err)
	s.Equal(0, count)
}

func (s *GenerationServiceSuite) TestGenerateOrderAutoConfirm() {
	ctx := s.GetContext()
	_, err := s.contractService.UpdateContract(ctx, s.testData.contract.ID, dto.UpdateContractRequest{
		AutoConfirm: lo.ToPtr(true),
	})
	s.Require().NoError(err)

	resp, err := s.service.GenerateOrder(ctx, s.testData.contract.ID, types.OrderKindSale)
	s.NoError(err)
	s.Require().NotNil(resp)
	s.Equal(types.OrderStateConfirmed, resp.State)
	s.NotNil(resp.ConfirmedAt)
	s.Equal("user_1", resp.UserID)
	s.Equal(types.MustParseDate("2020-02-15"), *s.line(s.firstLineID()).RecurringNextDate)

	_, err = s.orderService.ConfirmOrder(ctx, resp.ID)
	s.True(ierr.IsInvalidOperation(err))
}

func (s *GenerationServiceSuite) TestGenerateOrderPreconditions() {
	ctx := s.GetContext()

	s.Run("kind mismatch", func() {
		_, err := s.service.GenerateOrder(ctx, s.testData.contract.ID, types.OrderKindPurchase)
		s.True(ierr.IsInvalidState(err))
	})

	s.Run("no generation type", func() {
		_, err := s.contractService.UpdateContract(ctx, s.testData.contract.ID, dto.UpdateContractRequest{
			GenerationType: lo.ToPtr(types.GenerationTypeNone),
		})
		s.Require().NoError(err)

		_, err = s.service.GenerateOrder(ctx, s.testData.contract.ID, types.OrderKindSale)
		s.True(ierr.IsInvalidState(err))
	})

	s.Run("no lines", func() {
		req := testContractRequest(s.testData.product.ID)
		req.Lines = nil
		empty, err := s.contractService.CreateContract(ctx, req)
		s.Require().NoError(err)

		_, err = s.service.GenerateOrder(ctx, empty.ID, types.OrderKindSale)
		s.True(ierr.IsInvalidState(err))
	})

	s.Run("unknown contract", func() {
		_, err := s.service.GenerateOrder(ctx, "contract_missing", types.OrderKindSale)
		s.True(ierr.IsNotFound(err))
	})
}

func (s *GenerationServiceSuite) TestGeneratePurchaseOrder() {
	ctx := s.GetContext()

	req := testContractRequest(s.testData.product.ID)
	req.ContractType = types.ContractTypePurchase
	req.GenerationType = types.GenerationTypePurchase
	req.Lines[0].Name = ""
	purchase, err := s.contractService.CreateContract(ctx, req)
	s.Require().NoError(err)
	s.Equal("Test product purchase description", purchase.Lines[0].Name)

	resp, err := s.service.GenerateOrder(ctx, purchase.ID, types.OrderKindPurchase)
	s.NoError(err)
	s.Require().NotNil(resp)
	s.Equal(types.OrderKindPurchase, resp.Kind)
	s.Contains(resp.Name, types.SHORT_ID_PREFIX_PURCHASE_ORDER)
	s.Equal([]string{"tax_purchase_10"}, []string(resp.Lines[0].TaxIDs))
	s.Equal("Test product purchase description", resp.Lines[0].Name)
}

func (s *GenerationServiceSuite) TestGeneratePostPaid() {
	ctx := s.GetContext()

	req := testContractRequest(s.testData.product.ID)
	req.Lines[0].RecurringInvoicingType = types.InvoicingTypePostPaid
	req.Lines[0].DateStart = "2020-01-01"
	req.Lines[0].RecurringNextDate = nil
	postPaid, err := s.contractService.CreateContract(ctx, req)
	s.Require().NoError(err)
	s.Equal(types.MustParseDate("2020-02-01"), *postPaid.Lines[0].RecurringNextDate)

	resp, err := s.service.GenerateOrder(ctx, postPaid.ID, types.OrderKindSale)
	s.NoError(err)
	s.Nil(resp)

	s.GetClock().Set(time.Date(2020, 2, 1, 8, 0, 0, 0, time.UTC))
	resp, err = s.service.GenerateOrder(ctx, postPaid.ID, types.OrderKindSale)
	s.NoError(err)
	s.Require().NotNil(resp)
	s.Equal("Services from 2020-01-01 to 2020-02-01", resp.Lines[0].Name)
	s.Equal(types.MustParseDate("2020-03-01"), *s.line(postPaid.Lines[0].ID).RecurringNextDate)
}

func (s *GenerationServiceSuite) TestGenerateDeactivatesFinishedLine() {
	ctx := s.GetContext()

	req := testContractRequest(s.testData.product.ID)
	req.Lines[0].DateEnd = lo.ToPtr("2020-02-14")
	ending, err := s.contractService.CreateContract(ctx, req)
	s.Require().NoError(err)

	resp, err := s.service.GenerateNextOrder(ctx, ending.ID)
	s.NoError(err)
	s.Require().NotNil(resp)
	s.Equal("Services from 2020-01-15 to 2020-02-14", resp.Lines[0].Name)

	line := s.line(ending.Lines[0].ID)
	s.False(line.Active)

	resp, err = s.service.GenerateNextOrder(ctx, ending.ID)
	s.NoError(err)
	s.Nil(resp)
}

func (s *GenerationServiceSuite) TestGenerateAutoRenewedLineKeepsFullPeriods() {
	type cycle struct {
		start, end, dateEnd string
	}

	tests := []struct {
		name   string
		policy types.RenewalPolicy
		cycles []cycle
	}{
		{
			name:   "extend period",
			policy: types.RenewalPolicyExtendPeriod,
			cycles: []cycle{
				{start: "2020-01-15", end: "2020-02-15", dateEnd: "2020-02-15"},
				{start: "2020-02-15", end: "2020-03-15", dateEnd: "2020-03-15"},
				{start: "2020-03-15", end: "2020-04-15", dateEnd: "2020-04-15"},
			},
		},
		{
			name:   "recompute",
			policy: types.RenewalPolicyRecompute,
			cycles: []cycle{
				{start: "2020-01-15", end: "2020-02-15", dateEnd: "2020-02-15"},
				{start: "2020-02-15", end: "2020-03-15", dateEnd: "2021-02-15"},
				{start: "2020-03-15", end: "2020-04-15", dateEnd: "2021-02-15"},
			},
		},
	}

	cfg := s.GetConfig()
	policy := cfg.Contract.RenewalPolicy
	defer func() { cfg.Contract.RenewalPolicy = policy }()

	for _, tt := range tests {
		s.Run(tt.name, func() {
			ctx := s.GetContext()
			cfg.Contract.RenewalPolicy = tt.policy

			req := testContractRequest(s.testData.product.ID)
			req.Lines[0].DateEnd = lo.ToPtr("2020-02-15")
			req.Lines[0].IsAutoRenew = true
			req.Lines[0].AutoRenewInterval = 1
			req.Lines[0].AutoRenewRuleType = types.RecurringRuleYearly
			renewing, err := s.contractService.CreateContract(ctx, req)
			s.Require().NoError(err)

			for _, c := range tt.cycles {
				resp, err := s.service.GenerateNextOrder(ctx, renewing.ID)
				s.Require().NoError(err)
				s.Require().NotNil(resp)
				s.Require().Len(resp.Lines, 1)

				orderLine := resp.Lines[0]
				s.Equal(types.MustParseDate(c.start), orderLine.PeriodStart)
				s.Equal(types.MustParseDate(c.end), orderLine.PeriodEnd)
				s.Equal("Services from "+c.start+" to "+c.end, orderLine.Name)

				line := s.line(renewing.Lines[0].ID)
				s.True(line.Active)
				s.Equal(types.MustParseDate(c.end), *line.LastDateInvoiced)
				s.Equal(types.MustParseDate(c.end), *line.RecurringNextDate)
				s.Equal(types.MustParseDate(c.dateEnd), *line.DateEnd)
			}
		})
	}
}

func (s *GenerationServiceSuite) TestGenerateAutomaticPrice() {
	ctx := s.GetContext()

	pl, err := NewPricelistService(newTestServiceParams(&s.BaseServiceTestSuite)).CreatePricelist(ctx, dto.CreatePricelistRequest{
		Name: "Partner prices",
		Items: []dto.CreatePricelistItemRequest{{
			ProductID:    s.testData.product.ID,
			ComputePrice: types.PriceComputationFixed,
			FixedPrice:   decimal.NewFromInt(80),
		}},
	})
	s.Require().NoError(err)

	req := testContractRequest(s.testData.product.ID)
	req.PricelistID = pl.ID
	req.Lines[0].AutomaticPrice = true
	req.Lines[0].Discount = decimal.Zero
	auto, err := s.contractService.CreateContract(ctx, req)
	s.Require().NoError(err)

	resp, err := s.service.GenerateOrder(ctx, auto.ID, types.OrderKindSale)
	s.NoError(err)
	s.Require().NotNil(resp)
	s.Equal(pl.ID, resp.PricelistID)
	s.True(decimal.NewFromInt(80).Equal(resp.Lines[0].PriceUnit))
}

func (s *GenerationServiceSuite) TestCronGenerateAll() {
	ctx := s.GetContext()

	weekly := testContractRequest(s.testData.product.ID)
	weekly.Name = "Test Contract 2"
	weekly.Lines[0].RecurringRuleType = types.RecurringRuleWeekly
	weekly.Lines[0].DateStart = "2018-02-15"
	weekly.Lines[0].RecurringNextDate = lo.ToPtr("2018-02-22")
	contract2, err := s.contractService.CreateContract(ctx, weekly)
	s.Require().NoError(err)

	contractIDs := []string{contract2.ID}
	for i := 0; i < 10; i++ {
		dup, err := s.contractService.DuplicateContract(ctx, s.testData.contract.ID, dto.DuplicateContractRequest{})
		s.Require().NoError(err)
		contractIDs = append(contractIDs, dup.ID)
	}

	resp, err := s.service.CronGenerateAll(ctx, s.GetNow(), types.OrderKindSale)
	s.NoError(err)
	s.NoError(resp.Err())
	s.Equal(12, resp.Total)
	s.Equal(12, resp.Generated)
	s.Equal(0, resp.Failed)
	s.Equal("2020-01-15", resp.AsOf)

	for _, id := range contractIDs {
		count, err := s.service.CountGenerated(ctx, id)
		s.NoError(err)
		s.Equal(1, count, "contract %s", id)
	}

	rerun, err := s.service.CronGenerateAll(ctx, s.GetNow(), types.OrderKindSale)
	s.NoError(err)
	s.Equal(1, rerun.Total, "only the weekly contract is still behind")
	s.Equal(contract2.ID, rerun.Items[0].ContractID)
}

func (s *GenerationServiceSuite) TestCronGenerateAllIsolatesFailures() {
	ctx := s.GetContext()

	good := []string{s.testData.contract.ID}
	for i := 0; i < 2; i++ {
		dup, err := s.contractService.DuplicateContract(ctx, s.testData.contract.ID, dto.DuplicateContractRequest{})
		s.Require().NoError(err)
		good = append(good, dup.ID)
	}

	// stored without going through validation, as legacy data would be
	bad := &contract.Contract{
		ID:             types.GenerateUUIDWithPrefix(types.UUID_PREFIX_CONTRACT),
		Name:           "Broken Contract",
		PartnerID:      "partner_2",
		ContractType:   types.ContractTypeSale,
		GenerationType: types.GenerationTypeSale,
		BaseModel:      types.GetDefaultBaseModel(ctx),
	}
	next := types.MustParseDate("2020-01-15")
	badLine := &contract.ContractLine{
		ID:                     types.GenerateUUIDWithPrefix(types.UUID_PREFIX_CONTRACT_LINE),
		ContractID:             bad.ID,
		ProductID:              s.testData.product.ID,
		Name:                   "Broken line",
		Quantity:               decimal.NewFromInt(1),
		PriceUnit:              decimal.NewFromInt(10),
		RecurringRuleType:      types.RecurringRuleMonthly,
		RecurringInterval:      0,
		RecurringInvoicingType: types.InvoicingTypePrePaid,
		DateStart:              next,
		RecurringNextDate:      &next,
		Active:                 true,
		BaseModel:              types.GetDefaultBaseModel(ctx),
	}
	s.Require().NoError(s.GetStores().ContractRepo.Create(ctx, bad))
	s.Require().NoError(s.GetStores().ContractLineRepo.Create(ctx, badLine))

	cfg := s.GetConfig()
	concurrency := cfg.Contract.BatchConcurrency
	cfg.Contract.BatchConcurrency = 4
	defer func() { cfg.Contract.BatchConcurrency = concurrency }()

	resp, err := s.service.CronGenerateAll(ctx, s.GetNow(), types.OrderKindSale)
	s.NoError(err)
	s.Equal(4, resp.Total)
	s.Equal(3, resp.Generated)
	s.Equal(1, resp.Failed)
	s.Equal([]string{bad.ID}, resp.FailedContractIDs)

	batchErr := resp.Err()
	s.Error(batchErr)
	s.True(ierr.IsPartialBatchFailure(batchErr))

	failed, ok := lo.Find(resp.Items, func(item *dto.GenerateOrdersBatchItem) bool { return item.ContractID == bad.ID })
	s.Require().True(ok)
	s.Equal(dto.GenerationStatusFailed, failed.Status)
	s.NotEmpty(failed.Error)

	for _, id := range good {
		count, err := s.service.CountGenerated(ctx, id)
		s.NoError(err)
		s.Equal(1, count, "contract %s", id)
	}
	s.Equal(next, *s.line(badLine.ID).RecurringNextDate)
}

func (s *GenerationServiceSuite) TestCronGenerateAllSkipsOtherKinds() {
	ctx := s.GetContext()

	resp, err := s.service.CronGenerateAll(ctx, s.GetNow(), types.OrderKindPurchase)
	s.NoError(err)
	s.Equal(0, resp.Total)
	s.NoError(resp.Err())

	_, err = s.service.CronGenerateAll(ctx, s.GetNow(), types.OrderKind("invoice"))
	s.True(ierr.IsValidation(err))
}
