package service

import (
	"testing"

	"github.com/Ontinet-com/contract/internal/api/dto"
	ierr "github.com/Ontinet-com/contract/internal/errors"
	"github.com/Ontinet-com/contract/internal/testutil"
	"github.com/Ontinet-com/contract/internal/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type CatalogServiceSuite struct {
	testutil.BaseServiceTestSuite
	products   ProductService
	pricelists PricelistService
}

func TestCatalogService(t *testing.T) {
	suite.Run(t, new(CatalogServiceSuite))
}

func (s *CatalogServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	params := newTestServiceParams(&s.BaseServiceTestSuite)
	s.products = NewProductService(params)
	s.pricelists = NewPricelistService(params)
}

func (s *CatalogServiceSuite) TestCreateAndGetProduct() {
	ctx := s.GetContext()

	created, err := s.products.CreateProduct(ctx, testProductRequest())
	s.NoError(err)
	s.NotEmpty(created.ID)

	got, err := s.products.GetProduct(ctx, created.ID)
	s.NoError(err)
	s.Equal("Test product", got.Name)
	s.Equal("uom_categ_unit", got.UomCategoryID)
	s.Equal([]string{"tax_sale_15"}, []string(got.SaleTaxIDs))
	s.True(decimal.NewFromInt(60).Equal(got.StandardPrice))

	_, err = s.products.GetProduct(ctx, "")
	s.True(ierr.IsValidation(err))

	_, err = s.products.GetProduct(ctx, "prod_missing")
	s.True(ierr.IsNotFound(err))
}

func (s *CatalogServiceSuite) TestCreateProductValidation() {
	req := testProductRequest()
	req.UomID = ""
	_, err := s.products.CreateProduct(s.GetContext(), req)
	s.True(ierr.IsValidation(err))
}

func (s *CatalogServiceSuite) TestListProducts() {
	ctx := s.GetContext()
	for _, name := range []string{"Hosting", "Support"} {
		req := testProductRequest()
		req.Name = name
		_, err := s.products.CreateProduct(ctx, req)
		s.Require().NoError(err)
	}

	all, err := s.products.ListProducts(ctx, nil)
	s.NoError(err)
	s.Len(all.Items, 2)
	s.Equal(2, all.Pagination.Total)

	filter := types.NewProductFilter()
	filter.Name = "Support"
	byName, err := s.products.ListProducts(ctx, filter)
	s.NoError(err)
	s.Require().Len(byName.Items, 1)
	s.Equal("Support", byName.Items[0].Name)
}

func (s *CatalogServiceSuite) TestCreateAndGetPricelist() {
	ctx := s.GetContext()

	created, err := s.pricelists.CreatePricelist(ctx, dto.CreatePricelistRequest{
		Name: "Resellers",
		Items: []dto.CreatePricelistItemRequest{{
			ComputePrice: types.PriceComputationPercentage,
			PercentPrice: decimal.NewFromInt(15),
		}},
	})
	s.NoError(err)
	s.Equal("USD", created.Currency)
	s.Require().Len(created.Items, 1)
	s.Equal(types.PriceBaseListPrice, created.Items[0].Base)
	s.Equal(created.ID, created.Items[0].PricelistID)

	got, err := s.pricelists.GetPricelist(ctx, created.ID)
	s.NoError(err)
	s.Equal("Resellers", got.Name)
	s.Len(got.Items, 1)

	_, err = s.pricelists.GetPricelist(ctx, "plist_missing")
	s.True(ierr.IsNotFound(err))
}

func (s *CatalogServiceSuite) TestCreatePricelistValidation() {
	tests := []struct {
		name string
		req  dto.CreatePricelistRequest
	}{
		{
			name: "missing name",
			req:  dto.CreatePricelistRequest{},
		},
		{
			name: "bad currency",
			req:  dto.CreatePricelistRequest{Name: "EU", Currency: "EURO"},
		},
		{
			name: "unknown computation",
			req: dto.CreatePricelistRequest{
				Name:  "EU",
				Items: []dto.CreatePricelistItemRequest{{ComputePrice: "discounted"}},
			},
		},
		{
			name: "unknown base",
			req: dto.CreatePricelistRequest{
				Name: "EU",
				Items: []dto.CreatePricelistItemRequest{{
					ComputePrice: types.PriceComputationPercentage,
					Base:         "cost",
				}},
			},
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			_, err := s.pricelists.CreatePricelist(s.GetContext(), tt.req)
			s.True(ierr.IsValidation(err), "got %v", err)
		})
	}
}
