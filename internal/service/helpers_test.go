package service

import (
	"github.com/Ontinet-com/contract/internal/api/dto"
	"github.com/Ontinet-com/contract/internal/testutil"
	"github.com/Ontinet-com/contract/internal/types"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

func newTestServiceParams(s *testutil.BaseServiceTestSuite) ServiceParams {
	stores := s.GetStores()
	return ServiceParams{
		Logger:           s.GetLogger(),
		Config:           s.GetConfig(),
		DB:               s.GetDB(),
		Clock:            s.GetClock(),
		Cache:            s.GetCache(),
		Sentry:           s.GetSentry(),
		ContractRepo:     stores.ContractRepo,
		ContractLineRepo: stores.ContractLineRepo,
		TemplateRepo:     stores.TemplateRepo,
		OrderRepo:        stores.OrderRepo,
		ProductRepo:      stores.ProductRepo,
		PricelistRepo:    stores.PricelistRepo,
	}
}

func testProductRequest() dto.CreateProductRequest {
	return dto.CreateProductRequest{
		Name:                "Test product",
		DescriptionSale:     "Test product sale description",
		DescriptionPurchase: "Test product purchase description",
		UomID:               "uom_unit",
		UomCategoryID:       "uom_categ_unit",
		ListPrice:           decimal.NewFromInt(100),
		StandardPrice:       decimal.NewFromInt(60),
		SaleTaxIDs:          []string{"tax_sale_15"},
		PurchaseTaxIDs:      []string{"tax_purchase_10"},
	}
}

// monthlyLineRequest is a 100 per month line at 50% discount, due on 2020-01-15
func monthlyLineRequest(productID string) dto.CreateContractLineRequest {
	return dto.CreateContractLineRequest{
		ProductID:         productID,
		Name:              "Services from #START# to #END#",
		Quantity:          decimal.NewFromInt(1),
		PriceUnit:         lo.ToPtr(decimal.NewFromInt(100)),
		Discount:          decimal.NewFromInt(50),
		RecurringRuleType: types.RecurringRuleMonthly,
		RecurringInterval: 1,
		DateStart:         "2020-01-15",
		RecurringNextDate: lo.ToPtr("2020-01-15"),
	}
}

func testContractRequest(productID string) dto.CreateContractRequest {
	return dto.CreateContractRequest{
		Name:           "Test Contract",
		PartnerID:      "partner_1",
		ContractType:   types.ContractTypeSale,
		GenerationType: types.GenerationTypeSale,
		UserID:         "user_1",
		GroupID:        "analytic_1",
		Lines:          []dto.CreateContractLineRequest{monthlyLineRequest(productID)},
	}
}

// testTemplateRequest is a yearly auto-renewed monthly line of productID
func testTemplateRequest(productID string) dto.CreateContractTemplateRequest {
	return dto.CreateContractTemplateRequest{
		Name:         "Monthly support",
		ContractType: types.ContractTypeSale,
		Lines: []dto.CreateTemplateLineRequest{{
			ProductID:         productID,
			Name:              "Support #START# - #END#",
			PriceUnit:         decimal.NewFromInt(40),
			RecurringRuleType: types.RecurringRuleMonthly,
			RecurringInterval: 1,
			IsAutoRenew:       true,
			AutoRenewInterval: 1,
			AutoRenewRuleType: types.RecurringRuleYearly,
		}},
	}
}
