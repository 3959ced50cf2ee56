package scheduler

import (
	"testing"

	"github.com/Ontinet-com/contract/internal/api/dto"
	"github.com/Ontinet-com/contract/internal/service"
	"github.com/Ontinet-com/contract/internal/testutil"
	"github.com/Ontinet-com/contract/internal/types"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type GenerationJobSuite struct {
	testutil.BaseServiceTestSuite
	generation service.GenerationService
	contract   *dto.ContractResponse
}

func TestGenerationJob(t *testing.T) {
	suite.Run(t, new(GenerationJobSuite))
}

func (s *GenerationJobSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	stores := s.GetStores()
	params := service.NewServiceParams(
		s.GetLogger(),
		s.GetConfig(),
		s.GetDB(),
		s.GetClock(),
		s.GetCache(),
		s.GetSentry(),
		stores.ContractRepo,
		stores.ContractLineRepo,
		stores.TemplateRepo,
		stores.OrderRepo,
		stores.ProductRepo,
		stores.PricelistRepo,
	)
	s.generation = service.NewGenerationService(params)

	product, err := service.NewProductService(params).CreateProduct(s.GetContext(), dto.CreateProductRequest{
		Name:          "Hosting",
		UomID:         "uom_unit",
		UomCategoryID: "uom_categ_unit",
		ListPrice:     decimal.NewFromInt(10),
	})
	s.Require().NoError(err)

	s.contract, err = service.NewContractService(params).CreateContract(s.GetContext(), dto.CreateContractRequest{
		Name:           "Hosting contract",
		PartnerID:      "partner_1",
		ContractType:   types.ContractTypeSale,
		GenerationType: types.GenerationTypeSale,
		Lines: []dto.CreateContractLineRequest{{
			ProductID:         product.ID,
			Name:              "Hosting #START# - #END#",
			Quantity:          decimal.NewFromInt(1),
			PriceUnit:         lo.ToPtr(decimal.NewFromInt(10)),
			RecurringRuleType: types.RecurringRuleMonthly,
			RecurringInterval: 1,
			DateStart:         "2020-01-15",
			RecurringNextDate: lo.ToPtr("2020-01-15"),
		}},
	})
	s.Require().NoError(err)
}

func (s *GenerationJobSuite) TestRunGeneratesDueContracts() {
	job := NewGenerationJob(s.GetConfig(), s.generation, s.GetClock(), s.GetSentry(), s.GetLogger())
	s.Equal(GenerationJobName, job.Name)
	s.Equal(s.GetConfig().Contract.GenerationInterval, job.Period)

	job.Run(s.GetContext())

	count, err := s.generation.CountGenerated(s.GetContext(), s.contract.ID)
	s.NoError(err)
	s.Equal(1, count)

	// the cursor moved past today so a second tick has nothing to do
	job.Run(s.GetContext())
	count, err = s.generation.CountGenerated(s.GetContext(), s.contract.ID)
	s.NoError(err)
	s.Equal(1, count)
}
