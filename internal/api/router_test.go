package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Ontinet-com/contract/internal/api/cron"
	v1 "github.com/Ontinet-com/contract/internal/api/v1"
	"github.com/Ontinet-com/contract/internal/service"
	"github.com/Ontinet-com/contract/internal/testutil"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
)

type RouterSuite struct {
	testutil.BaseServiceTestSuite
	router *gin.Engine
}

func TestRouter(t *testing.T) {
	gin.SetMode(gin.TestMode)
	suite.Run(t, new(RouterSuite))
}

func (s *RouterSuite) SetupTest() {
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
	generation := service.NewGenerationService(params)

	s.router = NewRouter(Handlers{
		Health:       v1.NewHealthHandler(nil, s.GetLogger()),
		Contract:     v1.NewContractHandler(service.NewContractService(params), generation, s.GetLogger()),
		Template:     v1.NewContractTemplateHandler(service.NewContractTemplateService(params), s.GetLogger()),
		Product:      v1.NewProductHandler(service.NewProductService(params), s.GetLogger()),
		Pricelist:    v1.NewPricelistHandler(service.NewPricelistService(params), s.GetLogger()),
		Order:        v1.NewOrderHandler(service.NewOrderService(params), s.GetLogger()),
		CronContract: cron.NewContractHandler(generation, s.GetClock(), s.GetLogger()),
	}, s.GetConfig(), s.GetLogger())
}

func (s *RouterSuite) do(method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		s.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *RouterSuite) decode(w *httptest.ResponseRecorder, v any) {
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

type idResponse struct {
	ID string `json:"id"`
}

func (s *RouterSuite) createProduct() string {
	w := s.do(http.MethodPost, "/v1/products", map[string]any{
		"name":             "Hosting",
		"description_sale": "Hosting services",
		"uom_id":           "uom_unit",
		"uom_category_id":  "uom_categ_unit",
		"list_price":       "100",
		"sale_tax_ids":     []string{"tax_sale_15"},
	})
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var resp idResponse
	s.decode(w, &resp)
	return resp.ID
}

func (s *RouterSuite) createContract(productID, partnerID string, interval int) string {
	w := s.do(http.MethodPost, "/v1/contracts", map[string]any{
		"name":            "Hosting contract",
		"partner_id":      partnerID,
		"contract_type":   "sale",
		"generation_type": "sale",
		"lines": []map[string]any{{
			"product_id":          productID,
			"name":                "Hosting #START# - #END#",
			"quantity":            "1",
			"price_unit":          "100",
			"recurring_rule_type": "monthly",
			"recurring_interval":  interval,
			"date_start":          "2020-01-15",
			"recurring_next_date": "2020-01-15",
		}},
	})
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var resp idResponse
	s.decode(w, &resp)
	return resp.ID
}

func (s *RouterSuite) TestHealth() {
	w := s.do(http.MethodGet, "/health", nil)
	s.Equal(http.StatusOK, w.Code)
	s.JSONEq(`{"status":"ok"}`, w.Body.String())
	s.NotEmpty(w.Header().Get("X-Request-ID"))
}

func (s *RouterSuite) TestGenerateThroughAPI() {
	contractID := s.createContract(s.createProduct(), "partner_1", 1)

	w := s.do(http.MethodPost, "/v1/contracts/"+contractID+"/generate", nil)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	var generated struct {
		Generated bool `json:"generated"`
		Order     struct {
			ID    string `json:"id"`
			Lines []struct {
				Name string `json:"name"`
			} `json:"lines"`
		} `json:"order"`
	}
	s.decode(w, &generated)
	s.True(generated.Generated)
	s.Require().Len(generated.Order.Lines, 1)
	s.Equal("Hosting 2020-01-15 - 2020-02-15", generated.Order.Lines[0].Name)

	// not due anymore
	w = s.do(http.MethodPost, "/v1/contracts/"+contractID+"/generate", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.JSONEq(`{"generated":false}`, w.Body.String())

	w = s.do(http.MethodGet, "/v1/contracts/"+contractID+"/orders/count", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.JSONEq(`{"count":1}`, w.Body.String())

	w = s.do(http.MethodPost, "/v1/orders/"+generated.Order.ID+"/confirm", nil)
	s.Equal(http.StatusOK, w.Code, w.Body.String())
	w = s.do(http.MethodPost, "/v1/orders/"+generated.Order.ID+"/confirm", nil)
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *RouterSuite) TestErrorResponses() {
	w := s.do(http.MethodGet, "/v1/contracts/contract_missing", nil)
	s.Equal(http.StatusNotFound, w.Code)

	var errResp struct {
		Success bool `json:"success"`
		Error   struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	s.decode(w, &errResp)
	s.False(errResp.Success)
	s.NotEmpty(errResp.Error.Message)

	w = s.do(http.MethodPost, "/v1/contracts", map[string]any{"name": "no partner"})
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *RouterSuite) TestCronReportsPartialFailure() {
	productID := s.createProduct()
	good := s.createContract(productID, "partner_1", 1)

	// a line with a zero interval can only come from a stored row, not the API
	badID := s.createContract(productID, "partner_2", 1)
	bad, err := s.GetStores().ContractRepo.GetWithLines(s.GetContext(), badID)
	s.Require().NoError(err)
	line := bad.Lines[0]
	line.RecurringInterval = 0
	s.Require().NoError(s.GetStores().ContractLineRepo.Update(s.GetContext(), line))

	w := s.do(http.MethodPost, "/cron/contracts/generate", map[string]any{"kind": "sale"})
	s.Require().Equal(http.StatusMultiStatus, w.Code, w.Body.String())

	var report struct {
		Total             int      `json:"total"`
		Generated         int      `json:"generated"`
		Failed            int      `json:"failed"`
		FailedContractIDs []string `json:"failed_contract_ids"`
	}
	s.decode(w, &report)
	s.Equal(2, report.Total)
	s.Equal(1, report.Generated)
	s.Equal(1, report.Failed)
	s.Equal([]string{badID}, report.FailedContractIDs)

	w = s.do(http.MethodGet, "/v1/contracts/"+good+"/orders/count", nil)
	s.JSONEq(`{"count":1}`, w.Body.String())
}

func (s *RouterSuite) TestCronRejectsUnknownKind() {
	w := s.do(http.MethodPost, "/cron/contracts/generate", map[string]any{"kind": "invoice"})
	s.Equal(http.StatusBadRequest, w.Code)
}
