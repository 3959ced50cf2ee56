package v1

import (
	"net/http"

	"github.com/Ontinet-com/contract/internal/api/dto"
	ierr "github.com/Ontinet-com/contract/internal/errors"
	"github.com/Ontinet-com/contract/internal/logger"
	"github.com/Ontinet-com/contract/internal/service"
	"github.com/Ontinet-com/contract/internal/types"
	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
)

type ContractTemplateHandler struct {
	service service.ContractTemplateService
	log     *logger.Logger
}

func NewContractTemplateHandler(service service.ContractTemplateService, log *logger.Logger) *ContractTemplateHandler {
	return &ContractTemplateHandler{service: service, log: log}
}

// @Summary Create a contract template
// @Tags Contract Templates
// @Accept json
// @Produce json
// @Param template body dto.CreateContractTemplateRequest true "Template"
// @Success 201 {object} dto.ContractTemplateResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Router /contract-templates [post]
func (h *ContractTemplateHandler) CreateTemplate(c *gin.Context) {
	var req dto.CreateContractTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.CreateTemplate(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// @Summary Get a contract template
// @Tags Contract Templates
// @Produce json
// @Param id path string true "Template ID"
// @Success 200 {object} dto.ContractTemplateResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Router /contract-templates/{id} [get]
func (h *ContractTemplateHandler) GetTemplate(c *gin.Context) {
	resp, err := h.service.GetTemplate(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary List contract templates
// @Tags Contract Templates
// @Produce json
// @Param filter query types.ContractTemplateFilter false "Filter"
// @Success 200 {object} dto.ListContractTemplatesResponse
// @Router /contract-templates [get]
func (h *ContractTemplateHandler) ListTemplates(c *gin.Context) {
	var filter types.ContractTemplateFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid filter parameters").
			Mark(ierr.ErrValidation))
		return
	}

	if filter.GetLimit() == 0 {
		if filter.QueryFilter == nil {
			filter.QueryFilter = types.NewDefaultQueryFilter()
		}
		filter.Limit = lo.ToPtr(types.FILTER_DEFAULT_LIMIT)
	}

	resp, err := h.service.ListTemplates(c.Request.Context(), &filter)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
