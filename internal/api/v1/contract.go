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

type ContractHandler struct {
	service    service.ContractService
	generation service.GenerationService
	log        *logger.Logger
}

func NewContractHandler(
	service service.ContractService,
	generation service.GenerationService,
	log *logger.Logger,
) *ContractHandler {
	return &ContractHandler{
		service:    service,
		generation: generation,
		log:        log,
	}
}

// @Summary Create a contract
// @Description Create a contract with its lines, optionally seeded from a template
// @Tags Contracts
// @Accept json
// @Produce json
// @Param contract body dto.CreateContractRequest true "Contract"
// @Success 201 {object} dto.ContractResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Router /contracts [post]
func (h *ContractHandler) CreateContract(c *gin.Context) {
	var req dto.CreateContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.CreateContract(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// @Summary Get a contract
// @Tags Contracts
// @Produce json
// @Param id path string true "Contract ID"
// @Success 200 {object} dto.ContractResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Router /contracts/{id} [get]
func (h *ContractHandler) GetContract(c *gin.Context) {
	resp, err := h.service.GetContract(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary List contracts
// @Tags Contracts
// @Produce json
// @Param filter query types.ContractFilter false "Filter"
// @Success 200 {object} dto.ListContractsResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Router /contracts [get]
func (h *ContractHandler) ListContracts(c *gin.Context) {
	var filter types.ContractFilter
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

	resp, err := h.service.ListContracts(c.Request.Context(), &filter)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Update a contract
// @Tags Contracts
// @Accept json
// @Produce json
// @Param id path string true "Contract ID"
// @Param contract body dto.UpdateContractRequest true "Contract update"
// @Success 200 {object} dto.ContractResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Router /contracts/{id} [put]
func (h *ContractHandler) UpdateContract(c *gin.Context) {
	var req dto.UpdateContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.UpdateContract(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Delete a contract
// @Tags Contracts
// @Param id path string true "Contract ID"
// @Success 200 {object} dto.SuccessResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Router /contracts/{id} [delete]
func (h *ContractHandler) DeleteContract(c *gin.Context) {
	if err := h.service.DeleteContract(c.Request.Context(), c.Param("id")); err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse{Message: "contract deleted successfully"})
}

// @Summary Add a contract line
// @Tags Contracts
// @Accept json
// @Produce json
// @Param id path string true "Contract ID"
// @Param line body dto.CreateContractLineRequest true "Contract line"
// @Success 201 {object} dto.ContractLineResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Router /contracts/{id}/lines [post]
func (h *ContractHandler) AddLine(c *gin.Context) {
	var req dto.CreateContractLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.AddLine(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// @Summary Update a contract line
// @Tags Contracts
// @Accept json
// @Produce json
// @Param id path string true "Contract ID"
// @Param line_id path string true "Contract line ID"
// @Param line body dto.UpdateContractLineRequest true "Contract line update"
// @Success 200 {object} dto.ContractLineResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Router /contracts/{id}/lines/{line_id} [put]
func (h *ContractHandler) UpdateLine(c *gin.Context) {
	var req dto.UpdateContractLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.UpdateLine(c.Request.Context(), c.Param("id"), c.Param("line_id"), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Delete a contract line
// @Tags Contracts
// @Param id path string true "Contract ID"
// @Param line_id path string true "Contract line ID"
// @Success 200 {object} dto.SuccessResponse
// @Router /contracts/{id}/lines/{line_id} [delete]
func (h *ContractHandler) DeleteLine(c *gin.Context) {
	if err := h.service.DeleteLine(c.Request.Context(), c.Param("id"), c.Param("line_id")); err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse{Message: "contract line deleted successfully"})
}

// @Summary Preview the fields a line takes from a product
// @Description Returns the patch a product change would apply. Nothing is stored.
// @Tags Contracts
// @Accept json
// @Produce json
// @Param id path string true "Contract ID"
// @Param line_id path string true "Contract line ID"
// @Param request body dto.OnChangeProductRequest false "Product"
// @Success 200 {object} dto.LinePatchResponse
// @Router /contracts/{id}/lines/{line_id}/onchange-product [post]
func (h *ContractHandler) OnChangeProduct(c *gin.Context) {
	var req dto.OnChangeProductRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.Error(ierr.WithError(err).
				WithHint("Invalid request format").
				Mark(ierr.ErrValidation))
			return
		}
	}

	resp, err := h.service.RecomputeDerivedFields(c.Request.Context(), c.Param("id"), c.Param("line_id"), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Apply a template to a contract
// @Tags Contracts
// @Accept json
// @Produce json
// @Param id path string true "Contract ID"
// @Param request body dto.ApplyTemplateRequest true "Template"
// @Success 200 {object} dto.ContractResponse
// @Router /contracts/{id}/apply-template [post]
func (h *ContractHandler) ApplyTemplate(c *gin.Context) {
	var req dto.ApplyTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.ApplyTemplate(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Duplicate a contract
// @Tags Contracts
// @Accept json
// @Produce json
// @Param id path string true "Contract ID"
// @Param request body dto.DuplicateContractRequest false "Overrides"
// @Success 201 {object} dto.ContractResponse
// @Router /contracts/{id}/duplicate [post]
func (h *ContractHandler) DuplicateContract(c *gin.Context) {
	var req dto.DuplicateContractRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.Error(ierr.WithError(err).
				WithHint("Invalid request format").
				Mark(ierr.ErrValidation))
			return
		}
	}

	resp, err := h.service.DuplicateContract(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// @Summary Generate the order due today
// @Description Generates an order from the lines due today. generated is false when nothing is due.
// @Tags Generation
// @Accept json
// @Produce json
// @Param id path string true "Contract ID"
// @Param request body dto.GenerateOrderRequest false "Kind"
// @Success 200 {object} dto.GenerateOrderResponse
// @Failure 409 {object} ierr.ErrorResponse
// @Router /contracts/{id}/generate [post]
func (h *ContractHandler) GenerateOrder(c *gin.Context) {
	var req dto.GenerateOrderRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.Error(ierr.WithError(err).
				WithHint("Invalid request format").
				Mark(ierr.ErrValidation))
			return
		}
	}
	if err := req.Validate(); err != nil {
		c.Error(err)
		return
	}

	order, err := h.generation.GenerateOrder(c.Request.Context(), c.Param("id"), req.Kind)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.GenerateOrderResponse{Generated: order != nil, Order: order})
}

// @Summary Generate the next cycle
// @Description Generates the next cycle using the contract's earliest line cursor as the reference date
// @Tags Generation
// @Produce json
// @Param id path string true "Contract ID"
// @Success 200 {object} dto.GenerateOrderResponse
// @Failure 409 {object} ierr.ErrorResponse
// @Router /contracts/{id}/generate-next [post]
func (h *ContractHandler) GenerateNextOrder(c *gin.Context) {
	order, err := h.generation.GenerateNextOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.GenerateOrderResponse{Generated: order != nil, Order: order})
}

// @Summary List the orders generated from a contract
// @Tags Generation
// @Produce json
// @Param id path string true "Contract ID"
// @Param filter query types.OrderFilter false "Filter"
// @Success 200 {object} dto.ListOrdersResponse
// @Router /contracts/{id}/orders [get]
func (h *ContractHandler) ListOrders(c *gin.Context) {
	var filter types.OrderFilter
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

	resp, err := h.generation.ListGeneratedOrders(c.Request.Context(), c.Param("id"), &filter)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Count the orders generated from a contract
// @Tags Generation
// @Produce json
// @Param id path string true "Contract ID"
// @Success 200 {object} dto.CountResponse
// @Router /contracts/{id}/orders/count [get]
func (h *ContractHandler) CountOrders(c *gin.Context) {
	count, err := h.generation.CountGenerated(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.CountResponse{Count: count})
}
