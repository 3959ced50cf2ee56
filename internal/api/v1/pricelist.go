package v1

import (
	"net/http"

	"github.com/Ontinet-com/contract/internal/api/dto"
	ierr "github.com/Ontinet-com/contract/internal/errors"
	"github.com/Ontinet-com/contract/internal/logger"
	"github.com/Ontinet-com/contract/internal/service"
	"github.com/gin-gonic/gin"
)

type PricelistHandler struct {
	service service.PricelistService
	log     *logger.Logger
}

func NewPricelistHandler(service service.PricelistService, log *logger.Logger) *PricelistHandler {
	return &PricelistHandler{service: service, log: log}
}

// @Summary Create a pricelist
// @Tags Pricelists
// @Accept json
// @Produce json
// @Param pricelist body dto.CreatePricelistRequest true "Pricelist"
// @Success 201 {object} dto.PricelistResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Router /pricelists [post]
func (h *PricelistHandler) CreatePricelist(c *gin.Context) {
	var req dto.CreatePricelistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.CreatePricelist(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// @Summary Get a pricelist
// @Tags Pricelists
// @Produce json
// @Param id path string true "Pricelist ID"
// @Success 200 {object} dto.PricelistResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Router /pricelists/{id} [get]
func (h *PricelistHandler) GetPricelist(c *gin.Context) {
	resp, err := h.service.GetPricelist(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
