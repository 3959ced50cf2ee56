package cron

import (
	"net/http"

	"github.com/Ontinet-com/contract/internal/api/dto"
	"github.com/Ontinet-com/contract/internal/clock"
	ierr "github.com/Ontinet-com/contract/internal/errors"
	"github.com/Ontinet-com/contract/internal/logger"
	"github.com/Ontinet-com/contract/internal/service"
	"github.com/Ontinet-com/contract/internal/types"
	"github.com/gin-gonic/gin"
)

// ContractHandler triggers contract order generation from an external cron
type ContractHandler struct {
	generation service.GenerationService
	clock      clock.Clock
	logger     *logger.Logger
}

func NewContractHandler(generation service.GenerationService, clk clock.Clock, logger *logger.Logger) *ContractHandler {
	return &ContractHandler{
		generation: generation,
		clock:      clk,
		logger:     logger,
	}
}

// GenerateOrders runs batch generation for one kind. A run where some
// contracts failed answers 207 with the full report.
func (h *ContractHandler) GenerateOrders(c *gin.Context) {
	var req dto.GenerateOrdersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}
	if err := req.Validate(); err != nil {
		c.Error(err)
		return
	}

	asOf, err := req.GetAsOf(h.clock.Now())
	if err != nil {
		c.Error(err)
		return
	}

	h.logger.Infow("starting contract generation cron job",
		"kind", req.Kind,
		"as_of", types.FormatDate(asOf),
	)

	resp, err := h.generation.CronGenerateAll(c.Request.Context(), asOf, req.Kind)
	if err != nil {
		h.logger.Errorw("failed to run contract generation",
			"kind", req.Kind,
			"error", err)
		c.Error(err)
		return
	}

	if resp.Err() != nil {
		c.JSON(http.StatusMultiStatus, resp)
		return
	}
	c.JSON(http.StatusOK, resp)
}
