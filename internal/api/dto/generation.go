package dto

import (
	"time"

	ierr "github.com/Ontinet-com/contract/internal/errors"
	"github.com/Ontinet-com/contract/internal/types"
	"github.com/Ontinet-com/contract/internal/validator"
)

// GenerateOrdersRequest triggers batch generation. AsOf defaults to today.
type GenerateOrdersRequest struct {
	Kind types.OrderKind `json:"kind" validate:"required"`
	AsOf *string         `json:"as_of,omitempty"`
}

func (r *GenerateOrdersRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	if err := r.Kind.Validate(); err != nil {
		return err
	}
	_, err := parseDatePtr(r.AsOf)
	return err
}

// GetAsOf returns the reference date of the run
func (r *GenerateOrdersRequest) GetAsOf(today time.Time) (time.Time, error) {
	d, err := parseDatePtr(r.AsOf)
	if err != nil || d == nil {
		return types.ToDate(today), err
	}
	return *d, nil
}

// GenerateOrderResponse is the outcome of generating for one contract.
// Order is nil when no line was due.
type GenerateOrderResponse struct {
	Generated bool           `json:"generated"`
	Order     *OrderResponse `json:"order,omitempty"`
}

type GenerationStatus string

const (
	GenerationStatusGenerated GenerationStatus = "generated"
	GenerationStatusSkipped   GenerationStatus = "skipped"
	GenerationStatusFailed    GenerationStatus = "failed"
)

// GenerateOrdersBatchItem is the result for one contract of a batch run
type GenerateOrdersBatchItem struct {
	ContractID string           `json:"contract_id"`
	Status     GenerationStatus `json:"status"`
	OrderID    string           `json:"order_id,omitempty"`
	Error      string           `json:"error,omitempty"`
}

// GenerateOrdersBatchResponse reports a batch run. Work for the successful
// contracts is committed even when others failed.
type GenerateOrdersBatchResponse struct {
	Kind              types.OrderKind            `json:"kind"`
	AsOf              string                     `json:"as_of"`
	Total             int                        `json:"total"`
	Generated         int                        `json:"generated"`
	Skipped           int                        `json:"skipped"`
	Failed            int                        `json:"failed"`
	FailedContractIDs []string                   `json:"failed_contract_ids"`
	Items             []*GenerateOrdersBatchItem `json:"items"`
}

// NewGenerateOrdersBatchResponse tallies the items, which keep their order
func NewGenerateOrdersBatchResponse(kind types.OrderKind, asOf time.Time, items []*GenerateOrdersBatchItem) *GenerateOrdersBatchResponse {
	resp := &GenerateOrdersBatchResponse{
		Kind:              kind,
		AsOf:              types.FormatDate(asOf),
		Total:             len(items),
		FailedContractIDs: []string{},
		Items:             items,
	}
	for _, item := range items {
		switch item.Status {
		case GenerationStatusGenerated:
			resp.Generated++
		case GenerationStatusSkipped:
			resp.Skipped++
		case GenerationStatusFailed:
			resp.Failed++
			resp.FailedContractIDs = append(resp.FailedContractIDs, item.ContractID)
		}
	}
	return resp
}

// Err returns a partial batch failure listing the failed contracts, or nil
func (r *GenerateOrdersBatchResponse) Err() error {
	if r.Failed == 0 {
		return nil
	}
	return ierr.NewErrorf("%d of %d contracts failed to generate %s orders", r.Failed, r.Total, r.Kind).
		WithHintf("%d contracts failed to generate orders", r.Failed).
		WithReportableDetails(map[string]any{
			"failed_contract_ids": r.FailedContractIDs,
			"as_of":               r.AsOf,
			"kind":                r.Kind,
		}).
		Mark(ierr.ErrPartialBatchFailure)
}

// GenerateOrderRequest generates for a single contract. An empty kind uses the
// kind the contract is set up to generate.
type GenerateOrderRequest struct {
	Kind types.OrderKind `json:"kind"`
}

func (r *GenerateOrderRequest) Validate() error {
	if r.Kind == "" {
		return nil
	}
	return r.Kind.Validate()
}
