package contract

import (
	ierr "github.com/Ontinet-com/contract/internal/errors"
)

// NewInvalidStateError reports a contract that cannot generate in its current state
func NewInvalidStateError(contractID, reason string) error {
	return ierr.NewError(reason).
		WithHint("Contract cannot generate orders: " + reason).
		WithReportableDetails(map[string]any{
			"contract_id": contractID,
		}).
		Mark(ierr.ErrInvalidState)
}

// NewValidationError reports an invalid field on a contract or line
func NewValidationError(field, reason string) error {
	return ierr.NewError(reason).
		WithHint(reason).
		WithReportableDetails(map[string]any{
			"field": field,
		}).
		Mark(ierr.ErrValidation)
}

// NewLineValidationError reports an invalid field on a specific contract line
func NewLineValidationError(lineID, field, reason string) error {
	return ierr.NewError(reason).
		WithHint(reason).
		WithReportableDetails(map[string]any{
			"contract_line_id": lineID,
			"field":            field,
		}).
		Mark(ierr.ErrValidation)
}
