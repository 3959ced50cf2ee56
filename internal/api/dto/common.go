package dto

import (
	"time"

	"github.com/Ontinet-com/contract/internal/types"
)

// SuccessResponse represents a generic success response
type SuccessResponse struct {
	Message string `json:"message"`
}

// CountResponse carries a single aggregate count
type CountResponse struct {
	Count int `json:"count"`
}

func parseDatePtr(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	d, err := types.ParseDate(*s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
