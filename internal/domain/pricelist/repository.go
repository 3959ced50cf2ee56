package pricelist

import "context"

// Repository persists pricelists together with their items
type Repository interface {
	Create(ctx context.Context, pricelist *Pricelist) error
	Get(ctx context.Context, id string) (*Pricelist, error)
}
