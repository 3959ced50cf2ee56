package order

import (
	"context"

	"github.com/Ontinet-com/contract/internal/types"
)

// Repository persists orders. Create stores the order together with its lines.
type Repository interface {
	Create(ctx context.Context, order *Order) error
	Get(ctx context.Context, id string) (*Order, error)
	Update(ctx context.Context, order *Order) error
	List(ctx context.Context, filter *types.OrderFilter) ([]*Order, error)
	Count(ctx context.Context, filter *types.OrderFilter) (int, error)
}
