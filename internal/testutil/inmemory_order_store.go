package testutil

import (
	"context"
	"fmt"
	"sync"

	"github.com/Ontinet-com/contract/internal/domain/order"
	"github.com/Ontinet-com/contract/internal/types"
	"github.com/samber/lo"
)

// InMemoryOrderStore implements order.Repository
type InMemoryOrderStore struct {
	*InMemoryStore[*order.Order]

	failMu    sync.Mutex
	createErr error
}

// NewInMemoryOrderStore creates a new in-memory order store
func NewInMemoryOrderStore() *InMemoryOrderStore {
	return &InMemoryOrderStore{
		InMemoryStore: NewInMemoryStore[*order.Order]((*order.Order).Clone),
	}
}

// SetCreateError makes every following Create fail with err until reset with nil
func (s *InMemoryOrderStore) SetCreateError(err error) {
	s.failMu.Lock()
	defer s.failMu.Unlock()
	s.createErr = err
}

func orderFilterFn(ctx context.Context, o *order.Order, filter interface{}) bool {
	if o == nil || !CheckTenantFilter(ctx, o.TenantID) {
		return false
	}

	f, ok := filter.(*types.OrderFilter)
	if !ok {
		return true
	}

	if !CheckStatusFilter(f, o.Status) {
		return false
	}
	if len(f.OrderIDs) > 0 && !lo.Contains(f.OrderIDs, o.ID) {
		return false
	}
	if f.ContractID != "" && o.ContractID != f.ContractID {
		return false
	}
	if f.PartnerID != "" && o.PartnerID != f.PartnerID {
		return false
	}
	if f.Kind != "" && o.Kind != f.Kind {
		return false
	}
	if f.State != "" && o.State != f.State {
		return false
	}
	if len(f.ContractLineIDs) > 0 {
		if !lo.SomeBy(o.Lines, func(l *order.OrderLine) bool {
			return lo.Contains(f.ContractLineIDs, l.ContractLineID)
		}) {
			return false
		}
	}
	return true
}

// orderSortFn orders by date, newest first
func orderSortFn(i, j *order.Order) bool {
	if i.DateOrder.Equal(j.DateOrder) {
		return i.CreatedAt.After(j.CreatedAt)
	}
	return i.DateOrder.After(j.DateOrder)
}

func (s *InMemoryOrderStore) Create(ctx context.Context, o *order.Order) error {
	if o == nil {
		return fmt.Errorf("order cannot be nil")
	}

	s.failMu.Lock()
	createErr := s.createErr
	s.failMu.Unlock()
	if createErr != nil {
		return createErr
	}

	return s.InMemoryStore.Create(ctx, o.ID, o)
}

func (s *InMemoryOrderStore) Get(ctx context.Context, id string) (*order.Order, error) {
	return s.InMemoryStore.Get(ctx, id)
}

func (s *InMemoryOrderStore) Update(ctx context.Context, o *order.Order) error {
	if o == nil {
		return fmt.Errorf("order cannot be nil")
	}
	return s.InMemoryStore.Update(ctx, o.ID, o)
}

func (s *InMemoryOrderStore) List(ctx context.Context, filter *types.OrderFilter) ([]*order.Order, error) {
	if filter == nil {
		filter = types.NewNoLimitOrderFilter()
	}
	return s.InMemoryStore.List(ctx, filter, orderFilterFn, orderSortFn)
}

func (s *InMemoryOrderStore) Count(ctx context.Context, filter *types.OrderFilter) (int, error) {
	if filter == nil {
		filter = types.NewNoLimitOrderFilter()
	}
	return s.InMemoryStore.Count(ctx, filter, orderFilterFn)
}
