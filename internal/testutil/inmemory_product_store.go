package testutil

import (
	"context"
	"fmt"
	"strings"

	"github.com/Ontinet-com/contract/internal/domain/pricelist"
	"github.com/Ontinet-com/contract/internal/domain/product"
	"github.com/Ontinet-com/contract/internal/types"
	"github.com/samber/lo"
)

// InMemoryProductStore implements product.Repository
type InMemoryProductStore struct {
	*InMemoryStore[*product.Product]
}

func NewInMemoryProductStore() *InMemoryProductStore {
	return &InMemoryProductStore{
		InMemoryStore: NewInMemoryStore[*product.Product]((*product.Product).Clone),
	}
}

func productFilterFn(ctx context.Context, p *product.Product, filter interface{}) bool {
	if p == nil || !CheckTenantFilter(ctx, p.TenantID) {
		return false
	}
	f, ok := filter.(*types.ProductFilter)
	if !ok {
		return true
	}
	if !CheckStatusFilter(f, p.Status) {
		return false
	}
	if len(f.ProductIDs) > 0 && !lo.Contains(f.ProductIDs, p.ID) {
		return false
	}
	if f.Name != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(f.Name)) {
		return false
	}
	return true
}

func productSortFn(i, j *product.Product) bool {
	return i.Name < j.Name
}

func (s *InMemoryProductStore) Create(ctx context.Context, p *product.Product) error {
	if p == nil {
		return fmt.Errorf("product cannot be nil")
	}
	return s.InMemoryStore.Create(ctx, p.ID, p)
}

func (s *InMemoryProductStore) Get(ctx context.Context, id string) (*product.Product, error) {
	return s.InMemoryStore.Get(ctx, id)
}

func (s *InMemoryProductStore) List(ctx context.Context, filter *types.ProductFilter) ([]*product.Product, error) {
	if filter == nil {
		filter = &types.ProductFilter{QueryFilter: types.NewNoLimitQueryFilter()}
	}
	return s.InMemoryStore.List(ctx, filter, productFilterFn, productSortFn)
}

func (s *InMemoryProductStore) Count(ctx context.Context, filter *types.ProductFilter) (int, error) {
	if filter == nil {
		filter = &types.ProductFilter{QueryFilter: types.NewNoLimitQueryFilter()}
	}
	return s.InMemoryStore.Count(ctx, filter, productFilterFn)
}

func (s *InMemoryProductStore) Update(ctx context.Context, p *product.Product) error {
	if p == nil {
		return fmt.Errorf("product cannot be nil")
	}
	return s.InMemoryStore.Update(ctx, p.ID, p)
}

// InMemoryPricelistStore implements pricelist.Repository
type InMemoryPricelistStore struct {
	*InMemoryStore[*pricelist.Pricelist]
}

func NewInMemoryPricelistStore() *InMemoryPricelistStore {
	return &InMemoryPricelistStore{
		InMemoryStore: NewInMemoryStore[*pricelist.Pricelist]((*pricelist.Pricelist).Clone),
	}
}

func (s *InMemoryPricelistStore) Create(ctx context.Context, pl *pricelist.Pricelist) error {
	if pl == nil {
		return fmt.Errorf("pricelist cannot be nil")
	}
	return s.InMemoryStore.Create(ctx, pl.ID, pl)
}

func (s *InMemoryPricelistStore) Get(ctx context.Context, id string) (*pricelist.Pricelist, error) {
	return s.InMemoryStore.Get(ctx, id)
}
