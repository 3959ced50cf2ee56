package testutil

import (
	"context"
	"fmt"
	"sort"

	"github.com/Ontinet-com/contract/internal/domain/contract"
	"github.com/Ontinet-com/contract/internal/types"
	"github.com/samber/lo"
)

// InMemoryContractStore implements contract.Repository. Lines live in the
// line store and are joined in on the reads that ask for them.
type InMemoryContractStore struct {
	*InMemoryStore[*contract.Contract]
	lines *InMemoryContractLineStore
}

// NewInMemoryContractStore creates a new in-memory contract store reading lines from lines
func NewInMemoryContractStore(lines *InMemoryContractLineStore) *InMemoryContractStore {
	return &InMemoryContractStore{
		InMemoryStore: NewInMemoryStore[*contract.Contract](func(c *contract.Contract) *contract.Contract {
			cp := c.Clone()
			cp.Lines = nil
			return cp
		}),
		lines: lines,
	}
}

// contractFilterFn implements filtering logic for contracts
func (s *InMemoryContractStore) contractFilterFn(ctx context.Context, c *contract.Contract, filter interface{}) bool {
	if c == nil {
		return false
	}

	if !CheckTenantFilter(ctx, c.TenantID) {
		return false
	}

	f, ok := filter.(*types.ContractFilter)
	if !ok {
		return true // No filter applied
	}

	if !CheckStatusFilter(f, c.Status) {
		return false
	}
	if len(f.ContractIDs) > 0 && !lo.Contains(f.ContractIDs, c.ID) {
		return false
	}
	if f.PartnerID != "" && c.PartnerID != f.PartnerID {
		return false
	}
	if f.ContractType != "" && c.ContractType != f.ContractType {
		return false
	}
	if f.GenerationTypeSet && c.GenerationType != f.GenerationType {
		return false
	}
	if f.DueBefore != nil {
		lines, _ := s.lines.ListByContract(ctx, c.ID)
		if !lo.SomeBy(lines, func(l *contract.ContractLine) bool { return l.IsDue(*f.DueBefore) }) {
			return false
		}
	}

	return true
}

// contractSortFn orders contracts by creation time, oldest first
func contractSortFn(i, j *contract.Contract) bool {
	if i == nil || j == nil {
		return false
	}
	if i.CreatedAt.Equal(j.CreatedAt) {
		return i.ID < j.ID
	}
	return i.CreatedAt.Before(j.CreatedAt)
}

func (s *InMemoryContractStore) Create(ctx context.Context, c *contract.Contract) error {
	if c == nil {
		return fmt.Errorf("contract cannot be nil")
	}
	return s.InMemoryStore.Create(ctx, c.ID, c)
}

func (s *InMemoryContractStore) Get(ctx context.Context, id string) (*contract.Contract, error) {
	return s.InMemoryStore.Get(ctx, id)
}

func (s *InMemoryContractStore) GetWithLines(ctx context.Context, id string) (*contract.Contract, error) {
	c, err := s.InMemoryStore.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.Lines, err = s.lines.ListByContract(ctx, id); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *InMemoryContractStore) Update(ctx context.Context, c *contract.Contract) error {
	if c == nil {
		return fmt.Errorf("contract cannot be nil")
	}
	return s.InMemoryStore.Update(ctx, c.ID, c)
}

// Delete soft deletes the contract
func (s *InMemoryContractStore) Delete(ctx context.Context, id string) error {
	c, err := s.InMemoryStore.Get(ctx, id)
	if err != nil {
		return err
	}
	c.Status = types.StatusDeleted
	c.Touch(ctx)
	return s.InMemoryStore.Update(ctx, id, c)
}

func (s *InMemoryContractStore) List(ctx context.Context, filter *types.ContractFilter) ([]*contract.Contract, error) {
	if filter == nil {
		filter = types.NewNoLimitContractFilter()
	}
	contracts, err := s.InMemoryStore.List(ctx, filter, s.contractFilterFn, contractSortFn)
	if err != nil {
		return nil, err
	}
	if filter.WithLines {
		for _, c := range contracts {
			if c.Lines, err = s.lines.ListByContract(ctx, c.ID); err != nil {
				return nil, err
			}
		}
	}
	return contracts, nil
}

func (s *InMemoryContractStore) Count(ctx context.Context, filter *types.ContractFilter) (int, error) {
	if filter == nil {
		filter = types.NewNoLimitContractFilter()
	}
	return s.InMemoryStore.Count(ctx, filter, s.contractFilterFn)
}

// InMemoryContractLineStore implements contract.LineRepository
type InMemoryContractLineStore struct {
	*InMemoryStore[*contract.ContractLine]
}

func NewInMemoryContractLineStore() *InMemoryContractLineStore {
	return &InMemoryContractLineStore{
		InMemoryStore: NewInMemoryStore[*contract.ContractLine]((*contract.ContractLine).Clone),
	}
}

func (s *InMemoryContractLineStore) Create(ctx context.Context, line *contract.ContractLine) error {
	if line == nil {
		return fmt.Errorf("contract line cannot be nil")
	}
	return s.InMemoryStore.Create(ctx, line.ID, line)
}

func (s *InMemoryContractLineStore) CreateMany(ctx context.Context, lines []*contract.ContractLine) error {
	for _, line := range lines {
		if err := s.Create(ctx, line); err != nil {
			return err
		}
	}
	return nil
}

func (s *InMemoryContractLineStore) Get(ctx context.Context, id string) (*contract.ContractLine, error) {
	return s.InMemoryStore.Get(ctx, id)
}

func (s *InMemoryContractLineStore) Update(ctx context.Context, line *contract.ContractLine) error {
	if line == nil {
		return fmt.Errorf("contract line cannot be nil")
	}
	return s.InMemoryStore.Update(ctx, line.ID, line)
}

// Delete soft deletes the line
func (s *InMemoryContractLineStore) Delete(ctx context.Context, id string) error {
	line, err := s.InMemoryStore.Get(ctx, id)
	if err != nil {
		return err
	}
	line.Status = types.StatusDeleted
	line.Touch(ctx)
	return s.InMemoryStore.Update(ctx, id, line)
}

// ListByContract returns the live lines of a contract ordered by sequence
func (s *InMemoryContractLineStore) ListByContract(ctx context.Context, contractID string) ([]*contract.ContractLine, error) {
	lines, err := s.InMemoryStore.List(ctx, nil, func(ctx context.Context, l *contract.ContractLine, _ interface{}) bool {
		return l.ContractID == contractID &&
			l.Status != types.StatusDeleted &&
			CheckTenantFilter(ctx, l.TenantID)
	}, nil)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(lines, func(i, j int) bool {
		if lines[i].Sequence != lines[j].Sequence {
			return lines[i].Sequence < lines[j].Sequence
		}
		if !lines[i].CreatedAt.Equal(lines[j].CreatedAt) {
			return lines[i].CreatedAt.Before(lines[j].CreatedAt)
		}
		return lines[i].ID < lines[j].ID
	})
	return lines, nil
}

// InMemoryContractTemplateStore implements contract.TemplateRepository
type InMemoryContractTemplateStore struct {
	*InMemoryStore[*contract.ContractTemplate]
}

func NewInMemoryContractTemplateStore() *InMemoryContractTemplateStore {
	return &InMemoryContractTemplateStore{
		InMemoryStore: NewInMemoryStore[*contract.ContractTemplate]((*contract.ContractTemplate).Clone),
	}
}

func templateFilterFn(ctx context.Context, t *contract.ContractTemplate, filter interface{}) bool {
	if t == nil || !CheckTenantFilter(ctx, t.TenantID) {
		return false
	}
	f, ok := filter.(*types.ContractTemplateFilter)
	if !ok {
		return true
	}
	if !CheckStatusFilter(f, t.Status) {
		return false
	}
	if len(f.TemplateIDs) > 0 && !lo.Contains(f.TemplateIDs, t.ID) {
		return false
	}
	if f.ContractType != "" && t.ContractType != f.ContractType {
		return false
	}
	return true
}

func templateSortFn(i, j *contract.ContractTemplate) bool {
	return i.CreatedAt.Before(j.CreatedAt)
}

func (s *InMemoryContractTemplateStore) Create(ctx context.Context, t *contract.ContractTemplate) error {
	if t == nil {
		return fmt.Errorf("contract template cannot be nil")
	}
	return s.InMemoryStore.Create(ctx, t.ID, t)
}

func (s *InMemoryContractTemplateStore) Get(ctx context.Context, id string) (*contract.ContractTemplate, error) {
	return s.InMemoryStore.Get(ctx, id)
}

func (s *InMemoryContractTemplateStore) List(ctx context.Context, filter *types.ContractTemplateFilter) ([]*contract.ContractTemplate, error) {
	if filter == nil {
		filter = &types.ContractTemplateFilter{QueryFilter: types.NewNoLimitQueryFilter()}
	}
	return s.InMemoryStore.List(ctx, filter, templateFilterFn, templateSortFn)
}

func (s *InMemoryContractTemplateStore) Count(ctx context.Context, filter *types.ContractTemplateFilter) (int, error) {
	if filter == nil {
		filter = &types.ContractTemplateFilter{QueryFilter: types.NewNoLimitQueryFilter()}
	}
	return s.InMemoryStore.Count(ctx, filter, templateFilterFn)
}
