package contract

import (
	"context"

	"github.com/Ontinet-com/contract/internal/types"
)

// Repository persists contracts. Get and List load lines when asked to.
type Repository interface {
	Create(ctx context.Context, contract *Contract) error
	Get(ctx context.Context, id string) (*Contract, error)
	GetWithLines(ctx context.Context, id string) (*Contract, error)
	Update(ctx context.Context, contract *Contract) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter *types.ContractFilter) ([]*Contract, error)
	Count(ctx context.Context, filter *types.ContractFilter) (int, error)
}

// LineRepository persists contract lines
type LineRepository interface {
	Create(ctx context.Context, line *ContractLine) error
	CreateMany(ctx context.Context, lines []*ContractLine) error
	Get(ctx context.Context, id string) (*ContractLine, error)
	Update(ctx context.Context, line *ContractLine) error
	Delete(ctx context.Context, id string) error
	ListByContract(ctx context.Context, contractID string) ([]*ContractLine, error)
}

// TemplateRepository persists contract templates with their lines
type TemplateRepository interface {
	Create(ctx context.Context, template *ContractTemplate) error
	Get(ctx context.Context, id string) (*ContractTemplate, error)
	List(ctx context.Context, filter *types.ContractTemplateFilter) ([]*ContractTemplate, error)
	Count(ctx context.Context, filter *types.ContractTemplateFilter) (int, error)
}
