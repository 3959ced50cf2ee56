package postgres

import (
	"context"
	"time"

	"github.com/Ontinet-com/contract/internal/domain/contract"
	"github.com/Ontinet-com/contract/internal/logger"
	"github.com/Ontinet-com/contract/internal/postgres"
	"github.com/Ontinet-com/contract/internal/types"
	"github.com/lib/pq"
)

type contractRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

func NewContractRepository(db *postgres.DB, logger *logger.Logger) contract.Repository {
	return &contractRepository{db: db, logger: logger}
}

func (r *contractRepository) Create(ctx context.Context, c *contract.Contract) error {
	query := `
		INSERT INTO contracts (
			id,
			tenant_id,
			name,
			code,
			partner_id,
			contract_type,
			generation_type,
			auto_confirm,
			pricelist_id,
			user_id,
			group_id,
			contract_template_id,
			note,
			status,
			created_at,
			updated_at,
			created_by,
			updated_by
		) VALUES (
			:id,
			:tenant_id,
			:name,
			:code,
			:partner_id,
			:contract_type,
			:generation_type,
			:auto_confirm,
			:pricelist_id,
			:user_id,
			:group_id,
			:contract_template_id,
			:note,
			:status,
			:created_at,
			:updated_at,
			:created_by,
			:updated_by
		)
	`

	r.logger.Debugw("creating contract",
		"contract_id", c.ID,
		"tenant_id", c.TenantID,
	)

	if _, err := r.db.NamedExecContext(ctx, query, c); err != nil {
		return dbError(err, "Failed to create contract", map[string]any{
			"contract_id": c.ID,
		})
	}
	return nil
}

func (r *contractRepository) Get(ctx context.Context, id string) (*contract.Contract, error) {
	query := `
		SELECT * FROM contracts
		WHERE id = :id
		AND tenant_id = :tenant_id
		AND status != :deleted
	`

	rows, err := r.db.NamedQueryContext(ctx, query, map[string]any{
		"id":        id,
		"tenant_id": types.GetTenantID(ctx),
		"deleted":   types.StatusDeleted,
	})
	if err != nil {
		return nil, getError(err, "Contract", id)
	}

	var c contract.Contract
	if err := scanOne(rows, &c); err != nil {
		return nil, getError(err, "Contract", id)
	}
	return &c, nil
}

func (r *contractRepository) GetWithLines(ctx context.Context, id string) (*contract.Contract, error) {
	c, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	lines, err := listLines(ctx, r.db, []string{c.ID})
	if err != nil {
		return nil, err
	}
	c.Lines = lines[c.ID]
	return c, nil
}

func (r *contractRepository) Update(ctx context.Context, c *contract.Contract) error {
	query := `
		UPDATE contracts
		SET name = :name,
		code = :code,
		partner_id = :partner_id,
		contract_type = :contract_type,
		generation_type = :generation_type,
		auto_confirm = :auto_confirm,
		pricelist_id = :pricelist_id,
		user_id = :user_id,
		group_id = :group_id,
		contract_template_id = :contract_template_id,
		note = :note,
		status = :status,
		updated_at = :updated_at,
		updated_by = :updated_by
		WHERE id = :id
		AND tenant_id = :tenant_id
	`

	r.logger.Debugw("updating contract", "contract_id", c.ID)

	result, err := r.db.NamedExecContext(ctx, query, c)
	if err != nil {
		return dbError(err, "Failed to update contract", map[string]any{
			"contract_id": c.ID,
		})
	}
	return checkAffected(result, "Contract", c.ID)
}

func (r *contractRepository) Delete(ctx context.Context, id string) error {
	query := `
		UPDATE contracts
		SET status = :status,
		updated_at = :updated_at,
		updated_by = :updated_by
		WHERE id = :id
		AND tenant_id = :tenant_id
	`

	r.logger.Debugw("deleting contract", "contract_id", id)

	result, err := r.db.NamedExecContext(ctx, query, map[string]any{
		"id":         id,
		"status":     types.StatusDeleted,
		"updated_at": time.Now().UTC(),
		"updated_by": types.GetUserID(ctx),
		"tenant_id":  types.GetTenantID(ctx),
	})
	if err != nil {
		return dbError(err, "Failed to delete contract", map[string]any{
			"contract_id": id,
		})
	}
	return checkAffected(result, "Contract", id)
}

// dueLineCondition mirrors ContractLine.IsDue
const dueLineCondition = `EXISTS (
			SELECT 1 FROM contract_lines cl
			WHERE cl.contract_id = c.id
			AND cl.tenant_id = c.tenant_id
			AND cl.active
			AND cl.status = 'published'
			AND cl.recurring_next_date IS NOT NULL
			AND cl.recurring_next_date <= :due_before
			AND (cl.date_end IS NULL OR cl.is_auto_renew OR cl.recurring_next_date <= cl.date_end)
		)`

func (r *contractRepository) where(ctx context.Context, filter *types.ContractFilter) *whereClause {
	w := newWhereClause(filter.ToMap())
	w.add("c.tenant_id = :tenant_id", "tenant_id", types.GetTenantID(ctx))
	w.add("c.status = :status", "", nil)
	if len(filter.ContractIDs) > 0 {
		w.add("c.id = ANY(:contract_ids)", "contract_ids", pq.StringArray(filter.ContractIDs))
	}
	if filter.PartnerID != "" {
		w.add("c.partner_id = :partner_id", "", nil)
	}
	if filter.ContractType != "" {
		w.add("c.contract_type = :contract_type", "", nil)
	}
	if filter.GenerationTypeSet {
		w.add("c.generation_type = :generation_type", "", nil)
	}
	if filter.DueBefore != nil {
		w.add(dueLineCondition, "due_before", types.ToDate(*filter.DueBefore))
	}
	return w
}

func (r *contractRepository) List(ctx context.Context, filter *types.ContractFilter) ([]*contract.Contract, error) {
	if filter == nil {
		filter = types.NewNoLimitContractFilter()
	}

	w := r.where(ctx, filter)
	query := `SELECT c.* FROM contracts c WHERE TRUE` + w.String() + pagination("c", filter)

	r.logger.Debugw("listing contracts",
		"tenant_id", types.GetTenantID(ctx),
		"limit", filter.GetLimit(),
		"offset", filter.GetOffset(),
	)

	rows, err := r.db.NamedQueryContext(ctx, query, w.params)
	if err != nil {
		return nil, dbError(err, "Failed to list contracts", nil)
	}
	contracts, err := scanAll[contract.Contract](rows)
	if err != nil {
		return nil, dbError(err, "Failed to list contracts", nil)
	}

	if filter.WithLines && len(contracts) > 0 {
		ids := make([]string, len(contracts))
		for i, c := range contracts {
			ids[i] = c.ID
		}
		lines, err := listLines(ctx, r.db, ids)
		if err != nil {
			return nil, err
		}
		for _, c := range contracts {
			c.Lines = lines[c.ID]
		}
	}
	return contracts, nil
}

func (r *contractRepository) Count(ctx context.Context, filter *types.ContractFilter) (int, error) {
	if filter == nil {
		filter = types.NewNoLimitContractFilter()
	}

	w := r.where(ctx, filter)
	query := `SELECT COUNT(*) FROM contracts c WHERE TRUE` + w.String()

	rows, err := r.db.NamedQueryContext(ctx, query, w.params)
	if err != nil {
		return 0, dbError(err, "Failed to count contracts", nil)
	}
	count, err := countRows(rows)
	if err != nil {
		return 0, dbError(err, "Failed to count contracts", nil)
	}
	return count, nil
}
