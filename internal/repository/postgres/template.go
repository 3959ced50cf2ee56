package postgres

import (
	"context"

	"github.com/Ontinet-com/contract/internal/domain/contract"
	"github.com/Ontinet-com/contract/internal/logger"
	"github.com/Ontinet-com/contract/internal/postgres"
	"github.com/Ontinet-com/contract/internal/types"
	"github.com/lib/pq"
)

type templateRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

func NewContractTemplateRepository(db *postgres.DB, logger *logger.Logger) contract.TemplateRepository {
	return &templateRepository{db: db, logger: logger}
}

// Create stores the template and its lines. Callers wrap it in a transaction.
func (r *templateRepository) Create(ctx context.Context, t *contract.ContractTemplate) error {
	query := `
		INSERT INTO contract_templates (
			id, tenant_id, name, contract_type,
			status, created_at, updated_at, created_by, updated_by
		) VALUES (
			:id, :tenant_id, :name, :contract_type,
			:status, :created_at, :updated_at, :created_by, :updated_by
		)
	`

	r.logger.Debugw("creating contract template",
		"template_id", t.ID,
		"lines", len(t.Lines),
	)

	if _, err := r.db.NamedExecContext(ctx, query, t); err != nil {
		return dbError(err, "Failed to create contract template", map[string]any{
			"template_id": t.ID,
		})
	}

	if len(t.Lines) == 0 {
		return nil
	}

	lineQuery := `
		INSERT INTO contract_template_lines (
			id, tenant_id, template_id, product_id, name, quantity, uom_id,
			price_unit, discount, automatic_price, recurring_rule_type,
			recurring_interval, recurring_invoicing_type, is_auto_renew,
			auto_renew_interval, auto_renew_rule_type, sequence
		) VALUES (
			:id, :tenant_id, :template_id, :product_id, :name, :quantity, :uom_id,
			:price_unit, :discount, :automatic_price, :recurring_rule_type,
			:recurring_interval, :recurring_invoicing_type, :is_auto_renew,
			:auto_renew_interval, :auto_renew_rule_type, :sequence
		)
	`
	if _, err := r.db.NamedExecContext(ctx, lineQuery, t.Lines); err != nil {
		return dbError(err, "Failed to create contract template lines", map[string]any{
			"template_id": t.ID,
		})
	}
	return nil
}

func (r *templateRepository) Get(ctx context.Context, id string) (*contract.ContractTemplate, error) {
	query := `
		SELECT * FROM contract_templates
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
		return nil, getError(err, "Contract template", id)
	}

	var t contract.ContractTemplate
	if err := scanOne(rows, &t); err != nil {
		return nil, getError(err, "Contract template", id)
	}

	lines, err := r.listLines(ctx, []string{t.ID})
	if err != nil {
		return nil, err
	}
	t.Lines = lines[t.ID]
	return &t, nil
}

func (r *templateRepository) listLines(ctx context.Context, templateIDs []string) (map[string][]*contract.TemplateLine, error) {
	query := `
		SELECT * FROM contract_template_lines
		WHERE template_id = ANY(:template_ids)
		AND tenant_id = :tenant_id
		ORDER BY sequence ASC, id ASC
	`

	rows, err := r.db.NamedQueryContext(ctx, query, map[string]any{
		"template_ids": pq.StringArray(templateIDs),
		"tenant_id":    types.GetTenantID(ctx),
	})
	if err != nil {
		return nil, dbError(err, "Failed to list contract template lines", nil)
	}
	lines, err := scanAll[contract.TemplateLine](rows)
	if err != nil {
		return nil, dbError(err, "Failed to list contract template lines", nil)
	}

	byTemplate := make(map[string][]*contract.TemplateLine, len(templateIDs))
	for _, line := range lines {
		byTemplate[line.TemplateID] = append(byTemplate[line.TemplateID], line)
	}
	return byTemplate, nil
}

func (r *templateRepository) where(ctx context.Context, filter *types.ContractTemplateFilter) *whereClause {
	w := newWhereClause(filter.QueryFilter.ToMap())
	w.add("t.tenant_id = :tenant_id", "tenant_id", types.GetTenantID(ctx))
	w.add("t.status = :status", "", nil)
	if len(filter.TemplateIDs) > 0 {
		w.add("t.id = ANY(:template_ids)", "template_ids", pq.StringArray(filter.TemplateIDs))
	}
	if filter.ContractType != "" {
		w.add("t.contract_type = :contract_type", "contract_type", filter.ContractType)
	}
	return w
}

func (r *templateRepository) List(ctx context.Context, filter *types.ContractTemplateFilter) ([]*contract.ContractTemplate, error) {
	if filter == nil {
		filter = &types.ContractTemplateFilter{QueryFilter: types.NewNoLimitQueryFilter()}
	}

	w := r.where(ctx, filter)
	query := `SELECT t.* FROM contract_templates t WHERE TRUE` + w.String() + pagination("t", filter)

	rows, err := r.db.NamedQueryContext(ctx, query, w.params)
	if err != nil {
		return nil, dbError(err, "Failed to list contract templates", nil)
	}
	templates, err := scanAll[contract.ContractTemplate](rows)
	if err != nil {
		return nil, dbError(err, "Failed to list contract templates", nil)
	}
	if len(templates) == 0 {
		return templates, nil
	}

	ids := make([]string, len(templates))
	for i, t := range templates {
		ids[i] = t.ID
	}
	lines, err := r.listLines(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, t := range templates {
		t.Lines = lines[t.ID]
	}
	return templates, nil
}

func (r *templateRepository) Count(ctx context.Context, filter *types.ContractTemplateFilter) (int, error) {
	if filter == nil {
		filter = &types.ContractTemplateFilter{QueryFilter: types.NewNoLimitQueryFilter()}
	}

	w := r.where(ctx, filter)
	rows, err := r.db.NamedQueryContext(ctx, `SELECT COUNT(*) FROM contract_templates t WHERE TRUE`+w.String(), w.params)
	if err != nil {
		return 0, dbError(err, "Failed to count contract templates", nil)
	}
	count, err := countRows(rows)
	if err != nil {
		return 0, dbError(err, "Failed to count contract templates", nil)
	}
	return count, nil
}
