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

type contractLineRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

func NewContractLineRepository(db *postgres.DB, logger *logger.Logger) contract.LineRepository {
	return &contractLineRepository{db: db, logger: logger}
}

const insertContractLineQuery = `
	INSERT INTO contract_lines (
		id,
		tenant_id,
		contract_id,
		product_id,
		name,
		quantity,
		uom_id,
		price_unit,
		discount,
		automatic_price,
		recurring_rule_type,
		recurring_interval,
		recurring_invoicing_type,
		date_start,
		date_end,
		recurring_next_date,
		last_date_invoiced,
		is_auto_renew,
		auto_renew_interval,
		auto_renew_rule_type,
		active,
		sequence,
		status,
		created_at,
		updated_at,
		created_by,
		updated_by
	) VALUES (
		:id,
		:tenant_id,
		:contract_id,
		:product_id,
		:name,
		:quantity,
		:uom_id,
		:price_unit,
		:discount,
		:automatic_price,
		:recurring_rule_type,
		:recurring_interval,
		:recurring_invoicing_type,
		:date_start,
		:date_end,
		:recurring_next_date,
		:last_date_invoiced,
		:is_auto_renew,
		:auto_renew_interval,
		:auto_renew_rule_type,
		:active,
		:sequence,
		:status,
		:created_at,
		:updated_at,
		:created_by,
		:updated_by
	)
`

func (r *contractLineRepository) Create(ctx context.Context, line *contract.ContractLine) error {
	r.logger.Debugw("creating contract line",
		"contract_line_id", line.ID,
		"contract_id", line.ContractID,
	)

	if _, err := r.db.NamedExecContext(ctx, insertContractLineQuery, line); err != nil {
		return dbError(err, "Failed to create contract line", map[string]any{
			"contract_line_id": line.ID,
			"contract_id":      line.ContractID,
		})
	}
	return nil
}

// CreateMany inserts the lines in one statement
func (r *contractLineRepository) CreateMany(ctx context.Context, lines []*contract.ContractLine) error {
	if len(lines) == 0 {
		return nil
	}

	r.logger.Debugw("creating contract lines in bulk", "count", len(lines))

	if _, err := r.db.NamedExecContext(ctx, insertContractLineQuery, lines); err != nil {
		return dbError(err, "Failed to create contract lines", map[string]any{
			"count": len(lines),
		})
	}
	return nil
}

func (r *contractLineRepository) Get(ctx context.Context, id string) (*contract.ContractLine, error) {
	query := `
		SELECT * FROM contract_lines
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
		return nil, getError(err, "Contract line", id)
	}

	var line contract.ContractLine
	if err := scanOne(rows, &line); err != nil {
		return nil, getError(err, "Contract line", id)
	}
	return &line, nil
}

func (r *contractLineRepository) Update(ctx context.Context, line *contract.ContractLine) error {
	query := `
		UPDATE contract_lines
		SET product_id = :product_id,
		name = :name,
		quantity = :quantity,
		uom_id = :uom_id,
		price_unit = :price_unit,
		discount = :discount,
		automatic_price = :automatic_price,
		recurring_rule_type = :recurring_rule_type,
		recurring_interval = :recurring_interval,
		recurring_invoicing_type = :recurring_invoicing_type,
		date_start = :date_start,
		date_end = :date_end,
		recurring_next_date = :recurring_next_date,
		last_date_invoiced = :last_date_invoiced,
		is_auto_renew = :is_auto_renew,
		auto_renew_interval = :auto_renew_interval,
		auto_renew_rule_type = :auto_renew_rule_type,
		active = :active,
		sequence = :sequence,
		status = :status,
		updated_at = :updated_at,
		updated_by = :updated_by
		WHERE id = :id
		AND tenant_id = :tenant_id
	`

	r.logger.Debugw("updating contract line",
		"contract_line_id", line.ID,
		"recurring_next_date", line.RecurringNextDate,
	)

	result, err := r.db.NamedExecContext(ctx, query, line)
	if err != nil {
		return dbError(err, "Failed to update contract line", map[string]any{
			"contract_line_id": line.ID,
		})
	}
	return checkAffected(result, "Contract line", line.ID)
}

func (r *contractLineRepository) Delete(ctx context.Context, id string) error {
	query := `
		UPDATE contract_lines
		SET status = :status,
		updated_at = :updated_at,
		updated_by = :updated_by
		WHERE id = :id
		AND tenant_id = :tenant_id
	`

	result, err := r.db.NamedExecContext(ctx, query, map[string]any{
		"id":         id,
		"status":     types.StatusDeleted,
		"updated_at": time.Now().UTC(),
		"updated_by": types.GetUserID(ctx),
		"tenant_id":  types.GetTenantID(ctx),
	})
	if err != nil {
		return dbError(err, "Failed to delete contract line", map[string]any{
			"contract_line_id": id,
		})
	}
	return checkAffected(result, "Contract line", id)
}

func (r *contractLineRepository) ListByContract(ctx context.Context, contractID string) ([]*contract.ContractLine, error) {
	lines, err := listLines(ctx, r.db, []string{contractID})
	if err != nil {
		return nil, err
	}
	return lines[contractID], nil
}

// listLines loads the live lines of several contracts, grouped by contract id
func listLines(ctx context.Context, db *postgres.DB, contractIDs []string) (map[string][]*contract.ContractLine, error) {
	query := `
		SELECT * FROM contract_lines
		WHERE contract_id = ANY(:contract_ids)
		AND tenant_id = :tenant_id
		AND status != :deleted
		ORDER BY sequence ASC, created_at ASC, id ASC
	`

	rows, err := db.NamedQueryContext(ctx, query, map[string]any{
		"contract_ids": pq.StringArray(contractIDs),
		"tenant_id":    types.GetTenantID(ctx),
		"deleted":      types.StatusDeleted,
	})
	if err != nil {
		return nil, dbError(err, "Failed to list contract lines", nil)
	}
	lines, err := scanAll[contract.ContractLine](rows)
	if err != nil {
		return nil, dbError(err, "Failed to list contract lines", nil)
	}

	byContract := make(map[string][]*contract.ContractLine, len(contractIDs))
	for _, line := range lines {
		byContract[line.ContractID] = append(byContract[line.ContractID], line)
	}
	return byContract, nil
}
