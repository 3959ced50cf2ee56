package postgres

import (
	"context"

	"github.com/Ontinet-com/contract/internal/domain/pricelist"
	"github.com/Ontinet-com/contract/internal/logger"
	"github.com/Ontinet-com/contract/internal/postgres"
	"github.com/Ontinet-com/contract/internal/types"
)

type pricelistRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

func NewPricelistRepository(db *postgres.DB, logger *logger.Logger) pricelist.Repository {
	return &pricelistRepository{db: db, logger: logger}
}

// Create stores the pricelist and its items. Callers wrap it in a transaction.
func (r *pricelistRepository) Create(ctx context.Context, pl *pricelist.Pricelist) error {
	query := `
		INSERT INTO pricelists (
			id, tenant_id, name, currency,
			status, created_at, updated_at, created_by, updated_by
		) VALUES (
			:id, :tenant_id, :name, :currency,
			:status, :created_at, :updated_at, :created_by, :updated_by
		)
	`

	r.logger.Debugw("creating pricelist", "pricelist_id", pl.ID, "items", len(pl.Items))

	if _, err := r.db.NamedExecContext(ctx, query, pl); err != nil {
		return dbError(err, "Failed to create pricelist", map[string]any{
			"pricelist_id": pl.ID,
		})
	}

	if len(pl.Items) == 0 {
		return nil
	}

	itemQuery := `
		INSERT INTO pricelist_items (
			id, tenant_id, pricelist_id, product_id, compute_price,
			fixed_price, percent_price, price_surcharge, base, sequence
		) VALUES (
			:id, :tenant_id, :pricelist_id, :product_id, :compute_price,
			:fixed_price, :percent_price, :price_surcharge, :base, :sequence
		)
	`
	if _, err := r.db.NamedExecContext(ctx, itemQuery, pl.Items); err != nil {
		return dbError(err, "Failed to create pricelist items", map[string]any{
			"pricelist_id": pl.ID,
		})
	}
	return nil
}

func (r *pricelistRepository) Get(ctx context.Context, id string) (*pricelist.Pricelist, error) {
	params := map[string]any{
		"id":        id,
		"tenant_id": types.GetTenantID(ctx),
		"deleted":   types.StatusDeleted,
	}

	rows, err := r.db.NamedQueryContext(ctx, `
		SELECT * FROM pricelists
		WHERE id = :id
		AND tenant_id = :tenant_id
		AND status != :deleted
	`, params)
	if err != nil {
		return nil, getError(err, "Pricelist", id)
	}

	var pl pricelist.Pricelist
	if err := scanOne(rows, &pl); err != nil {
		return nil, getError(err, "Pricelist", id)
	}

	itemRows, err := r.db.NamedQueryContext(ctx, `
		SELECT * FROM pricelist_items
		WHERE pricelist_id = :id
		AND tenant_id = :tenant_id
		ORDER BY sequence ASC, id ASC
	`, params)
	if err != nil {
		return nil, dbError(err, "Failed to list pricelist items", map[string]any{
			"pricelist_id": id,
		})
	}
	if pl.Items, err = scanAll[pricelist.Item](itemRows); err != nil {
		return nil, dbError(err, "Failed to list pricelist items", map[string]any{
			"pricelist_id": id,
		})
	}
	return &pl, nil
}
