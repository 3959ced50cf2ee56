package postgres

import (
	"context"

	"github.com/Ontinet-com/contract/internal/domain/product"
	"github.com/Ontinet-com/contract/internal/logger"
	"github.com/Ontinet-com/contract/internal/postgres"
	"github.com/Ontinet-com/contract/internal/types"
	"github.com/lib/pq"
)

type productRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

func NewProductRepository(db *postgres.DB, logger *logger.Logger) product.Repository {
	return &productRepository{db: db, logger: logger}
}

func (r *productRepository) Create(ctx context.Context, p *product.Product) error {
	query := `
		INSERT INTO products (
			id, tenant_id, name, description_sale, description_purchase,
			uom_id, uom_category_id, list_price, standard_price,
			sale_tax_ids, purchase_tax_ids,
			status, created_at, updated_at, created_by, updated_by
		) VALUES (
			:id, :tenant_id, :name, :description_sale, :description_purchase,
			:uom_id, :uom_category_id, :list_price, :standard_price,
			:sale_tax_ids, :purchase_tax_ids,
			:status, :created_at, :updated_at, :created_by, :updated_by
		)
	`

	r.logger.Debugw("creating product", "product_id", p.ID, "name", p.Name)

	if _, err := r.db.NamedExecContext(ctx, query, p); err != nil {
		return dbError(err, "Failed to create product", map[string]any{
			"product_id": p.ID,
		})
	}
	return nil
}

func (r *productRepository) Get(ctx context.Context, id string) (*product.Product, error) {
	query := `
		SELECT * FROM products
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
		return nil, getError(err, "Product", id)
	}

	var p product.Product
	if err := scanOne(rows, &p); err != nil {
		return nil, getError(err, "Product", id)
	}
	return &p, nil
}

func (r *productRepository) where(ctx context.Context, filter *types.ProductFilter) *whereClause {
	w := newWhereClause(filter.QueryFilter.ToMap())
	w.add("p.tenant_id = :tenant_id", "tenant_id", types.GetTenantID(ctx))
	w.add("p.status = :status", "", nil)
	if len(filter.ProductIDs) > 0 {
		w.add("p.id = ANY(:product_ids)", "product_ids", pq.StringArray(filter.ProductIDs))
	}
	if filter.Name != "" {
		w.add("p.name ILIKE '%' || :name || '%'", "name", filter.Name)
	}
	return w
}

func (r *productRepository) List(ctx context.Context, filter *types.ProductFilter) ([]*product.Product, error) {
	if filter == nil {
		filter = &types.ProductFilter{QueryFilter: types.NewNoLimitQueryFilter()}
	}

	w := r.where(ctx, filter)
	rows, err := r.db.NamedQueryContext(ctx, `SELECT p.* FROM products p WHERE TRUE`+w.String()+pagination("p", filter), w.params)
	if err != nil {
		return nil, dbError(err, "Failed to list products", nil)
	}
	products, err := scanAll[product.Product](rows)
	if err != nil {
		return nil, dbError(err, "Failed to list products", nil)
	}
	return products, nil
}

func (r *productRepository) Count(ctx context.Context, filter *types.ProductFilter) (int, error) {
	if filter == nil {
		filter = &types.ProductFilter{QueryFilter: types.NewNoLimitQueryFilter()}
	}

	w := r.where(ctx, filter)
	rows, err := r.db.NamedQueryContext(ctx, `SELECT COUNT(*) FROM products p WHERE TRUE`+w.String(), w.params)
	if err != nil {
		return 0, dbError(err, "Failed to count products", nil)
	}
	count, err := countRows(rows)
	if err != nil {
		return 0, dbError(err, "Failed to count products", nil)
	}
	return count, nil
}

func (r *productRepository) Update(ctx context.Context, p *product.Product) error {
	query := `
		UPDATE products
		SET name = :name,
		description_sale = :description_sale,
		description_purchase = :description_purchase,
		uom_id = :uom_id,
		uom_category_id = :uom_category_id,
		list_price = :list_price,
		standard_price = :standard_price,
		sale_tax_ids = :sale_tax_ids,
		purchase_tax_ids = :purchase_tax_ids,
		status = :status,
		updated_at = :updated_at,
		updated_by = :updated_by
		WHERE id = :id
		AND tenant_id = :tenant_id
	`

	result, err := r.db.NamedExecContext(ctx, query, p)
	if err != nil {
		return dbError(err, "Failed to update product", map[string]any{
			"product_id": p.ID,
		})
	}
	return checkAffected(result, "Product", p.ID)
}
