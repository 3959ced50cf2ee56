package postgres

import (
	"context"

	"github.com/Ontinet-com/contract/internal/domain/order"
	"github.com/Ontinet-com/contract/internal/logger"
	"github.com/Ontinet-com/contract/internal/postgres"
	"github.com/Ontinet-com/contract/internal/types"
	"github.com/lib/pq"
)

type orderRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

func NewOrderRepository(db *postgres.DB, logger *logger.Logger) order.Repository {
	return &orderRepository{db: db, logger: logger}
}

// Create stores the order with its lines. Callers wrap it in a transaction.
func (r *orderRepository) Create(ctx context.Context, o *order.Order) error {
	query := `
		INSERT INTO orders (
			id,
			tenant_id,
			name,
			kind,
			state,
			partner_id,
			pricelist_id,
			user_id,
			analytic_account_id,
			origin,
			contract_id,
			date_order,
			confirmed_at,
			status,
			created_at,
			updated_at,
			created_by,
			updated_by
		) VALUES (
			:id,
			:tenant_id,
			:name,
			:kind,
			:state,
			:partner_id,
			:pricelist_id,
			:user_id,
			:analytic_account_id,
			:origin,
			:contract_id,
			:date_order,
			:confirmed_at,
			:status,
			:created_at,
			:updated_at,
			:created_by,
			:updated_by
		)
	`

	r.logger.Debugw("creating order",
		"order_id", o.ID,
		"contract_id", o.ContractID,
		"lines", len(o.Lines),
	)

	if _, err := r.db.NamedExecContext(ctx, query, o); err != nil {
		return dbError(err, "Failed to create order", map[string]any{
			"order_id":    o.ID,
			"contract_id": o.ContractID,
		})
	}

	if len(o.Lines) == 0 {
		return nil
	}

	lineQuery := `
		INSERT INTO order_lines (
			id, tenant_id, order_id, contract_line_id, product_id, name,
			quantity, uom_id, price_unit, discount, tax_ids,
			period_start, period_end, sequence,
			status, created_at, updated_at, created_by, updated_by
		) VALUES (
			:id, :tenant_id, :order_id, :contract_line_id, :product_id, :name,
			:quantity, :uom_id, :price_unit, :discount, :tax_ids,
			:period_start, :period_end, :sequence,
			:status, :created_at, :updated_at, :created_by, :updated_by
		)
	`
	if _, err := r.db.NamedExecContext(ctx, lineQuery, o.Lines); err != nil {
		return dbError(err, "Failed to create order lines", map[string]any{
			"order_id": o.ID,
		})
	}
	return nil
}

func (r *orderRepository) Get(ctx context.Context, id string) (*order.Order, error) {
	query := `
		SELECT * FROM orders
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
		return nil, getError(err, "Order", id)
	}

	var o order.Order
	if err := scanOne(rows, &o); err != nil {
		return nil, getError(err, "Order", id)
	}

	lines, err := r.listLines(ctx, []string{o.ID})
	if err != nil {
		return nil, err
	}
	o.Lines = lines[o.ID]
	return &o, nil
}

// Update writes the header only. Generated lines are immutable.
func (r *orderRepository) Update(ctx context.Context, o *order.Order) error {
	query := `
		UPDATE orders
		SET state = :state,
		confirmed_at = :confirmed_at,
		user_id = :user_id,
		analytic_account_id = :analytic_account_id,
		status = :status,
		updated_at = :updated_at,
		updated_by = :updated_by
		WHERE id = :id
		AND tenant_id = :tenant_id
	`

	r.logger.Debugw("updating order", "order_id", o.ID, "state", o.State)

	result, err := r.db.NamedExecContext(ctx, query, o)
	if err != nil {
		return dbError(err, "Failed to update order", map[string]any{
			"order_id": o.ID,
		})
	}
	return checkAffected(result, "Order", o.ID)
}

func (r *orderRepository) listLines(ctx context.Context, orderIDs []string) (map[string][]*order.OrderLine, error) {
	query := `
		SELECT * FROM order_lines
		WHERE order_id = ANY(:order_ids)
		AND tenant_id = :tenant_id
		ORDER BY sequence ASC, id ASC
	`

	rows, err := r.db.NamedQueryContext(ctx, query, map[string]any{
		"order_ids": pq.StringArray(orderIDs),
		"tenant_id": types.GetTenantID(ctx),
	})
	if err != nil {
		return nil, dbError(err, "Failed to list order lines", nil)
	}
	lines, err := scanAll[order.OrderLine](rows)
	if err != nil {
		return nil, dbError(err, "Failed to list order lines", nil)
	}

	byOrder := make(map[string][]*order.OrderLine, len(orderIDs))
	for _, line := range lines {
		byOrder[line.OrderID] = append(byOrder[line.OrderID], line)
	}
	return byOrder, nil
}

func (r *orderRepository) where(ctx context.Context, filter *types.OrderFilter) *whereClause {
	w := newWhereClause(filter.ToMap())
	w.add("o.tenant_id = :tenant_id", "tenant_id", types.GetTenantID(ctx))
	w.add("o.status = :status", "", nil)
	if len(filter.OrderIDs) > 0 {
		w.add("o.id = ANY(:order_ids)", "order_ids", pq.StringArray(filter.OrderIDs))
	}
	if len(filter.ContractLineIDs) > 0 {
		w.add(`EXISTS (
			SELECT 1 FROM order_lines ol
			WHERE ol.order_id = o.id
			AND ol.tenant_id = o.tenant_id
			AND ol.contract_line_id = ANY(:contract_line_ids)
		)`, "contract_line_ids", pq.StringArray(filter.ContractLineIDs))
	}
	if filter.ContractID != "" {
		w.add("o.contract_id = :contract_id", "", nil)
	}
	if filter.PartnerID != "" {
		w.add("o.partner_id = :partner_id", "", nil)
	}
	if filter.Kind != "" {
		w.add("o.kind = :kind", "", nil)
	}
	if filter.State != "" {
		w.add("o.state = :state", "", nil)
	}
	return w
}

func (r *orderRepository) List(ctx context.Context, filter *types.OrderFilter) ([]*order.Order, error) {
	if filter == nil {
		filter = types.NewNoLimitOrderFilter()
	}

	w := r.where(ctx, filter)
	query := `SELECT o.* FROM orders o WHERE TRUE` + w.String() + pagination("o", filter)

	rows, err := r.db.NamedQueryContext(ctx, query, w.params)
	if err != nil {
		return nil, dbError(err, "Failed to list orders", nil)
	}
	orders, err := scanAll[order.Order](rows)
	if err != nil {
		return nil, dbError(err, "Failed to list orders", nil)
	}
	if len(orders) == 0 {
		return orders, nil
	}

	ids := make([]string, len(orders))
	for i, o := range orders {
		ids[i] = o.ID
	}
	lines, err := r.listLines(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, o := range orders {
		o.Lines = lines[o.ID]
	}
	return orders, nil
}

func (r *orderRepository) Count(ctx context.Context, filter *types.OrderFilter) (int, error) {
	if filter == nil {
		filter = types.NewNoLimitOrderFilter()
	}

	w := r.where(ctx, filter)
	rows, err := r.db.NamedQueryContext(ctx, `SELECT COUNT(*) FROM orders o WHERE TRUE`+w.String(), w.params)
	if err != nil {
		return 0, dbError(err, "Failed to count orders", nil)
	}
	count, err := countRows(rows)
	if err != nil {
		return 0, dbError(err, "Failed to count orders", nil)
	}
	return count, nil
}
