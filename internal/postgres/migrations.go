package postgres

import (
	"context"

	ierr "github.com/Ontinet-com/contract/internal/errors"
)

var migrationStatements = []string{
	`CREATE TABLE IF NOT EXISTS products (
		id VARCHAR(50) PRIMARY KEY,
		tenant_id VARCHAR(50) NOT NULL,
		name TEXT NOT NULL,
		description_sale TEXT NOT NULL DEFAULT '',
		description_purchase TEXT NOT NULL DEFAULT '',
		uom_id VARCHAR(50) NOT NULL DEFAULT '',
		uom_category_id VARCHAR(50) NOT NULL DEFAULT '',
		list_price NUMERIC(18,4) NOT NULL DEFAULT 0,
		standard_price NUMERIC(18,4) NOT NULL DEFAULT 0,
		sale_tax_ids TEXT[] NOT NULL DEFAULT '{}',
		purchase_tax_ids TEXT[] NOT NULL DEFAULT '{}',
		status VARCHAR(20) NOT NULL DEFAULT 'published',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		created_by VARCHAR(50) NOT NULL DEFAULT '',
		updated_by VARCHAR(50) NOT NULL DEFAULT ''
	);`,
	`CREATE TABLE IF NOT EXISTS pricelists (
		id VARCHAR(50) PRIMARY KEY,
		tenant_id VARCHAR(50) NOT NULL,
		name TEXT NOT NULL,
		currency VARCHAR(3) NOT NULL,
		status VARCHAR(20) NOT NULL DEFAULT 'published',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		created_by VARCHAR(50) NOT NULL DEFAULT '',
		updated_by VARCHAR(50) NOT NULL DEFAULT ''
	);`,
	`CREATE TABLE IF NOT EXISTS pricelist_items (
		id VARCHAR(50) PRIMARY KEY,
		tenant_id VARCHAR(50) NOT NULL,
		pricelist_id VARCHAR(50) NOT NULL REFERENCES pricelists(id),
		product_id VARCHAR(50) NOT NULL DEFAULT '',
		compute_price VARCHAR(20) NOT NULL,
		fixed_price NUMERIC(18,4) NOT NULL DEFAULT 0,
		percent_price NUMERIC(7,4) NOT NULL DEFAULT 0,
		price_surcharge NUMERIC(18,4) NOT NULL DEFAULT 0,
		base VARCHAR(20) NOT NULL DEFAULT 'list_price',
		sequence INTEGER NOT NULL DEFAULT 10
	);`,
	`CREATE TABLE IF NOT EXISTS contract_templates (
		id VARCHAR(50) PRIMARY KEY,
		tenant_id VARCHAR(50) NOT NULL,
		name TEXT NOT NULL,
		contract_type VARCHAR(20) NOT NULL,
		status VARCHAR(20) NOT NULL DEFAULT 'published',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		created_by VARCHAR(50) NOT NULL DEFAULT '',
		updated_by VARCHAR(50) NOT NULL DEFAULT ''
	);`,
	`CREATE TABLE IF NOT EXISTS contract_template_lines (
		id VARCHAR(50) PRIMARY KEY,
		tenant_id VARCHAR(50) NOT NULL,
		template_id VARCHAR(50) NOT NULL REFERENCES contract_templates(id),
		product_id VARCHAR(50) NOT NULL,
		name TEXT NOT NULL,
		quantity NUMERIC(18,4) NOT NULL,
		uom_id VARCHAR(50) NOT NULL DEFAULT '',
		price_unit NUMERIC(18,4) NOT NULL DEFAULT 0,
		discount NUMERIC(7,4) NOT NULL DEFAULT 0,
		automatic_price BOOLEAN NOT NULL DEFAULT FALSE,
		recurring_rule_type VARCHAR(20) NOT NULL,
		recurring_interval INTEGER NOT NULL DEFAULT 1,
		recurring_invoicing_type VARCHAR(20) NOT NULL DEFAULT 'pre-paid',
		is_auto_renew BOOLEAN NOT NULL DEFAULT FALSE,
		auto_renew_interval INTEGER NOT NULL DEFAULT 1,
		auto_renew_rule_type VARCHAR(20) NOT NULL DEFAULT 'yearly',
		sequence INTEGER NOT NULL DEFAULT 10
	);`,
	`CREATE TABLE IF NOT EXISTS contracts (
		id VARCHAR(50) PRIMARY KEY,
		tenant_id VARCHAR(50) NOT NULL,
		name TEXT NOT NULL,
		code VARCHAR(100) NOT NULL DEFAULT '',
		partner_id VARCHAR(50) NOT NULL,
		contract_type VARCHAR(20) NOT NULL,
		generation_type VARCHAR(20) NOT NULL DEFAULT '',
		auto_confirm BOOLEAN NOT NULL DEFAULT FALSE,
		pricelist_id VARCHAR(50) NOT NULL DEFAULT '',
		user_id VARCHAR(50) NOT NULL DEFAULT '',
		group_id VARCHAR(50) NOT NULL DEFAULT '',
		contract_template_id VARCHAR(50) NOT NULL DEFAULT '',
		note TEXT NOT NULL DEFAULT '',
		status VARCHAR(20) NOT NULL DEFAULT 'published',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		created_by VARCHAR(50) NOT NULL DEFAULT '',
		updated_by VARCHAR(50) NOT NULL DEFAULT ''
	);`,
	`CREATE INDEX IF NOT EXISTS idx_contracts_tenant_generation ON contracts (tenant_id, generation_type, status);`,
	`CREATE INDEX IF NOT EXISTS idx_contracts_tenant_partner ON contracts (tenant_id, partner_id);`,
	`CREATE TABLE IF NOT EXISTS contract_lines (
		id VARCHAR(50) PRIMARY KEY,
		tenant_id VARCHAR(50) NOT NULL,
		contract_id VARCHAR(50) NOT NULL REFERENCES contracts(id),
		product_id VARCHAR(50) NOT NULL,
		name TEXT NOT NULL,
		quantity NUMERIC(18,4) NOT NULL,
		uom_id VARCHAR(50) NOT NULL DEFAULT '',
		price_unit NUMERIC(18,4) NOT NULL DEFAULT 0,
		discount NUMERIC(7,4) NOT NULL DEFAULT 0 CHECK (discount >= 0 AND discount <= 100),
		automatic_price BOOLEAN NOT NULL DEFAULT FALSE,
		recurring_rule_type VARCHAR(20) NOT NULL,
		recurring_interval INTEGER NOT NULL DEFAULT 1 CHECK (recurring_interval >= 1),
		recurring_invoicing_type VARCHAR(20) NOT NULL DEFAULT 'pre-paid',
		date_start DATE NOT NULL,
		date_end DATE,
		recurring_next_date DATE,
		last_date_invoiced DATE,
		is_auto_renew BOOLEAN NOT NULL DEFAULT FALSE,
		auto_renew_interval INTEGER NOT NULL DEFAULT 1,
		auto_renew_rule_type VARCHAR(20) NOT NULL DEFAULT 'yearly',
		active BOOLEAN NOT NULL DEFAULT TRUE,
		sequence INTEGER NOT NULL DEFAULT 10,
		status VARCHAR(20) NOT NULL DEFAULT 'published',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		created_by VARCHAR(50) NOT NULL DEFAULT '',
		updated_by VARCHAR(50) NOT NULL DEFAULT ''
	);`,
	`CREATE INDEX IF NOT EXISTS idx_contract_lines_due ON contract_lines (tenant_id, active, recurring_next_date);`,
	`CREATE INDEX IF NOT EXISTS idx_contract_lines_contract ON contract_lines (contract_id);`,
	`CREATE TABLE IF NOT EXISTS orders (
		id VARCHAR(50) PRIMARY KEY,
		tenant_id VARCHAR(50) NOT NULL,
		name VARCHAR(20) NOT NULL,
		kind VARCHAR(20) NOT NULL,
		state VARCHAR(20) NOT NULL DEFAULT 'draft',
		partner_id VARCHAR(50) NOT NULL,
		pricelist_id VARCHAR(50) NOT NULL DEFAULT '',
		user_id VARCHAR(50) NOT NULL DEFAULT '',
		analytic_account_id VARCHAR(50) NOT NULL DEFAULT '',
		origin TEXT NOT NULL DEFAULT '',
		contract_id VARCHAR(50) NOT NULL DEFAULT '',
		date_order DATE NOT NULL,
		confirmed_at TIMESTAMPTZ,
		status VARCHAR(20) NOT NULL DEFAULT 'published',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		created_by VARCHAR(50) NOT NULL DEFAULT '',
		updated_by VARCHAR(50) NOT NULL DEFAULT ''
	);`,
	`CREATE INDEX IF NOT EXISTS idx_orders_tenant_contract ON orders (tenant_id, contract_id);`,
	`CREATE TABLE IF NOT EXISTS order_lines (
		id VARCHAR(50) PRIMARY KEY,
		tenant_id VARCHAR(50) NOT NULL,
		order_id VARCHAR(50) NOT NULL REFERENCES orders(id),
		contract_line_id VARCHAR(50) NOT NULL DEFAULT '',
		product_id VARCHAR(50) NOT NULL,
		name TEXT NOT NULL,
		quantity NUMERIC(18,4) NOT NULL,
		uom_id VARCHAR(50) NOT NULL DEFAULT '',
		price_unit NUMERIC(18,4) NOT NULL DEFAULT 0,
		discount NUMERIC(7,4) NOT NULL DEFAULT 0,
		tax_ids TEXT[] NOT NULL DEFAULT '{}',
		period_start DATE NOT NULL,
		period_end DATE NOT NULL,
		sequence INTEGER NOT NULL DEFAULT 10,
		status VARCHAR(20) NOT NULL DEFAULT 'published',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		created_by VARCHAR(50) NOT NULL DEFAULT '',
		updated_by VARCHAR(50) NOT NULL DEFAULT ''
	);`,
	`CREATE INDEX IF NOT EXISTS idx_order_lines_contract_line ON order_lines (tenant_id, contract_line_id);`,
}

// Migrate applies the schema. Every statement is idempotent so it is safe
// to run on every deploy.
func (db *DB) Migrate(ctx context.Context) error {
	return db.WithTx(ctx, func(ctx context.Context) error {
		q := db.GetQuerier(ctx)
		for i, stmt := range migrationStatements {
			if _, err := q.ExecContext(ctx, stmt); err != nil {
				return ierr.WithError(err).
					WithHintf("Migration %d failed", i+1).
					Mark(ierr.ErrDatabase)
			}
		}
		db.logger.Infow("migrations applied", "statements", len(migrationStatements))
		return nil
	})
}

// MigrationStatements returns a copy of the schema statements in apply order
func MigrationStatements() []string {
	return append([]string(nil), migrationStatements...)
}
