package order

import (
	"time"

	"github.com/Ontinet-com/contract/internal/domain/contract"
	"github.com/Ontinet-com/contract/internal/types"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// Order is a sales or purchase order generated from a contract
type Order struct {
	ID   string `db:"id" json:"id"`
	Name string `db:"name" json:"name"`

	Kind  types.OrderKind  `db:"kind" json:"kind"`
	State types.OrderState `db:"state" json:"state"`

	PartnerID         string `db:"partner_id" json:"partner_id"`
	PricelistID       string `db:"pricelist_id" json:"pricelist_id"`
	UserID            string `db:"user_id" json:"user_id"`
	AnalyticAccountID string `db:"analytic_account_id" json:"analytic_account_id"`

	// Origin is the name of the contract the order comes from
	Origin     string `db:"origin" json:"origin"`
	ContractID string `db:"contract_id" json:"contract_id"`

	DateOrder   time.Time  `db:"date_order" json:"date_order"`
	ConfirmedAt *time.Time `db:"confirmed_at" json:"confirmed_at,omitempty"`

	Lines []*OrderLine `db:"-" json:"lines,omitempty"`

	types.BaseModel
}

// OrderLine is one generated line, pointing back at its contract line
type OrderLine struct {
	ID             string          `db:"id" json:"id"`
	OrderID        string          `db:"order_id" json:"order_id"`
	ContractLineID string          `db:"contract_line_id" json:"contract_line_id"`
	ProductID      string          `db:"product_id" json:"product_id"`
	Name           string          `db:"name" json:"name"`
	Quantity       decimal.Decimal `db:"quantity" json:"quantity"`
	UomID          string          `db:"uom_id" json:"uom_id"`
	PriceUnit      decimal.Decimal `db:"price_unit" json:"price_unit"`
	Discount       decimal.Decimal `db:"discount" json:"discount"`
	TaxIDs         pq.StringArray  `db:"tax_ids" json:"tax_ids"`
	PeriodStart    time.Time       `db:"period_start" json:"period_start"`
	PeriodEnd      time.Time       `db:"period_end" json:"period_end"`
	Sequence       int             `db:"sequence" json:"sequence"`

	types.BaseModel
}

// PriceSubtotal uses the same formula as the contract line
func (l *OrderLine) PriceSubtotal() decimal.Decimal {
	return contract.Subtotal(l.Quantity, l.PriceUnit, l.Discount)
}

// AmountUntaxed sums the line subtotals
func (o *Order) AmountUntaxed() decimal.Decimal {
	total := decimal.Zero
	for _, line := range o.Lines {
		total = total.Add(line.PriceSubtotal())
	}
	return total
}

// IsConfirmed reports whether the order left the draft state
func (o *Order) IsConfirmed() bool {
	return o.State == types.OrderStateConfirmed
}

// Clone returns a deep copy
func (o *Order) Clone() *Order {
	if o == nil {
		return nil
	}
	cp := *o
	if o.ConfirmedAt != nil {
		t := *o.ConfirmedAt
		cp.ConfirmedAt = &t
	}
	if o.Lines != nil {
		cp.Lines = make([]*OrderLine, len(o.Lines))
		for i, line := range o.Lines {
			cp.Lines[i] = line.Clone()
		}
	}
	return &cp
}

// Clone returns a deep copy
func (l *OrderLine) Clone() *OrderLine {
	if l == nil {
		return nil
	}
	cp := *l
	cp.TaxIDs = append(pq.StringArray{}, l.TaxIDs...)
	return &cp
}
