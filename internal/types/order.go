package types

import (
	ierr "github.com/Ontinet-com/contract/internal/errors"
	"github.com/samber/lo"
)

// OrderKind is the document kind a contract generates.
type OrderKind string

const (
	OrderKindSale     OrderKind = "sale"
	OrderKindPurchase OrderKind = "purchase"
)

func (k OrderKind) Validate() error {
	allowed := []OrderKind{OrderKindSale, OrderKindPurchase}
	if !lo.Contains(allowed, k) {
		return ierr.NewError("invalid order kind").
			WithHint("Order kind must be sale or purchase").
			WithReportableDetails(map[string]any{
				"kind":    k,
				"allowed": allowed,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// ShortIDPrefix returns the document number prefix for the kind.
func (k OrderKind) ShortIDPrefix() string {
	if k == OrderKindPurchase {
		return SHORT_ID_PREFIX_PURCHASE_ORDER
	}
	return SHORT_ID_PREFIX_SALE_ORDER
}

// OrderState is the lifecycle state of a generated order.
type OrderState string

const (
	OrderStateDraft     OrderState = "draft"
	OrderStateConfirmed OrderState = "confirmed"
)

// OrderFilter represents filters for order queries
type OrderFilter struct {
	*QueryFilter

	OrderIDs []string `json:"order_ids,omitempty" form:"order_ids"`
	// ContractLineIDs keeps orders with a line generated from one of these contract lines
	ContractLineIDs []string   `json:"contract_line_ids,omitempty" form:"contract_line_ids"`
	ContractID      string     `json:"contract_id,omitempty" form:"contract_id"`
	PartnerID       string     `json:"partner_id,omitempty" form:"partner_id"`
	Kind            OrderKind  `json:"kind,omitempty" form:"kind"`
	State           OrderState `json:"state,omitempty" form:"state"`
}

func NewOrderFilter() *OrderFilter {
	return &OrderFilter{QueryFilter: NewDefaultQueryFilter()}
}

func NewNoLimitOrderFilter() *OrderFilter {
	return &OrderFilter{QueryFilter: NewNoLimitQueryFilter()}
}

func (f *OrderFilter) Validate() error {
	if err := f.QueryFilter.Validate(); err != nil {
		return err
	}
	if f.Kind != "" {
		return f.Kind.Validate()
	}
	return nil
}

func (f *OrderFilter) ToMap() map[string]any {
	params := f.QueryFilter.ToMap()
	if f.ContractID != "" {
		params["contract_id"] = f.ContractID
	}
	if f.PartnerID != "" {
		params["partner_id"] = f.PartnerID
	}
	if f.Kind != "" {
		params["kind"] = f.Kind
	}
	if f.State != "" {
		params["state"] = f.State
	}
	return params
}
