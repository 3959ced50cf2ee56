package contract

import (
	"time"

	"github.com/Ontinet-com/contract/internal/domain/product"
	"github.com/Ontinet-com/contract/internal/types"
	"github.com/shopspring/decimal"
)

// LinePatch is a partial update of a contract line. Nil fields are left unchanged.
type LinePatch struct {
	Name      *string          `json:"name,omitempty"`
	UomID     *string          `json:"uom_id,omitempty"`
	PriceUnit *decimal.Decimal `json:"price_unit,omitempty"`
	DateEnd   *time.Time       `json:"date_end,omitempty"`

	// UomDomain is the uom category the line's unit must belong to
	UomDomain string `json:"uom_domain,omitempty"`
}

// IsEmpty reports whether the patch changes nothing
func (p LinePatch) IsEmpty() bool {
	return p.Name == nil && p.UomID == nil && p.PriceUnit == nil && p.DateEnd == nil
}

// Apply returns a copy of line with the patch applied
func (p LinePatch) Apply(line *ContractLine) *ContractLine {
	out := line.Clone()
	if p.Name != nil {
		out.Name = *p.Name
	}
	if p.UomID != nil {
		out.UomID = *p.UomID
	}
	if p.PriceUnit != nil {
		out.PriceUnit = *p.PriceUnit
	}
	if p.DateEnd != nil {
		d := *p.DateEnd
		out.DateEnd = &d
	}
	return out
}

// RecomputeDerivedFields derives the fields that follow the product of a line:
// the name from the product description for the contract type, the unit when
// the line has none or one of another category, and the list price.
// lineUomCategory is the category of the line's current unit, empty if unknown.
func RecomputeDerivedFields(line *ContractLine, p *product.Product, contractType types.ContractType, lineUomCategory string) LinePatch {
	if p == nil {
		return LinePatch{}
	}
	patch := LinePatch{UomDomain: p.UomCategoryID}

	name := p.Description(contractType)
	patch.Name = &name

	if line.UomID == "" || (lineUomCategory != "" && lineUomCategory != p.UomCategoryID) {
		uom := p.UomID
		patch.UomID = &uom
	}

	price := p.ListPrice
	patch.PriceUnit = &price
	return patch
}

// OnChangeAutoRenew sets date end to the end of the first auto-renew term
// when the line auto-renews and has a start date.
func OnChangeAutoRenew(line *ContractLine) (LinePatch, error) {
	if !line.IsAutoRenew || line.DateStart.IsZero() {
		return LinePatch{}, nil
	}
	end, err := AutoRenewDateEnd(line.DateStart, line.AutoRenewInterval, line.AutoRenewRuleType)
	if err != nil {
		return LinePatch{}, err
	}
	return LinePatch{DateEnd: &end}, nil
}
