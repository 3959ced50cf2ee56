package product

import (
	"github.com/Ontinet-com/contract/internal/types"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// Product is the master data a contract line bills for
type Product struct {
	ID                  string          `db:"id" json:"id"`
	Name                string          `db:"name" json:"name"`
	DescriptionSale     string          `db:"description_sale" json:"description_sale"`
	DescriptionPurchase string          `db:"description_purchase" json:"description_purchase"`
	UomID               string          `db:"uom_id" json:"uom_id"`
	UomCategoryID       string          `db:"uom_category_id" json:"uom_category_id"`
	ListPrice           decimal.Decimal `db:"list_price" json:"list_price"`
	StandardPrice       decimal.Decimal `db:"standard_price" json:"standard_price"`
	SaleTaxIDs          pq.StringArray  `db:"sale_tax_ids" json:"sale_tax_ids"`
	PurchaseTaxIDs      pq.StringArray  `db:"purchase_tax_ids" json:"purchase_tax_ids"`

	types.BaseModel
}

// Description returns the description used on lines of the given contract type,
// falling back to the product name.
func (p *Product) Description(contractType types.ContractType) string {
	desc := p.DescriptionSale
	if contractType == types.ContractTypePurchase {
		desc = p.DescriptionPurchase
	}
	if desc == "" {
		return p.Name
	}
	return desc
}

// TaxIDs returns a copy of the taxes that apply to orders of kind
func (p *Product) TaxIDs(kind types.OrderKind) []string {
	src := p.SaleTaxIDs
	if kind == types.OrderKindPurchase {
		src = p.PurchaseTaxIDs
	}
	return append([]string{}, src...)
}

// Clone returns a deep copy
func (p *Product) Clone() *Product {
	if p == nil {
		return nil
	}
	c := *p
	c.SaleTaxIDs = append(pq.StringArray{}, p.SaleTaxIDs...)
	c.PurchaseTaxIDs = append(pq.StringArray{}, p.PurchaseTaxIDs...)
	return &c
}
