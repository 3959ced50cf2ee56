package pricelist

import (
	"sort"

	"github.com/Ontinet-com/contract/internal/domain/product"
	"github.com/Ontinet-com/contract/internal/types"
	"github.com/shopspring/decimal"
)

// Pricelist groups the price rules applied to automatically priced lines
type Pricelist struct {
	ID       string  `db:"id" json:"id"`
	Name     string  `db:"name" json:"name"`
	Currency string  `db:"currency" json:"currency"`
	Items    []*Item `db:"-" json:"items,omitempty"`

	types.BaseModel
}

// Item is one price rule. An empty ProductID applies to every product.
type Item struct {
	ID             string                 `db:"id" json:"id"`
	TenantID       string                 `db:"tenant_id" json:"-"`
	PricelistID    string                 `db:"pricelist_id" json:"pricelist_id"`
	ProductID      string                 `db:"product_id" json:"product_id,omitempty"`
	ComputePrice   types.PriceComputation `db:"compute_price" json:"compute_price"`
	FixedPrice     decimal.Decimal        `db:"fixed_price" json:"fixed_price"`
	PercentPrice   decimal.Decimal        `db:"percent_price" json:"percent_price"`
	PriceSurcharge decimal.Decimal        `db:"price_surcharge" json:"price_surcharge"`
	Base           types.PriceBase        `db:"base" json:"base"`
	Sequence       int                    `db:"sequence" json:"sequence"`
}

var hundred = decimal.NewFromInt(100)

// PriceFor returns the unit price this pricelist gives p.
// Product specific rules win over global ones, then lower sequence wins.
// Without a matching rule the product list price applies.
func (pl *Pricelist) PriceFor(p *product.Product) decimal.Decimal {
	item := pl.matchItem(p.ID)
	if item == nil {
		return p.ListPrice
	}

	base := p.ListPrice
	if item.Base == types.PriceBaseStandardPrice {
		base = p.StandardPrice
	}

	switch item.ComputePrice {
	case types.PriceComputationFixed:
		return item.FixedPrice
	case types.PriceComputationPercentage:
		return base.Mul(hundred.Sub(item.PercentPrice)).Div(hundred)
	case types.PriceComputationFormula:
		return base.Mul(hundred.Sub(item.PercentPrice)).Div(hundred).Add(item.PriceSurcharge)
	default:
		return base
	}
}

func (pl *Pricelist) matchItem(productID string) *Item {
	candidates := make([]*Item, 0, len(pl.Items))
	for _, item := range pl.Items {
		if item.ProductID == "" || item.ProductID == productID {
			candidates = append(candidates, item)
		}
	}
	if len(candidates) == 0 {
		return nil
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		iSpecific, jSpecific := candidates[i].ProductID != "", candidates[j].ProductID != ""
		if iSpecific != jSpecific {
			return iSpecific
		}
		return candidates[i].Sequence < candidates[j].Sequence
	})
	return candidates[0]
}

// Clone returns a deep copy
func (pl *Pricelist) Clone() *Pricelist {
	if pl == nil {
		return nil
	}
	c := *pl
	c.Items = make([]*Item, len(pl.Items))
	for i, item := range pl.Items {
		cp := *item
		c.Items[i] = &cp
	}
	return &c
}
