package types

import (
	ierr "github.com/Ontinet-com/contract/internal/errors"
	"github.com/samber/lo"
)

// PriceComputation is how a pricelist item derives a unit price.
type PriceComputation string

const (
	PriceComputationFixed      PriceComputation = "fixed"
	PriceComputationPercentage PriceComputation = "percentage"
	PriceComputationFormula    PriceComputation = "formula"
)

func (p PriceComputation) Validate() error {
	allowed := []PriceComputation{PriceComputationFixed, PriceComputationPercentage, PriceComputationFormula}
	if !lo.Contains(allowed, p) {
		return ierr.NewError("invalid price computation").
			WithHint("Compute price must be fixed, percentage or formula").
			WithReportableDetails(map[string]any{
				"compute_price": p,
				"allowed":       allowed,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// PriceBase is the product price a pricelist rule starts from.
type PriceBase string

const (
	PriceBaseListPrice     PriceBase = "list_price"
	PriceBaseStandardPrice PriceBase = "standard_price"
)

// ProductFilter represents filters for product queries
type ProductFilter struct {
	*QueryFilter

	ProductIDs []string `json:"product_ids,omitempty" form:"product_ids"`
	Name       string   `json:"name,omitempty" form:"name"`
}

func NewProductFilter() *ProductFilter {
	return &ProductFilter{QueryFilter: NewDefaultQueryFilter()}
}

func (f *ProductFilter) Validate() error {
	return f.QueryFilter.Validate()
}
