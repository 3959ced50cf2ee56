package pricelist

import (
	"testing"

	"github.com/Ontinet-com/contract/internal/domain/product"
	"github.com/Ontinet-com/contract/internal/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestPricelist_PriceFor(t *testing.T) {
	p := &product.Product{
		ID:            "prod_1",
		ListPrice:     decimal.NewFromInt(100),
		StandardPrice: decimal.NewFromInt(60),
	}

	tests := []struct {
		name  string
		items []*Item
		want  decimal.Decimal
	}{
		{
			name: "no rule falls back to list price",
			want: decimal.NewFromInt(100),
		},
		{
			name: "fixed price",
			items: []*Item{
				{ProductID: "prod_1", ComputePrice: types.PriceComputationFixed, FixedPrice: decimal.NewFromInt(42)},
			},
			want: decimal.NewFromInt(42),
		},
		{
			name: "percentage of list price",
			items: []*Item{
				{ComputePrice: types.PriceComputationPercentage, PercentPrice: decimal.NewFromInt(10), Base: types.PriceBaseListPrice},
			},
			want: decimal.NewFromInt(90),
		},
		{
			name: "formula on standard price with surcharge",
			items: []*Item{
				{
					ProductID:      "prod_1",
					ComputePrice:   types.PriceComputationFormula,
					PercentPrice:   decimal.NewFromInt(50),
					PriceSurcharge: decimal.NewFromInt(5),
					Base:           types.PriceBaseStandardPrice,
				},
			},
			want: decimal.NewFromInt(35),
		},
		{
			name: "formula without parameters keeps the base",
			items: []*Item{
				{ProductID: "prod_1", ComputePrice: types.PriceComputationFormula, Base: types.PriceBaseListPrice},
			},
			want: decimal.NewFromInt(100),
		},
		{
			name: "product rule wins over global rule",
			items: []*Item{
				{ComputePrice: types.PriceComputationFixed, FixedPrice: decimal.NewFromInt(1), Sequence: 1},
				{ProductID: "prod_1", ComputePrice: types.PriceComputationFixed, FixedPrice: decimal.NewFromInt(2), Sequence: 5},
			},
			want: decimal.NewFromInt(2),
		},
		{
			name: "other product rule is ignored",
			items: []*Item{
				{ProductID: "prod_2", ComputePrice: types.PriceComputationFixed, FixedPrice: decimal.NewFromInt(7)},
			},
			want: decimal.NewFromInt(100),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pl := &Pricelist{Items: tt.items}
			got := pl.PriceFor(p)
			assert.True(t, tt.want.Equal(got), "got %s, want %s", got, tt.want)
		})
	}
}
