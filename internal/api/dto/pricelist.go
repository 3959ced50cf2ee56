package dto

import (
	"context"

	"github.com/Ontinet-com/contract/internal/domain/pricelist"
	"github.com/Ontinet-com/contract/internal/types"
	"github.com/Ontinet-com/contract/internal/validator"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

type CreatePricelistRequest struct {
	Name     string                       `json:"name" validate:"required"`
	Currency string                       `json:"currency" validate:"omitempty,len=3"`
	Items    []CreatePricelistItemRequest `json:"items" validate:"dive"`
}

type CreatePricelistItemRequest struct {
	ProductID      string                 `json:"product_id"`
	ComputePrice   types.PriceComputation `json:"compute_price" validate:"required"`
	FixedPrice     decimal.Decimal        `json:"fixed_price"`
	PercentPrice   decimal.Decimal        `json:"percent_price"`
	PriceSurcharge decimal.Decimal        `json:"price_surcharge"`
	Base           types.PriceBase        `json:"base" validate:"omitempty,oneof=list_price standard_price"`
	Sequence       int                    `json:"sequence"`
}

func (r *CreatePricelistRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	for _, item := range r.Items {
		if err := item.ComputePrice.Validate(); err != nil {
			return err
		}
	}
	return nil
}

func (r *CreatePricelistRequest) ToPricelist(ctx context.Context) *pricelist.Pricelist {
	pl := &pricelist.Pricelist{
		ID:        types.GenerateUUIDWithPrefix(types.UUID_PREFIX_PRICELIST),
		Name:      r.Name,
		Currency:  lo.Ternary(r.Currency == "", "USD", r.Currency),
		BaseModel: types.GetDefaultBaseModel(ctx),
	}

	pl.Items = make([]*pricelist.Item, 0, len(r.Items))
	for _, item := range r.Items {
		pl.Items = append(pl.Items, &pricelist.Item{
			ID:             types.GenerateUUIDWithPrefix(types.UUID_PREFIX_PRICELIST_ITEM),
			TenantID:       pl.TenantID,
			PricelistID:    pl.ID,
			ProductID:      item.ProductID,
			ComputePrice:   item.ComputePrice,
			FixedPrice:     item.FixedPrice,
			PercentPrice:   item.PercentPrice,
			PriceSurcharge: item.PriceSurcharge,
			Base:           lo.Ternary(item.Base == "", types.PriceBaseListPrice, item.Base),
			Sequence:       item.Sequence,
		})
	}
	return pl
}

type PricelistResponse struct {
	*pricelist.Pricelist
}
