package service

import (
	"context"

	"github.com/Ontinet-com/contract/internal/cache"
	"github.com/Ontinet-com/contract/internal/domain/contract"
	"github.com/Ontinet-com/contract/internal/domain/pricelist"
	"github.com/Ontinet-com/contract/internal/domain/product"
	"github.com/Ontinet-com/contract/internal/types"
	"github.com/shopspring/decimal"
)

// PriceRequest asks for the price and taxes of a contract line on an order of Kind
type PriceRequest struct {
	Line        *contract.ContractLine
	Kind        types.OrderKind
	PricelistID string
}

// PriceResult is what the order line takes from pricing. Tax amounts are
// computed downstream, only the tax ids are carried.
type PriceResult struct {
	Product   *product.Product
	PriceUnit decimal.Decimal
	TaxIDs    []string
}

// PriceResolver prices contract lines for generated orders
type PriceResolver interface {
	Resolve(ctx context.Context, req PriceRequest) (*PriceResult, error)
}

type priceResolver struct {
	ServiceParams
}

func NewPriceResolver(params ServiceParams) PriceResolver {
	return &priceResolver{ServiceParams: params}
}

// Resolve keeps the line price unless the line is automatically priced, in
// which case the pricelist rule for the product applies. Without a pricelist
// an automatic line takes the product list price.
func (r *priceResolver) Resolve(ctx context.Context, req PriceRequest) (*PriceResult, error) {
	p, err := getProductCached(ctx, r.ServiceParams, req.Line.ProductID)
	if err != nil {
		return nil, err
	}

	result := &PriceResult{
		Product:   p,
		PriceUnit: req.Line.PriceUnit,
		TaxIDs:    p.TaxIDs(req.Kind),
	}
	if !req.Line.AutomaticPrice {
		return result, nil
	}

	if req.PricelistID == "" {
		result.PriceUnit = p.ListPrice
		return result, nil
	}

	pl, err := getPricelistCached(ctx, r.ServiceParams, req.PricelistID)
	if err != nil {
		return nil, err
	}
	result.PriceUnit = pl.PriceFor(p)
	return result, nil
}

// getProductCached reads a product through the master data cache. The cache
// holds clones so callers may modify what they get back.
func getProductCached(ctx context.Context, params ServiceParams, id string) (*product.Product, error) {
	key := cache.GenerateKey(cache.PrefixProduct, types.GetTenantID(ctx), id)
	if params.Cache != nil {
		if v, ok := params.Cache.Get(ctx, key); ok {
			if p, ok := v.(*product.Product); ok {
				return p.Clone(), nil
			}
		}
	}

	p, err := params.ProductRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if params.Cache != nil {
		params.Cache.Set(ctx, key, p.Clone(), 0)
	}
	return p, nil
}

func getPricelistCached(ctx context.Context, params ServiceParams, id string) (*pricelist.Pricelist, error) {
	key := cache.GenerateKey(cache.PrefixPricelist, types.GetTenantID(ctx), id)
	if params.Cache != nil {
		if v, ok := params.Cache.Get(ctx, key); ok {
			if pl, ok := v.(*pricelist.Pricelist); ok {
				return pl.Clone(), nil
			}
		}
	}

	pl, err := params.PricelistRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if params.Cache != nil {
		params.Cache.Set(ctx, key, pl.Clone(), 0)
	}
	return pl, nil
}
