package dto

import (
	"context"

	"github.com/Ontinet-com/contract/internal/domain/product"
	"github.com/Ontinet-com/contract/internal/types"
	"github.com/Ontinet-com/contract/internal/validator"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

type CreateProductRequest struct {
	Name                string          `json:"name" validate:"required"`
	DescriptionSale     string          `json:"description_sale"`
	DescriptionPurchase string          `json:"description_purchase"`
	UomID               string          `json:"uom_id" validate:"required"`
	UomCategoryID       string          `json:"uom_category_id" validate:"required"`
	ListPrice           decimal.Decimal `json:"list_price"`
	StandardPrice       decimal.Decimal `json:"standard_price"`
	SaleTaxIDs          []string        `json:"sale_tax_ids"`
	PurchaseTaxIDs      []string        `json:"purchase_tax_ids"`
}

func (r *CreateProductRequest) Validate() error {
	return validator.ValidateRequest(r)
}

func (r *CreateProductRequest) ToProduct(ctx context.Context) *product.Product {
	return &product.Product{
		ID:                  types.GenerateUUIDWithPrefix(types.UUID_PREFIX_PRODUCT),
		Name:                r.Name,
		DescriptionSale:     r.DescriptionSale,
		DescriptionPurchase: r.DescriptionPurchase,
		UomID:               r.UomID,
		UomCategoryID:       r.UomCategoryID,
		ListPrice:           r.ListPrice,
		StandardPrice:       r.StandardPrice,
		SaleTaxIDs:          append(pq.StringArray{}, r.SaleTaxIDs...),
		PurchaseTaxIDs:      append(pq.StringArray{}, r.PurchaseTaxIDs...),
		BaseModel:           types.GetDefaultBaseModel(ctx),
	}
}

type ProductResponse struct {
	*product.Product
}

// ListProductsResponse represents the response for listing products
type ListProductsResponse = types.ListResponse[*ProductResponse]
