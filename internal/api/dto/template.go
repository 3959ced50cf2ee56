package dto

import (
	"context"

	"github.com/Ontinet-com/contract/internal/domain/contract"
	"github.com/Ontinet-com/contract/internal/types"
	"github.com/Ontinet-com/contract/internal/validator"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

type CreateContractTemplateRequest struct {
	Name         string                      `json:"name" validate:"required"`
	ContractType types.ContractType          `json:"contract_type"`
	Lines        []CreateTemplateLineRequest `json:"lines" validate:"dive"`
}

type CreateTemplateLineRequest struct {
	ProductID              string                  `json:"product_id" validate:"required"`
	Name                   string                  `json:"name"`
	Quantity               decimal.Decimal         `json:"quantity"`
	UomID                  string                  `json:"uom_id"`
	PriceUnit              decimal.Decimal         `json:"price_unit"`
	Discount               decimal.Decimal         `json:"discount"`
	AutomaticPrice         bool                    `json:"automatic_price"`
	RecurringRuleType      types.RecurringRuleType `json:"recurring_rule_type" validate:"required"`
	RecurringInterval      int                     `json:"recurring_interval" validate:"required,min=1"`
	RecurringInvoicingType types.InvoicingType     `json:"recurring_invoicing_type"`
	IsAutoRenew            bool                    `json:"is_auto_renew"`
	AutoRenewInterval      int                     `json:"auto_renew_interval" validate:"omitempty,min=1"`
	AutoRenewRuleType      types.RecurringRuleType `json:"auto_renew_rule_type"`
	Sequence               int                     `json:"sequence"`
}

func (r *CreateContractTemplateRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	if r.ContractType != "" {
		if err := r.ContractType.Validate(); err != nil {
			return err
		}
	}
	for _, line := range r.Lines {
		if err := contract.ValidateDiscount("", line.Discount); err != nil {
			return err
		}
		if err := line.RecurringRuleType.Validate(); err != nil {
			return err
		}
		if line.RecurringInvoicingType != "" {
			if err := line.RecurringInvoicingType.Validate(); err != nil {
				return err
			}
		}
	}
	return nil
}

func (r *CreateContractTemplateRequest) ToContractTemplate(ctx context.Context) *contract.ContractTemplate {
	t := &contract.ContractTemplate{
		ID:           types.GenerateUUIDWithPrefix(types.UUID_PREFIX_CONTRACT_TEMPLATE),
		Name:         r.Name,
		ContractType: lo.Ternary(r.ContractType == "", types.ContractTypeSale, r.ContractType),
		BaseModel:    types.GetDefaultBaseModel(ctx),
	}

	t.Lines = make([]*contract.TemplateLine, 0, len(r.Lines))
	for _, l := range r.Lines {
		t.Lines = append(t.Lines, &contract.TemplateLine{
			ID:                     types.GenerateUUIDWithPrefix(types.UUID_PREFIX_CONTRACT_TEMPLATE_LINE),
			TenantID:               t.TenantID,
			TemplateID:             t.ID,
			ProductID:              l.ProductID,
			Name:                   l.Name,
			Quantity:               lo.Ternary(l.Quantity.IsZero(), decimal.NewFromInt(1), l.Quantity),
			UomID:                  l.UomID,
			PriceUnit:              l.PriceUnit,
			Discount:               l.Discount,
			AutomaticPrice:         l.AutomaticPrice,
			RecurringRuleType:      l.RecurringRuleType,
			RecurringInterval:      l.RecurringInterval,
			RecurringInvoicingType: lo.Ternary(l.RecurringInvoicingType == "", types.InvoicingTypePrePaid, l.RecurringInvoicingType),
			IsAutoRenew:            l.IsAutoRenew,
			AutoRenewInterval:      l.AutoRenewInterval,
			AutoRenewRuleType:      l.AutoRenewRuleType,
			Sequence:               l.Sequence,
		})
	}
	return t
}

type ContractTemplateResponse struct {
	*contract.ContractTemplate
}

// ListContractTemplatesResponse represents the response for listing templates
type ListContractTemplatesResponse = types.ListResponse[*ContractTemplateResponse]
