package contract

import (
	"time"

	"github.com/Ontinet-com/contract/internal/types"
	"github.com/shopspring/decimal"
)

// ContractTemplate holds reusable line definitions for new contracts
type ContractTemplate struct {
	ID           string             `db:"id" json:"id"`
	Name         string             `db:"name" json:"name"`
	ContractType types.ContractType `db:"contract_type" json:"contract_type"`
	Lines        []*TemplateLine    `db:"-" json:"lines,omitempty"`

	types.BaseModel
}

// TemplateLine is a contract line definition without dates
type TemplateLine struct {
	ID                     string                  `db:"id" json:"id"`
	TenantID               string                  `db:"tenant_id" json:"-"`
	TemplateID             string                  `db:"template_id" json:"template_id"`
	ProductID              string                  `db:"product_id" json:"product_id"`
	Name                   string                  `db:"name" json:"name"`
	Quantity               decimal.Decimal         `db:"quantity" json:"quantity"`
	UomID                  string                  `db:"uom_id" json:"uom_id"`
	PriceUnit              decimal.Decimal         `db:"price_unit" json:"price_unit"`
	Discount               decimal.Decimal         `db:"discount" json:"discount"`
	AutomaticPrice         bool                    `db:"automatic_price" json:"automatic_price"`
	RecurringRuleType      types.RecurringRuleType `db:"recurring_rule_type" json:"recurring_rule_type"`
	RecurringInterval      int                     `db:"recurring_interval" json:"recurring_interval"`
	RecurringInvoicingType types.InvoicingType     `db:"recurring_invoicing_type" json:"recurring_invoicing_type"`
	IsAutoRenew            bool                    `db:"is_auto_renew" json:"is_auto_renew"`
	AutoRenewInterval      int                     `db:"auto_renew_interval" json:"auto_renew_interval"`
	AutoRenewRuleType      types.RecurringRuleType `db:"auto_renew_rule_type" json:"auto_renew_rule_type"`
	Sequence               int                     `db:"sequence" json:"sequence"`
}

// Validate checks the template header and every line definition
func (t *ContractTemplate) Validate() error {
	if t.Name == "" {
		return NewValidationError("name", "template name is required")
	}
	if err := t.ContractType.Validate(); err != nil {
		return err
	}
	for _, line := range t.Lines {
		if err := ValidateDiscount(line.ID, line.Discount); err != nil {
			return err
		}
		if err := line.RecurringRuleType.Validate(); err != nil {
			return err
		}
		if line.RecurringInterval < 1 {
			return NewLineValidationError(line.ID, "recurring_interval", "recurring interval must be at least 1")
		}
	}
	return nil
}

// NewContractLine builds a fresh contract line from the definition, starting on dateStart
func (tl *TemplateLine) NewContractLine(contractID string, dateStart time.Time) *ContractLine {
	return &ContractLine{
		ID:                     types.GenerateUUIDWithPrefix(types.UUID_PREFIX_CONTRACT_LINE),
		ContractID:             contractID,
		ProductID:              tl.ProductID,
		Name:                   tl.Name,
		Quantity:               tl.Quantity,
		UomID:                  tl.UomID,
		PriceUnit:              tl.PriceUnit,
		Discount:               tl.Discount,
		AutomaticPrice:         tl.AutomaticPrice,
		RecurringRuleType:      tl.RecurringRuleType,
		RecurringInterval:      tl.RecurringInterval,
		RecurringInvoicingType: tl.RecurringInvoicingType,
		DateStart:              types.ToDate(dateStart),
		IsAutoRenew:            tl.IsAutoRenew,
		AutoRenewInterval:      tl.AutoRenewInterval,
		AutoRenewRuleType:      tl.AutoRenewRuleType,
		Active:                 true,
		Sequence:               tl.Sequence,
	}
}

// NewContractLines builds one contract line per definition, in template order
func (t *ContractTemplate) NewContractLines(contractID string, dateStart time.Time) []*ContractLine {
	lines := make([]*ContractLine, 0, len(t.Lines))
	for _, tl := range t.Lines {
		lines = append(lines, tl.NewContractLine(contractID, dateStart))
	}
	return lines
}

// BuildContract returns a new contract carrying the template's type and
// independent copies of its lines.
func (t *ContractTemplate) BuildContract(dateStart time.Time) *Contract {
	c := &Contract{
		ID:                 types.GenerateUUIDWithPrefix(types.UUID_PREFIX_CONTRACT),
		Name:               t.Name,
		ContractType:       t.ContractType,
		ContractTemplateID: t.ID,
	}
	c.Lines = t.NewContractLines(c.ID, dateStart)
	return c
}

// Clone returns a deep copy of the template
func (t *ContractTemplate) Clone() *ContractTemplate {
	if t == nil {
		return nil
	}
	cp := *t
	if t.Lines != nil {
		cp.Lines = make([]*TemplateLine, len(t.Lines))
		for i, line := range t.Lines {
			l := *line
			cp.Lines[i] = &l
		}
	}
	return &cp
}
