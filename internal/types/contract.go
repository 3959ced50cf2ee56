package types

import (
	"time"

	ierr "github.com/Ontinet-com/contract/internal/errors"
	"github.com/samber/lo"
)

// ContractType tells whether the contract is with a customer or a vendor.
// It doubles as the kind of order a contract produces.
type ContractType string

const (
	ContractTypeSale     ContractType = "sale"
	ContractTypePurchase ContractType = "purchase"
)

func (c ContractType) Validate() error {
	allowed := []ContractType{ContractTypeSale, ContractTypePurchase}
	if !lo.Contains(allowed, c) {
		return ierr.NewError("invalid contract type").
			WithHint("Contract type must be sale or purchase").
			WithReportableDetails(map[string]any{
				"contract_type": c,
				"allowed":       allowed,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// GenerationType selects which order document a contract generates.
// The empty value means the contract generates nothing.
type GenerationType string

const (
	GenerationTypeNone     GenerationType = ""
	GenerationTypeSale     GenerationType = "sale"
	GenerationTypePurchase GenerationType = "purchase"
)

func (g GenerationType) Validate() error {
	allowed := []GenerationType{GenerationTypeNone, GenerationTypeSale, GenerationTypePurchase}
	if !lo.Contains(allowed, g) {
		return ierr.NewError("invalid generation type").
			WithHint("Generation type must be sale, purchase or empty").
			WithReportableDetails(map[string]any{
				"generation_type": g,
				"allowed":         allowed,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// OrderKind returns the order kind this generation type produces.
func (g GenerationType) OrderKind() OrderKind {
	return OrderKind(g)
}

// InvoicingType decides whether the generated period precedes or follows the cursor.
type InvoicingType string

const (
	InvoicingTypePrePaid  InvoicingType = "pre-paid"
	InvoicingTypePostPaid InvoicingType = "post-paid"
)

func (i InvoicingType) Validate() error {
	allowed := []InvoicingType{InvoicingTypePrePaid, InvoicingTypePostPaid}
	if !lo.Contains(allowed, i) {
		return ierr.NewError("invalid recurring invoicing type").
			WithHint("Recurring invoicing type must be pre-paid or post-paid").
			WithReportableDetails(map[string]any{
				"recurring_invoicing_type": i,
				"allowed":                  allowed,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// RenewalPolicy controls how date_end moves when an auto-renewing line runs past it.
type RenewalPolicy string

const (
	// RenewalPolicyExtendPeriod pushes date_end by one recurrence period.
	RenewalPolicyExtendPeriod RenewalPolicy = "extend_period"
	// RenewalPolicyRecompute starts a new term the day after date_end and
	// ends it after the auto-renew interval.
	RenewalPolicyRecompute RenewalPolicy = "recompute"
)

func (r RenewalPolicy) Validate() error {
	allowed := []RenewalPolicy{RenewalPolicyExtendPeriod, RenewalPolicyRecompute}
	if !lo.Contains(allowed, r) {
		return ierr.NewError("invalid renewal policy").
			WithHint("Renewal policy must be extend_period or recompute").
			WithReportableDetails(map[string]any{
				"renewal_policy": r,
				"allowed":        allowed,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// ContractFilter represents filters for contract queries
type ContractFilter struct {
	*QueryFilter

	ContractIDs    []string       `json:"contract_ids,omitempty" form:"contract_ids"`
	PartnerID      string         `json:"partner_id,omitempty" form:"partner_id"`
	ContractType   ContractType   `json:"contract_type,omitempty" form:"contract_type"`
	GenerationType GenerationType `json:"generation_type,omitempty" form:"generation_type"`
	// GenerationTypeSet distinguishes "generation_type is empty" from "no filter".
	GenerationTypeSet bool `json:"-" form:"-"`
	// DueBefore keeps contracts with at least one active line due on or before this date
	DueBefore *time.Time `json:"due_before,omitempty" form:"due_before"`
	// WithLines loads the contract lines
	WithLines bool `json:"with_lines,omitempty" form:"with_lines"`
}

// NewContractFilter creates a new ContractFilter with default values
func NewContractFilter() *ContractFilter {
	return &ContractFilter{
		QueryFilter: NewDefaultQueryFilter(),
	}
}

// NewNoLimitContractFilter creates a new ContractFilter with no pagination limits
func NewNoLimitContractFilter() *ContractFilter {
	return &ContractFilter{
		QueryFilter: NewNoLimitQueryFilter(),
	}
}

func (f *ContractFilter) Validate() error {
	if err := f.QueryFilter.Validate(); err != nil {
		return err
	}
	if f.ContractType != "" {
		if err := f.ContractType.Validate(); err != nil {
			return err
		}
	}
	if f.GenerationTypeSet {
		return f.GenerationType.Validate()
	}
	return nil
}

func (f *ContractFilter) ToMap() map[string]any {
	params := f.QueryFilter.ToMap()
	if f.PartnerID != "" {
		params["partner_id"] = f.PartnerID
	}
	if f.ContractType != "" {
		params["contract_type"] = f.ContractType
	}
	if f.GenerationTypeSet {
		params["generation_type"] = f.GenerationType
	}
	if f.DueBefore != nil {
		params["due_before"] = *f.DueBefore
	}
	return params
}

// ContractTemplateFilter represents filters for template queries
type ContractTemplateFilter struct {
	*QueryFilter

	TemplateIDs  []string     `json:"template_ids,omitempty" form:"template_ids"`
	ContractType ContractType `json:"contract_type,omitempty" form:"contract_type"`
}

func NewContractTemplateFilter() *ContractTemplateFilter {
	return &ContractTemplateFilter{QueryFilter: NewDefaultQueryFilter()}
}

func (f *ContractTemplateFilter) Validate() error {
	if err := f.QueryFilter.Validate(); err != nil {
		return err
	}
	if f.ContractType != "" {
		return f.ContractType.Validate()
	}
	return nil
}
