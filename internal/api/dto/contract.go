package dto

import (
	"context"
	"time"

	"github.com/Ontinet-com/contract/internal/domain/contract"
	ierr "github.com/Ontinet-com/contract/internal/errors"
	"github.com/Ontinet-com/contract/internal/types"
	"github.com/Ontinet-com/contract/internal/validator"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

type CreateContractRequest struct {
	Name           string               `json:"name" validate:"required"`
	Code           string               `json:"code"`
	PartnerID      string               `json:"partner_id" validate:"required"`
	ContractType   types.ContractType   `json:"contract_type"`
	GenerationType types.GenerationType `json:"generation_type"`
	AutoConfirm    bool                 `json:"auto_confirm"`
	PricelistID    string               `json:"pricelist_id"`
	UserID         string               `json:"user_id"`
	GroupID        string               `json:"group_id"`
	Note           string               `json:"note"`

	// ContractTemplateID appends the template lines after the explicit ones.
	// Template lines start on DateStart, today when omitted.
	ContractTemplateID string  `json:"contract_template_id"`
	DateStart          *string `json:"date_start,omitempty"`

	Lines []CreateContractLineRequest `json:"lines" validate:"dive"`
}

func (r *CreateContractRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	if r.ContractType != "" {
		if err := r.ContractType.Validate(); err != nil {
			return err
		}
	}
	if err := r.GenerationType.Validate(); err != nil {
		return err
	}
	if _, err := parseDatePtr(r.DateStart); err != nil {
		return err
	}
	for i := range r.Lines {
		if err := r.Lines[i].Validate(); err != nil {
			return err
		}
	}
	return nil
}

// ToContract builds the contract header and the explicit lines
func (r *CreateContractRequest) ToContract(ctx context.Context) (*contract.Contract, error) {
	c := &contract.Contract{
		ID:                 types.GenerateUUIDWithPrefix(types.UUID_PREFIX_CONTRACT),
		Name:               r.Name,
		Code:               r.Code,
		PartnerID:          r.PartnerID,
		ContractType:       lo.Ternary(r.ContractType == "", types.ContractTypeSale, r.ContractType),
		GenerationType:     r.GenerationType,
		AutoConfirm:        r.AutoConfirm,
		PricelistID:        r.PricelistID,
		UserID:             r.UserID,
		GroupID:            r.GroupID,
		ContractTemplateID: r.ContractTemplateID,
		Note:               r.Note,
		BaseModel:          types.GetDefaultBaseModel(ctx),
	}

	c.Lines = make([]*contract.ContractLine, 0, len(r.Lines))
	for i := range r.Lines {
		line, err := r.Lines[i].ToContractLine(ctx, c.ID)
		if err != nil {
			return nil, err
		}
		c.Lines = append(c.Lines, line)
	}
	return c, nil
}

// GetDateStart returns the start date for template lines
func (r *CreateContractRequest) GetDateStart(today time.Time) (time.Time, error) {
	d, err := parseDatePtr(r.DateStart)
	if err != nil || d == nil {
		return types.ToDate(today), err
	}
	return *d, nil
}

type UpdateContractRequest struct {
	Name           *string               `json:"name,omitempty"`
	Code           *string               `json:"code,omitempty"`
	PartnerID      *string               `json:"partner_id,omitempty"`
	ContractType   *types.ContractType   `json:"contract_type,omitempty"`
	GenerationType *types.GenerationType `json:"generation_type,omitempty"`
	AutoConfirm    *bool                 `json:"auto_confirm,omitempty"`
	PricelistID    *string               `json:"pricelist_id,omitempty"`
	UserID         *string               `json:"user_id,omitempty"`
	GroupID        *string               `json:"group_id,omitempty"`
	Note           *string               `json:"note,omitempty"`
}

func (r *UpdateContractRequest) Validate() error {
	if r.Name != nil && *r.Name == "" {
		return ierr.NewError("name cannot be empty").
			WithHint("Contract name cannot be empty").
			Mark(ierr.ErrValidation)
	}
	if r.PartnerID != nil && *r.PartnerID == "" {
		return ierr.NewError("partner cannot be empty").
			WithHint("Partner cannot be empty").
			Mark(ierr.ErrValidation)
	}
	if r.ContractType != nil {
		if err := r.ContractType.Validate(); err != nil {
			return err
		}
	}
	if r.GenerationType != nil {
		return r.GenerationType.Validate()
	}
	return nil
}

// ApplyTo copies the set fields onto c
func (r *UpdateContractRequest) ApplyTo(c *contract.Contract) {
	if r.Name != nil {
		c.Name = *r.Name
	}
	if r.Code != nil {
		c.Code = *r.Code
	}
	if r.PartnerID != nil {
		c.PartnerID = *r.PartnerID
	}
	if r.ContractType != nil {
		c.ContractType = *r.ContractType
	}
	if r.GenerationType != nil {
		c.GenerationType = *r.GenerationType
	}
	if r.AutoConfirm != nil {
		c.AutoConfirm = *r.AutoConfirm
	}
	if r.PricelistID != nil {
		c.PricelistID = *r.PricelistID
	}
	if r.UserID != nil {
		c.UserID = *r.UserID
	}
	if r.GroupID != nil {
		c.GroupID = *r.GroupID
	}
	if r.Note != nil {
		c.Note = *r.Note
	}
}

type CreateContractLineRequest struct {
	ProductID      string           `json:"product_id" validate:"required"`
	Name           string           `json:"name"`
	Quantity       decimal.Decimal  `json:"quantity"`
	UomID          string           `json:"uom_id"`
	PriceUnit      *decimal.Decimal `json:"price_unit,omitempty"`
	Discount       decimal.Decimal  `json:"discount"`
	AutomaticPrice bool             `json:"automatic_price"`

	RecurringRuleType      types.RecurringRuleType `json:"recurring_rule_type" validate:"required"`
	RecurringInterval      int                     `json:"recurring_interval" validate:"required,min=1"`
	RecurringInvoicingType types.InvoicingType     `json:"recurring_invoicing_type"`

	DateStart         string  `json:"date_start" validate:"required"`
	DateEnd           *string `json:"date_end,omitempty"`
	RecurringNextDate *string `json:"recurring_next_date,omitempty"`

	IsAutoRenew       bool                    `json:"is_auto_renew"`
	AutoRenewInterval int                     `json:"auto_renew_interval" validate:"omitempty,min=1"`
	AutoRenewRuleType types.RecurringRuleType `json:"auto_renew_rule_type"`

	Sequence int `json:"sequence"`
}

func (r *CreateContractLineRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	if err := contract.ValidateDiscount("", r.Discount); err != nil {
		return err
	}
	if err := r.RecurringRuleType.Validate(); err != nil {
		return err
	}
	if r.RecurringInvoicingType != "" {
		if err := r.RecurringInvoicingType.Validate(); err != nil {
			return err
		}
	}
	if r.AutoRenewRuleType != "" {
		if err := r.AutoRenewRuleType.Validate(); err != nil {
			return err
		}
	}
	if _, err := types.ParseDate(r.DateStart); err != nil {
		return err
	}
	if _, err := parseDatePtr(r.DateEnd); err != nil {
		return err
	}
	_, err := parseDatePtr(r.RecurringNextDate)
	return err
}

// ToContractLine builds a line of contractID. Quantity defaults to one.
// Defaults for the cursor are applied by the service once the line is complete.
func (r *CreateContractLineRequest) ToContractLine(ctx context.Context, contractID string) (*contract.ContractLine, error) {
	dateStart, err := types.ParseDate(r.DateStart)
	if err != nil {
		return nil, err
	}
	dateEnd, err := parseDatePtr(r.DateEnd)
	if err != nil {
		return nil, err
	}
	next, err := parseDatePtr(r.RecurringNextDate)
	if err != nil {
		return nil, err
	}

	line := &contract.ContractLine{
		ID:                     types.GenerateUUIDWithPrefix(types.UUID_PREFIX_CONTRACT_LINE),
		ContractID:             contractID,
		ProductID:              r.ProductID,
		Name:                   r.Name,
		Quantity:               r.Quantity,
		UomID:                  r.UomID,
		Discount:               r.Discount,
		AutomaticPrice:         r.AutomaticPrice,
		RecurringRuleType:      r.RecurringRuleType,
		RecurringInterval:      r.RecurringInterval,
		RecurringInvoicingType: r.RecurringInvoicingType,
		DateStart:              dateStart,
		DateEnd:                dateEnd,
		RecurringNextDate:      next,
		IsAutoRenew:            r.IsAutoRenew,
		AutoRenewInterval:      r.AutoRenewInterval,
		AutoRenewRuleType:      r.AutoRenewRuleType,
		Active:                 true,
		Sequence:               r.Sequence,
		BaseModel:              types.GetDefaultBaseModel(ctx),
	}
	if line.Quantity.IsZero() {
		line.Quantity = decimal.NewFromInt(1)
	}
	if r.PriceUnit != nil {
		line.PriceUnit = *r.PriceUnit
	}
	return line, nil
}

// HasPriceUnit reports whether the caller chose the price explicitly
func (r *CreateContractLineRequest) HasPriceUnit() bool {
	return r.PriceUnit != nil
}

// UpdateContractLineRequest changes the set fields of a line.
// An empty date_end clears the end date.
type UpdateContractLineRequest struct {
	ProductID      *string          `json:"product_id,omitempty"`
	Name           *string          `json:"name,omitempty"`
	Quantity       *decimal.Decimal `json:"quantity,omitempty"`
	UomID          *string          `json:"uom_id,omitempty"`
	PriceUnit      *decimal.Decimal `json:"price_unit,omitempty"`
	Discount       *decimal.Decimal `json:"discount,omitempty"`
	AutomaticPrice *bool            `json:"automatic_price,omitempty"`

	RecurringRuleType      *types.RecurringRuleType `json:"recurring_rule_type,omitempty"`
	RecurringInterval      *int                     `json:"recurring_interval,omitempty" validate:"omitempty,min=1"`
	RecurringInvoicingType *types.InvoicingType     `json:"recurring_invoicing_type,omitempty"`

	DateStart         *string `json:"date_start,omitempty"`
	DateEnd           *string `json:"date_end,omitempty"`
	RecurringNextDate *string `json:"recurring_next_date,omitempty"`

	IsAutoRenew       *bool                    `json:"is_auto_renew,omitempty"`
	AutoRenewInterval *int                     `json:"auto_renew_interval,omitempty" validate:"omitempty,min=1"`
	AutoRenewRuleType *types.RecurringRuleType `json:"auto_renew_rule_type,omitempty"`

	Active   *bool `json:"active,omitempty"`
	Sequence *int  `json:"sequence,omitempty"`
}

func (r *UpdateContractLineRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	if r.Discount != nil {
		if err := contract.ValidateDiscount("", *r.Discount); err != nil {
			return err
		}
	}
	if r.RecurringRuleType != nil {
		if err := r.RecurringRuleType.Validate(); err != nil {
			return err
		}
	}
	if r.RecurringInvoicingType != nil {
		if err := r.RecurringInvoicingType.Validate(); err != nil {
			return err
		}
	}
	if r.DateStart != nil {
		if _, err := types.ParseDate(*r.DateStart); err != nil {
			return err
		}
	}
	if _, err := parseDatePtr(r.DateEnd); err != nil {
		return err
	}
	_, err := parseDatePtr(r.RecurringNextDate)
	return err
}

// ProductChanged reports whether the update points the line at another product
func (r *UpdateContractLineRequest) ProductChanged(line *contract.ContractLine) bool {
	return r.ProductID != nil && *r.ProductID != line.ProductID
}

// ApplyTo returns a copy of line with the set fields applied
func (r *UpdateContractLineRequest) ApplyTo(line *contract.ContractLine) (*contract.ContractLine, error) {
	out := line.Clone()
	if r.ProductID != nil {
		out.ProductID = *r.ProductID
	}
	if r.Name != nil {
		out.Name = *r.Name
	}
	if r.Quantity != nil {
		out.Quantity = *r.Quantity
	}
	if r.UomID != nil {
		out.UomID = *r.UomID
	}
	if r.PriceUnit != nil {
		out.PriceUnit = *r.PriceUnit
	}
	if r.Discount != nil {
		out.Discount = *r.Discount
	}
	if r.AutomaticPrice != nil {
		out.AutomaticPrice = *r.AutomaticPrice
	}
	if r.RecurringRuleType != nil {
		out.RecurringRuleType = *r.RecurringRuleType
	}
	if r.RecurringInterval != nil {
		out.RecurringInterval = *r.RecurringInterval
	}
	if r.RecurringInvoicingType != nil {
		out.RecurringInvoicingType = *r.RecurringInvoicingType
	}
	if r.DateStart != nil {
		d, err := types.ParseDate(*r.DateStart)
		if err != nil {
			return nil, err
		}
		out.DateStart = d
	}
	if r.DateEnd != nil {
		d, err := parseDatePtr(r.DateEnd)
		if err != nil {
			return nil, err
		}
		out.DateEnd = d
	}
	if r.RecurringNextDate != nil {
		d, err := parseDatePtr(r.RecurringNextDate)
		if err != nil {
			return nil, err
		}
		out.RecurringNextDate = d
	}
	if r.IsAutoRenew != nil {
		out.IsAutoRenew = *r.IsAutoRenew
	}
	if r.AutoRenewInterval != nil {
		out.AutoRenewInterval = *r.AutoRenewInterval
	}
	if r.AutoRenewRuleType != nil {
		out.AutoRenewRuleType = *r.AutoRenewRuleType
	}
	if r.Active != nil {
		out.Active = *r.Active
	}
	if r.Sequence != nil {
		out.Sequence = *r.Sequence
	}
	return out, nil
}

// SetsDateEnd reports whether the caller chose the end date explicitly
func (r *UpdateContractLineRequest) SetsDateEnd() bool {
	return r.DateEnd != nil
}

// DuplicateContractRequest overrides header fields of the copy
type DuplicateContractRequest struct {
	contract.DuplicateOverrides
}

func (r *DuplicateContractRequest) Validate() error {
	if r.Name != nil && *r.Name == "" {
		return ierr.NewError("name cannot be empty").
			WithHint("Contract name cannot be empty").
			Mark(ierr.ErrValidation)
	}
	if r.GenerationType != nil {
		return r.GenerationType.Validate()
	}
	return nil
}

type ApplyTemplateRequest struct {
	TemplateID string  `json:"template_id" validate:"required"`
	DateStart  *string `json:"date_start,omitempty"`
}

func (r *ApplyTemplateRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	_, err := parseDatePtr(r.DateStart)
	return err
}

// GetDateStart returns the start date for the appended lines
func (r *ApplyTemplateRequest) GetDateStart(today time.Time) (time.Time, error) {
	d, err := parseDatePtr(r.DateStart)
	if err != nil || d == nil {
		return types.ToDate(today), err
	}
	return *d, nil
}

// OnChangeProductRequest previews the fields derived from a product.
// An empty product id uses the line's current product.
type OnChangeProductRequest struct {
	ProductID string `json:"product_id"`
}

// LinePatchResponse is a proposed change to a line. Nothing is stored.
type LinePatchResponse struct {
	contract.LinePatch
	Line *ContractLineResponse `json:"line"`
}

type ContractLineResponse struct {
	*contract.ContractLine
	PriceSubtotal decimal.Decimal `json:"price_subtotal"`
}

func NewContractLineResponse(line *contract.ContractLine) *ContractLineResponse {
	return &ContractLineResponse{
		ContractLine:  line,
		PriceSubtotal: line.PriceSubtotal(),
	}
}

type ContractResponse struct {
	*contract.Contract
	RecurringNextDate *time.Time              `json:"recurring_next_date,omitempty"`
	Lines             []*ContractLineResponse `json:"lines"`
}

func NewContractResponse(c *contract.Contract) *ContractResponse {
	resp := &ContractResponse{
		Contract:          c,
		RecurringNextDate: c.RecurringNextDate(),
		Lines:             make([]*ContractLineResponse, 0, len(c.Lines)),
	}
	for _, line := range c.Lines {
		resp.Lines = append(resp.Lines, NewContractLineResponse(line))
	}
	return resp
}

// ListContractsResponse represents the response for listing contracts
type ListContractsResponse = types.ListResponse[*ContractResponse]
