package contract

import (
	"time"

	"github.com/Ontinet-com/contract/internal/types"
)

// Contract is a recurring agreement with a partner whose lines generate
// sales or purchase orders on a schedule.
type Contract struct {
	// ID is the unique identifier for the contract
	ID string `db:"id" json:"id"`

	// Name is shown on generated orders as their origin
	Name string `db:"name" json:"name"`

	// Code is an optional external reference
	Code string `db:"code" json:"code"`

	// PartnerID is the customer or vendor the contract is with
	PartnerID string `db:"partner_id" json:"partner_id"`

	// ContractType tells whether lines use sale or purchase product descriptions
	ContractType types.ContractType `db:"contract_type" json:"contract_type"`

	// GenerationType selects the order kind the contract generates, empty means none
	GenerationType types.GenerationType `db:"generation_type" json:"generation_type"`

	// AutoConfirm confirms generated orders right after they are created
	AutoConfirm bool `db:"auto_confirm" json:"auto_confirm"`

	PricelistID string `db:"pricelist_id" json:"pricelist_id"`

	// UserID is the responsible user, copied onto generated orders
	UserID string `db:"user_id" json:"user_id"`

	// GroupID is the analytic account, copied onto generated orders
	GroupID string `db:"group_id" json:"group_id"`

	ContractTemplateID string `db:"contract_template_id" json:"contract_template_id"`

	Note string `db:"note" json:"note"`

	// Lines are loaded separately from contract_lines
	Lines []*ContractLine `db:"-" json:"lines,omitempty"`

	types.BaseModel
}

// RecurringNextDate is the earliest cursor among the active lines
func (c *Contract) RecurringNextDate() *time.Time {
	var next *time.Time
	for _, line := range c.Lines {
		if !line.IsActive() || line.RecurringNextDate == nil {
			continue
		}
		if next == nil || line.RecurringNextDate.Before(*next) {
			d := *line.RecurringNextDate
			next = &d
		}
	}
	return next
}

// DueLines returns the lines due on or before asOf, in line order
func (c *Contract) DueLines(asOf time.Time) []*ContractLine {
	var due []*ContractLine
	for _, line := range c.Lines {
		if line.IsDue(asOf) {
			due = append(due, line)
		}
	}
	return due
}

// LineIDs returns the ids of every line, active or not
func (c *Contract) LineIDs() []string {
	ids := make([]string, 0, len(c.Lines))
	for _, line := range c.Lines {
		ids = append(ids, line.ID)
	}
	return ids
}

// CheckGeneration reports whether the contract may generate orders of kind
func (c *Contract) CheckGeneration(kind types.OrderKind) error {
	if c.GenerationType == types.GenerationTypeNone {
		return NewInvalidStateError(c.ID, "contract has no generation type")
	}
	if c.GenerationType.OrderKind() != kind {
		return NewInvalidStateError(c.ID, "contract generates "+string(c.GenerationType)+" orders, not "+string(kind))
	}
	if len(c.Lines) == 0 {
		return NewInvalidStateError(c.ID, "contract has no lines")
	}
	return nil
}

// Validate checks the header fields
func (c *Contract) Validate() error {
	if c.Name == "" {
		return NewValidationError("name", "contract name is required")
	}
	if c.PartnerID == "" {
		return NewValidationError("partner_id", "partner is required")
	}
	if err := c.ContractType.Validate(); err != nil {
		return err
	}
	return c.GenerationType.Validate()
}

// Clone returns a deep copy sharing no lines or pointers with c
func (c *Contract) Clone() *Contract {
	if c == nil {
		return nil
	}
	cp := *c
	if c.Lines != nil {
		cp.Lines = make([]*ContractLine, len(c.Lines))
		for i, line := range c.Lines {
			cp.Lines[i] = line.Clone()
		}
	}
	return &cp
}

// DuplicateOverrides are the header values replaced on a duplicated contract
type DuplicateOverrides struct {
	Name           *string               `json:"name,omitempty"`
	PartnerID      *string               `json:"partner_id,omitempty"`
	GenerationType *types.GenerationType `json:"generation_type,omitempty"`
}

// Duplicate deep-copies the contract and its lines under fresh ids.
// Cursors are kept, so the copy is due exactly when the original is.
// Audit fields are left for the caller to stamp.
func (c *Contract) Duplicate(overrides DuplicateOverrides) *Contract {
	dup := c.Clone()
	dup.ID = types.GenerateUUIDWithPrefix(types.UUID_PREFIX_CONTRACT)
	if overrides.Name != nil {
		dup.Name = *overrides.Name
	}
	if overrides.PartnerID != nil {
		dup.PartnerID = *overrides.PartnerID
	}
	if overrides.GenerationType != nil {
		dup.GenerationType = *overrides.GenerationType
	}
	for _, line := range dup.Lines {
		line.ID = types.GenerateUUIDWithPrefix(types.UUID_PREFIX_CONTRACT_LINE)
		line.ContractID = dup.ID
	}
	return dup
}
