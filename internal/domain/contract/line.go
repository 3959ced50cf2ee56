package contract

import (
	"time"

	"github.com/Ontinet-com/contract/internal/types"
	"github.com/shopspring/decimal"
)

// ContractLine is one recurring billable item of a contract. Its cursor,
// RecurringNextDate, is the next date the line is due for generation.
type ContractLine struct {
	ID             string          `db:"id" json:"id"`
	ContractID     string          `db:"contract_id" json:"contract_id"`
	ProductID      string          `db:"product_id" json:"product_id"`
	Name           string          `db:"name" json:"name"`
	Quantity       decimal.Decimal `db:"quantity" json:"quantity"`
	UomID          string          `db:"uom_id" json:"uom_id"`
	PriceUnit      decimal.Decimal `db:"price_unit" json:"price_unit"`
	Discount       decimal.Decimal `db:"discount" json:"discount"`
	AutomaticPrice bool            `db:"automatic_price" json:"automatic_price"`

	RecurringRuleType      types.RecurringRuleType `db:"recurring_rule_type" json:"recurring_rule_type"`
	RecurringInterval      int                     `db:"recurring_interval" json:"recurring_interval"`
	RecurringInvoicingType types.InvoicingType     `db:"recurring_invoicing_type" json:"recurring_invoicing_type"`

	DateStart         time.Time  `db:"date_start" json:"date_start"`
	DateEnd           *time.Time `db:"date_end" json:"date_end,omitempty"`
	RecurringNextDate *time.Time `db:"recurring_next_date" json:"recurring_next_date,omitempty"`
	LastDateInvoiced  *time.Time `db:"last_date_invoiced" json:"last_date_invoiced,omitempty"`

	IsAutoRenew       bool                    `db:"is_auto_renew" json:"is_auto_renew"`
	AutoRenewInterval int                     `db:"auto_renew_interval" json:"auto_renew_interval"`
	AutoRenewRuleType types.RecurringRuleType `db:"auto_renew_rule_type" json:"auto_renew_rule_type"`

	Active   bool `db:"active" json:"active"`
	Sequence int  `db:"sequence" json:"sequence"`

	types.BaseModel
}

var hundred = decimal.NewFromInt(100)

// Period is a service period, both ends inclusive
type Period struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// PriceSubtotal is quantity * price_unit * (1 - discount/100), rounded to cents
func (l *ContractLine) PriceSubtotal() decimal.Decimal {
	return Subtotal(l.Quantity, l.PriceUnit, l.Discount)
}

// Subtotal computes the discounted line amount shared by contract and order lines
func Subtotal(quantity, priceUnit, discount decimal.Decimal) decimal.Decimal {
	factor := hundred.Sub(discount).Div(hundred)
	return quantity.Mul(priceUnit).Mul(factor).Round(2)
}

// ValidateDiscount checks the discount lies in [0, 100]
func ValidateDiscount(lineID string, discount decimal.Decimal) error {
	if discount.LessThan(decimal.Zero) || discount.GreaterThan(hundred) {
		return NewLineValidationError(lineID, "discount", "discount must be between 0 and 100")
	}
	return nil
}

// Validate checks the fields a line needs to be stored and generated from
func (l *ContractLine) Validate() error {
	if err := ValidateDiscount(l.ID, l.Discount); err != nil {
		return err
	}
	if l.RecurringRuleType == "" {
		return NewLineValidationError(l.ID, "recurring_rule_type", "recurring rule type is required")
	}
	if err := l.RecurringRuleType.Validate(); err != nil {
		return err
	}
	if l.RecurringInterval < 1 {
		return NewLineValidationError(l.ID, "recurring_interval", "recurring interval must be at least 1")
	}
	if err := l.RecurringInvoicingType.Validate(); err != nil {
		return err
	}
	if l.DateStart.IsZero() {
		return NewLineValidationError(l.ID, "date_start", "date start is required")
	}
	if l.DateEnd != nil && l.DateEnd.Before(l.DateStart) {
		return NewLineValidationError(l.ID, "date_end", "date end must not be before date start")
	}
	if l.IsAutoRenew {
		if l.AutoRenewInterval < 1 {
			return NewLineValidationError(l.ID, "auto_renew_interval", "auto renew interval must be at least 1")
		}
		if err := l.AutoRenewRuleType.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// IsActive reports whether the line still takes part in generation. A line past
// its date end without auto-renew is finished even if the flag was never cleared.
func (l *ContractLine) IsActive() bool {
	if !l.Active || l.Status == types.StatusDeleted {
		return false
	}
	if l.DateEnd != nil && l.RecurringNextDate != nil && !l.IsAutoRenew &&
		types.ToDate(*l.RecurringNextDate).After(types.ToDate(*l.DateEnd)) {
		return false
	}
	return true
}

// IsDue reports whether the line is active and its cursor is on or before asOf
func (l *ContractLine) IsDue(asOf time.Time) bool {
	if !l.IsActive() || l.RecurringNextDate == nil {
		return false
	}
	return !types.ToDate(*l.RecurringNextDate).After(types.ToDate(asOf))
}

// ApplyDefaults fills the invoicing type and cursor of a new line.
// Pre-paid lines are first due on date start, post-paid lines one period later.
func (l *ContractLine) ApplyDefaults() error {
	if l.RecurringInvoicingType == "" {
		l.RecurringInvoicingType = types.InvoicingTypePrePaid
	}
	if l.AutoRenewRuleType == "" {
		l.AutoRenewRuleType = types.RecurringRuleYearly
	}
	if l.AutoRenewInterval == 0 {
		l.AutoRenewInterval = 1
	}
	if l.RecurringNextDate != nil || l.DateStart.IsZero() {
		return nil
	}

	next := types.ToDate(l.DateStart)
	if l.RecurringInvoicingType == types.InvoicingTypePostPaid {
		var err error
		next, err = types.NextRecurrenceDate(next, l.RecurringInterval, l.RecurringRuleType)
		if err != nil {
			return err
		}
	}
	l.RecurringNextDate = &next
	return nil
}

// NextPeriod returns the service period billed at the current cursor.
// Pre-paid runs forward from the cursor, post-paid runs back to the
// previous cursor but never before date start. The end is clamped to date
// end, after renewing it under policy when the line auto-renews.
func (l *ContractLine) NextPeriod(policy types.RenewalPolicy) (Period, error) {
	if l.RecurringNextDate == nil {
		return Period{}, NewLineValidationError(l.ID, "recurring_next_date", "line has no recurring next date")
	}
	cursor := types.ToDate(*l.RecurringNextDate)

	var p Period
	switch l.RecurringInvoicingType {
	case types.InvoicingTypePostPaid:
		start, err := types.PreviousRecurrenceDate(cursor, l.RecurringInterval, l.RecurringRuleType)
		if err != nil {
			return Period{}, err
		}
		if dateStart := types.ToDate(l.DateStart); start.Before(dateStart) {
			start = dateStart
		}
		p = Period{Start: start, End: cursor}
	default:
		end, err := types.NextRecurrenceDate(cursor, l.RecurringInterval, l.RecurringRuleType)
		if err != nil {
			return Period{}, err
		}
		p = Period{Start: cursor, End: end}
	}

	dateEnd, err := l.renewedUntil(p.End, policy)
	if err != nil {
		return Period{}, err
	}
	if dateEnd != nil && p.End.After(*dateEnd) {
		p.End = *dateEnd
	}
	return p, nil
}

// Advance returns a copy of the line with the cursor moved one period forward.
// An auto-renewing line gets its date end renewed under policy to cover the
// billed period and the new cursor. Otherwise a cursor past date end
// deactivates the line. The receiver is not modified.
func (l *ContractLine) Advance(policy types.RenewalPolicy) (*ContractLine, error) {
	if l.RecurringNextDate == nil {
		return nil, NewLineValidationError(l.ID, "recurring_next_date", "line has no recurring next date")
	}

	period, err := l.NextPeriod(policy)
	if err != nil {
		return nil, err
	}

	next, err := types.NextRecurrenceDate(types.ToDate(*l.RecurringNextDate), l.RecurringInterval, l.RecurringRuleType)
	if err != nil {
		return nil, err
	}

	out := l.Clone()
	out.RecurringNextDate = &next
	invoiced := period.End
	out.LastDateInvoiced = &invoiced

	if out.DateEnd == nil {
		return out, nil
	}
	if !out.IsAutoRenew {
		if next.After(types.ToDate(*out.DateEnd)) {
			out.Active = false
		}
		return out, nil
	}

	until := period.End
	if next.After(until) {
		until = next
	}
	if out.DateEnd, err = l.renewedUntil(until, policy); err != nil {
		return nil, err
	}
	return out, nil
}

// renewedUntil returns the date end of the line renewed as many times as
// needed to reach until. Lines without date end or auto-renew keep theirs.
func (l *ContractLine) renewedUntil(until time.Time, policy types.RenewalPolicy) (*time.Time, error) {
	if l.DateEnd == nil {
		return nil, nil
	}
	dateEnd := types.ToDate(*l.DateEnd)
	if !l.IsAutoRenew {
		return &dateEnd, nil
	}

	until = types.ToDate(until)
	for until.After(dateEnd) {
		renewed, err := l.renewedDateEnd(dateEnd, policy)
		if err != nil {
			return nil, err
		}
		if !renewed.After(dateEnd) {
			return nil, NewLineValidationError(l.ID, "auto_renew_interval", "auto renewal does not extend date end")
		}
		dateEnd = renewed
	}
	return &dateEnd, nil
}

func (l *ContractLine) renewedDateEnd(dateEnd time.Time, policy types.RenewalPolicy) (time.Time, error) {
	switch policy {
	case types.RenewalPolicyRecompute:
		return AutoRenewDateEnd(dateEnd.AddDate(0, 0, 1), l.AutoRenewInterval, l.AutoRenewRuleType)
	case types.RenewalPolicyExtendPeriod, "":
		return types.NextRecurrenceDate(dateEnd, l.RecurringInterval, l.RecurringRuleType)
	default:
		return time.Time{}, policy.Validate()
	}
}

// AutoRenewDateEnd is the last day of a term of interval units of rule starting on start
func AutoRenewDateEnd(start time.Time, interval int, rule types.RecurringRuleType) (time.Time, error) {
	end, err := types.NextRecurrenceDate(types.ToDate(start), interval, rule)
	if err != nil {
		return time.Time{}, err
	}
	return end.AddDate(0, 0, -1), nil
}

// Clone returns a deep copy of the line
func (l *ContractLine) Clone() *ContractLine {
	if l == nil {
		return nil
	}
	cp := *l
	cp.DateEnd = cloneTime(l.DateEnd)
	cp.RecurringNextDate = cloneTime(l.RecurringNextDate)
	cp.LastDateInvoiced = cloneTime(l.LastDateInvoiced)
	return &cp
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
