package types

import (
	"time"

	ierr "github.com/Ontinet-com/contract/internal/errors"
	"github.com/samber/lo"
)

// RecurringRuleType is the calendar unit a contract line recurs by.
type RecurringRuleType string

const (
	RecurringRuleDaily          RecurringRuleType = "daily"
	RecurringRuleWeekly         RecurringRuleType = "weekly"
	RecurringRuleMonthly        RecurringRuleType = "monthly"
	RecurringRuleMonthlyLastDay RecurringRuleType = "monthlylastday"
	RecurringRuleYearly         RecurringRuleType = "yearly"
)

var recurringRuleTypes = []RecurringRuleType{
	RecurringRuleDaily,
	RecurringRuleWeekly,
	RecurringRuleMonthly,
	RecurringRuleMonthlyLastDay,
	RecurringRuleYearly,
}

func (r RecurringRuleType) Validate() error {
	if !lo.Contains(recurringRuleTypes, r) {
		return ierr.NewError("invalid recurring rule type").
			WithHint("Recurring rule type must be daily, weekly, monthly, monthlylastday or yearly").
			WithReportableDetails(map[string]any{
				"recurring_rule_type": r,
				"allowed":             recurringRuleTypes,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// DateFormat is the layout used for service period tokens and date-only fields.
const DateFormat = "2006-01-02"

// ToDate drops the clock part of t and normalises it to UTC midnight.
func ToDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD string into a UTC date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateFormat, s)
	if err != nil {
		return time.Time{}, ierr.WithError(err).
			WithHintf("Invalid date %q, expected YYYY-MM-DD", s).
			Mark(ierr.ErrValidation)
	}
	return t, nil
}

// FormatDate renders t as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(DateFormat)
}

// MustParseDate is ParseDate for fixtures and constants.
func MustParseDate(s string) time.Time {
	t, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return t
}

// NextRecurrenceDate moves start forward by interval units of rule.
// For example:
// - monthly with interval 2 adds two months, clamping to the month end (Jan 31 -> Mar 31, Dec 31 -> Feb 28).
// - monthlylastday with interval 1 lands on the last day of the next month.
// - weekly with interval 3 adds 21 days.
func NextRecurrenceDate(start time.Time, interval int, rule RecurringRuleType) (time.Time, error) {
	if interval <= 0 {
		return start, ierr.NewErrorf("recurring interval must be a positive integer, got %d", interval).
			WithHint("Recurring interval must be at least 1").
			Mark(ierr.ErrValidation)
	}
	return AddRecurrence(start, interval, rule)
}

// PreviousRecurrenceDate moves start backward by interval units of rule.
func PreviousRecurrenceDate(start time.Time, interval int, rule RecurringRuleType) (time.Time, error) {
	if interval <= 0 {
		return start, ierr.NewErrorf("recurring interval must be a positive integer, got %d", interval).
			WithHint("Recurring interval must be at least 1").
			Mark(ierr.ErrValidation)
	}
	return AddRecurrence(start, -interval, rule)
}

// AddRecurrence shifts t by steps units of rule. Negative steps go back in time.
func AddRecurrence(t time.Time, steps int, rule RecurringRuleType) (time.Time, error) {
	switch rule {
	case RecurringRuleDaily:
		return t.AddDate(0, 0, steps), nil
	case RecurringRuleWeekly:
		return t.AddDate(0, 0, 7*steps), nil
	case RecurringRuleMonthly:
		return AddClampedMonths(t, 0, steps), nil
	case RecurringRuleMonthlyLastDay:
		return EndOfMonth(AddClampedMonths(t, 0, steps)), nil
	case RecurringRuleYearly:
		return AddClampedMonths(t, steps, 0), nil
	default:
		return t, ierr.NewErrorf("invalid recurring rule type: %s", rule).
			WithHint("Recurring rule type must be daily, weekly, monthly, monthlylastday or yearly").
			Mark(ierr.ErrValidation)
	}
}

// AddClampedMonths adds years and months to t, keeping the day of month
// but clamping it to the last valid day of the target month.
func AddClampedMonths(t time.Time, years, months int) time.Time {
	y, m, d := t.Date()
	h, mi, sec := t.Clock()

	total := int(m) - 1 + months + 12*years
	newY := y + floorDiv(total, 12)
	newM := time.Month(total - 12*floorDiv(total, 12) + 1)

	if last := daysIn(newY, newM, t.Location()); d > last {
		d = last
	}

	return time.Date(newY, newM, d, h, mi, sec, t.Nanosecond(), t.Location())
}

// EndOfMonth returns the last day of t's month, keeping the clock.
func EndOfMonth(t time.Time) time.Time {
	y, m, _ := t.Date()
	h, mi, sec := t.Clock()
	return time.Date(y, m, daysIn(y, m, t.Location()), h, mi, sec, t.Nanosecond(), t.Location())
}

func daysIn(year int, month time.Month, loc *time.Location) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, loc).Day()
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
