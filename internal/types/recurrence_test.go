package types

import (
	"strings"
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNextRecurrenceDate(t *testing.T) {
	tests := []struct {
		name     string
		start    time.Time
		interval int
		rule     RecurringRuleType
		want     time.Time
		wantErr  bool
		errMsg   string
	}{
		{
			name:     "daily crosses month boundary",
			start:    date(2024, time.March, 31),
			interval: 5,
			rule:     RecurringRuleDaily,
			want:     date(2024, time.April, 5),
		},
		{
			name:     "daily leap year february",
			start:    date(2024, time.February, 27),
			interval: 3,
			rule:     RecurringRuleDaily,
			want:     date(2024, time.March, 1),
		},
		{
			name:     "weekly three weeks",
			start:    date(2024, time.December, 20),
			interval: 3,
			rule:     RecurringRuleWeekly,
			want:     date(2025, time.January, 10),
		},
		{
			name:     "monthly simple",
			start:    date(2020, time.January, 15),
			interval: 1,
			rule:     RecurringRuleMonthly,
			want:     date(2020, time.February, 15),
		},
		{
			name:     "monthly 31st clamps to leap february",
			start:    date(2024, time.January, 31),
			interval: 1,
			rule:     RecurringRuleMonthly,
			want:     date(2024, time.February, 29),
		},
		{
			name:     "monthly 31st clamps to non leap february",
			start:    date(2023, time.January, 31),
			interval: 1,
			rule:     RecurringRuleMonthly,
			want:     date(2023, time.February, 28),
		},
		{
			name:     "monthly two months keeps the 31st",
			start:    date(2024, time.January, 31),
			interval: 2,
			rule:     RecurringRuleMonthly,
			want:     date(2024, time.March, 31),
		},
		{
			name:     "monthly crosses year boundary",
			start:    date(2024, time.November, 30),
			interval: 3,
			rule:     RecurringRuleMonthly,
			want:     date(2025, time.February, 28),
		},
		{
			name:     "monthly last day from mid month",
			start:    date(2024, time.January, 15),
			interval: 1,
			rule:     RecurringRuleMonthlyLastDay,
			want:     date(2024, time.February, 29),
		},
		{
			name:     "monthly last day from month end",
			start:    date(2024, time.April, 30),
			interval: 1,
			rule:     RecurringRuleMonthlyLastDay,
			want:     date(2024, time.May, 31),
		},
		{
			name:     "yearly from leap day",
			start:    date(2024, time.February, 29),
			interval: 1,
			rule:     RecurringRuleYearly,
			want:     date(2025, time.February, 28),
		},
		{
			name:     "yearly four years back to leap day",
			start:    date(2024, time.February, 29),
			interval: 4,
			rule:     RecurringRuleYearly,
			want:     date(2028, time.February, 29),
		},
		{
			name:     "zero interval",
			start:    date(2024, time.March, 10),
			interval: 0,
			rule:     RecurringRuleMonthly,
			wantErr:  true,
			errMsg:   "recurring interval must be a positive integer",
		},
		{
			name:     "unknown rule",
			start:    date(2024, time.March, 10),
			interval: 1,
			rule:     RecurringRuleType("hourly"),
			wantErr:  true,
			errMsg:   "invalid recurring rule type",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NextRecurrenceDate(tt.start, tt.interval, tt.rule)
			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error containing %q, got nil", tt.errMsg)
				} else if !strings.Contains(err.Error(), tt.errMsg) {
					t.Errorf("expected error containing %q, got %q", tt.errMsg, err.Error())
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPreviousRecurrenceDate(t *testing.T) {
	tests := []struct {
		name     string
		start    time.Time
		interval int
		rule     RecurringRuleType
		want     time.Time
	}{
		{
			name:     "monthly back across year",
			start:    date(2020, time.January, 15),
			interval: 1,
			rule:     RecurringRuleMonthly,
			want:     date(2019, time.December, 15),
		},
		{
			name:     "monthly back clamps",
			start:    date(2024, time.March, 31),
			interval: 1,
			rule:     RecurringRuleMonthly,
			want:     date(2024, time.February, 29),
		},
		{
			name:     "weekly back",
			start:    date(2024, time.January, 3),
			interval: 1,
			rule:     RecurringRuleWeekly,
			want:     date(2023, time.December, 27),
		},
		{
			name:     "yearly back",
			start:    date(2021, time.June, 1),
			interval: 2,
			rule:     RecurringRuleYearly,
			want:     date(2019, time.June, 1),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := PreviousRecurrenceDate(tt.start, tt.interval, tt.rule)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestToDate(t *testing.T) {
	ist := time.FixedZone("IST", 5*60*60+30*60)
	got := ToDate(time.Date(2024, time.January, 31, 23, 30, 0, 0, ist))
	if !got.Equal(date(2024, time.January, 31)) {
		t.Errorf("got %v, want 2024-01-31 UTC", got)
	}
	if FormatDate(got) != "2024-01-31" {
		t.Errorf("got %q, want 2024-01-31", FormatDate(got))
	}
}

func TestParseDate(t *testing.T) {
	got, err := ParseDate("2020-02-29")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Equal(date(2020, time.February, 29)) {
		t.Errorf("got %v", got)
	}

	if _, err := ParseDate("2020-02-30"); err == nil {
		t.Errorf("expected error for invalid date")
	}
}
