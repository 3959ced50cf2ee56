package contract

import (
	"testing"
	"time"

	ierr "github.com/Ontinet-com/contract/internal/errors"
	"github.com/Ontinet-com/contract/internal/types"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) time.Time {
	return types.MustParseDate(s)
}

func monthlyLine() *ContractLine {
	return &ContractLine{
		ID:                     "cline_1",
		Name:                   "Services from #START# to #END#",
		Quantity:               decimal.NewFromInt(1),
		PriceUnit:              decimal.NewFromInt(100),
		Discount:               decimal.NewFromInt(50),
		RecurringRuleType:      types.RecurringRuleMonthly,
		RecurringInterval:      1,
		RecurringInvoicingType: types.InvoicingTypePrePaid,
		DateStart:              d("2020-01-15"),
		RecurringNextDate:      lo.ToPtr(d("2020-01-15")),
		AutoRenewInterval:      1,
		AutoRenewRuleType:      types.RecurringRuleYearly,
		Active:                 true,
	}
}

func TestValidateDiscount(t *testing.T) {
	tests := []struct {
		discount decimal.Decimal
		wantErr  bool
	}{
		{decimal.NewFromInt(-1), true},
		{decimal.Zero, false},
		{decimal.NewFromInt(50), false},
		{decimal.NewFromInt(100), false},
		{decimal.NewFromFloat(100.01), true},
		{decimal.NewFromInt(120), true},
	}

	for _, tt := range tests {
		t.Run(tt.discount.String(), func(t *testing.T) {
			err := ValidateDiscount("cline_1", tt.discount)
			if tt.wantErr {
				assert.True(t, ierr.IsValidation(err))
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestContractLine_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(l *ContractLine)
		field  string
	}{
		{name: "missing rule type", mutate: func(l *ContractLine) { l.RecurringRuleType = "" }},
		{name: "unknown rule type", mutate: func(l *ContractLine) { l.RecurringRuleType = "hourly" }},
		{name: "zero interval", mutate: func(l *ContractLine) { l.RecurringInterval = 0 }},
		{name: "missing date start", mutate: func(l *ContractLine) { l.DateStart = time.Time{} }},
		{name: "date end before start", mutate: func(l *ContractLine) { l.DateEnd = lo.ToPtr(d("2020-01-01")) }},
		{name: "discount out of range", mutate: func(l *ContractLine) { l.Discount = decimal.NewFromInt(120) }},
		{name: "unknown invoicing type", mutate: func(l *ContractLine) { l.RecurringInvoicingType = "on-delivery" }},
		{name: "auto renew without interval", mutate: func(l *ContractLine) {
			l.IsAutoRenew = true
			l.AutoRenewInterval = 0
		}},
	}

	require.NoError(t, monthlyLine().Validate())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			line := monthlyLine()
			tt.mutate(line)
			err := line.Validate()
			require.Error(t, err)
			assert.True(t, ierr.IsValidation(err))
		})
	}
}

func TestContractLine_PriceSubtotal(t *testing.T) {
	line := monthlyLine()
	assert.True(t, decimal.NewFromInt(50).Equal(line.PriceSubtotal()))

	line.Quantity = decimal.NewFromInt(3)
	line.PriceUnit = decimal.RequireFromString("33.33")
	line.Discount = decimal.NewFromInt(10)
	// 3 * 33.33 * 0.9 = 89.991
	assert.Equal(t, "89.99", line.PriceSubtotal().StringFixed(2))
}

func TestContractLine_IsDue(t *testing.T) {
	line := monthlyLine()

	assert.False(t, line.IsDue(d("2020-01-14")))
	assert.True(t, line.IsDue(d("2020-01-15")))
	assert.True(t, line.IsDue(time.Date(2020, time.January, 15, 23, 59, 0, 0, time.UTC)))
	assert.True(t, line.IsDue(d("2020-06-01")))

	inactive := monthlyLine()
	inactive.Active = false
	assert.False(t, inactive.IsDue(d("2020-06-01")))

	noCursor := monthlyLine()
	noCursor.RecurringNextDate = nil
	assert.False(t, noCursor.IsDue(d("2020-06-01")))

	finished := monthlyLine()
	finished.DateEnd = lo.ToPtr(d("2020-01-10"))
	assert.False(t, finished.IsDue(d("2020-06-01")))
}

func TestContractLine_ApplyDefaults(t *testing.T) {
	pre := monthlyLine()
	pre.RecurringNextDate = nil
	pre.RecurringInvoicingType = ""
	require.NoError(t, pre.ApplyDefaults())
	assert.Equal(t, types.InvoicingTypePrePaid, pre.RecurringInvoicingType)
	assert.Equal(t, d("2020-01-15"), *pre.RecurringNextDate)

	post := monthlyLine()
	post.RecurringNextDate = nil
	post.DateStart = d("2020-01-01")
	post.RecurringInvoicingType = types.InvoicingTypePostPaid
	require.NoError(t, post.ApplyDefaults())
	assert.Equal(t, d("2020-02-01"), *post.RecurringNextDate)

	kept := monthlyLine()
	kept.RecurringNextDate = lo.ToPtr(d("2020-03-03"))
	require.NoError(t, kept.ApplyDefaults())
	assert.Equal(t, d("2020-03-03"), *kept.RecurringNextDate)
}

func TestContractLine_NextPeriod(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(l *ContractLine)
		policy types.RenewalPolicy
		want   Period
	}{
		{
			name:   "pre-paid runs forward from the cursor",
			mutate: func(l *ContractLine) {},
			want:   Period{Start: d("2020-01-15"), End: d("2020-02-15")},
		},
		{
			name:   "pre-paid end clamped to date end",
			mutate: func(l *ContractLine) { l.DateEnd = lo.ToPtr(d("2020-02-01")) },
			want:   Period{Start: d("2020-01-15"), End: d("2020-02-01")},
		},
		{
			name: "post-paid runs back to the previous cursor",
			mutate: func(l *ContractLine) {
				l.RecurringInvoicingType = types.InvoicingTypePostPaid
				l.DateStart = d("2019-01-01")
			},
			want: Period{Start: d("2019-12-15"), End: d("2020-01-15")},
		},
		{
			name: "post-paid start never before date start",
			mutate: func(l *ContractLine) {
				l.RecurringInvoicingType = types.InvoicingTypePostPaid
				l.DateStart = d("2020-01-01")
			},
			want: Period{Start: d("2020-01-01"), End: d("2020-01-15")},
		},
		{
			name: "weekly interval two",
			mutate: func(l *ContractLine) {
				l.RecurringRuleType = types.RecurringRuleWeekly
				l.RecurringInterval = 2
			},
			want: Period{Start: d("2020-01-15"), End: d("2020-01-29")},
		},
		{
			name: "auto renew at date end bills a full period",
			mutate: func(l *ContractLine) {
				l.RecurringNextDate = lo.ToPtr(d("2020-02-15"))
				l.DateEnd = lo.ToPtr(d("2020-02-15"))
				l.IsAutoRenew = true
			},
			want: Period{Start: d("2020-02-15"), End: d("2020-03-15")},
		},
		{
			name: "auto renew recompute bills a full period",
			mutate: func(l *ContractLine) {
				l.RecurringNextDate = lo.ToPtr(d("2020-02-15"))
				l.DateEnd = lo.ToPtr(d("2020-02-20"))
				l.IsAutoRenew = true
			},
			policy: types.RenewalPolicyRecompute,
			want:   Period{Start: d("2020-02-15"), End: d("2020-03-15")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			line := monthlyLine()
			tt.mutate(line)
			got, err := line.NextPeriod(lo.Ternary(tt.policy == "", types.RenewalPolicyExtendPeriod, tt.policy))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestContractLine_Advance(t *testing.T) {
	t.Run("moves the cursor one month", func(t *testing.T) {
		line := monthlyLine()
		out, err := line.Advance(types.RenewalPolicyExtendPeriod)
		require.NoError(t, err)

		assert.Equal(t, d("2020-02-15"), *out.RecurringNextDate)
		assert.Equal(t, d("2020-02-15"), *out.LastDateInvoiced)
		assert.True(t, out.Active)
		// receiver untouched
		assert.Equal(t, d("2020-01-15"), *line.RecurringNextDate)
		assert.Nil(t, line.LastDateInvoiced)
	})

	t.Run("deactivates past date end", func(t *testing.T) {
		line := monthlyLine()
		line.RecurringNextDate = lo.ToPtr(d("2020-03-15"))
		line.DateEnd = lo.ToPtr(d("2020-03-20"))

		out, err := line.Advance(types.RenewalPolicyExtendPeriod)
		require.NoError(t, err)
		assert.False(t, out.Active)
		assert.Equal(t, d("2020-04-15"), *out.RecurringNextDate)
		assert.Equal(t, d("2020-03-20"), *out.DateEnd)
		assert.False(t, out.IsDue(d("2020-12-31")))
	})

	t.Run("cursor landing on date end stays active", func(t *testing.T) {
		line := monthlyLine()
		line.DateEnd = lo.ToPtr(d("2020-02-15"))

		out, err := line.Advance(types.RenewalPolicyExtendPeriod)
		require.NoError(t, err)
		assert.True(t, out.Active)
	})

	t.Run("auto renew extends by one period", func(t *testing.T) {
		line := monthlyLine()
		line.RecurringNextDate = lo.ToPtr(d("2020-03-15"))
		line.DateEnd = lo.ToPtr(d("2020-03-20"))
		line.IsAutoRenew = true

		out, err := line.Advance(types.RenewalPolicyExtendPeriod)
		require.NoError(t, err)
		assert.True(t, out.Active)
		assert.Equal(t, d("2020-04-20"), *out.DateEnd)
		assert.Equal(t, d("2020-03-20"), *line.DateEnd)
	})

	t.Run("auto renew recompute starts a new term", func(t *testing.T) {
		line := monthlyLine()
		line.RecurringNextDate = lo.ToPtr(d("2020-03-15"))
		line.DateEnd = lo.ToPtr(d("2020-03-20"))
		line.IsAutoRenew = true

		out, err := line.Advance(types.RenewalPolicyRecompute)
		require.NoError(t, err)
		assert.True(t, out.Active)
		assert.Equal(t, d("2021-03-20"), *out.DateEnd)
	})

	t.Run("post-paid line ending mid period stops after its last full period", func(t *testing.T) {
		line := monthlyLine()
		line.RecurringInvoicingType = types.InvoicingTypePostPaid
		line.RecurringNextDate = lo.ToPtr(d("2020-02-15"))
		line.DateEnd = lo.ToPtr(d("2020-03-01"))

		out, err := line.Advance(types.RenewalPolicyExtendPeriod)
		require.NoError(t, err)
		assert.Equal(t, d("2020-02-15"), *out.LastDateInvoiced)
		assert.False(t, out.Active)
		assert.False(t, out.IsDue(d("2020-03-15")))
	})

	t.Run("auto renew cycles keep full periods", func(t *testing.T) {
		line := monthlyLine()
		line.DateEnd = lo.ToPtr(d("2020-02-15"))
		line.IsAutoRenew = true

		want := []Period{
			{Start: d("2020-01-15"), End: d("2020-02-15")},
			{Start: d("2020-02-15"), End: d("2020-03-15")},
			{Start: d("2020-03-15"), End: d("2020-04-15")},
		}
		for _, period := range want {
			got, err := line.NextPeriod(types.RenewalPolicyExtendPeriod)
			require.NoError(t, err)
			assert.Equal(t, period, got)

			line, err = line.Advance(types.RenewalPolicyExtendPeriod)
			require.NoError(t, err)
			assert.True(t, line.Active)
			assert.Equal(t, period.End, *line.LastDateInvoiced)
			assert.Equal(t, period.End, *line.DateEnd)
		}
	})

	t.Run("unknown policy", func(t *testing.T) {
		line := monthlyLine()
		line.DateEnd = lo.ToPtr(d("2020-01-20"))
		line.IsAutoRenew = true

		_, err := line.Advance("forever")
		assert.True(t, ierr.IsValidation(err))
	})
}

func TestResolveName(t *testing.T) {
	period := Period{Start: d("2020-01-15"), End: d("2020-02-15")}

	assert.Equal(t, "Services from 2020-01-15 to 2020-02-15", ResolveName("Services from #START# to #END#", period))
	assert.Equal(t, "Plain name", ResolveName("Plain name", period))
	assert.Equal(t, "2020-01-15/2020-01-15", ResolveName("#START#/#START#", period))
}

func TestOnChangeAutoRenew(t *testing.T) {
	line := monthlyLine()
	line.DateStart = d("2020-01-01")

	patch, err := OnChangeAutoRenew(line)
	require.NoError(t, err)
	assert.True(t, patch.IsEmpty())

	line.IsAutoRenew = true
	patch, err = OnChangeAutoRenew(line)
	require.NoError(t, err)
	require.NotNil(t, patch.DateEnd)
	assert.Equal(t, d("2020-12-31"), *patch.DateEnd)

	applied := patch.Apply(line)
	assert.Equal(t, d("2020-12-31"), *applied.DateEnd)
	assert.Nil(t, line.DateEnd)
}
