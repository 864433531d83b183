package paycheck

import (
	"testing"

	"github.com/punchcard/punchcard/pkg/user"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func weeklySettings(stateCode string) user.PaySettings {
	s := user.DefaultPaySettings()
	s.PayPeriodType = user.WeeklyPeriod
	s.StateCode = stateCode
	return s
}

func TestComputeTaxes(t *testing.T) {
	t.Run("zero gross short-circuits to zero taxes", func(t *testing.T) {
		taxes := ComputeTaxes(decimal.Zero, weeklySettings("MT"))

		assert.True(t, taxes.Federal.IsZero())
		assert.True(t, taxes.State.IsZero())
		assert.True(t, taxes.FICA.IsZero())
		assert.True(t, taxes.Total().IsZero())
	})

	t.Run("weekly gross annualizes at 52 periods", func(t *testing.T) {
		// 860 weekly -> 44720 annually: 11600 at 10% plus 33120 at 12%
		taxes := ComputeTaxes(decimal.NewFromInt(860), weeklySettings("MT"))

		assert.Equal(t, "98.74", taxes.Federal.String())
		// Montana: 20500 at 4.7% plus 24220 at 5.9%
		assert.Equal(t, "46.01", taxes.State.String())
		// FICA under both thresholds: 6.2% + 1.45%
		assert.Equal(t, "65.79", taxes.FICA.String())
	})

	t.Run("monthly gross annualizes at 24 periods", func(t *testing.T) {
		settings := weeklySettings("MT")
		settings.PayPeriodType = user.MonthlyPeriod

		// 1000 monthly -> 24000 annually: 11600 at 10% plus 12400 at 12%
		taxes := ComputeTaxes(decimal.NewFromInt(1000), settings)

		assert.Equal(t, "110.33", taxes.Federal.String())
	})

	t.Run("explicit state rate overrides the schedule", func(t *testing.T) {
		settings := weeklySettings("MT")
		rate := 0.05
		settings.StateTaxRate = &rate

		taxes := ComputeTaxes(decimal.NewFromInt(860), settings)

		assert.True(t, taxes.State.Equal(decimal.NewFromInt(43)), "got %s", taxes.State)
	})

	t.Run("no-income-tax states withhold nothing", func(t *testing.T) {
		taxes := ComputeTaxes(decimal.NewFromInt(860), weeklySettings("TX"))

		assert.True(t, taxes.State.IsZero())
	})

	t.Run("unknown state falls back to the Montana schedule", func(t *testing.T) {
		montana := ComputeTaxes(decimal.NewFromInt(860), weeklySettings("MT"))
		unknown := ComputeTaxes(decimal.NewFromInt(860), weeklySettings(""))

		assert.True(t, montana.State.Equal(unknown.State))
	})

	t.Run("social security caps and the medicare surtax kicks in", func(t *testing.T) {
		// 5000 weekly -> 260000 annually, past both the wage base and the surtax floor
		taxes := ComputeTaxes(decimal.NewFromInt(5000), weeklySettings("TX"))

		// 168600*6.2% + 260000*1.45% + 60000*0.9%, scaled back to one week
		assert.Equal(t, "283.91", taxes.FICA.String())
	})
}

func TestProgressiveTax(t *testing.T) {
	t.Run("income inside the first band", func(t *testing.T) {
		tax := progressiveTax(decimal.NewFromInt(10000), federalBrackets)

		assert.True(t, tax.Equal(decimal.NewFromInt(1000)), "got %s", tax)
	})

	t.Run("top band is unbounded", func(t *testing.T) {
		tax := progressiveTax(decimal.NewFromInt(700000), federalBrackets)

		expected := decimal.NewFromFloat(
			11600*0.10 + (47150-11600)*0.12 + (100525-47150)*0.22 +
				(191950-100525)*0.24 + (243725-191950)*0.32 + (609350-243725)*0.35 +
				(700000-609350)*0.37)
		assert.True(t, tax.Sub(expected).Abs().LessThan(decimal.NewFromFloat(0.01)),
			"got %s, want about %s", tax, expected)
	})
}
