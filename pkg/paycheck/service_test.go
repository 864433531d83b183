package paycheck

import (
	"context"
	"testing"
	"time"

	"github.com/punchcard/punchcard/internal/test_utils"
	"github.com/punchcard/punchcard/pkg/pay_period"
	"github.com/punchcard/punchcard/pkg/time_entry"
	"github.com/punchcard/punchcard/pkg/timesheet"
	"github.com/punchcard/punchcard/pkg/user"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubTimesheets struct {
	weeks []timesheet.Week
}

func (s *stubTimesheets) ForPeriod(ctx context.Context, period pay_period.Period) (timesheet.Timesheet, error) {
	total := 0.0
	for _, week := range s.weeks {
		total += week.Hours
	}
	return timesheet.Timesheet{Period: period, Weeks: s.weeks, TotalHours: total}, nil
}

func weekOf(number int, previousPeriodHours float64, entryHours ...float64) timesheet.Week {
	week := timesheet.Week{Number: number, PreviousPeriodHours: previousPeriodHours}
	clockIn := time.Date(2024, time.March, 10+7*(number-1), 9, 0, 0, 0, time.UTC)
	for i, hours := range entryHours {
		week.Entries = append(week.Entries, timesheet.WeekEntry{
			Entry: time_entry.TimeEntry{Id: number*100 + i, ClockIn: clockIn.AddDate(0, 0, i)},
			Hours: hours,
		})
		week.Hours += hours
	}
	return week
}

func TestServiceImpl_ForPeriod(t *testing.T) {
	ctx := test_utils.ContextWithTestUser()
	at := time.Date(2024, time.March, 13, 12, 0, 0, 0, time.UTC)

	t.Run("should pay two overtime hours on a 42 hour week", func(t *testing.T) {
		service := NewService(&stubTimesheets{weeks: []timesheet.Week{weekOf(1, 0, 21, 21)}})

		// when
		paycheck, err := service.ForPeriod(ctx, at)

		// then
		require.NoError(t, err)
		require.Len(t, paycheck.Weeks, 1)

		totals := paycheck.Totals
		assert.Equal(t, 40.0, totals.RegularHours)
		assert.Equal(t, 2.0, totals.OvertimeHours)
		assert.Equal(t, "800.00", totals.RegularPay.String())
		assert.Equal(t, "60.00", totals.OvertimePay.String())
		assert.Equal(t, "860.00", totals.GrossPay.String())
		assert.Equal(t, "98.74", totals.FederalTax.String())
		assert.Equal(t, "46.01", totals.StateTax.String())
		assert.Equal(t, "65.79", totals.FICA.String())
		assert.Equal(t, "649.46", totals.NetPay.String())
	})

	t.Run("should put overtime on the chronologically last entry", func(t *testing.T) {
		service := NewService(&stubTimesheets{weeks: []timesheet.Week{weekOf(1, 0, 21, 21)}})

		// when
		paycheck, err := service.ForPeriod(ctx, at)

		// then
		require.NoError(t, err)
		entries := paycheck.Weeks[0].Entries
		require.Len(t, entries, 2)
		assert.Equal(t, 0.0, entries[0].OvertimeHours)
		assert.Equal(t, 2.0, entries[1].OvertimeHours)
		assert.Equal(t, 19.0, entries[1].RegularHours)
		// 19 regular at $20 plus 2 overtime at $30
		assert.Equal(t, "440.00", entries[1].Pay.String())
	})

	t.Run("should tax the period gross once, not per week", func(t *testing.T) {
		weeks := []timesheet.Week{weekOf(1, 0, 20), weekOf(2, 0, 23)}
		service := NewService(&stubTimesheets{weeks: weeks})

		// when
		paycheck, err := service.ForPeriod(ctx, at)

		// then
		require.NoError(t, err)
		totals := paycheck.Totals
		assert.Equal(t, "860.00", totals.GrossPay.String())
		// identical to the single-week 43h-free case: taxes depend only on period gross
		expected := ComputeTaxes(decimal.NewFromInt(860), test_utils.TestUser().Settings)
		assert.True(t, totals.FederalTax.Equal(expected.Federal))
		assert.True(t, totals.StateTax.Equal(expected.State))
		assert.True(t, totals.FICA.Equal(expected.FICA))
	})

	t.Run("should honor a week's carry-over hours", func(t *testing.T) {
		service := NewService(&stubTimesheets{weeks: []timesheet.Week{weekOf(1, 38, 5)}})

		// when
		paycheck, err := service.ForPeriod(ctx, at)

		// then
		require.NoError(t, err)
		assert.Equal(t, 2.0, paycheck.Totals.RegularHours)
		assert.Equal(t, 3.0, paycheck.Totals.OvertimeHours)
	})

	t.Run("should apply the paycheck adjustment after taxes", func(t *testing.T) {
		adjusted := test_utils.TestUser()
		adjusted.Settings.PaycheckAdjustment = decimal.NewFromInt(-50)
		adjustedCtx := user.WithUser(context.Background(), adjusted)
		service := NewService(&stubTimesheets{weeks: []timesheet.Week{weekOf(1, 0, 21, 21)}})

		// when
		paycheck, err := service.ForPeriod(adjustedCtx, at)

		// then
		require.NoError(t, err)
		assert.Equal(t, "599.46", paycheck.Totals.NetPay.String())
	})

	t.Run("zero worked hours yields a zero paycheck", func(t *testing.T) {
		service := NewService(&stubTimesheets{weeks: []timesheet.Week{weekOf(1, 0)}})

		// when
		paycheck, err := service.ForPeriod(ctx, at)

		// then
		require.NoError(t, err)
		assert.True(t, paycheck.Totals.GrossPay.IsZero())
		assert.True(t, paycheck.Totals.FederalTax.IsZero())
		assert.True(t, paycheck.Totals.StateTax.IsZero())
		assert.True(t, paycheck.Totals.FICA.IsZero())
		assert.True(t, paycheck.Totals.NetPay.IsZero())
	})

	t.Run("should return error when context has no user", func(t *testing.T) {
		service := NewService(&stubTimesheets{})

		// when
		_, err := service.ForPeriod(context.Background(), at)

		// then
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to get current user")
	})
}

func TestServiceImpl_Estimate(t *testing.T) {
	t.Run("should fall back to defaults without a user", func(t *testing.T) {
		service := NewService(&stubTimesheets{})

		// when
		calc, err := service.Estimate(context.Background(), 45, decimal.NewFromInt(20))

		// then
		require.NoError(t, err)
		assert.Equal(t, 40.0, calc.RegularHours)
		assert.Equal(t, 5.0, calc.OvertimeHours)
		assert.Equal(t, "800.00", calc.RegularPay.String())
		assert.Equal(t, "150.00", calc.OvertimePay.String())
		assert.Equal(t, "950.00", calc.GrossPay.String())
		assert.Equal(t, "712.13", calc.NetPay.String())
	})

	t.Run("should use the user's configured rate when none is given", func(t *testing.T) {
		service := NewService(&stubTimesheets{})

		// when
		calc, err := service.Estimate(test_utils.ContextWithTestUser(), 10, decimal.Zero)

		// then
		require.NoError(t, err)
		assert.Equal(t, 10.0, calc.RegularHours)
		assert.Equal(t, "200.00", calc.GrossPay.String())
	})

	t.Run("should reject negative hours", func(t *testing.T) {
		service := NewService(&stubTimesheets{})

		// when
		_, err := service.Estimate(context.Background(), -1, decimal.Zero)

		// then
		assert.Error(t, err)
	})
}
