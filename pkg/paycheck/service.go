package paycheck

import (
	"context"
	"fmt"
	"time"

	"github.com/punchcard/punchcard/internal/utils"
	"github.com/punchcard/punchcard/pkg/pay_period"
	"github.com/punchcard/punchcard/pkg/timesheet"
	"github.com/punchcard/punchcard/pkg/user"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

type Service interface {
	ForPeriod(ctx context.Context, at time.Time) (PeriodPaycheck, error)
	Estimate(ctx context.Context, hours float64, rate decimal.Decimal) (PayCalculation, error)
}

type ServiceImpl struct {
	timesheets timesheet.Service
	clock      utils.Clock
}

func NewService(timesheets timesheet.Service) *ServiceImpl {
	return &ServiceImpl{timesheets: timesheets, clock: &utils.SystemClock{}}
}

// ForPeriod runs the full pipeline for the period containing "at": weeks,
// regular/overtime allocation, per-week pay, and period totals with taxes
// computed once on the period gross.
func (s *ServiceImpl) ForPeriod(ctx context.Context, at time.Time) (PeriodPaycheck, error) {
	currentUser, err := user.CurrentUser(ctx)
	if err != nil {
		return PeriodPaycheck{}, fmt.Errorf("failed to get current user: %w", err)
	}
	settings := currentUser.Settings

	period := pay_period.Current(settings, at)
	sheet, err := s.timesheets.ForPeriod(ctx, period)
	if err != nil {
		return PeriodPaycheck{}, err
	}

	paycheck := PeriodPaycheck{Period: period, Weeks: make([]WeekPay, 0, len(sheet.Weeks))}
	totals := PayCalculation{
		RegularPay:  decimal.Zero,
		OvertimePay: decimal.Zero,
	}

	for _, week := range sheet.Weeks {
		weekPay := s.weekPay(week, settings)
		paycheck.Weeks = append(paycheck.Weeks, weekPay)

		totals.RegularHours += weekPay.Calculation.RegularHours
		totals.OvertimeHours += weekPay.Calculation.OvertimeHours
		totals.RegularPay = totals.RegularPay.Add(weekPay.Calculation.RegularPay)
		totals.OvertimePay = totals.OvertimePay.Add(weekPay.Calculation.OvertimePay)
	}

	totals.GrossPay = totals.RegularPay.Add(totals.OvertimePay)
	taxes := ComputeTaxes(totals.GrossPay, settings)
	totals.FederalTax = taxes.Federal
	totals.StateTax = taxes.State
	totals.FICA = taxes.FICA
	totals.Adjustment = settings.PaycheckAdjustment
	totals.NetPay = totals.GrossPay.Sub(taxes.Total()).Add(settings.PaycheckAdjustment)
	paycheck.Totals = totals

	log.Debugf("paycheck for %s - %s: gross %s, net %s",
		period.Start, period.End, totals.GrossPay, totals.NetPay)
	return paycheck, nil
}

// Estimate runs the same overtime and tax pipeline on an ad-hoc hours figure
// with no stored entries, for what-if calculations. A zero rate falls back to
// the user's configured hourly rate.
func (s *ServiceImpl) Estimate(ctx context.Context, hours float64, rate decimal.Decimal) (PayCalculation, error) {
	settings := user.DefaultPaySettings()
	if currentUser, err := user.CurrentUser(ctx); err == nil {
		settings = currentUser.Settings
	}
	if hours < 0 {
		return PayCalculation{}, fmt.Errorf("hours must not be negative")
	}
	if rate.Sign() > 0 {
		settings.HourlyRate = rate
	}

	splits := Allocate([]float64{hours}, 0)
	calc := calculate(splits[0].Regular, splits[0].Overtime, settings)
	calc.Adjustment = settings.PaycheckAdjustment
	calc.NetPay = calc.NetPay.Add(settings.PaycheckAdjustment)
	return calc, nil
}

func (s *ServiceImpl) weekPay(week timesheet.Week, settings user.PaySettings) WeekPay {
	hours := make([]float64, len(week.Entries))
	for i, we := range week.Entries {
		hours[i] = we.Hours
	}
	splits := Allocate(hours, week.PreviousPeriodHours)

	regularHours, overtimeHours := 0.0, 0.0
	entries := make([]EntryPay, 0, len(week.Entries))
	for i, split := range splits {
		regularHours += split.Regular
		overtimeHours += split.Overtime
		entries = append(entries, EntryPay{
			EntryId:       week.Entries[i].Entry.Id,
			Hours:         week.Entries[i].Hours,
			RegularHours:  split.Regular,
			OvertimeHours: split.Overtime,
			Pay:           entryPay(split, settings),
		})
	}

	return WeekPay{
		Week:        week,
		Entries:     entries,
		Calculation: calculate(regularHours, overtimeHours, settings),
	}
}

func entryPay(split Split, settings user.PaySettings) decimal.Decimal {
	regular := settings.HourlyRate.Mul(decimal.NewFromFloat(split.Regular))
	overtime := settings.HourlyRate.
		Mul(decimal.NewFromFloat(settings.OvertimeMultiplier)).
		Mul(decimal.NewFromFloat(split.Overtime))
	return regular.Add(overtime).Round(2)
}

// calculate turns a regular/overtime hour split into a taxed PayCalculation.
// The adjustment is not applied here; it is a per-period figure.
func calculate(regularHours, overtimeHours float64, settings user.PaySettings) PayCalculation {
	regularPay := settings.HourlyRate.Mul(decimal.NewFromFloat(regularHours)).Round(2)
	overtimePay := settings.HourlyRate.
		Mul(decimal.NewFromFloat(settings.OvertimeMultiplier)).
		Mul(decimal.NewFromFloat(overtimeHours)).
		Round(2)
	gross := regularPay.Add(overtimePay)

	taxes := ComputeTaxes(gross, settings)
	return PayCalculation{
		RegularHours:  regularHours,
		OvertimeHours: overtimeHours,
		RegularPay:    regularPay,
		OvertimePay:   overtimePay,
		GrossPay:      gross,
		FederalTax:    taxes.Federal,
		StateTax:      taxes.State,
		FICA:          taxes.FICA,
		Adjustment:    decimal.Zero,
		NetPay:        gross.Sub(taxes.Total()),
	}
}
