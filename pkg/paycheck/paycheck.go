package paycheck

import (
	"github.com/punchcard/punchcard/pkg/pay_period"
	"github.com/punchcard/punchcard/pkg/timesheet"
	"github.com/shopspring/decimal"
)

// PayCalculation is a fully derived pay figure. It is never persisted:
// recomputing from entries and settings means edits retroactively correct
// historical pay views.
type PayCalculation struct {
	RegularHours  float64
	OvertimeHours float64
	RegularPay    decimal.Decimal
	OvertimePay   decimal.Decimal
	GrossPay      decimal.Decimal
	FederalTax    decimal.Decimal
	StateTax      decimal.Decimal
	FICA          decimal.Decimal
	Adjustment    decimal.Decimal
	NetPay        decimal.Decimal
}

// EntryPay is one entry's share of a week's pay.
type EntryPay struct {
	EntryId       int
	Hours         float64
	RegularHours  float64
	OvertimeHours float64
	Pay           decimal.Decimal
}

type WeekPay struct {
	Week        timesheet.Week
	Entries     []EntryPay
	Calculation PayCalculation
}

// PeriodPaycheck is the full pay report for one period. Week calculations
// tax each week's gross in isolation; Totals taxes the period gross once, so
// the period figures do not accumulate per-week bracket rounding drift.
type PeriodPaycheck struct {
	Period pay_period.Period
	Weeks  []WeekPay
	Totals PayCalculation
}
