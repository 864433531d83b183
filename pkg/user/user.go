package user

import "github.com/shopspring/decimal"

type User struct {
	Id          int
	Uid         string
	Username    string
	DisplayName string
	Settings    PaySettings
}

type PayPeriodType string

const (
	WeeklyPeriod  PayPeriodType = "weekly"
	MonthlyPeriod PayPeriodType = "monthly"
)

// PaySettings drives every pay computation for a user. Defaults are applied
// once by the service on create/update, never at the use site.
type PaySettings struct {
	HourlyRate         decimal.Decimal
	OvertimeMultiplier float64
	RoundingMinutes    int
	PayPeriodType      PayPeriodType
	PayPeriodEndDay    int
	PaycheckAdjustment decimal.Decimal
	StateCode          string
	StateTaxRate       *float64
}

const (
	DefaultOvertimeMultiplier = 1.5
	DefaultRoundingMinutes    = 5
	DefaultPayPeriodEndDay    = 15
)

// RoundingOptions is the closed set of accepted rounding intervals.
var RoundingOptions = []int{1, 5, 10, 15, 30}

func DefaultPaySettings() PaySettings {
	return PaySettings{
		HourlyRate:         decimal.Zero,
		OvertimeMultiplier: DefaultOvertimeMultiplier,
		RoundingMinutes:    DefaultRoundingMinutes,
		PayPeriodType:      WeeklyPeriod,
		PayPeriodEndDay:    DefaultPayPeriodEndDay,
		PaycheckAdjustment: decimal.Zero,
	}
}
