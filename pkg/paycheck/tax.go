package paycheck

import (
	"strings"

	"github.com/punchcard/punchcard/pkg/user"
	"github.com/shopspring/decimal"
)

// Every rate below is annual; period figures are annualized, taxed against
// the annual tables, and pro-rated back. A monthly cycle annualizes as x24 to
// stay consistent with its fixed day-of-month structure; the same constant is
// used for federal, state and FICA.
const (
	periodsPerYearWeekly  = 52
	periodsPerYearMonthly = 24
)

type bracket struct {
	upTo decimal.Decimal // zero value = no upper bound
	rate decimal.Decimal
}

// 2024 federal single-filer brackets.
var federalBrackets = []bracket{
	{upTo: decimal.NewFromInt(11600), rate: decimal.NewFromFloat(0.10)},
	{upTo: decimal.NewFromInt(47150), rate: decimal.NewFromFloat(0.12)},
	{upTo: decimal.NewFromInt(100525), rate: decimal.NewFromFloat(0.22)},
	{upTo: decimal.NewFromInt(191950), rate: decimal.NewFromFloat(0.24)},
	{upTo: decimal.NewFromInt(243725), rate: decimal.NewFromFloat(0.32)},
	{upTo: decimal.NewFromInt(609350), rate: decimal.NewFromFloat(0.35)},
	{rate: decimal.NewFromFloat(0.37)},
}

// Default state schedules. Montana's two-tier schedule doubles as the
// fallback when no state is configured.
var stateBrackets = map[string][]bracket{
	"MT": montanaBrackets,
	"AZ": {{rate: decimal.NewFromFloat(0.025)}},
	"CO": {{rate: decimal.NewFromFloat(0.044)}},
	"ID": {{rate: decimal.NewFromFloat(0.058)}},
	"IL": {{rate: decimal.NewFromFloat(0.0495)}},
	"IN": {{rate: decimal.NewFromFloat(0.0305)}},
	"KY": {{rate: decimal.NewFromFloat(0.04)}},
	"MA": {{rate: decimal.NewFromFloat(0.05)}},
	"MI": {{rate: decimal.NewFromFloat(0.0425)}},
	"NC": {{rate: decimal.NewFromFloat(0.045)}},
	"ND": {{rate: decimal.NewFromFloat(0.025)}},
	"PA": {{rate: decimal.NewFromFloat(0.0307)}},
	"UT": {{rate: decimal.NewFromFloat(0.0465)}},
	// No state income tax.
	"AK": {}, "FL": {}, "NV": {}, "SD": {}, "TN": {}, "TX": {}, "WA": {}, "WY": {},
}

var montanaBrackets = []bracket{
	{upTo: decimal.NewFromInt(20500), rate: decimal.NewFromFloat(0.047)},
	{rate: decimal.NewFromFloat(0.059)},
}

// FICA constants (2024).
var (
	socialSecurityRate     = decimal.NewFromFloat(0.062)
	socialSecurityWageBase = decimal.NewFromInt(168600)
	medicareRate           = decimal.NewFromFloat(0.0145)
	medicareSurtaxRate     = decimal.NewFromFloat(0.009)
	medicareSurtaxFloor    = decimal.NewFromInt(200000)
)

type TaxBreakdown struct {
	Federal decimal.Decimal
	State   decimal.Decimal
	FICA    decimal.Decimal
}

func (t TaxBreakdown) Total() decimal.Decimal {
	return t.Federal.Add(t.State).Add(t.FICA)
}

// ComputeTaxes derives federal, state and FICA withholding for one period's
// gross. Zero gross short-circuits to zero everywhere so the pro-rating
// ratio never divides by zero.
func ComputeTaxes(gross decimal.Decimal, settings user.PaySettings) TaxBreakdown {
	if gross.Sign() <= 0 {
		return TaxBreakdown{Federal: decimal.Zero, State: decimal.Zero, FICA: decimal.Zero}
	}

	periods := periodsPerYear(settings.PayPeriodType)
	annualGross := gross.Mul(decimal.NewFromInt(int64(periods)))

	federal := prorate(progressiveTax(annualGross, federalBrackets), gross, annualGross)
	state := prorate(annualStateTax(annualGross, settings), gross, annualGross)
	fica := prorate(annualFICA(annualGross), gross, annualGross)

	return TaxBreakdown{Federal: federal, State: state, FICA: fica}
}

func periodsPerYear(periodType user.PayPeriodType) int {
	if periodType == user.MonthlyPeriod {
		return periodsPerYearMonthly
	}
	return periodsPerYearWeekly
}

// progressiveTax walks the marginal bands and taxes each slice of annual
// income at its band rate.
func progressiveTax(annual decimal.Decimal, brackets []bracket) decimal.Decimal {
	tax := decimal.Zero
	lower := decimal.Zero
	for _, b := range brackets {
		upper := annual
		if !b.upTo.IsZero() && b.upTo.LessThan(annual) {
			upper = b.upTo
		}
		if upper.LessThanOrEqual(lower) {
			break
		}
		tax = tax.Add(upper.Sub(lower).Mul(b.rate))
		lower = upper
	}
	return tax
}

func annualStateTax(annualGross decimal.Decimal, settings user.PaySettings) decimal.Decimal {
	// An explicit user-supplied rate beats any built-in schedule.
	if settings.StateTaxRate != nil {
		return annualGross.Mul(decimal.NewFromFloat(*settings.StateTaxRate))
	}
	brackets, ok := stateBrackets[strings.ToUpper(settings.StateCode)]
	if !ok {
		brackets = montanaBrackets
	}
	return progressiveTax(annualGross, brackets)
}

// annualFICA applies the Social Security wage-base cap to annualized gross.
// This is a known simplification: the cap is really a year-to-date cumulative
// limit, so an employee crossing the cap mid-year is slightly over- or
// under-withheld here.
func annualFICA(annualGross decimal.Decimal) decimal.Decimal {
	ssWages := annualGross
	if ssWages.GreaterThan(socialSecurityWageBase) {
		ssWages = socialSecurityWageBase
	}
	fica := ssWages.Mul(socialSecurityRate)
	fica = fica.Add(annualGross.Mul(medicareRate))
	if annualGross.GreaterThan(medicareSurtaxFloor) {
		fica = fica.Add(annualGross.Sub(medicareSurtaxFloor).Mul(medicareSurtaxRate))
	}
	return fica
}

// prorate scales an annual tax back to the period by the period's share of
// annual gross, rounded to cents.
func prorate(annualTax, gross, annualGross decimal.Decimal) decimal.Decimal {
	if annualGross.IsZero() {
		return decimal.Zero
	}
	return annualTax.Mul(gross).Div(annualGross).Round(2)
}
