package pay_period

import (
	"time"

	"github.com/punchcard/punchcard/pkg/user"
)

// Period is the inclusive date range a paycheck covers. End sits on the last
// millisecond of the closing day, so Contains checks can use simple
// before/after comparisons.
type Period struct {
	Start time.Time
	End   time.Time
}

func (p Period) Contains(t time.Time) bool {
	return !t.Before(p.Start) && !t.After(p.End)
}

// Current derives the pay period containing "now" from the user's settings.
// Periods are never stored; they are a pure function of an instant and the
// settings, so look-back queries just pass a historical instant.
func Current(settings user.PaySettings, now time.Time) Period {
	if settings.PayPeriodType == user.MonthlyPeriod {
		return monthlyPeriod(settings.PayPeriodEndDay, now)
	}
	return weeklyPeriod(now)
}

// Next steps one cycle forward from a known period, used to show "days
// remaining" without re-deriving from the wall clock.
func Next(period Period, settings user.PaySettings) Period {
	if settings.PayPeriodType == user.MonthlyPeriod {
		start := startOfDay(period.End).AddDate(0, 0, 1)
		year, month, _ := start.Date()
		end := clampedDate(year, month, settings.PayPeriodEndDay, start.Location())
		if !end.After(start) {
			end = clampedDate(year, month+1, settings.PayPeriodEndDay, start.Location())
		}
		return Period{Start: start, End: endOfDay(end)}
	}
	start := period.Start.AddDate(0, 0, 7)
	return Period{Start: start, End: endOfDay(start.AddDate(0, 0, 6))}
}

// Previous steps one cycle backward from a known period.
func Previous(period Period, settings user.PaySettings) Period {
	if settings.PayPeriodType == user.MonthlyPeriod {
		end := startOfDay(period.Start).AddDate(0, 0, -1)
		year, month, _ := end.Date()
		start := clampedDate(year, month-1, settings.PayPeriodEndDay, end.Location()).AddDate(0, 0, 1)
		return Period{Start: start, End: endOfDay(end)}
	}
	start := period.Start.AddDate(0, 0, -7)
	return Period{Start: start, End: endOfDay(start.AddDate(0, 0, 6))}
}

// Enumerate returns count periods ending at the one containing now,
// most-recent-first, for populating a period picker.
func Enumerate(settings user.PaySettings, now time.Time, count int) []Period {
	periods := make([]Period, 0, count)
	period := Current(settings, now)
	for i := 0; i < count; i++ {
		periods = append(periods, period)
		period = Previous(period, settings)
	}
	return periods
}

// weeklyPeriod spans the most recent Sunday through the following Saturday.
func weeklyPeriod(now time.Time) Period {
	start := startOfDay(now).AddDate(0, 0, -int(now.Weekday()))
	return Period{Start: start, End: endOfDay(start.AddDate(0, 0, 6))}
}

// monthlyPeriod is anchored on the configured end day E: the cycle closing on
// this month's E when now is on or before it, otherwise on next month's E.
func monthlyPeriod(endDay int, now time.Time) Period {
	year, month, day := now.Date()

	end := clampedDate(year, month, endDay, now.Location())
	if day > end.Day() {
		end = clampedDate(year, month+1, endDay, now.Location())
	}
	endYear, endMonth, _ := end.Date()
	start := clampedDate(endYear, endMonth-1, endDay, now.Location()).AddDate(0, 0, 1)

	return Period{Start: start, End: endOfDay(end)}
}

// clampedDate builds a date from possibly out-of-range month/day components.
// Months under/overflow into adjacent years; a day past the month's length
// clamps to its last day instead of spilling into the next month.
func clampedDate(year int, month time.Month, day int, loc *time.Location) time.Time {
	firstOfMonth := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	lastDay := firstOfMonth.AddDate(0, 1, -1).Day()
	if day > lastDay {
		day = lastDay
	}
	return time.Date(firstOfMonth.Year(), firstOfMonth.Month(), day, 0, 0, 0, 0, loc)
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(999*time.Millisecond), t.Location())
}
