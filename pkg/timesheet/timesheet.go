package timesheet

import (
	"time"

	"github.com/punchcard/punchcard/pkg/pay_period"
	"github.com/punchcard/punchcard/pkg/time_entry"
)

// WeekEntry pairs an entry with its resolved hours, so downstream pay math
// never re-resolves against a different "now".
type WeekEntry struct {
	Entry time_entry.TimeEntry
	Hours float64
}

// Week is one Sunday-to-Saturday span of a pay period, clipped to the period
// boundary at both ends. PreviousPeriodHours carries hours worked earlier in
// the same calendar week but before the period started; the overtime
// threshold applies to the calendar week, not to the period slice of it.
type Week struct {
	Number              int
	Start               time.Time
	End                 time.Time
	Entries             []WeekEntry
	PreviousPeriodHours float64
	Hours               float64
}

type Timesheet struct {
	Period     pay_period.Period
	Weeks      []Week
	TotalHours float64
}
