package time_entry

import (
	"time"
)

type BreakType string

const (
	BreakMeal  BreakType = "meal"
	BreakRest  BreakType = "rest"
	BreakOther BreakType = "other"
)

// TimeEntry is a single work session. ClockOut == nil means the session is
// still running; at most one such entry exists per user.
type TimeEntry struct {
	Id                int
	UserId            int
	ClockIn           time.Time
	ClockOut          *time.Time
	TotalBreakMinutes int
	Note              string
	Manual            bool
	Breaks            []Break
}

// Open reports whether the entry has no recorded clock-out.
func (e TimeEntry) Open() bool {
	return e.ClockOut == nil
}

type Break struct {
	Id              int
	EntryId         int
	Type            BreakType
	StartTime       time.Time
	EndTime         *time.Time
	DurationMinutes *int
	Note            string
}

// Minutes returns the break length. The recorded end time wins over a
// separately supplied duration.
func (b Break) Minutes() int {
	if b.EndTime != nil {
		return int(b.EndTime.Sub(b.StartTime).Minutes())
	}
	if b.DurationMinutes != nil {
		return *b.DurationMinutes
	}
	return 0
}
