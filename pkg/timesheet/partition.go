package timesheet

import (
	"time"

	"github.com/punchcard/punchcard/pkg/pay_period"
)

// SplitWeeks cuts a period into consecutive Sunday-Saturday weeks numbered
// 1..N, clipping the first and last to the period boundary. A period rarely
// starts or ends on a Sunday, so the edge weeks are usually partial.
func SplitWeeks(period pay_period.Period) []Week {
	var weeks []Week

	start := period.Start
	for number := 1; !start.After(period.End); number++ {
		end := endOfSaturday(start)
		if end.After(period.End) {
			end = period.End
		}
		weeks = append(weeks, Week{Number: number, Start: start, End: end})
		start = startOfDay(end).AddDate(0, 0, 1)
	}
	return weeks
}

// CalendarWeekStart returns the Sunday 00:00:00 opening the calendar week
// containing t.
func CalendarWeekStart(t time.Time) time.Time {
	return startOfDay(t).AddDate(0, 0, -int(t.Weekday()))
}

func endOfSaturday(t time.Time) time.Time {
	saturday := startOfDay(t).AddDate(0, 0, int(time.Saturday-t.Weekday()))
	return time.Date(saturday.Year(), saturday.Month(), saturday.Day(), 23, 59, 59, int(999*time.Millisecond), saturday.Location())
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
