package time_entry

import "time"

// ResolveHours turns an entry into worked hours. Open entries are measured
// against asOf, which lets callers project live elapsed time and earnings
// without mutating the entry. Break time comes from the Break rows when any
// exist, otherwise from the cached TotalBreakMinutes; the two are alternative
// representations of the same quantity and are never both counted.
func ResolveHours(entry TimeEntry, asOf time.Time) float64 {
	end := asOf
	if entry.ClockOut != nil {
		end = *entry.ClockOut
	}

	hours := end.Sub(entry.ClockIn).Hours() - float64(BreakMinutes(entry))/60.0
	if hours < 0 {
		return 0
	}
	return hours
}

// BreakMinutes sums the entry's break time.
func BreakMinutes(entry TimeEntry) int {
	if len(entry.Breaks) == 0 {
		return entry.TotalBreakMinutes
	}
	total := 0
	for _, b := range entry.Breaks {
		total += b.Minutes()
	}
	return total
}
