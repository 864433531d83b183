package time_entry

import "time"

// RoundUp quantizes t to the next intervalMinutes boundary. Seconds and
// nanoseconds are discarded first, then the minute rounds up; a minute
// already on an exact multiple stays put, so rounding is idempotent at
// boundaries.
func RoundUp(t time.Time, intervalMinutes int) time.Time {
	truncated := time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), 0, 0, t.Location())
	if intervalMinutes <= 1 {
		return truncated
	}
	rem := t.Minute() % intervalMinutes
	if rem == 0 {
		return truncated
	}
	return truncated.Add(time.Duration(intervalMinutes-rem) * time.Minute)
}
