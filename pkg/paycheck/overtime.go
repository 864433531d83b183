package paycheck

// WeeklyOvertimeThreshold is the number of hours in a calendar week paid at
// the regular rate before the overtime multiplier applies.
const WeeklyOvertimeThreshold = 40.0

// Split is one entry's allocation between the regular and overtime buckets.
type Split struct {
	Regular  float64
	Overtime float64
}

// Allocate walks a week's per-entry hours in clock-in order and assigns
// overtime to the chronologically latest hours past the 40-hour threshold.
// previousPeriodHours are hours already worked in the same calendar week but
// inside the prior pay period; they consume the regular budget first, so a
// period boundary in mid-week cannot reset the threshold.
func Allocate(hours []float64, previousPeriodHours float64) []Split {
	splits := make([]Split, len(hours))
	cumulative := previousPeriodHours
	for i, entryHours := range hours {
		regular := WeeklyOvertimeThreshold - cumulative
		if regular < 0 {
			regular = 0
		}
		if regular > entryHours {
			regular = entryHours
		}
		splits[i] = Split{Regular: regular, Overtime: entryHours - regular}
		cumulative += entryHours
	}
	return splits
}
