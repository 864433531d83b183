package time_entry

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestResolveHours(t *testing.T) {
	clockIn := time.Date(2024, time.March, 13, 9, 0, 0, 0, time.UTC)
	clockOut := clockIn.Add(8 * time.Hour)

	t.Run("closed entry without breaks", func(t *testing.T) {
		entry := TimeEntry{ClockIn: clockIn, ClockOut: &clockOut}

		hours := ResolveHours(entry, clockOut.Add(24*time.Hour))

		assert.Equal(t, 8.0, hours)
	})

	t.Run("cached break minutes are deducted", func(t *testing.T) {
		entry := TimeEntry{ClockIn: clockIn, ClockOut: &clockOut, TotalBreakMinutes: 30}

		hours := ResolveHours(entry, clockOut)

		assert.Equal(t, 7.5, hours)
	})

	t.Run("break rows take precedence over the cached total", func(t *testing.T) {
		breakEnd := clockIn.Add(4*time.Hour + 45*time.Minute)
		entry := TimeEntry{
			ClockIn:           clockIn,
			ClockOut:          &clockOut,
			TotalBreakMinutes: 99,
			Breaks: []Break{
				{Type: BreakMeal, StartTime: clockIn.Add(4 * time.Hour), EndTime: &breakEnd},
			},
		}

		hours := ResolveHours(entry, clockOut)

		assert.Equal(t, 7.25, hours)
	})

	t.Run("open entry is measured against asOf", func(t *testing.T) {
		entry := TimeEntry{ClockIn: clockIn}

		assert.Equal(t, 2.0, ResolveHours(entry, clockIn.Add(2*time.Hour)))
		assert.Equal(t, 3.5, ResolveHours(entry, clockIn.Add(3*time.Hour+30*time.Minute)))
	})

	t.Run("breaks exceeding elapsed time floor at zero", func(t *testing.T) {
		short := clockIn.Add(10 * time.Minute)
		entry := TimeEntry{ClockIn: clockIn, ClockOut: &short, TotalBreakMinutes: 60}

		assert.Equal(t, 0.0, ResolveHours(entry, short))
	})
}

func TestBreakMinutes(t *testing.T) {
	start := time.Date(2024, time.March, 13, 12, 0, 0, 0, time.UTC)
	end := start.Add(20 * time.Minute)
	duration := 45

	t.Run("explicit end time wins over declared duration", func(t *testing.T) {
		b := Break{Type: BreakRest, StartTime: start, EndTime: &end, DurationMinutes: &duration}

		assert.Equal(t, 20, b.Minutes())
	})

	t.Run("declared duration used when no end time", func(t *testing.T) {
		b := Break{Type: BreakRest, StartTime: start, DurationMinutes: &duration}

		assert.Equal(t, 45, b.Minutes())
	})

	t.Run("entry sums multiple break rows", func(t *testing.T) {
		entry := TimeEntry{
			TotalBreakMinutes: 5,
			Breaks: []Break{
				{StartTime: start, EndTime: &end},
				{StartTime: end, DurationMinutes: &duration},
			},
		}

		assert.Equal(t, 65, BreakMinutes(entry))
	})
}
