package timesheet

import (
	"testing"
	"time"

	"github.com/punchcard/punchcard/pkg/pay_period"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

func endOfDayAt(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(999*time.Millisecond), t.Location())
}

func TestSplitWeeks(t *testing.T) {
	t.Run("monthly period starting midweek", func(t *testing.T) {
		// Mon Mar 11 through Wed Apr 10
		period := pay_period.Period{
			Start: day(2024, time.March, 11),
			End:   endOfDayAt(day(2024, time.April, 10)),
		}

		weeks := SplitWeeks(period)

		require.Len(t, weeks, 5)
		// first week is clipped to the period start
		assert.Equal(t, 1, weeks[0].Number)
		assert.Equal(t, day(2024, time.March, 11), weeks[0].Start)
		assert.Equal(t, endOfDayAt(day(2024, time.March, 16)), weeks[0].End)
		// middle weeks run Sunday through Saturday
		assert.Equal(t, day(2024, time.March, 17), weeks[1].Start)
		assert.Equal(t, endOfDayAt(day(2024, time.March, 23)), weeks[1].End)
		// last week is clipped to the period end
		assert.Equal(t, 5, weeks[4].Number)
		assert.Equal(t, day(2024, time.April, 7), weeks[4].Start)
		assert.Equal(t, period.End, weeks[4].End)
	})

	t.Run("weekly period is a single full week", func(t *testing.T) {
		period := pay_period.Period{
			Start: day(2024, time.March, 10),
			End:   endOfDayAt(day(2024, time.March, 16)),
		}

		weeks := SplitWeeks(period)

		require.Len(t, weeks, 1)
		assert.Equal(t, period.Start, weeks[0].Start)
		assert.Equal(t, period.End, weeks[0].End)
	})

	t.Run("weeks cover the period with no gaps", func(t *testing.T) {
		period := pay_period.Period{
			Start: day(2024, time.January, 16),
			End:   endOfDayAt(day(2024, time.February, 15)),
		}

		weeks := SplitWeeks(period)

		require.NotEmpty(t, weeks)
		assert.Equal(t, period.Start, weeks[0].Start)
		assert.Equal(t, period.End, weeks[len(weeks)-1].End)
		for i := 1; i < len(weeks); i++ {
			assert.Equal(t, i+1, weeks[i].Number)
			assert.Equal(t, weeks[i-1].End.Add(time.Millisecond), weeks[i].Start)
		}
	})
}

func TestCalendarWeekStart(t *testing.T) {
	// Mar 13 2024 is a Wednesday
	assert.Equal(t, day(2024, time.March, 10), CalendarWeekStart(day(2024, time.March, 13)))
	// a Sunday opens its own week
	assert.Equal(t, day(2024, time.March, 10), CalendarWeekStart(day(2024, time.March, 10)))
}
