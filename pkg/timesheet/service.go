package timesheet

import (
	"context"
	"fmt"
	"time"

	"github.com/punchcard/punchcard/internal/utils"
	"github.com/punchcard/punchcard/pkg/pay_period"
	"github.com/punchcard/punchcard/pkg/time_entry"
	log "github.com/sirupsen/logrus"
)

// EntryLister is the slice of the time entry service this package needs.
type EntryLister interface {
	ListRange(ctx context.Context, from time.Time, to time.Time) ([]time_entry.TimeEntry, error)
}

type Service interface {
	ForPeriod(ctx context.Context, period pay_period.Period) (Timesheet, error)
}

type ServiceImpl struct {
	entries EntryLister
	clock   utils.Clock
}

func NewService(entries EntryLister) *ServiceImpl {
	return &ServiceImpl{entries: entries, clock: &utils.SystemClock{}}
}

// ForPeriod builds the full week structure for a period: entries grouped by
// clock-in, per-entry resolved hours, and the carry-over hours the first week
// inherits from the tail of the previous period.
func (s *ServiceImpl) ForPeriod(ctx context.Context, period pay_period.Period) (Timesheet, error) {
	weeks := SplitWeeks(period)
	now := s.clock.Now()

	entries, err := s.entries.ListRange(ctx, period.Start, period.End)
	if err != nil {
		return Timesheet{}, fmt.Errorf("failed to list entries for period: %w", err)
	}

	total := 0.0
	for i := range weeks {
		week := &weeks[i]
		for _, entry := range entries {
			if entry.ClockIn.Before(week.Start) || entry.ClockIn.After(week.End) {
				continue
			}
			hours := time_entry.ResolveHours(entry, now)
			week.Entries = append(week.Entries, WeekEntry{Entry: entry, Hours: hours})
			week.Hours += hours
		}
		total += week.Hours
	}

	// Only the first week can share a calendar week with the previous period.
	if len(weeks) > 0 {
		carryOver, err := s.previousPeriodHours(ctx, period.Start, now)
		if err != nil {
			return Timesheet{}, err
		}
		weeks[0].PreviousPeriodHours = carryOver
	}

	log.Debugf("timesheet for %s - %s: %d weeks, %.2f hours", period.Start, period.End, len(weeks), total)
	return Timesheet{Period: period, Weeks: weeks, TotalHours: total}, nil
}

// previousPeriodHours sums resolved hours of entries in the same calendar
// week as periodStart but clocked in before the period began.
func (s *ServiceImpl) previousPeriodHours(ctx context.Context, periodStart time.Time, now time.Time) (float64, error) {
	weekStart := CalendarWeekStart(periodStart)
	if !weekStart.Before(periodStart) {
		return 0, nil
	}

	entries, err := s.entries.ListRange(ctx, weekStart, periodStart.Add(-time.Nanosecond))
	if err != nil {
		return 0, fmt.Errorf("failed to list carry-over entries: %w", err)
	}
	hours := 0.0
	for _, entry := range entries {
		hours += time_entry.ResolveHours(entry, now)
	}
	return hours, nil
}
