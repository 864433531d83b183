package time_entry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/punchcard/punchcard/internal/event_bus"
	"github.com/punchcard/punchcard/internal/utils"
	"github.com/punchcard/punchcard/pkg/user"
	log "github.com/sirupsen/logrus"
)

var (
	ErrAlreadyClockedIn = errors.New("user is already clocked in")
	ErrNotClockedIn     = errors.New("user is not clocked in")
	ErrInvalidRange     = errors.New("clock out must be after clock in")
	ErrInvalidEntry     = errors.New("time entry is invalid")
	ErrInvalidBreak     = errors.New("break is invalid")
)

// ClockStatus is the read-side of the clock state machine.
type ClockStatus struct {
	IsClockedIn bool
	Entry       *TimeEntry
}

type Service interface {
	Status(ctx context.Context) (ClockStatus, error)
	ClockIn(ctx context.Context, at *time.Time) (TimeEntry, error)
	ClockOut(ctx context.Context, at *time.Time) (TimeEntry, error)
	CancelClockIn(ctx context.Context) error
	CreateEntry(ctx context.Context, entry TimeEntry) (TimeEntry, error)
	UpdateEntry(ctx context.Context, entry TimeEntry) (TimeEntry, error)
	DeleteEntry(ctx context.Context, entryId int) error
	ListRange(ctx context.Context, from time.Time, to time.Time) ([]TimeEntry, error)
	AddBreak(ctx context.Context, entryId int, b Break) (Break, error)
	UpdateBreak(ctx context.Context, entryId int, b Break) (Break, error)
	DeleteBreak(ctx context.Context, entryId int, breakId int) error
}

type ServiceImpl struct {
	repo  Repository
	bus   *event_bus.EventBus
	clock utils.Clock
}

func NewService(repo Repository, bus *event_bus.EventBus) *ServiceImpl {
	return &ServiceImpl{repo: repo, bus: bus, clock: &utils.SystemClock{}}
}

func (s *ServiceImpl) Status(ctx context.Context) (ClockStatus, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return ClockStatus{}, fmt.Errorf("failed to get current user: %w", err)
	}
	open, err := s.repo.FindOpenEntry(ctx, userId)
	if err != nil {
		return ClockStatus{}, err
	}
	return ClockStatus{IsClockedIn: open != nil, Entry: open}, nil
}

// ClockIn starts a new work session. Both explicit and defaulted start times
// are rounded up per the user's rounding interval, so a session never begins
// before the employee did. The single-open-entry invariant is enforced by the
// repository, not by the pre-check: two concurrent calls race to the same
// unique index and exactly one wins.
func (s *ServiceImpl) ClockIn(ctx context.Context, at *time.Time) (TimeEntry, error) {
	currentUser, err := user.CurrentUser(ctx)
	if err != nil {
		return TimeEntry{}, fmt.Errorf("failed to get current user: %w", err)
	}

	startTime := s.clock.Now()
	if at != nil {
		startTime = *at
	}
	startTime = RoundUp(startTime, currentUser.Settings.RoundingMinutes)

	entry := TimeEntry{
		UserId:  currentUser.Id,
		ClockIn: startTime,
	}
	created, err := s.repo.CreateEntry(ctx, entry)
	if err != nil {
		if errors.Is(err, ErrOpenEntryExists) {
			return TimeEntry{}, ErrAlreadyClockedIn
		}
		return TimeEntry{}, err
	}
	log.Debugf("user %d clocked in at %s", currentUser.Id, created.ClockIn)
	s.publish(ctx, event_bus.ClockedInEvent, event_bus.ClockedIn{
		EntryId: created.Id,
		UserId:  created.UserId,
		ClockIn: created.ClockIn,
	})
	return created, nil
}

// ClockOut closes the open session. An explicit end time is rounded up like a
// clock-in; the defaulted "now" is stored raw so the recorded session length
// reconciles with the live elapsed timer the user was watching.
func (s *ServiceImpl) ClockOut(ctx context.Context, at *time.Time) (TimeEntry, error) {
	currentUser, err := user.CurrentUser(ctx)
	if err != nil {
		return TimeEntry{}, fmt.Errorf("failed to get current user: %w", err)
	}

	open, err := s.repo.FindOpenEntry(ctx, currentUser.Id)
	if err != nil {
		return TimeEntry{}, err
	}
	if open == nil {
		return TimeEntry{}, ErrNotClockedIn
	}

	endTime := s.clock.Now()
	if at != nil {
		endTime = RoundUp(*at, currentUser.Settings.RoundingMinutes)
	}
	if !endTime.After(open.ClockIn) {
		return TimeEntry{}, ErrInvalidRange
	}

	open.ClockOut = &endTime
	updated, err := s.repo.UpdateEntry(ctx, *open)
	if err != nil {
		return TimeEntry{}, err
	}
	log.Debugf("user %d clocked out at %s", currentUser.Id, endTime)
	s.publish(ctx, event_bus.ClockedOutEvent, event_bus.ClockedOut{
		EntryId:  updated.Id,
		UserId:   updated.UserId,
		ClockIn:  updated.ClockIn,
		ClockOut: endTime,
		Hours:    ResolveHours(updated, endTime),
	})
	return updated, nil
}

// CancelClockIn discards the open entry. It undoes an accidental clock-in
// rather than recording a worked session.
func (s *ServiceImpl) CancelClockIn(ctx context.Context) error {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return fmt.Errorf("failed to get current user: %w", err)
	}
	open, err := s.repo.FindOpenEntry(ctx, userId)
	if err != nil {
		return err
	}
	if open == nil {
		return ErrNotClockedIn
	}
	return s.repo.DeleteEntry(ctx, userId, open.Id)
}

func (s *ServiceImpl) CreateEntry(ctx context.Context, entry TimeEntry) (TimeEntry, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return TimeEntry{}, fmt.Errorf("failed to get current user: %w", err)
	}
	entry.UserId = userId
	entry.Manual = true
	if err := validateEntry(entry); err != nil {
		return TimeEntry{}, err
	}
	created, err := s.repo.CreateEntry(ctx, entry)
	if errors.Is(err, ErrOpenEntryExists) {
		return TimeEntry{}, ErrAlreadyClockedIn
	}
	return created, err
}

func (s *ServiceImpl) UpdateEntry(ctx context.Context, entry TimeEntry) (TimeEntry, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return TimeEntry{}, fmt.Errorf("failed to get current user: %w", err)
	}

	existing, err := s.repo.GetEntry(ctx, userId, entry.Id)
	if err != nil {
		return TimeEntry{}, err
	}
	entry.UserId = userId
	entry.Manual = existing.Manual
	if err := validateEntry(entry); err != nil {
		return TimeEntry{}, err
	}
	updated, err := s.repo.UpdateEntry(ctx, entry)
	if errors.Is(err, ErrOpenEntryExists) {
		return TimeEntry{}, ErrAlreadyClockedIn
	}
	return updated, err
}

func (s *ServiceImpl) DeleteEntry(ctx context.Context, entryId int) error {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return fmt.Errorf("failed to get current user: %w", err)
	}
	return s.repo.DeleteEntry(ctx, userId, entryId)
}

func (s *ServiceImpl) ListRange(ctx context.Context, from time.Time, to time.Time) ([]TimeEntry, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current user: %w", err)
	}
	return s.repo.ListRange(ctx, userId, from, to)
}

func (s *ServiceImpl) AddBreak(ctx context.Context, entryId int, b Break) (Break, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return Break{}, fmt.Errorf("failed to get current user: %w", err)
	}
	entry, err := s.repo.GetEntry(ctx, userId, entryId)
	if err != nil {
		return Break{}, err
	}
	b.EntryId = entry.Id
	if err := validateBreak(b); err != nil {
		return Break{}, err
	}
	created, err := s.repo.AddBreak(ctx, b)
	if err != nil {
		return Break{}, err
	}
	if err := s.refreshBreakCache(ctx, userId, entryId); err != nil {
		return Break{}, err
	}
	return created, nil
}

func (s *ServiceImpl) UpdateBreak(ctx context.Context, entryId int, b Break) (Break, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return Break{}, fmt.Errorf("failed to get current user: %w", err)
	}
	entry, err := s.repo.GetEntry(ctx, userId, entryId)
	if err != nil {
		return Break{}, err
	}
	b.EntryId = entry.Id
	if err := validateBreak(b); err != nil {
		return Break{}, err
	}
	updated, err := s.repo.UpdateBreak(ctx, b)
	if err != nil {
		return Break{}, err
	}
	if err := s.refreshBreakCache(ctx, userId, entryId); err != nil {
		return Break{}, err
	}
	return updated, nil
}

func (s *ServiceImpl) DeleteBreak(ctx context.Context, entryId int, breakId int) error {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return fmt.Errorf("failed to get current user: %w", err)
	}
	if _, err := s.repo.GetEntry(ctx, userId, entryId); err != nil {
		return err
	}
	if err := s.repo.DeleteBreak(ctx, entryId, breakId); err != nil {
		return err
	}
	return s.refreshBreakCache(ctx, userId, entryId)
}

// publish fires an event on the bus. Subscriber failures must not fail the
// clock operation itself, so errors are only logged.
func (s *ServiceImpl) publish(ctx context.Context, eventType event_bus.EventType, data any) {
	if s.bus == nil {
		return
	}
	if err := s.bus.Publish(event_bus.NewEvent(ctx, eventType, data)); err != nil {
		log.Warnf("failed to publish %s event: %v", eventType, err)
	}
}

// refreshBreakCache keeps the denormalized TotalBreakMinutes in sync with the
// break rows, so the hours resolver sees the same total either way.
func (s *ServiceImpl) refreshBreakCache(ctx context.Context, userId int, entryId int) error {
	entry, err := s.repo.GetEntry(ctx, userId, entryId)
	if err != nil {
		return err
	}
	total := 0
	for _, b := range entry.Breaks {
		total += b.Minutes()
	}
	if total == entry.TotalBreakMinutes {
		return nil
	}
	entry.TotalBreakMinutes = total
	_, err = s.repo.UpdateEntry(ctx, entry)
	return err
}

func validateEntry(entry TimeEntry) error {
	if entry.ClockIn.IsZero() {
		return fmt.Errorf("%w: clock in time is required", ErrInvalidEntry)
	}
	if entry.ClockOut != nil && !entry.ClockOut.After(entry.ClockIn) {
		return ErrInvalidRange
	}
	if entry.TotalBreakMinutes < 0 {
		return fmt.Errorf("%w: break minutes must not be negative", ErrInvalidEntry)
	}
	return nil
}

func validateBreak(b Break) error {
	switch b.Type {
	case BreakMeal, BreakRest, BreakOther:
	default:
		return fmt.Errorf("%w: unknown break type %q", ErrInvalidBreak, b.Type)
	}
	if b.StartTime.IsZero() {
		return fmt.Errorf("%w: start time is required", ErrInvalidBreak)
	}
	if b.EndTime != nil {
		if !b.EndTime.After(b.StartTime) {
			return fmt.Errorf("%w: end time must be after start time", ErrInvalidBreak)
		}
		if b.DurationMinutes != nil && *b.DurationMinutes != int(b.EndTime.Sub(b.StartTime).Minutes()) {
			return fmt.Errorf("%w: duration does not match start and end times", ErrInvalidBreak)
		}
	}
	if b.DurationMinutes != nil && *b.DurationMinutes < 0 {
		return fmt.Errorf("%w: duration must not be negative", ErrInvalidBreak)
	}
	return nil
}
