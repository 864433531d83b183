package time_entry

import (
	"context"
	"sort"
	"time"
)

// StubRepository is an in-memory Repository for service tests. It enforces
// the same single-open-entry rule the database index does.
type StubRepository struct {
	nextEntryId int
	nextBreakId int
	entries     map[int]TimeEntry
	breaks      map[int]Break
}

func NewStubRepository() *StubRepository {
	return &StubRepository{
		entries: map[int]TimeEntry{},
		breaks:  map[int]Break{},
	}
}

func (s *StubRepository) CreateEntry(ctx context.Context, entry TimeEntry) (TimeEntry, error) {
	if entry.Open() {
		for _, e := range s.entries {
			if e.UserId == entry.UserId && e.Open() {
				return TimeEntry{}, ErrOpenEntryExists
			}
		}
	}
	s.nextEntryId++
	entry.Id = s.nextEntryId
	s.entries[entry.Id] = entry
	return entry, nil
}

func (s *StubRepository) GetEntry(ctx context.Context, userId int, entryId int) (TimeEntry, error) {
	entry, ok := s.entries[entryId]
	if !ok || entry.UserId != userId {
		return TimeEntry{}, ErrEntryNotFound
	}
	entry.Breaks = s.breaksOf(entryId)
	return entry, nil
}

func (s *StubRepository) UpdateEntry(ctx context.Context, entry TimeEntry) (TimeEntry, error) {
	existing, ok := s.entries[entry.Id]
	if !ok || existing.UserId != entry.UserId {
		return TimeEntry{}, ErrEntryNotFound
	}
	if entry.Open() && !existing.Open() {
		for _, e := range s.entries {
			if e.UserId == entry.UserId && e.Open() && e.Id != entry.Id {
				return TimeEntry{}, ErrOpenEntryExists
			}
		}
	}
	entry.Breaks = nil
	s.entries[entry.Id] = entry
	return s.GetEntry(ctx, entry.UserId, entry.Id)
}

func (s *StubRepository) DeleteEntry(ctx context.Context, userId int, entryId int) error {
	entry, ok := s.entries[entryId]
	if !ok || entry.UserId != userId {
		return ErrEntryNotFound
	}
	delete(s.entries, entryId)
	for id, b := range s.breaks {
		if b.EntryId == entryId {
			delete(s.breaks, id)
		}
	}
	return nil
}

func (s *StubRepository) FindOpenEntry(ctx context.Context, userId int) (*TimeEntry, error) {
	for _, entry := range s.entries {
		if entry.UserId == userId && entry.Open() {
			entry.Breaks = s.breaksOf(entry.Id)
			return &entry, nil
		}
	}
	return nil, nil
}

func (s *StubRepository) ListRange(ctx context.Context, userId int, from time.Time, to time.Time) ([]TimeEntry, error) {
	var entries []TimeEntry
	for _, entry := range s.entries {
		if entry.UserId != userId {
			continue
		}
		if entry.ClockIn.Before(from) || entry.ClockIn.After(to) {
			continue
		}
		entry.Breaks = s.breaksOf(entry.Id)
		entries = append(entries, entry)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].ClockIn.Before(entries[j].ClockIn)
	})
	return entries, nil
}

func (s *StubRepository) AddBreak(ctx context.Context, b Break) (Break, error) {
	s.nextBreakId++
	b.Id = s.nextBreakId
	s.breaks[b.Id] = b
	return b, nil
}

func (s *StubRepository) UpdateBreak(ctx context.Context, b Break) (Break, error) {
	existing, ok := s.breaks[b.Id]
	if !ok || existing.EntryId != b.EntryId {
		return Break{}, ErrBreakNotFound
	}
	s.breaks[b.Id] = b
	return b, nil
}

func (s *StubRepository) DeleteBreak(ctx context.Context, entryId int, breakId int) error {
	existing, ok := s.breaks[breakId]
	if !ok || existing.EntryId != entryId {
		return ErrBreakNotFound
	}
	delete(s.breaks, breakId)
	return nil
}

func (s *StubRepository) breaksOf(entryId int) []Break {
	var breaks []Break
	for _, b := range s.breaks {
		if b.EntryId == entryId {
			breaks = append(breaks, b)
		}
	}
	sort.Slice(breaks, func(i, j int) bool {
		return breaks[i].StartTime.Before(breaks[j].StartTime)
	})
	return breaks
}
