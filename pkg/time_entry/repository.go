package time_entry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

var (
	ErrEntryNotFound = errors.New("time entry not found")
	ErrBreakNotFound = errors.New("break not found")
	// ErrOpenEntryExists is raised by the partial unique index on open
	// entries, which makes concurrent clock-ins impossible to double-apply.
	ErrOpenEntryExists = errors.New("an open time entry already exists")
)

const uniqueViolation = "23505"

type Repository interface {
	CreateEntry(ctx context.Context, entry TimeEntry) (TimeEntry, error)
	GetEntry(ctx context.Context, userId int, entryId int) (TimeEntry, error)
	UpdateEntry(ctx context.Context, entry TimeEntry) (TimeEntry, error)
	DeleteEntry(ctx context.Context, userId int, entryId int) error
	FindOpenEntry(ctx context.Context, userId int) (*TimeEntry, error)
	ListRange(ctx context.Context, userId int, from time.Time, to time.Time) ([]TimeEntry, error)
	AddBreak(ctx context.Context, b Break) (Break, error)
	UpdateBreak(ctx context.Context, b Break) (Break, error)
	DeleteBreak(ctx context.Context, entryId int, breakId int) error
}

type RepositoryImpl struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

func (r *RepositoryImpl) CreateEntry(ctx context.Context, entry TimeEntry) (TimeEntry, error) {
	query := `INSERT INTO time_entry (user_id, clock_in, clock_out, total_break_minutes, note, manual)
				VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	err := r.db.QueryRow(ctx, query,
		entry.UserId,
		entry.ClockIn,
		entry.ClockOut,
		entry.TotalBreakMinutes,
		entry.Note,
		entry.Manual,
	).Scan(&entry.Id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return TimeEntry{}, ErrOpenEntryExists
		}
		err := fmt.Errorf("could not create time entry: %w", err)
		log.Error(err)
		return TimeEntry{}, err
	}
	return entry, nil
}

func (r *RepositoryImpl) GetEntry(ctx context.Context, userId int, entryId int) (TimeEntry, error) {
	query := `SELECT id, user_id, clock_in, clock_out, total_break_minutes, note, manual
				FROM time_entry WHERE id = $1 AND user_id = $2`
	entry, err := scanEntry(r.db.QueryRow(ctx, query, entryId, userId))
	if err != nil {
		return TimeEntry{}, err
	}
	breaks, err := r.breaksForEntries(ctx, []int{entry.Id})
	if err != nil {
		return TimeEntry{}, err
	}
	entry.Breaks = breaks[entry.Id]
	return entry, nil
}

func (r *RepositoryImpl) UpdateEntry(ctx context.Context, entry TimeEntry) (TimeEntry, error) {
	query := `UPDATE time_entry SET clock_in = $1, clock_out = $2, total_break_minutes = $3, note = $4
				WHERE id = $5 AND user_id = $6`
	tag, err := r.db.Exec(ctx, query,
		entry.ClockIn,
		entry.ClockOut,
		entry.TotalBreakMinutes,
		entry.Note,
		entry.Id,
		entry.UserId,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return TimeEntry{}, ErrOpenEntryExists
		}
		err := fmt.Errorf("could not update time entry %d: %w", entry.Id, err)
		log.Error(err)
		return TimeEntry{}, err
	}
	if tag.RowsAffected() == 0 {
		return TimeEntry{}, ErrEntryNotFound
	}
	return r.GetEntry(ctx, entry.UserId, entry.Id)
}

func (r *RepositoryImpl) DeleteEntry(ctx context.Context, userId int, entryId int) error {
	// Breaks are removed by the FK cascade.
	tag, err := r.db.Exec(ctx, "DELETE FROM time_entry WHERE id = $1 AND user_id = $2", entryId, userId)
	if err != nil {
		err := fmt.Errorf("could not delete time entry %d: %w", entryId, err)
		log.Error(err)
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrEntryNotFound
	}
	return nil
}

func (r *RepositoryImpl) FindOpenEntry(ctx context.Context, userId int) (*TimeEntry, error) {
	query := `SELECT id, user_id, clock_in, clock_out, total_break_minutes, note, manual
				FROM time_entry WHERE user_id = $1 AND clock_out IS NULL LIMIT 1`
	entry, err := scanEntry(r.db.QueryRow(ctx, query, userId))
	if errors.Is(err, ErrEntryNotFound) {
		return nil, nil
	} else if err != nil {
		return nil, err
	}
	breaks, err := r.breaksForEntries(ctx, []int{entry.Id})
	if err != nil {
		return nil, err
	}
	entry.Breaks = breaks[entry.Id]
	return &entry, nil
}

func (r *RepositoryImpl) ListRange(ctx context.Context, userId int, from time.Time, to time.Time) ([]TimeEntry, error) {
	query := `SELECT id, user_id, clock_in, clock_out, total_break_minutes, note, manual
				FROM time_entry
				WHERE user_id = $1 AND clock_in >= $2 AND clock_in <= $3
				ORDER BY clock_in`
	rows, err := r.db.Query(ctx, query, userId, from, to)
	if err != nil {
		err := fmt.Errorf("could not list time entries: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	var entries []TimeEntry
	var ids []int
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
		ids = append(ids, entry.Id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	breaks, err := r.breaksForEntries(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range entries {
		entries[i].Breaks = breaks[entries[i].Id]
	}
	return entries, nil
}

func (r *RepositoryImpl) AddBreak(ctx context.Context, b Break) (Break, error) {
	query := `INSERT INTO break (entry_id, break_type, start_time, end_time, duration_minutes, note)
				VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	err := r.db.QueryRow(ctx, query,
		b.EntryId,
		string(b.Type),
		b.StartTime,
		b.EndTime,
		b.DurationMinutes,
		b.Note,
	).Scan(&b.Id)
	if err != nil {
		err := fmt.Errorf("could not create break: %w", err)
		log.Error(err)
		return Break{}, err
	}
	return b, nil
}

func (r *RepositoryImpl) UpdateBreak(ctx context.Context, b Break) (Break, error) {
	query := `UPDATE break SET break_type = $1, start_time = $2, end_time = $3, duration_minutes = $4, note = $5
				WHERE id = $6 AND entry_id = $7`
	tag, err := r.db.Exec(ctx, query,
		string(b.Type),
		b.StartTime,
		b.EndTime,
		b.DurationMinutes,
		b.Note,
		b.Id,
		b.EntryId,
	)
	if err != nil {
		err := fmt.Errorf("could not update break %d: %w", b.Id, err)
		log.Error(err)
		return Break{}, err
	}
	if tag.RowsAffected() == 0 {
		return Break{}, ErrBreakNotFound
	}
	return b, nil
}

func (r *RepositoryImpl) DeleteBreak(ctx context.Context, entryId int, breakId int) error {
	tag, err := r.db.Exec(ctx, "DELETE FROM break WHERE id = $1 AND entry_id = $2", breakId, entryId)
	if err != nil {
		err := fmt.Errorf("could not delete break %d: %w", breakId, err)
		log.Error(err)
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrBreakNotFound
	}
	return nil
}

func (r *RepositoryImpl) breaksForEntries(ctx context.Context, entryIds []int) (map[int][]Break, error) {
	result := make(map[int][]Break, len(entryIds))
	if len(entryIds) == 0 {
		return result, nil
	}

	query := `SELECT id, entry_id, break_type, start_time, end_time, duration_minutes, note
				FROM break WHERE entry_id = ANY($1) ORDER BY start_time`
	rows, err := r.db.Query(ctx, query, entryIds)
	if err != nil {
		err := fmt.Errorf("could not list breaks: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var b Break
		var breakType string
		if err := rows.Scan(&b.Id, &b.EntryId, &breakType, &b.StartTime, &b.EndTime, &b.DurationMinutes, &b.Note); err != nil {
			return nil, err
		}
		b.Type = BreakType(breakType)
		result[b.EntryId] = append(result[b.EntryId], b)
	}
	return result, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (TimeEntry, error) {
	var entry TimeEntry
	err := row.Scan(
		&entry.Id,
		&entry.UserId,
		&entry.ClockIn,
		&entry.ClockOut,
		&entry.TotalBreakMinutes,
		&entry.Note,
		&entry.Manual,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return TimeEntry{}, ErrEntryNotFound
	} else if err != nil {
		err := fmt.Errorf("failed to scan time entry: %w", err)
		log.Error(err)
		return TimeEntry{}, err
	}
	return entry, nil
}
