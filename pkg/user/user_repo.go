package user

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

type Repo interface {
	CreateUser(ctx context.Context, user User) (int, error)
	GetUser(ctx context.Context, id int) (User, error)
	GetUserByUid(ctx context.Context, uid string) (User, error)
	UpdateUser(ctx context.Context, userId int, user User) (User, error)
	DeleteUser(ctx context.Context, id int) error
	GetAllUsers(ctx context.Context) ([]User, error)
}

var ErrUserNotFound = errors.New("user not found")

type RepoImpl struct {
	db *pgxpool.Pool
}

func NewUserRepo(db *pgxpool.Pool) *RepoImpl {
	return &RepoImpl{db: db}
}

const userColumns = `id, uid, username, display_name, hourly_rate, overtime_multiplier, rounding_minutes,
		pay_period_type, pay_period_end_day, paycheck_adjustment, state_code, state_tax_rate`

func (u *RepoImpl) CreateUser(ctx context.Context, user User) (int, error) {
	query := `INSERT INTO users (uid, username, display_name, hourly_rate, overtime_multiplier, rounding_minutes,
				pay_period_type, pay_period_end_day, paycheck_adjustment, state_code, state_tax_rate)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11) RETURNING id`
	var id int
	err := u.db.QueryRow(ctx, query,
		user.Uid,
		user.Username,
		user.DisplayName,
		user.Settings.HourlyRate.String(),
		user.Settings.OvertimeMultiplier,
		user.Settings.RoundingMinutes,
		string(user.Settings.PayPeriodType),
		user.Settings.PayPeriodEndDay,
		user.Settings.PaycheckAdjustment.String(),
		nullIfEmpty(user.Settings.StateCode),
		user.Settings.StateTaxRate,
	).Scan(&id)
	if err != nil {
		log.Errorf("failed to create user: %v", err)
		return 0, err
	}
	return id, nil
}

func (u *RepoImpl) GetUser(ctx context.Context, id int) (User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return u.scanUser(u.db.QueryRow(ctx, query, id))
}

func (u *RepoImpl) GetUserByUid(ctx context.Context, uid string) (User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE uid = $1`
	return u.scanUser(u.db.QueryRow(ctx, query, uid))
}

func (u *RepoImpl) UpdateUser(ctx context.Context, userId int, user User) (User, error) {
	query := `UPDATE users SET username = $1, display_name = $2, hourly_rate = $3, overtime_multiplier = $4,
				rounding_minutes = $5, pay_period_type = $6, pay_period_end_day = $7, paycheck_adjustment = $8,
				state_code = $9, state_tax_rate = $10
				WHERE id = $11`
	tag, err := u.db.Exec(ctx, query,
		user.Username,
		user.DisplayName,
		user.Settings.HourlyRate.String(),
		user.Settings.OvertimeMultiplier,
		user.Settings.RoundingMinutes,
		string(user.Settings.PayPeriodType),
		user.Settings.PayPeriodEndDay,
		user.Settings.PaycheckAdjustment.String(),
		nullIfEmpty(user.Settings.StateCode),
		user.Settings.StateTaxRate,
		userId,
	)
	if err != nil {
		log.Errorf("failed to update user %d: %v", userId, err)
		return User{}, err
	}
	if tag.RowsAffected() == 0 {
		return User{}, ErrUserNotFound
	}
	return u.GetUser(ctx, userId)
}

func (u *RepoImpl) DeleteUser(ctx context.Context, id int) error {
	tag, err := u.db.Exec(ctx, "DELETE FROM users WHERE id = $1", id)
	if err != nil {
		log.Errorf("failed to delete user %d: %v", id, err)
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (u *RepoImpl) GetAllUsers(ctx context.Context) ([]User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY id`
	rows, err := u.db.Query(ctx, query)
	if err != nil {
		log.Errorf("failed to list users: %v", err)
		return nil, err
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		user, err := u.scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (u *RepoImpl) scanUser(row rowScanner) (User, error) {
	var user User
	var rate, adjustment string
	var stateCode sql.NullString
	var stateRate sql.NullFloat64
	var periodType string
	err := row.Scan(
		&user.Id,
		&user.Uid,
		&user.Username,
		&user.DisplayName,
		&rate,
		&user.Settings.OvertimeMultiplier,
		&user.Settings.RoundingMinutes,
		&periodType,
		&user.Settings.PayPeriodEndDay,
		&adjustment,
		&stateCode,
		&stateRate,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, ErrUserNotFound
	} else if err != nil {
		log.Errorf("failed to scan user: %v", err)
		return User{}, err
	}

	user.Settings.PayPeriodType = PayPeriodType(periodType)
	if user.Settings.HourlyRate, err = decimal.NewFromString(rate); err != nil {
		return User{}, err
	}
	if user.Settings.PaycheckAdjustment, err = decimal.NewFromString(adjustment); err != nil {
		return User{}, err
	}
	if stateCode.Valid {
		user.Settings.StateCode = stateCode.String
	}
	if stateRate.Valid {
		user.Settings.StateTaxRate = &stateRate.Float64
	}
	return user, nil
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
