package user

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/google/uuid"
)

var ErrUserDataInvalid = errors.New("user data is invalid")

type Service interface {
	GetCurrentUser(ctx context.Context) (User, error)
	CreateUser(ctx context.Context, user User) (User, error)
	GetUser(ctx context.Context, id int) (User, error)
	GetUserByUid(ctx context.Context, uid string) (User, error)
	UpdateUser(ctx context.Context, user User) (User, error)
	DeleteUser(ctx context.Context, uid string) error
	GetAllUsers(ctx context.Context) ([]User, error)
}

// Provider is the minimal read-side interface other packages depend on.
type Provider interface {
	GetCurrentUser(ctx context.Context) (User, error)
}

type UserServiceImpl struct {
	repo Repo
}

func NewUserService(repo Repo) *UserServiceImpl {
	return &UserServiceImpl{repo: repo}
}

func (u *UserServiceImpl) GetCurrentUser(ctx context.Context) (User, error) {
	userId, err := CurrentId(ctx)
	if err != nil {
		return User{}, fmt.Errorf("failed to get current user: %w", err)
	}
	return u.GetUser(ctx, userId)
}

func (u *UserServiceImpl) CreateUser(ctx context.Context, user User) (User, error) {
	user.Uid = uuid.NewString()
	user.Settings = withDefaults(user.Settings)
	if err := validateSettings(user.Settings); err != nil {
		return User{}, err
	}
	userId, err := u.repo.CreateUser(ctx, user)
	if err != nil {
		return User{}, err
	}
	user.Id = userId
	return user, nil
}

func (u *UserServiceImpl) GetUser(ctx context.Context, id int) (User, error) {
	return u.repo.GetUser(ctx, id)
}

func (u *UserServiceImpl) GetUserByUid(ctx context.Context, uid string) (User, error) {
	return u.repo.GetUserByUid(ctx, uid)
}

func (u *UserServiceImpl) UpdateUser(ctx context.Context, user User) (User, error) {
	userId, err := CurrentId(ctx)
	if err != nil {
		return User{}, fmt.Errorf("failed to get current user: %w", err)
	}
	user.Settings = withDefaults(user.Settings)
	if err := validateSettings(user.Settings); err != nil {
		return User{}, err
	}
	return u.repo.UpdateUser(ctx, userId, user)
}

func (u *UserServiceImpl) DeleteUser(ctx context.Context, uid string) error {
	user, err := u.repo.GetUserByUid(ctx, uid)
	if err != nil {
		return err
	}
	return u.repo.DeleteUser(ctx, user.Id)
}

func (u *UserServiceImpl) GetAllUsers(ctx context.Context) ([]User, error) {
	return u.repo.GetAllUsers(ctx)
}

// withDefaults fills unset settings with the named defaults so downstream
// calculations never see a zero multiplier or rounding interval.
func withDefaults(s PaySettings) PaySettings {
	if s.OvertimeMultiplier == 0 {
		s.OvertimeMultiplier = DefaultOvertimeMultiplier
	}
	if s.RoundingMinutes == 0 {
		s.RoundingMinutes = DefaultRoundingMinutes
	}
	if s.PayPeriodType == "" {
		s.PayPeriodType = WeeklyPeriod
	}
	if s.PayPeriodEndDay == 0 {
		s.PayPeriodEndDay = DefaultPayPeriodEndDay
	}
	return s
}

func validateSettings(s PaySettings) error {
	if s.HourlyRate.IsNegative() {
		return fmt.Errorf("%w: hourly rate must not be negative", ErrUserDataInvalid)
	}
	if s.OvertimeMultiplier < 1 {
		return fmt.Errorf("%w: overtime multiplier must be at least 1", ErrUserDataInvalid)
	}
	if !slices.Contains(RoundingOptions, s.RoundingMinutes) {
		return fmt.Errorf("%w: rounding interval %d is not supported", ErrUserDataInvalid, s.RoundingMinutes)
	}
	if s.PayPeriodType != WeeklyPeriod && s.PayPeriodType != MonthlyPeriod {
		return fmt.Errorf("%w: unknown pay period type %q", ErrUserDataInvalid, s.PayPeriodType)
	}
	if s.PayPeriodEndDay < 1 || s.PayPeriodEndDay > 31 {
		return fmt.Errorf("%w: pay period end day must be between 1 and 31", ErrUserDataInvalid)
	}
	if s.StateTaxRate != nil && (*s.StateTaxRate < 0 || *s.StateTaxRate > 1) {
		return fmt.Errorf("%w: state tax rate must be a fraction between 0 and 1", ErrUserDataInvalid)
	}
	return nil
}
