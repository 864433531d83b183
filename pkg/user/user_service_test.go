package user

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService() (*UserServiceImpl, *StubUserRepository) {
	repo := NewStubUserRepository()
	return NewUserService(repo), repo
}

func TestUserServiceImpl_CreateUser(t *testing.T) {
	t.Run("should assign a uid and apply defaults", func(t *testing.T) {
		service, _ := newTestService()

		// when
		created, err := service.CreateUser(context.Background(), User{Username: "jdoe"})

		// then
		require.NoError(t, err)
		assert.NotEmpty(t, created.Uid)
		assert.NotZero(t, created.Id)
		assert.Equal(t, DefaultOvertimeMultiplier, created.Settings.OvertimeMultiplier)
		assert.Equal(t, DefaultRoundingMinutes, created.Settings.RoundingMinutes)
		assert.Equal(t, WeeklyPeriod, created.Settings.PayPeriodType)
		assert.Equal(t, DefaultPayPeriodEndDay, created.Settings.PayPeriodEndDay)
	})

	t.Run("should keep explicit settings", func(t *testing.T) {
		service, _ := newTestService()

		// given
		u := User{
			Username: "jdoe",
			Settings: PaySettings{
				HourlyRate:      decimal.NewFromInt(35),
				RoundingMinutes: 15,
				PayPeriodType:   MonthlyPeriod,
				PayPeriodEndDay: 10,
			},
		}

		// when
		created, err := service.CreateUser(context.Background(), u)

		// then
		require.NoError(t, err)
		assert.Equal(t, 15, created.Settings.RoundingMinutes)
		assert.Equal(t, MonthlyPeriod, created.Settings.PayPeriodType)
		assert.Equal(t, 10, created.Settings.PayPeriodEndDay)
	})

	t.Run("should reject a negative hourly rate", func(t *testing.T) {
		service, _ := newTestService()

		// when
		_, err := service.CreateUser(context.Background(), User{
			Username: "jdoe",
			Settings: PaySettings{HourlyRate: decimal.NewFromInt(-1)},
		})

		// then
		assert.ErrorIs(t, err, ErrUserDataInvalid)
	})

	t.Run("should reject an unsupported rounding interval", func(t *testing.T) {
		service, _ := newTestService()

		// when
		_, err := service.CreateUser(context.Background(), User{
			Username: "jdoe",
			Settings: PaySettings{RoundingMinutes: 7},
		})

		// then
		assert.ErrorIs(t, err, ErrUserDataInvalid)
	})

	t.Run("should reject an overtime multiplier below 1", func(t *testing.T) {
		service, _ := newTestService()

		// when
		_, err := service.CreateUser(context.Background(), User{
			Username: "jdoe",
			Settings: PaySettings{OvertimeMultiplier: 0.5},
		})

		// then
		assert.ErrorIs(t, err, ErrUserDataInvalid)
	})

	t.Run("should reject a state tax rate outside 0..1", func(t *testing.T) {
		service, _ := newTestService()

		// given
		rate := 1.5

		// when
		_, err := service.CreateUser(context.Background(), User{
			Username: "jdoe",
			Settings: PaySettings{StateTaxRate: &rate},
		})

		// then
		assert.ErrorIs(t, err, ErrUserDataInvalid)
	})

	t.Run("should reject a pay period end day outside 1..31", func(t *testing.T) {
		service, _ := newTestService()

		// when
		_, err := service.CreateUser(context.Background(), User{
			Username: "jdoe",
			Settings: PaySettings{PayPeriodEndDay: 32},
		})

		// then
		assert.ErrorIs(t, err, ErrUserDataInvalid)
	})
}

func TestUserServiceImpl_UpdateUser(t *testing.T) {
	t.Run("should update the current user's settings", func(t *testing.T) {
		service, _ := newTestService()

		// given
		created, err := service.CreateUser(context.Background(), User{Username: "jdoe"})
		require.NoError(t, err)
		ctx := WithUser(context.Background(), created)
		created.Settings.HourlyRate = decimal.NewFromInt(28)

		// when
		updated, err := service.UpdateUser(ctx, created)

		// then
		require.NoError(t, err)
		assert.True(t, updated.Settings.HourlyRate.Equal(decimal.NewFromInt(28)))
	})

	t.Run("should return error when context has no user", func(t *testing.T) {
		service, _ := newTestService()

		// when
		_, err := service.UpdateUser(context.Background(), User{Username: "jdoe"})

		// then
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to get current user")
	})
}

func TestUserServiceImpl_DeleteUser(t *testing.T) {
	t.Run("should delete by uid", func(t *testing.T) {
		service, _ := newTestService()

		// given
		created, err := service.CreateUser(context.Background(), User{Username: "jdoe"})
		require.NoError(t, err)

		// when
		err = service.DeleteUser(context.Background(), created.Uid)

		// then
		require.NoError(t, err)
		_, err = service.GetUserByUid(context.Background(), created.Uid)
		assert.ErrorIs(t, err, ErrUserNotFound)
	})

	t.Run("should fail for an unknown uid", func(t *testing.T) {
		service, _ := newTestService()

		// when
		err := service.DeleteUser(context.Background(), "missing")

		// then
		assert.ErrorIs(t, err, ErrUserNotFound)
	})
}
