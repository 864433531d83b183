package test_utils

import (
	"context"

	"github.com/punchcard/punchcard/pkg/user"
	"github.com/shopspring/decimal"
)

// TestUser returns a fixture user with predictable pay settings: $20/h,
// 1.5x overtime, 5-minute rounding, weekly pay periods, Montana taxes.
func TestUser() user.User {
	return user.User{
		Id:          123,
		Uid:         "11111111-1111-1111-1111-111111111111",
		Username:    "test_user",
		DisplayName: "Test User",
		Settings: user.PaySettings{
			HourlyRate:         decimal.NewFromInt(20),
			OvertimeMultiplier: 1.5,
			RoundingMinutes:    5,
			PayPeriodType:      user.WeeklyPeriod,
			PayPeriodEndDay:    user.DefaultPayPeriodEndDay,
			PaycheckAdjustment: decimal.Zero,
			StateCode:          "MT",
		},
	}
}

// ContextWithTestUser returns a context carrying the fixture user, as the
// user middleware would have set it.
func ContextWithTestUser() context.Context {
	return user.WithUser(context.Background(), TestUser())
}
