package app

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/punchcard/punchcard/internal/config"
	"github.com/punchcard/punchcard/internal/event_bus"
	"github.com/punchcard/punchcard/internal/utils"
	"github.com/punchcard/punchcard/pkg/pay_period"
	"github.com/punchcard/punchcard/pkg/paycheck"
	"github.com/punchcard/punchcard/pkg/time_entry"
	"github.com/punchcard/punchcard/pkg/timesheet"
	"github.com/punchcard/punchcard/pkg/user"
	log "github.com/sirupsen/logrus"
)

// Dependencies holds all services and handlers for the application.
type Dependencies struct {
	UserService user.Service
	UserHandler *user.Handler

	TimeEntryRepo    time_entry.Repository
	TimeEntryService time_entry.Service
	TimeEntryHandler *time_entry.Handler

	PayPeriodHandler *pay_period.Handler

	TimesheetService timesheet.Service
	TimesheetHandler *timesheet.Handler

	PaycheckService paycheck.Service
	PaycheckHandler *paycheck.Handler

	EventBus *event_bus.EventBus
	Clock    utils.Clock
}

// BuildDependencies initializes and wires all application services and handlers.
func BuildDependencies(db *pgxpool.Pool, cfg config.Application) *Dependencies {
	deps := &Dependencies{}

	deps.Clock = &utils.SystemClock{}
	deps.EventBus = event_bus.NewEventBus()
	registerAuditSubscribers(deps.EventBus)

	deps.UserService = user.NewUserService(user.NewUserRepo(db))
	deps.UserHandler = user.NewHandler(deps.UserService)

	deps.TimeEntryRepo = time_entry.NewRepository(db)
	deps.TimeEntryService = time_entry.NewService(deps.TimeEntryRepo, deps.EventBus)
	deps.TimeEntryHandler = time_entry.NewHandler(deps.TimeEntryService)

	deps.PayPeriodHandler = pay_period.NewHandler(deps.Clock)

	deps.TimesheetService = timesheet.NewService(deps.TimeEntryService)
	deps.TimesheetHandler = timesheet.NewHandler(deps.TimesheetService)

	deps.PaycheckService = paycheck.NewService(deps.TimesheetService)
	deps.PaycheckHandler = paycheck.NewHandler(deps.PaycheckService)

	return deps
}

// registerAuditSubscribers attaches the audit log to clock events.
func registerAuditSubscribers(bus *event_bus.EventBus) {
	event_bus.SubscribeTyped[event_bus.ClockedIn](bus, event_bus.ClockedInEvent,
		func(e event_bus.EventT[event_bus.ClockedIn]) error {
			log.Infof("user %d clocked in (entry %d) at %s", e.Data.UserId, e.Data.EntryId, e.Data.ClockIn)
			return nil
		})
	event_bus.SubscribeTyped[event_bus.ClockedOut](bus, event_bus.ClockedOutEvent,
		func(e event_bus.EventT[event_bus.ClockedOut]) error {
			log.Infof("user %d clocked out (entry %d) at %s, %.2f hours worked",
				e.Data.UserId, e.Data.EntryId, e.Data.ClockOut, e.Data.Hours)
			return nil
		})
}
