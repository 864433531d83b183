package app

import (
	"github.com/gorilla/mux"
	"github.com/punchcard/punchcard/internal/config"
)

// RegisterRoutes registers all API endpoints.
func RegisterRoutes(r *mux.Router, deps *Dependencies, cfg config.Application) {

	// Clock
	r.HandleFunc("/api/clock", deps.TimeEntryHandler.GetStatus).Methods("GET")
	r.HandleFunc("/api/clock/in", deps.TimeEntryHandler.ClockIn).Methods("POST")
	r.HandleFunc("/api/clock/out", deps.TimeEntryHandler.ClockOut).Methods("POST")
	r.HandleFunc("/api/clock", deps.TimeEntryHandler.CancelClockIn).Methods("DELETE")

	// Time entries
	r.HandleFunc("/api/entry", deps.TimeEntryHandler.CreateEntry).Methods("POST")
	r.HandleFunc("/api/entry", deps.TimeEntryHandler.ListEntries).Queries("from", "{from}", "to", "{to}").Methods("GET")
	r.HandleFunc("/api/entry/{entryId}", deps.TimeEntryHandler.UpdateEntry).Methods("PUT")
	r.HandleFunc("/api/entry/{entryId}", deps.TimeEntryHandler.DeleteEntry).Methods("DELETE")

	// Breaks
	r.HandleFunc("/api/entry/{entryId}/break", deps.TimeEntryHandler.AddBreak).Methods("POST")
	r.HandleFunc("/api/entry/{entryId}/break/{breakId}", deps.TimeEntryHandler.UpdateBreak).Methods("PUT")
	r.HandleFunc("/api/entry/{entryId}/break/{breakId}", deps.TimeEntryHandler.DeleteBreak).Methods("DELETE")

	// Pay periods
	r.HandleFunc("/api/payperiod/current", deps.PayPeriodHandler.GetCurrentPeriod).Methods("GET")
	r.HandleFunc("/api/payperiod", deps.PayPeriodHandler.ListPeriods).Methods("GET")

	// Timesheet
	r.HandleFunc("/api/timesheet", deps.TimesheetHandler.GetTimesheet).Methods("GET")

	// Paycheck
	r.HandleFunc("/api/paycheck", deps.PaycheckHandler.GetPaycheck).Methods("GET")
	r.HandleFunc("/api/paycheck/estimate", deps.PaycheckHandler.Estimate).Methods("POST")

	// User management
	r.HandleFunc("/api/user/current", deps.UserHandler.CurrentUser).Methods("GET")
	r.HandleFunc("/api/user/current", deps.UserHandler.UpdateUser).Methods("PUT")
	r.HandleFunc("/api/user", deps.UserHandler.CreateUser).Methods("POST")
	r.HandleFunc("/api/user", deps.UserHandler.GetAvailableUsers).Methods("GET")
	r.HandleFunc("/api/user/{userUid}", deps.UserHandler.DeleteUser).Methods("DELETE")
}
