package timesheet

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/punchcard/punchcard/internal/rest"
	"github.com/punchcard/punchcard/internal/utils"
	"github.com/punchcard/punchcard/pkg/pay_period"
	"github.com/punchcard/punchcard/pkg/time_entry"
	"github.com/punchcard/punchcard/pkg/user"
	log "github.com/sirupsen/logrus"
)

type TimesheetDTO struct {
	Start      string    `json:"start"`
	End        string    `json:"end"`
	Weeks      []WeekDTO `json:"weeks"`
	TotalHours float64   `json:"totalHours"`
}

type WeekDTO struct {
	Number              int             `json:"number"`
	Start               string          `json:"start"`
	End                 string          `json:"end"`
	Entries             []WeekEntryDTO  `json:"entries"`
	PreviousPeriodHours float64         `json:"previousPeriodHours"`
	Hours               float64         `json:"hours"`
}

type WeekEntryDTO struct {
	EntryId           int     `json:"entryId"`
	ClockIn           string  `json:"clockIn"`
	ClockOut          *string `json:"clockOut,omitempty"`
	TotalBreakMinutes int     `json:"totalBreakMinutes"`
	Hours             float64 `json:"hours"`
}

type Handler struct {
	service Service
	clock   utils.Clock
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service, clock: &utils.SystemClock{}}
}

// GetTimesheet godoc
// @Summary Get the timesheet for a pay period
// @Description Weeks, entries and worked hours for the period containing the given date (default: now)
// @Tags Timesheet
// @Produce json
// @Param date query string false "RFC3339 instant inside the requested period"
// @Success 200 {object} TimesheetDTO
// @Failure 400 {object} rest.ErrorResponse "Invalid date"
// @Router /api/timesheet [get]
func (h *Handler) GetTimesheet(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	currentUser, err := user.CurrentUser(r.Context())
	if err != nil {
		rest.WriteError(w, http.StatusForbidden, "User not found", "")
		return
	}

	at := h.clock.Now()
	if dateParam := r.URL.Query().Get("date"); dateParam != "" {
		at, err = time.Parse(time.RFC3339, dateParam)
		if err != nil {
			rest.WriteError(w, http.StatusBadRequest, "Invalid date format", "Date must be in RFC3339 format")
			return
		}
	}

	period := pay_period.Current(currentUser.Settings, at)
	log.Tracef("building timesheet for period %s - %s", period.Start, period.End)

	timesheet, err := h.service.ForPeriod(r.Context(), period)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if err := json.NewEncoder(w).Encode(timesheetToDTO(timesheet)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func timesheetToDTO(t Timesheet) TimesheetDTO {
	dto := TimesheetDTO{
		Start:      t.Period.Start.Format(time.RFC3339),
		End:        t.Period.End.Format(time.RFC3339),
		Weeks:      make([]WeekDTO, 0, len(t.Weeks)),
		TotalHours: t.TotalHours,
	}
	for _, week := range t.Weeks {
		weekDTO := WeekDTO{
			Number:              week.Number,
			Start:               week.Start.Format(time.RFC3339),
			End:                 week.End.Format(time.RFC3339),
			Entries:             make([]WeekEntryDTO, 0, len(week.Entries)),
			PreviousPeriodHours: week.PreviousPeriodHours,
			Hours:               week.Hours,
		}
		for _, we := range week.Entries {
			entryDTO := WeekEntryDTO{
				EntryId:           we.Entry.Id,
				ClockIn:           we.Entry.ClockIn.Format(time.RFC3339),
				TotalBreakMinutes: time_entry.BreakMinutes(we.Entry),
				Hours:             we.Hours,
			}
			if we.Entry.ClockOut != nil {
				clockOut := we.Entry.ClockOut.Format(time.RFC3339)
				entryDTO.ClockOut = &clockOut
			}
			weekDTO.Entries = append(weekDTO.Entries, entryDTO)
		}
		dto.Weeks = append(dto.Weeks, weekDTO)
	}
	return dto
}
