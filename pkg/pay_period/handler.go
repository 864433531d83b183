package pay_period

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/punchcard/punchcard/internal/rest"
	"github.com/punchcard/punchcard/internal/utils"
	"github.com/punchcard/punchcard/pkg/user"
)

type PeriodDTO struct {
	Start         string `json:"start"`
	End           string `json:"end"`
	DaysRemaining int    `json:"daysRemaining,omitempty"`
}

type Handler struct {
	clock utils.Clock
}

func NewHandler(clock utils.Clock) *Handler {
	return &Handler{clock: clock}
}

// GetCurrentPeriod returns the period containing "now" plus the days left in
// it, derived from the following period's start rather than re-derived from
// the wall clock.
func (h *Handler) GetCurrentPeriod(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	currentUser, err := user.CurrentUser(r.Context())
	if err != nil {
		rest.WriteError(w, http.StatusForbidden, "User not found", "")
		return
	}

	now := h.clock.Now()
	period := Current(currentUser.Settings, now)
	next := Next(period, currentUser.Settings)
	daysRemaining := int(next.Start.Sub(now).Hours() / 24)

	dto := periodToDTO(period)
	dto.DaysRemaining = daysRemaining
	if err := json.NewEncoder(w).Encode(dto); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// ListPeriods returns the most recent N periods for a period picker.
func (h *Handler) ListPeriods(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	currentUser, err := user.CurrentUser(r.Context())
	if err != nil {
		rest.WriteError(w, http.StatusForbidden, "User not found", "")
		return
	}

	count := 12
	if countParam := r.URL.Query().Get("count"); countParam != "" {
		count, err = strconv.Atoi(countParam)
		if err != nil || count < 1 {
			rest.WriteError(w, http.StatusBadRequest, "Invalid count", "")
			return
		}
	}

	periods := Enumerate(currentUser.Settings, h.clock.Now(), count)
	dtos := make([]PeriodDTO, 0, len(periods))
	for _, period := range periods {
		dtos = append(dtos, periodToDTO(period))
	}
	if err := json.NewEncoder(w).Encode(dtos); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func periodToDTO(period Period) PeriodDTO {
	return PeriodDTO{
		Start: period.Start.Format(time.RFC3339),
		End:   period.End.Format(time.RFC3339),
	}
}
