package paycheck

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/punchcard/punchcard/internal/rest"
	"github.com/punchcard/punchcard/internal/utils"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

type PayCalculationDTO struct {
	RegularHours  float64 `json:"regularHours"`
	OvertimeHours float64 `json:"overtimeHours"`
	RegularPay    string  `json:"regularPay"`
	OvertimePay   string  `json:"overtimePay"`
	GrossPay      string  `json:"grossPay"`
	FederalTax    string  `json:"federalTax"`
	StateTax      string  `json:"stateTax"`
	Fica          string  `json:"fica"`
	Adjustment    string  `json:"adjustment"`
	NetPay        string  `json:"netPay"`
}

type EntryPayDTO struct {
	EntryId       int     `json:"entryId"`
	Hours         float64 `json:"hours"`
	RegularHours  float64 `json:"regularHours"`
	OvertimeHours float64 `json:"overtimeHours"`
	Pay           string  `json:"pay"`
}

type WeekPayDTO struct {
	Number              int               `json:"number"`
	Start               string            `json:"start"`
	End                 string            `json:"end"`
	PreviousPeriodHours float64           `json:"previousPeriodHours"`
	Entries             []EntryPayDTO     `json:"entries"`
	Calculation         PayCalculationDTO `json:"calculation"`
}

type PaycheckDTO struct {
	Start  string            `json:"start"`
	End    string            `json:"end"`
	Weeks  []WeekPayDTO      `json:"weeks"`
	Totals PayCalculationDTO `json:"totals"`
}

type estimateRequest struct {
	Hours float64 `json:"hours"`
	Rate  string  `json:"rate,omitempty"`
}

type Handler struct {
	service Service
	clock   utils.Clock
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service, clock: &utils.SystemClock{}}
}

// GetPaycheck godoc
// @Summary Get the paycheck for a pay period
// @Description Per-week and total pay figures for the period containing the given date (default: now)
// @Tags Paycheck
// @Produce json
// @Param date query string false "RFC3339 instant inside the requested period"
// @Success 200 {object} PaycheckDTO
// @Failure 400 {object} rest.ErrorResponse "Invalid date"
// @Router /api/paycheck [get]
func (h *Handler) GetPaycheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	at := h.clock.Now()
	if dateParam := r.URL.Query().Get("date"); dateParam != "" {
		parsed, err := time.Parse(time.RFC3339, dateParam)
		if err != nil {
			rest.WriteError(w, http.StatusBadRequest, "Invalid date format", "Date must be in RFC3339 format")
			return
		}
		at = parsed
	}

	paycheck, err := h.service.ForPeriod(r.Context(), at)
	if err != nil {
		log.Errorf("failed to compute paycheck: %v", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if err := json.NewEncoder(w).Encode(paycheckToDTO(paycheck)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// Estimate computes a what-if paycheck from an arbitrary hours figure and
// optional rate, with no stored entries involved.
func (h *Handler) Estimate(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var req estimateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body format", "")
		return
	}
	if req.Hours < 0 {
		rest.WriteError(w, http.StatusBadRequest, "Hours must not be negative", "")
		return
	}

	rate := decimal.Zero
	if req.Rate != "" {
		parsed, err := decimal.NewFromString(req.Rate)
		if err != nil || parsed.IsNegative() {
			rest.WriteError(w, http.StatusBadRequest, "Invalid rate", "")
			return
		}
		rate = parsed
	}

	calc, err := h.service.Estimate(r.Context(), req.Hours, rate)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if err := json.NewEncoder(w).Encode(calculationToDTO(calc)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func paycheckToDTO(paycheck PeriodPaycheck) PaycheckDTO {
	dto := PaycheckDTO{
		Start:  paycheck.Period.Start.Format(time.RFC3339),
		End:    paycheck.Period.End.Format(time.RFC3339),
		Weeks:  make([]WeekPayDTO, 0, len(paycheck.Weeks)),
		Totals: calculationToDTO(paycheck.Totals),
	}
	for _, weekPay := range paycheck.Weeks {
		weekDTO := WeekPayDTO{
			Number:              weekPay.Week.Number,
			Start:               weekPay.Week.Start.Format(time.RFC3339),
			End:                 weekPay.Week.End.Format(time.RFC3339),
			PreviousPeriodHours: weekPay.Week.PreviousPeriodHours,
			Entries:             make([]EntryPayDTO, 0, len(weekPay.Entries)),
			Calculation:         calculationToDTO(weekPay.Calculation),
		}
		for _, entryPay := range weekPay.Entries {
			weekDTO.Entries = append(weekDTO.Entries, EntryPayDTO{
				EntryId:       entryPay.EntryId,
				Hours:         entryPay.Hours,
				RegularHours:  entryPay.RegularHours,
				OvertimeHours: entryPay.OvertimeHours,
				Pay:           entryPay.Pay.String(),
			})
		}
		dto.Weeks = append(dto.Weeks, weekDTO)
	}
	return dto
}

func calculationToDTO(calc PayCalculation) PayCalculationDTO {
	return PayCalculationDTO{
		RegularHours:  calc.RegularHours,
		OvertimeHours: calc.OvertimeHours,
		RegularPay:    calc.RegularPay.String(),
		OvertimePay:   calc.OvertimePay.String(),
		GrossPay:      calc.GrossPay.String(),
		FederalTax:    calc.FederalTax.String(),
		StateTax:      calc.StateTax.String(),
		Fica:          calc.FICA.String(),
		Adjustment:    calc.Adjustment.String(),
		NetPay:        calc.NetPay.String(),
	}
}
