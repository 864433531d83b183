package time_entry

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/punchcard/punchcard/internal/rest"
	log "github.com/sirupsen/logrus"
)

type EntryDTO struct {
	Id                int        `json:"id"`
	ClockIn           string     `json:"clockIn"`
	ClockOut          *string    `json:"clockOut,omitempty"`
	TotalBreakMinutes int        `json:"totalBreakMinutes"`
	Note              string     `json:"note,omitempty"`
	Manual            bool       `json:"manual"`
	Breaks            []BreakDTO `json:"breaks,omitempty"`
}

type BreakDTO struct {
	Id              int     `json:"id"`
	Type            string  `json:"type"`
	StartTime       string  `json:"startTime"`
	EndTime         *string `json:"endTime,omitempty"`
	DurationMinutes *int    `json:"durationMinutes,omitempty"`
	Note            string  `json:"note,omitempty"`
}

type ClockStatusDTO struct {
	IsClockedIn bool      `json:"isClockedIn"`
	Entry       *EntryDTO `json:"entry,omitempty"`
}

// clockRequest optionally overrides "now" for clock in/out.
type clockRequest struct {
	Time *string `json:"time"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// GetStatus godoc
// @Summary Get clock status
// @Description Report whether the current user is clocked in, with the open entry if any
// @Tags Clock
// @Produce json
// @Success 200 {object} ClockStatusDTO
// @Router /api/clock [get]
func (h *Handler) GetStatus(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	status, err := h.service.Status(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	dto := ClockStatusDTO{IsClockedIn: status.IsClockedIn}
	if status.Entry != nil {
		entryDTO := entryToDTO(*status.Entry)
		dto.Entry = &entryDTO
	}
	if err := json.NewEncoder(w).Encode(dto); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) ClockIn(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	log.Trace("Clocking in")

	at, ok := parseClockTime(w, r)
	if !ok {
		return
	}

	entry, err := h.service.ClockIn(r.Context(), at)
	if err != nil {
		if errors.Is(err, ErrAlreadyClockedIn) {
			rest.WriteError(w, http.StatusConflict, "Already clocked in", "")
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(entryToDTO(entry)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) ClockOut(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	log.Trace("Clocking out")

	at, ok := parseClockTime(w, r)
	if !ok {
		return
	}

	entry, err := h.service.ClockOut(r.Context(), at)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotClockedIn):
			rest.WriteError(w, http.StatusConflict, "Not clocked in", "")
		case errors.Is(err, ErrInvalidRange):
			rest.WriteError(w, http.StatusBadRequest, "Clock out must be after clock in", "")
		default:
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}

	if err := json.NewEncoder(w).Encode(entryToDTO(entry)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) CancelClockIn(w http.ResponseWriter, r *http.Request) {
	if err := h.service.CancelClockIn(r.Context()); err != nil {
		if errors.Is(err, ErrNotClockedIn) {
			rest.WriteError(w, http.StatusConflict, "Not clocked in", "")
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) CreateEntry(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	entry, ok := decodeEntry(w, r)
	if !ok {
		return
	}

	created, err := h.service.CreateEntry(r.Context(), entry)
	if err != nil {
		writeEntryError(w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(entryToDTO(created)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) UpdateEntry(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	entryId, ok := pathId(w, r, "entryId")
	if !ok {
		return
	}
	entry, ok := decodeEntry(w, r)
	if !ok {
		return
	}
	entry.Id = entryId

	updated, err := h.service.UpdateEntry(r.Context(), entry)
	if err != nil {
		writeEntryError(w, err)
		return
	}
	if err := json.NewEncoder(w).Encode(entryToDTO(updated)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) DeleteEntry(w http.ResponseWriter, r *http.Request) {
	entryId, ok := pathId(w, r, "entryId")
	if !ok {
		return
	}
	if err := h.service.DeleteEntry(r.Context(), entryId); err != nil {
		writeEntryError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ListEntries(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	from, err := time.Parse(time.RFC3339, r.URL.Query().Get("from"))
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid from date", "Date must be in RFC3339 format")
		return
	}
	to, err := time.Parse(time.RFC3339, r.URL.Query().Get("to"))
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid to date", "Date must be in RFC3339 format")
		return
	}

	entries, err := h.service.ListRange(r.Context(), from, to)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	dtos := make([]EntryDTO, 0, len(entries))
	for _, entry := range entries {
		dtos = append(dtos, entryToDTO(entry))
	}
	if err := json.NewEncoder(w).Encode(dtos); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) AddBreak(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	entryId, ok := pathId(w, r, "entryId")
	if !ok {
		return
	}
	b, ok := decodeBreak(w, r)
	if !ok {
		return
	}

	created, err := h.service.AddBreak(r.Context(), entryId, b)
	if err != nil {
		writeEntryError(w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(breakToDTO(created)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) UpdateBreak(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	entryId, ok := pathId(w, r, "entryId")
	if !ok {
		return
	}
	breakId, ok := pathId(w, r, "breakId")
	if !ok {
		return
	}
	b, ok := decodeBreak(w, r)
	if !ok {
		return
	}
	b.Id = breakId

	updated, err := h.service.UpdateBreak(r.Context(), entryId, b)
	if err != nil {
		writeEntryError(w, err)
		return
	}
	if err := json.NewEncoder(w).Encode(breakToDTO(updated)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) DeleteBreak(w http.ResponseWriter, r *http.Request) {
	entryId, ok := pathId(w, r, "entryId")
	if !ok {
		return
	}
	breakId, ok := pathId(w, r, "breakId")
	if !ok {
		return
	}
	if err := h.service.DeleteBreak(r.Context(), entryId, breakId); err != nil {
		writeEntryError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeEntryError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrEntryNotFound):
		rest.WriteError(w, http.StatusNotFound, "Time entry not found", "")
	case errors.Is(err, ErrBreakNotFound):
		rest.WriteError(w, http.StatusNotFound, "Break not found", "")
	case errors.Is(err, ErrAlreadyClockedIn):
		rest.WriteError(w, http.StatusConflict, "Already clocked in", "")
	case errors.Is(err, ErrInvalidRange), errors.Is(err, ErrInvalidEntry), errors.Is(err, ErrInvalidBreak):
		rest.WriteError(w, http.StatusBadRequest, "Invalid request", err.Error())
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func parseClockTime(w http.ResponseWriter, r *http.Request) (*time.Time, bool) {
	if r.Body == nil || r.ContentLength == 0 {
		return nil, true
	}
	var req clockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body format", "")
		return nil, false
	}
	if req.Time == nil {
		return nil, true
	}
	at, err := time.Parse(time.RFC3339, *req.Time)
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid time format", "Time must be in RFC3339 format")
		return nil, false
	}
	return &at, true
}

func pathId(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	id, err := strconv.Atoi(mux.Vars(r)[name])
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid "+name, "")
		return 0, false
	}
	return id, true
}

func decodeEntry(w http.ResponseWriter, r *http.Request) (TimeEntry, bool) {
	var dto EntryDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body format", "")
		return TimeEntry{}, false
	}
	entry, err := dtoToEntry(dto)
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid time format", "Times must be in RFC3339 format")
		return TimeEntry{}, false
	}
	return entry, true
}

func decodeBreak(w http.ResponseWriter, r *http.Request) (Break, bool) {
	var dto BreakDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body format", "")
		return Break{}, false
	}
	b, err := dtoToBreak(dto)
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid time format", "Times must be in RFC3339 format")
		return Break{}, false
	}
	return b, true
}

func entryToDTO(entry TimeEntry) EntryDTO {
	dto := EntryDTO{
		Id:                entry.Id,
		ClockIn:           entry.ClockIn.Format(time.RFC3339),
		TotalBreakMinutes: entry.TotalBreakMinutes,
		Note:              entry.Note,
		Manual:            entry.Manual,
	}
	if entry.ClockOut != nil {
		clockOut := entry.ClockOut.Format(time.RFC3339)
		dto.ClockOut = &clockOut
	}
	for _, b := range entry.Breaks {
		dto.Breaks = append(dto.Breaks, breakToDTO(b))
	}
	return dto
}

func breakToDTO(b Break) BreakDTO {
	dto := BreakDTO{
		Id:              b.Id,
		Type:            string(b.Type),
		StartTime:       b.StartTime.Format(time.RFC3339),
		DurationMinutes: b.DurationMinutes,
		Note:            b.Note,
	}
	if b.EndTime != nil {
		endTime := b.EndTime.Format(time.RFC3339)
		dto.EndTime = &endTime
	}
	return dto
}

func dtoToEntry(dto EntryDTO) (TimeEntry, error) {
	clockIn, err := time.Parse(time.RFC3339, dto.ClockIn)
	if err != nil {
		return TimeEntry{}, err
	}
	entry := TimeEntry{
		Id:                dto.Id,
		ClockIn:           clockIn,
		TotalBreakMinutes: dto.TotalBreakMinutes,
		Note:              dto.Note,
	}
	if dto.ClockOut != nil {
		clockOut, err := time.Parse(time.RFC3339, *dto.ClockOut)
		if err != nil {
			return TimeEntry{}, err
		}
		entry.ClockOut = &clockOut
	}
	return entry, nil
}

func dtoToBreak(dto BreakDTO) (Break, error) {
	startTime, err := time.Parse(time.RFC3339, dto.StartTime)
	if err != nil {
		return Break{}, err
	}
	b := Break{
		Id:              dto.Id,
		Type:            BreakType(dto.Type),
		StartTime:       startTime,
		DurationMinutes: dto.DurationMinutes,
		Note:            dto.Note,
	}
	if dto.EndTime != nil {
		endTime, err := time.Parse(time.RFC3339, *dto.EndTime)
		if err != nil {
			return Break{}, err
		}
		b.EndTime = &endTime
	}
	return b, nil
}
