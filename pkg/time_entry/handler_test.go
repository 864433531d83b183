package time_entry

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/punchcard/punchcard/internal/event_bus"
	"github.com/punchcard/punchcard/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupHandlerTest() *Handler {
	service := NewService(NewStubRepository(), event_bus.NewEventBus())
	service.clock = &utils.MockClock{FixedNow: time.Date(2024, time.March, 13, 8, 3, 0, 0, time.UTC)}
	return NewHandler(service)
}

func TestHandler_ClockIn(t *testing.T) {
	t.Run("should create an entry with a rounded start time", func(t *testing.T) {
		handler := setupHandlerTest()

		req := httptest.NewRequest(http.MethodPost, "/api/clock/in", nil)
		w := httptest.NewRecorder()

		handler.ClockIn(w, req.WithContext(ctx))

		require.Equal(t, http.StatusCreated, w.Code)
		var dto EntryDTO
		require.NoError(t, json.NewDecoder(w.Body).Decode(&dto))
		assert.Equal(t, "2024-03-13T08:05:00Z", dto.ClockIn)
		assert.Nil(t, dto.ClockOut)
	})

	t.Run("should respond with conflict when already clocked in", func(t *testing.T) {
		handler := setupHandlerTest()

		first := httptest.NewRecorder()
		handler.ClockIn(first, httptest.NewRequest(http.MethodPost, "/api/clock/in", nil).WithContext(ctx))
		require.Equal(t, http.StatusCreated, first.Code)

		second := httptest.NewRecorder()
		handler.ClockIn(second, httptest.NewRequest(http.MethodPost, "/api/clock/in", nil).WithContext(ctx))

		assert.Equal(t, http.StatusConflict, second.Code)
	})

	t.Run("should accept an explicit time in the body", func(t *testing.T) {
		handler := setupHandlerTest()

		body, _ := json.Marshal(clockRequest{Time: ptr("2024-03-13T07:58:00Z")})
		req := httptest.NewRequest(http.MethodPost, "/api/clock/in", bytes.NewBuffer(body))
		w := httptest.NewRecorder()

		handler.ClockIn(w, req.WithContext(ctx))

		require.Equal(t, http.StatusCreated, w.Code)
		var dto EntryDTO
		require.NoError(t, json.NewDecoder(w.Body).Decode(&dto))
		assert.Equal(t, "2024-03-13T08:00:00Z", dto.ClockIn)
	})

	t.Run("should reject a malformed time", func(t *testing.T) {
		handler := setupHandlerTest()

		body, _ := json.Marshal(clockRequest{Time: ptr("yesterday")})
		req := httptest.NewRequest(http.MethodPost, "/api/clock/in", bytes.NewBuffer(body))
		w := httptest.NewRecorder()

		handler.ClockIn(w, req.WithContext(ctx))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestHandler_ClockOut(t *testing.T) {
	t.Run("should respond with conflict when not clocked in", func(t *testing.T) {
		handler := setupHandlerTest()

		req := httptest.NewRequest(http.MethodPost, "/api/clock/out", nil)
		w := httptest.NewRecorder()

		handler.ClockOut(w, req.WithContext(ctx))

		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("should reject an end time before the start", func(t *testing.T) {
		handler := setupHandlerTest()

		first := httptest.NewRecorder()
		handler.ClockIn(first, httptest.NewRequest(http.MethodPost, "/api/clock/in", nil).WithContext(ctx))
		require.Equal(t, http.StatusCreated, first.Code)

		body, _ := json.Marshal(clockRequest{Time: ptr("2024-03-13T06:00:00Z")})
		req := httptest.NewRequest(http.MethodPost, "/api/clock/out", bytes.NewBuffer(body))
		w := httptest.NewRecorder()

		handler.ClockOut(w, req.WithContext(ctx))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestHandler_GetStatus(t *testing.T) {
	handler := setupHandlerTest()

	t.Run("should report not clocked in initially", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/clock", nil)
		w := httptest.NewRecorder()

		handler.GetStatus(w, req.WithContext(ctx))

		require.Equal(t, http.StatusOK, w.Code)
		var dto ClockStatusDTO
		require.NoError(t, json.NewDecoder(w.Body).Decode(&dto))
		assert.False(t, dto.IsClockedIn)
		assert.Nil(t, dto.Entry)
	})

	t.Run("should expose the open entry after clocking in", func(t *testing.T) {
		first := httptest.NewRecorder()
		handler.ClockIn(first, httptest.NewRequest(http.MethodPost, "/api/clock/in", nil).WithContext(ctx))
		require.Equal(t, http.StatusCreated, first.Code)

		req := httptest.NewRequest(http.MethodGet, "/api/clock", nil)
		w := httptest.NewRecorder()

		handler.GetStatus(w, req.WithContext(ctx))

		require.Equal(t, http.StatusOK, w.Code)
		var dto ClockStatusDTO
		require.NoError(t, json.NewDecoder(w.Body).Decode(&dto))
		assert.True(t, dto.IsClockedIn)
		require.NotNil(t, dto.Entry)
	})
}

func TestHandler_ListEntries(t *testing.T) {
	t.Run("should reject a malformed from date", func(t *testing.T) {
		handler := setupHandlerTest()

		req := httptest.NewRequest(http.MethodGet, "/api/entry?from=invalid&to=2024-03-16T00:00:00Z", nil)
		w := httptest.NewRecorder()

		handler.ListEntries(w, req.WithContext(ctx))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func ptr(s string) *string {
	return &s
}
