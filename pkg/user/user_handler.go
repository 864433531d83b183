package user

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/punchcard/punchcard/internal/rest"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

type UserDTO struct {
	Uid         string      `json:"uid"`
	Username    string      `json:"username"`
	DisplayName string      `json:"displayName"`
	Settings    SettingsDTO `json:"settings"`
}

type SettingsDTO struct {
	HourlyRate         string   `json:"hourlyRate"`
	OvertimeMultiplier float64  `json:"overtimeMultiplier"`
	RoundingMinutes    int      `json:"roundingMinutes"`
	PayPeriodType      string   `json:"payPeriodType"`
	PayPeriodEndDay    int      `json:"payPeriodEndDay"`
	PaycheckAdjustment string   `json:"paycheckAdjustment"`
	StateCode          string   `json:"stateCode,omitempty"`
	StateTaxRate       *float64 `json:"stateTaxRate,omitempty"`
}

type Handler struct {
	userService Service
}

func NewHandler(userService Service) *Handler {
	return &Handler{
		userService: userService,
	}
}

// CreateUser godoc
// @Summary Create a new user
// @Description Register a new user with pay settings (defaults applied for omitted fields)
// @Tags User
// @Accept json
// @Produce json
// @Param user body UserDTO true "User"
// @Success 201 {object} UserDTO
// @Failure 400 {object} rest.ErrorResponse "Invalid request"
// @Router /api/user [post]
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	log.Debug("Creating user")

	var dto UserDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body format", "")
		return
	}
	log.Tracef("Creating new user: %+v", dto)

	if len(dto.Username) == 0 {
		rest.WriteError(w, http.StatusBadRequest, "Username is required", "")
		return
	}

	user, err := dtoToUser(dto)
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid user data", err.Error())
		return
	}

	createdUser, err := h.userService.CreateUser(r.Context(), user)
	if err != nil {
		if errors.Is(err, ErrUserDataInvalid) {
			rest.WriteError(w, http.StatusBadRequest, "Invalid user data", err.Error())
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(userToDTO(createdUser)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) CurrentUser(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	user, err := h.userService.GetCurrentUser(r.Context())
	if err != nil {
		if errors.Is(err, ErrNoUser) || errors.Is(err, ErrUserNotFound) {
			rest.WriteError(w, http.StatusNotFound, "User not found", "")
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if err := json.NewEncoder(w).Encode(userToDTO(user)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// UpdateUser replaces the current user's profile and pay settings.
func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var dto UserDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body format", "")
		return
	}

	user, err := dtoToUser(dto)
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid user data", err.Error())
		return
	}

	updatedUser, err := h.userService.UpdateUser(r.Context(), user)
	if err != nil {
		if errors.Is(err, ErrUserDataInvalid) {
			rest.WriteError(w, http.StatusBadRequest, "Invalid user data", err.Error())
			return
		}
		if errors.Is(err, ErrUserNotFound) {
			rest.WriteError(w, http.StatusNotFound, "User not found", "")
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if err := json.NewEncoder(w).Encode(userToDTO(updatedUser)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) GetAvailableUsers(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	users, err := h.userService.GetAllUsers(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	dtos := make([]UserDTO, 0, len(users))
	for _, u := range users {
		dtos = append(dtos, userToDTO(u))
	}
	if err := json.NewEncoder(w).Encode(dtos); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	uid := mux.Vars(r)["userUid"]

	if err := h.userService.DeleteUser(r.Context(), uid); err != nil {
		if errors.Is(err, ErrUserNotFound) {
			rest.WriteError(w, http.StatusNotFound, "User not found", "")
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func userToDTO(user User) UserDTO {
	return UserDTO{
		Uid:         user.Uid,
		Username:    user.Username,
		DisplayName: user.DisplayName,
		Settings: SettingsDTO{
			HourlyRate:         user.Settings.HourlyRate.String(),
			OvertimeMultiplier: user.Settings.OvertimeMultiplier,
			RoundingMinutes:    user.Settings.RoundingMinutes,
			PayPeriodType:      string(user.Settings.PayPeriodType),
			PayPeriodEndDay:    user.Settings.PayPeriodEndDay,
			PaycheckAdjustment: user.Settings.PaycheckAdjustment.String(),
			StateCode:          user.Settings.StateCode,
			StateTaxRate:       user.Settings.StateTaxRate,
		},
	}
}

func dtoToUser(dto UserDTO) (User, error) {
	settings := PaySettings{
		OvertimeMultiplier: dto.Settings.OvertimeMultiplier,
		RoundingMinutes:    dto.Settings.RoundingMinutes,
		PayPeriodType:      PayPeriodType(dto.Settings.PayPeriodType),
		PayPeriodEndDay:    dto.Settings.PayPeriodEndDay,
		StateCode:          dto.Settings.StateCode,
		StateTaxRate:       dto.Settings.StateTaxRate,
	}

	var err error
	settings.HourlyRate = decimal.Zero
	if dto.Settings.HourlyRate != "" {
		if settings.HourlyRate, err = decimal.NewFromString(dto.Settings.HourlyRate); err != nil {
			return User{}, err
		}
	}
	settings.PaycheckAdjustment = decimal.Zero
	if dto.Settings.PaycheckAdjustment != "" {
		if settings.PaycheckAdjustment, err = decimal.NewFromString(dto.Settings.PaycheckAdjustment); err != nil {
			return User{}, err
		}
	}

	return User{
		Uid:         dto.Uid,
		Username:    dto.Username,
		DisplayName: dto.DisplayName,
		Settings:    settings,
	}, nil
}
