package identity

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi"

	"github.com/frahmantamala/identity-access/internal"
	identityModel "github.com/frahmantamala/identity-access/internal/core/datamodel/identity"
	"github.com/frahmantamala/identity-access/internal/transport"
)

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(svc ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: transport.NewBaseHandler(nil),
		Service:     svc,
	}
}

// userView hides credential material from API responses.
type userView struct {
	ID               string               `json:"id"`
	TenantID         int64                `json:"tenant_id"`
	RoleID           int64                `json:"role_id"`
	FirstName        string               `json:"first_name"`
	LastName         string               `json:"last_name"`
	Email            string               `json:"email"`
	Phone            string               `json:"phone"`
	SecurityQuestion string               `json:"security_question"`
	Status           identityModel.Status `json:"status"`
	FailedAttempts   int                  `json:"failed_attempts"`
}

func toView(u *identityModel.User) userView {
	return userView{
		ID:               u.ID,
		TenantID:         u.TenantID,
		RoleID:           u.RoleID,
		FirstName:        u.FirstName,
		LastName:         u.LastName,
		Email:            u.Email,
		Phone:            u.Phone,
		SecurityQuestion: u.SecurityQuestion,
		Status:           u.Status,
		FailedAttempts:   u.FailedAttempts,
	}
}

func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var dto CreateUserDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.Service.CreateUser(r.Context(), dto)
	if err != nil {
		if appErr, ok := internal.IsAppError(err); ok {
			status, body := appErr.ToHTTPResponse()
			h.WriteJSON(w, status, body)
			return
		}
		h.Logger.Error("failed to create user", "error", err)
		h.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.WriteJSON(w, http.StatusCreated, toView(user))
}

func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	user, err := h.Service.GetUser(r.Context(), userID)
	if err != nil {
		if errors.Is(err, internal.ErrAccountNotFound) {
			h.WriteError(w, http.StatusNotFound, "user not found")
			return
		}
		h.Logger.Error("failed to load user", "error", err, "user_id", userID)
		h.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.WriteJSON(w, http.StatusOK, toView(user))
}

func (h *Handler) SetStatus(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	var dto StatusDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	status := identityModel.Status(dto.Status)
	switch status {
	case identityModel.StatusActive, identityModel.StatusLocked, identityModel.StatusInactive:
	default:
		h.WriteError(w, http.StatusBadRequest, "unknown status")
		return
	}

	if err := h.Service.SetStatus(r.Context(), userID, status); err != nil {
		if errors.Is(err, internal.ErrAccountNotFound) {
			h.WriteError(w, http.StatusNotFound, "user not found")
			return
		}
		h.Logger.Error("failed to change user status", "error", err, "user_id", userID)
		h.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
