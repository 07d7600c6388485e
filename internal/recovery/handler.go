package recovery

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi"

	"github.com/frahmantamala/identity-access/internal"
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

func (h *Handler) GetChallenge(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	if userID == "" {
		h.WriteError(w, http.StatusBadRequest, "user id is required")
		return
	}

	challenge, err := h.Service.GetChallenge(r.Context(), userID)
	if err != nil {
		if errors.Is(err, internal.ErrAccountNotFound) {
			h.WriteError(w, http.StatusNotFound, "user not found")
			return
		}
		h.Logger.Error("failed to load recovery challenge", "error", err, "user_id", userID)
		h.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.WriteJSON(w, http.StatusOK, challenge)
}

func (h *Handler) ValidateAndReset(w http.ResponseWriter, r *http.Request) {
	var dto ResetDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.Service.ValidateAndReset(r.Context(), dto); err != nil {
		switch {
		case isValidationError(err):
			h.WriteError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, internal.ErrAccountNotFound):
			h.WriteError(w, http.StatusNotFound, "user not found")
		case errors.Is(err, internal.ErrAnswerMismatch):
			h.WriteError(w, http.StatusUnauthorized, "security answer does not match")
		default:
			if appErr, ok := internal.IsAppError(err); ok {
				status, body := appErr.ToHTTPResponse()
				h.WriteJSON(w, status, body)
				return
			}
			h.Logger.Error("password reset failed", "error", err)
			h.WriteError(w, http.StatusInternalServerError, "internal server error")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func isValidationError(err error) bool {
	_, ok := err.(ValidationError)
	return ok
}
