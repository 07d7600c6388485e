package audit

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi"

	"github.com/frahmantamala/identity-access/internal/transport"
)

type Handler struct {
	*transport.BaseHandler
	Repo RepositoryAPI
}

func NewHandler(repo RepositoryAPI) *Handler {
	return &Handler{
		BaseHandler: transport.NewBaseHandler(nil),
		Repo:        repo,
	}
}

// ListByUser returns the recent access-log entries for a user, newest first.
// Query params: days (default 30) and limit (default 100).
func (h *Handler) ListByUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	days := 30
	if v := r.URL.Query().Get("days"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed <= 0 {
			h.WriteError(w, http.StatusBadRequest, "days must be a positive integer")
			return
		}
		days = parsed
	}

	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed <= 0 {
			h.WriteError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	since := time.Now().AddDate(0, 0, -days)
	entries, err := h.Repo.ListByUser(r.Context(), userID, since, limit)
	if err != nil {
		h.Logger.Error("failed to list access logs", "error", err, "user_id", userID)
		h.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.WriteJSON(w, http.StatusOK, entries)
}
