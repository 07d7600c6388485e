package tenant

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/frahmantamala/identity-access/internal"
	"github.com/frahmantamala/identity-access/internal/transport"
	"github.com/go-chi/chi"
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

func (h *Handler) tenantID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

func (h *Handler) GetPolicy(w http.ResponseWriter, r *http.Request) {
	id, err := h.tenantID(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid tenant id")
		return
	}

	p, err := h.Service.GetPolicy(r.Context(), id)
	if err != nil {
		if errors.Is(err, internal.ErrTenantNotFound) {
			h.WriteError(w, http.StatusNotFound, "tenant not found")
			return
		}
		h.Logger.Error("failed to get password policy", "error", err, "tenant_id", id)
		h.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.WriteJSON(w, http.StatusOK, p)
}

func (h *Handler) UpdatePolicy(w http.ResponseWriter, r *http.Request) {
	id, err := h.tenantID(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid tenant id")
		return
	}

	var dto UpdatePolicyDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	p, err := h.Service.UpdatePolicy(r.Context(), id, dto)
	if err != nil {
		if _, ok := err.(ValidationError); ok {
			h.WriteError(w, http.StatusBadRequest, err.Error())
			return
		}
		if errors.Is(err, internal.ErrTenantNotFound) {
			h.WriteError(w, http.StatusNotFound, "tenant not found")
			return
		}
		h.Logger.Error("failed to update password policy", "error", err, "tenant_id", id)
		h.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.WriteJSON(w, http.StatusOK, p)
}
