package authz

import (
	"encoding/json"
	"net/http"

	"github.com/frahmantamala/identity-access/internal"
	accessModel "github.com/frahmantamala/identity-access/internal/core/datamodel/access"
	"github.com/frahmantamala/identity-access/internal/transport"
)

type Handler struct {
	*transport.BaseHandler
	Engine EngineAPI
}

func NewHandler(engine EngineAPI) *Handler {
	return &Handler{
		BaseHandler: transport.NewBaseHandler(nil),
		Engine:      engine,
	}
}

// Check answers whether a user may perform an action on an option. With no
// action in the body the check degrades to read access (any flag); with no
// user_id it defaults to the caller's own session.
func (h *Handler) Check(w http.ResponseWriter, r *http.Request) {
	var dto CheckDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if dto.UserID == "" {
		dto.UserID = internal.UserIDFromContext(r.Context())
	}
	if err := dto.Validate(); err != nil {
		h.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	var (
		allowed bool
		err     error
	)
	if dto.Action == "" {
		allowed, err = h.Engine.HasAnyReadAccess(r.Context(), dto.UserID, dto.OptionID)
	} else {
		action, _ := ParseAction(dto.Action)
		allowed, err = h.Engine.HasPermission(r.Context(), dto.UserID, dto.OptionID, action)
	}
	if err != nil {
		h.Logger.Error("permission check failed", "error", err, "user_id", dto.UserID, "option_id", dto.OptionID)
		h.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.WriteJSON(w, http.StatusOK, CheckResultDTO{Allowed: allowed})
}

// UpsertGrant replaces the five flags a role holds over an option.
func (h *Handler) UpsertGrant(w http.ResponseWriter, r *http.Request) {
	var dto GrantDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := dto.Validate(); err != nil {
		h.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	grant := accessModel.RolePermission{
		RoleID:    dto.RoleID,
		OptionID:  dto.OptionID,
		CanCreate: dto.CanCreate,
		CanDelete: dto.CanDelete,
		CanUpdate: dto.CanUpdate,
		CanPrint:  dto.CanPrint,
		CanExport: dto.CanExport,
	}
	if err := h.Engine.UpsertGrant(r.Context(), grant); err != nil {
		h.Logger.Error("failed to upsert grant", "error", err, "role_id", dto.RoleID, "option_id", dto.OptionID)
		h.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
