package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/frahmantamala/identity-access/internal"
	"github.com/frahmantamala/identity-access/internal/transport"
)

type Handler struct {
	*transport.BaseHandler
	Service  ServiceAPI
	Sessions SessionValidator
}

func NewHandler(svc ServiceAPI, sessions SessionValidator) *Handler {
	return &Handler{
		BaseHandler: transport.NewBaseHandler(nil),
		Service:     svc,
		Sessions:    sessions,
	}
}

func clip(s string, max int) string {
	if len(s) > max {
		return s[:max]
	}
	return s
}

// clientIP walks the usual proxy headers before falling back to RemoteAddr.
func clientIP(r *http.Request) string {
	for _, h := range []string{"CF-Connecting-IP", "X-Forwarded-For", "X-Real-IP"} {
		if v := r.Header.Get(h); v != "" {
			ip := strings.TrimSpace(strings.Split(v, ",")[0])
			if ip == "::1" {
				return "127.0.0.1"
			}
			return ip
		}
	}
	addr := r.RemoteAddr
	if i := strings.LastIndex(addr, ":"); i > 0 {
		addr = addr[:i]
	}
	if addr == "::1" || addr == "[::1]" {
		return "127.0.0.1"
	}
	return addr
}

// fillDeviceMetadata completes whatever the client did not send from the
// request itself, clipping to the stored column widths.
func fillDeviceMetadata(dto *LoginDTO, r *http.Request) {
	if dto.IP == "" {
		dto.IP = clientIP(r)
	}
	dto.IP = clip(dto.IP, 50)

	if dto.UserAgent == "" {
		dto.UserAgent = r.UserAgent()
	}
	dto.UserAgent = clip(dto.UserAgent, 200)

	dto.OS = clip(dto.OS, 50)
	dto.Device = clip(dto.Device, 50)
	dto.Browser = clip(dto.Browser, 50)
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var dto LoginDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	fillDeviceMetadata(&dto, r)

	result, err := h.Service.Login(r.Context(), dto)
	if err != nil {
		if _, ok := err.(ValidationError); ok {
			h.WriteError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.Logger.Error("login failed with internal error", "error", err)
		h.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.WriteJSON(w, result.StatusCode, result)
}

func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok || user == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto ChangePasswordDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.Service.ChangePassword(r.Context(), user.ID, dto); err != nil {
		switch {
		case isValidationError(err):
			h.WriteError(w, http.StatusBadRequest, err.Error())
		case err == internal.ErrInvalidCredentials:
			h.WriteError(w, http.StatusUnauthorized, "current password is incorrect")
		default:
			if appErr, ok := internal.IsAppError(err); ok {
				status, body := appErr.ToHTTPResponse()
				h.WriteJSON(w, status, body)
				return
			}
			h.Logger.Error("password change failed", "error", err, "user_id", user.ID)
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

// AuthMiddleware validates the bearer session token and attaches the user to
// the request context.
func (h *Handler) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := h.ExtractTokenFromHeader(r)
		if token == "" {
			h.WriteError(w, http.StatusUnauthorized, "missing authorization token")
			return
		}

		claims, err := h.Sessions.Validate(token)
		if err != nil {
			h.Logger.Warn("session validation failed", "error", err)
			h.WriteError(w, http.StatusUnauthorized, "invalid session")
			return
		}

		user, err := h.Service.GetUser(r.Context(), claims.UserID)
		if err != nil {
			h.Logger.Error("failed to load session user", "error", err, "user_id", claims.UserID)
			h.WriteError(w, http.StatusUnauthorized, "user not found")
			return
		}

		ctx := context.WithValue(r.Context(), ContextUserKey, user)
		ctx = internal.ContextWithUserID(ctx, user.ID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
