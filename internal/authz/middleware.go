package authz

import (
	"log/slog"
	"net/http"

	"github.com/frahmantamala/identity-access/internal/auth"
)

// RequireAction guards a route behind a single (option, action) grant. The
// auth middleware must run first so the user is on the context.
func RequireAction(engine EngineAPI, optionID int64, action Action) func(http.Handler) http.Handler {
	return requireCheck(optionID, func(r *http.Request, userID string) (bool, error) {
		return engine.HasPermission(r.Context(), userID, optionID, action)
	})
}

// RequireReadAccess guards list/view routes: any of the five flags on the
// option is enough.
func RequireReadAccess(engine EngineAPI, optionID int64) func(http.Handler) http.Handler {
	return requireCheck(optionID, func(r *http.Request, userID string) (bool, error) {
		return engine.HasAnyReadAccess(r.Context(), userID, optionID)
	})
}

func requireCheck(optionID int64, check func(r *http.Request, userID string) (bool, error)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := auth.UserFromContext(r.Context())
			if !ok || user == nil {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			allowed, err := check(r, user.ID)
			if err != nil {
				slog.Error("permission check failed",
					"error", err,
					"user_id", user.ID,
					"option_id", optionID)
				http.Error(w, "Internal server error", http.StatusInternalServerError)
				return
			}

			if !allowed {
				slog.Warn("access denied",
					"user_id", user.ID,
					"role_id", user.RoleID,
					"option_id", optionID)
				http.Error(w, "Forbidden: insufficient permissions", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
