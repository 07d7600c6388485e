package rest

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"
	"github.com/redis/go-redis/v9"

	"github.com/frahmantamala/identity-access/internal/audit"
	"github.com/frahmantamala/identity-access/internal/auth"
	"github.com/frahmantamala/identity-access/internal/authz"
	"github.com/frahmantamala/identity-access/internal/identity"
	"github.com/frahmantamala/identity-access/internal/recovery"
	"github.com/frahmantamala/identity-access/internal/tenant"
	"github.com/frahmantamala/identity-access/internal/transport/middleware"
	"github.com/frahmantamala/identity-access/internal/transport/swagger"
)

func RegisterAllRoutes(
	router *chi.Mux,
	db *sql.DB,
	redisClient redis.UniversalClient,
	authHandler *auth.Handler,
	recoveryHandler *recovery.Handler,
	authzHandler *authz.Handler,
	engine authz.EngineAPI,
	identityHandler *identity.Handler,
	tenantHandler *tenant.Handler,
	auditHandler *audit.Handler,
	logger *slog.Logger,
) {
	healthHandler := NewHealthHandler(db, redisClient)

	// Apply global middleware
	router.Use(middleware.CORS)
	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.RequestID)
	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.LoggingMiddleware(logger))

	// Serve OpenAPI spec at root (outside API prefix)
	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	// Swagger UI route at root
	router.Handle("/swagger/*", swagger.Handler())

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		// Login and recovery stay public: both serve users who cannot
		// present a session.
		if authHandler != nil {
			r.Post("/auth/login", authHandler.Login)
		}
		if recoveryHandler != nil {
			r.Route("/recovery", func(sr chi.Router) {
				sr.Get("/{userID}/question", recoveryHandler.GetChallenge)
				sr.Post("/reset", recoveryHandler.ValidateAndReset)
			})
		}

		if authHandler != nil {
			// Protected routes that require authentication
			r.Group(func(pr chi.Router) {
				pr.Use(authHandler.AuthMiddleware)

				pr.Post("/auth/change-password", authHandler.ChangePassword)

				if authzHandler != nil {
					pr.Post("/access/check", authzHandler.Check)

					pr.Group(func(gr chi.Router) {
						gr.Use(authz.RequireAction(engine, authz.OptionRoleGrants, authz.ActionUpdate))
						gr.Put("/access/grants", authzHandler.UpsertGrant)
					})
				}

				if identityHandler != nil {
					pr.Route("/users", func(ur chi.Router) {
						ur.Group(func(cr chi.Router) {
							cr.Use(authz.RequireAction(engine, authz.OptionUsers, authz.ActionCreate))
							cr.Post("/", identityHandler.CreateUser)
						})

						ur.Group(func(rr chi.Router) {
							rr.Use(authz.RequireReadAccess(engine, authz.OptionUsers))
							rr.Get("/{userID}", identityHandler.GetUser)
							if auditHandler != nil {
								rr.Get("/{userID}/access-logs", auditHandler.ListByUser)
							}
						})

						ur.Group(func(sr chi.Router) {
							sr.Use(authz.RequireAction(engine, authz.OptionUsers, authz.ActionUpdate))
							sr.Patch("/{userID}/status", identityHandler.SetStatus)
						})
					})
				}

				if tenantHandler != nil {
					pr.Route("/tenants/{id}/policy", func(tr chi.Router) {
						tr.Group(func(rr chi.Router) {
							rr.Use(authz.RequireReadAccess(engine, authz.OptionTenants))
							rr.Get("/", tenantHandler.GetPolicy)
						})
						tr.Group(func(ur chi.Router) {
							ur.Use(authz.RequireAction(engine, authz.OptionTenants, authz.ActionUpdate))
							ur.Put("/", tenantHandler.UpdatePolicy)
						})
					})
				}
			})
		}
	})
}
