package rest

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/team-management/internal/auth"
	"github.com/frahmantamala/team-management/internal/profile"
	"github.com/frahmantamala/team-management/internal/provisioning"
	"github.com/frahmantamala/team-management/internal/transport/middleware"
	"github.com/frahmantamala/team-management/internal/transport/swagger"
	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"
)

// RouterConfig carries the credentials the route guards need.
type RouterConfig struct {
	JWTSecret      string
	ServiceRoleKey string
}

func RegisterAllRoutes(router *chi.Mux, db *sql.DB, cfg RouterConfig, authHandler *auth.Handler, profileHandler *profile.Handler, webhookHandler *provisioning.WebhookHandler, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db)

	// Apply global middleware
	router.Use(middleware.CORS)
	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.RecoveryMiddleware(logger))

	// Serve OpenAPI spec at root (outside API prefix)
	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	// Swagger UI route at root
	router.Handle("/swagger/*", swagger.Handler())

	// Session handoff after email confirmation; the fragment is processed
	// client-side, this endpoint only redirects.
	if authHandler != nil {
		router.Get("/auth/callback", authHandler.Callback)
	}

	// Server-triggered provisioning, called by the auth provider with the
	// service role credential.
	if webhookHandler != nil {
		router.Group(func(r chi.Router) {
			r.Use(middleware.RequireServiceRole(cfg.ServiceRoleKey, logger))
			r.Post("/api/auth/signup-webhook", webhookHandler.HandleSignupWebhook)
		})
	}

	router.Route("/api/v1", func(r chi.Router) {
		// Health check route
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		// Client-triggered signup path
		if authHandler != nil {
			r.Post("/auth/signup", authHandler.Signup)
		}

		// Dashboard read views require a provider-issued session token
		if profileHandler != nil {
			r.Group(func(pr chi.Router) {
				pr.Use(middleware.Auth(cfg.JWTSecret, logger))

				pr.Route("/profiles", func(ppr chi.Router) {
					ppr.Get("/me", profileHandler.GetOwnProfile)
					ppr.Get("/team", profileHandler.GetTeamMembers)
					ppr.Get("/external", profileHandler.GetExternalMembers)
				})
			})
		}
	})
}
