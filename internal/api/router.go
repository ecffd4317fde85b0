package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/nerrad567/authflow/internal/auth"
)

// buildRouter creates the HTTP router with all routes and middleware.
func (s *Server) buildRouter() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(s.requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoveryMiddleware)
	r.Use(s.corsMiddleware)
	r.Use(s.bodySizeLimitMiddleware)

	r.Route("/api", func(r chi.Router) {
		// Open endpoints
		r.Get("/health", s.handleHealth)
		r.Post("/auth/register", s.handleRegister)
		r.Post("/auth/login", s.handleLogin)
		r.Get("/protected/public", s.handlePublic)

		// Authenticated endpoints
		r.Group(func(r chi.Router) {
			r.Use(s.authenticate)

			r.Get("/auth/me", s.handleMe)
			r.Get("/protected/profile", s.handleProfile)

			// Admin-only endpoints; requireRole composes after authenticate
			r.Group(func(r chi.Router) {
				r.Use(s.requireRole(auth.RoleAdmin))

				r.Get("/protected/admin", s.handleAdmin)
				r.Get("/audit", s.handleAuditLogs)
			})
		})
	})

	return r
}

// handleHealth returns the server health status, pinging the backing
// store when a health checker is wired.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.health != nil {
		if err := s.health.HealthCheck(r.Context()); err != nil {
			s.logger.Error("health check failed", "error", err)
			writeFailure(w, http.StatusServiceUnavailable, CodeStoreUnavailable,
				"account store is unavailable, try again shortly")
			return
		}
	}

	writeSuccess(w, http.StatusOK, "ok", map[string]any{
		"version":   s.version,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
