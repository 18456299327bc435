package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/gridwatch/gridwatch/internal/api/alerts"
	"github.com/gridwatch/gridwatch/internal/api/auth"
	"github.com/gridwatch/gridwatch/internal/api/middleware"
	"github.com/gridwatch/gridwatch/internal/api/syncapi"
	"github.com/gridwatch/gridwatch/internal/api/transformers"
)

// setupRouter creates and configures the chi router with all routes.
func (s *Server) setupRouter() *chi.Mux {
	r := chi.NewRouter()

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		JSONError(w, ErrNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		JSONError(w, &Error{
			Code:    ErrCodeBadRequest,
			Message: "method not allowed",
			Status:  http.StatusMethodNotAllowed,
		})
	})

	jwtService := auth.NewJWTService(s.config.JWTSecret, s.config.AccessTokenTTL)
	ipLimiter := middleware.NewRateLimiter(s.config.RateLimitPerIP)

	// Global middleware
	r.Use(middleware.RequestLogger(s.config.Verbose))
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.Recoverer)
	r.Use(middleware.PrometheusMiddleware)

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Auth routes (public, IP rate limited)
		r.Group(func(r chi.Router) {
			r.Use(middleware.RateLimitByIP(ipLimiter))
			authHandler := auth.NewHandler(s.storage, jwtService)
			r.Post("/auth/login", authHandler.Login)
		})

		// Resource routes (protected)
		r.Group(func(r chi.Router) {
			r.Use(middleware.JWTAuth(jwtService))

			transformerHandler := transformers.NewHandler(s.storage)
			r.Route("/transformers", func(r chi.Router) {
				r.Get("/", transformerHandler.List)
				r.Post("/", transformerHandler.Create)
				r.Get("/{id}", transformerHandler.GetByID)
			})

			alertHandler := alerts.NewHandler(s.storage)
			r.Route("/alerts", func(r chi.Router) {
				r.Get("/", alertHandler.List)
				r.Patch("/{id}/resolve", alertHandler.Resolve)
			})

			r.Get("/statistics", transformerHandler.Stats)

			syncHandler := syncapi.NewHandler(s.syncRunner)
			r.Post("/sync", syncHandler.Trigger)
		})
	})

	// Health checks (public, no rate limit)
	r.Get("/health", s.healthHandler.Health)
	r.Get("/health/ready", s.healthHandler.Ready)

	return r
}
