package routes

import (
	"github.com/go-chi/chi/v5"
	"github.com/sentra-ids/sentra/internal/auth"
	"github.com/sentra-ids/sentra/internal/handlers"
	"github.com/sentra-ids/sentra/internal/middleware"
)

// RegisterRoutes registers all application routes
func RegisterRoutes(
	router chi.Router,
	loginHandler *handlers.LoginHandler,
	adminHandler *handlers.AdminHandler,
	reportsHandler *handlers.ReportsHandler,
	tokenManager *auth.TokenManager,
) {
	rateLimitConfig := middleware.DefaultLoginRateLimit()

	// Public scoring endpoint
	router.With(middleware.RateLimitByIP(rateLimitConfig)).Post("/login", loginHandler.Login)

	// Operator surface - token required
	router.Route("/api", func(r chi.Router) {
		r.Use(auth.RequireOperator(tokenManager))

		r.Route("/admin", func(r chi.Router) {
			r.Post("/unblock/{address}", adminHandler.Unblock)
			r.Post("/unblock-all", adminHandler.UnblockAll)
			r.Get("/blocked", adminHandler.Blocked)
			r.Post("/simulate", adminHandler.Simulate)
			r.Delete("/records", adminHandler.ClearRecords)
		})

		r.Route("/reports", func(r chi.Router) {
			r.Get("/attempts/{address}", reportsHandler.Attempts)
			r.Get("/events/{kind}", reportsHandler.Events)
		})
	})
}
