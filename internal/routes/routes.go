package routes

import (
	"github.com/BradenHooton/dashboard/internal/handlers"
	"github.com/BradenHooton/dashboard/internal/middleware"
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes mounts the dashboard API under /api and the health probe at /health
func RegisterRoutes(
	router chi.Router,
	directoryHandler *handlers.DirectoryHandler,
	reportHandler *handlers.ReportHandler,
	chatHandler *handlers.ChatHandler,
	healthHandler *handlers.HealthHandler,
	rateLimitConfig middleware.RateLimitConfig,
) {
	// Health probe stays outside the rate limit
	router.Get("/health", healthHandler.Check)

	router.Route("/api", func(r chi.Router) {
		r.Use(middleware.RateLimitByIP(rateLimitConfig))

		directoryHandler.RegisterRoutes(r)
		reportHandler.RegisterRoutes(r)
		chatHandler.RegisterRoutes(r)
	})
}
