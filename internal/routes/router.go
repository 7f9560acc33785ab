package routes

import (
	"net/http"

	"transportsystem/avganger/internal/api"
	"transportsystem/avganger/internal/config"
	"transportsystem/avganger/internal/logging"
	"transportsystem/avganger/internal/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

func RegisterRoutes(deps *api.Dependencies, cfg *config.Config) http.Handler {

	// initialize Chi router
	r := chi.NewRouter()

	// global middleware
	r.Use(middleware.RequestIDMiddleware)
	r.Use(middleware.MetricsMiddleware(deps.Metrics))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"Content-Disposition", "X-Request-ID", "X-Signal-Kind", "X-Signal-Message"},
		AllowCredentials: false,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	}))

	logging.Info("Router initialized with metrics and logging middleware", "backend", deps.Store.Name())

	// health check
	r.Get("/healthCheck", api.HealthCheckHandler(deps))

	// live snapshot stream and print view
	r.Get("/ws", api.StreamHandler(deps.Repo.Departures, deps.Metrics))
	r.Get("/print", api.PrintHandler(deps.Repo.Departures))

	handlers := api.NewHandlers(deps)
	limiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)

	RegisterAPIRoutes(r, handlers, deps, limiter)

	return r
}
