package routes

import (
	"transportsystem/avganger/internal/api"
	"transportsystem/avganger/internal/middleware"

	"github.com/go-chi/chi/v5"
)

// RegisterAPIRoutes registers all API v1 routes and handlers
func RegisterAPIRoutes(r chi.Router, handlers *api.Handlers, deps *api.Dependencies, limiter *middleware.RateLimiter) {
	repo := deps.Repo.Departures
	transfer := deps.Services.ImportExport

	r.Route("/api/v1", func(v1 chi.Router) {
		// Read-only table views
		v1.Get("/departures", api.ListDeparturesHandler(repo))
		v1.Get("/departures/stats", api.DepartureStatsHandler(repo))
		v1.Get("/departures/{id}", api.GetDepartureHandler(repo))

		// Exports
		v1.Get("/export/csv", api.ExportCSVHandler(transfer))
		v1.Get("/export/json", api.ExportJSONHandler(transfer))
		v1.Get("/export/xlsx", api.ExportXLSXHandler(transfer))

		v1.Get("/admin/writes", handlers.WriteJournal)

		// Everything that can write to the store is rate limited
		v1.Group(func(writes chi.Router) {
			writes.Use(limiter.Middleware)

			writes.Post("/import", api.ImportHandler(transfer, deps.Metrics))

			writes.Post("/sessions", handlers.CreateSession())
			writes.Route("/sessions/{sessionID}", func(s chi.Router) {
				s.Get("/", handlers.GetSession())
				s.Delete("/", handlers.CloseSession())
				s.Post("/submit", handlers.SubmitForm())
				s.Post("/edit/{id}", handlers.EditDeparture())
				s.Post("/cancel", handlers.CancelEdit())
				s.Post("/sort/{key}", handlers.ToggleSort())
				s.Get("/departures", handlers.SessionDepartures())
				s.Delete("/departures/{id}", handlers.DeleteDeparture())
				s.Post("/clear", handlers.ClearDepartures())
			})
		})
	})
}
