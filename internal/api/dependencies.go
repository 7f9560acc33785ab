package api

import (
	"time"

	"transportsystem/avganger/internal/common"
	"transportsystem/avganger/internal/config"
	"transportsystem/avganger/internal/db/repositories"
	"transportsystem/avganger/internal/metrics"
	"transportsystem/avganger/internal/services"
	"transportsystem/avganger/internal/store"
)

type Repositories struct {
	Departures *services.DepartureRepository
	Journal    *repositories.WriteJournalRepo // nil unless the store is SQL-backed
}

type Services struct {
	Cache        common.SessionCache
	IDs          *services.IDMinter
	Sessions     *services.FormSessionService
	ImportExport *services.ImportExportService
}

type Dependencies struct {
	Store    store.RemoteStore
	Repo     *Repositories
	Services *Services
	Metrics  *metrics.MetricsRegistry
	UpSince  time.Time
}

// InitDependencies wires the services around a started departure repository.
func InitDependencies(cfg *config.Config, st store.RemoteStore, repo *services.DepartureRepository, journal *repositories.WriteJournalRepo, metricsReg *metrics.MetricsRegistry) *Dependencies {
	cacheSvc := common.NewCacheService(cfg.FormSessionTTL, cfg.FormSessionTTL/2)
	ids := services.NewIDMinter()

	return &Dependencies{
		Store: st,
		Repo: &Repositories{
			Departures: repo,
			Journal:    journal,
		},
		Services: &Services{
			Cache:        cacheSvc,
			IDs:          ids,
			Sessions:     services.NewFormSessionService(cacheSvc, repo, ids, metricsReg, cfg.FormSessionTTL),
			ImportExport: services.NewImportExportService(repo, metricsReg),
		},
		Metrics: metricsReg,
		UpSince: time.Now(),
	}
}
