package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"transportsystem/avganger/internal/models/entities"
	"transportsystem/avganger/internal/store"
)

// HealthCheckHandler handles GET /healthCheck
//
// Pings the departure store and, for SQL stores, the write journal.
func HealthCheckHandler(deps *Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		services := make(map[string]entities.ServiceStatus)

		storeStatus := "ok"
		storeDetails := "Store reachable"
		if err := deps.Store.Ping(ctx); err != nil {
			storeStatus = "down"
			storeDetails = err.Error()
		}
		var stored *int64
		if counter, ok := deps.Store.(store.RowCounter); ok && storeStatus == "ok" {
			if n, err := counter.StoredCount(ctx); err != nil {
				storeStatus = "down"
				storeDetails = err.Error()
			} else {
				stored = &n
			}
		}
		services["store_"+deps.Store.Name()] = entities.ServiceStatus{
			Status:  storeStatus,
			Details: storeDetails,
		}

		if journal := deps.Repo.Journal; journal != nil {
			journalStatus := "ok"
			journalDetails := "Write journal reachable"
			if err := journal.Ping(ctx); err != nil {
				journalStatus = "down"
				journalDetails = err.Error()
			}
			services["write_journal"] = entities.ServiceStatus{
				Status:  journalStatus,
				Details: journalDetails,
			}
		}

		overallStatus := "ok"
		for _, svc := range services {
			if svc.Status != "ok" {
				overallStatus = "down"
				break
			}
		}

		snap := deps.Repo.Departures.Snapshot()
		resp := entities.HealthCheckResponse{
			Services:   services,
			Status:     overallStatus,
			UpSince:    deps.UpSince,
			Uptime:     time.Since(deps.UpSince).Round(time.Second).String(),
			Departures: len(snap.Records),

			StoredDepartures: stored,
		}
		if !snap.LastSync.IsZero() {
			resp.LastSync = &snap.LastSync
		}

		code := http.StatusOK
		if overallStatus != "ok" {
			code = http.StatusServiceUnavailable
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		_ = json.NewEncoder(w).Encode(resp)
	}
}
