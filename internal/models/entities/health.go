package entities

import "time"

type ServiceStatus struct {
	Status  string `json:"status"`
	Details string `json:"details"`
}

type HealthCheckResponse struct {
	Status     string                   `json:"status"`
	Services   map[string]ServiceStatus `json:"services"`
	UpSince    time.Time                `json:"up_since"`
	Uptime     string                   `json:"uptime"`
	Departures int                      `json:"departures"`
	LastSync   *time.Time               `json:"last_sync,omitempty"`

	// StoredDepartures is the row count of SQL stores
	StoredDepartures *int64 `json:"stored_departures,omitempty"`
}
