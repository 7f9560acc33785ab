package dtos

import (
	"time"

	"transportsystem/avganger/internal/models/entities"
)

// APIResponse is the envelope of every JSON response.
type APIResponse struct {
	Status       string            `json:"status"`
	Message      string            `json:"message"`
	ResponseTime string            `json:"response_time"`
	Data         any               `json:"data,omitempty"`
	Signals      []entities.Signal `json:"signals,omitempty"`
}

// DepartureListResponse is one rendering of the departures table.
type DepartureListResponse struct {
	Departures  []entities.Departure `json:"departures"`
	Count       int                  `json:"count"`
	Total       int                  `json:"total"`
	SortKey     string               `json:"sortKey,omitempty"`
	Ascending   bool                 `json:"ascending"`
	Search      string               `json:"search,omitempty"`
	Destination string               `json:"destination,omitempty"`
	LastSync    *time.Time           `json:"lastSync,omitempty"`
}

// WriteJournalResponse lists recent full-collection writes.
type WriteJournalResponse struct {
	Backend string                       `json:"backend"`
	Writes  []entities.WriteJournalEntry `json:"writes"`
}
