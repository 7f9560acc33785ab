package services

import (
	"slices"
	"strings"

	"transportsystem/avganger/internal/constants"
	"transportsystem/avganger/internal/models/entities"

	"golang.org/x/text/cases"
)

// DepartureQuery selects and orders the visible rows of the table.
type DepartureQuery struct {
	Search      string
	Destination string // constants.DestinationAll matches every destination
	SortKey     string // "" keeps collection order
	Ascending   bool
}

// Visible returns the records matching q, sorted by q.SortKey. The search
// term is matched as given, spaces included. The sort is stable, so equal
// keys keep their collection order in both directions.
func Visible(records []entities.Departure, q DepartureQuery) []entities.Departure {
	fold := cases.Fold()
	term := fold.String(q.Search)

	out := make([]entities.Departure, 0, len(records))
	for _, d := range records {
		if term != "" &&
			!strings.Contains(fold.String(d.UnitNumber), term) &&
			!strings.Contains(fold.String(d.Destination), term) {
			continue
		}
		if q.Destination != constants.DestinationAll && d.Destination != q.Destination {
			continue
		}
		out = append(out, d)
	}

	if q.SortKey == "" {
		return out
	}

	slices.SortStableFunc(out, func(a, b entities.Departure) int {
		c := strings.Compare(sortValue(a, q.SortKey), sortValue(b, q.SortKey))
		if !q.Ascending {
			return -c
		}
		return c
	})
	return out
}

// sortValue compares times as HHMM; zero-padded clock times then sort
// chronologically.
func sortValue(d entities.Departure, key string) string {
	v := d.Field(key)
	if key == constants.SortTime {
		v = strings.Replace(v, ":", "", 1)
	}
	return v
}

// SortState is the column sort of one table view.
type SortState struct {
	Key       string `json:"key"`
	Ascending bool   `json:"ascending"`
}

// Toggle selects key. Selecting the current key flips the direction; a new
// key starts ascending.
func (s *SortState) Toggle(key string) {
	if s.Key == key {
		s.Ascending = !s.Ascending
		return
	}
	s.Key = key
	s.Ascending = true
}

// Query builds a DepartureQuery with this sort.
func (s SortState) Query(search, destination string) DepartureQuery {
	return DepartureQuery{
		Search:      search,
		Destination: destination,
		SortKey:     s.Key,
		Ascending:   s.Ascending,
	}
}
