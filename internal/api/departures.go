package api

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"transportsystem/avganger/internal/common"
	"transportsystem/avganger/internal/constants"
	"transportsystem/avganger/internal/models/dtos"
	"transportsystem/avganger/internal/models/entities"
	"transportsystem/avganger/internal/services"

	"github.com/go-chi/chi/v5"
)

// tableFilter reads ?q= and ?destination=.
func tableFilter(r *http.Request) (search, destination string, err error) {
	search = r.URL.Query().Get("q")
	destination = strings.TrimSpace(r.URL.Query().Get("destination"))
	if destination != constants.DestinationAll && !constants.IsDestination(destination) {
		return "", "", &services.DepartureError{
			Code:    constants.ErrCodeValidation,
			Message: constants.MsgBadDestination,
			Field:   "destination",
		}
	}
	return search, destination, nil
}

// tableSort reads ?sort= and ?dir=asc|desc. The direction defaults to ascending.
func tableSort(r *http.Request) (services.SortState, error) {
	key := r.URL.Query().Get("sort")
	if key == "" {
		return services.SortState{}, nil
	}
	if !constants.IsSortKey(key) {
		return services.SortState{}, &services.DepartureError{
			Code:    constants.ErrCodeValidation,
			Message: constants.MsgBadSortKey,
			Field:   "sort",
		}
	}
	return services.SortState{Key: key, Ascending: r.URL.Query().Get("dir") != "desc"}, nil
}

func departureList(snap services.Snapshot, sort services.SortState, search, destination string) dtos.DepartureListResponse {
	visible := services.Visible(snap.Records, sort.Query(search, destination))

	resp := dtos.DepartureListResponse{
		Departures:  visible,
		Count:       len(visible),
		Total:       len(snap.Records),
		SortKey:     sort.Key,
		Ascending:   sort.Ascending,
		Search:      search,
		Destination: destination,
	}
	if !snap.LastSync.IsZero() {
		lastSync := snap.LastSync
		resp.LastSync = &lastSync
	}
	return resp
}

// ListDeparturesHandler handles GET /api/v1/departures
func ListDeparturesHandler(repo *services.DepartureRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		search, destination, err := tableFilter(r)
		if err != nil {
			handleDepartureError(w, initTime, err, nil)
			return
		}
		sort, err := tableSort(r)
		if err != nil {
			handleDepartureError(w, initTime, err, nil)
			return
		}

		common.RespondSuccess(w, initTime, "Departures fetched", departureList(repo.Snapshot(), sort, search, destination))
	}
}

// DepartureStatsHandler handles GET /api/v1/departures/stats
func DepartureStatsHandler(repo *services.DepartureRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		common.RespondSuccess(w, initTime, "Statistics fetched", services.Aggregate(repo.Current()))
	}
}

// GetDepartureHandler handles GET /api/v1/departures/{id}
func GetDepartureHandler(repo *services.DepartureRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		id, err := departureIDParam(r)
		if err != nil {
			handleDepartureError(w, initTime, err, nil)
			return
		}

		for _, d := range repo.Current() {
			if d.ID == id {
				common.RespondSuccess(w, initTime, "Departure fetched", d)
				return
			}
		}
		handleDepartureError(w, initTime, &services.DepartureError{
			Code:    constants.ErrCodeDepartureNotFound,
			Message: constants.GetErrorMessage(constants.ErrCodeDepartureNotFound),
		}, nil)
	}
}

func departureIDParam(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, &services.DepartureError{
			Code:    constants.ErrCodeValidation,
			Message: "Ugyldig avgangs-id.",
			Field:   "id",
			Err:     err,
		}
	}
	return id, nil
}

// recordsOrEmpty keeps JSON arrays from rendering as null.
func recordsOrEmpty(records []entities.Departure) []entities.Departure {
	if records == nil {
		return []entities.Departure{}
	}
	return records
}
