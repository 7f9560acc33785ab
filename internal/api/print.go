package api

import (
	"net/http"
	"time"

	"transportsystem/avganger/internal/logging"
	"transportsystem/avganger/internal/services"
)

// PrintHandler handles GET /print?q=&destination=&sort=&dir=
//
// Renders the filtered table as a printable page.
func PrintHandler(repo *services.DepartureRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		signals := services.NewSignalLog(nil)

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

		rows := services.Visible(repo.Current(), sort.Query(search, destination))
		page, err := services.RenderPrintView(rows, time.Now(), signals)
		if err != nil {
			handleDepartureError(w, initTime, err, signals.Drain())
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write(page); err != nil {
			logging.Warn("Failed to write print view", "error", err.Error())
		}
	}
}
