package api

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"transportsystem/avganger/internal/logging"
	"transportsystem/avganger/internal/metrics"
	"transportsystem/avganger/internal/models/entities"
	"transportsystem/avganger/internal/services"

	"golang.org/x/net/websocket"
)

const streamFrameUpdate = "update"

// streamFrame is pushed to websocket clients on connect and after every
// snapshot.
type streamFrame struct {
	Type     string               `json:"type"`
	Data     []entities.Departure `json:"data"`
	Stats    services.Statistics  `json:"stats"`
	LastSync *time.Time           `json:"lastSync,omitempty"`
}

func newStreamFrame(snap services.Snapshot) streamFrame {
	frame := streamFrame{
		Type:  streamFrameUpdate,
		Data:  recordsOrEmpty(snap.Records),
		Stats: services.Aggregate(snap.Records),
	}
	if !snap.LastSync.IsZero() {
		lastSync := snap.LastSync
		frame.LastSync = &lastSync
	}
	return frame
}

// StreamHandler handles GET /ws
//
// Sends the current collection, then every later snapshot. Clients that fall
// behind only get the newest one.
func StreamHandler(repo *services.DepartureRepository, metricsReg *metrics.MetricsRegistry) http.HandlerFunc {
	wsHandler := websocket.Handler(func(conn *websocket.Conn) {
		streamDepartures(conn, repo, metricsReg)
	})

	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.Header().Set("Allow", http.MethodGet)
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		wsHandler.ServeHTTP(w, r)
	}
}

func streamDepartures(conn *websocket.Conn, repo *services.DepartureRepository, metricsReg *metrics.MetricsRegistry) {
	defer func() {
		_ = conn.Close()
	}()

	metricsReg.StreamOpened()
	defer metricsReg.StreamClosed()

	updates := make(chan services.Snapshot, 1)
	cancel := repo.OnChange(func(snap services.Snapshot) {
		for {
			select {
			case updates <- snap:
				return
			default:
			}
			// drop the stale pending snapshot
			select {
			case <-updates:
			default:
			}
		}
	})
	defer cancel()

	encoder := json.NewEncoder(conn)
	if err := encoder.Encode(newStreamFrame(repo.Snapshot())); err != nil {
		logging.Debug("Websocket initial write failed", "error", err.Error())
		return
	}

	// Incoming frames are ignored; the read only notices the disconnect.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		_, _ = io.Copy(io.Discard, conn)
	}()

	for {
		select {
		case <-closed:
			return
		case snap := <-updates:
			if err := encoder.Encode(newStreamFrame(snap)); err != nil {
				logging.Debug("Websocket write failed", "error", err.Error())
				return
			}
		}
	}
}
