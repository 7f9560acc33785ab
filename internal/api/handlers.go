package api

import (
	"net/http"
	"strconv"
	"time"

	"transportsystem/avganger/internal/services"

	"github.com/go-chi/chi/v5"
)

// Handlers groups the session-scoped endpoints that need the full dependency set.
type Handlers struct {
	deps *Dependencies
}

// NewHandlers creates a new handlers instance with injected dependencies
func NewHandlers(deps *Dependencies) *Handlers {
	return &Handlers{
		deps: deps,
	}
}

// loadSession resolves {sessionID}, writing the error response when missing.
func (h *Handlers) loadSession(w http.ResponseWriter, r *http.Request, initTime time.Time) (*services.FormSession, bool) {
	session, err := h.deps.Services.Sessions.Get(chi.URLParam(r, "sessionID"))
	if err != nil {
		handleDepartureError(w, initTime, err, nil)
		return nil, false
	}
	return session, true
}

// confirmParam turns ?confirm=true into an up-front answer.
func confirmParam(r *http.Request) services.Confirmer {
	ok, _ := strconv.ParseBool(r.URL.Query().Get("confirm"))
	return services.Confirmed(ok)
}
