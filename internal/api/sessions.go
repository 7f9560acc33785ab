package api

import (
	"encoding/json"
	"net/http"
	"time"

	"transportsystem/avganger/internal/common"
	"transportsystem/avganger/internal/constants"
	"transportsystem/avganger/internal/models/dtos"
	"transportsystem/avganger/internal/services"

	"github.com/go-chi/chi/v5"
)

// SessionResponse is the state of one form session.
type SessionResponse struct {
	SessionID string             `json:"sessionId"`
	Form      services.FormView  `json:"form"`
	Sort      services.SortState `json:"sort"`
}

func sessionResponse(s *services.FormSession) SessionResponse {
	return SessionResponse{
		SessionID: s.ID,
		Form:      s.Form.State(),
		Sort:      s.Sort(),
	}
}

// CreateSession handles POST /api/v1/sessions
func (h *Handlers) CreateSession() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		session := h.deps.Services.Sessions.Create()
		common.RespondSuccess(w, initTime, "Form session created", sessionResponse(session), http.StatusCreated)
	}
}

// GetSession handles GET /api/v1/sessions/{sessionID}
func (h *Handlers) GetSession() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		session, ok := h.loadSession(w, r, initTime)
		if !ok {
			return
		}
		common.RespondSuccessWithSignals(w, initTime, "Form session fetched", sessionResponse(session), session.Signals.Drain())
	}
}

// CloseSession handles DELETE /api/v1/sessions/{sessionID}
func (h *Handlers) CloseSession() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		h.deps.Services.Sessions.Close(chi.URLParam(r, "sessionID"))
		common.RespondSuccess(w, initTime, "Form session closed", nil)
	}
}

// SubmitForm handles POST /api/v1/sessions/{sessionID}/submit
func (h *Handlers) SubmitForm() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		session, ok := h.loadSession(w, r, initTime)
		if !ok {
			return
		}

		var req dtos.SubmitDepartureRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			common.RespondError(w, initTime, err, "Ugyldig forespørsel", http.StatusBadRequest)
			return
		}

		saved, err := session.Form.Submit(r.Context(), services.DepartureForm(req))
		if err != nil {
			handleDepartureError(w, initTime, err, session.Signals.Drain())
			return
		}

		common.RespondSuccessWithSignals(w, initTime, "Departure saved", saved, session.Signals.Drain())
	}
}

// EditDeparture handles POST /api/v1/sessions/{sessionID}/edit/{id}
func (h *Handlers) EditDeparture() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		session, ok := h.loadSession(w, r, initTime)
		if !ok {
			return
		}

		id, err := departureIDParam(r)
		if err != nil {
			handleDepartureError(w, initTime, err, nil)
			return
		}

		view, err := session.Form.Edit(id)
		if err != nil {
			handleDepartureError(w, initTime, err, session.Signals.Drain())
			return
		}
		common.RespondSuccessWithSignals(w, initTime, "Editing departure", view, session.Signals.Drain())
	}
}

// CancelEdit handles POST /api/v1/sessions/{sessionID}/cancel
func (h *Handlers) CancelEdit() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		session, ok := h.loadSession(w, r, initTime)
		if !ok {
			return
		}
		common.RespondSuccessWithSignals(w, initTime, "Form reset", session.Form.Cancel(), session.Signals.Drain())
	}
}

// ToggleSort handles POST /api/v1/sessions/{sessionID}/sort/{key}
func (h *Handlers) ToggleSort() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		session, ok := h.loadSession(w, r, initTime)
		if !ok {
			return
		}

		sort, err := session.ToggleSort(chi.URLParam(r, "key"))
		if err != nil {
			handleDepartureError(w, initTime, err, session.Signals.Drain())
			return
		}
		common.RespondSuccessWithSignals(w, initTime, "Sort updated", sort, session.Signals.Drain())
	}
}

// SessionDepartures handles GET /api/v1/sessions/{sessionID}/departures
func (h *Handlers) SessionDepartures() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		session, ok := h.loadSession(w, r, initTime)
		if !ok {
			return
		}

		search, destination, err := tableFilter(r)
		if err != nil {
			handleDepartureError(w, initTime, err, nil)
			return
		}

		list := departureList(h.deps.Repo.Departures.Snapshot(), session.Sort(), search, destination)
		common.RespondSuccessWithSignals(w, initTime, "Departures fetched", list, session.Signals.Drain())
	}
}

// DeleteDeparture handles DELETE /api/v1/sessions/{sessionID}/departures/{id}
func (h *Handlers) DeleteDeparture() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		session, ok := h.loadSession(w, r, initTime)
		if !ok {
			return
		}

		id, err := departureIDParam(r)
		if err != nil {
			handleDepartureError(w, initTime, err, nil)
			return
		}

		if err := session.Form.Delete(r.Context(), id, confirmParam(r)); err != nil {
			if services.IsCode(err, constants.ErrCodeNotConfirmed) {
				// the client asks the user and retries with confirm=true
				common.RespondErrorWithSignals(w, initTime, err, constants.PromptDelete, session.Signals.Drain(), http.StatusPreconditionRequired)
				return
			}
			handleDepartureError(w, initTime, err, session.Signals.Drain())
			return
		}
		common.RespondSuccessWithSignals(w, initTime, "Departure deleted", sessionResponse(session), session.Signals.Drain())
	}
}

// ClearDepartures handles POST /api/v1/sessions/{sessionID}/clear
func (h *Handlers) ClearDepartures() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		session, ok := h.loadSession(w, r, initTime)
		if !ok {
			return
		}

		if err := session.Form.ClearAll(r.Context(), confirmParam(r)); err != nil {
			if services.IsCode(err, constants.ErrCodeNotConfirmed) {
				common.RespondErrorWithSignals(w, initTime, err, constants.PromptClearAll, session.Signals.Drain(), http.StatusPreconditionRequired)
				return
			}
			handleDepartureError(w, initTime, err, session.Signals.Drain())
			return
		}
		common.RespondSuccessWithSignals(w, initTime, "Departures cleared", sessionResponse(session), session.Signals.Drain())
	}
}
