package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"transportsystem/avganger/internal/constants"
	"transportsystem/avganger/internal/models/dtos"
	"transportsystem/avganger/internal/models/entities"
	"transportsystem/avganger/internal/services"

	"github.com/go-chi/chi/v5"
)

func sessionRouter(h *Handlers) http.Handler {
	r := chi.NewRouter()
	r.Post("/sessions", h.CreateSession())
	r.Route("/sessions/{sessionID}", func(s chi.Router) {
		s.Get("/", h.GetSession())
		s.Delete("/", h.CloseSession())
		s.Post("/submit", h.SubmitForm())
		s.Post("/edit/{id}", h.EditDeparture())
		s.Post("/cancel", h.CancelEdit())
		s.Post("/sort/{key}", h.ToggleSort())
		s.Get("/departures", h.SessionDepartures())
		s.Delete("/departures/{id}", h.DeleteDeparture())
		s.Post("/clear", h.ClearDepartures())
	})
	return r
}

func serve(router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func openSession(t *testing.T, router http.Handler) string {
	t.Helper()
	rr := serve(router, "POST", "/sessions", nil)
	if rr.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d", rr.Code)
	}
	env := decodeEnvelope[SessionResponse](t, rr)
	if env.Data.SessionID == "" {
		t.Fatal("Expected a session id")
	}
	if env.Data.Form.State != services.FormIdle {
		t.Errorf("Expected idle form, got %s", env.Data.Form.State)
	}
	return env.Data.SessionID
}

func submitRequest(unit string) dtos.SubmitDepartureRequest {
	return dtos.SubmitDepartureRequest{
		UnitNumber:  unit,
		Destination: "MOLDE",
		Time:        "08:15",
		Gate:        "4",
		Type:        constants.TypeTrain,
		Status:      constants.StatusPlanned,
	}
}

func TestSessions_SubmitRegistersDeparture(t *testing.T) {
	deps := newTestDeps(t)
	router := sessionRouter(NewHandlers(deps))
	id := openSession(t, router)

	rr := serve(router, "POST", "/sessions/"+id+"/submit", submitRequest("ab12"))
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}

	env := decodeEnvelope[entities.Departure](t, rr)
	if env.Data.UnitNumber != "AB12" {
		t.Errorf("Expected unit number AB12, got %s", env.Data.UnitNumber)
	}
	if len(env.Signals) != 1 || env.Signals[0].Kind != constants.SignalSuccess || env.Signals[0].Message != constants.MsgRegistered {
		t.Errorf("Expected the registered signal, got %+v", env.Signals)
	}
	if n := len(deps.Repo.Departures.Current()); n != 1 {
		t.Errorf("Expected 1 departure, got %d", n)
	}
}

func TestSessions_SubmitDuplicateIsConflict(t *testing.T) {
	deps := newTestDeps(t, departure(1, "AB12", "MOLDE", "10:00"))
	router := sessionRouter(NewHandlers(deps))
	id := openSession(t, router)

	rr := serve(router, "POST", "/sessions/"+id+"/submit", submitRequest("ab12"))
	if rr.Code != http.StatusConflict {
		t.Fatalf("Expected status 409, got %d", rr.Code)
	}

	env := decodeEnvelope[any](t, rr)
	want := fmt.Sprintf(constants.MsgDuplicateFormat, "AB12")
	if env.Message != want {
		t.Errorf("Expected message %q, got %q", want, env.Message)
	}
	if len(env.Signals) != 1 || env.Signals[0].Kind != constants.SignalInfo {
		t.Errorf("Expected one info signal, got %+v", env.Signals)
	}
	if n := len(deps.Repo.Departures.Current()); n != 1 {
		t.Errorf("Expected no write, got %d departures", n)
	}
}

func TestSessions_SubmitMissingFieldIsBadRequest(t *testing.T) {
	deps := newTestDeps(t)
	router := sessionRouter(NewHandlers(deps))
	id := openSession(t, router)

	req := submitRequest("AB12")
	req.Gate = ""
	rr := serve(router, "POST", "/sessions/"+id+"/submit", req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("Expected status 400, got %d", rr.Code)
	}
	if n := len(deps.Repo.Departures.Current()); n != 0 {
		t.Errorf("Expected no write, got %d departures", n)
	}
}

func TestSessions_EditThenSubmitUpdates(t *testing.T) {
	deps := newTestDeps(t, departure(1, "AB12", "MOLDE", "10:00"))
	router := sessionRouter(NewHandlers(deps))
	id := openSession(t, router)

	rr := serve(router, "POST", "/sessions/"+id+"/edit/1", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rr.Code)
	}
	view := decodeEnvelope[services.FormView](t, rr).Data
	if view.State != services.FormEditing || view.EditingID == nil || *view.EditingID != 1 {
		t.Fatalf("Expected editing id 1, got %+v", view)
	}
	if view.Form.UnitNumber != "AB12" {
		t.Errorf("Expected the form filled from the record, got %+v", view.Form)
	}

	update := submitRequest("AB12")
	update.Destination = "HAUGESUND"
	rr = serve(router, "POST", "/sessions/"+id+"/submit", update)
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}
	env := decodeEnvelope[entities.Departure](t, rr)
	if len(env.Signals) != 1 || env.Signals[0].Kind != constants.SignalEdit {
		t.Errorf("Expected one edit signal, got %+v", env.Signals)
	}

	current := deps.Repo.Departures.Current()
	if len(current) != 1 || current[0].ID != 1 || current[0].Destination != "HAUGESUND" {
		t.Errorf("Expected record 1 updated in place, got %+v", current)
	}
}

func TestSessions_DeleteNeedsConfirmation(t *testing.T) {
	deps := newTestDeps(t, departure(1, "AB12", "MOLDE", "10:00"))
	router := sessionRouter(NewHandlers(deps))
	id := openSession(t, router)

	rr := serve(router, "DELETE", "/sessions/"+id+"/departures/1", nil)
	if rr.Code != http.StatusPreconditionRequired {
		t.Fatalf("Expected status 428, got %d", rr.Code)
	}
	if env := decodeEnvelope[any](t, rr); env.Message != constants.PromptDelete {
		t.Errorf("Expected prompt %q, got %q", constants.PromptDelete, env.Message)
	}
	if n := len(deps.Repo.Departures.Current()); n != 1 {
		t.Fatalf("Expected the record to survive, got %d departures", n)
	}

	rr = serve(router, "DELETE", "/sessions/"+id+"/departures/1?confirm=true", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rr.Code)
	}
	env := decodeEnvelope[SessionResponse](t, rr)
	if len(env.Signals) != 1 || env.Signals[0].Kind != constants.SignalDelete {
		t.Errorf("Expected one delete signal, got %+v", env.Signals)
	}
	if n := len(deps.Repo.Departures.Current()); n != 0 {
		t.Errorf("Expected the record deleted, got %d departures", n)
	}
}

func TestSessions_DeleteUnknownIsNotFound(t *testing.T) {
	deps := newTestDeps(t, departure(1, "AB12", "MOLDE", "10:00"))
	router := sessionRouter(NewHandlers(deps))
	id := openSession(t, router)

	rr := serve(router, "DELETE", "/sessions/"+id+"/departures/2?confirm=true", nil)
	if rr.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", rr.Code)
	}
}

func TestSessions_ClearAll(t *testing.T) {
	deps := newTestDeps(t,
		departure(1, "AB12", "MOLDE", "10:00"),
		departure(2, "CD34", "FØRDE", "11:00"),
	)
	router := sessionRouter(NewHandlers(deps))
	id := openSession(t, router)

	rr := serve(router, "POST", "/sessions/"+id+"/clear", nil)
	if rr.Code != http.StatusPreconditionRequired {
		t.Fatalf("Expected status 428, got %d", rr.Code)
	}
	if env := decodeEnvelope[any](t, rr); env.Message != constants.PromptClearAll {
		t.Errorf("Expected prompt %q, got %q", constants.PromptClearAll, env.Message)
	}

	rr = serve(router, "POST", "/sessions/"+id+"/clear?confirm=true", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rr.Code)
	}
	if n := len(deps.Repo.Departures.Current()); n != 0 {
		t.Errorf("Expected an empty collection, got %d departures", n)
	}
}

func TestSessions_ToggleSortAndList(t *testing.T) {
	deps := newTestDeps(t,
		departure(1, "B", "MOLDE", "10:00"),
		departure(2, "A", "FØRDE", "11:00"),
	)
	router := sessionRouter(NewHandlers(deps))
	id := openSession(t, router)

	rr := serve(router, "POST", "/sessions/"+id+"/sort/unitNumber", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rr.Code)
	}
	sort := decodeEnvelope[services.SortState](t, rr).Data
	if sort.Key != constants.SortUnitNumber || !sort.Ascending {
		t.Errorf("Expected ascending unitNumber, got %+v", sort)
	}

	rr = serve(router, "GET", "/sessions/"+id+"/departures", nil)
	list := decodeEnvelope[dtos.DepartureListResponse](t, rr).Data
	if len(list.Departures) != 2 || list.Departures[0].UnitNumber != "A" {
		t.Errorf("Expected A first, got %+v", list.Departures)
	}

	rr = serve(router, "POST", "/sessions/"+id+"/sort/unitNumber", nil)
	sort = decodeEnvelope[services.SortState](t, rr).Data
	if sort.Ascending {
		t.Error("Expected the second toggle to sort descending")
	}

	rr = serve(router, "POST", "/sessions/"+id+"/sort/weight", nil)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400 for an unknown key, got %d", rr.Code)
	}
}

func TestSessions_UnknownSession(t *testing.T) {
	router := sessionRouter(NewHandlers(newTestDeps(t)))

	rr := serve(router, "GET", "/sessions/does-not-exist/", nil)
	if rr.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", rr.Code)
	}
}

func TestSessions_CloseSession(t *testing.T) {
	router := sessionRouter(NewHandlers(newTestDeps(t)))
	id := openSession(t, router)

	if rr := serve(router, "DELETE", "/sessions/"+id+"/", nil); rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rr.Code)
	}
	if rr := serve(router, "GET", "/sessions/"+id+"/", nil); rr.Code != http.StatusNotFound {
		t.Errorf("Expected status 404 after close, got %d", rr.Code)
	}
}
