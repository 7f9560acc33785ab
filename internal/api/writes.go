package api

import (
	"net/http"
	"strconv"
	"time"

	"transportsystem/avganger/internal/common"
	"transportsystem/avganger/internal/models/dtos"
	"transportsystem/avganger/internal/models/entities"
)

// WriteJournal handles GET /api/v1/admin/writes?limit=
//
// Lists the most recent full-collection writes. Stores without a journal
// answer with an empty list.
func (h *Handlers) WriteJournal(w http.ResponseWriter, r *http.Request) {
	initTime := time.Now()

	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > 500 {
			common.RespondError(w, initTime, err, "limit må være mellom 1 og 500", http.StatusBadRequest)
			return
		}
		limit = n
	}

	resp := dtos.WriteJournalResponse{
		Backend: h.deps.Store.Name(),
		Writes:  []entities.WriteJournalEntry{},
	}

	if journal := h.deps.Repo.Journal; journal != nil {
		entries, err := journal.Recent(r.Context(), limit)
		if err != nil {
			common.RespondError(w, initTime, err, "Failed to read write journal", http.StatusInternalServerError)
			return
		}
		resp.Writes = entries
	}

	common.RespondSuccess(w, initTime, "Write journal fetched", resp)
}
