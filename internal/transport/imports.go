package transport

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/FoodWeb-ROA/ROACook-sub000/internal/importer"
)

// importsHandler exposes the import-run lifecycle: start, inspect, answer a
// pending prompt, cancel.
type importsHandler struct {
	engine    *importer.Engine
	listLimit int
}

func (h *importsHandler) start(w http.ResponseWriter, r *http.Request) {
	var req importer.StartRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	// The header form of the idempotency key wins over the body field.
	if key := r.Header.Get("X-Idempotency-Key"); key != "" {
		req.IdempotencyKey = key
	}

	run, err := h.engine.Start(r.Context(), req)
	if err != nil {
		WriteError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, run)
}

func (h *importsHandler) get(w http.ResponseWriter, r *http.Request) {
	run, err := h.engine.Get(r.Context(), chi.URLParam(r, "runID"))
	if err != nil {
		WriteError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, run)
}

type listRunsResponse struct {
	Runs []importer.ImportRun `json:"runs"`
}

func (h *importsHandler) list(w http.ResponseWriter, r *http.Request) {
	runs, err := h.engine.List(r.Context(), h.listLimit)
	if err != nil {
		WriteError(w, err)
		return
	}
	if runs == nil {
		runs = []importer.ImportRun{}
	}
	WriteJSON(w, http.StatusOK, listRunsResponse{Runs: runs})
}

type choiceRequest struct {
	Choice string `json:"choice"`
}

func (h *importsHandler) choose(w http.ResponseWriter, r *http.Request) {
	var req choiceRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, err)
		return
	}
	if req.Choice == "" {
		WriteValidationError(w, "choice is required")
		return
	}

	runID := chi.URLParam(r, "runID")
	if err := h.engine.Choose(r.Context(), runID, req.Choice); err != nil {
		WriteError(w, err)
		return
	}

	run, err := h.engine.Get(r.Context(), runID)
	if err != nil {
		WriteError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, run)
}

func (h *importsHandler) cancel(w http.ResponseWriter, r *http.Request) {
	runID := chi.URLParam(r, "runID")
	if err := h.engine.Cancel(r.Context(), runID); err != nil {
		WriteError(w, err)
		return
	}

	run, err := h.engine.Get(r.Context(), runID)
	if err != nil {
		WriteError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, run)
}
