package transport

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/FoodWeb-ROA/ROACook-sub000/internal/observability"
	"github.com/FoodWeb-ROA/ROACook-sub000/model"
)

// unitsHandler serves the measurement-unit listing from the catalog.
type unitsHandler struct {
	catalog model.CatalogStore
	logger  *zap.Logger
	metrics *observability.Metrics
}

type unitsResponse struct {
	Units []model.Unit `json:"units"`
}

func (h *unitsHandler) list(w http.ResponseWriter, r *http.Request) {
	units, err := h.catalog.ListUnits(r.Context())
	if h.metrics != nil {
		outcome := "ok"
		if err != nil {
			outcome = "error"
		}
		h.metrics.RecordCatalogLookup("list_units", outcome)
	}
	if err != nil {
		observability.RequestLogger(r.Context(), h.logger).Error("listing units failed",
			zap.Error(err))
		WriteError(w, model.NewInternalError())
		return
	}
	if units == nil {
		units = []model.Unit{}
	}
	WriteJSON(w, http.StatusOK, unitsResponse{Units: units})
}
