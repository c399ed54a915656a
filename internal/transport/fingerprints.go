package transport

import (
	"net/http"

	"github.com/FoodWeb-ROA/ROACook-sub000/internal/fingerprint"
)

// fingerprintsHandler exposes preparation fingerprinting as a JSON endpoint.
type fingerprintsHandler struct{}

type fingerprintEntry struct {
	Name         string `json:"name"`
	Amount       string `json:"amount"`
	UnitID       string `json:"unit_id,omitempty"`
	IngredientID string `json:"ingredient_id,omitempty"`
}

type fingerprintRequest struct {
	Components   []fingerprintEntry `json:"components"`
	Instructions []string           `json:"instructions,omitempty"`
}

type fingerprintResponse struct {
	Fingerprint string `json:"fingerprint"`
	Digest      string `json:"digest"`
}

func (h *fingerprintsHandler) compute(w http.ResponseWriter, r *http.Request) {
	var req fingerprintRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, err)
		return
	}
	if len(req.Components) == 0 {
		WriteValidationError(w, "components must not be empty")
		return
	}

	entries := make([]fingerprint.Entry, len(req.Components))
	for i, c := range req.Components {
		entries[i] = fingerprint.Entry{
			Name:         c.Name,
			Amount:       c.Amount,
			UnitID:       c.UnitID,
			IngredientID: c.IngredientID,
		}
	}

	fp := fingerprint.Fingerprint(entries, req.Instructions)
	WriteJSON(w, http.StatusOK, fingerprintResponse{
		Fingerprint: fp,
		Digest:      fingerprint.Digest(fp),
	})
}
