package transport

import (
	"math"
	"net/http"
	"strings"

	"github.com/FoodWeb-ROA/ROACook-sub000/internal/observability"
	"github.com/FoodWeb-ROA/ROACook-sub000/internal/quantity"
	"github.com/FoodWeb-ROA/ROACook-sub000/internal/scaling"
	"github.com/FoodWeb-ROA/ROACook-sub000/internal/units"
	"github.com/FoodWeb-ROA/ROACook-sub000/model"
)

// quantitiesHandler exposes the display, normalize, convert, and rebase
// operations as JSON endpoints.
type quantitiesHandler struct {
	metrics *observability.Metrics
}

type displayRequest struct {
	Amount   *float64 `json:"amount"`
	UnitAbbr string   `json:"unit_abbr"`
	Item     string   `json:"item,omitempty"`
}

func (h *quantitiesHandler) display(w http.ResponseWriter, r *http.Request) {
	var req displayRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	out := quantity.AutoScaleForDisplay(req.Amount, req.UnitAbbr, req.Item)
	if h.metrics != nil {
		h.metrics.RecordDisplayScale(scaleDirection(req.UnitAbbr, out.Unit))
	}
	WriteJSON(w, http.StatusOK, out)
}

type normalizeRequest struct {
	Amount   float64 `json:"amount"`
	UnitAbbr string  `json:"unit_abbr"`
}

func (h *quantitiesHandler) normalize(w http.ResponseWriter, r *http.Request) {
	var req normalizeRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, err)
		return
	}
	if math.IsNaN(req.Amount) || math.IsInf(req.Amount, 0) {
		WriteValidationError(w, "amount must be a finite number")
		return
	}

	WriteJSON(w, http.StatusOK, quantity.NormalizeToBaseUnit(req.Amount, req.UnitAbbr))
}

type convertRequest struct {
	Amount   float64 `json:"amount"`
	FromUnit string  `json:"from_unit"`
	ToUnit   string  `json:"to_unit"`
}

type convertResponse struct {
	Amount float64 `json:"amount"`
	Unit   string  `json:"unit"`

	// Converted is false when the units share no conversion table and the
	// amount passed through unchanged.
	Converted bool `json:"converted"`
}

func (h *quantitiesHandler) convert(w http.ResponseWriter, r *http.Request) {
	var req convertRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, err)
		return
	}
	if req.FromUnit == "" || req.ToUnit == "" {
		WriteValidationError(w, "from_unit and to_unit are required")
		return
	}

	converted := units.Convertible(req.FromUnit, req.ToUnit)
	resp := convertResponse{
		Amount:    units.Convert(req.Amount, req.FromUnit, req.ToUnit),
		Unit:      req.ToUnit,
		Converted: converted,
	}
	if !converted {
		resp.Unit = req.FromUnit
	}

	if h.metrics != nil {
		h.metrics.RecordConversion(string(units.KindForName(req.FromUnit)))
	}
	WriteJSON(w, http.StatusOK, resp)
}

type rebaseRequest struct {
	EditedAmount    float64 `json:"edited_amount"`
	DisplayUnitAbbr string  `json:"display_unit_abbr"`
	RecipeScale     float64 `json:"recipe_scale"`
	PrepScale       float64 `json:"prep_scale,omitempty"`
}

// rebase converts an operator-edited display amount back to base-unit terms
// at scale factor 1.
func (h *quantitiesHandler) rebase(w http.ResponseWriter, r *http.Request) {
	var req rebaseRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, err)
		return
	}
	if math.IsNaN(req.EditedAmount) || math.IsInf(req.EditedAmount, 0) {
		WriteValidationError(w, "edited_amount must be a finite number")
		return
	}

	out := scaling.RebaseEdit(req.EditedAmount, req.DisplayUnitAbbr, req.RecipeScale, req.PrepScale)
	WriteJSON(w, http.StatusOK, out)
}

// scaleDirection classifies a display auto-scale by comparing the input and
// output unit strings. Item-label substitution for the count pseudo-unit is
// not a scale.
func scaleDirection(inUnit, outUnit string) string {
	if strings.EqualFold(inUnit, outUnit) || strings.EqualFold(inUnit, model.CountUnitAbbr) {
		return "none"
	}
	switch strings.ToLower(outUnit) {
	case "kg", "l", "lb":
		return "up"
	case "g", "ml", "oz":
		return "down"
	}
	return "none"
}
