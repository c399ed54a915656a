// Package quantity rewrites raw amounts into readable display form and back.
// The display direction picks the most readable unit within a measure kind
// (1500 g shows as 1.5 kg); the storage direction normalizes a typed value in
// a display unit back to base-unit terms.
package quantity

import (
	"math"
	"strconv"
	"strings"

	"github.com/FoodWeb-ROA/ROACook-sub000/model"
)

// epsilon guards the scale thresholds against float-boundary flapping.
const epsilon = 1e-9

// DisplayQuantity is a formatted amount/unit pair ready for rendering.
type DisplayQuantity struct {
	Amount string `json:"amount"`
	Unit   string `json:"unit"`
}

// BaseQuantity is a numeric amount in its canonical (smallest-practical)
// unit.
type BaseQuantity struct {
	Amount   float64 `json:"amount"`
	UnitAbbr string  `json:"unit_abbr"`
}

// scaleRule describes one upward display threshold: amounts of smallAbbr at
// or above the threshold display in largeAbbr instead. The inverse (below 1
// in largeAbbr) scales back down. Thresholds do not overlap, so at most one
// rule fires per call.
type scaleRule struct {
	smallAbbr string
	largeAbbr string
	threshold float64
}

var scaleRules = []scaleRule{
	{smallAbbr: "g", largeAbbr: "kg", threshold: 1000},
	{smallAbbr: "ml", largeAbbr: "l", threshold: 1000},
	{smallAbbr: "oz", largeAbbr: "lb", threshold: 16},
}

// normalizeRules covers the storage direction, including the fl oz/gal pair
// which displays through its own field but still stores in fluid ounces.
var normalizeRules = map[string]struct {
	baseAbbr string
	factor   float64
}{
	"kg":  {baseAbbr: "g", factor: 1000},
	"l":   {baseAbbr: "ml", factor: 1000},
	"lb":  {baseAbbr: "oz", factor: 16},
	"gal": {baseAbbr: "fl oz", factor: 128},
}

// AutoScaleForDisplay formats an amount for rendering. A nil amount renders
// as "N/A" with the item label (if any) as the unit. For the count
// pseudo-unit with an item label, the label is pluralized and substituted for
// the unit string ("3 x" displays as "3 cloves"). Otherwise the amount is
// rewritten into the larger unit at its threshold (g≥1000→kg, ml≥1000→l,
// oz≥16→lb) or back down below 1 of a large unit. The numeric result is
// always formatted with exactly one decimal place.
func AutoScaleForDisplay(amount *float64, unitAbbr string, item string) DisplayQuantity {
	if amount == nil {
		return DisplayQuantity{Amount: "N/A", Unit: item}
	}

	v := *amount
	abbr := strings.TrimSpace(unitAbbr)

	if abbr == model.CountUnitAbbr && item != "" {
		return DisplayQuantity{Amount: formatAmount(v), Unit: Pluralize(item, v)}
	}

	for _, r := range scaleRules {
		switch abbr {
		case r.smallAbbr:
			if v > r.threshold-epsilon {
				return DisplayQuantity{Amount: formatAmount(v / r.threshold), Unit: r.largeAbbr}
			}
		case r.largeAbbr:
			if v < 1-epsilon {
				return DisplayQuantity{Amount: formatAmount(v * r.threshold), Unit: r.smallAbbr}
			}
		}
	}

	return DisplayQuantity{Amount: formatAmount(v), Unit: abbr}
}

// NormalizeToBaseUnit is the storage-direction inverse of
// AutoScaleForDisplay: a typed value in a large display unit (kg, l, lb, gal)
// is rewritten to its base unit so the caller can look up the matching unit
// identity and update amount and unit atomically. Base and unknown
// abbreviations pass through unchanged.
func NormalizeToBaseUnit(amount float64, unitAbbr string) BaseQuantity {
	abbr := strings.TrimSpace(unitAbbr)
	if r, ok := normalizeRules[strings.ToLower(abbr)]; ok {
		return BaseQuantity{Amount: amount * r.factor, UnitAbbr: r.baseAbbr}
	}
	return BaseQuantity{Amount: amount, UnitAbbr: abbr}
}

// Pluralize returns the item label adjusted for the quantity: "s" appended,
// "es" when the label ends in "ss", unchanged when the quantity is exactly 1
// or the label already ends in "s".
func Pluralize(item string, quantity float64) string {
	if quantity == 1 || item == "" {
		return item
	}
	if strings.HasSuffix(item, "ss") {
		return item + "es"
	}
	if strings.HasSuffix(item, "s") {
		return item
	}
	return item + "s"
}

// ParseAmount parses a string-typed amount. Unparseable text yields NaN,
// which downstream arithmetic propagates as "no computed value".
func ParseAmount(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

// formatAmount renders with fixed one-decimal rounding; no further
// trailing-zero suppression is performed.
func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}
