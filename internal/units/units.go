// Package units classifies measurement units by physical kind and converts
// amounts between units of the same kind via fixed factors to a base unit
// (grams for weight, millilitres for volume).
package units

import (
	"strings"

	"github.com/FoodWeb-ROA/ROACook-sub000/model"
)

// weightFactors maps unit names to grams. Plural and spelled-out variants map
// to the same factor.
var weightFactors = map[string]float64{
	"g":         1,
	"gram":      1,
	"grams":     1,
	"kg":        1000,
	"kilogram":  1000,
	"kilograms": 1000,
	"oz":        28.3495,
	"ounce":     28.3495,
	"ounces":    28.3495,
	"lb":        453.592,
	"lbs":       453.592,
	"pound":     453.592,
	"pounds":    453.592,
}

// volumeFactors maps unit names to millilitres.
var volumeFactors = map[string]float64{
	"ml":           1,
	"milliliter":   1,
	"milliliters":  1,
	"millilitre":   1,
	"millilitres":  1,
	"l":            1000,
	"liter":        1000,
	"liters":       1000,
	"litre":        1000,
	"litres":       1000,
	"tsp":          4.92892,
	"teaspoon":     4.92892,
	"teaspoons":    4.92892,
	"tbsp":         14.7868,
	"tablespoon":   14.7868,
	"tablespoons":  14.7868,
	"cup":          236.588,
	"cups":         236.588,
	"pt":           473.176,
	"pint":         473.176,
	"pints":        473.176,
	"qt":           946.353,
	"quart":        946.353,
	"quarts":       946.353,
	"gal":          3785.41,
	"gallon":       3785.41,
	"gallons":      3785.41,
	"fl oz":        29.5735,
	"fluid ounce":  29.5735,
	"fluid ounces": 29.5735,
}

// Classify returns the unit's declared measure kind verbatim, or KindUnknown
// if the unit is absent or carries no kind. Kind is authoritative reference
// data; no inference from the name or abbreviation is performed.
func Classify(u *model.Unit) model.MeasureKind {
	if u == nil {
		return model.KindUnknown
	}
	switch u.Kind {
	case model.KindWeight, model.KindVolume, model.KindCount:
		return u.Kind
	}
	return model.KindUnknown
}

// Convert converts amount from one named unit to another. Unit names are
// matched case-insensitively against the weight and volume factor tables.
// Conversion is advisory, never destructive: if either name is unknown, or
// the names belong to different kinds, the amount is returned unchanged.
// Count units have no factor table and are never converted.
func Convert(amount float64, fromName, toName string) float64 {
	from := normalizeName(fromName)
	to := normalizeName(toName)

	if f, ok := weightFactors[from]; ok {
		if t, ok := weightFactors[to]; ok {
			return amount * f / t
		}
		return amount
	}
	if f, ok := volumeFactors[from]; ok {
		if t, ok := volumeFactors[to]; ok {
			return amount * f / t
		}
	}
	return amount
}

// Convertible reports whether two unit names resolve to the same factor
// table.
func Convertible(fromName, toName string) bool {
	from := normalizeName(fromName)
	to := normalizeName(toName)

	if _, ok := weightFactors[from]; ok {
		_, ok = weightFactors[to]
		return ok
	}
	if _, ok := volumeFactors[from]; ok {
		_, ok = volumeFactors[to]
		return ok
	}
	return false
}

// KindForName returns the measure kind a free-text unit name falls under
// according to the factor tables, or KindUnknown. This is a table lookup for
// conversion purposes only; catalog units carry their kind as reference data
// (see Classify).
func KindForName(name string) model.MeasureKind {
	n := normalizeName(name)
	if _, ok := weightFactors[n]; ok {
		return model.KindWeight
	}
	if _, ok := volumeFactors[n]; ok {
		return model.KindVolume
	}
	return model.KindUnknown
}

func normalizeName(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(strings.TrimSpace(name))), " ")
}
