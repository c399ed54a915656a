// Package scaling derives displayed component amounts from stored base
// amounts and a serving multiplier, and recovers base amounts when the
// operator edits a displayed value directly.
package scaling

import (
	"math"

	"github.com/FoodWeb-ROA/ROACook-sub000/internal/quantity"
)

// RecipeScale returns the recipe-level scale factor target/base. A zero,
// negative or NaN base yields 1 so unknown serving counts never zero out
// amounts.
func RecipeScale(target, base float64) float64 {
	if base <= 0 || math.IsNaN(base) || math.IsNaN(target) {
		return 1
	}
	return target / base
}

// DisplayAmount computes a component's displayed amount from its stored base
// amount. prepScale is a secondary multiplier for components that are
// themselves preparations nested at a different internal scale; pass 1 (or 0,
// which is treated as 1) for plain ingredients.
func DisplayAmount(baseAmount, recipeScale, prepScale float64) float64 {
	return baseAmount * effectiveScale(recipeScale, prepScale)
}

// BaseAmountFromEdit recovers the stored base amount after the operator edits
// a displayed value. A zero, NaN or otherwise unusable combined scale leaves
// the typed value stored as-is rather than dividing by it.
func BaseAmountFromEdit(editedDisplayAmount, recipeScale, prepScale float64) float64 {
	scale := effectiveScale(recipeScale, prepScale)
	if scale == 0 || math.IsNaN(scale) || math.IsInf(scale, 0) {
		return editedDisplayAmount
	}
	return editedDisplayAmount / scale
}

// RebaseEdit recovers the base amount from an edited display value and then
// renormalizes it so the stored amount and unit stay in canonical form. The
// typical flow after an inline edit: the operator typed 1.5 against a "kg"
// display while the recipe is scaled 2x, and the component must end up storing
// 750 g.
func RebaseEdit(editedDisplayAmount float64, displayUnitAbbr string, recipeScale, prepScale float64) quantity.BaseQuantity {
	base := BaseAmountFromEdit(editedDisplayAmount, recipeScale, prepScale)
	return quantity.NormalizeToBaseUnit(base, displayUnitAbbr)
}

// effectiveScale combines the recipe and preparation multipliers. A zero or
// NaN prepScale means "not set" and contributes nothing.
func effectiveScale(recipeScale, prepScale float64) float64 {
	if prepScale == 0 || math.IsNaN(prepScale) {
		prepScale = 1
	}
	return recipeScale * prepScale
}
