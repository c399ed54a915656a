package scaling

import (
	"math"
	"testing"
)

func TestRecipeScale(t *testing.T) {
	cases := []struct {
		name   string
		target float64
		base   float64
		want   float64
	}{
		{"double", 8, 4, 2},
		{"half", 2, 4, 0.5},
		{"same", 4, 4, 1},
		{"zero base", 6, 0, 1},
		{"negative base", 6, -2, 1},
		{"nan base", 6, math.NaN(), 1},
	}

	for _, tc := range cases {
		if got := RecipeScale(tc.target, tc.base); got != tc.want {
			t.Errorf("%s: RecipeScale(%v, %v) = %v, want %v", tc.name, tc.target, tc.base, got, tc.want)
		}
	}
}

func TestDisplayAmount(t *testing.T) {
	if got := DisplayAmount(10, 2, 1); got != 20 {
		t.Errorf("DisplayAmount(10, 2, 1) = %v, want 20", got)
	}
	if got := DisplayAmount(10, 2, 0.5); got != 10 {
		t.Errorf("DisplayAmount(10, 2, 0.5) = %v, want 10", got)
	}

	// Unset prep scale behaves like 1.
	if got := DisplayAmount(10, 3, 0); got != 30 {
		t.Errorf("DisplayAmount(10, 3, 0) = %v, want 30", got)
	}
}

func TestBaseAmountFromEdit_InvertsDisplay(t *testing.T) {
	// Base 10 at scale 2 displays as 20; editing the display to 20 must
	// recompute base 10, not 20.
	if got := BaseAmountFromEdit(20, 2, 1); got != 10 {
		t.Errorf("BaseAmountFromEdit(20, 2, 1) = %v, want 10", got)
	}

	if got := BaseAmountFromEdit(15, 2, 1.5); got != 5 {
		t.Errorf("BaseAmountFromEdit(15, 2, 1.5) = %v, want 5", got)
	}
}

func TestBaseAmountFromEdit_ZeroScaleGuard(t *testing.T) {
	if got := BaseAmountFromEdit(20, 0, 1); got != 20 {
		t.Errorf("zero scale: got %v, want raw value 20", got)
	}
	if got := BaseAmountFromEdit(20, math.NaN(), 1); got != 20 {
		t.Errorf("NaN scale: got %v, want raw value 20", got)
	}
}

func TestRebaseEdit_Renormalizes(t *testing.T) {
	// 1.5 typed against a kg display at scale 2 stores as 750 g.
	got := RebaseEdit(1.5, "kg", 2, 1)
	if got.Amount != 750 || got.UnitAbbr != "g" {
		t.Errorf("RebaseEdit = %+v, want {750 g}", got)
	}

	// Base-unit displays pass through the normalizer unchanged.
	got = RebaseEdit(20, "g", 2, 1)
	if got.Amount != 10 || got.UnitAbbr != "g" {
		t.Errorf("RebaseEdit = %+v, want {10 g}", got)
	}
}
