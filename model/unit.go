// Package model defines the core types and interfaces of the resolution and
// normalization engine. All other packages depend on model; model depends on
// nothing outside the standard library.
package model

// MeasureKind is the physical dimension of a unit. Two units are convertible
// into each other only if both resolve to the same non-unknown kind.
type MeasureKind string

const (
	KindWeight  MeasureKind = "weight"
	KindVolume  MeasureKind = "volume"
	KindCount   MeasureKind = "count"
	KindUnknown MeasureKind = ""
)

// Unit is immutable reference data owned by the catalog; the engine only
// reads units, it never creates or mutates them.
type Unit struct {
	ID           string      `json:"unit_id"`
	Name         string      `json:"unit_name"`
	Abbreviation string      `json:"abbreviation"`
	Kind         MeasureKind `json:"measure_kind,omitempty"`
}

// CountUnitAbbr is the abbreviation of the count pseudo-unit. Amounts in this
// unit display with a pluralized item label ("3 cloves") instead of the
// abbreviation itself.
const CountUnitAbbr = "x"

// PreparationUnitName is the reserved pseudo-unit assigned to preparations
// used as components. A preparation-as-component's amount is tracked through
// the dish's scaling system, not as a literal unit quantity.
const PreparationUnitName = "preparation"
