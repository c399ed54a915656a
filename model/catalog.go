package model

import "context"

// IngredientMatch is a catalog row returned by substring name search.
// Ingredients and preparations share one identity namespace; IsPreparation
// distinguishes them.
type IngredientMatch struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	IsPreparation bool   `json:"is_preparation"`
}

// CatalogStore is the abstract catalog the engine resolves against. The
// engine never mutates the catalog; persisting resolved entities is the
// caller's responsibility once resolution completes.
//
// Lookup methods return the zero value with a nil error when nothing matches;
// a non-nil error means the store itself failed. Callers in this engine treat
// store failures as "no match" (fail-open, see the resolver).
type CatalogStore interface {
	// FindIngredientsByNameSubstring returns entries whose name contains
	// text, case-insensitively.
	FindIngredientsByNameSubstring(ctx context.Context, text string) ([]IngredientMatch, error)

	// FindIngredientByExactName returns the ID of the ingredient with the
	// given name (case-insensitive), or "" if none exists.
	FindIngredientByExactName(ctx context.Context, text string) (string, error)

	// FindPreparationByExactName returns the ID of the preparation with the
	// given name (case-insensitive), or "" if none exists. Preparations are
	// keyed through the shared ingredient-name namespace.
	FindPreparationByExactName(ctx context.Context, text string) (string, error)

	// FindPreparationByFingerprint returns the ID of the preparation with
	// the exact content fingerprint, or "" if none exists.
	FindPreparationByFingerprint(ctx context.Context, fingerprint string) (string, error)

	// FindDishByExactName returns the ID of the dish with the given name
	// (case-insensitive), or "" if none exists.
	FindDishByExactName(ctx context.Context, text string) (string, error)

	// ListUnits returns all measurement units.
	ListUnits(ctx context.Context) ([]Unit, error)
}
