// Package fingerprint builds a reproducible, order-independent digest of a
// preparation's composition. The fingerprint is a content key: two
// preparations with the same multiset of (name, amount, unit) components and
// the same semantic instructions fingerprint identically regardless of entry
// order.
package fingerprint

import (
	"crypto/sha256"
	"fmt"
	"sort"
	"strings"

	"github.com/FoodWeb-ROA/ROACook-sub000/model"
)

// Entry is the minimal component view the fingerprint is computed over.
type Entry struct {
	Name         string
	Amount       string
	UnitID       string
	IngredientID string
}

// EntriesFromComponents projects editing-state components onto fingerprint
// entries.
func EntriesFromComponents(components []model.Component) []Entry {
	entries := make([]Entry, 0, len(components))
	for _, c := range components {
		leaf := c.Leaf()
		entries = append(entries, Entry{
			Name:         leaf.Name,
			Amount:       leaf.Amount,
			UnitID:       leaf.UnitID,
			IngredientID: leaf.IngredientID,
		})
	}
	return entries
}

// EntriesFromPreparation projects a stored preparation's ingredient list onto
// fingerprint entries.
func EntriesFromPreparation(prep model.Preparation) []Entry {
	entries := make([]Entry, 0, len(prep.Ingredients))
	for _, ing := range prep.Ingredients {
		entries = append(entries, Entry{
			Name:         ing.Name,
			Amount:       ing.Amount,
			UnitID:       ing.UnitID,
			IngredientID: ing.IngredientID,
		})
	}
	return entries
}

// Fingerprint computes the content fingerprint over the given entries and
// instruction lines. The result is the normalized plain string, not a hash;
// callers that need a fixed-length key may apply Digest without changing
// equality semantics.
func Fingerprint(entries []Entry, instructions []string) string {
	sorted := make([]Entry, len(entries))
	copy(sorted, entries)

	// Sort by slugged name, ties broken by identity; empty identities sort
	// first. Entry order in memory must never leak into the fingerprint.
	sort.SliceStable(sorted, func(i, j int) bool {
		si, sj := Slug(sorted[i].Name), Slug(sorted[j].Name)
		if si != sj {
			return si < sj
		}
		return sorted[i].IngredientID < sorted[j].IngredientID
	})

	parts := make([]string, len(sorted))
	for i, e := range sorted {
		unit := e.UnitID
		if unit == "" {
			unit = "null"
		}
		parts[i] = fmt.Sprintf("%s:%s:%s", Slug(e.Name), e.Amount, unit)
	}

	return strings.Join(parts, "|") + "::" + StripDirections(instructions)
}

// Digest returns the SHA-256 hex of a fingerprint, for callers that want a
// fixed-length storage key.
func Digest(fp string) string {
	return fmt.Sprintf("%x", sha256.Sum256([]byte(fp)))
}

// Slug normalizes a component name for comparison: lowercase, trimmed, with
// internal whitespace runs collapsed to a single space.
func Slug(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}

// StripDirections normalizes instruction text: lines joined with spaces,
// lowercased, punctuation and digits stripped, whitespace collapsed and
// trimmed. Whitespace and case changes to instructions never change the
// fingerprint.
func StripDirections(instructions []string) string {
	joined := strings.ToLower(strings.Join(instructions, " "))

	var b strings.Builder
	b.Grow(len(joined))
	for _, r := range joined {
		switch {
		case r >= '0' && r <= '9':
		case strings.ContainsRune(`.,;:!?()"'`, r):
		default:
			b.WriteRune(r)
		}
	}

	return strings.Join(strings.Fields(b.String()), " ")
}
