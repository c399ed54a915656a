// Package mapper converts externally parsed recipe structures into resolved
// editing-state components. Mapping performs catalog lookups only; it never
// persists anything.
package mapper

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/FoodWeb-ROA/ROACook-sub000/model"
)

// ComponentType tags a parsed descriptor as a plain ingredient or a nested
// preparation.
type ComponentType string

const (
	TypeIngredient  ComponentType = "ingredient"
	TypePreparation ComponentType = "preparation"
)

// ParsedComponent is one raw descriptor from an upstream recipe parser.
type ParsedComponent struct {
	Type   ComponentType `json:"type" yaml:"type"`
	Name   string        `json:"name" yaml:"name"`
	Amount string        `json:"amount" yaml:"amount"`
	Unit   string        `json:"unit" yaml:"unit"`

	// SubComponents and Instructions are populated only for preparations.
	SubComponents []ParsedComponent `json:"sub_components,omitempty" yaml:"sub_components,omitempty"`
	Instructions  []string          `json:"instructions,omitempty" yaml:"instructions,omitempty"`
	YieldAmount   string            `json:"yield_amount,omitempty" yaml:"yield_amount,omitempty"`
	YieldUnit     string            `json:"yield_unit,omitempty" yaml:"yield_unit,omitempty"`
}

// Mapper resolves parsed descriptors against the catalog.
type Mapper struct {
	catalog model.CatalogStore
	logger  *zap.Logger
}

// NewMapper builds a Mapper. A nil logger falls back to a no-op logger.
func NewMapper(catalog model.CatalogStore, logger *zap.Logger) *Mapper {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Mapper{catalog: catalog, logger: logger}
}

// Map resolves a list of parsed descriptors into editing-state components.
// Catalog lookup failures leave the affected component unmatched; they never
// fail the mapping.
func (m *Mapper) Map(ctx context.Context, parsed []ParsedComponent) ([]model.Component, error) {
	units, err := m.unitIndex(ctx)
	if err != nil {
		return nil, err
	}

	components := make([]model.Component, 0, len(parsed))
	for _, p := range parsed {
		components = append(components, m.mapOne(ctx, p, units, ""))
	}
	return components, nil
}

// mapOne resolves a single descriptor. parentPrepID carries the enclosing
// preparation's resolved identity so sub-component matches against the
// container itself can be discarded.
func (m *Mapper) mapOne(ctx context.Context, p ParsedComponent, units *unitIndex, parentPrepID string) model.Component {
	leaf := model.LeafComponent{
		Key:    uuid.NewString(),
		Name:   strings.TrimSpace(p.Name),
		Amount: strings.TrimSpace(p.Amount),
		UnitID: units.lookup(p.Unit),
	}

	if p.Type != TypePreparation {
		// 1. Plain ingredients go through a close-match lookup.
		id := m.matchIngredient(ctx, leaf.Name)
		if id != "" && id == parentPrepID {
			// A sub-ingredient must never resolve to its own container.
			m.logger.Debug("discarding self match", zap.String("name", leaf.Name))
			id = ""
		}
		leaf.IngredientID = id
		leaf.Matched = id != ""
		return &leaf
	}

	// 2. Preparations use an exact name-existence check, not a fuzzy lookup.
	id, err := m.catalog.FindPreparationByExactName(ctx, leaf.Name)
	if err != nil {
		m.logger.Warn("preparation lookup failed, treating as unmatched",
			zap.String("name", leaf.Name), zap.Error(err))
		id = ""
	}
	if id != "" && id == parentPrepID {
		id = ""
	}
	leaf.IngredientID = id
	leaf.Matched = id != ""

	// 3. A preparation's own amount is tracked through the dish's scaling
	// system, so it gets the reserved pseudo-unit and a placeholder amount.
	leaf.Amount = "1"
	leaf.UnitID = units.preparationID

	prep := &model.PreparationComponent{
		LeafComponent: leaf,
		Instructions:  p.Instructions,
		YieldAmount:   strings.TrimSpace(p.YieldAmount),
		YieldUnitID:   units.lookup(p.YieldUnit),
	}

	// 4. Sub-components recurse with this preparation as the self-match
	// guard.
	for _, sub := range p.SubComponents {
		prep.SubComponents = append(prep.SubComponents, m.mapOne(ctx, sub, units, id))
	}
	return prep
}

// matchIngredient runs the close-match lookup and picks the resolved
// identity: an exact case-insensitive name match wins, otherwise the first
// candidate. Lookup failures count as no match.
func (m *Mapper) matchIngredient(ctx context.Context, name string) string {
	matches, err := m.catalog.FindIngredientsByNameSubstring(ctx, name)
	if err != nil {
		m.logger.Warn("ingredient lookup failed, treating as unmatched",
			zap.String("name", name), zap.Error(err))
		return ""
	}
	if len(matches) == 0 {
		return ""
	}
	for _, c := range matches {
		if strings.EqualFold(strings.TrimSpace(c.Name), name) {
			return c.ID
		}
	}
	return matches[0].ID
}

// unitIndex resolves declared unit strings to catalog unit identities by full
// name or abbreviation, case-insensitively.
type unitIndex struct {
	byName        map[string]string
	preparationID string
}

func (m *Mapper) unitIndex(ctx context.Context) (*unitIndex, error) {
	units, err := m.catalog.ListUnits(ctx)
	if err != nil {
		return nil, err
	}

	idx := &unitIndex{byName: make(map[string]string, len(units)*2)}
	for _, u := range units {
		if n := normalize(u.Name); n != "" {
			idx.byName[n] = u.ID
		}
		if a := normalize(u.Abbreviation); a != "" {
			idx.byName[a] = u.ID
		}
		if strings.EqualFold(u.Name, model.PreparationUnitName) {
			idx.preparationID = u.ID
		}
	}
	return idx, nil
}

func (x *unitIndex) lookup(unit string) string {
	return x.byName[normalize(unit)]
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
