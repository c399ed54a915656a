// Package catalog provides CatalogStore implementations: an in-memory store
// for tests and single-process deployments, and a PostgreSQL store for shared
// catalogs.
package catalog

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/FoodWeb-ROA/ROACook-sub000/model"
)

// MemoryStore is an in-memory CatalogStore. Safe for concurrent use.
type MemoryStore struct {
	mu           sync.RWMutex
	ingredients  map[string]model.IngredientMatch // key: ID
	preparations map[string]model.Preparation     // key: ID
	dishes       map[string]model.Dish            // key: ID
	units        map[string]model.Unit            // key: ID
}

// NewMemoryStore creates an empty in-memory catalog.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		ingredients:  make(map[string]model.IngredientMatch),
		preparations: make(map[string]model.Preparation),
		dishes:       make(map[string]model.Dish),
		units:        make(map[string]model.Unit),
	}
}

// AddUnit registers a measurement unit, assigning an ID if absent.
func (s *MemoryStore) AddUnit(u model.Unit) model.Unit {
	s.mu.Lock()
	defer s.mu.Unlock()

	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	s.units[u.ID] = u
	return u
}

// AddIngredient registers a raw ingredient, assigning an ID if absent.
func (s *MemoryStore) AddIngredient(name string) model.IngredientMatch {
	s.mu.Lock()
	defer s.mu.Unlock()

	m := model.IngredientMatch{ID: uuid.NewString(), Name: name}
	s.ingredients[m.ID] = m
	return m
}

// AddPreparation registers a preparation, assigning an ID if absent. The
// preparation also becomes visible through the shared ingredient namespace.
func (s *MemoryStore) AddPreparation(p model.Preparation) model.Preparation {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	s.preparations[p.ID] = p
	s.ingredients[p.ID] = model.IngredientMatch{ID: p.ID, Name: p.Name, IsPreparation: true}
	return p
}

// AddDish registers a dish, assigning an ID if absent.
func (s *MemoryStore) AddDish(d model.Dish) model.Dish {
	s.mu.Lock()
	defer s.mu.Unlock()

	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	s.dishes[d.ID] = d
	return d
}

// FindIngredientsByNameSubstring implements model.CatalogStore.
func (s *MemoryStore) FindIngredientsByNameSubstring(_ context.Context, text string) ([]model.IngredientMatch, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	needle := strings.ToLower(strings.TrimSpace(text))
	if needle == "" {
		return nil, nil
	}

	var result []model.IngredientMatch
	for _, m := range s.ingredients {
		if strings.Contains(strings.ToLower(m.Name), needle) {
			result = append(result, m)
		}
	}
	return result, nil
}

// FindIngredientByExactName implements model.CatalogStore.
func (s *MemoryStore) FindIngredientByExactName(_ context.Context, text string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, m := range s.ingredients {
		if strings.EqualFold(m.Name, strings.TrimSpace(text)) {
			return m.ID, nil
		}
	}
	return "", nil
}

// FindPreparationByExactName implements model.CatalogStore.
func (s *MemoryStore) FindPreparationByExactName(_ context.Context, text string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.preparations {
		if strings.EqualFold(p.Name, strings.TrimSpace(text)) {
			return p.ID, nil
		}
	}
	return "", nil
}

// FindPreparationByFingerprint implements model.CatalogStore.
func (s *MemoryStore) FindPreparationByFingerprint(_ context.Context, fingerprint string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if fingerprint == "" {
		return "", nil
	}
	for _, p := range s.preparations {
		if p.Fingerprint == fingerprint {
			return p.ID, nil
		}
	}
	return "", nil
}

// FindDishByExactName implements model.CatalogStore.
func (s *MemoryStore) FindDishByExactName(_ context.Context, text string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, d := range s.dishes {
		if strings.EqualFold(d.Name, strings.TrimSpace(text)) {
			return d.ID, nil
		}
	}
	return "", nil
}

// ListUnits implements model.CatalogStore.
func (s *MemoryStore) ListUnits(_ context.Context) ([]model.Unit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]model.Unit, 0, len(s.units))
	for _, u := range s.units {
		result = append(result, u)
	}
	return result, nil
}

// GetPreparation returns a stored preparation by ID. For testing.
func (s *MemoryStore) GetPreparation(id string) (model.Preparation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, exists := s.preparations[id]
	if !exists {
		return model.Preparation{}, model.NewNotFoundError(
			fmt.Sprintf("preparation %q not found", id),
		)
	}
	return p, nil
}

// Len returns the total number of ingredient-namespace entries. For testing.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.ingredients)
}
