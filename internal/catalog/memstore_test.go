package catalog

import (
	"context"
	"testing"

	"github.com/FoodWeb-ROA/ROACook-sub000/model"
)

func seededStore() *MemoryStore {
	s := NewMemoryStore()
	s.AddUnit(model.Unit{Name: "gram", Abbreviation: "g", Kind: model.KindWeight})
	s.AddUnit(model.Unit{Name: "each", Abbreviation: "x", Kind: model.KindCount})
	s.AddIngredient("Tomato")
	s.AddIngredient("Tomato Paste")
	s.AddIngredient("Flour")
	s.AddPreparation(model.Preparation{Name: "Tomato Sauce", Fingerprint: "fp-sauce"})
	s.AddDish(model.Dish{Name: "Lasagna", BaseServings: 4})
	return s
}

func TestFindIngredientsByNameSubstring(t *testing.T) {
	s := seededStore()
	ctx := context.Background()

	matches, err := s.FindIngredientsByNameSubstring(ctx, "tomato")
	if err != nil {
		t.Fatalf("FindIngredientsByNameSubstring: %v", err)
	}
	// Tomato, Tomato Paste, and the Tomato Sauce preparation all match.
	if len(matches) != 3 {
		t.Fatalf("got %d matches, want 3: %+v", len(matches), matches)
	}

	var prepSeen bool
	for _, m := range matches {
		if m.Name == "Tomato Sauce" {
			prepSeen = true
			if !m.IsPreparation {
				t.Error("Tomato Sauce must be flagged as a preparation")
			}
		}
	}
	if !prepSeen {
		t.Error("preparations must be visible through the ingredient namespace")
	}

	matches, err = s.FindIngredientsByNameSubstring(ctx, "  ")
	if err != nil || len(matches) != 0 {
		t.Errorf("blank search: got %v matches, err %v", matches, err)
	}
}

func TestFindIngredientByExactName(t *testing.T) {
	s := seededStore()
	ctx := context.Background()

	id, err := s.FindIngredientByExactName(ctx, "FLOUR")
	if err != nil {
		t.Fatalf("FindIngredientByExactName: %v", err)
	}
	if id == "" {
		t.Error("case-insensitive exact match should find Flour")
	}

	id, err = s.FindIngredientByExactName(ctx, "Saffron")
	if err != nil || id != "" {
		t.Errorf("no match: got %q, err %v, want empty and nil", id, err)
	}
}

func TestFindPreparation(t *testing.T) {
	s := seededStore()
	ctx := context.Background()

	byName, err := s.FindPreparationByExactName(ctx, "tomato sauce")
	if err != nil {
		t.Fatalf("FindPreparationByExactName: %v", err)
	}
	if byName == "" {
		t.Fatal("expected a preparation match by name")
	}

	byFP, err := s.FindPreparationByFingerprint(ctx, "fp-sauce")
	if err != nil {
		t.Fatalf("FindPreparationByFingerprint: %v", err)
	}
	if byFP != byName {
		t.Errorf("fingerprint lookup returned %q, name lookup %q", byFP, byName)
	}

	byFP, err = s.FindPreparationByFingerprint(ctx, "")
	if err != nil || byFP != "" {
		t.Errorf("empty fingerprint: got %q, err %v, want empty and nil", byFP, err)
	}
}

func TestFindDishByExactName(t *testing.T) {
	s := seededStore()
	ctx := context.Background()

	id, err := s.FindDishByExactName(ctx, "lasagna")
	if err != nil {
		t.Fatalf("FindDishByExactName: %v", err)
	}
	if id == "" {
		t.Error("case-insensitive dish match should find Lasagna")
	}

	id, err = s.FindDishByExactName(ctx, "Ramen")
	if err != nil || id != "" {
		t.Errorf("no match: got %q, err %v, want empty and nil", id, err)
	}
}

func TestListUnits(t *testing.T) {
	s := seededStore()

	units, err := s.ListUnits(context.Background())
	if err != nil {
		t.Fatalf("ListUnits: %v", err)
	}
	if len(units) != 2 {
		t.Fatalf("got %d units, want 2", len(units))
	}
	for _, u := range units {
		if u.ID == "" {
			t.Errorf("unit %q missing assigned ID", u.Name)
		}
	}
}

func TestGetPreparation(t *testing.T) {
	s := seededStore()

	id, _ := s.FindPreparationByExactName(context.Background(), "Tomato Sauce")
	p, err := s.GetPreparation(id)
	if err != nil {
		t.Fatalf("GetPreparation: %v", err)
	}
	if p.Fingerprint != "fp-sauce" {
		t.Errorf("preparation = %+v, want fingerprint fp-sauce", p)
	}

	_, err = s.GetPreparation("missing")
	envelope, ok := err.(*model.ErrorEnvelope)
	if !ok || envelope.Code != model.ErrNotFound {
		t.Errorf("missing preparation: got %v, want NOT_FOUND", err)
	}
}
