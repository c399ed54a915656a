package mapper

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/FoodWeb-ROA/ROACook-sub000/model"
)

// fakeCatalog serves mapper lookups from fixed tables.
type fakeCatalog struct {
	ingredients map[string]string // lowercase name -> id
	preps       map[string]string // lowercase name -> id
	units       []model.Unit
	lookupErr   error
}

func (f *fakeCatalog) FindIngredientsByNameSubstring(ctx context.Context, text string) ([]model.IngredientMatch, error) {
	if f.lookupErr != nil {
		return nil, f.lookupErr
	}
	var out []model.IngredientMatch
	for name, id := range f.ingredients {
		if strings.Contains(name, strings.ToLower(text)) {
			out = append(out, model.IngredientMatch{ID: id, Name: name})
		}
	}
	return out, nil
}

func (f *fakeCatalog) FindIngredientByExactName(ctx context.Context, text string) (string, error) {
	return f.ingredients[strings.ToLower(text)], nil
}

func (f *fakeCatalog) FindPreparationByExactName(ctx context.Context, text string) (string, error) {
	if f.lookupErr != nil {
		return "", f.lookupErr
	}
	return f.preps[strings.ToLower(text)], nil
}

func (f *fakeCatalog) FindPreparationByFingerprint(ctx context.Context, fp string) (string, error) {
	return "", nil
}

func (f *fakeCatalog) FindDishByExactName(ctx context.Context, text string) (string, error) {
	return "", nil
}

func (f *fakeCatalog) ListUnits(ctx context.Context) ([]model.Unit, error) {
	return f.units, nil
}

func testUnits() []model.Unit {
	return []model.Unit{
		{ID: "u-g", Name: "gram", Abbreviation: "g", Kind: model.KindWeight},
		{ID: "u-ml", Name: "millilitre", Abbreviation: "ml", Kind: model.KindVolume},
		{ID: "u-x", Name: "each", Abbreviation: "x", Kind: model.KindCount},
		{ID: "u-prep", Name: "preparation", Abbreviation: "prep"},
	}
}

func TestMap_PlainIngredient(t *testing.T) {
	catalog := &fakeCatalog{
		ingredients: map[string]string{"flour": "i-flour"},
		units:       testUnits(),
	}
	m := NewMapper(catalog, nil)

	got, err := m.Map(context.Background(), []ParsedComponent{
		{Type: TypeIngredient, Name: "Flour", Amount: "200", Unit: "G"},
	})
	if err != nil {
		t.Fatalf("Map: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d components, want 1", len(got))
	}

	leaf := got[0].Leaf()
	if leaf.IngredientID != "i-flour" || !leaf.Matched {
		t.Errorf("leaf = %+v, want matched i-flour", leaf)
	}
	if leaf.UnitID != "u-g" {
		t.Errorf("unit lookup is case-insensitive: got %q, want u-g", leaf.UnitID)
	}
	if leaf.Key == "" {
		t.Error("components must get a stable key")
	}
}

func TestMap_UnmatchedIngredient(t *testing.T) {
	catalog := &fakeCatalog{units: testUnits()}
	m := NewMapper(catalog, nil)

	got, err := m.Map(context.Background(), []ParsedComponent{
		{Type: TypeIngredient, Name: "Saffron", Amount: "1", Unit: "pinch"},
	})
	if err != nil {
		t.Fatalf("Map: %v", err)
	}

	leaf := got[0].Leaf()
	if leaf.IngredientID != "" || leaf.Matched {
		t.Errorf("leaf = %+v, want unmatched", leaf)
	}
	if leaf.UnitID != "" {
		t.Errorf("unknown unit string must stay unresolved, got %q", leaf.UnitID)
	}
}

func TestMap_UnitLookupByFullName(t *testing.T) {
	catalog := &fakeCatalog{units: testUnits()}
	m := NewMapper(catalog, nil)

	got, err := m.Map(context.Background(), []ParsedComponent{
		{Type: TypeIngredient, Name: "Milk", Amount: "100", Unit: "Millilitre"},
	})
	if err != nil {
		t.Fatalf("Map: %v", err)
	}
	if leaf := got[0].Leaf(); leaf.UnitID != "u-ml" {
		t.Errorf("full-name unit lookup: got %q, want u-ml", leaf.UnitID)
	}
}

func TestMap_PreparationGetsPseudoUnit(t *testing.T) {
	catalog := &fakeCatalog{
		preps: map[string]string{"stock": "p-stock"},
		units: testUnits(),
	}
	m := NewMapper(catalog, nil)

	got, err := m.Map(context.Background(), []ParsedComponent{
		{Type: TypePreparation, Name: "Stock", Amount: "500", Unit: "ml"},
	})
	if err != nil {
		t.Fatalf("Map: %v", err)
	}

	prep, ok := got[0].(*model.PreparationComponent)
	if !ok {
		t.Fatalf("got %T, want *model.PreparationComponent", got[0])
	}
	if prep.IngredientID != "p-stock" || !prep.Matched {
		t.Errorf("prep = %+v, want matched p-stock", prep.LeafComponent)
	}
	// Parsed amount and unit are discarded in favor of the placeholder.
	if prep.Amount != "1" || prep.UnitID != "u-prep" {
		t.Errorf("prep amount/unit = %q/%q, want 1/u-prep", prep.Amount, prep.UnitID)
	}
}

func TestMap_SelfMatchGuard(t *testing.T) {
	// "Stock" the preparation contains a sub-ingredient whose name resolves
	// to the preparation itself; the match must be discarded.
	catalog := &fakeCatalog{
		ingredients: map[string]string{"stock": "p-stock"},
		preps:       map[string]string{"stock": "p-stock"},
		units:       testUnits(),
	}
	m := NewMapper(catalog, nil)

	got, err := m.Map(context.Background(), []ParsedComponent{
		{
			Type: TypePreparation,
			Name: "Stock",
			SubComponents: []ParsedComponent{
				{Type: TypeIngredient, Name: "Stock", Amount: "1", Unit: "ml"},
			},
		},
	})
	if err != nil {
		t.Fatalf("Map: %v", err)
	}

	prep := got[0].(*model.PreparationComponent)
	if len(prep.SubComponents) != 1 {
		t.Fatalf("got %d sub-components, want 1", len(prep.SubComponents))
	}
	sub := prep.SubComponents[0].Leaf()
	if sub.IngredientID != "" || sub.Matched {
		t.Errorf("sub = %+v, want self match discarded", sub)
	}
}

func TestMap_NestedSubComponentsResolve(t *testing.T) {
	catalog := &fakeCatalog{
		ingredients: map[string]string{"carrot": "i-carrot"},
		preps:       map[string]string{"stock": "p-stock"},
		units:       testUnits(),
	}
	m := NewMapper(catalog, nil)

	got, err := m.Map(context.Background(), []ParsedComponent{
		{
			Type:         TypePreparation,
			Name:         "Stock",
			Instructions: []string{"Simmer for two hours."},
			SubComponents: []ParsedComponent{
				{Type: TypeIngredient, Name: "Carrot", Amount: "2", Unit: "x"},
			},
		},
	})
	if err != nil {
		t.Fatalf("Map: %v", err)
	}

	prep := got[0].(*model.PreparationComponent)
	sub := prep.SubComponents[0].Leaf()
	if sub.IngredientID != "i-carrot" || !sub.Matched {
		t.Errorf("sub = %+v, want matched i-carrot", sub)
	}
	if sub.UnitID != "u-x" {
		t.Errorf("sub unit = %q, want u-x", sub.UnitID)
	}
	if len(prep.Instructions) != 1 {
		t.Errorf("instructions = %v, want carried through", prep.Instructions)
	}
}

func TestMap_LookupErrorLeavesUnmatched(t *testing.T) {
	catalog := &fakeCatalog{
		units:     testUnits(),
		lookupErr: errors.New("store down"),
	}
	m := NewMapper(catalog, nil)

	got, err := m.Map(context.Background(), []ParsedComponent{
		{Type: TypeIngredient, Name: "Flour", Amount: "200", Unit: "g"},
		{Type: TypePreparation, Name: "Stock"},
	})
	if err != nil {
		t.Fatalf("lookup errors must not fail the mapping: %v", err)
	}
	for i, c := range got {
		if leaf := c.Leaf(); leaf.Matched {
			t.Errorf("component %d = %+v, want unmatched", i, leaf)
		}
	}
}
