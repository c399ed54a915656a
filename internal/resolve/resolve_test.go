package resolve

import (
	"context"
	"errors"
	"testing"

	"github.com/FoodWeb-ROA/ROACook-sub000/model"
)

// fakeCatalog is a scriptable CatalogStore for resolver tests.
type fakeCatalog struct {
	matches       []model.IngredientMatch
	matchesErr    error
	prepByFP      string
	prepByFPErr   error
	prepByName    string
	prepByNameErr error
	dishByName    string
	dishByNameErr error
}

func (f *fakeCatalog) FindIngredientsByNameSubstring(ctx context.Context, text string) ([]model.IngredientMatch, error) {
	return f.matches, f.matchesErr
}

func (f *fakeCatalog) FindIngredientByExactName(ctx context.Context, text string) (string, error) {
	for _, m := range f.matches {
		if m.Name == text {
			return m.ID, nil
		}
	}
	return "", f.matchesErr
}

func (f *fakeCatalog) FindPreparationByExactName(ctx context.Context, text string) (string, error) {
	return f.prepByName, f.prepByNameErr
}

func (f *fakeCatalog) FindPreparationByFingerprint(ctx context.Context, fp string) (string, error) {
	return f.prepByFP, f.prepByFPErr
}

func (f *fakeCatalog) FindDishByExactName(ctx context.Context, text string) (string, error) {
	return f.dishByName, f.dishByNameErr
}

func (f *fakeCatalog) ListUnits(ctx context.Context) ([]model.Unit, error) {
	return nil, nil
}

// scriptedPrompter returns a fixed choice and records the prompt it was shown.
type scriptedPrompter struct {
	choice string
	err    error
	seen   []model.Prompt
}

func (s *scriptedPrompter) Choose(ctx context.Context, p model.Prompt) (string, error) {
	s.seen = append(s.seen, p)
	return s.choice, s.err
}

func newResolver(catalog model.CatalogStore, prompter model.Prompter) *Resolver {
	return NewResolver(catalog, prompter, nil, Options{})
}

func TestResolveIngredient_ExactMatchIsSilent(t *testing.T) {
	catalog := &fakeCatalog{matches: []model.IngredientMatch{
		{ID: "i1", Name: "Tomato Sauce"},
		{ID: "i2", Name: "tomato"},
	}}
	prompter := &scriptedPrompter{choice: model.ChoiceCreateNew}

	got := newResolver(catalog, prompter).ResolveIngredient(context.Background(), "Tomato")
	if got.Mode != model.ResolutionExisting || got.ID != "i2" {
		t.Errorf("ResolveIngredient = %+v, want existing i2", got)
	}
	if len(prompter.seen) != 0 {
		t.Errorf("exact match must not prompt, saw %d prompts", len(prompter.seen))
	}
}

func TestResolveIngredient_NoMatches(t *testing.T) {
	got := newResolver(&fakeCatalog{}, &scriptedPrompter{}).ResolveIngredient(context.Background(), "Saffron")
	if got.Mode != model.ResolutionNew {
		t.Errorf("ResolveIngredient = %+v, want new", got)
	}
}

func TestResolveIngredient_SimilarMatchesPrompt(t *testing.T) {
	catalog := &fakeCatalog{matches: []model.IngredientMatch{
		{ID: "i1", Name: "Tomato Sauce"},
		{ID: "i2", Name: "Tomato Paste"},
	}}

	prompter := &scriptedPrompter{choice: "use_existing:i2"}
	got := newResolver(catalog, prompter).ResolveIngredient(context.Background(), "Tomato")
	if got.Mode != model.ResolutionExisting || got.ID != "i2" {
		t.Errorf("use-existing choice: got %+v, want existing i2", got)
	}
	if len(prompter.seen) != 1 {
		t.Fatalf("expected exactly one prompt, saw %d", len(prompter.seen))
	}
	// One option per candidate plus create-new.
	if len(prompter.seen[0].Options) != 3 {
		t.Errorf("prompt options = %+v, want 3", prompter.seen[0].Options)
	}

	prompter = &scriptedPrompter{choice: model.ChoiceCreateNew}
	got = newResolver(catalog, prompter).ResolveIngredient(context.Background(), "Tomato")
	if got.Mode != model.ResolutionNew {
		t.Errorf("create-new choice: got %+v, want new", got)
	}
}

func TestResolveIngredient_CatalogErrorFailsOpen(t *testing.T) {
	catalog := &fakeCatalog{matchesErr: errors.New("store down")}
	prompter := &scriptedPrompter{}

	got := newResolver(catalog, prompter).ResolveIngredient(context.Background(), "Tomato")
	if got.Mode != model.ResolutionNew {
		t.Errorf("catalog error: got %+v, want new", got)
	}
	if len(prompter.seen) != 0 {
		t.Error("catalog error must not prompt")
	}
}

func TestResolveIngredient_PrompterErrorCancels(t *testing.T) {
	catalog := &fakeCatalog{matches: []model.IngredientMatch{{ID: "i1", Name: "Tomato Sauce"}}}
	prompter := &scriptedPrompter{err: context.Canceled}

	got := newResolver(catalog, prompter).ResolveIngredient(context.Background(), "Tomato")
	if got.Mode != model.ResolutionCancel {
		t.Errorf("prompter error: got %+v, want cancel", got)
	}
}

func TestResolveDish_NoMatch(t *testing.T) {
	got := newResolver(&fakeCatalog{}, &scriptedPrompter{}).ResolveDish(context.Background(), "Lasagna")
	if got.Mode != model.ResolutionNew {
		t.Errorf("ResolveDish = %+v, want new", got)
	}
}

func TestResolveDish_CollisionChoices(t *testing.T) {
	catalog := &fakeCatalog{dishByName: "d1"}

	got := newResolver(catalog, &scriptedPrompter{choice: model.ChoiceReplace}).ResolveDish(context.Background(), "Lasagna")
	if got.Mode != model.ResolutionOverwrite || got.ID != "d1" {
		t.Errorf("replace choice: got %+v, want overwrite d1", got)
	}

	got = newResolver(catalog, &scriptedPrompter{choice: model.ChoiceCancel}).ResolveDish(context.Background(), "Lasagna")
	if got.Mode != model.ResolutionCancel {
		t.Errorf("cancel choice: got %+v, want cancel", got)
	}
}

func TestResolveDish_CatalogErrorFailsOpen(t *testing.T) {
	catalog := &fakeCatalog{dishByNameErr: errors.New("store down")}
	got := newResolver(catalog, &scriptedPrompter{}).ResolveDish(context.Background(), "Lasagna")
	if got.Mode != model.ResolutionNew {
		t.Errorf("catalog error: got %+v, want new", got)
	}
}

func TestResolvePreparation_FingerprintWins(t *testing.T) {
	// Content identity beats name collisions, silently.
	catalog := &fakeCatalog{prepByFP: "p1", prepByName: "p2"}
	prompter := &scriptedPrompter{}

	got := newResolver(catalog, prompter).ResolvePreparation(context.Background(), "Stock", "fp", "")
	if got.Mode != model.ResolutionExisting || got.ID != "p1" {
		t.Errorf("fingerprint match: got %+v, want existing p1", got)
	}
	if len(prompter.seen) != 0 {
		t.Error("fingerprint match must not prompt")
	}
}

func TestResolvePreparation_NameCollisionChoices(t *testing.T) {
	catalog := &fakeCatalog{prepByName: "p1"}

	got := newResolver(catalog, &scriptedPrompter{choice: model.ChoiceReplace}).
		ResolvePreparation(context.Background(), "Stock", "fp", "")
	if got.Mode != model.ResolutionOverwrite || got.ID != "p1" {
		t.Errorf("replace choice: got %+v, want overwrite p1", got)
	}

	got = newResolver(catalog, &scriptedPrompter{choice: model.ChoiceRename}).
		ResolvePreparation(context.Background(), "Stock", "fp", "Ramen")
	if got.Mode != model.ResolutionRename || got.NewName != "Stock (Ramen)" {
		t.Errorf("rename with parent: got %+v, want rename to Stock (Ramen)", got)
	}

	got = newResolver(catalog, &scriptedPrompter{choice: model.ChoiceRename}).
		ResolvePreparation(context.Background(), "Stock", "fp", "")
	if got.NewName != "Stock (variant)" {
		t.Errorf("rename without parent: got %+v, want Stock (variant)", got)
	}
}

func TestResolvePreparation_CancelFallsBackToNew(t *testing.T) {
	// Cancelling a preparation collision abandons the duplicate path but
	// does not abort the save.
	catalog := &fakeCatalog{prepByName: "p1"}
	got := newResolver(catalog, &scriptedPrompter{choice: model.ChoiceCancel}).
		ResolvePreparation(context.Background(), "Stock", "fp", "")
	if got.Mode != model.ResolutionNew {
		t.Errorf("cancel choice: got %+v, want new", got)
	}
}

func TestResolvePreparation_CancelPolicyAbort(t *testing.T) {
	catalog := &fakeCatalog{prepByName: "p1"}
	r := NewResolver(catalog, &scriptedPrompter{choice: model.ChoiceCancel}, nil,
		Options{PreparationCancel: CancelAbort})

	got := r.ResolvePreparation(context.Background(), "Stock", "fp", "")
	if got.Mode != model.ResolutionCancel {
		t.Errorf("abort policy: got %+v, want cancel", got)
	}
}

func TestResolvePreparation_NoFingerprintSkipsContentCheck(t *testing.T) {
	catalog := &fakeCatalog{prepByFP: "p1"}
	got := newResolver(catalog, &scriptedPrompter{}).ResolvePreparation(context.Background(), "Stock", "", "")
	if got.Mode != model.ResolutionNew {
		t.Errorf("empty fingerprint: got %+v, want new", got)
	}
}

func TestResolvePreparation_CatalogErrorFailsOpen(t *testing.T) {
	catalog := &fakeCatalog{prepByFPErr: errors.New("store down")}
	got := newResolver(catalog, &scriptedPrompter{}).ResolvePreparation(context.Background(), "Stock", "fp", "")
	if got.Mode != model.ResolutionNew {
		t.Errorf("catalog error: got %+v, want new", got)
	}
}
