// Package resolve implements duplicate resolution against the catalog for the
// three entity kinds: ingredients, dishes and preparations. Each resolver is a
// small state machine; ambiguous outcomes suspend on the prompter until the
// operator decides.
//
// Catalog I/O errors never block data entry. Every lookup failure is logged
// and degrades to the most permissive resolution (create new); duplicate
// prevention is best-effort, not a correctness guarantee.
package resolve

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/FoodWeb-ROA/ROACook-sub000/model"
)

// CancelPolicy controls what an operator "cancel" choice resolves to.
type CancelPolicy string

const (
	// CancelAbort maps a cancel choice to a cancel resolution: the caller
	// must not persist anything for this save.
	CancelAbort CancelPolicy = "abort"

	// CancelCreateNew maps a cancel choice to a create-new resolution: the
	// duplicate-specific path is abandoned but the save proceeds.
	CancelCreateNew CancelPolicy = "create_new"
)

// Options configures a Resolver.
type Options struct {
	// DishCancel is applied when the operator cancels a dish name-collision
	// prompt. Defaults to CancelAbort: a dish save has no silent merge path.
	DishCancel CancelPolicy

	// PreparationCancel is applied when the operator cancels a preparation
	// name-collision prompt. Defaults to CancelCreateNew: preparation-level
	// cancellation falls back to a fresh creation attempt rather than
	// aborting the whole save.
	PreparationCancel CancelPolicy
}

func (o Options) withDefaults() Options {
	if o.DishCancel == "" {
		o.DishCancel = CancelAbort
	}
	if o.PreparationCancel == "" {
		o.PreparationCancel = CancelCreateNew
	}
	return o
}

// Resolver answers "does this already exist, and what should happen" for
// candidate entity names. It never mutates the catalog.
type Resolver struct {
	catalog  model.CatalogStore
	prompter model.Prompter
	logger   *zap.Logger
	opts     Options
}

// NewResolver builds a Resolver. The prompter is the suspend point for
// ambiguous resolutions; a nil logger falls back to a no-op logger.
func NewResolver(catalog model.CatalogStore, prompter model.Prompter, logger *zap.Logger, opts Options) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{
		catalog:  catalog,
		prompter: prompter,
		logger:   logger,
		opts:     opts.withDefaults(),
	}
}

// ResolveIngredient resolves a candidate ingredient name.
//
// An exact case-insensitive match resolves silently to existing. Similar but
// inexact matches suspend on the prompter with one option per candidate plus
// create-new. No matches at all resolve directly to new.
func (r *Resolver) ResolveIngredient(ctx context.Context, name string) model.Resolution {
	// 1. Find close matches; a store failure counts as no match.
	matches, err := r.catalog.FindIngredientsByNameSubstring(ctx, name)
	if err != nil {
		r.logger.Warn("ingredient lookup failed, resolving to new",
			zap.String("name", name), zap.Error(err))
		return model.New()
	}

	// 2. Exact name equality is unambiguous; no prompt.
	for _, m := range matches {
		if equalFold(m.Name, name) {
			return model.Existing(m.ID)
		}
	}

	if len(matches) == 0 {
		return model.New()
	}

	// 3. Similar matches need an operator decision.
	options := make([]model.PromptOption, 0, len(matches)+1)
	for _, m := range matches {
		label := m.Name
		if m.IsPreparation {
			label += " (preparation)"
		}
		options = append(options, model.PromptOption{
			Key:   choiceKey(model.ChoiceUseExisting, m.ID),
			Label: label,
		})
	}
	options = append(options, model.PromptOption{Key: model.ChoiceCreateNew, Label: "Create new ingredient"})

	choice, err := r.prompter.Choose(ctx, model.Prompt{
		Title:   "Similar ingredients found",
		Message: fmt.Sprintf("%q is similar to existing catalog entries. Use one of them?", name),
		Options: options,
	})
	if err != nil {
		r.logger.Warn("ingredient prompt failed, cancelling",
			zap.String("name", name), zap.Error(err))
		return model.Cancelled()
	}

	if id, ok := choiceValue(choice, model.ChoiceUseExisting); ok {
		return model.Existing(id)
	}
	if choice == model.ChoiceCreateNew {
		return model.New()
	}

	r.logger.Warn("unknown ingredient prompt choice, cancelling",
		zap.String("name", name), zap.String("choice", choice))
	return model.Cancelled()
}

// ResolveDish resolves a candidate dish name. Dishes are matched by exact name
// only; a collision offers replace or cancel, never a silent merge.
func (r *Resolver) ResolveDish(ctx context.Context, name string) model.Resolution {
	id, err := r.catalog.FindDishByExactName(ctx, name)
	if err != nil {
		r.logger.Warn("dish lookup failed, resolving to new",
			zap.String("name", name), zap.Error(err))
		return model.New()
	}
	if id == "" {
		return model.New()
	}

	choice, err := r.prompter.Choose(ctx, model.Prompt{
		Title:   "Dish already exists",
		Message: fmt.Sprintf("A dish named %q already exists. Replace it?", name),
		Options: []model.PromptOption{
			{Key: model.ChoiceReplace, Label: "Replace existing dish"},
			{Key: model.ChoiceCancel, Label: "Cancel"},
		},
	})
	if err != nil {
		r.logger.Warn("dish prompt failed, cancelling",
			zap.String("name", name), zap.Error(err))
		return model.Cancelled()
	}

	switch choice {
	case model.ChoiceReplace:
		return model.Overwrite(id)
	case model.ChoiceCancel:
		return r.cancelled(r.opts.DishCancel)
	default:
		r.logger.Warn("unknown dish prompt choice, cancelling",
			zap.String("name", name), zap.String("choice", choice))
		return model.Cancelled()
	}
}

// ResolvePreparation resolves a candidate preparation. Content identity wins:
// a fingerprint match resolves silently to existing regardless of name. Only
// then is the name checked; a name collision with different content offers
// replace, rename or cancel. parentDishName feeds the computed rename.
func (r *Resolver) ResolvePreparation(ctx context.Context, name, fp, parentDishName string) model.Resolution {
	// 1. Identical content is never a conflict.
	if fp != "" {
		id, err := r.catalog.FindPreparationByFingerprint(ctx, fp)
		if err != nil {
			r.logger.Warn("preparation fingerprint lookup failed, resolving to new",
				zap.String("name", name), zap.Error(err))
			return model.New()
		}
		if id != "" {
			return model.Existing(id)
		}
	}

	// 2. Same name, different content.
	id, err := r.catalog.FindPreparationByExactName(ctx, name)
	if err != nil {
		r.logger.Warn("preparation name lookup failed, resolving to new",
			zap.String("name", name), zap.Error(err))
		return model.New()
	}
	if id == "" {
		return model.New()
	}

	choice, err := r.prompter.Choose(ctx, model.Prompt{
		Title:   "Preparation name already in use",
		Message: fmt.Sprintf("A preparation named %q exists with different contents.", name),
		Options: []model.PromptOption{
			{Key: model.ChoiceReplace, Label: "Replace existing preparation"},
			{Key: model.ChoiceRename, Label: "Keep both (rename this one)"},
			{Key: model.ChoiceCancel, Label: "Cancel"},
		},
	})
	if err != nil {
		r.logger.Warn("preparation prompt failed, cancelling",
			zap.String("name", name), zap.Error(err))
		return model.Cancelled()
	}

	switch choice {
	case model.ChoiceReplace:
		return model.Overwrite(id)
	case model.ChoiceRename:
		return model.Rename(alternateName(name, parentDishName))
	case model.ChoiceCancel:
		return r.cancelled(r.opts.PreparationCancel)
	default:
		r.logger.Warn("unknown preparation prompt choice, cancelling",
			zap.String("name", name), zap.String("choice", choice))
		return model.Cancelled()
	}
}

func (r *Resolver) cancelled(policy CancelPolicy) model.Resolution {
	if policy == CancelCreateNew {
		return model.New()
	}
	return model.Cancelled()
}

// alternateName computes the keep-both rename: the parent dish name in
// parentheses when known, a generic variant suffix otherwise.
func alternateName(name, parentDishName string) string {
	if parentDishName != "" {
		return fmt.Sprintf("%s (%s)", name, parentDishName)
	}
	return name + " (variant)"
}

func equalFold(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

func choiceKey(kind, id string) string {
	return kind + ":" + id
}

// choiceValue splits a compound choice key of the form "<kind>:<id>".
func choiceValue(choice, kind string) (string, bool) {
	prefix := kind + ":"
	if strings.HasPrefix(choice, prefix) && len(choice) > len(prefix) {
		return choice[len(prefix):], true
	}
	return "", false
}
