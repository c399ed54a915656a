// Package importer executes recipe imports as suspendable runs. A run maps
// parsed components against the catalog, resolves duplicates, and parks in an
// awaiting-choice state whenever a resolution needs an operator decision.
package importer

import (
	"context"
	"time"

	"github.com/FoodWeb-ROA/ROACook-sub000/internal/mapper"
	"github.com/FoodWeb-ROA/ROACook-sub000/model"
)

// Run statuses.
const (
	StatusRunning        = "running"
	StatusAwaitingChoice = "awaiting_choice"
	StatusCompleted      = "completed"
	StatusCancelled      = "cancelled"
	StatusFailed         = "failed"
)

// StartRequest is the input for a new import run.
type StartRequest struct {
	// IdempotencyKey deduplicates retried starts. Optional.
	IdempotencyKey string `json:"idempotency_key,omitempty"`

	DishName     string                   `json:"dish_name"`
	BaseServings float64                  `json:"base_servings"`
	Components   []mapper.ParsedComponent `json:"components"`
	Instructions []string                 `json:"instructions,omitempty"`
}

// ComponentResolution pairs a resolved component with its duplicate-resolution
// outcome.
type ComponentResolution struct {
	Name       string           `json:"name"`
	Resolution model.Resolution `json:"resolution"`
}

// Result is the outcome of a completed run. Nothing is persisted by the
// engine; the caller applies the resolutions to its own storage.
type Result struct {
	Dish         model.Resolution      `json:"dish"`
	Components   []model.Component     `json:"components"`
	Resolutions  []ComponentResolution `json:"resolutions"`
	Fingerprints map[string]string     `json:"fingerprints,omitempty"` // component key -> fingerprint
}

// ImportRun is the persisted state of one import.
type ImportRun struct {
	ID      string `json:"id"`
	Status  string `json:"status"`
	Request StartRequest `json:"request"`

	// PendingPrompt is set while the run awaits an operator choice.
	PendingPrompt *model.Prompt `json:"pending_prompt,omitempty"`

	Result *Result `json:"result,omitempty"`
	Error  string  `json:"error,omitempty"`

	// Version supports optimistic locking in the store.
	Version   int       `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Active reports whether the run can still make progress.
func (r ImportRun) Active() bool {
	return r.Status == StatusRunning || r.Status == StatusAwaitingChoice
}

// RunStore persists import runs. Update performs an optimistic-lock check on
// Version.
type RunStore interface {
	Create(ctx context.Context, run ImportRun) error
	Get(ctx context.Context, runID string) (ImportRun, error)
	Update(ctx context.Context, run ImportRun) error
	List(ctx context.Context, limit int) ([]ImportRun, error)
}
