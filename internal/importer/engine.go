package importer

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/FoodWeb-ROA/ROACook-sub000/internal/fingerprint"
	"github.com/FoodWeb-ROA/ROACook-sub000/internal/mapper"
	"github.com/FoodWeb-ROA/ROACook-sub000/internal/observability"
	"github.com/FoodWeb-ROA/ROACook-sub000/internal/resolve"
	"github.com/FoodWeb-ROA/ROACook-sub000/model"
)

const defaultIdempotencyTTL = 24 * time.Hour

// Engine manages the lifecycle of import runs. Each run executes on its own
// goroutine; operator prompts park the run in the awaiting-choice status until
// a choice arrives through Choose.
type Engine struct {
	store        RunStore
	catalog      model.CatalogStore
	mapper       *mapper.Mapper
	resolverOpts resolve.Options
	idem         IdempotencyStore
	idemTTL      time.Duration
	logger       *zap.Logger
	tracer       trace.Tracer
	metrics      *observability.Metrics

	mu      sync.Mutex
	running map[string]*runtime // key: run ID
}

// runtime is the in-process state of an active run.
type runtime struct {
	cancel  context.CancelFunc
	choices chan string
}

// EngineOptions configures an Engine.
type EngineOptions struct {
	// Idempotency deduplicates retried starts. Optional.
	Idempotency    IdempotencyStore
	IdempotencyTTL time.Duration

	Resolver resolve.Options

	// Metrics records run lifecycle counters. Optional.
	Metrics *observability.Metrics
}

// NewEngine creates a new import engine. A nil logger falls back to a no-op
// logger.
func NewEngine(store RunStore, catalog model.CatalogStore, logger *zap.Logger, opts EngineOptions) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	ttl := opts.IdempotencyTTL
	if ttl <= 0 {
		ttl = defaultIdempotencyTTL
	}
	return &Engine{
		store:        store,
		catalog:      catalog,
		mapper:       mapper.NewMapper(catalog, logger),
		resolverOpts: opts.Resolver,
		idem:         opts.Idempotency,
		idemTTL:      ttl,
		logger:       logger,
		tracer:       otel.Tracer("importer"),
		metrics:      opts.Metrics,
		running:      make(map[string]*runtime),
	}
}

// Start creates a new import run and begins executing it. If the request
// carries an idempotency key that was already used with the same input, the
// original run is returned instead of starting a new one.
func (e *Engine) Start(ctx context.Context, req StartRequest) (ImportRun, error) {
	if req.DishName == "" {
		return ImportRun{}, model.NewValidationError("dish_name is required")
	}

	// 1. Deduplicate retried starts.
	var idemKey, inputHash string
	if e.idem != nil && req.IdempotencyKey != "" {
		idemKey = FormatIdempotencyKey(req.IdempotencyKey)
		inputHash = HashRequest(req)
		runID, found, err := e.idem.Check(ctx, idemKey, inputHash)
		if err != nil {
			if _, ok := err.(*model.ErrorEnvelope); ok {
				return ImportRun{}, err
			}
			// Idempotency store failures must not block imports.
			e.logger.Warn("idempotency check failed", zap.Error(err))
		} else if found {
			return e.store.Get(ctx, runID)
		}
	}

	// 2. Create and persist the run.
	now := time.Now().UTC()
	run := ImportRun{
		ID:        uuid.New().String(),
		Status:    StatusRunning,
		Request:   req,
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := e.store.Create(ctx, run); err != nil {
		return ImportRun{}, err
	}

	if idemKey != "" {
		if err := e.idem.Store(ctx, idemKey, inputHash, run.ID, e.idemTTL); err != nil {
			e.logger.Warn("idempotency store failed", zap.Error(err))
		}
	}

	// 3. Execute on a dedicated goroutine with its own lifetime.
	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	rt := &runtime{cancel: cancel, choices: make(chan string)}
	e.mu.Lock()
	e.running[run.ID] = rt
	e.mu.Unlock()

	if e.metrics != nil {
		e.metrics.RecordImportRunStart()
	}
	go e.execute(runCtx, run.ID, req, rt)

	return run, nil
}

// Get returns the current state of a run.
func (e *Engine) Get(ctx context.Context, runID string) (ImportRun, error) {
	return e.store.Get(ctx, runID)
}

// List returns recent runs, newest first.
func (e *Engine) List(ctx context.Context, limit int) ([]ImportRun, error) {
	return e.store.List(ctx, limit)
}

// Choose delivers an operator decision to a run parked in awaiting-choice.
func (e *Engine) Choose(ctx context.Context, runID, choice string) error {
	run, err := e.store.Get(ctx, runID)
	if err != nil {
		return err
	}
	if !run.Active() {
		return model.NewRunNotActiveError(
			fmt.Sprintf("import run %q is %s", runID, run.Status),
		)
	}
	if run.Status != StatusAwaitingChoice || run.PendingPrompt == nil {
		return model.NewNoPendingChoiceError(
			fmt.Sprintf("import run %q has no pending choice", runID),
		)
	}
	if !validChoice(*run.PendingPrompt, choice) {
		return model.NewUnknownChoiceError(
			fmt.Sprintf("choice %q is not offered by the pending prompt", choice),
		)
	}

	e.mu.Lock()
	rt, ok := e.running[runID]
	e.mu.Unlock()
	if !ok {
		return model.NewNoPendingChoiceError(
			fmt.Sprintf("import run %q is not executing in this process", runID),
		)
	}

	select {
	case rt.choices <- choice:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Cancel aborts an active run. Cancellation is operator-initiated only; a run
// blocked on a prompt unblocks immediately.
func (e *Engine) Cancel(ctx context.Context, runID string) error {
	err := e.mutateRun(ctx, runID, func(run *ImportRun) error {
		if !run.Active() {
			return model.NewRunNotActiveError(
				fmt.Sprintf("import run %q is %s, cannot cancel", runID, run.Status),
			)
		}
		run.Status = StatusCancelled
		run.PendingPrompt = nil
		return nil
	})
	if err != nil {
		return err
	}

	e.mu.Lock()
	rt, ok := e.running[runID]
	e.mu.Unlock()
	if ok {
		rt.cancel()
	}
	return nil
}

// execute runs the import pipeline: map, resolve the dish, then resolve each
// component sequentially so earlier outcomes are visible to later checks. A
// cancel resolution short-circuits the whole run so no partial persistence can
// occur downstream.
func (e *Engine) execute(ctx context.Context, runID string, req StartRequest, rt *runtime) {
	ctx, span := e.tracer.Start(ctx, "importer.execute",
		trace.WithAttributes(attribute.String("run.id", runID)))
	defer span.End()
	defer func() {
		rt.cancel()
		e.mu.Lock()
		delete(e.running, runID)
		e.mu.Unlock()

		// Record the terminal status once per run, whichever writer set it.
		if e.metrics != nil {
			if run, err := e.store.Get(context.WithoutCancel(ctx), runID); err == nil {
				e.metrics.RecordImportRunCompletion(run.Status, time.Since(run.CreatedAt))
			}
		}
	}()

	logger := e.logger.With(zap.String("run_id", runID))
	prompter := &runPrompter{engine: e, runID: runID, rt: rt}
	resolver := resolve.NewResolver(e.catalog, prompter, logger, e.resolverOpts)

	// 1. Map parsed descriptors against the catalog.
	components, err := e.mapper.Map(ctx, req.Components)
	if err != nil {
		e.finish(ctx, runID, func(run *ImportRun) {
			run.Status = StatusFailed
			run.Error = err.Error()
		})
		logger.Error("import mapping failed", zap.Error(err))
		return
	}

	result := Result{
		Components:   components,
		Fingerprints: make(map[string]string),
	}

	// 2. Resolve the dish first; a cancelled dish aborts everything.
	prompter.entity = "dish"
	result.Dish = resolver.ResolveDish(ctx, req.DishName)
	e.recordResolution("dish", result.Dish.Mode)
	if result.Dish.Mode == model.ResolutionCancel {
		e.finish(ctx, runID, func(run *ImportRun) { run.Status = StatusCancelled })
		logger.Info("import cancelled at dish resolution")
		return
	}

	// 3. Resolve components one at a time.
	for _, c := range components {
		var res model.Resolution

		switch comp := c.(type) {
		case *model.PreparationComponent:
			fp := fingerprint.Fingerprint(
				fingerprint.EntriesFromComponents(comp.SubComponents),
				comp.Instructions,
			)
			result.Fingerprints[comp.Key] = fp
			prompter.entity = "preparation"
			res = resolver.ResolvePreparation(ctx, comp.Name, fp, req.DishName)
			applyResolution(comp.Leaf(), res)
			e.recordResolution("preparation", res.Mode)

		default:
			// The mapper's fuzzy match is advisory; the resolver confirms
			// exact matches silently and prompts on similar ones.
			leaf := c.Leaf()
			prompter.entity = "ingredient"
			res = resolver.ResolveIngredient(ctx, leaf.Name)
			applyResolution(leaf, res)
			e.recordResolution("ingredient", res.Mode)
		}

		if res.Mode == model.ResolutionCancel {
			e.finish(ctx, runID, func(run *ImportRun) { run.Status = StatusCancelled })
			logger.Info("import cancelled at component resolution",
				zap.String("component", c.Leaf().Name))
			return
		}
		result.Resolutions = append(result.Resolutions, ComponentResolution{
			Name:       c.Leaf().Name,
			Resolution: res,
		})
	}

	// 4. Done. The caller applies the resolutions to its own storage.
	e.finish(ctx, runID, func(run *ImportRun) {
		run.Status = StatusCompleted
		run.Result = &result
	})
	logger.Info("import completed",
		zap.Int("components", len(components)),
		zap.String("dish_mode", string(result.Dish.Mode)))
}

// finish applies a terminal mutation unless the run already reached a
// terminal state (an operator cancel may have landed first).
func (e *Engine) finish(ctx context.Context, runID string, mutate func(*ImportRun)) {
	err := e.mutateRun(ctx, runID, func(run *ImportRun) error {
		if !run.Active() {
			return nil
		}
		run.PendingPrompt = nil
		mutate(run)
		return nil
	})
	if err != nil {
		e.logger.Error("failed to finalize import run",
			zap.String("run_id", runID), zap.Error(err))
	}
}

// mutateRun loads, mutates and updates a run, retrying on optimistic-lock
// conflicts with concurrent writers.
func (e *Engine) mutateRun(ctx context.Context, runID string, mutate func(*ImportRun) error) error {
	for attempt := 0; ; attempt++ {
		run, err := e.store.Get(ctx, runID)
		if err != nil {
			return err
		}
		if err := mutate(&run); err != nil {
			return err
		}
		err = e.store.Update(ctx, run)
		if err == nil {
			return nil
		}
		envelope, ok := err.(*model.ErrorEnvelope)
		if !ok || envelope.Code != model.ErrConflict || attempt >= 2 {
			return err
		}
	}
}

// recordResolution counts a resolution outcome when metrics are wired.
func (e *Engine) recordResolution(entity string, mode model.ResolutionMode) {
	if e.metrics != nil {
		e.metrics.RecordResolution(entity, string(mode))
	}
}

// runPrompter parks the run in awaiting-choice and blocks until Choose
// delivers an answer or the run context ends. The engine sets entity before
// each resolver call; resolution within a run is strictly sequential.
type runPrompter struct {
	engine *Engine
	runID  string
	rt     *runtime
	entity string
}

// Choose implements model.Prompter.
func (p *runPrompter) Choose(ctx context.Context, prompt model.Prompt) (string, error) {
	if p.engine.metrics != nil {
		p.engine.metrics.RecordPrompt(p.entity)
	}
	err := p.engine.mutateRun(ctx, p.runID, func(run *ImportRun) error {
		if !run.Active() {
			return model.NewRunNotActiveError(
				fmt.Sprintf("import run %q is %s", p.runID, run.Status),
			)
		}
		run.Status = StatusAwaitingChoice
		run.PendingPrompt = &prompt
		return nil
	})
	if err != nil {
		return "", err
	}

	select {
	case choice := <-p.rt.choices:
		// Resume before handing the choice back to the resolver.
		err := p.engine.mutateRun(ctx, p.runID, func(run *ImportRun) error {
			if run.Active() {
				run.Status = StatusRunning
				run.PendingPrompt = nil
			}
			return nil
		})
		if err != nil {
			return "", err
		}
		return choice, nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// applyResolution folds a resolution outcome back into the component.
func applyResolution(leaf *model.LeafComponent, res model.Resolution) {
	switch res.Mode {
	case model.ResolutionExisting, model.ResolutionOverwrite:
		leaf.IngredientID = res.ID
		leaf.Matched = true
	case model.ResolutionRename:
		leaf.Name = res.NewName
		leaf.IngredientID = ""
		leaf.Matched = false
	case model.ResolutionNew:
		leaf.IngredientID = ""
		leaf.Matched = false
	}
}

// validChoice reports whether the choice is one of the prompt's option keys.
func validChoice(p model.Prompt, choice string) bool {
	for _, opt := range p.Options {
		if opt.Key == choice {
			return true
		}
	}
	return false
}
