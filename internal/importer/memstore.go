package importer

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/FoodWeb-ROA/ROACook-sub000/model"
)

// MemoryRunStore is an in-memory RunStore. Suitable for testing and
// single-instance deployments.
type MemoryRunStore struct {
	mu   sync.RWMutex
	runs map[string]ImportRun // key: run ID
}

// NewMemoryRunStore creates a new in-memory run store.
func NewMemoryRunStore() *MemoryRunStore {
	return &MemoryRunStore{runs: make(map[string]ImportRun)}
}

// Create persists a new run.
func (s *MemoryRunStore) Create(_ context.Context, run ImportRun) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.runs[run.ID]; exists {
		return model.NewConflictError(
			fmt.Sprintf("import run %q already exists", run.ID),
		)
	}
	s.runs[run.ID] = run
	return nil
}

// Get retrieves a run by ID.
func (s *MemoryRunStore) Get(_ context.Context, runID string) (ImportRun, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	run, exists := s.runs[runID]
	if !exists {
		return ImportRun{}, model.NewRunNotFoundError(
			fmt.Sprintf("import run %q not found", runID),
		)
	}
	return run, nil
}

// Update persists an updated run with optimistic locking.
func (s *MemoryRunStore) Update(_ context.Context, run ImportRun) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, exists := s.runs[run.ID]
	if !exists {
		return model.NewRunNotFoundError(
			fmt.Sprintf("import run %q not found", run.ID),
		)
	}

	// Optimistic lock check.
	if existing.Version != run.Version {
		return model.NewConflictError(
			fmt.Sprintf("import run %q version conflict (expected %d, got %d)", run.ID, run.Version, existing.Version),
		)
	}

	run.Version++
	run.UpdatedAt = time.Now().UTC()
	s.runs[run.ID] = run
	return nil
}

// List returns runs ordered by creation time descending.
func (s *MemoryRunStore) List(_ context.Context, limit int) ([]ImportRun, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]ImportRun, 0, len(s.runs))
	for _, run := range s.runs {
		result = append(result, run)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	if limit > 0 && limit < len(result) {
		result = result[:limit]
	}
	return result, nil
}

// Len returns the total number of runs. For testing.
func (s *MemoryRunStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.runs)
}
