package catalog

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/FoodWeb-ROA/ROACook-sub000/model"
)

// PgStore is a PostgreSQL-backed CatalogStore using pgx/v5. Preparations live
// in the ingredients table with is_preparation = true, so the shared name
// namespace falls out of the schema.
type PgStore struct {
	pool *pgxpool.Pool
}

// NewPgStore creates a new PostgreSQL catalog store.
func NewPgStore(pool *pgxpool.Pool) *PgStore {
	return &PgStore{pool: pool}
}

// FindIngredientsByNameSubstring implements model.CatalogStore.
func (s *PgStore) FindIngredientsByNameSubstring(ctx context.Context, text string) ([]model.IngredientMatch, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, name, is_preparation
		FROM ingredients
		WHERE name ILIKE '%' || $1 || '%'
		ORDER BY name ASC`,
		text,
	)
	if err != nil {
		return nil, fmt.Errorf("query ingredients: %w", err)
	}
	defer rows.Close()

	var matches []model.IngredientMatch
	for rows.Next() {
		var m model.IngredientMatch
		if err := rows.Scan(&m.ID, &m.Name, &m.IsPreparation); err != nil {
			return nil, fmt.Errorf("scan ingredient: %w", err)
		}
		matches = append(matches, m)
	}
	return matches, rows.Err()
}

// FindIngredientByExactName implements model.CatalogStore.
func (s *PgStore) FindIngredientByExactName(ctx context.Context, text string) (string, error) {
	return s.scanID(ctx, `
		SELECT id FROM ingredients
		WHERE lower(name) = lower($1)
		LIMIT 1`,
		text,
	)
}

// FindPreparationByExactName implements model.CatalogStore.
func (s *PgStore) FindPreparationByExactName(ctx context.Context, text string) (string, error) {
	return s.scanID(ctx, `
		SELECT id FROM ingredients
		WHERE is_preparation AND lower(name) = lower($1)
		LIMIT 1`,
		text,
	)
}

// FindPreparationByFingerprint implements model.CatalogStore.
func (s *PgStore) FindPreparationByFingerprint(ctx context.Context, fingerprint string) (string, error) {
	if fingerprint == "" {
		return "", nil
	}
	return s.scanID(ctx, `
		SELECT ingredient_id FROM preparations
		WHERE fingerprint = $1
		LIMIT 1`,
		fingerprint,
	)
}

// FindDishByExactName implements model.CatalogStore.
func (s *PgStore) FindDishByExactName(ctx context.Context, text string) (string, error) {
	return s.scanID(ctx, `
		SELECT id FROM dishes
		WHERE lower(name) = lower($1)
		LIMIT 1`,
		text,
	)
}

// ListUnits implements model.CatalogStore.
func (s *PgStore) ListUnits(ctx context.Context) ([]model.Unit, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, name, abbreviation, COALESCE(measure_kind, '')
		FROM units
		ORDER BY name ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("query units: %w", err)
	}
	defer rows.Close()

	var units []model.Unit
	for rows.Next() {
		var u model.Unit
		if err := rows.Scan(&u.ID, &u.Name, &u.Abbreviation, &u.Kind); err != nil {
			return nil, fmt.Errorf("scan unit: %w", err)
		}
		units = append(units, u)
	}
	return units, rows.Err()
}

// HealthCheck reports whether the database is reachable.
func (s *PgStore) HealthCheck(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// scanID runs a single-ID query, mapping no-rows to the empty string.
func (s *PgStore) scanID(ctx context.Context, query string, args ...any) (string, error) {
	var id string
	err := s.pool.QueryRow(ctx, query, args...).Scan(&id)
	if err == pgx.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("query catalog id: %w", err)
	}
	return id, nil
}
