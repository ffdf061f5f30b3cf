package universe

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository persists universe constituents.
// SSOT: universe membership lives here only.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new universe repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Save upserts the full constituent set for a universe.
func (r *Repository) Save(ctx context.Context, universeID string, constituents []Constituent) error {
	query := `
		INSERT INTO universe.constituents (universe_id, asset, name, cik, updated_at)
		VALUES ($1, $2, $3, NULLIF($4, 0), NOW())
		ON CONFLICT (universe_id, asset) DO UPDATE SET
			name = EXCLUDED.name,
			cik = COALESCE(EXCLUDED.cik, universe.constituents.cik),
			updated_at = NOW()
	`

	for _, c := range constituents {
		if _, err := r.pool.Exec(ctx, query, universeID, c.Asset, c.Name, c.CIK); err != nil {
			return fmt.Errorf("upsert constituent %s: %w", c.Asset, err)
		}
	}
	return nil
}

// SetCIK records the SEC CIK for one constituent.
func (r *Repository) SetCIK(ctx context.Context, universeID, asset string, cik int64) error {
	query := `
		UPDATE universe.constituents
		SET cik = $3, updated_at = NOW()
		WHERE universe_id = $1 AND asset = $2
	`
	_, err := r.pool.Exec(ctx, query, universeID, asset, cik)
	if err != nil {
		return fmt.Errorf("set cik for %s: %w", asset, err)
	}
	return nil
}

// List returns all constituents of a universe ordered by asset.
func (r *Repository) List(ctx context.Context, universeID string) ([]Constituent, error) {
	query := `
		SELECT asset, name, COALESCE(cik, 0)
		FROM universe.constituents
		WHERE universe_id = $1
		ORDER BY asset ASC
	`

	rows, err := r.pool.Query(ctx, query, universeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Constituent
	for rows.Next() {
		var c Constituent
		if err := rows.Scan(&c.Asset, &c.Name, &c.CIK); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// LastUpdated returns the most recent refresh time for a universe.
func (r *Repository) LastUpdated(ctx context.Context, universeID string) (time.Time, error) {
	query := `
		SELECT COALESCE(MAX(updated_at), 'epoch'::timestamptz)
		FROM universe.constituents
		WHERE universe_id = $1
	`

	var t time.Time
	if err := r.pool.QueryRow(ctx, query, universeID).Scan(&t); err != nil {
		return time.Time{}, err
	}
	return t, nil
}
