package fundamentals

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/minslab/revmomo/internal/external/edgar"
)

// Repository persists quarterly revenue facts.
// SSOT: fundamental data storage goes through here only.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new fundamentals repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// SaveFacts upserts quarterly revenue facts for one asset. Amended
// filings overwrite the original value for the same period.
func (r *Repository) SaveFacts(ctx context.Context, asset string, facts []edgar.RevenueFact) error {
	if len(facts) == 0 {
		return nil
	}

	query := `
		INSERT INTO fundamentals.revenue_facts (asset, period_start, period_end, filed, value, form, tag)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (asset, period_end) DO UPDATE SET
			period_start = EXCLUDED.period_start,
			filed = LEAST(fundamentals.revenue_facts.filed, EXCLUDED.filed),
			value = EXCLUDED.value,
			form = EXCLUDED.form,
			tag = EXCLUDED.tag
	`

	batch := &pgx.Batch{}
	for _, f := range facts {
		batch.Queue(query, asset, f.PeriodStart, f.PeriodEnd, f.Filed, f.Value, f.Form, f.Tag)
	}

	results := r.pool.SendBatch(ctx, batch)
	defer results.Close()

	for range facts {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("upsert revenue facts for %s: %w", asset, err)
		}
	}
	return nil
}

// GetFacts loads all revenue facts for the given assets filed on or
// before the cutoff, ordered by asset then period end.
func (r *Repository) GetFacts(ctx context.Context, assets []string, filedBefore time.Time) (map[string][]edgar.RevenueFact, error) {
	query := `
		SELECT asset, period_start, period_end, filed, value, form, tag
		FROM fundamentals.revenue_facts
		WHERE asset = ANY($1) AND filed <= $2
		ORDER BY asset ASC, period_end ASC
	`

	rows, err := r.pool.Query(ctx, query, assets, filedBefore)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	facts := make(map[string][]edgar.RevenueFact)
	for rows.Next() {
		var asset string
		var f edgar.RevenueFact
		if err := rows.Scan(&asset, &f.PeriodStart, &f.PeriodEnd, &f.Filed, &f.Value, &f.Form, &f.Tag); err != nil {
			return nil, err
		}
		facts[asset] = append(facts[asset], f)
	}
	return facts, rows.Err()
}
