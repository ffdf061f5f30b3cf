package output

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/minslab/revmomo/internal/frame"
	"github.com/minslab/revmomo/internal/stats"
)

// Run is one completed strategy run.
type Run struct {
	ID         int64         `json:"id"`
	StrategyID string        `json:"strategy_id"`
	ConfigHash string        `json:"config_hash"`
	FromDate   time.Time     `json:"from_date"`
	ToDate     time.Time     `json:"to_date"`
	Passed     bool          `json:"passed"`
	StartedAt  time.Time     `json:"started_at"`
	FinishedAt time.Time     `json:"finished_at"`
	Stats      *stats.Report `json:"stats,omitempty"`
}

// WeightRow is one asset weight on one day.
type WeightRow struct {
	Day    time.Time `json:"day"`
	Asset  string    `json:"asset"`
	Weight float64   `json:"weight"`
}

// Repository persists runs and their resulting weights.
// SSOT: run results are stored here only.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new output repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// SaveRun inserts a run record and returns its ID.
func (r *Repository) SaveRun(ctx context.Context, run *Run) (int64, error) {
	statsJSON, err := json.Marshal(run.Stats)
	if err != nil {
		return 0, fmt.Errorf("marshal stats: %w", err)
	}

	query := `
		INSERT INTO output.runs (strategy_id, config_hash, from_date, to_date, passed, started_at, finished_at, stats)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`

	var id int64
	err = r.pool.QueryRow(ctx, query,
		run.StrategyID, run.ConfigHash, run.FromDate, run.ToDate,
		run.Passed, run.StartedAt, run.FinishedAt, statsJSON,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert run: %w", err)
	}
	return id, nil
}

// SaveWeights stores the nonzero weights of a run. Zero and NaN cells
// are skipped to keep the table sparse.
func (r *Repository) SaveWeights(ctx context.Context, runID int64, weights *frame.Matrix) (int, error) {
	query := `
		INSERT INTO output.weights (run_id, trade_date, asset, weight)
		VALUES ($1, $2, $3, $4)
	`

	batch := &pgx.Batch{}
	times := weights.Times()
	assets := weights.Assets()

	queued := 0
	for ti := range times {
		for ai := range assets {
			w := weights.At(ti, ai)
			if w == 0 || math.IsNaN(w) {
				continue
			}
			batch.Queue(query, runID, times[ti], assets[ai], w)
			queued++
		}
	}
	if queued == 0 {
		return 0, nil
	}

	results := r.pool.SendBatch(ctx, batch)
	defer results.Close()

	for i := 0; i < queued; i++ {
		if _, err := results.Exec(); err != nil {
			return 0, fmt.Errorf("insert weights: %w", err)
		}
	}
	return queued, nil
}

// LatestRun returns the most recent run, or pgx.ErrNoRows when none
// exists.
func (r *Repository) LatestRun(ctx context.Context) (*Run, error) {
	query := `
		SELECT id, strategy_id, config_hash, from_date, to_date, passed, started_at, finished_at, stats
		FROM output.runs
		ORDER BY finished_at DESC
		LIMIT 1
	`
	return r.scanRun(r.pool.QueryRow(ctx, query))
}

// ListRuns returns the most recent runs, newest first.
func (r *Repository) ListRuns(ctx context.Context, limit int) ([]*Run, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `
		SELECT id, strategy_id, config_hash, from_date, to_date, passed, started_at, finished_at, stats
		FROM output.runs
		ORDER BY finished_at DESC
		LIMIT $1
	`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		run, err := r.scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// RunWeights returns every stored weight of a run, ordered by trade
// date then asset.
func (r *Repository) RunWeights(ctx context.Context, runID int64) ([]WeightRow, error) {
	query := `
		SELECT trade_date, asset, weight
		FROM output.weights
		WHERE run_id = $1
		ORDER BY trade_date ASC, asset ASC
	`
	return r.queryWeights(ctx, query, runID)
}

// WeightsForDay returns a run's weights on one trade date.
func (r *Repository) WeightsForDay(ctx context.Context, runID int64, day time.Time) ([]WeightRow, error) {
	query := `
		SELECT trade_date, asset, weight
		FROM output.weights
		WHERE run_id = $1 AND trade_date = $2
		ORDER BY asset ASC
	`
	return r.queryWeights(ctx, query, runID, day)
}

// LatestWeights returns a run's weights on its most recent trade date.
func (r *Repository) LatestWeights(ctx context.Context, runID int64) ([]WeightRow, error) {
	query := `
		SELECT trade_date, asset, weight
		FROM output.weights
		WHERE run_id = $1
			AND trade_date = (SELECT MAX(trade_date) FROM output.weights WHERE run_id = $1)
		ORDER BY asset ASC
	`
	return r.queryWeights(ctx, query, runID)
}

func (r *Repository) queryWeights(ctx context.Context, query string, args ...interface{}) ([]WeightRow, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []WeightRow
	for rows.Next() {
		var w WeightRow
		if err := rows.Scan(&w.Day, &w.Asset, &w.Weight); err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	return out, rows.Err()
}

func (r *Repository) scanRun(row pgx.Row) (*Run, error) {
	var run Run
	var statsJSON []byte
	err := row.Scan(
		&run.ID, &run.StrategyID, &run.ConfigHash, &run.FromDate, &run.ToDate,
		&run.Passed, &run.StartedAt, &run.FinishedAt, &statsJSON,
	)
	if err != nil {
		return nil, err
	}
	if len(statsJSON) > 0 {
		if err := json.Unmarshal(statsJSON, &run.Stats); err != nil {
			return nil, fmt.Errorf("unmarshal stats: %w", err)
		}
	}
	return &run, nil
}
