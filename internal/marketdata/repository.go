package marketdata

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/minslab/revmomo/internal/external/stooq"
)

// Repository persists daily OHLCV bars.
// SSOT: price data storage goes through here only.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new market data repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// SaveBars upserts a batch of daily bars for one asset.
func (r *Repository) SaveBars(ctx context.Context, bars []stooq.Bar) error {
	if len(bars) == 0 {
		return nil
	}

	query := `
		INSERT INTO market.daily_bars (asset, trade_date, open_price, high_price, low_price, close_price, volume)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (asset, trade_date) DO UPDATE SET
			open_price = EXCLUDED.open_price,
			high_price = EXCLUDED.high_price,
			low_price = EXCLUDED.low_price,
			close_price = EXCLUDED.close_price,
			volume = EXCLUDED.volume
	`

	batch := &pgx.Batch{}
	for _, b := range bars {
		batch.Queue(query, b.Asset, b.Day, b.Open, b.High, b.Low, b.Close, b.Volume)
	}

	results := r.pool.SendBatch(ctx, batch)
	defer results.Close()

	for range bars {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("upsert daily bars: %w", err)
		}
	}
	return nil
}

// GetBars loads bars for the given assets within [from, to], ordered
// by trade date then asset.
func (r *Repository) GetBars(ctx context.Context, assets []string, from, to time.Time) ([]stooq.Bar, error) {
	query := `
		SELECT asset, trade_date, open_price, high_price, low_price, close_price, volume
		FROM market.daily_bars
		WHERE asset = ANY($1) AND trade_date BETWEEN $2 AND $3
		ORDER BY trade_date ASC, asset ASC
	`

	rows, err := r.pool.Query(ctx, query, assets, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bars []stooq.Bar
	for rows.Next() {
		var b stooq.Bar
		if err := rows.Scan(&b.Asset, &b.Day, &b.Open, &b.High, &b.Low, &b.Close, &b.Volume); err != nil {
			return nil, err
		}
		bars = append(bars, b)
	}
	return bars, rows.Err()
}

// TradingDays returns the distinct trade dates present within
// [from, to], ascending.
func (r *Repository) TradingDays(ctx context.Context, from, to time.Time) ([]time.Time, error) {
	query := `
		SELECT DISTINCT trade_date
		FROM market.daily_bars
		WHERE trade_date BETWEEN $1 AND $2
		ORDER BY trade_date ASC
	`

	rows, err := r.pool.Query(ctx, query, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var days []time.Time
	for rows.Next() {
		var d time.Time
		if err := rows.Scan(&d); err != nil {
			return nil, err
		}
		days = append(days, d)
	}
	return days, rows.Err()
}

// LatestDay returns the most recent trade date stored, or zero time
// when the table is empty.
func (r *Repository) LatestDay(ctx context.Context) (time.Time, error) {
	var d time.Time
	err := r.pool.QueryRow(ctx,
		`SELECT COALESCE(MAX(trade_date), 'epoch'::timestamptz) FROM market.daily_bars`,
	).Scan(&d)
	if err != nil {
		return time.Time{}, err
	}
	return d, nil
}
