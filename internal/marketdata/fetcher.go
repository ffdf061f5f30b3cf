package marketdata

import (
	"context"
	"fmt"

	"github.com/minslab/revmomo/internal/external/stooq"
	"github.com/minslab/revmomo/internal/universe"
	"github.com/minslab/revmomo/pkg/logger"
)

// Fetcher pulls daily bars from Stooq into storage.
type Fetcher struct {
	client *stooq.Client
	repo   *Repository
	logger *logger.Logger
}

// NewFetcher creates a market data fetcher.
func NewFetcher(client *stooq.Client, repo *Repository, log *logger.Logger) *Fetcher {
	return &Fetcher{client: client, repo: repo, logger: log}
}

// FetchAll refreshes bars for every constituent. Failed assets are
// skipped and counted so one outage does not abort the refresh.
func (f *Fetcher) FetchAll(ctx context.Context, constituents []universe.Constituent) (int, error) {
	failed := 0
	for _, c := range constituents {
		if err := f.fetchOne(ctx, c.Asset); err != nil {
			if ctx.Err() != nil {
				return failed, ctx.Err()
			}
			failed++
			f.logger.WithError(err).WithField("asset", c.Asset).Error("Bar fetch failed")
		}
	}

	f.logger.WithFields(map[string]interface{}{
		"total":  len(constituents),
		"failed": failed,
	}).Info("Market data refresh complete")

	return failed, nil
}

func (f *Fetcher) fetchOne(ctx context.Context, asset string) error {
	bars, err := f.client.DailyBars(ctx, asset)
	if err != nil {
		return fmt.Errorf("daily bars %s: %w", asset, err)
	}
	if len(bars) == 0 {
		return fmt.Errorf("no bars returned for %s", asset)
	}
	if err := f.repo.SaveBars(ctx, bars); err != nil {
		return fmt.Errorf("save bars %s: %w", asset, err)
	}
	return nil
}
