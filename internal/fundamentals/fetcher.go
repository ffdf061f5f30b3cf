package fundamentals

import (
	"context"
	"fmt"

	"github.com/minslab/revmomo/internal/external/edgar"
	"github.com/minslab/revmomo/internal/universe"
	"github.com/minslab/revmomo/pkg/logger"
)

// Fetcher pulls quarterly revenue facts from EDGAR into storage.
type Fetcher struct {
	client *edgar.Client
	repo   *Repository
	logger *logger.Logger
}

// NewFetcher creates a fundamentals fetcher.
func NewFetcher(client *edgar.Client, repo *Repository, log *logger.Logger) *Fetcher {
	return &Fetcher{client: client, repo: repo, logger: log}
}

// FetchAll refreshes revenue facts for every constituent that has a
// CIK. Assets that fail are skipped so one bad filing does not abort
// the whole refresh; the error count is returned.
func (f *Fetcher) FetchAll(ctx context.Context, constituents []universe.Constituent) (int, error) {
	failed := 0
	for _, c := range constituents {
		if c.CIK == 0 {
			f.logger.WithField("asset", c.Asset).Warn("Skipping asset without CIK")
			continue
		}

		if err := f.fetchOne(ctx, c); err != nil {
			if ctx.Err() != nil {
				return failed, ctx.Err()
			}
			failed++
			f.logger.WithError(err).WithField("asset", c.Asset).Error("Revenue fetch failed")
		}
	}

	f.logger.WithFields(map[string]interface{}{
		"total":  len(constituents),
		"failed": failed,
	}).Info("Fundamentals refresh complete")

	return failed, nil
}

func (f *Fetcher) fetchOne(ctx context.Context, c universe.Constituent) error {
	facts, err := f.client.QuarterlyRevenue(ctx, c.Asset, c.CIK)
	if err != nil {
		return fmt.Errorf("quarterly revenue %s: %w", c.Asset, err)
	}
	if err := f.repo.SaveFacts(ctx, c.Asset, facts); err != nil {
		return fmt.Errorf("save facts %s: %w", c.Asset, err)
	}
	return nil
}
