package jobs

import (
	"context"
	"fmt"

	"github.com/minslab/revmomo/internal/fundamentals"
	"github.com/minslab/revmomo/internal/marketdata"
	"github.com/minslab/revmomo/internal/universe"
	"github.com/minslab/revmomo/pkg/logger"
)

// DataCollectionJob pulls daily bars and quarterly revenue facts for
// every constituent after the US close.
// SSOT: the nightly data pull schedule lives in this job only.
type DataCollectionJob struct {
	universeSvc  *universe.Service
	market       *marketdata.Fetcher
	fundamentals *fundamentals.Fetcher
	universeID   string
	logger       *logger.Logger
}

// NewDataCollectionJob creates a data collection job.
func NewDataCollectionJob(
	universeSvc *universe.Service,
	market *marketdata.Fetcher,
	funds *fundamentals.Fetcher,
	universeID string,
	log *logger.Logger,
) *DataCollectionJob {
	return &DataCollectionJob{
		universeSvc:  universeSvc,
		market:       market,
		fundamentals: funds,
		universeID:   universeID,
		logger:       log,
	}
}

// Name returns the job name.
func (j *DataCollectionJob) Name() string {
	return "data_collection"
}

// Schedule runs weekday nights at 22:30 UTC, after the NASDAQ close.
func (j *DataCollectionJob) Schedule() string {
	return "0 30 22 * * 1-5"
}

// Run pulls bars and revenue facts for the stored constituents.
func (j *DataCollectionJob) Run(ctx context.Context) error {
	j.logger.Info("Starting scheduled data collection")

	constituents, err := j.universeSvc.List(ctx, j.universeID)
	if err != nil {
		return fmt.Errorf("list universe: %w", err)
	}
	if len(constituents) == 0 {
		return fmt.Errorf("universe %s is empty, refresh it first", j.universeID)
	}

	barFailures, err := j.market.FetchAll(ctx, constituents)
	if err != nil {
		return fmt.Errorf("fetch bars: %w", err)
	}

	factFailures, err := j.fundamentals.FetchAll(ctx, constituents)
	if err != nil {
		return fmt.Errorf("fetch fundamentals: %w", err)
	}

	// Partial failures are tolerated until more than half the fetch
	// attempts fail.
	if failed := barFailures + factFailures; failed > len(constituents) {
		return fmt.Errorf("data collection degraded: %d failures across %d assets",
			failed, len(constituents))
	}

	j.logger.WithFields(map[string]interface{}{
		"assets":        len(constituents),
		"bar_failures":  barFailures,
		"fact_failures": factFailures,
	}).Info("Data collection finished")

	return nil
}
