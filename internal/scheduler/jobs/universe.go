package jobs

import (
	"context"
	"fmt"

	"github.com/minslab/revmomo/internal/universe"
	"github.com/minslab/revmomo/pkg/logger"
)

// UniverseJob refreshes the constituent list weekly.
// SSOT: the universe refresh schedule lives in this job only.
type UniverseJob struct {
	service    *universe.Service
	universeID string
	logger     *logger.Logger
}

// NewUniverseJob creates a universe refresh job.
func NewUniverseJob(service *universe.Service, universeID string, log *logger.Logger) *UniverseJob {
	return &UniverseJob{
		service:    service,
		universeID: universeID,
		logger:     log,
	}
}

// Name returns the job name.
func (j *UniverseJob) Name() string {
	return "universe_refresh"
}

// Schedule runs Sundays at 06:00 UTC, before the week's data pulls.
func (j *UniverseJob) Schedule() string {
	return "0 0 6 * * 0"
}

// Run refreshes the constituent list.
func (j *UniverseJob) Run(ctx context.Context) error {
	j.logger.Info("Starting scheduled universe refresh")

	constituents, err := j.service.Refresh(ctx, j.universeID)
	if err != nil {
		return fmt.Errorf("universe refresh: %w", err)
	}

	j.logger.WithField("count", len(constituents)).Info("Universe refresh finished")
	return nil
}
