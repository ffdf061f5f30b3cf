package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/minslab/revmomo/internal/pipeline"
	"github.com/minslab/revmomo/internal/strategyconfig"
	"github.com/minslab/revmomo/pkg/logger"
)

// StrategyRunJob executes the full weight pipeline nightly, after
// data collection.
// SSOT: the nightly run schedule lives in this job only.
type StrategyRunJob struct {
	runner *pipeline.Runner
	cfg    *strategyconfig.Config
	logger *logger.Logger
}

// NewStrategyRunJob creates a strategy run job.
func NewStrategyRunJob(runner *pipeline.Runner, cfg *strategyconfig.Config, log *logger.Logger) *StrategyRunJob {
	return &StrategyRunJob{runner: runner, cfg: cfg, logger: log}
}

// Name returns the job name.
func (j *StrategyRunJob) Name() string {
	return "strategy_run"
}

// Schedule runs weekday nights at 23:30 UTC, one hour after the data
// collection job.
func (j *StrategyRunJob) Schedule() string {
	return "0 30 23 * * 1-5"
}

// Run executes the pipeline from the configured universe start date
// through today.
func (j *StrategyRunJob) Run(ctx context.Context) error {
	from, err := time.Parse("2006-01-02", j.cfg.Universe.MinDate)
	if err != nil {
		return fmt.Errorf("parse min_date: %w", err)
	}
	to := time.Now().UTC().Truncate(24 * time.Hour)

	result, err := j.runner.Run(ctx, from, to)
	if err != nil {
		return fmt.Errorf("pipeline run: %w", err)
	}

	j.logger.WithFields(map[string]interface{}{
		"run_id": result.Run.ID,
		"passed": result.Run.Passed,
		"sharpe": result.Stats.SharpeRatio,
	}).Info("Scheduled strategy run finished")

	if !result.Run.Passed {
		j.logger.WithField("diagnostics", len(result.Check.Diagnostics)).
			Warn("Run produced failing diagnostics")
	}
	return nil
}
