package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/minslab/revmomo/internal/cleanup"
	"github.com/minslab/revmomo/internal/frame"
	"github.com/minslab/revmomo/internal/fundamentals"
	"github.com/minslab/revmomo/internal/marketdata"
	"github.com/minslab/revmomo/internal/output"
	"github.com/minslab/revmomo/internal/report"
	"github.com/minslab/revmomo/internal/stats"
	"github.com/minslab/revmomo/internal/strategy"
	"github.com/minslab/revmomo/internal/strategyconfig"
	"github.com/minslab/revmomo/internal/universe"
	"github.com/minslab/revmomo/pkg/logger"
)

// Result holds everything a completed run produced.
type Result struct {
	Run       *output.Run     `json:"run"`
	Weights   *frame.Matrix   `json:"-"`
	Check     *cleanup.Report `json:"check"`
	Stats     *stats.Report   `json:"stats"`
	Artifacts []string        `json:"artifacts"`
}

// Runner executes the strategy pipeline as one explicit sequence:
// load universe and data, compute weights, fill the pre-signal
// buy-and-hold window, clean, check, compute stats, persist.
// SSOT: run orchestration happens here only.
type Runner struct {
	cfg        *strategyconfig.Config
	configHash string

	universe     *universe.Service
	market       *marketdata.Loader
	fundamentals *fundamentals.Builder
	calc         *strategy.Calculator
	cleaner      *cleanup.Cleaner
	checker      *cleanup.Checker
	stats        *stats.Calculator
	outRepo      *output.Repository
	artifacts    *output.ArtifactWriter
	report       *report.Writer

	bus    *eventBus
	logger *logger.Logger
}

// RunnerDeps bundles the pipeline's collaborators.
type RunnerDeps struct {
	Universe     *universe.Service
	Market       *marketdata.Loader
	Fundamentals *fundamentals.Builder
	Calculator   *strategy.Calculator
	Cleaner      *cleanup.Cleaner
	Checker      *cleanup.Checker
	Stats        *stats.Calculator
	OutputRepo   *output.Repository
	Artifacts    *output.ArtifactWriter
	Report       *report.Writer
}

// NewRunner creates a pipeline runner.
func NewRunner(cfg *strategyconfig.Config, deps RunnerDeps, log *logger.Logger) (*Runner, error) {
	hash, err := strategyconfig.Hash(cfg)
	if err != nil {
		return nil, fmt.Errorf("hash config: %w", err)
	}

	return &Runner{
		cfg:          cfg,
		configHash:   hash,
		universe:     deps.Universe,
		market:       deps.Market,
		fundamentals: deps.Fundamentals,
		calc:         deps.Calculator,
		cleaner:      deps.Cleaner,
		checker:      deps.Checker,
		stats:        deps.Stats,
		outRepo:      deps.OutputRepo,
		artifacts:    deps.Artifacts,
		report:       deps.Report,
		bus:          newEventBus(),
		logger:       log,
	}, nil
}

// ConfigHash returns the hash of the loaded strategy config.
func (r *Runner) ConfigHash() string { return r.configHash }

// Subscribe returns a channel of run events. The caller must call
// Unsubscribe when done.
func (r *Runner) Subscribe() chan RunEvent { return r.bus.subscribe() }

// Unsubscribe releases an event channel.
func (r *Runner) Unsubscribe(ch chan RunEvent) { r.bus.unsubscribe(ch) }

func (r *Runner) emit(stage Stage, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	r.bus.publish(RunEvent{Stage: stage, Message: msg, At: time.Now().UTC()})
	r.logger.WithField("stage", string(stage)).Info(msg)
}

func (r *Runner) fail(stage Stage, err error) error {
	r.bus.publish(RunEvent{Stage: stage, Error: err.Error(), At: time.Now().UTC()})
	r.logger.WithError(err).WithField("stage", string(stage)).Error("Pipeline stage failed")
	return err
}

// Run executes the full pipeline over [from, to].
func (r *Runner) Run(ctx context.Context, from, to time.Time) (*Result, error) {
	startedAt := time.Now().UTC()

	r.emit(StageUniverse, "Loading universe %s", r.cfg.Universe.ID)
	constituents, err := r.universe.List(ctx, r.cfg.Universe.ID)
	if err != nil {
		return nil, r.fail(StageUniverse, fmt.Errorf("load universe: %w", err))
	}
	if len(constituents) == 0 {
		return nil, r.fail(StageUniverse, fmt.Errorf("universe %s is empty", r.cfg.Universe.ID))
	}
	assets := make([]string, len(constituents))
	for i, c := range constituents {
		assets[i] = c.Asset
	}

	r.emit(StageMarket, "Loading market data for %d assets", len(assets))
	market, err := r.market.Load(ctx, assets, from, to)
	if err != nil {
		return nil, r.fail(StageMarket, err)
	}

	r.emit(StageFundamentals, "Building fundamentals panel")
	funds, err := r.fundamentals.IndicatorPanel(ctx, market.Times(), assets)
	if err != nil {
		return nil, r.fail(StageFundamentals, err)
	}

	r.emit(StageWeights, "Computing weights")
	weights, err := r.calc.Weights(market, funds)
	if err != nil {
		return nil, r.fail(StageWeights, err)
	}

	r.emit(StageFallback, "Filling pre-signal buy-and-hold window")
	weights, err = r.calc.FillBuyAndHold(market, weights)
	if err != nil {
		return nil, r.fail(StageFallback, err)
	}

	r.emit(StageClean, "Cleaning weights")
	weights, err = r.cleaner.Clean(weights, market, r.cfg.Universe.ID)
	if err != nil {
		return nil, r.fail(StageClean, err)
	}

	r.emit(StageCheck, "Validating weights")
	check, err := r.checker.Check(weights, market, r.cfg.Universe.ID)
	if err != nil {
		return nil, r.fail(StageCheck, err)
	}
	if !check.Passed {
		r.emit(StageCheck, "Validation failed with %d diagnostics", len(check.Diagnostics))
	}

	r.emit(StageStats, "Computing statistics")
	statsReport, err := r.stats.Compute(market, weights, from, to)
	if err != nil {
		return nil, r.fail(StageStats, err)
	}

	result := &Result{
		Weights: weights,
		Check:   check,
		Stats:   statsReport,
		Run: &output.Run{
			StrategyID: r.cfg.Meta.StrategyID,
			ConfigHash: r.configHash,
			FromDate:   from,
			ToDate:     to,
			Passed:     check.Passed,
			StartedAt:  startedAt,
			FinishedAt: time.Now().UTC(),
			Stats:      statsReport,
		},
	}

	if err := r.persist(ctx, result); err != nil {
		return nil, r.fail(StagePersist, err)
	}

	r.emit(StagePersist, "Run %d complete (passed=%t)", result.Run.ID, check.Passed)
	return result, nil
}

// persist stores the run and writes artifacts. Artifact failures are
// logged but do not fail the run once the database write succeeded.
func (r *Runner) persist(ctx context.Context, result *Result) error {
	r.emit(StagePersist, "Persisting run results")

	id, err := r.outRepo.SaveRun(ctx, result.Run)
	if err != nil {
		return fmt.Errorf("save run: %w", err)
	}
	result.Run.ID = id

	count, err := r.outRepo.SaveWeights(ctx, id, result.Weights)
	if err != nil {
		return fmt.Errorf("save weights: %w", err)
	}
	r.emit(StagePersist, "Stored %d weight rows", count)

	day := result.Run.ToDate
	if path, err := r.artifacts.WriteWeightsCSV(day, result.Weights); err != nil {
		r.logger.WithError(err).Warn("Weights CSV not written")
	} else {
		result.Artifacts = append(result.Artifacts, path)
	}
	if path, err := r.artifacts.WriteStatsJSON(day, result.Stats); err != nil {
		r.logger.WithError(err).Warn("Stats JSON not written")
	} else {
		result.Artifacts = append(result.Artifacts, path)
	}
	if path, err := r.report.Write(day, result.Stats); err != nil {
		r.logger.WithError(err).Warn("Excel report not written")
	} else {
		result.Artifacts = append(result.Artifacts, path)
	}

	return nil
}
