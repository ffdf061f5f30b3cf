package commands

import (
	"fmt"
	"os"

	"github.com/minslab/revmomo/internal/cleanup"
	"github.com/minslab/revmomo/internal/external/edgar"
	"github.com/minslab/revmomo/internal/external/stooq"
	"github.com/minslab/revmomo/internal/fundamentals"
	"github.com/minslab/revmomo/internal/marketdata"
	"github.com/minslab/revmomo/internal/output"
	"github.com/minslab/revmomo/internal/pipeline"
	"github.com/minslab/revmomo/internal/report"
	"github.com/minslab/revmomo/internal/stats"
	"github.com/minslab/revmomo/internal/strategy"
	"github.com/minslab/revmomo/internal/strategyconfig"
	"github.com/minslab/revmomo/internal/universe"
	"github.com/minslab/revmomo/pkg/config"
	"github.com/minslab/revmomo/pkg/database"
	"github.com/minslab/revmomo/pkg/httputil"
	"github.com/minslab/revmomo/pkg/logger"
	"github.com/minslab/revmomo/pkg/redis"
)

// app wires every component a command might need.
// SSOT: dependency wiring happens here only.
type app struct {
	cfg  *config.Config
	scfg *strategyconfig.Config
	log  *logger.Logger

	db    *database.DB
	redis *redis.Client

	universeSvc   *universe.Service
	marketLoader  *marketdata.Loader
	marketFetcher *marketdata.Fetcher
	fundsFetcher  *fundamentals.Fetcher
	outRepo       *output.Repository
	runner        *pipeline.Runner
}

// newApp loads config and builds the full dependency graph.
func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	log := logger.New(cfg)

	scfg, err := loadStrategyConfig(cfg)
	if err != nil {
		return nil, err
	}

	db, err := database.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	redisClient, err := redis.New(cfg)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	cache := redis.NewCache(redisClient, "revmomo")

	httpClient := httputil.New(log)
	edgarClient := edgar.NewClient(cfg, httpClient, cache, log)
	stooqClient := stooq.NewClient(cfg, httputil.New(log), log)

	universeRepo := universe.NewRepository(db.Pool)
	scraper := universe.NewScraper(httputil.New(log), log, cfg.Strategy.UniverseURL)
	universeSvc := universe.NewService(scraper, universeRepo, edgarClient, log)

	marketRepo := marketdata.NewRepository(db.Pool)
	fundsRepo := fundamentals.NewRepository(db.Pool)
	outRepo := output.NewRepository(db.Pool)

	params := strategy.Params{
		Indicator:     scfg.Signal.Indicator,
		LookbackSteps: scfg.Signal.LookbackSteps,
	}

	marketLoader := marketdata.NewLoader(marketRepo, scfg.Universe.Gate, log)

	runner, err := pipeline.NewRunner(scfg, pipeline.RunnerDeps{
		Universe:     universeSvc,
		Market:       marketLoader,
		Fundamentals: fundamentals.NewBuilder(fundsRepo, log),
		Calculator:   strategy.NewCalculator(params, log),
		Cleaner:      cleanup.NewCleaner(scfg.Output, log),
		Checker:      cleanup.NewChecker(scfg.Output, log),
		Stats:        stats.NewCalculator(scfg.Stats, log),
		OutputRepo:   outRepo,
		Artifacts:    output.NewArtifactWriter(cfg.Strategy.ArtifactDir),
		Report:       report.NewWriter(cfg.Strategy.ArtifactDir, log),
	}, log)
	if err != nil {
		redisClient.Close()
		db.Close()
		return nil, fmt.Errorf("build pipeline: %w", err)
	}

	return &app{
		cfg:           cfg,
		scfg:          scfg,
		log:           log,
		db:            db,
		redis:         redisClient,
		universeSvc:   universeSvc,
		marketLoader:  marketLoader,
		marketFetcher: marketdata.NewFetcher(stooqClient, marketRepo, log),
		fundsFetcher:  fundamentals.NewFetcher(edgarClient, fundsRepo, log),
		outRepo:       outRepo,
		runner:        runner,
	}, nil
}

// Close releases database and cache connections.
func (a *app) Close() {
	a.redis.Close()
	a.db.Close()
}

// loadStrategyConfig reads the YAML strategy file, falling back to
// the built-in defaults when no path is configured.
func loadStrategyConfig(cfg *config.Config) (*strategyconfig.Config, error) {
	path := strategyFile
	if path == "" {
		path = cfg.Strategy.ConfigPath
	}
	if path == "" {
		return strategyconfig.Default(), nil
	}

	scfg, _, err := strategyconfig.Load(path)
	if err != nil {
		// An explicit --strategy flag must exist; the env default may not.
		if strategyFile == "" && os.IsNotExist(err) {
			return strategyconfig.Default(), nil
		}
		return nil, fmt.Errorf("load strategy config %s: %w", path, err)
	}
	return scfg, nil
}
