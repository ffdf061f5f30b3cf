package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/minslab/revmomo/internal/api"
	"github.com/minslab/revmomo/internal/api/handlers"
	"github.com/minslab/revmomo/internal/scheduler"
	"github.com/minslab/revmomo/internal/scheduler/jobs"
)

var (
	servePort      string
	serveScheduler bool
)

// serveCmd starts the API server, optionally with the job scheduler.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server",
	Long: `Starts the REST API server with the run event websocket.

Endpoints:
  GET  /health                 - Health check
  GET  /api/weights/latest     - Latest run weights
  GET  /api/weights/{day}      - Weights on a specific day
  GET  /api/runs               - Run history
  POST /api/runs/trigger       - Start a pipeline run
  GET  /api/stats              - Latest performance report
  GET  /api/universe           - Stored constituents
  POST /api/universe/refresh   - Refresh constituents
  WS   /ws/runs                - Run event stream

Example:
  go run ./cmd/revmomo serve
  go run ./cmd/revmomo serve --port 8091 --with-scheduler`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&servePort, "port", "", "API server port (default from env)")
	serveCmd.Flags().BoolVar(&serveScheduler, "with-scheduler", false, "run scheduled jobs in-process")
}

func runServe(cmd *cobra.Command, args []string) error {
	fmt.Println("=== revmomo API server ===")

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if servePort != "" {
		a.cfg.Port = servePort
	}

	weightsHandler := handlers.NewWeightsHandler(a.outRepo, a.log)
	runsHandler := handlers.NewRunsHandler(a.outRepo, a.runner, a.scfg, a.log)
	universeHandler := handlers.NewUniverseHandler(a.universeSvc, a.scfg.Universe.ID, a.log)
	streamHandler := handlers.NewStreamHandler(a.runner, a.log)

	router := api.NewRouter(weightsHandler, runsHandler, universeHandler, streamHandler, a.log)
	server := api.New(a.cfg, a.log, router)

	var sched *scheduler.Scheduler
	if serveScheduler {
		sched, err = buildScheduler(a)
		if err != nil {
			return err
		}
		sched.Start()
		defer sched.Stop()
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		a.log.WithField("signal", sig.String()).Info("Shutdown signal received")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return server.Shutdown(ctx)
}

// buildScheduler registers the standing jobs.
func buildScheduler(a *app) (*scheduler.Scheduler, error) {
	sched := scheduler.New(a.log)

	standing := []scheduler.Job{
		jobs.NewUniverseJob(a.universeSvc, a.scfg.Universe.ID, a.log),
		jobs.NewDataCollectionJob(a.universeSvc, a.marketFetcher, a.fundsFetcher, a.scfg.Universe.ID, a.log),
		jobs.NewStrategyRunJob(a.runner, a.scfg, a.log),
	}
	for _, job := range standing {
		if err := sched.AddJob(job); err != nil {
			return nil, err
		}
	}
	return sched, nil
}
