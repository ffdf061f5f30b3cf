package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/minslab/revmomo/internal/output"
	"github.com/minslab/revmomo/internal/pipeline"
	"github.com/minslab/revmomo/internal/strategyconfig"
	"github.com/minslab/revmomo/pkg/logger"
)

// RunsHandler serves run history and triggers new runs.
// SSOT: the runs API surface lives here only.
type RunsHandler struct {
	repo   *output.Repository
	runner *pipeline.Runner
	cfg    *strategyconfig.Config
	logger *logger.Logger
}

// NewRunsHandler creates a runs handler.
func NewRunsHandler(repo *output.Repository, runner *pipeline.Runner, cfg *strategyconfig.Config, log *logger.Logger) *RunsHandler {
	return &RunsHandler{repo: repo, runner: runner, cfg: cfg, logger: log}
}

// List returns recent runs, newest first. ?limit=N caps the count.
func (h *RunsHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			respondError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	runs, err := h.repo.ListRuns(r.Context(), limit)
	if err != nil {
		h.logger.WithError(err).Error("Run list lookup failed")
		respondError(w, http.StatusInternalServerError, "lookup failed")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count": len(runs),
		"runs":  runs,
	})
}

// GetStats returns the latest run's performance report.
func (h *RunsHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	run, err := h.repo.LatestRun(r.Context())
	if err == pgx.ErrNoRows {
		respondError(w, http.StatusNotFound, "no runs yet")
		return
	}
	if err != nil {
		h.logger.WithError(err).Error("Latest run lookup failed")
		respondError(w, http.StatusInternalServerError, "lookup failed")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"run_id":      run.ID,
		"config_hash": run.ConfigHash,
		"stats":       run.Stats,
	})
}

// Trigger starts a pipeline run in the background. Progress streams
// over /ws/runs.
func (h *RunsHandler) Trigger(w http.ResponseWriter, r *http.Request) {
	from, err := time.Parse("2006-01-02", h.cfg.Universe.MinDate)
	if err != nil {
		h.logger.WithError(err).Error("Bad min_date in config")
		respondError(w, http.StatusInternalServerError, "bad strategy config")
		return
	}
	to := time.Now().UTC().Truncate(24 * time.Hour)

	// The request context dies with this handler; the run gets its own.
	go func() {
		if _, err := h.runner.Run(context.Background(), from, to); err != nil {
			h.logger.WithError(err).Error("Triggered run failed")
		}
	}()

	respondJSON(w, http.StatusAccepted, map[string]string{
		"status": "run started",
		"from":   from.Format("2006-01-02"),
		"to":     to.Format("2006-01-02"),
	})
}
