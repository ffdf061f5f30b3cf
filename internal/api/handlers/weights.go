package handlers

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5"

	"github.com/minslab/revmomo/internal/output"
	"github.com/minslab/revmomo/pkg/logger"
)

// WeightsHandler serves stored portfolio weights.
// SSOT: the weights API surface lives here only.
type WeightsHandler struct {
	repo   *output.Repository
	logger *logger.Logger
}

// NewWeightsHandler creates a weights handler.
func NewWeightsHandler(repo *output.Repository, log *logger.Logger) *WeightsHandler {
	return &WeightsHandler{repo: repo, logger: log}
}

// GetLatest returns the latest run's weights on its final day.
func (h *WeightsHandler) GetLatest(w http.ResponseWriter, r *http.Request) {
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

	weights, err := h.repo.LatestWeights(r.Context(), run.ID)
	if err != nil {
		h.logger.WithError(err).Error("Latest weights lookup failed")
		respondError(w, http.StatusInternalServerError, "lookup failed")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"run_id":  run.ID,
		"weights": weights,
	})
}

// GetByDay returns the latest run's weights on a specific day
// (YYYY-MM-DD).
func (h *WeightsHandler) GetByDay(w http.ResponseWriter, r *http.Request) {
	day, err := time.Parse("2006-01-02", mux.Vars(r)["day"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "day must be YYYY-MM-DD")
		return
	}

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

	weights, err := h.repo.WeightsForDay(r.Context(), run.ID, day)
	if err != nil {
		h.logger.WithError(err).Error("Weights lookup failed")
		respondError(w, http.StatusInternalServerError, "lookup failed")
		return
	}
	if len(weights) == 0 {
		respondError(w, http.StatusNotFound, "no weights for day")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"run_id":  run.ID,
		"day":     day.Format("2006-01-02"),
		"weights": weights,
	})
}
