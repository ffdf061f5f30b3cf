package handlers

import (
	"net/http"

	"github.com/minslab/revmomo/internal/universe"
	"github.com/minslab/revmomo/pkg/logger"
)

// UniverseHandler serves and refreshes universe membership.
// SSOT: the universe API surface lives here only.
type UniverseHandler struct {
	service    *universe.Service
	universeID string
	logger     *logger.Logger
}

// NewUniverseHandler creates a universe handler.
func NewUniverseHandler(service *universe.Service, universeID string, log *logger.Logger) *UniverseHandler {
	return &UniverseHandler{service: service, universeID: universeID, logger: log}
}

// List returns the stored constituents.
func (h *UniverseHandler) List(w http.ResponseWriter, r *http.Request) {
	constituents, err := h.service.List(r.Context(), h.universeID)
	if err != nil {
		h.logger.WithError(err).Error("Universe lookup failed")
		respondError(w, http.StatusInternalServerError, "lookup failed")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"universe":     h.universeID,
		"count":        len(constituents),
		"constituents": constituents,
	})
}

// Refresh scrapes and stores the current constituent list.
func (h *UniverseHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	constituents, err := h.service.Refresh(r.Context(), h.universeID)
	if err != nil {
		h.logger.WithError(err).Error("Universe refresh failed")
		respondError(w, http.StatusBadGateway, "refresh failed")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"universe": h.universeID,
		"count":    len(constituents),
	})
}
