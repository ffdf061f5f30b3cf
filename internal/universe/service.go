package universe

import (
	"context"
	"fmt"

	"github.com/minslab/revmomo/internal/external/edgar"
	"github.com/minslab/revmomo/pkg/logger"
)

// Service refreshes and serves universe membership.
type Service struct {
	scraper *Scraper
	repo    *Repository
	edgar   *edgar.Client
	logger  *logger.Logger
}

// NewService creates a universe service.
func NewService(scraper *Scraper, repo *Repository, edgarClient *edgar.Client, log *logger.Logger) *Service {
	return &Service{
		scraper: scraper,
		repo:    repo,
		edgar:   edgarClient,
		logger:  log,
	}
}

// Refresh scrapes the current constituents, resolves SEC CIKs and
// upserts the result. Assets without a CIK mapping are kept but get
// a warning since fundamentals cannot be fetched for them.
func (s *Service) Refresh(ctx context.Context, universeID string) ([]Constituent, error) {
	constituents, err := s.scraper.Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("refresh universe %s: %w", universeID, err)
	}

	cikMap, err := s.edgar.CIKMap(ctx)
	if err != nil {
		return nil, fmt.Errorf("resolve ciks: %w", err)
	}

	missing := 0
	for i := range constituents {
		if cik, ok := cikMap[constituents[i].Asset]; ok {
			constituents[i].CIK = cik
		} else {
			missing++
			s.logger.WithField("asset", constituents[i].Asset).Warn("No CIK mapping")
		}
	}

	if err := s.repo.Save(ctx, universeID, constituents); err != nil {
		return nil, fmt.Errorf("save universe %s: %w", universeID, err)
	}

	s.logger.WithFields(map[string]interface{}{
		"universe":    universeID,
		"count":       len(constituents),
		"missing_cik": missing,
	}).Info("Universe refreshed")

	return constituents, nil
}

// List returns the stored constituents.
func (s *Service) List(ctx context.Context, universeID string) ([]Constituent, error) {
	return s.repo.List(ctx, universeID)
}
