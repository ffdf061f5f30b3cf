package universe

import (
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/minslab/revmomo/pkg/httputil"
	"github.com/minslab/revmomo/pkg/logger"
)

// Constituent is one member of the tradable universe.
type Constituent struct {
	Asset string `json:"asset"`
	Name  string `json:"name"`
	CIK   int64  `json:"cik,omitempty"`
}

// Scraper pulls the current NASDAQ-100 constituent table from a public
// index page.
type Scraper struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	pageURL    string
}

// NewScraper creates a constituents scraper.
func NewScraper(httpClient *httputil.Client, log *logger.Logger, pageURL string) *Scraper {
	return &Scraper{
		httpClient: httpClient,
		logger:     log,
		pageURL:    pageURL,
	}
}

// Fetch downloads and parses the constituents table.
func (s *Scraper) Fetch(ctx context.Context) ([]Constituent, error) {
	resp, err := s.httpClient.Get(ctx, s.pageURL)
	if err != nil {
		return nil, fmt.Errorf("fetch constituents page: %w", err)
	}
	defer resp.Body.Close()

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse constituents page: %w", err)
	}

	constituents := parseConstituents(doc)
	if len(constituents) == 0 {
		return nil, fmt.Errorf("no constituents found at %s", s.pageURL)
	}

	s.logger.WithFields(map[string]interface{}{
		"url":   s.pageURL,
		"count": len(constituents),
	}).Info("Constituents scraped")

	return constituents, nil
}

// parseConstituents reads the table with id "constituents": one row
// per member with ticker and company columns.
func parseConstituents(doc *goquery.Document) []Constituent {
	var out []Constituent

	doc.Find("table#constituents tbody tr").Each(func(i int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 2 {
			return
		}

		ticker := strings.TrimSpace(cells.Eq(0).Text())
		name := strings.TrimSpace(cells.Eq(1).Text())

		// Some layouts put the company first and the ticker second.
		if ticker != "" && !looksLikeTicker(ticker) && looksLikeTicker(name) {
			ticker, name = name, ticker
		}

		if !looksLikeTicker(ticker) {
			return
		}

		out = append(out, Constituent{
			Asset: strings.ToUpper(ticker),
			Name:  name,
		})
	})

	return out
}

// looksLikeTicker accepts 1-5 letter symbols, allowing class suffixes
// like GOOGL or BRK.B.
func looksLikeTicker(s string) bool {
	if len(s) == 0 || len(s) > 6 {
		return false
	}
	for _, r := range s {
		if (r < 'A' || r > 'Z') && r != '.' {
			return false
		}
	}
	return true
}
