package edgar

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/minslab/revmomo/pkg/config"
	"github.com/minslab/revmomo/pkg/httputil"
	"github.com/minslab/revmomo/pkg/logger"
	"github.com/minslab/revmomo/pkg/redis"
)

// Revenue concept tags tried in order. Filers moved from Revenues to
// the ASC 606 contract-revenue tag over time, so both must be checked.
var revenueTags = []string{
	"Revenues",
	"RevenueFromContractWithCustomerExcludingAssessedTax",
	"RevenueFromContractWithCustomerIncludingAssessedTax",
	"SalesRevenueNet",
}

// Client handles communication with the SEC EDGAR data API.
// SSOT: EDGAR calls happen in this client only.
type Client struct {
	httpClient *httputil.Client
	cache      *redis.Cache
	logger     *logger.Logger
	baseURL    string
}

// NewClient creates a new EDGAR client. The SEC throttles by request
// rate and requires an identifying User-Agent; both come from config.
func NewClient(cfg *config.Config, httpClient *httputil.Client, cache *redis.Cache, log *logger.Logger) *Client {
	httpClient.
		WithRateLimit(cfg.EDGAR.RequestsPerSec).
		WithUserAgent(cfg.EDGAR.UserAgent)

	return &Client{
		httpClient: httpClient,
		cache:      cache,
		logger:     log,
		baseURL:    strings.TrimRight(cfg.EDGAR.BaseURL, "/"),
	}
}

// RevenueFact is one reported revenue figure from a 10-Q or 10-K.
type RevenueFact struct {
	PeriodStart time.Time `json:"period_start"`
	PeriodEnd   time.Time `json:"period_end"`
	Filed       time.Time `json:"filed"`
	Value       float64   `json:"value"`
	Form        string    `json:"form"`
	Tag         string    `json:"tag"`
}

// conceptResponse mirrors the companyconcept JSON shape.
type conceptResponse struct {
	Units map[string][]conceptFact `json:"units"`
}

type conceptFact struct {
	Start string  `json:"start"`
	End   string  `json:"end"`
	Val   float64 `json:"val"`
	Form  string  `json:"form"`
	Filed string  `json:"filed"`
	Frame string  `json:"frame,omitempty"`
}

// QuarterlyRevenue fetches quarterly revenue facts for a CIK, trying
// each revenue tag until one returns usable data.
func (c *Client) QuarterlyRevenue(ctx context.Context, asset string, cik int64) ([]RevenueFact, error) {
	for _, tag := range revenueTags {
		facts, err := c.conceptFacts(ctx, asset, cik, tag)
		if err != nil {
			c.logger.WithFields(map[string]interface{}{
				"asset": asset,
				"tag":   tag,
				"error": err.Error(),
			}).Debug("Concept tag unavailable")
			continue
		}

		if len(facts) > 0 {
			return facts, nil
		}
	}

	return nil, fmt.Errorf("no quarterly revenue facts for %s (CIK %d)", asset, cik)
}

// conceptFacts fetches and filters one concept tag.
func (c *Client) conceptFacts(ctx context.Context, asset string, cik int64, tag string) ([]RevenueFact, error) {
	url := fmt.Sprintf("%s/api/xbrl/companyconcept/CIK%010d/us-gaap/%s.json", c.baseURL, cik, tag)

	var resp conceptResponse
	err := c.cache.GetOrSet(ctx, redis.FactsKey(asset, tag), &resp, redis.TTLDaily, func() (interface{}, error) {
		body, err := c.httpClient.GetBody(ctx, url)
		if err != nil {
			return nil, err
		}

		var parsed conceptResponse
		if err := json.Unmarshal(body, &parsed); err != nil {
			return nil, fmt.Errorf("parse concept response: %w", err)
		}
		return parsed, nil
	})
	if err != nil {
		return nil, err
	}

	usd, ok := resp.Units["USD"]
	if !ok {
		return nil, fmt.Errorf("no USD unit for %s", tag)
	}

	facts := make([]RevenueFact, 0, len(usd))
	for _, f := range usd {
		fact, ok := parseQuarterlyFact(f, tag)
		if !ok {
			continue
		}
		facts = append(facts, fact)
	}

	return facts, nil
}

// parseQuarterlyFact keeps only single-quarter durations from 10-Q and
// 10-K filings. Annual and year-to-date durations are dropped; the LTM
// builder sums quarters itself.
func parseQuarterlyFact(f conceptFact, tag string) (RevenueFact, bool) {
	if f.Form != "10-Q" && f.Form != "10-K" && f.Form != "10-K/A" && f.Form != "10-Q/A" {
		return RevenueFact{}, false
	}

	start, err := time.Parse("2006-01-02", f.Start)
	if err != nil {
		return RevenueFact{}, false
	}
	end, err := time.Parse("2006-01-02", f.End)
	if err != nil {
		return RevenueFact{}, false
	}
	filed, err := time.Parse("2006-01-02", f.Filed)
	if err != nil {
		return RevenueFact{}, false
	}

	// A fiscal quarter runs 80-100 days.
	days := end.Sub(start).Hours() / 24
	if days < 80 || days > 100 {
		return RevenueFact{}, false
	}

	return RevenueFact{
		PeriodStart: start,
		PeriodEnd:   end,
		Filed:       filed,
		Value:       f.Val,
		Form:        f.Form,
		Tag:         tag,
	}, true
}
