package stooq

import (
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/minslab/revmomo/pkg/config"
	"github.com/minslab/revmomo/pkg/httputil"
	"github.com/minslab/revmomo/pkg/logger"
)

// Client fetches daily bar history from the Stooq CSV endpoint.
// SSOT: Stooq calls happen in this client only.
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	baseURL    string
}

// NewClient creates a new Stooq client.
func NewClient(cfg *config.Config, httpClient *httputil.Client, log *logger.Logger) *Client {
	return &Client{
		httpClient: httpClient,
		logger:     log,
		baseURL:    strings.TrimRight(cfg.Stooq.BaseURL, "/"),
	}
}

// Bar is one daily OHLCV record.
type Bar struct {
	Asset  string    `json:"asset"`
	Day    time.Time `json:"day"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}

// DailyBars fetches full daily history for a US ticker.
func (c *Client) DailyBars(ctx context.Context, asset string) ([]Bar, error) {
	symbol := strings.ToLower(asset) + ".us"
	url := fmt.Sprintf("%s/q/d/l/?s=%s&i=d", c.baseURL, symbol)

	body, err := c.httpClient.GetBody(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("fetch bars for %s: %w", asset, err)
	}

	bars, err := parseCSV(asset, string(body))
	if err != nil {
		return nil, fmt.Errorf("parse bars for %s: %w", asset, err)
	}

	c.logger.WithFields(map[string]interface{}{
		"asset": asset,
		"bars":  len(bars),
	}).Debug("Daily bars fetched")

	return bars, nil
}

// parseCSV parses the Stooq daily CSV layout:
// Date,Open,High,Low,Close,Volume
func parseCSV(asset, data string) ([]Bar, error) {
	reader := csv.NewReader(strings.NewReader(data))
	records, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("empty response")
	}

	bars := make([]Bar, 0, len(records)-1)
	for i, rec := range records {
		if i == 0 {
			// Header row
			continue
		}
		if len(rec) < 6 {
			continue
		}

		day, err := time.Parse("2006-01-02", rec[0])
		if err != nil {
			continue
		}

		open, err1 := strconv.ParseFloat(rec[1], 64)
		high, err2 := strconv.ParseFloat(rec[2], 64)
		low, err3 := strconv.ParseFloat(rec[3], 64)
		closePx, err4 := strconv.ParseFloat(rec[4], 64)
		volume, err5 := strconv.ParseFloat(rec[5], 64)
		if err1 != nil || err2 != nil || err3 != nil || err4 != nil || err5 != nil {
			continue
		}

		bars = append(bars, Bar{
			Asset:  asset,
			Day:    day.UTC(),
			Open:   open,
			High:   high,
			Low:    low,
			Close:  closePx,
			Volume: volume,
		})
	}

	return bars, nil
}
