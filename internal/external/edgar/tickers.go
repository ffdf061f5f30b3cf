package edgar

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

const cikMapTTL = 24 * time.Hour

// tickerEntry mirrors one record of the SEC company_tickers.json file.
type tickerEntry struct {
	CIK    int64  `json:"cik_str"`
	Ticker string `json:"ticker"`
	Title  string `json:"title"`
}

// CIKMap fetches the SEC ticker-to-CIK mapping. The file lives on
// www.sec.gov rather than the data API host.
func (c *Client) CIKMap(ctx context.Context) (map[string]int64, error) {
	const url = "https://www.sec.gov/files/company_tickers.json"

	var raw map[string]tickerEntry
	err := c.cache.GetOrSet(ctx, "edgar:cik_map", &raw, cikMapTTL, func() (interface{}, error) {
		body, err := c.httpClient.GetBody(ctx, url)
		if err != nil {
			return nil, err
		}

		var parsed map[string]tickerEntry
		if err := json.Unmarshal(body, &parsed); err != nil {
			return nil, fmt.Errorf("parse company tickers: %w", err)
		}
		return parsed, nil
	})
	if err != nil {
		return nil, err
	}

	out := make(map[string]int64, len(raw))
	for _, entry := range raw {
		out[strings.ToUpper(entry.Ticker)] = entry.CIK
	}

	return out, nil
}
