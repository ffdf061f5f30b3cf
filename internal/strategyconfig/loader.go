package strategyconfig

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"

	"gopkg.in/yaml.v3"
)

// Load reads a YAML strategy file and returns Config with raw bytes.
// KnownFields(true) makes typos and unused fields fail immediately.
func Load(path string) (*Config, []byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}

	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return nil, nil, err
	}

	if err := Validate(&cfg); err != nil {
		return nil, data, err
	}

	return &cfg, data, nil
}

// Hash generates a SHA256 hash of the config (canonical JSON). Structs
// rather than maps keep the field order, and therefore the hash,
// reproducible. The hash is stored with every persisted weight run.
func Hash(cfg *Config) (string, error) {
	jsonBytes, err := json.Marshal(cfg)
	if err != nil {
		return "", err
	}

	sum := sha256.Sum256(jsonBytes)
	return hex.EncodeToString(sum[:]), nil
}

// Default returns the built-in strategy definition, used when no YAML
// file is configured.
func Default() *Config {
	return &Config{
		Meta: Meta{
			StrategyID: "nasdaq100_revenue_growth",
			Version:    "1.0.0",
		},
		Universe: Universe{
			ID:      "stocks_nasdaq100",
			MinDate: "2006-01-01",
			Gate: Liquidity{
				ADVWindow:       20,
				MinDollarVolume: 5_000_000,
			},
		},
		Signal: Signal{
			Indicator:     "total_revenue",
			LookbackSteps: 65,
		},
		Stats: Stats{
			RiskFreeRate:    0,
			TradingDaysYear: 252,
		},
		Output: Output{
			MaxGrossExposure: 1.0,
			MinHistoryDays:   252,
		},
	}
}
