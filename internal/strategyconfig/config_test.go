package strategyconfig

import (
	"os"
	"path/filepath"
	"testing"
)

const validYAML = `
meta:
  strategy_id: nasdaq100_revenue_growth
  version: 1.0.0
universe:
  id: stocks_nasdaq100
  min_date: 2006-01-01
  liquidity:
    adv_window: 20
    min_dollar_volume: 5000000
signal:
  indicator: total_revenue
  lookback_steps: 65
stats:
  risk_free_rate: 0
  trading_days_year: 252
output:
  max_gross_exposure: 1.0
  min_history_days: 252
`

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "strategy.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write temp config: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeTempConfig(t, validYAML)

	cfg, yamlData, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Meta.StrategyID != "nasdaq100_revenue_growth" {
		t.Errorf("expected strategy_id=nasdaq100_revenue_growth, got %s", cfg.Meta.StrategyID)
	}
	if cfg.Signal.LookbackSteps != 65 {
		t.Errorf("expected lookback_steps=65, got %d", cfg.Signal.LookbackSteps)
	}
	if len(yamlData) == 0 {
		t.Error("expected raw yaml bytes")
	}

	hash, err := Hash(cfg)
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}
	if len(hash) != 64 {
		t.Errorf("expected 64 char hash, got %d", len(hash))
	}

	// Same config → same hash
	hash2, _ := Hash(cfg)
	if hash != hash2 {
		t.Error("hash not deterministic")
	}
}

func TestLoadRejectsUnknownFields(t *testing.T) {
	path := writeTempConfig(t, validYAML+"\nbogus_section:\n  x: 1\n")

	_, _, err := Load(path)
	if err == nil {
		t.Fatal("expected error for unknown field")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing strategy_id", func(c *Config) { c.Meta.StrategyID = "" }},
		{"missing universe id", func(c *Config) { c.Universe.ID = "" }},
		{"bad min_date", func(c *Config) { c.Universe.MinDate = "01/01/2006" }},
		{"zero adv window", func(c *Config) { c.Universe.Gate.ADVWindow = 0 }},
		{"missing indicator", func(c *Config) { c.Signal.Indicator = "" }},
		{"zero lookback", func(c *Config) { c.Signal.LookbackSteps = 0 }},
		{"zero trading days", func(c *Config) { c.Stats.TradingDaysYear = 0 }},
		{"negative rf", func(c *Config) { c.Stats.RiskFreeRate = -0.01 }},
		{"zero exposure cap", func(c *Config) { c.Output.MaxGrossExposure = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := Validate(cfg); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestDefaultIsValid(t *testing.T) {
	if err := Validate(Default()); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestHashChangesWithConfig(t *testing.T) {
	a := Default()
	b := Default()
	b.Signal.LookbackSteps = 130

	hashA, _ := Hash(a)
	hashB, _ := Hash(b)

	if hashA == hashB {
		t.Error("different configs must hash differently")
	}
}
