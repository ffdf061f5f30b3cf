package strategyconfig

import (
	"fmt"
	"time"
)

// ValidationError is a hard constraint violation; loading stops.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks all required constraints.
func Validate(cfg *Config) error {
	// === Meta ===
	if cfg.Meta.StrategyID == "" {
		return ValidationError{"meta.strategy_id", "required"}
	}

	// === Universe ===
	if cfg.Universe.ID == "" {
		return ValidationError{"universe.id", "required"}
	}
	if cfg.Universe.MinDate != "" {
		if _, err := time.Parse("2006-01-02", cfg.Universe.MinDate); err != nil {
			return ValidationError{"universe.min_date", "must be YYYY-MM-DD"}
		}
	}
	if cfg.Universe.Gate.ADVWindow <= 0 {
		return ValidationError{"universe.liquidity.adv_window", "must be > 0"}
	}
	if cfg.Universe.Gate.MinDollarVolume < 0 {
		return ValidationError{"universe.liquidity.min_dollar_volume", "must be >= 0"}
	}

	// === Signal ===
	if cfg.Signal.Indicator == "" {
		return ValidationError{"signal.indicator", "required"}
	}
	if cfg.Signal.LookbackSteps <= 0 {
		return ValidationError{"signal.lookback_steps", "must be > 0"}
	}

	// === Stats ===
	if cfg.Stats.TradingDaysYear <= 0 {
		return ValidationError{"stats.trading_days_year", "must be > 0"}
	}
	if cfg.Stats.RiskFreeRate < 0 || cfg.Stats.RiskFreeRate > 0.2 {
		return ValidationError{"stats.risk_free_rate", "must be in [0, 0.2]"}
	}

	// === Output ===
	if cfg.Output.MaxGrossExposure <= 0 {
		return ValidationError{"output.max_gross_exposure", "must be > 0"}
	}
	if cfg.Output.MinHistoryDays < 0 {
		return ValidationError{"output.min_history_days", "must be >= 0"}
	}

	return nil
}
