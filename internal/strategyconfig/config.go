package strategyconfig

// Config is the full YAML strategy definition.
type Config struct {
	Meta     Meta     `yaml:"meta" json:"meta"`
	Universe Universe `yaml:"universe" json:"universe"`
	Signal   Signal   `yaml:"signal" json:"signal"`
	Stats    Stats    `yaml:"stats" json:"stats"`
	Output   Output   `yaml:"output" json:"output"`
}

// Meta identifies the strategy for audit.
type Meta struct {
	StrategyID string `yaml:"strategy_id" json:"strategy_id"`
	Version    string `yaml:"version" json:"version"`
}

// Universe defines the tradable pool and the liquidity gate.
type Universe struct {
	ID      string    `yaml:"id" json:"id"`             // e.g. stocks_nasdaq100
	MinDate string    `yaml:"min_date" json:"min_date"` // YYYY-MM-DD, required weight history start
	Gate    Liquidity `yaml:"liquidity" json:"liquidity"`
}

// Liquidity parameterizes the is_liquid derivation: an asset is liquid
// on a day when its trailing average dollar volume clears the floor.
type Liquidity struct {
	ADVWindow       int     `yaml:"adv_window" json:"adv_window"`
	MinDollarVolume float64 `yaml:"min_dollar_volume" json:"min_dollar_volume"`
}

// Signal defines the revenue-growth rule.
type Signal struct {
	Indicator     string `yaml:"indicator" json:"indicator"`
	LookbackSteps int    `yaml:"lookback_steps" json:"lookback_steps"`
}

// Stats holds performance-statistics parameters.
type Stats struct {
	RiskFreeRate    float64 `yaml:"risk_free_rate" json:"risk_free_rate"`
	TradingDaysYear int     `yaml:"trading_days_year" json:"trading_days_year"`
}

// Output holds cleaning and check limits for the final weight series.
type Output struct {
	MaxGrossExposure float64 `yaml:"max_gross_exposure" json:"max_gross_exposure"`
	MinHistoryDays   int     `yaml:"min_history_days" json:"min_history_days"`
}
