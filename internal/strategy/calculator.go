package strategy

import (
	"fmt"

	"github.com/minslab/revmomo/internal/frame"
	"github.com/minslab/revmomo/pkg/logger"
)

// Params defines the revenue-growth rule.
type Params struct {
	Indicator     string // fundamental indicator, normally total_revenue
	LookbackSteps int    // trading-step lag for the growth comparison
}

// DefaultParams returns the competition configuration: LTM total
// revenue compared against its value 65 trading steps earlier
// (roughly one fiscal quarter).
func DefaultParams() Params {
	return Params{
		Indicator:     frame.IndicatorTotalRevenue,
		LookbackSteps: 65,
	}
}

// Calculator turns market and fundamental frames into a weight series.
// Pure and stateless: the same inputs always produce the same output.
type Calculator struct {
	params Params
	logger *logger.Logger
}

// NewCalculator creates a new weight calculator.
func NewCalculator(params Params, log *logger.Logger) *Calculator {
	return &Calculator{
		params: params,
		logger: log,
	}
}

// Weights computes the per-day, per-asset allocation signal:
//
//	signal[t,a] = 1 if indicator[t,a] > indicator[t-lookback,a] else 0
//	weight[t,a] = signal[t,a] * is_liquid[t,a]
//
// A comparison against missing history takes the 0 branch, so no buy
// is ever triggered before the indicator has enough history. The
// liquidity gate is absolute: illiquid assets get weight 0 regardless
// of signal. No short positions are produced.
func (c *Calculator) Weights(market, fundamentals *frame.Panel) (*frame.Matrix, error) {
	revenue, err := fundamentals.MustField(c.params.Indicator)
	if err != nil {
		return nil, fmt.Errorf("fundamentals frame: %w", err)
	}

	liquid, err := market.MustField(frame.FieldIsLiquid)
	if err != nil {
		return nil, fmt.Errorf("market frame: %w", err)
	}

	lagged := revenue.Shift(c.params.LookbackSteps)

	signal, err := revenue.Gt(lagged)
	if err != nil {
		return nil, fmt.Errorf("growth signal: %w", err)
	}

	weights, err := signal.Mul(liquid)
	if err != nil {
		return nil, fmt.Errorf("liquidity gate: %w", err)
	}

	c.logger.WithFields(map[string]interface{}{
		"indicator": c.params.Indicator,
		"lookback":  c.params.LookbackSteps,
		"days":      weights.NumTimes(),
		"assets":    weights.NumAssets(),
	}).Info("Weights calculated")

	return weights, nil
}
