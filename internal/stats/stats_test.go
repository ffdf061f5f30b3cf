package stats

import (
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minslab/revmomo/internal/frame"
	"github.com/minslab/revmomo/internal/strategyconfig"
	"github.com/minslab/revmomo/pkg/logger"
)

func tradingDays(n int) []time.Time {
	days := make([]time.Time, 0, n)
	d := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	for len(days) < n {
		if d.Weekday() != time.Saturday && d.Weekday() != time.Sunday {
			days = append(days, d)
		}
		d = d.AddDate(0, 0, 1)
	}
	return days
}

func newCalculator() *Calculator {
	return NewCalculator(strategyconfig.Stats{
		RiskFreeRate:    0,
		TradingDaysYear: 252,
	}, logger.NewWriter(io.Discard))
}

// singleAsset builds a market with one asset following the given close
// prices and a fully-invested weight series.
func singleAsset(closes []float64) (*frame.Panel, *frame.Matrix) {
	days := tradingDays(len(closes))
	assets := []string{"AAPL"}

	market := frame.NewPanel(days, assets)
	closeM := market.AddField(frame.FieldClose)
	for ti, c := range closes {
		closeM.SetAt(ti, 0, c)
	}
	liquid := market.AddField(frame.FieldIsLiquid)
	liquid.Fill(1)

	weights := frame.NewMatrix(days, assets)
	weights.Fill(1)

	return market, weights
}

func fullRange(p *frame.Panel) (time.Time, time.Time) {
	times := p.Times()
	return times[0], times[len(times)-1]
}

func TestComputeEquityCurve(t *testing.T) {
	// 100 → 110 → 99: +10% then -10%, equity ends at 0.99.
	market, weights := singleAsset([]float64{100, 110, 99})
	from, to := fullRange(market)

	report, err := newCalculator().Compute(market, weights, from, to)
	require.NoError(t, err)

	require.Len(t, report.EquityCurve, 2)
	assert.InDelta(t, 1.10, report.EquityCurve[0].Equity, 1e-9)
	assert.InDelta(t, 0.99, report.EquityCurve[1].Equity, 1e-9)
	assert.InDelta(t, -0.01, report.TotalReturn, 1e-9)
	assert.Equal(t, 2, report.Days)
	assert.Equal(t, 1, report.Instruments)
}

func TestComputeMaxDrawdown(t *testing.T) {
	// Peak at 120, trough at 90: drawdown = (90-120)/120 = -0.25.
	market, weights := singleAsset([]float64{100, 120, 90, 95})
	from, to := fullRange(market)

	report, err := newCalculator().Compute(market, weights, from, to)
	require.NoError(t, err)

	assert.InDelta(t, -0.25, report.MaxDrawdown, 1e-9)
}

func TestComputeWinRate(t *testing.T) {
	// Returns: +, -, + → win rate 2/3.
	market, weights := singleAsset([]float64{100, 101, 100, 102})
	from, to := fullRange(market)

	report, err := newCalculator().Compute(market, weights, from, to)
	require.NoError(t, err)

	assert.InDelta(t, 2.0/3.0, report.WinRate, 1e-9)
}

func TestComputeTurnover(t *testing.T) {
	days := tradingDays(3)
	assets := []string{"A", "B"}

	market := frame.NewPanel(days, assets)
	closeM := market.AddField(frame.FieldClose)
	for ti := range days {
		closeM.SetAt(ti, 0, 100)
		closeM.SetAt(ti, 1, 100)
	}

	weights := frame.NewMatrix(days, assets)
	// Day 0: all in A. Day 1: all in B. Day 2: unchanged.
	weights.SetAt(0, 0, 1)
	weights.SetAt(0, 1, 0)
	weights.SetAt(1, 0, 0)
	weights.SetAt(1, 1, 1)
	weights.SetAt(2, 0, 0)
	weights.SetAt(2, 1, 1)

	report, err := newCalculator().Compute(market, weights, days[0], days[2])
	require.NoError(t, err)

	// Day 1 turnover = |0-1| + |1-0| = 2; day 2 turnover = 0.
	assert.InDelta(t, 1.0, report.AvgTurnover, 1e-9)
}

func TestComputeFlatMarketHasZeroVolAndSharpe(t *testing.T) {
	market, weights := singleAsset([]float64{100, 100, 100, 100})
	from, to := fullRange(market)

	report, err := newCalculator().Compute(market, weights, from, to)
	require.NoError(t, err)

	assert.Equal(t, 0.0, report.Volatility)
	assert.Equal(t, 0.0, report.SharpeRatio)
	assert.Equal(t, 0.0, report.TotalReturn)
}

func TestComputeMissingCloseContributesNothing(t *testing.T) {
	days := tradingDays(3)
	assets := []string{"A"}

	market := frame.NewPanel(days, assets)
	closeM := market.AddField(frame.FieldClose)
	closeM.SetAt(0, 0, 100)
	// day 1 close missing
	closeM.SetAt(2, 0, 200)

	weights := frame.NewMatrix(days, assets)
	weights.Fill(1)

	report, err := newCalculator().Compute(market, weights, days[0], days[2])
	require.NoError(t, err)

	// Both daily returns involve a NaN close and must be 0.
	assert.Equal(t, 0.0, report.TotalReturn)
}

func TestComputeRangeRestriction(t *testing.T) {
	market, weights := singleAsset([]float64{100, 110, 121, 133.1})
	times := market.Times()

	// Only the final day in range.
	report, err := newCalculator().Compute(market, weights, times[3], times[3])
	require.NoError(t, err)

	assert.Equal(t, 1, report.Days)
	assert.InDelta(t, 0.10, report.TotalReturn, 1e-9)
}

func TestComputeEmptyRangeErrors(t *testing.T) {
	market, weights := singleAsset([]float64{100, 110})

	from := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 5)

	_, err := newCalculator().Compute(market, weights, from, to)
	assert.Error(t, err)
}

func TestComputeMissingCloseFieldErrors(t *testing.T) {
	days := tradingDays(2)
	market := frame.NewPanel(days, []string{"A"})
	weights := frame.NewMatrix(days, []string{"A"})

	_, err := newCalculator().Compute(market, weights, days[0], days[1])
	assert.Error(t, err)
}
