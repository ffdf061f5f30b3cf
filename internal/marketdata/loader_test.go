package marketdata

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minslab/revmomo/internal/external/stooq"
	"github.com/minslab/revmomo/internal/frame"
	"github.com/minslab/revmomo/internal/strategyconfig"
)

func tradingDays(n int) []time.Time {
	days := make([]time.Time, 0, n)
	d := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	for len(days) < n {
		if wd := d.Weekday(); wd != time.Saturday && wd != time.Sunday {
			days = append(days, d)
		}
		d = d.AddDate(0, 0, 1)
	}
	return days
}

func TestBuildPanelFields(t *testing.T) {
	days := tradingDays(3)
	assets := []string{"AAPL", "MSFT"}
	gate := strategyconfig.Liquidity{ADVWindow: 2, MinDollarVolume: 1000}

	bars := []stooq.Bar{
		{Asset: "AAPL", Day: days[0], Close: 100, Volume: 50},
		{Asset: "AAPL", Day: days[1], Close: 110, Volume: 60},
		{Asset: "AAPL", Day: days[2], Close: 120, Volume: 70},
		{Asset: "MSFT", Day: days[0], Close: 200, Volume: 1},
	}

	panel := BuildPanel(days, assets, bars, gate)

	closes, err := panel.MustField(frame.FieldClose)
	require.NoError(t, err)
	got, ok := closes.Value(days[1], "AAPL")
	require.True(t, ok)
	assert.Equal(t, 110.0, got)

	// Missing bars stay NaN.
	got, ok = closes.Value(days[2], "MSFT")
	require.True(t, ok)
	assert.True(t, math.IsNaN(got))
}

func TestBuildPanelLiquidityGate(t *testing.T) {
	days := tradingDays(3)
	gate := strategyconfig.Liquidity{ADVWindow: 2, MinDollarVolume: 5000}

	bars := []stooq.Bar{
		// Dollar volumes: 6000, 4000, 8000. Two-day averages: 6000, 5000, 6000.
		{Asset: "AAPL", Day: days[0], Close: 100, Volume: 60},
		{Asset: "AAPL", Day: days[1], Close: 100, Volume: 40},
		{Asset: "AAPL", Day: days[2], Close: 100, Volume: 80},
	}

	panel := BuildPanel(days, []string{"AAPL"}, bars, gate)
	liquid, err := panel.MustField(frame.FieldIsLiquid)
	require.NoError(t, err)

	for ti, want := range []float64{1, 1, 1} {
		assert.Equal(t, want, liquid.At(ti, 0), "day %d", ti)
	}
}

func TestBuildPanelIlliquidBelowGate(t *testing.T) {
	days := tradingDays(2)
	gate := strategyconfig.Liquidity{ADVWindow: 1, MinDollarVolume: 5000}

	bars := []stooq.Bar{
		{Asset: "AAPL", Day: days[0], Close: 100, Volume: 60}, // 6000
		{Asset: "AAPL", Day: days[1], Close: 100, Volume: 10}, // 1000
	}

	panel := BuildPanel(days, []string{"AAPL"}, bars, gate)
	liquid, err := panel.MustField(frame.FieldIsLiquid)
	require.NoError(t, err)

	assert.Equal(t, 1.0, liquid.At(0, 0))
	assert.Equal(t, 0.0, liquid.At(1, 0))
}

func TestBuildPanelMissingDataNeverLiquid(t *testing.T) {
	days := tradingDays(2)
	gate := strategyconfig.Liquidity{ADVWindow: 1, MinDollarVolume: 0}

	bars := []stooq.Bar{
		{Asset: "AAPL", Day: days[0], Close: 100, Volume: 60},
	}

	panel := BuildPanel(days, []string{"AAPL"}, bars, gate)
	liquid, err := panel.MustField(frame.FieldIsLiquid)
	require.NoError(t, err)

	assert.Equal(t, 1.0, liquid.At(0, 0))
	assert.Equal(t, 0.0, liquid.At(1, 0))
}
