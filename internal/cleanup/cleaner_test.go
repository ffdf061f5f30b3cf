package cleanup

import (
	"io"
	"math"
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
	d := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	for len(days) < n {
		if d.Weekday() != time.Saturday && d.Weekday() != time.Sunday {
			days = append(days, d)
		}
		d = d.AddDate(0, 0, 1)
	}
	return days
}

func testLimits() strategyconfig.Output {
	return strategyconfig.Output{
		MaxGrossExposure: 1.0,
		MinHistoryDays:   2,
	}
}

func buildMarket(n int, assets []string) *frame.Panel {
	market := frame.NewPanel(tradingDays(n), assets)
	liquid := market.AddField(frame.FieldIsLiquid)
	liquid.Fill(1)
	return market
}

func TestCleanZeroesNaN(t *testing.T) {
	market := buildMarket(2, []string{"A", "B"})

	weights := frame.NewMatrix(market.Times(), market.Assets())
	weights.SetAt(0, 0, 0.5)
	// (0,1) and row 1 stay NaN

	cleaner := NewCleaner(testLimits(), logger.NewWriter(io.Discard))
	out, err := cleaner.Clean(weights, market, "stocks_nasdaq100")
	require.NoError(t, err)

	assert.Equal(t, 0.5, out.At(0, 0))
	assert.Equal(t, 0.0, out.At(0, 1))
	assert.Equal(t, 0.0, out.At(1, 0))

	// Input untouched.
	assert.True(t, math.IsNaN(weights.At(0, 1)))
}

func TestCleanZeroesIlliquid(t *testing.T) {
	market := buildMarket(1, []string{"A", "B"})
	liquid, _ := market.Field(frame.FieldIsLiquid)
	liquid.SetAt(0, 1, 0)

	weights := frame.NewMatrix(market.Times(), market.Assets())
	weights.SetAt(0, 0, 0.4)
	weights.SetAt(0, 1, 0.4)

	cleaner := NewCleaner(testLimits(), logger.NewWriter(io.Discard))
	out, err := cleaner.Clean(weights, market, "stocks_nasdaq100")
	require.NoError(t, err)

	assert.Equal(t, 0.4, out.At(0, 0))
	assert.Equal(t, 0.0, out.At(0, 1))
}

func TestCleanScalesOverExposedDays(t *testing.T) {
	// Raw is_liquid backfill can put a weight of 1 on every liquid
	// asset; cleaning must scale the day back to gross exposure 1.
	market := buildMarket(1, []string{"A", "B", "C", "D"})

	weights := frame.NewMatrix(market.Times(), market.Assets())
	for ai := 0; ai < 4; ai++ {
		weights.SetAt(0, ai, 1)
	}

	cleaner := NewCleaner(testLimits(), logger.NewWriter(io.Discard))
	out, err := cleaner.Clean(weights, market, "stocks_nasdaq100")
	require.NoError(t, err)

	for ai := 0; ai < 4; ai++ {
		assert.InDelta(t, 0.25, out.At(0, ai), 1e-12)
	}
	assert.InDelta(t, 1.0, out.AbsRowSum()[0], 1e-12)
}

func TestCheckPassesCleanOutput(t *testing.T) {
	market := buildMarket(3, []string{"A", "B"})
	liquid, _ := market.Field(frame.FieldIsLiquid)
	liquid.SetAt(1, 1, 0)

	weights := frame.NewMatrix(market.Times(), market.Assets())
	weights.Fill(1)
	weights.SetAt(2, 0, math.NaN())

	log := logger.NewWriter(io.Discard)
	cleaner := NewCleaner(testLimits(), log)
	checker := NewChecker(testLimits(), log)

	cleaned, err := cleaner.Clean(weights, market, "stocks_nasdaq100")
	require.NoError(t, err)

	report, err := checker.Check(cleaned, market, "stocks_nasdaq100")
	require.NoError(t, err)

	assert.True(t, report.Passed, "diagnostics: %+v", report.Diagnostics)
}

func TestCheckFlagsNaN(t *testing.T) {
	market := buildMarket(2, []string{"A"})

	weights := frame.NewMatrix(market.Times(), market.Assets())
	weights.SetAt(0, 0, math.NaN())
	weights.SetAt(1, 0, 0.5)

	checker := NewChecker(testLimits(), logger.NewWriter(io.Discard))
	report, err := checker.Check(weights, market, "stocks_nasdaq100")
	require.NoError(t, err)

	assert.False(t, report.Passed)
	assert.Equal(t, "non_finite", report.Diagnostics[0].Code)
}

func TestCheckFlagsIlliquidPositions(t *testing.T) {
	market := buildMarket(1, []string{"A"})
	liquid, _ := market.Field(frame.FieldIsLiquid)
	liquid.SetAt(0, 0, 0)

	weights := frame.NewMatrix(market.Times(), market.Assets())
	weights.SetAt(0, 0, 1)

	checker := NewChecker(testLimits(), logger.NewWriter(io.Discard))
	report, err := checker.Check(weights, market, "stocks_nasdaq100")
	require.NoError(t, err)

	assert.False(t, report.Passed)

	found := false
	for _, d := range report.Diagnostics {
		if d.Code == "illiquid_position" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestCheckFlagsExposureAndHistory(t *testing.T) {
	market := buildMarket(1, []string{"A", "B"})

	weights := frame.NewMatrix(market.Times(), market.Assets())
	weights.SetAt(0, 0, 1)
	weights.SetAt(0, 1, 1)

	checker := NewChecker(testLimits(), logger.NewWriter(io.Discard))
	report, err := checker.Check(weights, market, "stocks_nasdaq100")
	require.NoError(t, err)

	assert.False(t, report.Passed)

	codes := map[string]Severity{}
	for _, d := range report.Diagnostics {
		codes[d.Code] = d.Severity
	}
	assert.Equal(t, SeverityError, codes["exposure_over_limit"])
	assert.Equal(t, SeverityWarning, codes["insufficient_history"])
}

func TestCheckWarnsOnShorts(t *testing.T) {
	market := buildMarket(2, []string{"A"})

	weights := frame.NewMatrix(market.Times(), market.Assets())
	weights.SetAt(0, 0, -0.5)
	weights.SetAt(1, 0, 0.5)

	checker := NewChecker(testLimits(), logger.NewWriter(io.Discard))
	report, err := checker.Check(weights, market, "stocks_nasdaq100")
	require.NoError(t, err)

	// Shorts are a warning, not an error.
	assert.True(t, report.Passed)

	found := false
	for _, d := range report.Diagnostics {
		if d.Code == "short_position" && d.Severity == SeverityWarning {
			found = true
		}
	}
	assert.True(t, found)
}
