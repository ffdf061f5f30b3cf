package fundamentals

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minslab/revmomo/internal/external/edgar"
	"github.com/minslab/revmomo/internal/frame"
)

func day(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func quarterFact(end, filed time.Time, value float64) edgar.RevenueFact {
	return edgar.RevenueFact{
		PeriodStart: end.AddDate(0, -3, 1),
		PeriodEnd:   end,
		Filed:       filed,
		Value:       value,
		Form:        "10-Q",
		Tag:         "Revenues",
	}
}

func TestFillLTMRequiresFourQuarters(t *testing.T) {
	times := []time.Time{day(2024, 1, 2), day(2024, 2, 1), day(2024, 5, 1)}
	m := frame.NewMatrix(times, []string{"AAPL"})

	facts := []edgar.RevenueFact{
		quarterFact(day(2023, 3, 31), day(2023, 5, 1), 100),
		quarterFact(day(2023, 6, 30), day(2023, 8, 1), 110),
		quarterFact(day(2023, 9, 30), day(2023, 11, 1), 120),
		quarterFact(day(2023, 12, 31), day(2024, 2, 1), 130),
	}

	fillLTM(m, 0, times, facts)

	// Only three quarters filed as of Jan 2.
	assert.True(t, math.IsNaN(m.At(0, 0)))
	// Fourth quarter filed exactly on Feb 1: LTM is defined.
	assert.Equal(t, 460.0, m.At(1, 0))
	assert.Equal(t, 460.0, m.At(2, 0))
}

func TestFillLTMUsesMostRecentQuarters(t *testing.T) {
	times := []time.Time{day(2024, 6, 3)}
	m := frame.NewMatrix(times, []string{"AAPL"})

	facts := []edgar.RevenueFact{
		quarterFact(day(2023, 3, 31), day(2023, 5, 1), 100),
		quarterFact(day(2023, 6, 30), day(2023, 8, 1), 110),
		quarterFact(day(2023, 9, 30), day(2023, 11, 1), 120),
		quarterFact(day(2023, 12, 31), day(2024, 2, 1), 130),
		quarterFact(day(2024, 3, 31), day(2024, 5, 1), 140),
	}

	fillLTM(m, 0, times, facts)

	// Oldest quarter rolls out: 110+120+130+140.
	assert.Equal(t, 500.0, m.At(0, 0))
}

func TestFillLTMNoLookahead(t *testing.T) {
	times := []time.Time{day(2024, 4, 30)}
	m := frame.NewMatrix(times, []string{"AAPL"})

	facts := []edgar.RevenueFact{
		quarterFact(day(2023, 6, 30), day(2023, 8, 1), 110),
		quarterFact(day(2023, 9, 30), day(2023, 11, 1), 120),
		quarterFact(day(2023, 12, 31), day(2024, 2, 1), 130),
		// Filed after the evaluation day.
		quarterFact(day(2024, 3, 31), day(2024, 5, 1), 140),
	}

	fillLTM(m, 0, times, facts)

	assert.True(t, math.IsNaN(m.At(0, 0)))
}

func TestLTMFromKnown(t *testing.T) {
	known := map[time.Time]edgar.RevenueFact{}
	_, ok := ltmFromKnown(known)
	require.False(t, ok)

	for i, v := range []float64{100, 110, 120, 130} {
		end := day(2023, 3*(i+1), 28)
		known[end] = quarterFact(end, end.AddDate(0, 1, 0), v)
	}

	got, ok := ltmFromKnown(known)
	require.True(t, ok)
	assert.Equal(t, 460.0, got)
}
