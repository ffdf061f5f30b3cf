package output

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWeightsMatrixRoundTrip(t *testing.T) {
	days := []time.Time{
		time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC),
	}
	assets := []string{"AAPL", "MSFT"}

	rows := []WeightRow{
		{Day: days[0], Asset: "AAPL", Weight: 0.5},
		{Day: days[1], Asset: "MSFT", Weight: 1},
		// Unknown asset is dropped, not an error.
		{Day: days[1], Asset: "ZZZZ", Weight: 2},
	}

	m := WeightsMatrix(rows, days, assets)

	assert.Equal(t, 0.5, m.At(0, 0))
	assert.Equal(t, 1.0, m.At(1, 1))

	// Sparse storage: absent cells come back as 0, not NaN.
	assert.Equal(t, 0.0, m.At(0, 1))
	assert.Equal(t, 0.0, m.At(1, 0))
}

func TestWeightsMatrixEmptyRows(t *testing.T) {
	days := []time.Time{time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)}

	m := WeightsMatrix(nil, days, []string{"AAPL"})
	assert.Equal(t, 0.0, m.At(0, 0))
}
