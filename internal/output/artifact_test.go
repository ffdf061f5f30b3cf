package output

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minslab/revmomo/internal/frame"
	"github.com/minslab/revmomo/internal/stats"
)

func TestWriteWeightsCSV(t *testing.T) {
	days := []time.Time{
		time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC),
	}
	m := frame.NewMatrix(days, []string{"AAPL", "MSFT"})
	m.SetAt(0, 0, 0.5)
	m.SetAt(1, 1, 1)
	// Zero and NaN cells are not written.
	m.SetAt(1, 0, 0)

	w := NewArtifactWriter(t.TempDir())
	path, err := w.WriteWeightsCSV(days[1], m)
	require.NoError(t, err)
	assert.Equal(t, "weights.csv", filepath.Base(path))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, []string{"date", "asset", "weight"}, records[0])
	assert.Equal(t, []string{"2024-01-02", "AAPL", "0.5"}, records[1])
	assert.Equal(t, []string{"2024-01-03", "MSFT", "1"}, records[2])
}

func TestWriteStatsJSON(t *testing.T) {
	w := NewArtifactWriter(t.TempDir())
	day := time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC)

	path, err := w.WriteStatsJSON(day, &stats.Report{Days: 2, TotalReturn: 0.1})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"total_return": 0.1`)
}
