package output

import (
	"time"

	"github.com/minslab/revmomo/internal/frame"
)

// WeightsMatrix rebuilds a dense weight matrix from stored rows.
// Cells without a row are 0: the store keeps only nonzero weights.
func WeightsMatrix(rows []WeightRow, times []time.Time, assets []string) *frame.Matrix {
	m := frame.NewMatrix(times, assets)
	m.Fill(0)

	for _, row := range rows {
		// Rows outside the given axes are skipped.
		_ = m.Set(row.Day, row.Asset, row.Weight)
	}
	return m
}
