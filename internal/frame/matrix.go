package frame

import (
	"fmt"
	"math"
	"time"
)

// Matrix is a dense time-by-asset table of float64 values with NaN
// marking undefined cells. Times are ascending and unique; assets keep
// their given order. The buffer is row-major by time.
// SSOT: all time-series table operations live in this package.
type Matrix struct {
	times  []time.Time
	assets []string

	timeIdx  map[int64]int // unix day → row
	assetIdx map[string]int

	data []float64
}

// NewMatrix creates a Matrix filled with NaN.
func NewMatrix(times []time.Time, assets []string) *Matrix {
	m := &Matrix{
		times:    append([]time.Time(nil), times...),
		assets:   append([]string(nil), assets...),
		timeIdx:  make(map[int64]int, len(times)),
		assetIdx: make(map[string]int, len(assets)),
		data:     make([]float64, len(times)*len(assets)),
	}

	for i, t := range m.times {
		m.timeIdx[dayKey(t)] = i
	}
	for j, a := range m.assets {
		m.assetIdx[a] = j
	}

	for i := range m.data {
		m.data[i] = math.NaN()
	}

	return m
}

// dayKey truncates a timestamp to its calendar day in UTC.
func dayKey(t time.Time) int64 {
	y, mo, d := t.UTC().Date()
	return time.Date(y, mo, d, 0, 0, 0, 0, time.UTC).Unix()
}

// Times returns the time index.
func (m *Matrix) Times() []time.Time { return m.times }

// Assets returns the asset index.
func (m *Matrix) Assets() []string { return m.assets }

// NumTimes returns the number of rows.
func (m *Matrix) NumTimes() int { return len(m.times) }

// NumAssets returns the number of columns.
func (m *Matrix) NumAssets() int { return len(m.assets) }

// At returns the value at row ti, column ai.
func (m *Matrix) At(ti, ai int) float64 {
	return m.data[ti*len(m.assets)+ai]
}

// SetAt sets the value at row ti, column ai.
func (m *Matrix) SetAt(ti, ai int, v float64) {
	m.data[ti*len(m.assets)+ai] = v
}

// TimeIndex returns the row for a timestamp, or -1 if absent.
func (m *Matrix) TimeIndex(t time.Time) int {
	if i, ok := m.timeIdx[dayKey(t)]; ok {
		return i
	}
	return -1
}

// AssetIndex returns the column for an asset, or -1 if absent.
func (m *Matrix) AssetIndex(asset string) int {
	if j, ok := m.assetIdx[asset]; ok {
		return j
	}
	return -1
}

// Value returns the value for (t, asset). The second return is false
// when the labels are not in the index.
func (m *Matrix) Value(t time.Time, asset string) (float64, bool) {
	ti := m.TimeIndex(t)
	ai := m.AssetIndex(asset)
	if ti < 0 || ai < 0 {
		return math.NaN(), false
	}
	return m.At(ti, ai), true
}

// Set sets the value for (t, asset). Returns an error if labels are
// not in the index.
func (m *Matrix) Set(t time.Time, asset string, v float64) error {
	ti := m.TimeIndex(t)
	ai := m.AssetIndex(asset)
	if ti < 0 {
		return fmt.Errorf("time %s not in index", t.Format("2006-01-02"))
	}
	if ai < 0 {
		return fmt.Errorf("asset %s not in index", asset)
	}
	m.SetAt(ti, ai, v)
	return nil
}

// Clone returns a deep copy sharing no state with the receiver.
func (m *Matrix) Clone() *Matrix {
	out := NewMatrix(m.times, m.assets)
	copy(out.data, m.data)
	return out
}

// Fill sets every cell to v.
func (m *Matrix) Fill(v float64) {
	for i := range m.data {
		m.data[i] = v
	}
}

// Shift returns a copy shifted n steps forward along the time axis:
// out[t] = m[t-n]. The first n rows are NaN. Shift is index
// arithmetic, not a windowing primitive; n must be non-negative.
func (m *Matrix) Shift(n int) *Matrix {
	out := NewMatrix(m.times, m.assets)
	if n < 0 {
		n = 0
	}

	cols := len(m.assets)
	for ti := n; ti < len(m.times); ti++ {
		src := (ti - n) * cols
		dst := ti * cols
		copy(out.data[dst:dst+cols], m.data[src:src+cols])
	}

	return out
}

// Gt returns an elementwise indicator matrix: 1 where m > other,
// else 0. Comparisons involving NaN take the 0 branch, so missing
// history never produces a positive signal.
func (m *Matrix) Gt(other *Matrix) (*Matrix, error) {
	if err := m.sameShape(other); err != nil {
		return nil, err
	}

	out := NewMatrix(m.times, m.assets)
	for i, v := range m.data {
		if v > other.data[i] { // false for NaN on either side
			out.data[i] = 1
		} else {
			out.data[i] = 0
		}
	}

	return out, nil
}

// Mul returns the elementwise product. NaN propagates.
func (m *Matrix) Mul(other *Matrix) (*Matrix, error) {
	if err := m.sameShape(other); err != nil {
		return nil, err
	}

	out := NewMatrix(m.times, m.assets)
	for i := range m.data {
		out.data[i] = m.data[i] * other.data[i]
	}

	return out, nil
}

// AbsRowSum returns, per time step, the sum of absolute values across
// assets with NaN treated as 0.
func (m *Matrix) AbsRowSum() []float64 {
	sums := make([]float64, len(m.times))
	cols := len(m.assets)

	for ti := range m.times {
		var sum float64
		row := m.data[ti*cols : (ti+1)*cols]
		for _, v := range row {
			if !math.IsNaN(v) {
				sum += math.Abs(v)
			}
		}
		sums[ti] = sum
	}

	return sums
}

// CopyRowFrom overwrites row ti with the same row of src.
func (m *Matrix) CopyRowFrom(src *Matrix, ti int) error {
	if err := m.sameShape(src); err != nil {
		return err
	}

	cols := len(m.assets)
	copy(m.data[ti*cols:(ti+1)*cols], src.data[ti*cols:(ti+1)*cols])
	return nil
}

// Row returns a copy of row ti.
func (m *Matrix) Row(ti int) []float64 {
	cols := len(m.assets)
	out := make([]float64, cols)
	copy(out, m.data[ti*cols:(ti+1)*cols])
	return out
}

func (m *Matrix) sameShape(other *Matrix) error {
	if len(m.times) != len(other.times) || len(m.assets) != len(other.assets) {
		return fmt.Errorf("shape mismatch: %dx%d vs %dx%d",
			len(m.times), len(m.assets), len(other.times), len(other.assets))
	}
	return nil
}
