package frame

import (
	"fmt"
	"time"
)

// Well-known field and indicator names.
const (
	FieldClose    = "close"
	FieldVolume   = "vol"
	FieldIsLiquid = "is_liquid"

	IndicatorTotalRevenue = "total_revenue"
)

// Panel is a set of named Matrices sharing one time/asset domain.
// MarketFrame (fields) and IndicatorFrame (indicators) are both Panels.
type Panel struct {
	times  []time.Time
	assets []string
	fields map[string]*Matrix
}

// NewPanel creates an empty Panel over the given domain.
func NewPanel(times []time.Time, assets []string) *Panel {
	return &Panel{
		times:  append([]time.Time(nil), times...),
		assets: append([]string(nil), assets...),
		fields: make(map[string]*Matrix),
	}
}

// Times returns the shared time index.
func (p *Panel) Times() []time.Time { return p.times }

// Assets returns the shared asset index.
func (p *Panel) Assets() []string { return p.assets }

// AddField registers a new NaN-filled matrix under name and returns it.
func (p *Panel) AddField(name string) *Matrix {
	m := NewMatrix(p.times, p.assets)
	p.fields[name] = m
	return m
}

// SetField registers an existing matrix under name. The matrix must
// share the panel's domain.
func (p *Panel) SetField(name string, m *Matrix) error {
	if len(m.times) != len(p.times) || len(m.assets) != len(p.assets) {
		return fmt.Errorf("field %s does not match panel domain", name)
	}
	p.fields[name] = m
	return nil
}

// Field returns the matrix for name.
func (p *Panel) Field(name string) (*Matrix, bool) {
	m, ok := p.fields[name]
	return m, ok
}

// MustField returns the matrix for name or an error naming the missing
// field. Absent fields are a contract violation of the data layer.
func (p *Panel) MustField(name string) (*Matrix, error) {
	m, ok := p.fields[name]
	if !ok {
		return nil, fmt.Errorf("panel is missing required field %q", name)
	}
	return m, nil
}

// FieldNames lists registered fields.
func (p *Panel) FieldNames() []string {
	names := make([]string, 0, len(p.fields))
	for name := range p.fields {
		names = append(names, name)
	}
	return names
}
