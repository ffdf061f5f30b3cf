package fundamentals

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/minslab/revmomo/internal/external/edgar"
	"github.com/minslab/revmomo/internal/frame"
	"github.com/minslab/revmomo/pkg/logger"
)

// ltmQuarters is the number of trailing quarters summed into the
// last-twelve-months revenue figure.
const ltmQuarters = 4

// Builder assembles point-in-time indicator matrices from quarterly
// revenue facts.
type Builder struct {
	repo   *Repository
	logger *logger.Logger
}

// NewBuilder creates a fundamentals builder.
func NewBuilder(repo *Repository, log *logger.Logger) *Builder {
	return &Builder{repo: repo, logger: log}
}

// IndicatorPanel builds the fundamentals panel aligned to the given
// time and asset axes. The total_revenue value on day t is the LTM
// revenue known as of t: only facts filed on or before t contribute,
// so the frame never looks ahead.
func (b *Builder) IndicatorPanel(ctx context.Context, times []time.Time, assets []string) (*frame.Panel, error) {
	if len(times) == 0 {
		return nil, fmt.Errorf("empty time axis")
	}

	facts, err := b.repo.GetFacts(ctx, assets, times[len(times)-1])
	if err != nil {
		return nil, fmt.Errorf("load revenue facts: %w", err)
	}

	panel := frame.NewPanel(times, assets)
	revenue := panel.AddField(frame.IndicatorTotalRevenue)

	covered := 0
	for ai, asset := range assets {
		assetFacts := facts[asset]
		if len(assetFacts) == 0 {
			continue
		}
		covered++
		fillLTM(revenue, ai, times, assetFacts)
	}

	b.logger.WithFields(map[string]interface{}{
		"assets":  len(assets),
		"covered": covered,
		"days":    len(times),
	}).Info("Fundamentals panel built")

	return panel, nil
}

// fillLTM writes the trailing-twelve-month revenue series for one
// asset column. Facts must be sorted by period end ascending.
func fillLTM(revenue *frame.Matrix, ai int, times []time.Time, facts []edgar.RevenueFact) {
	sort.Slice(facts, func(i, j int) bool {
		return facts[i].PeriodEnd.Before(facts[j].PeriodEnd)
	})

	// Facts sorted by filing date drive the walk over days.
	byFiled := make([]edgar.RevenueFact, len(facts))
	copy(byFiled, facts)
	sort.Slice(byFiled, func(i, j int) bool {
		return byFiled[i].Filed.Before(byFiled[j].Filed)
	})

	known := make(map[time.Time]edgar.RevenueFact, len(facts))
	next := 0
	for ti, day := range times {
		for next < len(byFiled) && !byFiled[next].Filed.After(day) {
			known[byFiled[next].PeriodEnd.UTC().Truncate(24*time.Hour)] = byFiled[next]
			next++
		}
		if v, ok := ltmFromKnown(known); ok {
			revenue.SetAt(ti, ai, v)
		}
	}
}

// ltmFromKnown sums the four most recent distinct quarters among the
// known facts. Fewer than four quarters means the LTM figure is still
// undefined.
func ltmFromKnown(known map[time.Time]edgar.RevenueFact) (float64, bool) {
	if len(known) < ltmQuarters {
		return 0, false
	}

	ends := make([]time.Time, 0, len(known))
	for end := range known {
		ends = append(ends, end)
	}
	sort.Slice(ends, func(i, j int) bool { return ends[i].After(ends[j]) })

	sum := 0.0
	for _, end := range ends[:ltmQuarters] {
		sum += known[end].Value
	}
	return sum, true
}
