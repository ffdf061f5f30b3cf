package marketdata

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/minslab/revmomo/internal/external/stooq"
	"github.com/minslab/revmomo/internal/frame"
	"github.com/minslab/revmomo/internal/strategyconfig"
	"github.com/minslab/revmomo/pkg/logger"
)

// Loader turns stored bars into a market data panel.
type Loader struct {
	repo   *Repository
	gate   strategyconfig.Liquidity
	logger *logger.Logger
}

// NewLoader creates a market data loader with the given liquidity gate.
func NewLoader(repo *Repository, gate strategyconfig.Liquidity, log *logger.Logger) *Loader {
	return &Loader{repo: repo, gate: gate, logger: log}
}

// Load builds the market panel for the given assets and date range.
// The time axis is the union of trade dates observed in storage.
func (l *Loader) Load(ctx context.Context, assets []string, from, to time.Time) (*frame.Panel, error) {
	days, err := l.repo.TradingDays(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("load trading days: %w", err)
	}
	if len(days) == 0 {
		return nil, fmt.Errorf("no trading days between %s and %s",
			from.Format("2006-01-02"), to.Format("2006-01-02"))
	}

	bars, err := l.repo.GetBars(ctx, assets, from, to)
	if err != nil {
		return nil, fmt.Errorf("load bars: %w", err)
	}

	panel := BuildPanel(days, assets, bars, l.gate)

	l.logger.WithFields(map[string]interface{}{
		"days":   len(days),
		"assets": len(assets),
		"bars":   len(bars),
	}).Info("Market panel loaded")

	return panel, nil
}

// BuildPanel assembles close, volume and is_liquid matrices from raw
// bars. A day is liquid for an asset when both close and volume are
// present and the trailing average dollar volume clears the gate.
func BuildPanel(days []time.Time, assets []string, bars []stooq.Bar, gate strategyconfig.Liquidity) *frame.Panel {
	panel := frame.NewPanel(days, assets)
	closes := panel.AddField(frame.FieldClose)
	volumes := panel.AddField(frame.FieldVolume)

	for _, b := range bars {
		// Bars outside the panel axes are skipped.
		_ = closes.Set(b.Day, b.Asset, b.Close)
		_ = volumes.Set(b.Day, b.Asset, b.Volume)
	}

	liquid := deriveIsLiquid(closes, volumes, gate)
	_ = panel.SetField(frame.FieldIsLiquid, liquid)

	return panel
}

// deriveIsLiquid computes the liquidity gate matrix. The trailing
// window includes the current day; days with missing close or volume
// are excluded from the average and are never liquid themselves.
func deriveIsLiquid(closes, volumes *frame.Matrix, gate strategyconfig.Liquidity) *frame.Matrix {
	out := frame.NewMatrix(closes.Times(), closes.Assets())
	window := gate.ADVWindow
	if window < 1 {
		window = 1
	}

	for ai := 0; ai < closes.NumAssets(); ai++ {
		for ti := 0; ti < closes.NumTimes(); ti++ {
			c := closes.At(ti, ai)
			v := volumes.At(ti, ai)
			if math.IsNaN(c) || math.IsNaN(v) {
				out.SetAt(ti, ai, 0)
				continue
			}

			sum, count := 0.0, 0
			for wi := ti; wi > ti-window && wi >= 0; wi-- {
				wc := closes.At(wi, ai)
				wv := volumes.At(wi, ai)
				if math.IsNaN(wc) || math.IsNaN(wv) {
					continue
				}
				sum += wc * wv
				count++
			}

			if count > 0 && sum/float64(count) >= gate.MinDollarVolume {
				out.SetAt(ti, ai, 1)
			} else {
				out.SetAt(ti, ai, 0)
			}
		}
	}
	return out
}
