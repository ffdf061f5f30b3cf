package strategy

import (
	"fmt"

	"github.com/minslab/revmomo/internal/frame"
)

// FillBuyAndHold overlays an early-period liquidity basket onto the
// calculated weights. Fundamental history starts later than the
// required weight history, so every day before the first traded day is
// backfilled with the raw is_liquid row: hold every liquid asset.
//
// The backfill deliberately uses is_liquid as-is rather than a
// normalized fraction; downstream cleaning scales over-exposed days.
// With no traded day at all the weights are returned untouched.
// The input matrix is never mutated, which makes the overlay
// idempotent: applying it to its own output is a no-op.
func (c *Calculator) FillBuyAndHold(market *frame.Panel, weights *frame.Matrix) (*frame.Matrix, error) {
	liquid, err := market.MustField(frame.FieldIsLiquid)
	if err != nil {
		return nil, fmt.Errorf("market frame: %w", err)
	}

	exposure := weights.AbsRowSum()

	firstTraded := -1
	for ti, e := range exposure {
		if e > 0 {
			firstTraded = ti
			break
		}
	}

	if firstTraded < 0 {
		// Degenerate case: nothing was ever traded, no fallback possible.
		return weights, nil
	}

	out := weights.Clone()
	for ti := 0; ti < firstTraded; ti++ {
		if err := out.CopyRowFrom(liquid, ti); err != nil {
			return nil, fmt.Errorf("backfill row %d: %w", ti, err)
		}
	}

	c.logger.WithFields(map[string]interface{}{
		"first_traded":    weights.Times()[firstTraded].Format("2006-01-02"),
		"backfilled_days": firstTraded,
	}).Info("Buy-and-hold backfill applied")

	return out, nil
}
