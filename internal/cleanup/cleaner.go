package cleanup

import (
	"fmt"
	"math"

	"github.com/minslab/revmomo/internal/frame"
	"github.com/minslab/revmomo/internal/strategyconfig"
	"github.com/minslab/revmomo/pkg/logger"
)

// Cleaner sanitizes a weight series before it is persisted or scored.
// SSOT: output normalization rules live here only.
type Cleaner struct {
	limits strategyconfig.Output
	logger *logger.Logger
}

// NewCleaner creates a new weight cleaner.
func NewCleaner(limits strategyconfig.Output, log *logger.Logger) *Cleaner {
	return &Cleaner{
		limits: limits,
		logger: log,
	}
}

// Clean returns a sanitized copy of weights for the given universe:
//   - NaN and infinite values become 0
//   - weights on illiquid assets are zeroed
//   - any day whose gross exposure exceeds the cap is scaled down to it
//
// The input is never mutated.
func (c *Cleaner) Clean(weights *frame.Matrix, market *frame.Panel, universeID string) (*frame.Matrix, error) {
	liquid, err := market.MustField(frame.FieldIsLiquid)
	if err != nil {
		return nil, fmt.Errorf("market frame: %w", err)
	}

	out := weights.Clone()

	var zeroedNaN, zeroedIlliquid, scaledDays int

	for ti := 0; ti < out.NumTimes(); ti++ {
		var gross float64

		for ai := 0; ai < out.NumAssets(); ai++ {
			v := out.At(ti, ai)

			if math.IsNaN(v) || math.IsInf(v, 0) {
				out.SetAt(ti, ai, 0)
				zeroedNaN++
				continue
			}

			gate := liquid.At(ti, ai)
			if v != 0 && (math.IsNaN(gate) || gate == 0) {
				out.SetAt(ti, ai, 0)
				zeroedIlliquid++
				continue
			}

			gross += math.Abs(v)
		}

		if gross > c.limits.MaxGrossExposure {
			factor := c.limits.MaxGrossExposure / gross
			for ai := 0; ai < out.NumAssets(); ai++ {
				out.SetAt(ti, ai, out.At(ti, ai)*factor)
			}
			scaledDays++
		}
	}

	c.logger.WithFields(map[string]interface{}{
		"universe":        universeID,
		"zeroed_nan":      zeroedNaN,
		"zeroed_illiquid": zeroedIlliquid,
		"scaled_days":     scaledDays,
	}).Info("Weights cleaned")

	return out, nil
}
