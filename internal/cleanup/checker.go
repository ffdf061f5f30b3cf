package cleanup

import (
	"fmt"
	"math"

	"github.com/minslab/revmomo/internal/frame"
	"github.com/minslab/revmomo/internal/strategyconfig"
	"github.com/minslab/revmomo/pkg/logger"
)

// Severity of a diagnostic.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Diagnostic is a single finding from the checker.
type Diagnostic struct {
	Severity Severity `json:"severity"`
	Code     string   `json:"code"`
	Message  string   `json:"message"`
}

// Report is the checker verdict: Passed is false when any diagnostic
// has error severity.
type Report struct {
	Universe    string       `json:"universe"`
	Passed      bool         `json:"passed"`
	Diagnostics []Diagnostic `json:"diagnostics"`
}

// Checker verifies a weight series against the output contract.
type Checker struct {
	limits strategyconfig.Output
	logger *logger.Logger
}

// NewChecker creates a new output checker.
func NewChecker(limits strategyconfig.Output, log *logger.Logger) *Checker {
	return &Checker{
		limits: limits,
		logger: log,
	}
}

// Check runs all diagnostics for weights against the given universe.
func (c *Checker) Check(weights *frame.Matrix, market *frame.Panel, universeID string) (*Report, error) {
	liquid, err := market.MustField(frame.FieldIsLiquid)
	if err != nil {
		return nil, fmt.Errorf("market frame: %w", err)
	}

	report := &Report{Universe: universeID}

	report.add(c.checkFinite(weights)...)
	report.add(c.checkLiquidityGate(weights, liquid)...)
	report.add(c.checkExposure(weights)...)
	report.add(c.checkShorts(weights)...)
	report.add(c.checkHistory(weights)...)

	report.Passed = true
	for _, d := range report.Diagnostics {
		if d.Severity == SeverityError {
			report.Passed = false
			break
		}
	}

	c.logger.WithFields(map[string]interface{}{
		"universe":    universeID,
		"passed":      report.Passed,
		"diagnostics": len(report.Diagnostics),
	}).Info("Output check completed")

	return report, nil
}

func (r *Report) add(diags ...Diagnostic) {
	r.Diagnostics = append(r.Diagnostics, diags...)
}

// checkFinite flags NaN and infinite weights.
func (c *Checker) checkFinite(weights *frame.Matrix) []Diagnostic {
	var nanCount, infCount int

	for ti := 0; ti < weights.NumTimes(); ti++ {
		for ai := 0; ai < weights.NumAssets(); ai++ {
			v := weights.At(ti, ai)
			if math.IsNaN(v) {
				nanCount++
			} else if math.IsInf(v, 0) {
				infCount++
			}
		}
	}

	var diags []Diagnostic
	if nanCount > 0 {
		diags = append(diags, Diagnostic{
			Severity: SeverityError,
			Code:     "non_finite",
			Message:  fmt.Sprintf("%d NaN weights; run Clean before submitting", nanCount),
		})
	}
	if infCount > 0 {
		diags = append(diags, Diagnostic{
			Severity: SeverityError,
			Code:     "non_finite",
			Message:  fmt.Sprintf("%d infinite weights", infCount),
		})
	}
	return diags
}

// checkLiquidityGate flags nonzero weights on illiquid assets.
func (c *Checker) checkLiquidityGate(weights, liquid *frame.Matrix) []Diagnostic {
	var violations int

	for ti := 0; ti < weights.NumTimes(); ti++ {
		for ai := 0; ai < weights.NumAssets(); ai++ {
			v := weights.At(ti, ai)
			if math.IsNaN(v) || v == 0 {
				continue
			}
			gate := liquid.At(ti, ai)
			if math.IsNaN(gate) || gate == 0 {
				violations++
			}
		}
	}

	if violations == 0 {
		return nil
	}
	return []Diagnostic{{
		Severity: SeverityError,
		Code:     "illiquid_position",
		Message:  fmt.Sprintf("%d nonzero weights on illiquid assets", violations),
	}}
}

// checkExposure flags days whose gross exposure exceeds the cap.
func (c *Checker) checkExposure(weights *frame.Matrix) []Diagnostic {
	var overDays int
	// Small tolerance for float rounding after normalization.
	const eps = 1e-9

	for _, gross := range weights.AbsRowSum() {
		if gross > c.limits.MaxGrossExposure+eps {
			overDays++
		}
	}

	if overDays == 0 {
		return nil
	}
	return []Diagnostic{{
		Severity: SeverityError,
		Code:     "exposure_over_limit",
		Message:  fmt.Sprintf("%d days exceed gross exposure %.2f", overDays, c.limits.MaxGrossExposure),
	}}
}

// checkShorts warns about negative weights; this strategy is long-only.
func (c *Checker) checkShorts(weights *frame.Matrix) []Diagnostic {
	var shorts int

	for ti := 0; ti < weights.NumTimes(); ti++ {
		for ai := 0; ai < weights.NumAssets(); ai++ {
			if v := weights.At(ti, ai); v < 0 {
				shorts++
			}
		}
	}

	if shorts == 0 {
		return nil
	}
	return []Diagnostic{{
		Severity: SeverityWarning,
		Code:     "short_position",
		Message:  fmt.Sprintf("%d negative weights in a long-only strategy", shorts),
	}}
}

// checkHistory warns when the series is shorter than the required
// minimum history.
func (c *Checker) checkHistory(weights *frame.Matrix) []Diagnostic {
	if weights.NumTimes() >= c.limits.MinHistoryDays {
		return nil
	}
	return []Diagnostic{{
		Severity: SeverityWarning,
		Code:     "insufficient_history",
		Message: fmt.Sprintf("only %d days of weights, %d required",
			weights.NumTimes(), c.limits.MinHistoryDays),
	}}
}
