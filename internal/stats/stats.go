package stats

import (
	"fmt"
	"math"
	"time"

	mstats "github.com/montanaflynn/stats"

	"github.com/minslab/revmomo/internal/frame"
	"github.com/minslab/revmomo/internal/strategyconfig"
	"github.com/minslab/revmomo/pkg/logger"
)

// Calculator derives performance statistics from market closes and a
// cleaned weight series.
// SSOT: performance metric formulas live here only.
type Calculator struct {
	cfg    strategyconfig.Stats
	logger *logger.Logger
}

// NewCalculator creates a stats calculator.
func NewCalculator(cfg strategyconfig.Stats, log *logger.Logger) *Calculator {
	return &Calculator{
		cfg:    cfg,
		logger: log,
	}
}

// EquityPoint is one point of the equity curve.
type EquityPoint struct {
	Date   time.Time `json:"date"`
	Equity float64   `json:"equity"`
	Return float64   `json:"return"`
}

// Report is the table of named performance metrics.
type Report struct {
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	Days      int       `json:"days"`

	TotalReturn      float64 `json:"total_return"`
	AnnualizedReturn float64 `json:"annualized_return"`
	MeanDailyReturn  float64 `json:"mean_daily_return"`
	Volatility       float64 `json:"volatility"`
	SharpeRatio      float64 `json:"sharpe_ratio"`
	SortinoRatio     float64 `json:"sortino_ratio"`
	MaxDrawdown      float64 `json:"max_drawdown"`
	AvgTurnover      float64 `json:"avg_turnover"`
	WinRate          float64 `json:"win_rate"`
	Instruments      int     `json:"instruments"`

	EquityCurve []EquityPoint `json:"equity_curve"`
}

// Compute calculates statistics for weights restricted to [from, to].
// Yesterday's weights earn today's asset returns; missing asset
// returns contribute nothing.
func (c *Calculator) Compute(market *frame.Panel, weights *frame.Matrix, from, to time.Time) (*Report, error) {
	closes, err := market.MustField(frame.FieldClose)
	if err != nil {
		return nil, fmt.Errorf("market frame: %w", err)
	}

	times := weights.Times()
	if len(times) == 0 {
		return nil, fmt.Errorf("empty weight series")
	}

	dailyReturns, curve, turnovers := c.portfolioSeries(closes, weights, from, to)
	if len(dailyReturns) == 0 {
		return nil, fmt.Errorf("no trading days in range %s..%s",
			from.Format("2006-01-02"), to.Format("2006-01-02"))
	}

	report := &Report{
		StartDate:   curve[0].Date,
		EndDate:     curve[len(curve)-1].Date,
		Days:        len(dailyReturns),
		EquityCurve: curve,
	}

	report.TotalReturn = curve[len(curve)-1].Equity - 1.0
	report.AnnualizedReturn = c.annualize(report.TotalReturn, len(dailyReturns))

	mean, _ := mstats.Mean(dailyReturns)
	report.MeanDailyReturn = mean

	report.Volatility = c.annualizedVolatility(dailyReturns)
	if report.Volatility > 0 {
		report.SharpeRatio = (report.AnnualizedReturn - c.cfg.RiskFreeRate) / report.Volatility
	}
	report.SortinoRatio = c.sortino(dailyReturns, report.AnnualizedReturn)
	report.MaxDrawdown = c.maxDrawdown(curve)
	report.WinRate = winRate(dailyReturns)
	report.Instruments = c.countInstruments(weights, from, to)

	if len(turnovers) > 0 {
		avg, _ := mstats.Mean(turnovers)
		report.AvgTurnover = avg
	}

	c.logger.WithFields(map[string]interface{}{
		"days":         report.Days,
		"total_return": report.TotalReturn,
		"sharpe":       report.SharpeRatio,
		"max_drawdown": report.MaxDrawdown,
	}).Info("Statistics computed")

	return report, nil
}

// portfolioSeries builds daily portfolio returns, equity curve and
// per-day turnover for the requested range.
func (c *Calculator) portfolioSeries(closes, weights *frame.Matrix, from, to time.Time) ([]float64, []EquityPoint, []float64) {
	times := weights.Times()
	nAssets := weights.NumAssets()

	var (
		returns   []float64
		curve     []EquityPoint
		turnovers []float64
	)

	equity := 1.0

	for ti := 1; ti < len(times); ti++ {
		day := times[ti]
		if day.Before(from) || day.After(to) {
			continue
		}

		var dayReturn, turnover float64
		for ai := 0; ai < nAssets; ai++ {
			w := weights.At(ti-1, ai)
			if math.IsNaN(w) {
				w = 0
			}

			prev := closes.At(ti-1, ai)
			curr := closes.At(ti, ai)
			if w != 0 && !math.IsNaN(prev) && !math.IsNaN(curr) && prev > 0 {
				dayReturn += w * (curr/prev - 1.0)
			}

			wToday := weights.At(ti, ai)
			if math.IsNaN(wToday) {
				wToday = 0
			}
			turnover += math.Abs(wToday - w)
		}

		equity *= 1.0 + dayReturn
		returns = append(returns, dayReturn)
		turnovers = append(turnovers, turnover)
		curve = append(curve, EquityPoint{
			Date:   day,
			Equity: equity,
			Return: dayReturn,
		})
	}

	return returns, curve, turnovers
}

// annualize converts a total return over n trading days to a yearly rate.
func (c *Calculator) annualize(totalReturn float64, days int) float64 {
	if days == 0 {
		return 0
	}
	years := float64(days) / float64(c.cfg.TradingDaysYear)
	return math.Pow(1.0+totalReturn, 1.0/years) - 1.0
}

// annualizedVolatility is the sample standard deviation of daily
// returns scaled by sqrt of the trading-day year.
func (c *Calculator) annualizedVolatility(dailyReturns []float64) float64 {
	if len(dailyReturns) < 2 {
		return 0
	}

	sd, err := mstats.StandardDeviationSample(dailyReturns)
	if err != nil {
		return 0
	}

	return sd * math.Sqrt(float64(c.cfg.TradingDaysYear))
}

// sortino uses downside deviation instead of total volatility.
func (c *Calculator) sortino(dailyReturns []float64, annualReturn float64) float64 {
	var sumSquaredNegative float64
	var countNegative int

	for _, r := range dailyReturns {
		if r < 0 {
			sumSquaredNegative += r * r
			countNegative++
		}
	}

	if countNegative == 0 {
		return 0
	}

	downsideVol := math.Sqrt(sumSquaredNegative/float64(countNegative)) *
		math.Sqrt(float64(c.cfg.TradingDaysYear))
	if downsideVol == 0 {
		return 0
	}

	return (annualReturn - c.cfg.RiskFreeRate) / downsideVol
}

// maxDrawdown is the largest peak-to-trough equity decline, reported
// as a negative fraction.
func (c *Calculator) maxDrawdown(curve []EquityPoint) float64 {
	if len(curve) == 0 {
		return 0
	}

	peak := curve[0].Equity
	maxDD := 0.0

	for _, point := range curve {
		if point.Equity > peak {
			peak = point.Equity
		}
		dd := (point.Equity - peak) / peak
		if dd < maxDD {
			maxDD = dd
		}
	}

	return maxDD
}

func winRate(dailyReturns []float64) float64 {
	if len(dailyReturns) == 0 {
		return 0
	}

	wins := 0
	for _, r := range dailyReturns {
		if r > 0 {
			wins++
		}
	}

	return float64(wins) / float64(len(dailyReturns))
}

// countInstruments counts assets holding a nonzero weight at least
// once inside the range.
func (c *Calculator) countInstruments(weights *frame.Matrix, from, to time.Time) int {
	times := weights.Times()
	count := 0

	for ai := 0; ai < weights.NumAssets(); ai++ {
		for ti := range times {
			if times[ti].Before(from) || times[ti].After(to) {
				continue
			}
			if v := weights.At(ti, ai); !math.IsNaN(v) && v != 0 {
				count++
				break
			}
		}
	}

	return count
}
