package commands

import (
	"fmt"

	"github.com/minslab/revmomo/internal/cleanup"
	"github.com/minslab/revmomo/internal/stats"
)

// ═══════════════════════════════════════════════════════════
// Common formatting utilities
// Every command prints reports through these helpers.
// ═══════════════════════════════════════════════════════════

// PrintStatsReport prints a performance report table.
func PrintStatsReport(r *stats.Report) {
	fmt.Println()
	fmt.Println("═══════════════════════════════════════════════════════════")
	fmt.Println("  Performance")
	fmt.Println("───────────────────────────────────────────────────────────")
	fmt.Printf("  Period           : %s ~ %s (%d days)\n",
		r.StartDate.Format("2006-01-02"), r.EndDate.Format("2006-01-02"), r.Days)
	fmt.Printf("  Total Return     : %8.2f%%\n", r.TotalReturn*100)
	fmt.Printf("  Annualized       : %8.2f%%\n", r.AnnualizedReturn*100)
	fmt.Printf("  Volatility       : %8.2f%%\n", r.Volatility*100)
	fmt.Printf("  Sharpe           : %8.2f\n", r.SharpeRatio)
	fmt.Printf("  Sortino          : %8.2f\n", r.SortinoRatio)
	fmt.Printf("  Max Drawdown     : %8.2f%%\n", r.MaxDrawdown*100)
	fmt.Printf("  Avg Turnover     : %8.4f\n", r.AvgTurnover)
	fmt.Printf("  Win Rate         : %8.2f%%\n", r.WinRate*100)
	fmt.Printf("  Instruments      : %8d\n", r.Instruments)
	fmt.Println("───────────────────────────────────────────────────────────")
}

// PrintCheckReport prints validation diagnostics.
func PrintCheckReport(r *cleanup.Report) {
	if r.Passed && len(r.Diagnostics) == 0 {
		fmt.Println("✅ Validation passed")
		return
	}

	if r.Passed {
		fmt.Printf("✅ Validation passed with %d warnings\n", len(r.Diagnostics))
	} else {
		fmt.Printf("❌ Validation FAILED (%d diagnostics)\n", len(r.Diagnostics))
	}

	for _, d := range r.Diagnostics {
		marker := "⚠️ "
		if d.Severity == cleanup.SeverityError {
			marker = "❌"
		}
		fmt.Printf("  %s [%s] %s\n", marker, d.Code, d.Message)
	}
}

// PrintProgress prints a progress step with counter.
func PrintProgress(tag string, message string, current int, total int) {
	fmt.Printf("[%s] %s [%d/%d]\n", tag, message, current, total)
}
