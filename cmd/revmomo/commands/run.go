package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var (
	runFrom string
	runTo   string
)

// runCmd executes the full weight pipeline once.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the weight pipeline",
	Long: `Runs the full pipeline: load universe and data, compute
revenue growth weights, fill the pre-signal buy-and-hold window,
clean, validate, compute statistics and persist the result.

Example:
  go run ./cmd/revmomo run
  go run ./cmd/revmomo run --from 2010-01-01 --to 2024-12-31`,
	RunE: runPipeline,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVar(&runFrom, "from", "", "start date YYYY-MM-DD (default strategy min_date)")
	runCmd.Flags().StringVar(&runTo, "to", "", "end date YYYY-MM-DD (default today)")
}

func runPipeline(cmd *cobra.Command, args []string) error {
	fmt.Println("=== revmomo pipeline run ===")

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	from, to, err := resolveRunWindow(a, runFrom, runTo)
	if err != nil {
		return err
	}

	fmt.Printf("Strategy  : %s (config %s)\n", a.scfg.Meta.StrategyID, a.runner.ConfigHash()[:12])
	fmt.Printf("Window    : %s ~ %s\n", from.Format("2006-01-02"), to.Format("2006-01-02"))

	start := time.Now()
	result, err := a.runner.Run(context.Background(), from, to)
	if err != nil {
		return fmt.Errorf("pipeline run: %w", err)
	}

	PrintStatsReport(result.Stats)
	PrintCheckReport(result.Check)

	for _, path := range result.Artifacts {
		fmt.Printf("  artifact: %s\n", path)
	}

	fmt.Printf("\n✅ Run #%d completed in %.2fs\n", result.Run.ID, time.Since(start).Seconds())
	return nil
}

// resolveRunWindow applies flag overrides on top of the strategy
// config window.
func resolveRunWindow(a *app, fromFlag, toFlag string) (time.Time, time.Time, error) {
	fromStr := fromFlag
	if fromStr == "" {
		fromStr = a.scfg.Universe.MinDate
	}
	from, err := time.Parse("2006-01-02", fromStr)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("parse --from: %w", err)
	}

	to := time.Now().UTC().Truncate(24 * time.Hour)
	if toFlag != "" {
		to, err = time.Parse("2006-01-02", toFlag)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("parse --to: %w", err)
		}
	}

	if !from.Before(to) {
		return time.Time{}, time.Time{}, fmt.Errorf("from %s must be before to %s", fromStr, to.Format("2006-01-02"))
	}
	return from, to, nil
}
