package commands

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/spf13/cobra"

	"github.com/minslab/revmomo/internal/cleanup"
	"github.com/minslab/revmomo/internal/output"
)

// checkCmd re-validates the latest stored run's weights.
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate the latest run's stored weights",
	Long: `Reloads the latest run's weights and market frame and runs
the validation checks again (finite values, liquidity gating, gross
exposure, shorts, history length).

Example:
  go run ./cmd/revmomo check`,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := context.Background()

	run, err := a.outRepo.LatestRun(ctx)
	if err == pgx.ErrNoRows {
		return fmt.Errorf("no runs yet, run 'revmomo run' first")
	}
	if err != nil {
		return err
	}

	constituents, err := a.universeSvc.List(ctx, a.scfg.Universe.ID)
	if err != nil {
		return err
	}
	if len(constituents) == 0 {
		return fmt.Errorf("universe %s is empty", a.scfg.Universe.ID)
	}
	assets := make([]string, len(constituents))
	for i, c := range constituents {
		assets[i] = c.Asset
	}

	fmt.Printf("Checking run #%d (%s ~ %s)\n", run.ID,
		run.FromDate.Format("2006-01-02"), run.ToDate.Format("2006-01-02"))

	market, err := a.marketLoader.Load(ctx, assets, run.FromDate, run.ToDate)
	if err != nil {
		return err
	}

	rows, err := a.outRepo.RunWeights(ctx, run.ID)
	if err != nil {
		return err
	}
	weights := output.WeightsMatrix(rows, market.Times(), assets)

	checker := cleanup.NewChecker(a.scfg.Output, a.log)
	report, err := checker.Check(weights, market, a.scfg.Universe.ID)
	if err != nil {
		return err
	}

	PrintCheckReport(report)
	if !report.Passed {
		return fmt.Errorf("run #%d failed validation", run.ID)
	}
	return nil
}
