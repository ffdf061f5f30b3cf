package commands

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/spf13/cobra"
)

// statsCmd prints the latest run's performance report.
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show the latest run's performance",
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	run, err := a.outRepo.LatestRun(context.Background())
	if err == pgx.ErrNoRows {
		return fmt.Errorf("no runs yet, run 'revmomo run' first")
	}
	if err != nil {
		return err
	}

	fmt.Printf("Run #%d  strategy %s  config %s\n", run.ID, run.StrategyID, run.ConfigHash[:12])
	if run.Stats == nil {
		fmt.Println("No stats stored for this run")
		return nil
	}

	PrintStatsReport(run.Stats)
	return nil
}
