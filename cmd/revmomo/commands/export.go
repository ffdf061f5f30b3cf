package commands

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/spf13/cobra"

	"github.com/minslab/revmomo/internal/report"
)

// exportCmd rebuilds the Excel report from the latest stored run.
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the latest run's report to Excel",
	Long: `Writes report.xlsx (summary metrics plus equity curve chart)
for the latest stored run under the artifact directory.

Example:
  go run ./cmd/revmomo export`,
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
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
	if run.Stats == nil {
		return fmt.Errorf("run #%d has no stats to export", run.ID)
	}

	writer := report.NewWriter(a.cfg.Strategy.ArtifactDir, a.log)
	path, err := writer.Write(run.ToDate, run.Stats)
	if err != nil {
		return err
	}

	fmt.Printf("✅ Report written: %s\n", path)
	return nil
}
