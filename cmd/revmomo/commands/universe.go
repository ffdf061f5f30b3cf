package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// universeCmd groups universe subcommands.
var universeCmd = &cobra.Command{
	Use:   "universe",
	Short: "Manage the tradable universe",
}

var universeRefreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Scrape and store the current constituent list",
	Long: `Scrapes the configured constituents page, resolves SEC CIKs
and upserts the result.

Example:
  go run ./cmd/revmomo universe refresh`,
	RunE: runUniverseRefresh,
}

var universeListCmd = &cobra.Command{
	Use:   "list",
	Short: "Print the stored constituents",
	RunE:  runUniverseList,
}

func init() {
	rootCmd.AddCommand(universeCmd)
	universeCmd.AddCommand(universeRefreshCmd)
	universeCmd.AddCommand(universeListCmd)
}

func runUniverseRefresh(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	fmt.Printf("Refreshing universe %s from %s\n", a.scfg.Universe.ID, a.cfg.Strategy.UniverseURL)

	constituents, err := a.universeSvc.Refresh(context.Background(), a.scfg.Universe.ID)
	if err != nil {
		return err
	}

	fmt.Printf("✅ %d constituents stored\n", len(constituents))
	return nil
}

func runUniverseList(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	constituents, err := a.universeSvc.List(context.Background(), a.scfg.Universe.ID)
	if err != nil {
		return err
	}

	fmt.Printf("Universe %s (%d constituents)\n", a.scfg.Universe.ID, len(constituents))
	for _, c := range constituents {
		cik := "-"
		if c.CIK != 0 {
			cik = fmt.Sprintf("%010d", c.CIK)
		}
		fmt.Printf("  %-6s  CIK %-10s  %s\n", c.Asset, cik, c.Name)
	}
	return nil
}
