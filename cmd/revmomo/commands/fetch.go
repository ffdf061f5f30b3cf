package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// fetchCmd groups data collection subcommands.
var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Collect market and fundamental data",
}

var fetchBarsCmd = &cobra.Command{
	Use:   "bars",
	Short: "Fetch daily OHLCV bars for every constituent",
	RunE:  runFetchBars,
}

var fetchFundamentalsCmd = &cobra.Command{
	Use:   "fundamentals",
	Short: "Fetch quarterly revenue facts for every constituent",
	RunE:  runFetchFundamentals,
}

var fetchAllCmd = &cobra.Command{
	Use:   "all",
	Short: "Fetch bars and fundamentals",
	Long: `Fetches daily bars and quarterly revenue facts for the
stored universe, in that order.

Example:
  go run ./cmd/revmomo fetch all`,
	RunE: runFetchAll,
}

func init() {
	rootCmd.AddCommand(fetchCmd)
	fetchCmd.AddCommand(fetchBarsCmd)
	fetchCmd.AddCommand(fetchFundamentalsCmd)
	fetchCmd.AddCommand(fetchAllCmd)
}

func runFetchBars(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()
	return fetchBars(a)
}

func runFetchFundamentals(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()
	return fetchFundamentals(a)
}

func runFetchAll(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	start := time.Now()
	if err := fetchBars(a); err != nil {
		return err
	}
	if err := fetchFundamentals(a); err != nil {
		return err
	}

	fmt.Printf("\n✅ Data collection completed in %.2fs\n", time.Since(start).Seconds())
	return nil
}

func fetchBars(a *app) error {
	ctx := context.Background()
	constituents, err := a.universeSvc.List(ctx, a.scfg.Universe.ID)
	if err != nil {
		return err
	}
	if len(constituents) == 0 {
		return fmt.Errorf("universe %s is empty, run 'universe refresh' first", a.scfg.Universe.ID)
	}

	fmt.Printf("Fetching bars for %d assets\n", len(constituents))
	failed, err := a.marketFetcher.FetchAll(ctx, constituents)
	if err != nil {
		return err
	}
	fmt.Printf("Bars done (%d failures)\n", failed)
	return nil
}

func fetchFundamentals(a *app) error {
	ctx := context.Background()
	constituents, err := a.universeSvc.List(ctx, a.scfg.Universe.ID)
	if err != nil {
		return err
	}
	if len(constituents) == 0 {
		return fmt.Errorf("universe %s is empty, run 'universe refresh' first", a.scfg.Universe.ID)
	}

	fmt.Printf("Fetching revenue facts for %d assets\n", len(constituents))
	failed, err := a.fundsFetcher.FetchAll(ctx, constituents)
	if err != nil {
		return err
	}
	fmt.Printf("Fundamentals done (%d failures)\n", failed)
	return nil
}
