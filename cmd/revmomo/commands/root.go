package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	strategyFile string
	verbose      bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "revmomo",
	Short: "Revenue momentum strategy for the NASDAQ-100",
	Long: `revmomo - revenue growth weight pipeline

Builds daily long-only portfolio weights from SEC revenue filings:
an asset is held when its trailing revenue exceeds the level one
quarter of trading days ago, gated by dollar-volume liquidity.

Usage:
  go run ./cmd/revmomo [command]

Examples:
  go run ./cmd/revmomo universe refresh
  go run ./cmd/revmomo fetch all
  go run ./cmd/revmomo run
  go run ./cmd/revmomo serve`,
}

// Execute adds all child commands to the root command and sets flags
// appropriately. Called once from main.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&strategyFile, "strategy", "", "strategy config file (default built-in)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
