package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// scheduleCmd runs the job scheduler as a standalone daemon.
var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Run the job scheduler",
	Long: `Runs the standing jobs on their cron schedules:
  universe_refresh  - Sundays 06:00 UTC
  data_collection   - weekdays 22:30 UTC
  strategy_run      - weekdays 23:30 UTC

Example:
  go run ./cmd/revmomo schedule`,
	RunE: runSchedule,
}

func init() {
	rootCmd.AddCommand(scheduleCmd)
}

func runSchedule(cmd *cobra.Command, args []string) error {
	fmt.Println("=== revmomo scheduler ===")

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	sched, err := buildScheduler(a)
	if err != nil {
		return err
	}

	for _, name := range sched.Jobs() {
		fmt.Printf("  job: %s\n", name)
	}

	sched.Start()
	defer sched.Stop()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	a.log.WithField("signal", sig.String()).Info("Shutdown signal received")
	return nil
}
