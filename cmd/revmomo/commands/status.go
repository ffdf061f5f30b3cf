package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// statusCmd checks database and cache connectivity.
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check database and cache health",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	health, err := a.db.HealthCheck(ctx)
	if err != nil {
		return fmt.Errorf("database health: %w", err)
	}

	if !health.Healthy {
		return fmt.Errorf("database unhealthy: %s", health.Error)
	}
	fmt.Printf("Database  : ok (%.0fms)\n", float64(health.ResponseTime.Milliseconds()))
	fmt.Printf("  acquired=%d idle=%d total=%d max=%d\n",
		health.Stats.AcquiredConns, health.Stats.IdleConns,
		health.Stats.TotalConns, health.Stats.MaxConns)

	if a.redis.Enabled() {
		if err := a.redis.Redis().Ping(ctx).Err(); err != nil {
			return fmt.Errorf("redis health: %w", err)
		}
		fmt.Println("Redis     : ok")
	} else {
		fmt.Println("Redis     : disabled")
	}

	fmt.Println("✅ All checks passed")
	return nil
}
