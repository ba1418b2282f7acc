package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var engineCmd = &cobra.Command{
	Use:   "engine",
	Short: "Run or inspect the automation engine",
}

var engineRunCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the automation engine in the foreground",
	Long: `Start the engine loop in this process and block until interrupted.
For production deployments, prefer the dedicated worker binary.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		if app == nil || app.Engine == nil {
			fmt.Println("Engine requires a configured database.")
			return nil
		}

		app.Engine.Start(cmd.Context())
		fmt.Println("Engine running. Press Ctrl+C to stop.")

		stop := make(chan os.Signal, 1)
		signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
		<-stop

		fmt.Println("Stopping, waiting for in-flight executions...")
		app.Engine.Stop()
		fmt.Println("Engine stopped.")
		return nil
	},
}

var engineTickCmd = &cobra.Command{
	Use:   "tick",
	Short: "Run a single evaluation pass",
	Long: `Evaluate every active rule once, execute any that fire, and exit.
Useful for testing rules without running the engine loop.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		if app == nil || app.Engine == nil {
			fmt.Println("Engine requires a configured database.")
			return nil
		}

		if err := app.Engine.TickOnce(cmd.Context()); err != nil {
			return fmt.Errorf("tick failed: %w", err)
		}

		stats := app.Engine.GetStats()
		fmt.Printf("Tick complete: %d rules evaluated, %d fired (%d ok, %d failed)\n",
			stats.RulesEvaluated, stats.RulesFired, stats.Succeeded, stats.Failed)
		return nil
	},
}

func init() {
	engineCmd.AddCommand(engineRunCmd)
	engineCmd.AddCommand(engineTickCmd)
	rootCmd.AddCommand(engineCmd)
}
