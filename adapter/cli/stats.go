package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/postpulse/postpulse/internal/automations/application/queries"
)

var (
	statsJSON bool
	statsDays int
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show automation statistics",
	Long: `Display aggregated statistics: rule counts, execution volumes,
success rates, and per-day execution counts.

Examples:
  postpulse stats            # Summary with a 7-day breakdown
  postpulse stats --days 30  # 30-day breakdown
  postpulse stats --json     # Output as JSON`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		if app == nil || app.AutomationService == nil {
			fmt.Println("Statistics require a configured database.")
			return nil
		}

		result, err := app.AutomationService.GetStats(cmd.Context(), queries.GetStatsQuery{Days: statsDays})
		if err != nil {
			return fmt.Errorf("failed to get stats: %w", err)
		}

		if statsJSON {
			output, err := json.MarshalIndent(result, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal stats: %w", err)
			}
			fmt.Println(string(output))
			return nil
		}

		fmt.Println()
		fmt.Println("Automation Overview")
		fmt.Println(strings.Repeat("=", 50))
		fmt.Printf("  Rules:              %d (%d active)\n", result.Overview.TotalRules, result.Overview.ActiveRules)
		fmt.Printf("  Executions:         %d total, %d in last 24h\n", result.Overview.TotalExecutions, result.Overview.ExecutionsLast24h)
		fmt.Printf("  Overall success:    %.1f%%\n", result.Overview.OverallSuccessRate)
		fmt.Println()

		if len(result.Rules) > 0 {
			fmt.Println("Rules by execution count")
			fmt.Println(strings.Repeat("-", 50))
			for _, rule := range result.Rules {
				fmt.Printf("  %-30s  %5d runs  %.1f%%\n", truncate(rule.Name, 30), rule.ExecutionCount, rule.SuccessRate)
			}
			fmt.Println()
		}

		fmt.Println("Daily executions")
		fmt.Println(strings.Repeat("-", 50))
		for _, day := range result.DailyCounts {
			fmt.Printf("  %s  %4d (%d ok)\n", day.Day, day.Count, day.Succeeded)
		}
		fmt.Println()

		return nil
	},
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-1] + "…"
}

func init() {
	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "output as JSON")
	statsCmd.Flags().IntVar(&statsDays, "days", 7, "daily breakdown window in days")
	rootCmd.AddCommand(statsCmd)
}
