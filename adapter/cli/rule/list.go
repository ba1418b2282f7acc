package rule

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/postpulse/postpulse/adapter/cli"
	"github.com/postpulse/postpulse/internal/automations/application/queries"
	"github.com/postpulse/postpulse/internal/automations/domain"
)

var (
	listActive      string // "true", "false", or "" for all
	listTriggerType string
	listLimit       int
	listOffset      int
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List automation rules",
	Long: `List all automation rules with optional filtering.

Examples:
  postpulse rule list                       # List all rules
  postpulse rule list --active true         # List active rules only
  postpulse rule list --trigger time_based  # List time-based rules`,
	Aliases: []string{"ls"},
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.AutomationService == nil {
			fmt.Println("Rule management requires a configured database.")
			return nil
		}

		query := queries.ListRulesQuery{
			Limit:  listLimit,
			Offset: listOffset,
		}

		if listActive == "true" {
			active := true
			query.IsActive = &active
		} else if listActive == "false" {
			active := false
			query.IsActive = &active
		}

		if listTriggerType != "" {
			triggerType := domain.TriggerType(listTriggerType)
			query.TriggerType = &triggerType
		}

		result, err := app.AutomationService.ListRules(cmd.Context(), query)
		if err != nil {
			return fmt.Errorf("failed to list rules: %w", err)
		}

		if len(result.Rules) == 0 {
			fmt.Println("No automation rules found.")
			fmt.Println()
			fmt.Println("Create a new rule with: postpulse rule create \"Rule name\"")
			return nil
		}

		fmt.Printf("Automation Rules (%d total)\n", result.Total)
		fmt.Println(strings.Repeat("-", 70))

		for _, item := range result.Rules {
			statusIcon := "✓"
			if !item.IsActive {
				statusIcon = "○"
			}

			fmt.Printf("%s %-36s  %s\n", statusIcon, item.ID, item.Name)
			fmt.Printf("    Trigger: %-20s  Action: %s\n", item.TriggerType, item.ActionType)
			fmt.Printf("    Executions: %-5d  Success rate: %.1f%%", item.ExecutionCount, item.SuccessRate)
			if item.LastExecutedAt != nil {
				fmt.Printf("  Last run: %s", item.LastExecutedAt.Format("2006-01-02 15:04"))
			}
			fmt.Println()
		}

		fmt.Println(strings.Repeat("-", 70))
		fmt.Printf("Showing %d of %d rules\n", len(result.Rules), result.Total)

		return nil
	},
}

func init() {
	listCmd.Flags().StringVar(&listActive, "active", "", "filter by active status (true/false)")
	listCmd.Flags().StringVarP(&listTriggerType, "trigger", "t", "", "filter by trigger type")
	listCmd.Flags().IntVarP(&listLimit, "limit", "l", 50, "maximum number of rules to show")
	listCmd.Flags().IntVar(&listOffset, "offset", 0, "number of rules to skip")
}
