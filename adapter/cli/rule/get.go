package rule

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/postpulse/postpulse/adapter/cli"
	"github.com/postpulse/postpulse/internal/automations/application/queries"
)

var getJSON bool

var getCmd = &cobra.Command{
	Use:   "get [rule-id]",
	Short: "Get details of an automation rule",
	Long: `Display detailed information about a specific automation rule.

Examples:
  postpulse rule get abc123...          # View rule details
  postpulse rule get abc123... --json   # Output as JSON`,
	Aliases: []string{"show", "info"},
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.AutomationService == nil {
			fmt.Println("Rule management requires a configured database.")
			return nil
		}

		ruleID, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid rule ID: %w", err)
		}

		found, err := app.AutomationService.GetRule(cmd.Context(), queries.GetRuleQuery{
			RuleID: ruleID,
		})
		if err != nil {
			return fmt.Errorf("failed to get rule: %w", err)
		}

		if getJSON {
			output, err := json.MarshalIndent(found, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal rule: %w", err)
			}
			fmt.Println(string(output))
			return nil
		}

		fmt.Println()
		fmt.Printf("Rule: %s\n", found.Name)
		fmt.Println(strings.Repeat("=", 50))
		fmt.Printf("  ID:          %s\n", found.ID)
		fmt.Printf("  Status:      %s\n", statusText(found.IsActive))
		if found.Description != "" {
			fmt.Printf("  Description: %s\n", found.Description)
		}
		fmt.Println()

		fmt.Println("Trigger")
		fmt.Println(strings.Repeat("-", 50))
		fmt.Printf("  Type: %s\n", found.TriggerType)
		if len(found.TriggerConditions) > 0 {
			conditionsJSON, _ := json.MarshalIndent(found.TriggerConditions, "  ", "  ")
			fmt.Printf("  Conditions:\n  %s\n", string(conditionsJSON))
		}
		fmt.Println()

		fmt.Println("Action")
		fmt.Println(strings.Repeat("-", 50))
		fmt.Printf("  Type: %s\n", found.ActionType)
		if len(found.ActionParameters) > 0 {
			parametersJSON, _ := json.MarshalIndent(found.ActionParameters, "  ", "  ")
			fmt.Printf("  Parameters:\n  %s\n", string(parametersJSON))
		}
		fmt.Println()

		fmt.Println("Execution")
		fmt.Println(strings.Repeat("-", 50))
		fmt.Printf("  Count:        %d\n", found.ExecutionCount)
		fmt.Printf("  Success rate: %.1f%%\n", found.SuccessRate)
		fmt.Printf("  Created:      %s\n", found.CreatedAt.Format("2006-01-02 15:04:05"))
		if found.LastExecutedAt != nil {
			fmt.Printf("  Last run:     %s\n", found.LastExecutedAt.Format("2006-01-02 15:04:05"))
		}
		fmt.Println()

		return nil
	},
}

func init() {
	getCmd.Flags().BoolVar(&getJSON, "json", false, "output as JSON")
}
