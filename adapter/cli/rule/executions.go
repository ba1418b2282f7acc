package rule

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/postpulse/postpulse/adapter/cli"
	"github.com/postpulse/postpulse/internal/automations/application/queries"
)

var (
	executionsRuleID string
	executionsLimit  int
)

var executionsCmd = &cobra.Command{
	Use:   "executions",
	Short: "View execution history",
	Long: `Show recent rule executions, most recent first.

Examples:
  postpulse rule executions                    # Recent executions across all rules
  postpulse rule executions --rule abc123...   # History for one rule`,
	Aliases: []string{"history"},
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.AutomationService == nil {
			fmt.Println("Rule management requires a configured database.")
			return nil
		}

		query := queries.ListExecutionsQuery{Limit: executionsLimit}

		if executionsRuleID != "" {
			ruleID, err := uuid.Parse(executionsRuleID)
			if err != nil {
				return fmt.Errorf("invalid rule ID: %w", err)
			}
			query.RuleID = &ruleID
		}

		executions, err := app.AutomationService.ListExecutions(cmd.Context(), query)
		if err != nil {
			return fmt.Errorf("failed to list executions: %w", err)
		}

		if len(executions) == 0 {
			fmt.Println("No executions recorded yet.")
			return nil
		}

		fmt.Printf("Executions (%d shown)\n", len(executions))
		fmt.Println(strings.Repeat("-", 70))

		for _, execution := range executions {
			outcome := "ok"
			if !execution.Success {
				outcome = "FAILED"
			}
			fmt.Printf("%s  %-6s  rule %s\n",
				execution.ExecutedAt.Format("2006-01-02 15:04:05"),
				outcome,
				execution.RuleID,
			)
			if execution.ErrorMessage != "" {
				fmt.Printf("    error: %s\n", execution.ErrorMessage)
			}
		}

		return nil
	},
}

func init() {
	executionsCmd.Flags().StringVarP(&executionsRuleID, "rule", "r", "", "filter by rule ID")
	executionsCmd.Flags().IntVarP(&executionsLimit, "limit", "l", 20, "maximum number of executions to show")
}
