package rule

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/postpulse/postpulse/adapter/cli"
	"github.com/postpulse/postpulse/internal/automations/application/commands"
)

var deleteForce bool

var deleteCmd = &cobra.Command{
	Use:   "delete [rule-id]",
	Short: "Delete an automation rule",
	Long: `Permanently delete an automation rule. The execution history of the
rule is retained.

Example:
  postpulse rule delete abc123... --force`,
	Aliases: []string{"rm", "remove"},
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

		if !deleteForce {
			fmt.Printf("Delete rule %s? This cannot be undone. Use --force to confirm.\n", ruleID)
			return nil
		}

		if err := app.AutomationService.DeleteRule(cmd.Context(), commands.DeleteRuleCommand{
			RuleID: ruleID,
		}); err != nil {
			return fmt.Errorf("failed to delete rule: %w", err)
		}

		fmt.Printf("Deleted rule: %s\n", ruleID)
		return nil
	},
}

func init() {
	deleteCmd.Flags().BoolVarP(&deleteForce, "force", "f", false, "skip confirmation")
}
