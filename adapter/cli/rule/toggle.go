package rule

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/postpulse/postpulse/adapter/cli"
	"github.com/postpulse/postpulse/internal/automations/application/commands"
)

var enableCmd = &cobra.Command{
	Use:   "enable [rule-id]",
	Short: "Enable an automation rule",
	Long: `Activate a rule so the engine evaluates it again.

Example:
  postpulse rule enable abc123...`,
	Args: cobra.ExactArgs(1),
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

		enabled, err := app.AutomationService.EnableRule(cmd.Context(), commands.EnableRuleCommand{
			RuleID: ruleID,
		})
		if err != nil {
			return fmt.Errorf("failed to enable rule: %w", err)
		}

		fmt.Printf("Enabled rule: %s\n", enabled.Name)
		return nil
	},
}

var disableCmd = &cobra.Command{
	Use:   "disable [rule-id]",
	Short: "Disable an automation rule",
	Long: `Deactivate a rule. The engine skips it on subsequent ticks; an
execution already in flight completes normally. The rule and its history
are retained.

Example:
  postpulse rule disable abc123...`,
	Args: cobra.ExactArgs(1),
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

		disabled, err := app.AutomationService.DisableRule(cmd.Context(), commands.DisableRuleCommand{
			RuleID: ruleID,
		})
		if err != nil {
			return fmt.Errorf("failed to disable rule: %w", err)
		}

		fmt.Printf("Disabled rule: %s\n", disabled.Name)
		return nil
	},
}
