// Package rule implements the rule command group.
package rule

import (
	"github.com/spf13/cobra"
)

// Cmd is the rule command group
var Cmd = &cobra.Command{
	Use:     "rule",
	Aliases: []string{"rules", "automation"},
	Short:   "Manage automation rules",
	Long: `Create, list, and manage automation rules.

A rule pairs a trigger (when to act) with an action (what to do).
The background engine evaluates active rules once a minute.

Examples:
  postpulse rule list                       # List all rules
  postpulse rule create "Morning post"      # Create a new rule
  postpulse rule enable <id>                # Enable a rule
  postpulse rule executions                 # View execution history
  postpulse rule templates                  # Show ready-made templates`,
}

func init() {
	Cmd.AddCommand(createCmd)
	Cmd.AddCommand(listCmd)
	Cmd.AddCommand(getCmd)
	Cmd.AddCommand(enableCmd)
	Cmd.AddCommand(disableCmd)
	Cmd.AddCommand(deleteCmd)
	Cmd.AddCommand(executionsCmd)
	Cmd.AddCommand(templatesCmd)
}
