package rule

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/postpulse/postpulse/adapter/cli"
	"github.com/postpulse/postpulse/internal/automations/application/commands"
	"github.com/postpulse/postpulse/internal/automations/application/queries"
	"github.com/postpulse/postpulse/internal/automations/domain"
)

var (
	createTriggerType string
	createConditions  string
	createActionType  string
	createParameters  string
	createDescription string
	createTemplate    string
	createInactive    bool
)

var createCmd = &cobra.Command{
	Use:   "create [name]",
	Short: "Create a new automation rule",
	Long: `Create a new automation rule from a trigger and an action.

Trigger Types:
  time_based           - Fire on a daily or hourly schedule
  engagement_based     - Fire when engagement exceeds a threshold
  trending_topic       - Fire on relevant trending topics
  follower_milestone   - Fire when follower counts cross milestones
  content_performance  - Fire when average performance meets a threshold

Examples:
  # Post twice a day
  postpulse rule create "Daily posts" \
    --trigger-type time_based \
    --conditions '{"schedule":"daily","times":["09:00","15:00"],"timezone":"UTC"}' \
    --action-type create_post \
    --parameters '{"content_topics":["product updates"],"platforms":["twitter"]}'

  # Start from a template
  postpulse rule create "My daily content" --template daily-content`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.AutomationService == nil {
			fmt.Println("Rule management requires a configured database.")
			return nil
		}

		name := args[0]

		createCommand := commands.CreateRuleCommand{
			Name:        name,
			Description: createDescription,
		}

		if createTemplate != "" {
			template, ok := findTemplate(createTemplate)
			if !ok {
				return fmt.Errorf("unknown template %q, see: postpulse rule templates", createTemplate)
			}
			createCommand.TriggerType = template.TriggerType
			createCommand.TriggerConditions = template.TriggerConditions
			createCommand.ActionType = template.ActionType
			createCommand.ActionParameters = template.ActionParameters
		} else {
			var conditions map[string]any
			if createConditions != "" {
				if err := json.Unmarshal([]byte(createConditions), &conditions); err != nil {
					return fmt.Errorf("invalid conditions JSON: %w", err)
				}
			}
			var parameters map[string]any
			if createParameters != "" {
				if err := json.Unmarshal([]byte(createParameters), &parameters); err != nil {
					return fmt.Errorf("invalid parameters JSON: %w", err)
				}
			}
			createCommand.TriggerType = domain.TriggerType(createTriggerType)
			createCommand.TriggerConditions = conditions
			createCommand.ActionType = domain.ActionType(createActionType)
			createCommand.ActionParameters = parameters
		}

		if createInactive {
			active := false
			createCommand.IsActive = &active
		}

		created, err := app.AutomationService.CreateRule(cmd.Context(), createCommand)
		if err != nil {
			return fmt.Errorf("failed to create rule: %w", err)
		}

		fmt.Printf("Created automation rule: %s\n", name)
		fmt.Printf("  ID: %s\n", created.ID)
		fmt.Printf("  Trigger: %s\n", created.TriggerType)
		fmt.Printf("  Action: %s\n", created.ActionType)
		fmt.Printf("  Status: %s\n", statusText(created.IsActive))

		return nil
	},
}

func findTemplate(id string) (queries.RuleTemplate, bool) {
	for _, template := range queries.ListTemplates() {
		if template.ID == id {
			return template, true
		}
	}
	return queries.RuleTemplate{}, false
}

func statusText(active bool) string {
	if active {
		return "active"
	}
	return "inactive"
}

func init() {
	createCmd.Flags().StringVarP(&createTriggerType, "trigger-type", "t", "time_based", "trigger type")
	createCmd.Flags().StringVar(&createConditions, "conditions", "", "trigger conditions as JSON")
	createCmd.Flags().StringVarP(&createActionType, "action-type", "a", "create_post", "action type")
	createCmd.Flags().StringVar(&createParameters, "parameters", "", "action parameters as JSON")
	createCmd.Flags().StringVarP(&createDescription, "description", "d", "", "rule description")
	createCmd.Flags().StringVar(&createTemplate, "template", "", "create from a built-in template")
	createCmd.Flags().BoolVar(&createInactive, "inactive", false, "create the rule deactivated")
}
