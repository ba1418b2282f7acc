package rule

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/postpulse/postpulse/internal/automations/application/queries"
)

var templatesJSON bool

var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "Show built-in rule templates",
	Long: `List the ready-made rule templates. Create a rule from a template
with: postpulse rule create "Name" --template <id>`,
	RunE: func(cmd *cobra.Command, args []string) error {
		templates := queries.ListTemplates()

		if templatesJSON {
			output, err := json.MarshalIndent(templates, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal templates: %w", err)
			}
			fmt.Println(string(output))
			return nil
		}

		for _, template := range templates {
			fmt.Printf("%s\n", template.ID)
			fmt.Println(strings.Repeat("-", 50))
			fmt.Printf("  Name:        %s\n", template.Name)
			fmt.Printf("  Description: %s\n", template.Description)
			fmt.Printf("  Trigger:     %s\n", template.TriggerType)
			fmt.Printf("  Action:      %s\n", template.ActionType)
			fmt.Println()
		}

		return nil
	},
}

func init() {
	templatesCmd.Flags().BoolVar(&templatesJSON, "json", false, "output as JSON")
}
