package commands

import (
	"context"
	"errors"

	"github.com/postpulse/postpulse/internal/automations/domain"
)

// CreateRuleCommand contains the data needed to create an automation rule.
type CreateRuleCommand struct {
	Name        string
	Description string

	TriggerType       domain.TriggerType
	TriggerConditions map[string]any

	ActionType       domain.ActionType
	ActionParameters map[string]any

	IsActive *bool
}

// Validate validates the command.
func (c CreateRuleCommand) Validate() error {
	if c.Name == "" {
		return errors.New("name is required")
	}
	if c.TriggerType == "" {
		return errors.New("trigger_type is required")
	}
	if c.ActionType == "" {
		return errors.New("action_type is required")
	}
	return nil
}

// CreateRuleHandler handles the CreateRuleCommand.
type CreateRuleHandler struct {
	ruleRepo domain.RuleRepository
}

// NewCreateRuleHandler creates a new CreateRuleHandler.
func NewCreateRuleHandler(ruleRepo domain.RuleRepository) *CreateRuleHandler {
	return &CreateRuleHandler{ruleRepo: ruleRepo}
}

// Handle executes the CreateRuleCommand.
func (h *CreateRuleHandler) Handle(ctx context.Context, cmd CreateRuleCommand) (*domain.AutomationRule, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	rule, err := domain.NewAutomationRule(
		cmd.Name,
		cmd.TriggerType,
		cmd.TriggerConditions,
		cmd.ActionType,
		cmd.ActionParameters,
	)
	if err != nil {
		return nil, err
	}

	rule.Description = cmd.Description
	if cmd.IsActive != nil && !*cmd.IsActive {
		rule.Deactivate()
	}

	if err := h.ruleRepo.Create(ctx, rule); err != nil {
		return nil, err
	}

	return rule, nil
}
