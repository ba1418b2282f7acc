package commands

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/postpulse/postpulse/internal/automations/domain"
)

// UpdateRuleCommand contains the data needed to update an automation rule.
// Nil fields are left unchanged. Bookkeeping fields (execution count, success
// rate, last execution time) are engine-owned and cannot be updated here.
type UpdateRuleCommand struct {
	RuleID uuid.UUID

	Name        *string
	Description *string
	IsActive    *bool

	TriggerType       *domain.TriggerType
	TriggerConditions map[string]any

	ActionType       *domain.ActionType
	ActionParameters map[string]any
}

// Validate validates the command.
func (c UpdateRuleCommand) Validate() error {
	if c.RuleID == uuid.Nil {
		return errors.New("rule_id is required")
	}
	return nil
}

// UpdateRuleHandler handles the UpdateRuleCommand.
type UpdateRuleHandler struct {
	ruleRepo domain.RuleRepository
}

// NewUpdateRuleHandler creates a new UpdateRuleHandler.
func NewUpdateRuleHandler(ruleRepo domain.RuleRepository) *UpdateRuleHandler {
	return &UpdateRuleHandler{ruleRepo: ruleRepo}
}

// Handle executes the UpdateRuleCommand.
func (h *UpdateRuleHandler) Handle(ctx context.Context, cmd UpdateRuleCommand) (*domain.AutomationRule, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	rule, err := h.ruleRepo.GetByID(ctx, cmd.RuleID)
	if err != nil {
		return nil, err
	}

	if cmd.Name != nil && *cmd.Name != "" {
		rule.Name = *cmd.Name
	}
	if cmd.Description != nil {
		rule.Description = *cmd.Description
	}
	if cmd.IsActive != nil {
		if *cmd.IsActive {
			rule.Activate()
		} else {
			rule.Deactivate()
		}
	}

	triggerType := rule.TriggerType
	if cmd.TriggerType != nil {
		triggerType = *cmd.TriggerType
		if !triggerType.Valid() {
			return nil, &domain.ConfigurationError{Field: "trigger_type", Reason: "unknown trigger type " + string(triggerType)}
		}
	}
	conditions := rule.TriggerConditions
	if cmd.TriggerConditions != nil {
		conditions = cmd.TriggerConditions
	}
	if cmd.TriggerType != nil || cmd.TriggerConditions != nil {
		if err := domain.ValidateTriggerConditions(triggerType, conditions); err != nil {
			return nil, err
		}
		rule.TriggerType = triggerType
		rule.TriggerConditions = conditions
	}

	actionType := rule.ActionType
	if cmd.ActionType != nil {
		actionType = *cmd.ActionType
		if !actionType.Valid() {
			return nil, &domain.ConfigurationError{Field: "action_type", Reason: "unknown action type " + string(actionType)}
		}
	}
	parameters := rule.ActionParameters
	if cmd.ActionParameters != nil {
		parameters = cmd.ActionParameters
	}
	if cmd.ActionType != nil || cmd.ActionParameters != nil {
		if err := domain.ValidateActionParameters(actionType, parameters); err != nil {
			return nil, err
		}
		rule.ActionType = actionType
		rule.ActionParameters = parameters
	}

	if err := h.ruleRepo.Update(ctx, rule); err != nil {
		return nil, err
	}

	return rule, nil
}
