package commands

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/postpulse/postpulse/internal/automations/domain"
)

// EnableRuleCommand activates an automation rule.
type EnableRuleCommand struct {
	RuleID uuid.UUID
}

// Validate validates the command.
func (c EnableRuleCommand) Validate() error {
	if c.RuleID == uuid.Nil {
		return errors.New("rule_id is required")
	}
	return nil
}

// DisableRuleCommand deactivates an automation rule.
type DisableRuleCommand struct {
	RuleID uuid.UUID
}

// Validate validates the command.
func (c DisableRuleCommand) Validate() error {
	if c.RuleID == uuid.Nil {
		return errors.New("rule_id is required")
	}
	return nil
}

// ToggleRuleHandler handles enable/disable operations on rules.
type ToggleRuleHandler struct {
	ruleRepo domain.RuleRepository
}

// NewToggleRuleHandler creates a new ToggleRuleHandler.
func NewToggleRuleHandler(ruleRepo domain.RuleRepository) *ToggleRuleHandler {
	return &ToggleRuleHandler{ruleRepo: ruleRepo}
}

// Enable executes the EnableRuleCommand.
func (h *ToggleRuleHandler) Enable(ctx context.Context, cmd EnableRuleCommand) (*domain.AutomationRule, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	rule, err := h.ruleRepo.GetByID(ctx, cmd.RuleID)
	if err != nil {
		return nil, err
	}

	rule.Activate()

	if err := h.ruleRepo.Update(ctx, rule); err != nil {
		return nil, err
	}

	return rule, nil
}

// Disable executes the DisableRuleCommand. A disabled rule is skipped by the
// engine on subsequent ticks; an execution already in flight completes.
func (h *ToggleRuleHandler) Disable(ctx context.Context, cmd DisableRuleCommand) (*domain.AutomationRule, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	rule, err := h.ruleRepo.GetByID(ctx, cmd.RuleID)
	if err != nil {
		return nil, err
	}

	rule.Deactivate()

	if err := h.ruleRepo.Update(ctx, rule); err != nil {
		return nil, err
	}

	return rule, nil
}
