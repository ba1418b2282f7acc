package commands

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/postpulse/postpulse/internal/automations/domain"
)

// DeleteRuleCommand contains the data needed to delete an automation rule.
type DeleteRuleCommand struct {
	RuleID uuid.UUID
}

// Validate validates the command.
func (c DeleteRuleCommand) Validate() error {
	if c.RuleID == uuid.Nil {
		return errors.New("rule_id is required")
	}
	return nil
}

// DeleteRuleHandler handles the DeleteRuleCommand.
type DeleteRuleHandler struct {
	ruleRepo domain.RuleRepository
}

// NewDeleteRuleHandler creates a new DeleteRuleHandler.
func NewDeleteRuleHandler(ruleRepo domain.RuleRepository) *DeleteRuleHandler {
	return &DeleteRuleHandler{ruleRepo: ruleRepo}
}

// Handle executes the DeleteRuleCommand. The rule's execution history is
// retained; only the rule itself is removed.
func (h *DeleteRuleHandler) Handle(ctx context.Context, cmd DeleteRuleCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	return h.ruleRepo.Delete(ctx, cmd.RuleID)
}
