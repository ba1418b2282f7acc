package queries

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/postpulse/postpulse/internal/automations/domain"
)

// GetRuleQuery retrieves a single automation rule by ID.
type GetRuleQuery struct {
	RuleID uuid.UUID
}

// Validate validates the query.
func (q GetRuleQuery) Validate() error {
	if q.RuleID == uuid.Nil {
		return errors.New("rule_id is required")
	}
	return nil
}

// GetRuleHandler handles the GetRuleQuery.
type GetRuleHandler struct {
	ruleRepo domain.RuleRepository
}

// NewGetRuleHandler creates a new GetRuleHandler.
func NewGetRuleHandler(ruleRepo domain.RuleRepository) *GetRuleHandler {
	return &GetRuleHandler{ruleRepo: ruleRepo}
}

// Handle executes the GetRuleQuery.
func (h *GetRuleHandler) Handle(ctx context.Context, q GetRuleQuery) (*domain.AutomationRule, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	return h.ruleRepo.GetByID(ctx, q.RuleID)
}
