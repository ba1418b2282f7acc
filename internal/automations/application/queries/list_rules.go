package queries

import (
	"context"

	"github.com/postpulse/postpulse/internal/automations/domain"
)

// ListRulesQuery retrieves automation rules matching filter criteria.
type ListRulesQuery struct {
	IsActive    *bool
	TriggerType *domain.TriggerType
	Limit       int
	Offset      int
}

// ListRulesResult contains the result of a ListRulesQuery.
type ListRulesResult struct {
	Rules []*domain.AutomationRule
	Total int64
}

// ListRulesHandler handles the ListRulesQuery.
type ListRulesHandler struct {
	ruleRepo domain.RuleRepository
}

// NewListRulesHandler creates a new ListRulesHandler.
func NewListRulesHandler(ruleRepo domain.RuleRepository) *ListRulesHandler {
	return &ListRulesHandler{ruleRepo: ruleRepo}
}

// Handle executes the ListRulesQuery.
func (h *ListRulesHandler) Handle(ctx context.Context, q ListRulesQuery) (*ListRulesResult, error) {
	filter := domain.RuleFilter{
		IsActive:    q.IsActive,
		TriggerType: q.TriggerType,
		Limit:       q.Limit,
		Offset:      q.Offset,
	}

	if filter.Limit == 0 {
		filter.Limit = 50 // Default limit
	}

	rules, total, err := h.ruleRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	return &ListRulesResult{
		Rules: rules,
		Total: total,
	}, nil
}
