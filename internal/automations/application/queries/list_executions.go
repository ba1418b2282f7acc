package queries

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/postpulse/postpulse/internal/automations/domain"
)

// ListExecutionsQuery retrieves execution history, most recent first.
type ListExecutionsQuery struct {
	RuleID *uuid.UUID
	Since  *time.Time
	Limit  int
}

// ListExecutionsHandler handles the ListExecutionsQuery.
type ListExecutionsHandler struct {
	executionRepo domain.ExecutionRepository
	ruleRepo      domain.RuleRepository
}

// NewListExecutionsHandler creates a new ListExecutionsHandler.
func NewListExecutionsHandler(executionRepo domain.ExecutionRepository, ruleRepo domain.RuleRepository) *ListExecutionsHandler {
	return &ListExecutionsHandler{executionRepo: executionRepo, ruleRepo: ruleRepo}
}

// Handle executes the ListExecutionsQuery. When a rule ID is given, the rule
// must exist; querying history for an unknown rule is an error rather than an
// empty result.
func (h *ListExecutionsHandler) Handle(ctx context.Context, q ListExecutionsQuery) ([]*domain.AutomationExecution, error) {
	if q.RuleID != nil {
		if _, err := h.ruleRepo.GetByID(ctx, *q.RuleID); err != nil {
			return nil, err
		}
	}

	filter := domain.ExecutionFilter{
		RuleID: q.RuleID,
		Since:  q.Since,
		Limit:  q.Limit,
	}
	if filter.Limit == 0 {
		filter.Limit = 50 // Default limit
	}

	return h.executionRepo.Query(ctx, filter)
}
