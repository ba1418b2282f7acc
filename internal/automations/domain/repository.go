package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// RuleFilter specifies criteria for listing rules.
type RuleFilter struct {
	IsActive    *bool
	TriggerType *TriggerType
	Limit       int
	Offset      int
}

// ExecutionFilter specifies criteria for querying execution history.
// Results are ordered most recent first.
type ExecutionFilter struct {
	RuleID *uuid.UUID
	Since  *time.Time
	Limit  int
}

// RuleRepository defines the persistence contract for automation rules.
//
// The engine reads via ListActive on each tick and writes bookkeeping fields
// only through UpdateBookkeeping; administrative updates go through Update
// and must not touch bookkeeping columns. That split keeps engine writes and
// API writes from clobbering each other.
type RuleRepository interface {
	// Create persists a new automation rule.
	Create(ctx context.Context, rule *AutomationRule) error

	// Update persists administrative fields of an existing rule
	// (name, description, conditions, parameters, active flag).
	Update(ctx context.Context, rule *AutomationRule) error

	// UpdateBookkeeping persists the engine-owned fields of a rule.
	UpdateBookkeeping(ctx context.Context, id uuid.UUID, lastExecutedAt *time.Time, executionCount int, successRate float64) error

	// Delete removes a rule. Returns ErrRuleNotFound if it does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// GetByID retrieves a rule by ID. Returns ErrRuleNotFound if absent.
	GetByID(ctx context.Context, id uuid.UUID) (*AutomationRule, error)

	// List retrieves rules matching the filter with the total count.
	List(ctx context.Context, filter RuleFilter) ([]*AutomationRule, int64, error)

	// ListActive retrieves all active rules.
	ListActive(ctx context.Context) ([]*AutomationRule, error)
}

// ExecutionRepository defines the append-only execution history contract.
// Records are never mutated or deleted individually; DeleteOlderThan exists
// only for retention pruning.
type ExecutionRepository interface {
	// Append records one firing attempt.
	Append(ctx context.Context, execution *AutomationExecution) error

	// Query retrieves executions matching the filter, most recent first.
	Query(ctx context.Context, filter ExecutionFilter) ([]*AutomationExecution, error)

	// CountAll returns the total number of recorded executions.
	CountAll(ctx context.Context) (int64, error)

	// CountByRule returns the total and successful execution counts for a rule.
	CountByRule(ctx context.Context, ruleID uuid.UUID) (total, successes int64, err error)

	// CountSince returns the total and successful execution counts since a
	// point in time. A zero time counts everything.
	CountSince(ctx context.Context, since time.Time) (total, successes int64, err error)

	// DeleteOlderThan prunes executions older than the given time,
	// returning the number removed.
	DeleteOlderThan(ctx context.Context, before time.Time) (int64, error)
}

// MilestoneStore tracks which follower milestones have already fired for a
// rule, so a milestone crossing triggers at most once.
type MilestoneStore interface {
	// HasFired reports whether the milestone already triggered for the rule
	// on the given platform.
	HasFired(ctx context.Context, ruleID uuid.UUID, platform string, milestone int64) (bool, error)

	// MarkFired records that the milestone triggered.
	MarkFired(ctx context.Context, ruleID uuid.UUID, platform string, milestone int64) error
}
