// Package domain contains the automation rules domain model.
package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common errors for automation rules.
var (
	ErrRuleNotFound      = errors.New("automation rule not found")
	ErrRuleInactive      = errors.New("automation rule is inactive")
	ErrInvalidRule       = errors.New("invalid automation rule")
	ErrExecutionNotFound = errors.New("automation execution not found")
)

// TriggerType represents the condition family that decides when a rule fires.
type TriggerType string

const (
	TriggerTimeBased          TriggerType = "time_based"
	TriggerEngagementBased    TriggerType = "engagement_based"
	TriggerTrendingTopic      TriggerType = "trending_topic"
	TriggerFollowerMilestone  TriggerType = "follower_milestone"
	TriggerCompetitorActivity TriggerType = "competitor_activity"
	TriggerContentPerformance TriggerType = "content_performance"
)

// Valid reports whether t is a known trigger type.
func (t TriggerType) Valid() bool {
	switch t {
	case TriggerTimeBased, TriggerEngagementBased, TriggerTrendingTopic,
		TriggerFollowerMilestone, TriggerCompetitorActivity, TriggerContentPerformance:
		return true
	}
	return false
}

// ActionType represents the effect performed when a rule fires.
type ActionType string

const (
	ActionCreatePost         ActionType = "create_post"
	ActionSchedulePost       ActionType = "schedule_post"
	ActionEngageWithContent  ActionType = "engage_with_content"
	ActionFollowUsers        ActionType = "follow_users"
	ActionAnalyzePerformance ActionType = "analyze_performance"
	ActionSendNotification   ActionType = "send_notification"
)

// Valid reports whether a is a known action type.
func (a ActionType) Valid() bool {
	switch a {
	case ActionCreatePost, ActionSchedulePost, ActionEngageWithContent,
		ActionFollowUsers, ActionAnalyzePerformance, ActionSendNotification:
		return true
	}
	return false
}

// AutomationRule is a standing user instruction pairing a trigger with an action.
//
// Bookkeeping fields (LastExecutedAt, ExecutionCount, SuccessRate) are
// mutated only by the engine; the administrative layer must never write them
// directly.
type AutomationRule struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`

	TriggerType       TriggerType    `json:"trigger_type"`
	TriggerConditions map[string]any `json:"trigger_conditions"`

	ActionType       ActionType     `json:"action_type"`
	ActionParameters map[string]any `json:"action_parameters"`

	IsActive bool `json:"is_active"`

	CreatedAt      time.Time  `json:"created_at"`
	LastExecutedAt *time.Time `json:"last_executed_at,omitempty"`
	ExecutionCount int        `json:"execution_count"`
	SuccessRate    float64    `json:"success_rate"`
}

// NewAutomationRule creates a validated automation rule. Trigger conditions
// and action parameters are parsed here so that malformed rules are rejected
// before they ever reach the engine.
func NewAutomationRule(
	name string,
	triggerType TriggerType,
	conditions map[string]any,
	actionType ActionType,
	parameters map[string]any,
) (*AutomationRule, error) {
	if name == "" {
		return nil, errors.New("rule name is required")
	}
	if !triggerType.Valid() {
		return nil, &ConfigurationError{Field: "trigger_type", Reason: "unknown trigger type " + string(triggerType)}
	}
	if !actionType.Valid() {
		return nil, &ConfigurationError{Field: "action_type", Reason: "unknown action type " + string(actionType)}
	}
	if conditions == nil {
		conditions = map[string]any{}
	}
	if parameters == nil {
		parameters = map[string]any{}
	}
	if err := ValidateTriggerConditions(triggerType, conditions); err != nil {
		return nil, err
	}
	if err := ValidateActionParameters(actionType, parameters); err != nil {
		return nil, err
	}

	return &AutomationRule{
		ID:                uuid.New(),
		Name:              name,
		TriggerType:       triggerType,
		TriggerConditions: conditions,
		ActionType:        actionType,
		ActionParameters:  parameters,
		IsActive:          true,
		CreatedAt:         time.Now().UTC(),
		SuccessRate:       100,
	}, nil
}

// Activate marks the rule as active.
func (r *AutomationRule) Activate() { r.IsActive = true }

// Deactivate marks the rule as inactive. Inactive rules are skipped by the
// engine but retained.
func (r *AutomationRule) Deactivate() { r.IsActive = false }

// RecordExecution applies engine bookkeeping for one firing attempt.
// LastExecutedAt advances only on success; failures still count toward the
// execution total.
func (r *AutomationRule) RecordExecution(at time.Time, success bool) {
	r.ExecutionCount++
	if success {
		t := at
		r.LastExecutedAt = &t
	}
}

// RecomputeSuccessRate derives the success percentage from execution history
// counts. A rule with no executions reports 100.
func (r *AutomationRule) RecomputeSuccessRate(total, successes int64) {
	r.ExecutionCount = int(total)
	r.SuccessRate = SuccessRate(total, successes)
}

// SuccessRate computes 100 * successes / total, or 100 when total is zero.
func SuccessRate(total, successes int64) float64 {
	if total == 0 {
		return 100
	}
	return float64(successes) / float64(total) * 100
}

// AutomationExecution is an immutable record of one firing attempt.
type AutomationExecution struct {
	ID           uuid.UUID      `json:"id"`
	RuleID       uuid.UUID      `json:"rule_id"`
	ExecutedAt   time.Time      `json:"executed_at"`
	Success      bool           `json:"success"`
	Result       map[string]any `json:"result,omitempty"`
	ErrorMessage string         `json:"error_message,omitempty"`
}

// NewExecution creates a successful execution record.
func NewExecution(ruleID uuid.UUID, at time.Time, result map[string]any) *AutomationExecution {
	if result == nil {
		result = map[string]any{}
	}
	return &AutomationExecution{
		ID:         uuid.New(),
		RuleID:     ruleID,
		ExecutedAt: at,
		Success:    true,
		Result:     result,
	}
}

// NewFailedExecution creates a failed execution record with the cause.
func NewFailedExecution(ruleID uuid.UUID, at time.Time, errMsg string) *AutomationExecution {
	return &AutomationExecution{
		ID:           uuid.New(),
		RuleID:       ruleID,
		ExecutedAt:   at,
		Success:      false,
		Result:       map[string]any{},
		ErrorMessage: errMsg,
	}
}

// ConfigurationError reports a structurally invalid rule definition. It is
// surfaced at rule-creation time by the administrative layer; the engine
// assumes all stored rules are valid.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "invalid rule configuration: " + e.Field + ": " + e.Reason
}
