// Package action executes the effect side of automation rules, one handler
// strategy per action type.
package action

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/postpulse/postpulse/internal/automations/domain"
)

// Handler executes a specific action type. Handlers may call external
// collaborators (content generation, publishing); a returned error is
// recorded as a failed execution by the engine and is not retried.
type Handler interface {
	// ActionType returns the action type this handler supports.
	ActionType() domain.ActionType

	// Execute performs the action and returns its result payload.
	Execute(ctx context.Context, rule *domain.AutomationRule) (map[string]any, error)
}

// Executor dispatches rule actions to registered handlers.
type Executor struct {
	handlers map[domain.ActionType]Handler
	logger   *slog.Logger
}

// NewExecutor creates an action executor.
func NewExecutor(logger *slog.Logger) *Executor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Executor{
		handlers: make(map[domain.ActionType]Handler),
		logger:   logger,
	}
}

// Register adds a handler, replacing any previous one for the same type.
func (e *Executor) Register(h Handler) {
	e.handlers[h.ActionType()] = h
}

// Execute runs the rule's action via the matching handler.
func (e *Executor) Execute(ctx context.Context, rule *domain.AutomationRule) (map[string]any, error) {
	handler, ok := e.handlers[rule.ActionType]
	if !ok {
		return nil, fmt.Errorf("no handler registered for action type %q", rule.ActionType)
	}

	start := time.Now()
	result, err := handler.Execute(ctx, rule)
	duration := time.Since(start)

	if err != nil {
		e.logger.Warn("action execution failed",
			"rule_id", rule.ID,
			"action_type", rule.ActionType,
			"duration_ms", duration.Milliseconds(),
			"error", err,
		)
		return nil, err
	}

	e.logger.Debug("action executed",
		"rule_id", rule.ID,
		"action_type", rule.ActionType,
		"duration_ms", duration.Milliseconds(),
	)
	return result, nil
}
