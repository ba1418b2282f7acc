// Package trigger contains the per-trigger-type evaluation strategies that
// decide whether an automation rule should fire on a given tick.
package trigger

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/postpulse/postpulse/internal/automations/domain"
)

// Evaluator decides whether a rule should fire now. Implementations must be
// free of side effects; signal-backed evaluators may read external data but
// never write.
type Evaluator interface {
	// TriggerType returns the trigger type this evaluator handles.
	TriggerType() domain.TriggerType

	// ShouldFire reports whether the rule should fire at the given time.
	ShouldFire(ctx context.Context, rule *domain.AutomationRule, now time.Time) (bool, error)
}

// Registry dispatches rule evaluation to the evaluator registered for the
// rule's trigger type. Signal lookups run under a bounded timeout so a slow
// external store cannot stall the tick.
type Registry struct {
	evaluators map[domain.TriggerType]Evaluator
	timeout    time.Duration
	logger     *slog.Logger
}

// DefaultSignalTimeout bounds external signal lookups during evaluation.
const DefaultSignalTimeout = 5 * time.Second

// NewRegistry creates an evaluator registry.
func NewRegistry(timeout time.Duration, logger *slog.Logger) *Registry {
	if timeout <= 0 {
		timeout = DefaultSignalTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		evaluators: make(map[domain.TriggerType]Evaluator),
		timeout:    timeout,
		logger:     logger,
	}
}

// Register adds an evaluator, replacing any previous one for the same type.
func (r *Registry) Register(e Evaluator) {
	r.evaluators[e.TriggerType()] = e
}

// Supports reports whether an evaluator is registered for the trigger type.
func (r *Registry) Supports(t domain.TriggerType) bool {
	_, ok := r.evaluators[t]
	return ok
}

// ShouldFire evaluates the rule with the matching strategy. A missing
// evaluator or a failed signal lookup is reported as an error; the caller
// treats that as "did not fire".
func (r *Registry) ShouldFire(ctx context.Context, rule *domain.AutomationRule, now time.Time) (bool, error) {
	evaluator, ok := r.evaluators[rule.TriggerType]
	if !ok {
		return false, fmt.Errorf("no evaluator registered for trigger type %q", rule.TriggerType)
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	fired, err := evaluator.ShouldFire(ctx, rule, now)
	if err != nil {
		return false, fmt.Errorf("evaluate rule %s: %w", rule.ID, err)
	}
	return fired, nil
}
