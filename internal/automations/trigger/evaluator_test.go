package trigger

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/postpulse/postpulse/internal/automations/domain"
)

type captureEvaluator struct {
	triggerType domain.TriggerType
	fired       bool
	err         error
	sawDeadline bool
}

func (e *captureEvaluator) TriggerType() domain.TriggerType { return e.triggerType }

func (e *captureEvaluator) ShouldFire(ctx context.Context, _ *domain.AutomationRule, _ time.Time) (bool, error) {
	_, e.sawDeadline = ctx.Deadline()
	return e.fired, e.err
}

func TestRegistry_ShouldFire(t *testing.T) {
	ctx := context.Background()

	t.Run("dispatches by trigger type", func(t *testing.T) {
		registry := NewRegistry(time.Second, nil)
		registry.Register(&captureEvaluator{triggerType: domain.TriggerTimeBased, fired: true})
		registry.Register(&captureEvaluator{triggerType: domain.TriggerEngagementBased, fired: false})

		rule := signalRule(t, domain.TriggerTimeBased, map[string]any{"schedule": "daily"})
		fired, err := registry.ShouldFire(ctx, rule, time.Now())
		require.NoError(t, err)
		assert.True(t, fired)

		rule = signalRule(t, domain.TriggerEngagementBased, map[string]any{})
		fired, err = registry.ShouldFire(ctx, rule, time.Now())
		require.NoError(t, err)
		assert.False(t, fired)
	})

	t.Run("unknown trigger type is an error", func(t *testing.T) {
		registry := NewRegistry(time.Second, nil)
		rule := signalRule(t, domain.TriggerTrendingTopic, map[string]any{"platforms": []any{"twitter"}})

		fired, err := registry.ShouldFire(ctx, rule, time.Now())
		assert.Error(t, err)
		assert.False(t, fired)
	})

	t.Run("evaluation runs under a deadline", func(t *testing.T) {
		evaluator := &captureEvaluator{triggerType: domain.TriggerTimeBased}
		registry := NewRegistry(time.Second, nil)
		registry.Register(evaluator)

		rule := signalRule(t, domain.TriggerTimeBased, map[string]any{})
		_, err := registry.ShouldFire(ctx, rule, time.Now())
		require.NoError(t, err)
		assert.True(t, evaluator.sawDeadline)
	})

	t.Run("evaluator errors carry the rule id", func(t *testing.T) {
		evaluator := &captureEvaluator{triggerType: domain.TriggerTimeBased, err: context.DeadlineExceeded}
		registry := NewRegistry(time.Second, nil)
		registry.Register(evaluator)

		rule := signalRule(t, domain.TriggerTimeBased, map[string]any{})
		_, err := registry.ShouldFire(ctx, rule, time.Now())
		require.Error(t, err)
		assert.Contains(t, err.Error(), rule.ID.String())
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})

	t.Run("supports reflects registration", func(t *testing.T) {
		registry := NewRegistry(0, nil)
		assert.False(t, registry.Supports(domain.TriggerTimeBased))

		registry.Register(NewTimeEvaluator())
		assert.True(t, registry.Supports(domain.TriggerTimeBased))
	})
}
