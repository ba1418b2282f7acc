package trigger

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/postpulse/postpulse/internal/automations/domain"
)

func timeRule(t *testing.T, conditions map[string]any) *domain.AutomationRule {
	t.Helper()
	rule, err := domain.NewAutomationRule("time rule", domain.TriggerTimeBased, conditions, domain.ActionSendNotification, nil)
	require.NoError(t, err)
	return rule
}

func TestTimeEvaluator_ShouldFire(t *testing.T) {
	ctx := context.Background()
	evaluator := NewTimeEvaluator()

	t.Run("fires inside the five minute window", func(t *testing.T) {
		rule := timeRule(t, map[string]any{"schedule": "daily", "times": []any{"09:00"}})
		now := time.Date(2025, 6, 1, 9, 3, 0, 0, time.UTC)

		fired, err := evaluator.ShouldFire(ctx, rule, now)
		require.NoError(t, err)
		assert.True(t, fired)
	})

	t.Run("does not fire outside the window", func(t *testing.T) {
		rule := timeRule(t, map[string]any{"schedule": "daily", "times": []any{"09:00"}})
		now := time.Date(2025, 6, 1, 9, 10, 0, 0, time.UTC)

		fired, err := evaluator.ShouldFire(ctx, rule, now)
		require.NoError(t, err)
		assert.False(t, fired)
	})

	t.Run("daily rule is debounced for 23 hours", func(t *testing.T) {
		rule := timeRule(t, map[string]any{"schedule": "daily", "times": []any{"09:00"}})
		last := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
		rule.LastExecutedAt = &last

		fired, err := evaluator.ShouldFire(ctx, rule, last.Add(12*time.Hour))
		require.NoError(t, err)
		assert.False(t, fired, "within debounce window")

		fired, err = evaluator.ShouldFire(ctx, rule, last.Add(24*time.Hour))
		require.NoError(t, err)
		assert.True(t, fired, "next day at the same time")
	})

	t.Run("hourly rule is debounced for 55 minutes", func(t *testing.T) {
		rule := timeRule(t, map[string]any{"schedule": "hourly"})
		last := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
		rule.LastExecutedAt = &last

		fired, err := evaluator.ShouldFire(ctx, rule, last.Add(30*time.Minute))
		require.NoError(t, err)
		assert.False(t, fired)

		fired, err = evaluator.ShouldFire(ctx, rule, last.Add(time.Hour))
		require.NoError(t, err)
		assert.True(t, fired)
	})

	t.Run("no scheduled times fires on every poll after debounce", func(t *testing.T) {
		rule := timeRule(t, map[string]any{"schedule": "hourly"})
		now := time.Date(2025, 6, 1, 13, 37, 0, 0, time.UTC)

		fired, err := evaluator.ShouldFire(ctx, rule, now)
		require.NoError(t, err)
		assert.True(t, fired)
	})

	t.Run("scheduled times match in the rule timezone", func(t *testing.T) {
		rule := timeRule(t, map[string]any{
			"schedule": "daily",
			"times":    []any{"09:00"},
			"timezone": "Europe/Berlin",
		})
		// 07:00 UTC is 09:00 in Berlin during summer time.
		now := time.Date(2025, 6, 1, 7, 0, 0, 0, time.UTC)

		fired, err := evaluator.ShouldFire(ctx, rule, now)
		require.NoError(t, err)
		assert.True(t, fired)

		fired, err = evaluator.ShouldFire(ctx, rule, now.Add(2*time.Hour))
		require.NoError(t, err)
		assert.False(t, fired, "09:00 UTC is 11:00 in Berlin")
	})

	t.Run("matches any of several scheduled times", func(t *testing.T) {
		rule := timeRule(t, map[string]any{"times": []any{"09:00", "17:00"}})
		now := time.Date(2025, 6, 1, 17, 2, 0, 0, time.UTC)

		fired, err := evaluator.ShouldFire(ctx, rule, now)
		require.NoError(t, err)
		assert.True(t, fired)
	})

	t.Run("malformed conditions surface as errors", func(t *testing.T) {
		rule := timeRule(t, nil)
		rule.TriggerConditions = map[string]any{"times": []any{"midnight"}}

		_, err := evaluator.ShouldFire(ctx, rule, time.Now())
		assert.Error(t, err)
	})
}
