package action

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/postpulse/postpulse/internal/automations/domain"
)

type stubHandler struct {
	actionType domain.ActionType
	result     map[string]any
	err        error
	calls      int
}

func (h *stubHandler) ActionType() domain.ActionType { return h.actionType }

func (h *stubHandler) Execute(_ context.Context, _ *domain.AutomationRule) (map[string]any, error) {
	h.calls++
	return h.result, h.err
}

func actionRule(t *testing.T, actionType domain.ActionType) *domain.AutomationRule {
	t.Helper()
	rule, err := domain.NewAutomationRule("action rule", domain.TriggerTimeBased, nil, actionType, nil)
	require.NoError(t, err)
	return rule
}

func TestExecutor_Execute(t *testing.T) {
	ctx := context.Background()

	t.Run("dispatches to the registered handler", func(t *testing.T) {
		handler := &stubHandler{
			actionType: domain.ActionSendNotification,
			result:     map[string]any{"notification_id": "n-1"},
		}
		executor := NewExecutor(nil)
		executor.Register(handler)

		result, err := executor.Execute(ctx, actionRule(t, domain.ActionSendNotification))
		require.NoError(t, err)
		assert.Equal(t, "n-1", result["notification_id"])
		assert.Equal(t, 1, handler.calls)
	})

	t.Run("missing handler is an error", func(t *testing.T) {
		executor := NewExecutor(nil)

		result, err := executor.Execute(ctx, actionRule(t, domain.ActionFollowUsers))
		assert.Error(t, err)
		assert.Nil(t, result)
		assert.Contains(t, err.Error(), "follow_users")
	})

	t.Run("handler errors pass through", func(t *testing.T) {
		cause := errors.New("provider down")
		executor := NewExecutor(nil)
		executor.Register(&stubHandler{actionType: domain.ActionCreatePost, err: cause})

		_, err := executor.Execute(ctx, actionRule(t, domain.ActionCreatePost))
		assert.ErrorIs(t, err, cause)
	})

	t.Run("registering twice replaces the handler", func(t *testing.T) {
		first := &stubHandler{actionType: domain.ActionEngageWithContent}
		second := &stubHandler{actionType: domain.ActionEngageWithContent}
		executor := NewExecutor(nil)
		executor.Register(first)
		executor.Register(second)

		_, err := executor.Execute(ctx, actionRule(t, domain.ActionEngageWithContent))
		require.NoError(t, err)
		assert.Equal(t, 0, first.calls)
		assert.Equal(t, 1, second.calls)
	})
}

func TestPlaceholderHandlers(t *testing.T) {
	ctx := context.Background()

	t.Run("each acknowledges its action type", func(t *testing.T) {
		cases := []struct {
			handler Handler
			key     string
		}{
			{NewSchedulePostHandler(), "scheduled_posts"},
			{NewEngageHandler(), "engagements"},
			{NewFollowUsersHandler(), "users_followed"},
			{NewAnalyzePerformanceHandler(), "analysis_completed"},
		}
		for _, tc := range cases {
			rule := actionRule(t, tc.handler.ActionType())
			result, err := tc.handler.Execute(ctx, rule)
			require.NoError(t, err)
			assert.Contains(t, result, tc.key, "handler %s", tc.handler.ActionType())
		}
	})

	t.Run("send_notification returns a delivery receipt", func(t *testing.T) {
		handler := NewSendNotificationHandler(nil)
		rule := actionRule(t, domain.ActionSendNotification)
		rule.ActionParameters = map[string]any{"title": "Milestone", "body": "10k followers"}

		result, err := handler.Execute(ctx, rule)
		require.NoError(t, err)
		assert.NotEmpty(t, result["notification_id"])
		assert.NotEmpty(t, result["delivered_at"])
	})
}
