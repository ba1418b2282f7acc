package queries

import (
	"github.com/postpulse/postpulse/internal/automations/domain"
)

// RuleTemplate is a ready-made rule configuration users can create rules from.
type RuleTemplate struct {
	ID                string             `json:"id"`
	Name              string             `json:"name"`
	Description       string             `json:"description"`
	TriggerType       domain.TriggerType `json:"trigger_type"`
	TriggerConditions map[string]any     `json:"trigger_conditions"`
	ActionType        domain.ActionType  `json:"action_type"`
	ActionParameters  map[string]any     `json:"action_parameters"`
}

// ListTemplates returns the built-in rule templates.
func ListTemplates() []RuleTemplate {
	return []RuleTemplate{
		{
			ID:          "daily-content",
			Name:        "Daily Content Creation",
			Description: "Automatically create and schedule posts every day at optimal times",
			TriggerType: domain.TriggerTimeBased,
			TriggerConditions: map[string]any{
				"schedule": "daily",
				"times":    []any{"09:00", "15:00"},
				"timezone": "UTC",
			},
			ActionType: domain.ActionCreatePost,
			ActionParameters: map[string]any{
				"content_topics":   []any{"industry insights", "productivity tips"},
				"platforms":        []any{"twitter", "linkedin"},
				"tone":             "professional",
				"length":           "medium",
				"include_hashtags": true,
			},
		},
		{
			ID:          "engagement-boost",
			Name:        "Engagement Boost",
			Description: "Engage with relevant content when your engagement rate climbs",
			TriggerType: domain.TriggerEngagementBased,
			TriggerConditions: map[string]any{
				"engagement_rate_threshold": 5.0,
				"time_window":               "24_hours",
			},
			ActionType: domain.ActionEngageWithContent,
			ActionParameters: map[string]any{
				"max_engagements": 10,
				"target_hashtags": []any{"#productivity", "#business"},
			},
		},
		{
			ID:          "trending-response",
			Name:        "Trending Topic Response",
			Description: "Create content when topics relevant to your audience start trending",
			TriggerType: domain.TriggerTrendingTopic,
			TriggerConditions: map[string]any{
				"platforms": []any{"twitter"},
			},
			ActionType: domain.ActionCreatePost,
			ActionParameters: map[string]any{
				"content_topics":   []any{"trending commentary"},
				"platforms":        []any{"twitter"},
				"tone":             "casual",
				"length":           "short",
				"include_hashtags": true,
			},
		},
	}
}
