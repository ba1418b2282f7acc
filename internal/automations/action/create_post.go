package action

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/postpulse/postpulse/internal/automations/domain"
	"github.com/postpulse/postpulse/internal/content"
)

// CreatePostHandler generates content for each configured platform and
// assembles it into queue entries. Creating the queue entry is the unit of
// success; publication happens downstream.
type CreatePostHandler struct {
	generator content.Generator
	logger    *slog.Logger

	// pickTopic selects one topic from the candidates. Uniform random by
	// default; injectable for deterministic tests.
	pickTopic func(topics []string) string
}

// NewCreatePostHandler creates a create_post action handler.
func NewCreatePostHandler(generator content.Generator, logger *slog.Logger) *CreatePostHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &CreatePostHandler{
		generator: generator,
		logger:    logger,
		pickTopic: func(topics []string) string {
			return topics[rand.Intn(len(topics))]
		},
	}
}

// ActionType returns the action type this handler supports.
func (h *CreatePostHandler) ActionType() domain.ActionType {
	return domain.ActionCreatePost
}

// Execute picks one topic uniformly at random, generates content per
// platform, and returns the assembled payloads. A generator failure marks
// that platform only; the action fails when every platform fails.
func (h *CreatePostHandler) Execute(ctx context.Context, rule *domain.AutomationRule) (map[string]any, error) {
	params, err := domain.ParseCreatePostParameters(rule.ActionParameters)
	if err != nil {
		return nil, err
	}

	topic := h.pickTopic(params.ContentTopics)

	var posts []map[string]any
	var failures []map[string]any
	var lastErr error

	for _, platform := range params.Platforms {
		generated, err := h.generator.Generate(ctx, content.Request{
			Topic:           topic,
			Platform:        platform,
			Tone:            params.Tone,
			Length:          params.Length,
			IncludeHashtags: params.IncludeHashtags,
		})
		if err != nil {
			h.logger.Warn("content generation failed",
				"rule_id", rule.ID,
				"platform", platform,
				"topic", topic,
				"error", err,
			)
			failures = append(failures, map[string]any{
				"platform": platform,
				"error":    err.Error(),
			})
			lastErr = err
			continue
		}

		posts = append(posts, map[string]any{
			"platform":              platform,
			"topic":                 topic,
			"content":               generated.Text,
			"hashtags":              generated.Hashtags,
			"character_count":       generated.CharacterCount,
			"engagement_score":      generated.EngagementScore,
			"created_by_automation": true,
			"rule_id":               rule.ID.String(),
		})
	}

	if len(posts) == 0 {
		return nil, fmt.Errorf("content generation failed for all platforms: %w", lastErr)
	}

	result := map[string]any{
		"posts_created": len(posts),
		"posts":         posts,
	}
	if len(failures) > 0 {
		result["failed_platforms"] = failures
	}
	return result, nil
}
