package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimeConditions(t *testing.T) {
	t.Run("parses schedule, times and timezone", func(t *testing.T) {
		cond, err := ParseTimeConditions(map[string]any{
			"schedule": "daily",
			"times":    []any{"09:00", "17:30"},
			"timezone": "Europe/Berlin",
		})

		require.NoError(t, err)
		assert.Equal(t, ScheduleDaily, cond.Schedule)
		assert.Equal(t, []string{"09:00", "17:30"}, cond.Times)
		assert.Equal(t, "Europe/Berlin", cond.Location().String())
	})

	t.Run("empty conditions are valid", func(t *testing.T) {
		cond, err := ParseTimeConditions(map[string]any{})

		require.NoError(t, err)
		assert.Empty(t, cond.Times)
		assert.Equal(t, time.UTC, cond.Location())
	})

	t.Run("rejects unknown schedule", func(t *testing.T) {
		_, err := ParseTimeConditions(map[string]any{"schedule": "fortnightly"})

		var cfgErr *ConfigurationError
		require.ErrorAs(t, err, &cfgErr)
		assert.Equal(t, "schedule", cfgErr.Field)
	})

	t.Run("rejects malformed times", func(t *testing.T) {
		_, err := ParseTimeConditions(map[string]any{"times": []any{"9am"}})

		var cfgErr *ConfigurationError
		require.ErrorAs(t, err, &cfgErr)
		assert.Equal(t, "times", cfgErr.Field)
	})

	t.Run("rejects unknown timezone", func(t *testing.T) {
		_, err := ParseTimeConditions(map[string]any{"timezone": "Mars/Olympus"})
		assert.Error(t, err)
	})

	t.Run("unknown location falls back to UTC", func(t *testing.T) {
		cond := TimeConditions{Timezone: "Mars/Olympus"}
		assert.Equal(t, time.UTC, cond.Location())
	})
}

func TestParseEngagementConditions(t *testing.T) {
	t.Run("applies defaults", func(t *testing.T) {
		cond, err := ParseEngagementConditions(map[string]any{})

		require.NoError(t, err)
		assert.Equal(t, 5.0, cond.EngagementRateThreshold)
		assert.Equal(t, 24*time.Hour, cond.Window())
	})

	t.Run("rejects negative threshold", func(t *testing.T) {
		_, err := ParseEngagementConditions(map[string]any{"engagement_rate_threshold": -1.0})
		assert.Error(t, err)
	})

	t.Run("window mapping", func(t *testing.T) {
		cases := map[string]time.Duration{
			Window1Hour:   time.Hour,
			Window6Hours:  6 * time.Hour,
			Window24Hours: 24 * time.Hour,
			Window7Days:   7 * 24 * time.Hour,
			"3_moons":     24 * time.Hour,
		}
		for window, want := range cases {
			cond := EngagementConditions{TimeWindow: window}
			assert.Equal(t, want, cond.Window(), "window %q", window)
		}
	})
}

func TestParseTrendingConditions(t *testing.T) {
	t.Run("applies defaults", func(t *testing.T) {
		cond, err := ParseTrendingConditions(map[string]any{"platforms": []any{"twitter"}})

		require.NoError(t, err)
		assert.Equal(t, float64(1000), cond.EngagementThreshold)
		assert.Equal(t, 0.7, cond.RelevanceScore)
	})

	t.Run("requires platforms", func(t *testing.T) {
		_, err := ParseTrendingConditions(map[string]any{})

		var cfgErr *ConfigurationError
		require.ErrorAs(t, err, &cfgErr)
		assert.Equal(t, "platforms", cfgErr.Field)
	})

	t.Run("relevance must stay in unit range", func(t *testing.T) {
		_, err := ParseTrendingConditions(map[string]any{
			"platforms":       []any{"twitter"},
			"relevance_score": 1.5,
		})
		assert.Error(t, err)
	})
}

func TestParseMilestoneConditions(t *testing.T) {
	t.Run("normalizes milestones to ascending order", func(t *testing.T) {
		cond, err := ParseMilestoneConditions(map[string]any{
			"milestones": []any{float64(10000), float64(1000), float64(5000)},
		})

		require.NoError(t, err)
		assert.Equal(t, []int64{1000, 5000, 10000}, cond.Milestones)
	})

	t.Run("requires at least one milestone", func(t *testing.T) {
		_, err := ParseMilestoneConditions(map[string]any{})
		assert.Error(t, err)
	})

	t.Run("rejects non-positive milestones", func(t *testing.T) {
		_, err := ParseMilestoneConditions(map[string]any{"milestones": []any{float64(0)}})
		assert.Error(t, err)
	})
}

func TestParseCreatePostParameters(t *testing.T) {
	t.Run("applies documented defaults", func(t *testing.T) {
		params, err := ParseCreatePostParameters(map[string]any{})

		require.NoError(t, err)
		assert.Equal(t, []string{"general insights"}, params.ContentTopics)
		assert.Equal(t, []string{"twitter"}, params.Platforms)
		assert.Equal(t, "professional", params.Tone)
		assert.Equal(t, "medium", params.Length)
		assert.True(t, params.IncludeHashtags)
	})

	t.Run("explicit values win", func(t *testing.T) {
		params, err := ParseCreatePostParameters(map[string]any{
			"content_topics":   []any{"golang"},
			"platforms":        []any{"linkedin", "twitter"},
			"tone":             "casual",
			"length":           "short",
			"include_hashtags": false,
		})

		require.NoError(t, err)
		assert.Equal(t, []string{"golang"}, params.ContentTopics)
		assert.Equal(t, []string{"linkedin", "twitter"}, params.Platforms)
		assert.Equal(t, "casual", params.Tone)
		assert.Equal(t, "short", params.Length)
		assert.False(t, params.IncludeHashtags)
	})
}

func TestValidateTriggerConditions(t *testing.T) {
	assert.NoError(t, ValidateTriggerConditions(TriggerTimeBased, map[string]any{"schedule": "hourly"}))
	assert.NoError(t, ValidateTriggerConditions(TriggerCompetitorActivity, map[string]any{"threshold": 3.0}))
	assert.Error(t, ValidateTriggerConditions(TriggerTrendingTopic, map[string]any{}))
	assert.Error(t, ValidateTriggerConditions(TriggerType("unknown"), map[string]any{}))
}

func TestValidateActionParameters(t *testing.T) {
	assert.NoError(t, ValidateActionParameters(ActionCreatePost, map[string]any{}))
	assert.NoError(t, ValidateActionParameters(ActionSendNotification, map[string]any{"channel": "email"}))
	assert.Error(t, ValidateActionParameters(ActionType("unknown"), map[string]any{}))
}
