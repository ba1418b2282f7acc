package signals

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/postpulse/postpulse/internal/content"
)

func TestPerformanceAverage_Value(t *testing.T) {
	ctx := context.Background()

	t.Run("returns the mean engagement rate", func(t *testing.T) {
		publisher := NewDemoPublisher(nil)
		require.NoError(t, publisher.Publish(ctx, content.Post{Platform: "twitter", Text: "one"}))
		require.NoError(t, publisher.Publish(ctx, content.Post{Platform: "twitter", Text: "two"}))

		source := NewPerformanceAverage(publisher, 24*time.Hour)

		value, err := source.Value(ctx)
		require.NoError(t, err)
		// Demo samples are synthetic but bounded.
		assert.GreaterOrEqual(t, value, 2.0)
		assert.LessOrEqual(t, value, 8.0)
	})

	t.Run("no published content means zero", func(t *testing.T) {
		source := NewPerformanceAverage(NewDemoPublisher(nil), 0)

		value, err := source.Value(ctx)
		require.NoError(t, err)
		assert.Zero(t, value)
	})
}

func TestDemoPublisher(t *testing.T) {
	ctx := context.Background()
	publisher := NewDemoPublisher(nil)

	t.Run("published posts feed back as samples", func(t *testing.T) {
		require.NoError(t, publisher.Publish(ctx, content.Post{Platform: "twitter", Text: "hello"}))

		samples, err := publisher.RecentPerformance(ctx, time.Hour)
		require.NoError(t, err)
		require.NotEmpty(t, samples)
		assert.Equal(t, "twitter", samples[0].Platform)
		assert.Positive(t, samples[0].Reach)
	})

	t.Run("old posts fall out of the window", func(t *testing.T) {
		samples, err := publisher.RecentPerformance(ctx, -time.Hour)
		require.NoError(t, err)
		assert.Empty(t, samples)
	})

	t.Run("follower counts cover every requested platform", func(t *testing.T) {
		counts, err := publisher.FollowerCounts(ctx, []string{"twitter", "linkedin"})
		require.NoError(t, err)
		require.Len(t, counts, 2)
		assert.GreaterOrEqual(t, counts["twitter"], int64(900))
	})

	t.Run("trending topics per platform", func(t *testing.T) {
		topics, err := publisher.TrendingTopics(ctx, []string{"twitter"})
		require.NoError(t, err)
		require.Len(t, topics, 1)
		assert.Equal(t, "twitter", topics[0].Platform)
		assert.NotEmpty(t, topics[0].Topic)
	})
}
