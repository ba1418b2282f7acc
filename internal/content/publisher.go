package content

import (
	"context"
	"time"
)

// Post is a piece of content queued for publication.
type Post struct {
	Platform string   `json:"platform"`
	Text     string   `json:"text"`
	Hashtags []string `json:"hashtags,omitempty"`
}

// PerformanceSample is one published item's measured performance.
type PerformanceSample struct {
	PostID         string    `json:"post_id"`
	Platform       string    `json:"platform"`
	EngagementRate float64   `json:"engagement_rate"`
	Reach          int64     `json:"reach"`
	PublishedAt    time.Time `json:"published_at"`
}

// TrendingTopic is an externally observed trend signal.
type TrendingTopic struct {
	Topic           string  `json:"topic"`
	Platform        string  `json:"platform"`
	EngagementScore float64 `json:"engagement_score"`
	RelevanceScore  float64 `json:"relevance_score"`
}

// Publisher is the social-network boundary the automation core depends on:
// publishing content and reading back measured signals. Implementations live
// outside this core.
type Publisher interface {
	// Publish sends a post to the network.
	Publish(ctx context.Context, post Post) error

	// RecentPerformance returns performance samples for content published
	// within the window.
	RecentPerformance(ctx context.Context, window time.Duration) ([]PerformanceSample, error)

	// FollowerCounts returns current follower counts per platform.
	FollowerCounts(ctx context.Context, platforms []string) (map[string]int64, error)

	// TrendingTopics returns qualifying trend signals for the platforms.
	TrendingTopics(ctx context.Context, platforms []string) ([]TrendingTopic, error)
}
