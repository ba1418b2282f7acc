package signals

import (
	"context"
	"log/slog"
	"math/rand"
	"strconv"
	"sync"
	"time"

	"github.com/postpulse/postpulse/internal/content"
)

// DemoPublisher is a stand-in social network for local runs. Published posts
// are kept in memory and fed back as performance samples with synthetic
// engagement, and follower counts grow slowly over time.
type DemoPublisher struct {
	logger *slog.Logger

	mu        sync.Mutex
	published []publishedPost
	startedAt time.Time
}

type publishedPost struct {
	post        content.Post
	publishedAt time.Time
}

// NewDemoPublisher creates an empty demo publisher.
func NewDemoPublisher(logger *slog.Logger) *DemoPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &DemoPublisher{logger: logger, startedAt: time.Now()}
}

// Publish records the post in memory.
func (p *DemoPublisher) Publish(_ context.Context, post content.Post) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.published = append(p.published, publishedPost{post: post, publishedAt: time.Now()})
	p.logger.Info("demo publish", "platform", post.Platform, "chars", len(post.Text))
	return nil
}

// RecentPerformance returns synthetic samples for posts within the window.
func (p *DemoPublisher) RecentPerformance(_ context.Context, window time.Duration) ([]content.PerformanceSample, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	cutoff := time.Now().Add(-window)
	var samples []content.PerformanceSample
	for i, item := range p.published {
		if item.publishedAt.Before(cutoff) {
			continue
		}
		samples = append(samples, content.PerformanceSample{
			PostID:         "demo-" + strconv.Itoa(i),
			Platform:       item.post.Platform,
			EngagementRate: 2 + rand.Float64()*6,
			Reach:          int64(500 + rand.Intn(5000)),
			PublishedAt:    item.publishedAt,
		})
	}
	return samples, nil
}

// FollowerCounts returns counts that grow with process uptime, so milestone
// rules eventually fire during a demo.
func (p *DemoPublisher) FollowerCounts(_ context.Context, platforms []string) (map[string]int64, error) {
	p.mu.Lock()
	uptime := time.Since(p.startedAt)
	p.mu.Unlock()

	counts := make(map[string]int64, len(platforms))
	for _, platform := range platforms {
		counts[platform] = 900 + int64(uptime/time.Minute)*10
	}
	return counts, nil
}

// TrendingTopics returns a small fixed set of trends.
func (p *DemoPublisher) TrendingTopics(_ context.Context, platforms []string) ([]content.TrendingTopic, error) {
	var topics []content.TrendingTopic
	for _, platform := range platforms {
		topics = append(topics, content.TrendingTopic{
			Topic:           "ai productivity",
			Platform:        platform,
			EngagementScore: 1500,
			RelevanceScore:  0.8,
		})
	}
	return topics, nil
}
