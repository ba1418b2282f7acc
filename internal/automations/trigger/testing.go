package trigger

import (
	"context"
	"time"

	"github.com/postpulse/postpulse/internal/content"
)

// StaticSignals is a deterministic signal source for tests and local demos.
// It implements every source interface with fixed values.
type StaticSignals struct {
	Performance []content.PerformanceSample
	Topics      []content.TrendingTopic
	Followers   map[string]int64
	Scalar      float64

	// Err, when set, is returned by every lookup.
	Err error
}

// RecentPerformance returns the configured samples.
func (s *StaticSignals) RecentPerformance(_ context.Context, _ time.Duration) ([]content.PerformanceSample, error) {
	return s.Performance, s.Err
}

// TrendingTopics returns the configured topics.
func (s *StaticSignals) TrendingTopics(_ context.Context, _ []string) ([]content.TrendingTopic, error) {
	return s.Topics, s.Err
}

// FollowerCounts returns the configured follower counts.
func (s *StaticSignals) FollowerCounts(_ context.Context, _ []string) (map[string]int64, error) {
	return s.Followers, s.Err
}

// Value returns the configured scalar.
func (s *StaticSignals) Value(_ context.Context) (float64, error) {
	return s.Scalar, s.Err
}
