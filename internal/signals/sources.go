// Package signals adapts the social-network boundary into the signal sources
// the trigger evaluators read. A content.Publisher already satisfies the
// engagement, trend, and follower source interfaces directly; this package
// adds the derived scalar sources.
package signals

import (
	"context"
	"time"

	"github.com/postpulse/postpulse/internal/content"
)

// PerformanceAverage exposes the mean engagement rate over a fixed window as
// a scalar signal, for content_performance rules.
type PerformanceAverage struct {
	publisher content.Publisher
	window    time.Duration
}

// NewPerformanceAverage creates the scalar source. A non-positive window
// defaults to 24 hours.
func NewPerformanceAverage(publisher content.Publisher, window time.Duration) *PerformanceAverage {
	if window <= 0 {
		window = 24 * time.Hour
	}
	return &PerformanceAverage{publisher: publisher, window: window}
}

// Value returns the mean engagement rate of content published in the window,
// or zero when nothing was published.
func (p *PerformanceAverage) Value(ctx context.Context) (float64, error) {
	samples, err := p.publisher.RecentPerformance(ctx, p.window)
	if err != nil {
		return 0, err
	}
	if len(samples) == 0 {
		return 0, nil
	}

	var sum float64
	for _, sample := range samples {
		sum += sample.EngagementRate
	}
	return sum / float64(len(samples)), nil
}
