package content

import (
	"context"
	"time"

	"github.com/sony/gobreaker/v2"
)

// BreakerConfig configures the generation circuit breaker.
type BreakerConfig struct {
	// MaxRequests is the number of probe requests allowed in half-open state.
	MaxRequests uint32

	// Interval is the cyclic period of the closed state.
	Interval time.Duration

	// Timeout is the period of the open state.
	Timeout time.Duration

	// FailureThreshold is the consecutive-failure count that trips the breaker.
	FailureThreshold uint32
}

// DefaultBreakerConfig returns a sensible default configuration.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		MaxRequests:      3,
		Interval:         10 * time.Second,
		Timeout:          30 * time.Second,
		FailureThreshold: 5,
	}
}

// BreakerGenerator wraps a Generator with a circuit breaker so a failing
// provider (rate limits, outages) stops being hammered by the automation
// loop. An open breaker fails generation fast.
type BreakerGenerator struct {
	inner   Generator
	breaker *gobreaker.CircuitBreaker[*GeneratedContent]
}

// NewBreakerGenerator wraps gen with a circuit breaker.
func NewBreakerGenerator(gen Generator, cfg BreakerConfig) *BreakerGenerator {
	settings := gobreaker.Settings{
		Name:        "content-generator",
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
	}
	return &BreakerGenerator{
		inner:   gen,
		breaker: gobreaker.NewCircuitBreaker[*GeneratedContent](settings),
	}
}

// Generate calls the wrapped generator through the circuit breaker.
func (g *BreakerGenerator) Generate(ctx context.Context, req Request) (*GeneratedContent, error) {
	return g.breaker.Execute(func() (*GeneratedContent, error) {
		return g.inner.Generate(ctx, req)
	})
}
