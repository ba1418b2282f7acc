package eventbus

import (
	"context"
	"log/slog"
)

// NoopPublisher drops all messages. Used in development when no broker is
// available.
type NoopPublisher struct {
	logger *slog.Logger
}

// NewNoopPublisher creates a no-op publisher.
func NewNoopPublisher(logger *slog.Logger) *NoopPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &NoopPublisher{logger: logger}
}

// Publish logs the message at debug level and discards it.
func (p *NoopPublisher) Publish(_ context.Context, routingKey string, payload []byte) error {
	p.logger.Debug("noop publish", "routing_key", routingKey, "bytes", len(payload))
	return nil
}

// Close is a no-op.
func (p *NoopPublisher) Close() error { return nil }
