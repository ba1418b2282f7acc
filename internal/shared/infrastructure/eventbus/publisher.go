// Package eventbus publishes automation events to a message broker so outer
// layers (API, analytics, notifications) can react to executions.
package eventbus

import "context"

// Publisher publishes messages with a routing key.
type Publisher interface {
	// Publish sends a message to the bus.
	Publish(ctx context.Context, routingKey string, payload []byte) error

	// Close releases the publisher's resources.
	Close() error
}
