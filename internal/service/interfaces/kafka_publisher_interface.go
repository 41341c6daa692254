package interfaces

import (
	"context"
)

// KafkaPublisherInterface publishes raw payloads to the configured topic.
type KafkaPublisherInterface interface {
	Publish(ctx context.Context, key string, msg []byte) error
}
