package interfaces

import "context"

// PublisherInterface defines the methods we need from pubsub.Publisher
type PublisherInterface interface {
	Publish(ctx context.Context, msg []byte, attributes map[string]string) (string, error)
}

// PubSubPublisherClientInterface defines the methods we need from pubsub.Client for publishing
type PubSubPublisherClientInterface interface {
	Publisher(topic string) PublisherInterface
	Close() error
}

// NotificationPublisherInterface is what services depend on to notify parents.
type NotificationPublisherInterface interface {
	Publish(ctx context.Context, topic string, msg []byte, attributes map[string]string) error
}
