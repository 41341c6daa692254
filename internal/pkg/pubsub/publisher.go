package pubsub

import (
	"context"
	"errors"

	"github.com/schoolmanagementsystem111/softverse-school-portal/internal/pkg/log_messages"
	"github.com/schoolmanagementsystem111/softverse-school-portal/internal/pkg/logger"
	"github.com/schoolmanagementsystem111/softverse-school-portal/internal/service/interfaces"

	"cloud.google.com/go/pubsub/v2"
)

// PubSubPublisher manages topic publishing with lifecycle.
type PubSubPublisher struct {
	PubSubClient interfaces.PubSubPublisherClientInterface
	Ctx          context.Context
	Cancel       context.CancelFunc
}

var _ interfaces.NotificationPublisherInterface = (*PubSubPublisher)(nil)

// PubSubPublisherClientFactory makes new clients (mockable in tests).
type PubSubPublisherClientFactory interface {
	NewPubSubPublisherClient(ctx context.Context, projectID string) (interfaces.PubSubPublisherClientInterface, error)
}

type defaultPubSubPublisherClientFactory struct{}

func (f *defaultPubSubPublisherClientFactory) NewPubSubPublisherClient(ctx context.Context,
	projectID string) (interfaces.PubSubPublisherClientInterface, error) {
	if projectID == "" {
		return nil, errors.New("pubsub project id is required")
	}
	sdkClient, err := pubsub.NewClient(ctx, projectID)
	if err != nil {
		return nil, err
	}
	return &pubSubPublisherClientAdapter{client: sdkClient}, nil
}

// pubSubPublisherClientAdapter wraps *pubsub.Client for publishing
type pubSubPublisherClientAdapter struct {
	client *pubsub.Client
}

func (c *pubSubPublisherClientAdapter) Publisher(topic string) interfaces.PublisherInterface {
	return &publisherAdapter{publisher: c.client.Publisher(topic)}
}

func (c *pubSubPublisherClientAdapter) Close() error {
	return c.client.Close()
}

type publisherAdapter struct {
	publisher *pubsub.Publisher
}

func (p *publisherAdapter) Publish(ctx context.Context, msg []byte, attributes map[string]string) (string, error) {
	result := p.publisher.Publish(ctx, &pubsub.Message{
		Data:       msg,
		Attributes: attributes,
	})
	return result.Get(ctx)
}

// NewPubSubPublisher is the default constructor for production use.
// Declared as a variable so tests can replace it.
var NewPubSubPublisher = func(ctx context.Context, projectID string) (*PubSubPublisher, error) {
	factory := &defaultPubSubPublisherClientFactory{}
	return NewPubSubPublisherWithFactory(ctx, projectID, factory)
}

// Construct with a factory (testable).
func NewPubSubPublisherWithFactory(ctx context.Context, projectID string,
	factory PubSubPublisherClientFactory) (*PubSubPublisher, error) {
	client, err := factory.NewPubSubPublisherClient(ctx, projectID)
	if err != nil {
		logger.CtxError(ctx, "Failed creating PubSub client", err)
		return nil, err
	}
	logger.CtxInfo(ctx, log_messages.PubsubPublisherCreated)

	publisherCtx, cancel := context.WithCancel(ctx)
	return &PubSubPublisher{
		PubSubClient: client,
		Ctx:          publisherCtx,
		Cancel:       cancel,
	}, nil
}

// Publish publishes a message to a topic and waits for the server id.
func (p *PubSubPublisher) Publish(ctx context.Context, topic string, msg []byte,
	attributes map[string]string) error {
	_, err := p.PubSubClient.Publisher(topic).Publish(ctx, msg, attributes)
	return err
}

func (p *PubSubPublisher) Close() error {
	if p.Cancel != nil {
		p.Cancel()
	}
	return p.PubSubClient.Close()
}
