package kafka

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/schoolmanagementsystem111/softverse-school-portal/internal/pkg/config"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testServer         = "localhost:9092"
	testTopic          = "fee-payments-test"
	testClientID       = "test-client"
	testMessageContent = `{"eventType":"FEE_PAYMENT"}`
)

// MockProducer is a mock implementation of ProducerInterface for testing.
type MockProducer struct {
	ProduceFunc func(msg *kafka.Message, deliveryChan chan kafka.Event) error
	FlushFunc   func(timeoutMs int) int
	CloseFunc   func()
}

func (m *MockProducer) Produce(msg *kafka.Message, deliveryChan chan kafka.Event) error {
	if m.ProduceFunc != nil {
		return m.ProduceFunc(msg, deliveryChan)
	}
	return nil
}

func (m *MockProducer) Flush(timeoutMs int) int {
	if m.FlushFunc != nil {
		return m.FlushFunc(timeoutMs)
	}
	return 0
}

func (m *MockProducer) Close() {
	if m.CloseFunc != nil {
		m.CloseFunc()
	}
}

func TestNewKafkaProducer(t *testing.T) {
	t.Run("valid config", func(t *testing.T) {
		cfg := config.KafkaConfig{
			Server:           testServer,
			PaymentTopic:     testTopic,
			SecurityProtocol: "SASL_SSL",
			SASLMechanism:    "PLAIN",
			SASLUsername:     "testuser",
			SASLPassword:     "testpassword",
			SessionTimeoutMs: 10000,
			ClientID:         testClientID,
		}

		producer, err := NewKafkaProducer(cfg)
		require.NoError(t, err)
		require.NotNil(t, producer)
		defer producer.Close()
		assert.Equal(t, cfg.PaymentTopic, producer.topic)
		assert.Equal(t, defaultDeliveryTimeout, producer.deliveryTimeout)
	})

	t.Run("invalid config", func(t *testing.T) {
		cfg := config.KafkaConfig{
			Server:           testServer,
			PaymentTopic:     testTopic,
			SecurityProtocol: "INVALID_PROTOCOL",
			ClientID:         testClientID,
		}

		producer, err := NewKafkaProducer(cfg)
		assert.Error(t, err)
		assert.Nil(t, producer)
	})
}

func TestKafkaProducerPublish(t *testing.T) {
	t.Run("timeout case", func(t *testing.T) {
		producer := newKafkaProducerWith(&MockProducer{}, testTopic, 50*time.Millisecond)

		err := producer.Publish(context.Background(), "chalan-1", []byte(testMessageContent))
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "timeout")
	})

	t.Run("context cancelled", func(t *testing.T) {
		producer := newKafkaProducerWith(&MockProducer{}, testTopic, time.Minute)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := producer.Publish(ctx, "chalan-1", []byte(testMessageContent))
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("successful delivery carries key", func(t *testing.T) {
		var gotKey string
		mockProducer := &MockProducer{
			ProduceFunc: func(msg *kafka.Message, deliveryChan chan kafka.Event) error {
				gotKey = string(msg.Key)
				go func() {
					deliveryChan <- &kafka.Message{
						TopicPartition: kafka.TopicPartition{
							Topic:     msg.TopicPartition.Topic,
							Partition: msg.TopicPartition.Partition,
						},
						Value: msg.Value,
					}
				}()
				return nil
			},
		}

		producer := newKafkaProducerWith(mockProducer, testTopic, time.Second)

		err := producer.Publish(context.Background(), "chalan-42", []byte(testMessageContent))
		assert.NoError(t, err)
		assert.Equal(t, "chalan-42", gotKey)
	})

	t.Run("delivery failure", func(t *testing.T) {
		mockProducer := &MockProducer{
			ProduceFunc: func(msg *kafka.Message, deliveryChan chan kafka.Event) error {
				go func() {
					deliveryChan <- &kafka.Message{
						TopicPartition: kafka.TopicPartition{
							Topic: msg.TopicPartition.Topic,
							Error: kafka.NewError(kafka.ErrMsgTimedOut, "delivery failed", false),
						},
					}
				}()
				return nil
			},
		}

		producer := newKafkaProducerWith(mockProducer, testTopic, time.Second)

		err := producer.Publish(context.Background(), "", []byte(testMessageContent))
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "delivery failed")
	})

	t.Run("produce error", func(t *testing.T) {
		mockProducer := &MockProducer{
			ProduceFunc: func(msg *kafka.Message, deliveryChan chan kafka.Event) error {
				return fmt.Errorf("produce failed")
			},
		}

		producer := newKafkaProducerWith(mockProducer, testTopic, time.Second)

		err := producer.Publish(context.Background(), "", []byte(testMessageContent))
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "produce failed")
	})

	t.Run("unexpected event type", func(t *testing.T) {
		mockProducer := &MockProducer{
			ProduceFunc: func(msg *kafka.Message, deliveryChan chan kafka.Event) error {
				go func() {
					deliveryChan <- kafka.NewError(kafka.ErrUnknown, "unexpected event", false)
				}()
				return nil
			},
		}

		producer := newKafkaProducerWith(mockProducer, testTopic, time.Second)

		err := producer.Publish(context.Background(), "", []byte(testMessageContent))
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "unexpected event type")
	})
}

func TestKafkaProducerClose(t *testing.T) {
	flushed, closed := false, false
	producer := newKafkaProducerWith(&MockProducer{
		FlushFunc: func(timeoutMs int) int { flushed = true; return 0 },
		CloseFunc: func() { closed = true },
	}, testTopic, 0)

	assert.NoError(t, producer.Close())
	assert.True(t, flushed)
	assert.True(t, closed)
}
