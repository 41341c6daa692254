package kafka

import (
	"context"
	"fmt"
	"time"

	"github.com/schoolmanagementsystem111/softverse-school-portal/internal/pkg/config"
	"github.com/schoolmanagementsystem111/softverse-school-portal/internal/pkg/log_messages"
	"github.com/schoolmanagementsystem111/softverse-school-portal/internal/pkg/logger"
	"github.com/schoolmanagementsystem111/softverse-school-portal/internal/service/interfaces"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
)

const defaultDeliveryTimeout = 10 * time.Second

// ProducerInterface defines the interface for Kafka producer operations.
type ProducerInterface interface {
	Produce(msg *kafka.Message, deliveryChan chan kafka.Event) error
	Flush(timeoutMs int) int
	Close()
}

// KafkaProducer publishes payment ledger events and waits for the delivery report.
type KafkaProducer struct {
	producer        ProducerInterface
	topic           string
	deliveryTimeout time.Duration
}

var _ interfaces.KafkaPublisherInterface = (*KafkaProducer)(nil)

// NewKafkaProducer creates and returns a new KafkaProducer instance.
func NewKafkaProducer(cfg config.KafkaConfig) (*KafkaProducer, error) {
	kafkaConfig := &kafka.ConfigMap{
		"bootstrap.servers": cfg.Server,
		"security.protocol": cfg.SecurityProtocol,
		"client.id":         cfg.ClientID,
	}
	if cfg.SASLMechanism != "" {
		_ = kafkaConfig.SetKey("sasl.mechanisms", cfg.SASLMechanism)
		_ = kafkaConfig.SetKey("sasl.username", cfg.SASLUsername)
		_ = kafkaConfig.SetKey("sasl.password", cfg.SASLPassword)
	}

	producer, err := kafka.NewProducer(kafkaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}
	logger.Info(log_messages.KafkaProducerCreated)

	return newKafkaProducerWith(producer, cfg.PaymentTopic, cfg.DeliveryTimeout), nil
}

func newKafkaProducerWith(producer ProducerInterface, topic string, deliveryTimeout time.Duration) *KafkaProducer {
	if deliveryTimeout <= 0 {
		deliveryTimeout = defaultDeliveryTimeout
	}
	return &KafkaProducer{producer: producer, topic: topic, deliveryTimeout: deliveryTimeout}
}

// Publish sends msg keyed by key, so that every event for one chalan lands on the same partition.
func (kp *KafkaProducer) Publish(ctx context.Context, key string, msg []byte) error {
	deliveryChan := make(chan kafka.Event, 1)

	message := &kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &kp.topic, Partition: kafka.PartitionAny},
		Value:          msg,
	}
	if key != "" {
		message.Key = []byte(key)
	}

	if err := kp.producer.Produce(message, deliveryChan); err != nil {
		logger.CtxError(ctx, "Failed to produce Kafka message", err)
		return err
	}

	select {
	case ev := <-deliveryChan:
		m, ok := ev.(*kafka.Message)
		if !ok {
			return fmt.Errorf("unexpected event type")
		}
		if m.TopicPartition.Error != nil {
			return fmt.Errorf("delivery failed: %w", m.TopicPartition.Error)
		}
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(kp.deliveryTimeout):
		return fmt.Errorf("timeout waiting for Kafka delivery report")
	}

	return nil
}

// Close flushes and closes the Kafka producer.
func (kp *KafkaProducer) Close() error {
	kp.producer.Flush(5000)
	kp.producer.Close()
	return nil
}
