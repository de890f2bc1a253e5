package kafka

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"github.com/rs/zerolog"

	"jackut/internal/config"
)

// MessageProducer sends one keyed payload to a topic.
type MessageProducer interface {
	SendMessage(ctx context.Context, topic string, key []byte, payload []byte) error
	Close()
}

type confluentKafkaProducer struct {
	producer *kafka.Producer
	log      zerolog.Logger
}

// NewConfluentKafkaProducer creates a producer from the KAFKA config section.
func NewConfluentKafkaProducer(cfg config.KafkaConfig, log zerolog.Logger) (MessageProducer, error) {
	configMap := &kafka.ConfigMap{
		"bootstrap.servers": strings.Join(cfg.Brokers, ","),
		"security.protocol": cfg.Protocol,
		"acks":              "all",
	}
	if cfg.ClientID != "" {
		_ = configMap.SetKey("client.id", cfg.ClientID)
	}

	p, err := kafka.NewProducer(configMap)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}
	return &confluentKafkaProducer{producer: p, log: log.With().Str("component", "kafka-producer").Logger()}, nil
}

// SendMessage enqueues the message and waits for its delivery report.
func (p *confluentKafkaProducer) SendMessage(ctx context.Context, topic string, key []byte, payload []byte) error {
	// buffered so a late report after ctx is done does not block librdkafka
	deliveryChan := make(chan kafka.Event, 1)

	kafkaMsg := &kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &topic, Partition: kafka.PartitionAny},
		Key:            key,
		Value:          payload,
		Timestamp:      time.Now(),
	}

	if err := p.producer.Produce(kafkaMsg, deliveryChan); err != nil {
		return fmt.Errorf("kafka producer failed to enqueue message for topic %s: %w", topic, err)
	}

	select {
	case e := <-deliveryChan:
		m, ok := e.(*kafka.Message)
		if !ok {
			return fmt.Errorf("kafka producer: unexpected event type on delivery channel: %T %v", e, e)
		}
		if m.TopicPartition.Error != nil {
			return fmt.Errorf("kafka producer: delivery failed for topic %s: %w", topic, m.TopicPartition.Error)
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("kafka producer: context done while waiting for delivery report for topic %s: %w", topic, ctx.Err())
	}
}

// Close flushes outstanding messages for up to 15 seconds and closes the producer.
func (p *confluentKafkaProducer) Close() {
	if p.producer == nil {
		return
	}
	if remaining := p.producer.Flush(15 * 1000); remaining > 0 {
		p.log.Warn().Int("outstanding", remaining).Msg("messages still outstanding after flush")
	}
	p.producer.Close()
	p.log.Info().Msg("kafka producer closed")
}
