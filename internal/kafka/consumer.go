package kafka

import (
	"context"
	"fmt"
	"strings"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"github.com/rs/zerolog"

	"jackut/internal/config"
)

// MessageHandler processes one consumed message. Returning nil commits its offset.
type MessageHandler func(ctx context.Context, msg *kafka.Message) error

// MessageConsumer defines the interface for a Kafka message consumer.
type MessageConsumer interface {
	Consume(ctx context.Context, topics []string, groupID string, handler MessageHandler) error
	Close()
}

type confluentKafkaConsumer struct {
	consumer *kafka.Consumer
	cfg      config.KafkaConfig
	groupID  string
	log      zerolog.Logger
}

// NewConfluentKafkaConsumer prepares a consumer; the underlying client is created by Consume.
func NewConfluentKafkaConsumer(cfg config.KafkaConfig, log zerolog.Logger) MessageConsumer {
	return &confluentKafkaConsumer{cfg: cfg, log: log.With().Str("component", "kafka-consumer").Logger()}
}

// Consume blocks until ctx is done or a fatal Kafka error occurs.
func (c *confluentKafkaConsumer) Consume(ctx context.Context, topics []string, groupID string, handler MessageHandler) error {
	if len(topics) == 0 {
		return fmt.Errorf("kafka consumer: no topics specified")
	}
	c.groupID = groupID
	log := c.log.With().Str("group", groupID).Logger()

	configMap := &kafka.ConfigMap{
		"bootstrap.servers":  strings.Join(c.cfg.Brokers, ","),
		"group.id":           groupID,
		"auto.offset.reset":  "latest",
		"enable.auto.commit": "false",
		"security.protocol":  c.cfg.Protocol,
	}
	if c.cfg.ClientID != "" {
		_ = configMap.SetKey("client.id", c.cfg.ClientID)
	}

	consumer, err := kafka.NewConsumer(configMap)
	if err != nil {
		return fmt.Errorf("failed to create Kafka consumer for group %s: %w", groupID, err)
	}
	c.consumer = consumer

	if err := c.consumer.SubscribeTopics(topics, nil); err != nil {
		_ = c.consumer.Close()
		c.consumer = nil
		return fmt.Errorf("failed to subscribe to topics %v for group %s: %w", topics, groupID, err)
	}
	log.Info().Strs("topics", topics).Msg("kafka consumer started")

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("kafka consumer stopping")
			return nil
		default:
		}

		ev := c.consumer.Poll(1000)
		if ev == nil {
			continue
		}

		switch e := ev.(type) {
		case *kafka.Message:
			if err := handler(ctx, e); err != nil {
				log.Error().Err(err).
					Str("topic", *e.TopicPartition.Topic).
					Str("offset", e.TopicPartition.Offset.String()).
					Msg("failed to process message")
				continue
			}
			if _, err := c.consumer.CommitMessage(e); err != nil {
				log.Warn().Err(err).Str("offset", e.TopicPartition.Offset.String()).Msg("failed to commit offset")
			}
		case kafka.Error:
			if e.IsFatal() {
				log.Error().Err(e).Msg("fatal kafka error")
				return e
			}
			log.Warn().Err(e).Int("code", int(e.Code())).Msg("kafka consumer error")
		case kafka.AssignedPartitions:
			log.Info().Int("partitions", len(e.Partitions)).Msg("partitions assigned")
			_ = c.consumer.Assign(e.Partitions)
		case kafka.RevokedPartitions:
			log.Info().Int("partitions", len(e.Partitions)).Msg("partitions revoked")
			_ = c.consumer.Unassign()
		}
	}
}

func (c *confluentKafkaConsumer) Close() {
	if c.consumer == nil {
		return
	}
	if err := c.consumer.Close(); err != nil {
		c.log.Warn().Err(err).Str("group", c.groupID).Msg("error closing kafka consumer")
	}
	c.consumer = nil
}
