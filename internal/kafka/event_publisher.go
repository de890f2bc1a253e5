package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"jackut/internal/events"
)

// EventPublisher writes domain events as JSON to one topic, keyed by recipient so every
// user's notifications stay ordered within a partition.
type EventPublisher struct {
	producer MessageProducer
	topic    string
}

func NewEventPublisher(producer MessageProducer, topic string) *EventPublisher {
	return &EventPublisher{producer: producer, topic: topic}
}

// Publish sends every event and joins the failures.
func (p *EventPublisher) Publish(ctx context.Context, evs ...events.Event) error {
	var errs []error
	for _, ev := range evs {
		payload, err := json.Marshal(ev)
		if err != nil {
			errs = append(errs, fmt.Errorf("marshal event %s: %w", ev.ID, err))
			continue
		}
		if err := p.producer.SendMessage(ctx, p.topic, []byte(ev.Recipient), payload); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
