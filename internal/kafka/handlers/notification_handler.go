package kafkahandlers

import (
	"context"
	"encoding/json"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"github.com/rs/zerolog"

	"jackut/internal/events"
)

// Deliverer pushes a payload to a user's live connection and reports whether one existed.
type Deliverer interface {
	Deliver(login string, payload []byte) bool
}

// NotificationHandler forwards consumed domain events to connected users.
type NotificationHandler struct {
	hub Deliverer
	log zerolog.Logger
}

func NewNotificationHandler(hub Deliverer, log zerolog.Logger) *NotificationHandler {
	return &NotificationHandler{hub: hub, log: log.With().Str("component", "notifications").Logger()}
}

// Handle never fails: malformed events are skipped and offline users simply miss the push,
// their inbox still holds the message.
func (h *NotificationHandler) Handle(_ context.Context, msg *kafka.Message) error {
	var ev events.Event
	if err := json.Unmarshal(msg.Value, &ev); err != nil {
		h.log.Warn().Err(err).Str("key", string(msg.Key)).Msg("skipping malformed event")
		return nil
	}
	if ev.Recipient == "" {
		h.log.Warn().Str("id", ev.ID).Msg("skipping event without recipient")
		return nil
	}

	delivered := h.hub.Deliver(ev.Recipient, msg.Value)
	h.log.Debug().
		Str("id", ev.ID).
		Str("type", string(ev.Type)).
		Str("recipient", ev.Recipient).
		Bool("delivered", delivered).
		Msg("event handled")
	return nil
}
