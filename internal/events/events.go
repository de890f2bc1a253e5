// Package events carries notifications about committed state changes to whoever wants
// to push them to users. Delivery is best-effort; the inboxes in the store stay the
// source of truth.
package events

import (
	"context"
	"sync"
	"time"

	"github.com/segmentio/ksuid"
)

type Type string

const (
	MessageSent        Type = "message.sent"
	FriendRequested    Type = "friend.requested"
	FriendshipAccepted Type = "friendship.accepted"
	CrushMatched       Type = "crush.matched"
	CommunityMessage   Type = "community.message"
)

// Event is addressed to exactly one recipient login.
type Event struct {
	ID         string    `json:"id"`
	Type       Type      `json:"type"`
	Actor      string    `json:"actor"`
	Recipient  string    `json:"recipient"`
	Community  string    `json:"community,omitempty"`
	Body       string    `json:"body,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}

// New stamps a fresh time-sortable id on the event.
func New(t Type, actor, recipient string, at time.Time) Event {
	return Event{
		ID:         ksuid.New().String(),
		Type:       t,
		Actor:      actor,
		Recipient:  recipient,
		OccurredAt: at.UTC(),
	}
}

// Publisher delivers events outside the process.
type Publisher interface {
	Publish(ctx context.Context, events ...Event) error
}

// NopPublisher drops every event.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, ...Event) error { return nil }

// Recorder keeps published events in memory. Useful in tests and for the CLI.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *Recorder) Publish(_ context.Context, events ...Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, events...)
	return nil
}

// Events returns a copy of everything published so far.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}
