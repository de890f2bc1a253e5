package models

import "time"

// SystemSender is the sender shown on notices generated by Jackut itself. A user may
// hold the same login; System tells the two apart.
const SystemSender = "jackut"

// Message is an immutable note queued in a user's inbox. Community is set for messages
// broadcast to a community and empty for direct messages.
type Message struct {
	ID        string    `json:"id"`
	From      string    `json:"from"`
	To        string    `json:"to"`
	Community string    `json:"community,omitempty"`
	Body      string    `json:"body"`
	SentAt    time.Time `json:"sentAt"`
	System    bool      `json:"system,omitempty"`
}

// MessageQueue is a FIFO of messages. The zero value is an empty queue.
type MessageQueue []Message

func (q *MessageQueue) Push(m Message) {
	*q = append(*q, m)
}

// Pop removes and returns the oldest message.
func (q *MessageQueue) Pop() (Message, bool) {
	if len(*q) == 0 {
		return Message{}, false
	}
	m := (*q)[0]
	(*q)[0] = Message{}
	*q = (*q)[1:]
	return m, true
}

func (q MessageQueue) Len() int { return len(q) }

// DropFrom removes every message sent by login, keeping the order of the rest.
// System notices are never dropped.
func (q *MessageQueue) DropFrom(login string) {
	kept := (*q)[:0]
	for _, m := range *q {
		if m.System || m.From != login {
			kept = append(kept, m)
		}
	}
	for i := len(kept); i < len(*q); i++ {
		(*q)[i] = Message{}
	}
	*q = kept
}

// RenameParty rewrites sender and recipient logins after a rename.
func (q MessageQueue) RenameParty(old, new string) {
	for i := range q {
		if !q[i].System && q[i].From == old {
			q[i].From = new
		}
		if q[i].To == old {
			q[i].To = new
		}
	}
}

// DropCommunity removes every message broadcast by the named community.
func (q *MessageQueue) DropCommunity(name string) {
	kept := (*q)[:0]
	for _, m := range *q {
		if m.Community != name {
			kept = append(kept, m)
		}
	}
	for i := len(kept); i < len(*q); i++ {
		(*q)[i] = Message{}
	}
	*q = kept
}

func (q MessageQueue) Clone() MessageQueue {
	if q == nil {
		return nil
	}
	out := make(MessageQueue, len(q))
	copy(out, q)
	return out
}
