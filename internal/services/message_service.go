package services

import (
	"context"
	"time"

	"github.com/segmentio/ksuid"

	"jackut/internal/apperrors"
	"jackut/internal/events"
	"jackut/internal/models"
	"jackut/internal/storage"
)

// MessageService defines direct and community messaging. Both channels are FIFO and
// every message is read at most once.
type MessageService interface {
	Send(ctx context.Context, session, to, body string) error
	Read(ctx context.Context, session string) (models.Message, error)
	// Broadcast appends body to the community log and copies it into the community inbox
	// of every current member.
	Broadcast(ctx context.Context, session, community, body string) error
	ReadCommunity(ctx context.Context, session string) (models.Message, error)
}

type messageService struct {
	base
}

func NewMessageService(b base) MessageService {
	return &messageService{base: b}
}

func newMessage(from, to, community, body string, at time.Time) models.Message {
	return models.Message{
		ID:        ksuid.New().String(),
		From:      from,
		To:        to,
		Community: community,
		Body:      body,
		SentAt:    at.UTC(),
	}
}

func systemNotice(to, body string, at time.Time) models.Message {
	m := newMessage(models.SystemSender, to, "", body, at)
	m.System = true
	return m
}

func (s *messageService) Send(ctx context.Context, session, to, body string) error {
	var msg models.Message
	err := s.store.Update(ctx, func(tx *storage.Tx) error {
		u, err := actor(tx, session)
		if err != nil {
			return err
		}
		recipient, err := tx.Users.Get(to)
		if err != nil {
			return err
		}
		if u.Login == recipient.Login {
			return apperrors.SelfReference(apperrors.RelationMessage, to)
		}
		if recipient.Enemies.Contains(u.Login) {
			return apperrors.EnemyBlock(apperrors.RelationMessage, recipient.Login, recipient.Name)
		}
		msg = newMessage(u.Login, recipient.Login, "", body, s.now())
		recipient.Inbox.Push(msg)
		return nil
	})
	if err != nil {
		return err
	}

	ev := events.New(events.MessageSent, msg.From, msg.To, msg.SentAt)
	ev.Body = msg.Body
	s.publish(ctx, ev)
	return nil
}

func (s *messageService) Read(ctx context.Context, session string) (models.Message, error) {
	return s.pop(ctx, session, apperrors.RelationMessage, func(u *models.User) *models.MessageQueue { return &u.Inbox })
}

func (s *messageService) Broadcast(ctx context.Context, session, community, body string) error {
	var evs []events.Event
	err := s.store.Update(ctx, func(tx *storage.Tx) error {
		u, err := actor(tx, session)
		if err != nil {
			return err
		}
		c, err := tx.Communities.Get(community)
		if err != nil {
			return err
		}

		now := s.now()
		c.Messages.Push(newMessage(u.Login, "", c.Name, body, now))
		for _, login := range c.Members {
			member, err := tx.Users.Get(login)
			if err != nil {
				continue
			}
			member.CommunityInbox.Push(newMessage(u.Login, login, c.Name, body, now))
			ev := events.New(events.CommunityMessage, u.Login, login, now)
			ev.Community = c.Name
			ev.Body = body
			evs = append(evs, ev)
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.log.Debug().Str("community", community).Int("recipients", len(evs)).Msg("community message broadcast")
	s.publish(ctx, evs...)
	return nil
}

func (s *messageService) ReadCommunity(ctx context.Context, session string) (models.Message, error) {
	return s.pop(ctx, session, apperrors.RelationCommunityMessage, func(u *models.User) *models.MessageQueue { return &u.CommunityInbox })
}

func (s *messageService) pop(ctx context.Context, session string, rel apperrors.Relation, queue func(*models.User) *models.MessageQueue) (models.Message, error) {
	var msg models.Message
	err := s.store.Update(ctx, func(tx *storage.Tx) error {
		u, err := actor(tx, session)
		if err != nil {
			return err
		}
		m, ok := queue(u).Pop()
		if !ok {
			return apperrors.NoMessages(rel)
		}
		msg = m
		return nil
	})
	return msg, err
}
