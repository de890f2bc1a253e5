package services

import (
	"context"

	"jackut/internal/apperrors"
	"jackut/internal/events"
	"jackut/internal/models"
	"jackut/internal/storage"
)

// FriendshipService defines friend request and friend list operations.
type FriendshipService interface {
	IsFriend(ctx context.Context, login, other string) (bool, error)
	// AddFriend sends a request to login, or confirms the friendship when login already
	// asked the session's user.
	AddFriend(ctx context.Context, session, login string) error
	Friends(ctx context.Context, login string) (models.OrderedSet, error)
	PendingRequests(ctx context.Context, login string) (models.OrderedSet, error)
	RejectRequest(ctx context.Context, session, requester string) error
}

type friendshipService struct {
	base
}

func NewFriendshipService(b base) FriendshipService {
	return &friendshipService{base: b}
}

func (s *friendshipService) IsFriend(ctx context.Context, login, other string) (bool, error) {
	var ok bool
	err := s.store.View(ctx, func(tx *storage.Tx) error {
		u, err := tx.Users.Get(login)
		if err != nil {
			return err
		}
		ok = u.Friends.Contains(other)
		return nil
	})
	return ok, err
}

func (s *friendshipService) AddFriend(ctx context.Context, session, login string) error {
	var ev events.Event
	err := s.store.Update(ctx, func(tx *storage.Tx) error {
		u, err := actor(tx, session)
		if err != nil {
			return err
		}
		target, err := tx.Users.Get(login)
		if err != nil {
			return err
		}
		if u.Login == target.Login {
			return apperrors.SelfReference(apperrors.RelationFriend, login)
		}
		if target.Enemies.Contains(u.Login) {
			return apperrors.EnemyBlock(apperrors.RelationFriend, target.Login, target.Name)
		}
		if u.Friends.Contains(target.Login) {
			return apperrors.AlreadyFriends(target.Login)
		}
		if target.FriendRequests.Contains(u.Login) {
			return apperrors.AlreadyPending(target.Login)
		}

		now := s.now()
		if u.FriendRequests.Contains(target.Login) {
			u.FriendRequests.Remove(target.Login)
			target.FriendRequests.Remove(u.Login)
			u.Friends.Add(target.Login)
			target.Friends.Add(u.Login)
			ev = events.New(events.FriendshipAccepted, u.Login, target.Login, now)
			return nil
		}
		target.FriendRequests.Add(u.Login)
		ev = events.New(events.FriendRequested, u.Login, target.Login, now)
		return nil
	})
	if err != nil {
		return err
	}
	s.log.Debug().Str("from", ev.Actor).Str("to", ev.Recipient).Str("event", string(ev.Type)).Msg("friend request handled")
	s.publish(ctx, ev)
	return nil
}

func (s *friendshipService) Friends(ctx context.Context, login string) (models.OrderedSet, error) {
	return s.list(ctx, login, func(u *models.User) models.OrderedSet { return u.Friends })
}

func (s *friendshipService) PendingRequests(ctx context.Context, login string) (models.OrderedSet, error) {
	return s.list(ctx, login, func(u *models.User) models.OrderedSet { return u.FriendRequests })
}

func (s *friendshipService) list(ctx context.Context, login string, pick func(*models.User) models.OrderedSet) (models.OrderedSet, error) {
	var out models.OrderedSet
	err := s.store.View(ctx, func(tx *storage.Tx) error {
		u, err := tx.Users.Get(login)
		if err != nil {
			return err
		}
		out = pick(u).Clone()
		return nil
	})
	return out, err
}

func (s *friendshipService) RejectRequest(ctx context.Context, session, requester string) error {
	return s.store.Update(ctx, func(tx *storage.Tx) error {
		u, err := actor(tx, session)
		if err != nil {
			return err
		}
		if !u.FriendRequests.Remove(requester) {
			return apperrors.NoPendingRequest(requester)
		}
		return nil
	})
}
