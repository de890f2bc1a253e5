package services

import (
	"context"
	"fmt"

	"jackut/internal/apperrors"
	"jackut/internal/events"
	"jackut/internal/models"
	"jackut/internal/storage"
)

const crushNotice = "%s é seu paquera - Recado do Jackut."

// RelationshipService defines the idol/fan, crush and enemy relations.
type RelationshipService interface {
	AddIdol(ctx context.Context, session, login string) error
	RemoveIdol(ctx context.Context, session, login string) error
	IsFan(ctx context.Context, login, idol string) (bool, error)
	Fans(ctx context.Context, login string) (models.OrderedSet, error)
	Idols(ctx context.Context, session string) (models.OrderedSet, error)

	AddCrush(ctx context.Context, session, login string) error
	RemoveCrush(ctx context.Context, session, login string) error
	IsCrush(ctx context.Context, session, login string) (bool, error)
	Crushes(ctx context.Context, session string) (models.OrderedSet, error)

	AddEnemy(ctx context.Context, session, login string) error
	RemoveEnemy(ctx context.Context, session, login string) error
	IsEnemy(ctx context.Context, session, login string) (bool, error)
	Enemies(ctx context.Context, session string) (models.OrderedSet, error)
}

type relationshipService struct {
	base
}

func NewRelationshipService(b base) RelationshipService {
	return &relationshipService{base: b}
}

// prepare loads the actor and target and runs the checks shared by every "add":
// target exists, relation not yet held, no self reference and, unless the relation is
// enemy, the target has not blocked the actor.
func prepare(tx *storage.Tx, session, login string, rel apperrors.Relation, held func(*models.User) models.OrderedSet) (*models.User, *models.User, error) {
	u, err := actor(tx, session)
	if err != nil {
		return nil, nil, err
	}
	target, err := tx.Users.Get(login)
	if err != nil {
		return nil, nil, err
	}
	if held(u).Contains(login) {
		return nil, nil, apperrors.AlreadyAdded(rel, login)
	}
	if u.Login == login {
		return nil, nil, apperrors.SelfReference(rel, login)
	}
	if rel != apperrors.RelationEnemy && target.Enemies.Contains(u.Login) {
		return nil, nil, apperrors.EnemyBlock(rel, target.Login, target.Name)
	}
	return u, target, nil
}

func idols(u *models.User) models.OrderedSet   { return u.Idols }
func crushes(u *models.User) models.OrderedSet { return u.Crushes }
func enemies(u *models.User) models.OrderedSet { return u.Enemies }

func (s *relationshipService) AddIdol(ctx context.Context, session, login string) error {
	return s.store.Update(ctx, func(tx *storage.Tx) error {
		u, idol, err := prepare(tx, session, login, apperrors.RelationIdol, idols)
		if err != nil {
			return err
		}
		u.Idols.Add(idol.Login)
		idol.Fans.Add(u.Login)
		return nil
	})
}

func (s *relationshipService) RemoveIdol(ctx context.Context, session, login string) error {
	return s.store.Update(ctx, func(tx *storage.Tx) error {
		u, err := actor(tx, session)
		if err != nil {
			return err
		}
		if !u.Idols.Remove(login) {
			return apperrors.NotInRelation(apperrors.RelationIdol, login)
		}
		if idol, err := tx.Users.Get(login); err == nil {
			idol.Fans.Remove(u.Login)
		}
		return nil
	})
}

func (s *relationshipService) IsFan(ctx context.Context, login, idol string) (bool, error) {
	var ok bool
	err := s.store.View(ctx, func(tx *storage.Tx) error {
		u, err := tx.Users.Get(login)
		if err != nil {
			return err
		}
		ok = u.Idols.Contains(idol)
		return nil
	})
	return ok, err
}

func (s *relationshipService) Fans(ctx context.Context, login string) (models.OrderedSet, error) {
	var out models.OrderedSet
	err := s.store.View(ctx, func(tx *storage.Tx) error {
		u, err := tx.Users.Get(login)
		if err != nil {
			return err
		}
		out = u.Fans.Clone()
		return nil
	})
	return out, err
}

func (s *relationshipService) Idols(ctx context.Context, session string) (models.OrderedSet, error) {
	return s.own(ctx, session, idols)
}

func (s *relationshipService) AddCrush(ctx context.Context, session, login string) error {
	var evs []events.Event
	err := s.store.Update(ctx, func(tx *storage.Tx) error {
		u, crush, err := prepare(tx, session, login, apperrors.RelationCrush, crushes)
		if err != nil {
			return err
		}
		u.Crushes.Add(crush.Login)
		if !crush.Crushes.Contains(u.Login) {
			return nil
		}

		now := s.now()
		u.Inbox.Push(systemNotice(u.Login, fmt.Sprintf(crushNotice, crush.Name), now))
		crush.Inbox.Push(systemNotice(crush.Login, fmt.Sprintf(crushNotice, u.Name), now))
		evs = append(evs,
			events.New(events.CrushMatched, crush.Login, u.Login, now),
			events.New(events.CrushMatched, u.Login, crush.Login, now),
		)
		return nil
	})
	if err != nil {
		return err
	}
	if len(evs) > 0 {
		s.log.Debug().Str("a", evs[0].Recipient).Str("b", evs[1].Recipient).Msg("mutual crush")
	}
	s.publish(ctx, evs...)
	return nil
}

func (s *relationshipService) RemoveCrush(ctx context.Context, session, login string) error {
	return s.remove(ctx, session, login, apperrors.RelationCrush, func(u *models.User) *models.OrderedSet { return &u.Crushes })
}

func (s *relationshipService) IsCrush(ctx context.Context, session, login string) (bool, error) {
	return s.holds(ctx, session, login, crushes)
}

func (s *relationshipService) Crushes(ctx context.Context, session string) (models.OrderedSet, error) {
	return s.own(ctx, session, crushes)
}

func (s *relationshipService) AddEnemy(ctx context.Context, session, login string) error {
	return s.store.Update(ctx, func(tx *storage.Tx) error {
		u, enemy, err := prepare(tx, session, login, apperrors.RelationEnemy, enemies)
		if err != nil {
			return err
		}
		u.Enemies.Add(enemy.Login)
		return nil
	})
}

func (s *relationshipService) RemoveEnemy(ctx context.Context, session, login string) error {
	return s.remove(ctx, session, login, apperrors.RelationEnemy, func(u *models.User) *models.OrderedSet { return &u.Enemies })
}

func (s *relationshipService) IsEnemy(ctx context.Context, session, login string) (bool, error) {
	return s.holds(ctx, session, login, enemies)
}

func (s *relationshipService) Enemies(ctx context.Context, session string) (models.OrderedSet, error) {
	return s.own(ctx, session, enemies)
}

func (s *relationshipService) remove(ctx context.Context, session, login string, rel apperrors.Relation, set func(*models.User) *models.OrderedSet) error {
	return s.store.Update(ctx, func(tx *storage.Tx) error {
		u, err := actor(tx, session)
		if err != nil {
			return err
		}
		if !set(u).Remove(login) {
			return apperrors.NotInRelation(rel, login)
		}
		return nil
	})
}

func (s *relationshipService) holds(ctx context.Context, session, login string, pick func(*models.User) models.OrderedSet) (bool, error) {
	var ok bool
	err := s.store.View(ctx, func(tx *storage.Tx) error {
		u, err := actor(tx, session)
		if err != nil {
			return err
		}
		ok = pick(u).Contains(login)
		return nil
	})
	return ok, err
}

func (s *relationshipService) own(ctx context.Context, session string, pick func(*models.User) models.OrderedSet) (models.OrderedSet, error) {
	var out models.OrderedSet
	err := s.store.View(ctx, func(tx *storage.Tx) error {
		u, err := actor(tx, session)
		if err != nil {
			return err
		}
		out = pick(u).Clone()
		return nil
	})
	return out, err
}
