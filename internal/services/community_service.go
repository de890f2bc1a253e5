package services

import (
	"context"
	"strings"

	"jackut/internal/apperrors"
	"jackut/internal/models"
	"jackut/internal/storage"
)

// CommunityService defines community membership and management.
type CommunityService interface {
	Create(ctx context.Context, session, name, description string) error
	Get(ctx context.Context, name string) (*models.Community, error)
	Edit(ctx context.Context, session, name, description string) error
	Delete(ctx context.Context, session, name string) error
	// Transfer hands management to an existing member. The former manager stays a member.
	Transfer(ctx context.Context, session, name, login string) error
	Join(ctx context.Context, session, name string) error
	Leave(ctx context.Context, session, name string) error
	// OfUser lists the communities login belongs to, in join order.
	OfUser(ctx context.Context, login string) (models.OrderedSet, error)
	Search(ctx context.Context, term string) (models.OrderedSet, error)
}

type communityService struct {
	base
}

func NewCommunityService(b base) CommunityService {
	return &communityService{base: b}
}

func (s *communityService) Create(ctx context.Context, session, name, description string) error {
	err := s.store.Update(ctx, func(tx *storage.Tx) error {
		u, err := actor(tx, session)
		if err != nil {
			return err
		}
		if err := tx.Communities.Create(models.NewCommunity(name, description, u.Login, s.now())); err != nil {
			return err
		}
		u.Communities.Add(name)
		return nil
	})
	if err != nil {
		return err
	}
	s.log.Debug().Str("community", name).Msg("community created")
	return nil
}

func (s *communityService) Get(ctx context.Context, name string) (*models.Community, error) {
	var out *models.Community
	err := s.store.View(ctx, func(tx *storage.Tx) error {
		c, err := tx.Communities.Get(name)
		if err != nil {
			return err
		}
		out = c.Clone()
		return nil
	})
	return out, err
}

// managed loads the community and checks the session's user manages it.
func managed(tx *storage.Tx, session, name string) (*models.User, *models.Community, error) {
	u, err := actor(tx, session)
	if err != nil {
		return nil, nil, err
	}
	c, err := tx.Communities.Get(name)
	if err != nil {
		return nil, nil, err
	}
	if !c.IsManager(u.Login) {
		return nil, nil, apperrors.NotManager(u.Login, name)
	}
	return u, c, nil
}

func (s *communityService) Edit(ctx context.Context, session, name, description string) error {
	return s.store.Update(ctx, func(tx *storage.Tx) error {
		_, c, err := managed(tx, session, name)
		if err != nil {
			return err
		}
		c.Description = description
		return nil
	})
}

func (s *communityService) Delete(ctx context.Context, session, name string) error {
	err := s.store.Update(ctx, func(tx *storage.Tx) error {
		_, c, err := managed(tx, session, name)
		if err != nil {
			return err
		}
		deleteCommunity(tx, c)
		return nil
	})
	if err != nil {
		return err
	}
	s.log.Debug().Str("community", name).Msg("community deleted")
	return nil
}

// deleteCommunity removes c and every trace of it from its members.
func deleteCommunity(tx *storage.Tx, c *models.Community) {
	for _, login := range c.Members {
		if member, err := tx.Users.Get(login); err == nil {
			member.Communities.Remove(c.Name)
			member.CommunityInbox.DropCommunity(c.Name)
		}
	}
	tx.Communities.Delete(c.Name)
}

func (s *communityService) Transfer(ctx context.Context, session, name, login string) error {
	return s.store.Update(ctx, func(tx *storage.Tx) error {
		_, c, err := managed(tx, session, name)
		if err != nil {
			return err
		}
		if _, err := tx.Users.Get(login); err != nil {
			return err
		}
		if !c.IsMember(login) {
			return apperrors.NotMember(login, name)
		}
		c.Manager = login
		return nil
	})
}

func (s *communityService) Join(ctx context.Context, session, name string) error {
	return s.store.Update(ctx, func(tx *storage.Tx) error {
		u, err := actor(tx, session)
		if err != nil {
			return err
		}
		c, err := tx.Communities.Get(name)
		if err != nil {
			return err
		}
		if c.IsMember(u.Login) {
			return apperrors.AlreadyMember(u.Login, name)
		}
		c.Members.Add(u.Login)
		u.Communities.Add(name)
		return nil
	})
}

func (s *communityService) Leave(ctx context.Context, session, name string) error {
	return s.store.Update(ctx, func(tx *storage.Tx) error {
		u, err := actor(tx, session)
		if err != nil {
			return err
		}
		c, err := tx.Communities.Get(name)
		if err != nil {
			return err
		}
		if c.IsManager(u.Login) {
			return apperrors.ManagerCannotLeave(u.Login, name)
		}
		if !c.IsMember(u.Login) {
			return apperrors.NotMember(u.Login, name)
		}
		c.Members.Remove(u.Login)
		u.Communities.Remove(name)
		return nil
	})
}

func (s *communityService) OfUser(ctx context.Context, login string) (models.OrderedSet, error) {
	var out models.OrderedSet
	err := s.store.View(ctx, func(tx *storage.Tx) error {
		u, err := tx.Users.Get(login)
		if err != nil {
			return err
		}
		out = u.Communities.Clone()
		return nil
	})
	return out, err
}

func (s *communityService) Search(ctx context.Context, term string) (models.OrderedSet, error) {
	needle := strings.ToLower(term)
	var out models.OrderedSet
	err := s.store.View(ctx, func(tx *storage.Tx) error {
		for _, c := range tx.Communities.All() {
			if strings.Contains(strings.ToLower(c.Name), needle) || strings.Contains(strings.ToLower(c.Description), needle) {
				out.Add(c.Name)
			}
		}
		return nil
	})
	return out, err
}
