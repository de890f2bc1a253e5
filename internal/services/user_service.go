package services

import (
	"context"
	"fmt"

	"jackut/internal/apperrors"
	"jackut/internal/auth"
	"jackut/internal/models"
	"jackut/internal/storage"
)

// UserService defines account and profile operations.
type UserService interface {
	Create(ctx context.Context, login, password, name string) error
	Get(ctx context.Context, login string) (*models.User, error)
	Attribute(ctx context.Context, login, attribute string) (string, error)
	// EditProfile changes one profile field of the session's user. Editing "login"
	// renames the account everywhere it is referenced.
	EditProfile(ctx context.Context, session, attribute, value string) error
	// Remove deletes the session's user together with every reference to it.
	Remove(ctx context.Context, session string) error
}

type userService struct {
	base
	bcryptCost int
}

func NewUserService(b base, bcryptCost int) UserService {
	return &userService{base: b, bcryptCost: bcryptCost}
}

func (s *userService) Create(ctx context.Context, login, password, name string) error {
	if !validLogin(login) {
		return apperrors.InvalidCredential(apperrors.FieldLogin, login)
	}
	if !validPassword(password) {
		return apperrors.InvalidCredential(apperrors.FieldPassword, login)
	}
	// cheap pre-check so a duplicate does not pay for bcrypt
	if err := s.store.View(ctx, func(tx *storage.Tx) error {
		if tx.Users.Exists(login) {
			return apperrors.DuplicateUser(login)
		}
		return nil
	}); err != nil {
		return err
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	err = s.store.Update(ctx, func(tx *storage.Tx) error {
		return tx.Users.Create(models.NewUser(login, name, hash, s.now()))
	})
	if err != nil {
		return err
	}
	s.log.Debug().Str("login", login).Msg("user created")
	return nil
}

func (s *userService) Get(ctx context.Context, login string) (*models.User, error) {
	var out *models.User
	err := s.store.View(ctx, func(tx *storage.Tx) error {
		u, err := tx.Users.Get(login)
		if err != nil {
			return err
		}
		out = u.Clone()
		return nil
	})
	return out, err
}

func (s *userService) Attribute(ctx context.Context, login, attribute string) (string, error) {
	var value string
	err := s.store.View(ctx, func(tx *storage.Tx) error {
		u, err := tx.Users.Get(login)
		if err != nil {
			return err
		}
		switch attribute {
		case models.AttrName:
			value = u.Name
		case models.AttrLogin:
			value = u.Login
		case models.AttrPassword:
			// only the hash is stored
			return apperrors.NotFilledAttribute(login, attribute)
		default:
			v, ok := u.Attribute(attribute)
			if !ok {
				return apperrors.NotFilledAttribute(login, attribute)
			}
			value = v
		}
		return nil
	})
	return value, err
}

func (s *userService) EditProfile(ctx context.Context, session, attribute, value string) error {
	switch attribute {
	case models.AttrLogin:
		if !validLogin(value) {
			return apperrors.InvalidCredential(apperrors.FieldLogin, value)
		}
	case models.AttrPassword:
		if !validPassword(value) {
			return apperrors.InvalidCredential(apperrors.FieldPassword, "")
		}
		hash, err := auth.HashPassword(value, s.bcryptCost)
		if err != nil {
			return fmt.Errorf("hash password: %w", err)
		}
		value = hash
	}

	var login string
	err := s.store.Update(ctx, func(tx *storage.Tx) error {
		u, err := actor(tx, session)
		if err != nil {
			return err
		}
		login = u.Login
		switch attribute {
		case models.AttrName:
			u.Name = value
		case models.AttrPassword:
			u.PasswordHash = value
		case models.AttrLogin:
			return renameUser(tx, u, value)
		default:
			u.SetAttribute(attribute, value)
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.log.Debug().Str("login", login).Str("attribute", attribute).Msg("profile edited")
	return nil
}

// renameUser re-keys u and re-points every login reference held by users, communities,
// queued messages and sessions.
func renameUser(tx *storage.Tx, u *models.User, newLogin string) error {
	old := u.Login
	if old == newLogin {
		return nil
	}
	if tx.Users.Exists(newLogin) {
		return apperrors.DuplicateUser(newLogin)
	}

	for _, other := range tx.Users.All() {
		other.RenameReferences(old, newLogin)
	}
	for _, c := range tx.Communities.All() {
		if c.Manager == old {
			c.Manager = newLogin
		}
		c.Members.Replace(old, newLogin)
		c.Messages.RenameParty(old, newLogin)
	}
	tx.Sessions.RekeyLogin(old, newLogin)
	return tx.Users.Rekey(old, newLogin)
}

func (s *userService) Remove(ctx context.Context, session string) error {
	var login string
	err := s.store.Update(ctx, func(tx *storage.Tx) error {
		u, err := actor(tx, session)
		if err != nil {
			return err
		}
		login = u.Login
		removeUser(tx, login)
		return nil
	})
	if err != nil {
		return err
	}
	s.log.Info().Str("login", login).Msg("user removed")
	return nil
}

// removeUser deletes login and cascades: owned communities are deleted, joined ones are
// left, and the login disappears from every relationship list, queue and session.
// It reports false when login does not exist.
func removeUser(tx *storage.Tx, login string) bool {
	if !tx.Users.Exists(login) {
		return false
	}
	for _, c := range tx.Communities.ManagedBy(login) {
		deleteCommunity(tx, c)
	}
	for _, c := range tx.Communities.All() {
		c.Members.Remove(login)
		c.Messages.DropFrom(login)
	}
	for _, other := range tx.Users.All() {
		other.Forget(login)
	}
	tx.Sessions.DeleteByLogin(login)
	return tx.Users.Delete(login)
}
