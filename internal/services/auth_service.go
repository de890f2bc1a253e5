package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"jackut/internal/apperrors"
	"jackut/internal/auth"
	"jackut/internal/config"
	"jackut/internal/models"
	"jackut/internal/storage"
)

var ErrStreamTokensDisabled = errors.New("stream token revocation is not configured")

// AuthService defines session and stream token operations.
type AuthService interface {
	// OpenSession verifies the password and returns a new session token.
	OpenSession(ctx context.Context, login, password string) (string, error)
	// CloseSession invalidates session and reports whether it existed.
	CloseSession(ctx context.Context, session string) (bool, error)
	// Resolve returns the login behind session.
	Resolve(ctx context.Context, session string) (string, error)
	// IssueStreamToken returns a short-lived JWT that authenticates the notification socket.
	IssueStreamToken(ctx context.Context, session string) (string, error)
	RevokeStreamToken(ctx context.Context, token string) error
}

type authService struct {
	base
	cfg       config.AuthConfig
	blacklist auth.TokenBlacklist
}

func NewAuthService(b base, cfg config.AuthConfig, blacklist auth.TokenBlacklist) AuthService {
	return &authService{base: b, cfg: cfg, blacklist: blacklist}
}

func (s *authService) OpenSession(ctx context.Context, login, password string) (string, error) {
	var hash string
	err := s.store.View(ctx, func(tx *storage.Tx) error {
		u, err := tx.Users.Get(login)
		if err != nil {
			return apperrors.InvalidCredential("", login)
		}
		hash = u.PasswordHash
		return nil
	})
	if err != nil {
		return "", err
	}
	// bcrypt runs outside the lock
	if !auth.CheckPasswordHash(password, hash) {
		return "", apperrors.InvalidCredential("", login)
	}

	var token string
	err = s.store.Update(ctx, func(tx *storage.Tx) error {
		// the user may have been removed or changed password meanwhile
		u, err := tx.Users.Get(login)
		if err != nil || u.PasswordHash != hash {
			return apperrors.InvalidCredential("", login)
		}
		now := s.now()
		token = sessionToken(tx.Sessions, login, now.UnixMilli())
		tx.Sessions.Put(&models.Session{Token: token, Login: login, CreatedAt: now})
		return nil
	})
	if err != nil {
		return "", err
	}
	s.log.Debug().Str("login", login).Msg("session opened")
	return token, nil
}

// sessionToken builds login_<millis>, bumping millis until the token is unused.
func sessionToken(sessions *storage.SessionRepository, login string, millis int64) string {
	for {
		token := login + "_" + strconv.FormatInt(millis, 10)
		if !sessions.Exists(token) {
			return token
		}
		millis++
	}
}

func (s *authService) CloseSession(ctx context.Context, session string) (bool, error) {
	var existed bool
	err := s.store.Update(ctx, func(tx *storage.Tx) error {
		existed = tx.Sessions.Delete(session)
		return nil
	})
	return existed, err
}

func (s *authService) Resolve(ctx context.Context, session string) (string, error) {
	var login string
	err := s.store.View(ctx, func(tx *storage.Tx) error {
		u, err := actor(tx, session)
		if err != nil {
			return err
		}
		login = u.Login
		return nil
	})
	return login, err
}

func (s *authService) IssueStreamToken(ctx context.Context, session string) (string, error) {
	login, err := s.Resolve(ctx, session)
	if err != nil {
		return "", err
	}
	token, _, err := auth.GenerateToken(login, session, s.cfg, s.now())
	if err != nil {
		return "", err
	}
	return token, nil
}

func (s *authService) RevokeStreamToken(ctx context.Context, token string) error {
	if s.blacklist == nil {
		return ErrStreamTokensDisabled
	}
	claims, err := auth.ValidateToken(ctx, token, s.cfg.JWTSecretKey, s.blacklist)
	if errors.Is(err, auth.ErrTokenRevoked) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("revoke stream token: %w", err)
	}
	return s.blacklist.Add(ctx, claims.ID, claims.ExpiresAt.Time)
}
