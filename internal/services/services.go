package services

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"jackut/internal/apperrors"
	"jackut/internal/auth"
	"jackut/internal/config"
	"jackut/internal/events"
	"jackut/internal/models"
	"jackut/internal/storage"
)

const minLoginLength = 3

// Clock returns the current time. Tests pin it to get deterministic tokens.
type Clock func() time.Time

// Options tune the services built by NewSet.
type Options struct {
	Now       Clock
	Auth      config.AuthConfig
	Blacklist auth.TokenBlacklist // nil disables stream token revocation
}

// Set bundles every service over one store.
type Set struct {
	Users         UserService
	Auth          AuthService
	Friends       FriendshipService
	Relationships RelationshipService
	Messages      MessageService
	Communities   CommunityService
	System        SystemService
}

// NewSet wires all services to store. snapshots may be nil, in which case save and load
// fail and reset only clears memory.
func NewSet(store *storage.Store, snapshots storage.SnapshotStore, publisher events.Publisher, log zerolog.Logger, opts Options) *Set {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	b := base{store: store, publisher: publisher, log: log, now: opts.Now}

	return &Set{
		Users:         NewUserService(b.with("users"), opts.Auth.BcryptCost),
		Auth:          NewAuthService(b.with("auth"), opts.Auth, opts.Blacklist),
		Friends:       NewFriendshipService(b.with("friends")),
		Relationships: NewRelationshipService(b.with("relationships")),
		Messages:      NewMessageService(b.with("messages")),
		Communities:   NewCommunityService(b.with("communities")),
		System:        NewSystemService(b.with("system"), store, snapshots),
	}
}

// base carries what every service shares.
type base struct {
	store     storage.Transactor
	publisher events.Publisher
	log       zerolog.Logger
	now       Clock
}

func (b base) with(service string) base {
	b.log = b.log.With().Str("service", service).Logger()
	return b
}

// publish hands committed events to the publisher. Failures are logged and swallowed:
// the state change already happened and the inbox keeps the message.
func (b base) publish(ctx context.Context, evs ...events.Event) {
	if len(evs) == 0 {
		return
	}
	if err := b.publisher.Publish(ctx, evs...); err != nil {
		b.log.Warn().Err(err).Int("count", len(evs)).Str("type", string(evs[0].Type)).Msg("publishing events failed")
	}
}

// actor resolves session to the user that opened it.
func actor(tx *storage.Tx, session string) (*models.User, error) {
	s, err := tx.Sessions.Get(session)
	if err != nil {
		return nil, err
	}
	u, err := tx.Users.Get(s.Login)
	if err != nil {
		return nil, apperrors.SessionNotFound()
	}
	return u, nil
}

func validLogin(login string) bool {
	return strings.TrimSpace(login) != "" && utf8.RuneCountInString(login) >= minLoginLength
}

func validPassword(password string) bool {
	return strings.TrimSpace(password) != ""
}
