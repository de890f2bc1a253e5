package storage

import (
	"context"
	"sync"
	"time"

	"jackut/internal/models"
)

// Transactor runs functions against the store under its lock.
type Transactor interface {
	View(ctx context.Context, fn func(tx *Tx) error) error
	Update(ctx context.Context, fn func(tx *Tx) error) error
}

// Store owns every piece of Jackut state behind a single lock. Readers share the lock,
// writers hold it exclusively, so an Update is atomic for all observers.
type Store struct {
	mu          sync.RWMutex
	users       map[string]*models.User
	communities map[string]*models.Community
	sessions    map[string]*models.Session
}

// NewStore returns an empty store.
func NewStore() *Store {
	s := &Store{}
	s.reset()
	return s
}

// Tx exposes the repositories while the store lock is held. It must not be retained
// after the callback returns, and pointers it hands out must be cloned before escaping.
type Tx struct {
	Users       *UserRepository
	Communities *CommunityRepository
	Sessions    *SessionRepository
}

func (s *Store) tx() *Tx {
	return &Tx{
		Users:       &UserRepository{users: s.users},
		Communities: &CommunityRepository{communities: s.communities},
		Sessions:    &SessionRepository{sessions: s.sessions},
	}
}

// View runs fn under the read lock.
func (s *Store) View(ctx context.Context, fn func(tx *Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(s.tx())
}

// Update runs fn under the write lock. fn must validate before it mutates: a returned
// error does not roll anything back.
func (s *Store) Update(ctx context.Context, fn func(tx *Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.tx())
}

// Clear drops all users, communities and sessions.
func (s *Store) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reset()
	return nil
}

// Export copies users and communities into a snapshot. Sessions are not part of it.
func (s *Store) Export(ctx context.Context, now time.Time) (*Snapshot, error) {
	snap := &Snapshot{Version: SnapshotVersion, SavedAt: now.UTC()}
	err := s.View(ctx, func(tx *Tx) error {
		for _, u := range tx.Users.All() {
			snap.Data.Users = append(snap.Data.Users, u.Clone())
		}
		for _, c := range tx.Communities.All() {
			snap.Data.Communities = append(snap.Data.Communities, c.Clone())
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return snap, nil
}

// Import replaces the whole state with the snapshot contents and drops every session.
func (s *Store) Import(ctx context.Context, snap *Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	users := make(map[string]*models.User, len(snap.Data.Users))
	for _, u := range snap.Data.Users {
		users[u.Login] = u.Clone()
	}
	communities := make(map[string]*models.Community, len(snap.Data.Communities))
	for _, c := range snap.Data.Communities {
		communities[c.Name] = c.Clone()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.users = users
	s.communities = communities
	s.sessions = map[string]*models.Session{}
	return nil
}

func (s *Store) reset() {
	s.users = map[string]*models.User{}
	s.communities = map[string]*models.Community{}
	s.sessions = map[string]*models.Session{}
}
