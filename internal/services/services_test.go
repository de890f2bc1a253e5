package services

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"jackut/internal/config"
	"jackut/internal/events"
	"jackut/internal/storage"
)

type fixture struct {
	*Set
	store     *storage.Store
	snapshots *storage.FileSnapshotStore
	events    *events.Recorder
	clock     *stepClock
}

// stepClock advances one millisecond per call so session tokens stay distinct.
type stepClock struct {
	mu   sync.Mutex
	now  time.Time
	step time.Duration
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.now
	c.now = c.now.Add(c.step)
	return t
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	snapshots, err := storage.NewFileSnapshotStore(filepath.Join(t.TempDir(), "jackut.json"))
	require.NoError(t, err)

	f := &fixture{
		store:     storage.NewStore(),
		snapshots: snapshots,
		events:    &events.Recorder{},
		clock:     &stepClock{now: time.Now().Truncate(time.Millisecond), step: time.Millisecond},
	}
	f.Set = NewSet(f.store, snapshots, f.events, zerolog.Nop(), Options{
		Now:  f.clock.Now,
		Auth: config.AuthConfig{JWTSecretKey: "test-secret", JWTExpiry: time.Minute, BcryptCost: bcrypt.MinCost},
	})
	return f
}

// user creates login with password "pw" and display name name, and opens a session.
func (f *fixture) user(t *testing.T, login, name string) string {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, f.Users.Create(ctx, login, "pw", name))
	session, err := f.Auth.OpenSession(ctx, login, "pw")
	require.NoError(t, err)
	return session
}
