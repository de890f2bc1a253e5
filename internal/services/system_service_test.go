package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jackut/internal/apperrors"
	"jackut/internal/models"
	"jackut/internal/storage"
)

func TestSaveResetLoadRoundTrip(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.user(t, "alice", "Alice")
	bob := f.user(t, "bob", "Bob")

	require.NoError(t, f.Users.EditProfile(ctx, alice, "cidade", "Maceió"))
	require.NoError(t, f.Friends.AddFriend(ctx, alice, "bob"))
	require.NoError(t, f.Friends.AddFriend(ctx, bob, "alice"))
	require.NoError(t, f.Relationships.AddIdol(ctx, bob, "alice"))
	require.NoError(t, f.Messages.Send(ctx, alice, "bob", "oi"))
	require.NoError(t, f.Communities.Create(ctx, alice, "cats", "about cats"))
	require.NoError(t, f.Communities.Join(ctx, bob, "cats"))
	require.NoError(t, f.Messages.Broadcast(ctx, alice, "cats", "meow"))

	before, err := f.store.Export(ctx, f.clock.Now())
	require.NoError(t, err)

	require.NoError(t, f.System.Save(ctx))
	require.NoError(t, f.System.Reset(ctx))

	_, err = f.Users.Get(ctx, "alice")
	require.ErrorIs(t, err, apperrors.ErrUserNotFound)

	// reset deleted the snapshot too
	require.NoError(t, f.System.Load(ctx))
	_, err = f.Users.Get(ctx, "alice")
	require.ErrorIs(t, err, apperrors.ErrUserNotFound)

	// save again from the exported state and load it back
	require.NoError(t, f.snapshots.Save(ctx, before))
	require.NoError(t, f.System.Load(ctx))

	after, err := f.store.Export(ctx, f.clock.Now())
	require.NoError(t, err)
	if diff := cmp.Diff(before.Data, after.Data, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("state changed across save/load (-before +after):\n%s", diff)
	}

	_, err = f.Auth.Resolve(ctx, alice)
	assert.ErrorIs(t, err, apperrors.ErrSessionNotFound, "sessions do not survive a load")

	session, err := f.Auth.OpenSession(ctx, "bob", "pw")
	require.NoError(t, err)
	msg, err := f.Messages.Read(ctx, session)
	require.NoError(t, err)
	assert.Equal(t, "oi", msg.Body)
}

func TestSaveThenLoadKeepsEverything(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.user(t, "alice", "Alice")
	require.NoError(t, f.Communities.Create(ctx, alice, "cats", ""))

	require.NoError(t, f.System.Save(ctx))
	require.NoError(t, f.store.Clear(ctx))
	require.NoError(t, f.System.Load(ctx))

	u, err := f.Users.Get(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, models.OrderedSet{"cats"}, u.Communities)
}

type failingSnapshots struct{}

func (failingSnapshots) Load(context.Context) (*storage.Snapshot, error) {
	return nil, errors.New("disk on fire")
}
func (failingSnapshots) Save(context.Context, *storage.Snapshot) error {
	return errors.New("disk full")
}
func (failingSnapshots) Delete(context.Context) error { return errors.New("read-only") }

func TestPersistenceFailures(t *testing.T) {
	set := NewSet(storage.NewStore(), failingSnapshots{}, nil, zerolog.Nop(), Options{})
	ctx := context.Background()

	err := set.System.Save(ctx)
	require.ErrorIs(t, err, apperrors.ErrPersistenceFailure)
	assert.Equal(t, "Falha ao persistir o sistema: disk full", err.Error())

	assert.ErrorIs(t, set.System.Load(ctx), apperrors.ErrPersistenceFailure)
	assert.ErrorIs(t, set.System.Reset(ctx), apperrors.ErrPersistenceFailure)

	noStore := NewSet(storage.NewStore(), nil, nil, zerolog.Nop(), Options{})
	assert.ErrorIs(t, noStore.System.Save(ctx), apperrors.ErrPersistenceFailure)
	assert.NoError(t, noStore.System.Reset(ctx))
}

// gatedSnapshots holds Save until release is closed.
type gatedSnapshots struct {
	storage.SnapshotStore
	entered chan struct{}
	release chan struct{}
}

func (g *gatedSnapshots) Save(ctx context.Context, snap *storage.Snapshot) error {
	close(g.entered)
	<-g.release
	return g.SnapshotStore.Save(ctx, snap)
}

func TestResetWaitsForInFlightSave(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.user(t, "alice", "Alice")

	gated := &gatedSnapshots{SnapshotStore: f.snapshots, entered: make(chan struct{}), release: make(chan struct{})}
	system := NewSystemService(f.System.(*systemService).base, f.store, gated)

	saveDone := make(chan error, 1)
	go func() { saveDone <- system.Save(ctx) }()
	<-gated.entered

	resetDone := make(chan error, 1)
	go func() { resetDone <- system.Reset(ctx) }()

	select {
	case err := <-resetDone:
		t.Fatalf("reset finished while a save was writing: %v", err)
	case <-time.After(50 * time.Millisecond):
	}

	close(gated.release)
	require.NoError(t, <-saveDone)
	require.NoError(t, <-resetDone)

	require.NoError(t, system.Load(ctx))
	_, err := f.Users.Get(ctx, "alice")
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound, "reset must not be undone by an earlier save")
}
