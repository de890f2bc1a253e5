package jackut

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"jackut/internal/apperrors"
	"jackut/internal/config"
	"jackut/internal/services"
	"jackut/internal/storage"
)

func newFacade(t *testing.T, path string) *Facade {
	t.Helper()
	snapshots, err := storage.NewFileSnapshotStore(path)
	require.NoError(t, err)
	svc := services.NewSet(storage.NewStore(), snapshots, nil, zerolog.Nop(), services.Options{
		Auth: config.AuthConfig{BcryptCost: bcrypt.MinCost, JWTSecretKey: "k", JWTExpiry: time.Minute},
	})
	return New(svc)
}

func login(t *testing.T, f *Facade, user, password string) string {
	t.Helper()
	session, err := f.OpenSession(context.Background(), user, password)
	require.NoError(t, err)
	return session
}

func TestFriendHandshake(t *testing.T) {
	ctx := context.Background()
	f := newFacade(t, filepath.Join(t.TempDir(), "jackut.json"))

	require.NoError(t, f.CreateUser(ctx, "alice", "pw1", "Alice"))
	require.NoError(t, f.CreateUser(ctx, "bob", "pw2", "Bob"))
	alice := login(t, f, "alice", "pw1")
	bob := login(t, f, "bob", "pw2")

	require.NoError(t, f.AddFriend(ctx, alice, "bob"))
	require.NoError(t, f.AddFriend(ctx, bob, "alice"))

	got, err := f.Friends(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "{bob}", got)
	got, err = f.Friends(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, "{alice}", got)

	ok, err := f.IsFriend(ctx, "alice", "bob")
	require.NoError(t, err)
	assert.True(t, ok)

	err = f.AddFriend(ctx, alice, "alice")
	assert.ErrorIs(t, err, apperrors.ErrSelfReference)
}

func TestEnemyBlocksFriendRequest(t *testing.T) {
	ctx := context.Background()
	f := newFacade(t, filepath.Join(t.TempDir(), "jackut.json"))

	require.NoError(t, f.CreateUser(ctx, "carol", "pw", "Carol"))
	require.NoError(t, f.CreateUser(ctx, "dora", "pw", "Dora"))
	carol := login(t, f, "carol", "pw")
	dora := login(t, f, "dora", "pw")

	require.NoError(t, f.AddEnemy(ctx, dora, "carol"))
	err := f.AddFriend(ctx, carol, "dora")
	require.ErrorIs(t, err, apperrors.ErrEnemyBlock)
	assert.Equal(t, "Função inválida: Dora é seu inimigo.", err.Error())
}

func TestCommunityScenario(t *testing.T) {
	ctx := context.Background()
	f := newFacade(t, filepath.Join(t.TempDir(), "jackut.json"))

	for _, u := range []string{"alice", "bob", "carol"} {
		require.NoError(t, f.CreateUser(ctx, u, "pw", u))
	}
	alice := login(t, f, "alice", "pw")
	bob := login(t, f, "bob", "pw")
	carol := login(t, f, "carol", "pw")

	require.NoError(t, f.CreateCommunity(ctx, alice, "cats", "about cats"))
	owner, err := f.CommunityOwner(ctx, "cats")
	require.NoError(t, err)
	assert.Equal(t, "alice", owner)

	require.NoError(t, f.JoinCommunity(ctx, bob, "cats"))
	require.NoError(t, f.SendCommunityMessage(ctx, alice, "cats", "meow"))
	require.NoError(t, f.JoinCommunity(ctx, carol, "cats"))

	msg, err := f.ReadCommunityMessage(ctx, bob)
	require.NoError(t, err)
	assert.Equal(t, "meow", msg)

	_, err = f.ReadCommunityMessage(ctx, carol)
	assert.ErrorIs(t, err, apperrors.ErrNoMessages)

	members, err := f.CommunityMembers(ctx, "cats")
	require.NoError(t, err)
	assert.Equal(t, "{alice,bob,carol}", members)

	desc, err := f.CommunityDescription(ctx, "cats")
	require.NoError(t, err)
	assert.Equal(t, "about cats", desc)

	err = f.LeaveCommunity(ctx, alice, "cats")
	assert.ErrorIs(t, err, apperrors.ErrManagerCannotLeave)
	err = f.JoinCommunity(ctx, bob, "cats")
	assert.ErrorIs(t, err, apperrors.ErrAlreadyMember)
}

func TestPersistenceAcrossFacades(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "jackut.json")

	first := newFacade(t, path)
	require.NoError(t, first.CreateUser(ctx, "alice", "pw", "Alice"))
	require.NoError(t, first.CreateUser(ctx, "bob", "pw", "Bob"))
	alice := login(t, first, "alice", "pw")
	require.NoError(t, first.EditProfile(ctx, alice, "cidade", "Maceió"))
	require.NoError(t, first.AddIdol(ctx, alice, "bob"))
	require.NoError(t, first.SendMessage(ctx, alice, "bob", "oi"))
	require.NoError(t, first.CreateCommunity(ctx, alice, "cats", "about cats"))
	require.NoError(t, first.SaveSystem(ctx))

	second := newFacade(t, path)
	require.NoError(t, second.LoadSystem(ctx))

	city, err := second.UserAttribute(ctx, "alice", "cidade")
	require.NoError(t, err)
	assert.Equal(t, "Maceió", city)

	fans, err := second.Fans(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, "{alice}", fans)

	communities, err := second.Communities(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "{cats}", communities)

	bob := login(t, second, "bob", "pw")
	msg, err := second.ReadMessage(ctx, bob)
	require.NoError(t, err)
	assert.Equal(t, "oi", msg)

	require.NoError(t, second.ResetSystem(ctx))
	third := newFacade(t, path)
	require.NoError(t, third.LoadSystem(ctx))
	_, err = third.UserAttribute(ctx, "alice", "nome")
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}
