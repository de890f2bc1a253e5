package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jackut/internal/apperrors"
	"jackut/internal/models"
)

func TestCommunityMembership(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.user(t, "alice", "Alice")
	bob := f.user(t, "bob", "Bob")

	require.NoError(t, f.Communities.Create(ctx, alice, "cats", "about cats"))
	err := f.Communities.Create(ctx, bob, "cats", "other")
	require.ErrorIs(t, err, apperrors.ErrDuplicateCommunity)
	assert.Equal(t, "Comunidade com esse nome já existe.", err.Error())

	c, err := f.Communities.Get(ctx, "cats")
	require.NoError(t, err)
	assert.Equal(t, "alice", c.Manager)
	assert.Equal(t, models.OrderedSet{"alice"}, c.Members)
	assert.Equal(t, "about cats", c.Description)

	err = f.Communities.Join(ctx, alice, "cats")
	require.ErrorIs(t, err, apperrors.ErrAlreadyMember)
	assert.Equal(t, "Usuario já faz parte dessa comunidade.", err.Error())

	err = f.Communities.Leave(ctx, alice, "cats")
	require.ErrorIs(t, err, apperrors.ErrManagerCannotLeave)

	err = f.Communities.Leave(ctx, bob, "cats")
	assert.ErrorIs(t, err, apperrors.ErrNotMember)
	err = f.Communities.Join(ctx, bob, "dogs")
	require.ErrorIs(t, err, apperrors.ErrCommunityNotFound)
	assert.Equal(t, "Comunidade não existe.", err.Error())

	require.NoError(t, f.Communities.Join(ctx, bob, "cats"))
	list, err := f.Communities.OfUser(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, "{cats}", list.String())

	require.NoError(t, f.Communities.Leave(ctx, bob, "cats"))
	list, err = f.Communities.OfUser(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, "{}", list.String())

	_, err = f.Communities.OfUser(ctx, "nobody")
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}

func TestCommunityManagement(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.user(t, "alice", "Alice")
	bob := f.user(t, "bob", "Bob")
	f.user(t, "carol", "Carol")

	require.NoError(t, f.Communities.Create(ctx, alice, "cats", "about cats"))
	require.NoError(t, f.Communities.Join(ctx, bob, "cats"))

	err := f.Communities.Edit(ctx, bob, "cats", "hijacked")
	require.ErrorIs(t, err, apperrors.ErrNotManager)
	require.NoError(t, f.Communities.Edit(ctx, alice, "cats", "all about cats"))

	err = f.Communities.Transfer(ctx, alice, "cats", "carol")
	require.ErrorIs(t, err, apperrors.ErrNotMember, "only members can take over")
	err = f.Communities.Transfer(ctx, alice, "cats", "nobody")
	require.ErrorIs(t, err, apperrors.ErrUserNotFound)
	require.NoError(t, f.Communities.Transfer(ctx, alice, "cats", "bob"))

	require.NoError(t, f.Communities.Leave(ctx, alice, "cats"), "a former manager may leave")
	c, err := f.Communities.Get(ctx, "cats")
	require.NoError(t, err)
	assert.Equal(t, "bob", c.Manager)
	assert.Equal(t, "all about cats", c.Description)
	assert.Equal(t, models.OrderedSet{"bob"}, c.Members)

	err = f.Communities.Delete(ctx, alice, "cats")
	require.ErrorIs(t, err, apperrors.ErrNotManager)
	require.NoError(t, f.Messages.Broadcast(ctx, bob, "cats", "bye"))
	require.NoError(t, f.Communities.Delete(ctx, bob, "cats"))

	_, err = f.Communities.Get(ctx, "cats")
	assert.ErrorIs(t, err, apperrors.ErrCommunityNotFound)
	list, err := f.Communities.OfUser(ctx, "bob")
	require.NoError(t, err)
	assert.Empty(t, list)
	_, err = f.Messages.ReadCommunity(ctx, bob)
	assert.ErrorIs(t, err, apperrors.ErrNoMessages)
}

func TestSearchCommunities(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.user(t, "alice", "Alice")

	require.NoError(t, f.Communities.Create(ctx, alice, "Gatos", "amantes de felinos"))
	require.NoError(t, f.Communities.Create(ctx, alice, "cachorros", "Cães e GATOS convivem"))
	require.NoError(t, f.Communities.Create(ctx, alice, "peixes", ""))

	got, err := f.Communities.Search(ctx, "gato")
	require.NoError(t, err)
	assert.Equal(t, "{Gatos,cachorros}", got.String())

	got, err = f.Communities.Search(ctx, "xyz")
	require.NoError(t, err)
	assert.Equal(t, "{}", got.String())
}
