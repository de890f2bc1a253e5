package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jackut/internal/apperrors"
	"jackut/internal/events"
)

func TestDirectMessagesFIFO(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.user(t, "alice", "Alice")
	bob := f.user(t, "bob", "Bob")

	require.NoError(t, f.Messages.Send(ctx, alice, "bob", "first"))
	require.NoError(t, f.Messages.Send(ctx, alice, "bob", "second"))

	for _, want := range []string{"first", "second"} {
		msg, err := f.Messages.Read(ctx, bob)
		require.NoError(t, err)
		assert.Equal(t, want, msg.Body)
		assert.Equal(t, "alice", msg.From)
		assert.NotEmpty(t, msg.ID)
	}

	_, err := f.Messages.Read(ctx, bob)
	require.ErrorIs(t, err, apperrors.ErrNoMessages)
	assert.Equal(t, "Não há recados.", err.Error())

	evs := f.events.Events()
	require.Len(t, evs, 2)
	assert.Equal(t, events.MessageSent, evs[0].Type)
	assert.Equal(t, "first", evs[0].Body)
}

func TestSendMessageRejections(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.user(t, "alice", "Alice")
	bob := f.user(t, "bob", "Bob")

	err := f.Messages.Send(ctx, alice, "alice", "me")
	require.ErrorIs(t, err, apperrors.ErrSelfReference)
	assert.Equal(t, "Usuário não pode enviar recado para si mesmo.", err.Error())

	err = f.Messages.Send(ctx, alice, "nobody", "hi")
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)

	require.NoError(t, f.Relationships.AddEnemy(ctx, bob, "alice"))
	err = f.Messages.Send(ctx, alice, "bob", "hi")
	assert.Equal(t, "Função inválida: Bob é seu inimigo.", err.Error())

	_, err = f.Messages.Read(ctx, bob)
	assert.ErrorIs(t, err, apperrors.ErrNoMessages)
	assert.Empty(t, f.events.Events())
}

func TestCommunityBroadcastIsNotRetroactive(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.user(t, "alice", "Alice")
	bob := f.user(t, "bob", "Bob")
	carol := f.user(t, "carol", "Carol")

	require.NoError(t, f.Communities.Create(ctx, alice, "cats", "about cats"))
	require.NoError(t, f.Communities.Join(ctx, bob, "cats"))
	require.NoError(t, f.Messages.Broadcast(ctx, alice, "cats", "meow"))
	require.NoError(t, f.Communities.Join(ctx, carol, "cats"))

	msg, err := f.Messages.ReadCommunity(ctx, bob)
	require.NoError(t, err)
	assert.Equal(t, "meow", msg.Body)
	assert.Equal(t, "cats", msg.Community)

	_, err = f.Messages.ReadCommunity(ctx, carol)
	require.ErrorIs(t, err, apperrors.ErrNoMessages)
	assert.Equal(t, "Não há mensagens.", err.Error())

	msg, err = f.Messages.ReadCommunity(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, "meow", msg.Body, "the sender receives its own broadcast as a member")

	err = f.Messages.Broadcast(ctx, alice, "dogs", "woof")
	assert.ErrorIs(t, err, apperrors.ErrCommunityNotFound)

	c, err := f.Communities.Get(ctx, "cats")
	require.NoError(t, err)
	assert.Equal(t, 1, c.Messages.Len())
	assert.Len(t, f.events.Events(), 2)
}
