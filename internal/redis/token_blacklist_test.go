package redis

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jackut/internal/config"
)

func TestRedisTokenBlacklist(t *testing.T) {
	addr := os.Getenv("JACKUT_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("JACKUT_TEST_REDIS_ADDR not set")
	}
	ctx := context.Background()
	client, err := NewRedisClient(ctx, config.RedisConfig{Addr: addr})
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	bl := NewRedisTokenBlacklist(client)
	jti := uuid.NewString()

	revoked, err := bl.IsBlacklisted(ctx, jti)
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, bl.Add(ctx, jti, time.Now().Add(time.Minute)))
	revoked, err = bl.IsBlacklisted(ctx, jti)
	require.NoError(t, err)
	assert.True(t, revoked)

	expired := uuid.NewString()
	require.NoError(t, bl.Add(ctx, expired, time.Now().Add(-time.Minute)))
	revoked, err = bl.IsBlacklisted(ctx, expired)
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestNewRedisClientFailsFast(t *testing.T) {
	_, err := NewRedisClient(context.Background(), config.RedisConfig{Addr: "127.0.0.1:1"})
	assert.Error(t, err)
}
