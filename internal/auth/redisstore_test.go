package auth

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newRedisStore spins up a miniredis instance and a store on top of it.
func newRedisStore(t *testing.T, ttl time.Duration) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewRedisStore(client, UUIDGenerator{}, ttl), mr
}

func TestRedisStoreLifecycle(t *testing.T) {
	ctx := context.Background()
	store, _ := newRedisStore(t, 0)

	id, err := store.Create(ctx, "u1")
	require.NoError(t, err)
	require.NotEmpty(t, id)

	userID, err := store.UserID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "u1", userID)

	userID, err = store.UserID(ctx, "no-such-session")
	require.NoError(t, err)
	assert.Empty(t, userID)

	// New login replaces the previous session.
	second, err := store.Create(ctx, "u1")
	require.NoError(t, err)

	userID, err = store.UserID(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, userID, "overwritten session must stop resolving")

	userID, err = store.UserID(ctx, second)
	require.NoError(t, err)
	assert.Equal(t, "u1", userID)

	// Destroy is idempotent.
	require.NoError(t, store.Destroy(ctx, "u1"))
	require.NoError(t, store.Destroy(ctx, "u1"))

	userID, err = store.UserID(ctx, second)
	require.NoError(t, err)
	assert.Empty(t, userID)
}

func TestRedisStoreTTL(t *testing.T) {
	ctx := context.Background()
	store, mr := newRedisStore(t, 5*time.Second)

	id, err := store.Create(ctx, "u1")
	require.NoError(t, err)

	mr.FastForward(4 * time.Second)
	userID, err := store.UserID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "u1", userID)

	mr.FastForward(2 * time.Second)
	userID, err = store.UserID(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, userID, "session past its TTL must not resolve")
}
