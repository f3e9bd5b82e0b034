package sessionsvc

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisStore(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	store := NewRedisStore(client)
	ctx := context.Background()

	revoked, err := store.IsRevoked(ctx, "tok-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, store.Revoke(ctx, "tok-1", time.Now().Add(time.Hour)))
	revoked, err = store.IsRevoked(ctx, "tok-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	// already expired tokens are not stored
	require.NoError(t, store.Revoke(ctx, "tok-2", time.Now().Add(-time.Minute)))
	assert.False(t, mr.Exists("session:revoked:tok-2"))

	mr.FastForward(2 * time.Hour)
	revoked, err = store.IsRevoked(ctx, "tok-1")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestMemoryStore(t *testing.T) {
	now := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)
	store := NewMemoryStore()
	store.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, store.Revoke(ctx, "tok-1", now.Add(time.Hour)))
	require.NoError(t, store.Revoke(ctx, "tok-2", now.Add(-time.Hour)))

	revoked, _ := store.IsRevoked(ctx, "tok-1")
	assert.True(t, revoked)
	revoked, _ = store.IsRevoked(ctx, "tok-2")
	assert.False(t, revoked)

	now = now.Add(2 * time.Hour)
	revoked, _ = store.IsRevoked(ctx, "tok-1")
	assert.False(t, revoked)

	// expired entries are purged on the next revocation
	require.NoError(t, store.Revoke(ctx, "tok-3", now.Add(time.Hour)))
	assert.Len(t, store.revoked, 1)
}
