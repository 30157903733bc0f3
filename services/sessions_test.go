package services

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSessionStore(t *testing.T, store SessionStore) {
	ctx := context.Background()

	sid, err := store.Create(ctx, 42)
	require.NoError(t, err)
	require.NotEmpty(t, sid)

	userID, err := store.Lookup(ctx, sid)
	require.NoError(t, err)
	assert.EqualValues(t, 42, userID)

	require.NoError(t, store.Delete(ctx, sid))
	_, err = store.Lookup(ctx, sid)
	assert.True(t, IsSessionMissing(err))

	_, err = store.Lookup(ctx, "unknown")
	assert.True(t, IsSessionMissing(err))
}

func TestRedisSessionStore(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	testSessionStore(t, NewRedisSessionStore(client))
}

func TestRedisSessionExpires(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()
	store := NewRedisSessionStore(client)

	sid, err := store.Create(context.Background(), 7)
	require.NoError(t, err)
	mr.FastForward(SessionTTL + time.Second)
	_, err = store.Lookup(context.Background(), sid)
	assert.True(t, IsSessionMissing(err))
}

func TestMemorySessionStore(t *testing.T) {
	testSessionStore(t, NewMemorySessionStore())
}
