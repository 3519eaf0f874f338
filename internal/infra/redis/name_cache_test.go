package redis

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClient(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return client, mr
}

func TestNameCache_WritesThroughToRedis(t *testing.T) {
	ctx := context.Background()
	client, mr := newClient(t)
	cache := NewNameCache(client, time.Hour, zerolog.Nop())

	require.NoError(t, cache.Remember(ctx, 42, "Ali"))
	require.NoError(t, cache.Remember(ctx, 42, "Alisher"))

	got, err := mr.Get("quiz:name:42")
	require.NoError(t, err)
	assert.Equal(t, "Alisher", got)
	assert.Equal(t, time.Hour, mr.TTL("quiz:name:42"))
}

func TestNameCache_ReadsFromRedisOnLocalMiss(t *testing.T) {
	ctx := context.Background()
	client, mr := newClient(t)
	require.NoError(t, mr.Set("quiz:name:7", "Olim"))

	cache := NewNameCache(client, 0, zerolog.Nop())

	name, ok := cache.Name(ctx, 7)
	require.True(t, ok)
	assert.Equal(t, "Olim", name)

	// после первого чтения имя берется из локальной копии
	mr.Del("quiz:name:7")
	name, ok = cache.Name(ctx, 7)
	assert.True(t, ok)
	assert.Equal(t, "Olim", name)

	_, ok = cache.Name(ctx, 8)
	assert.False(t, ok)
}

func TestNameCache_RedisDown(t *testing.T) {
	ctx := context.Background()
	client, mr := newClient(t)
	cache := NewNameCache(client, 0, zerolog.Nop())
	mr.Close()

	assert.Error(t, cache.Remember(ctx, 1, "Ali"))
	// локальная копия все равно обновлена
	name, ok := cache.Name(ctx, 1)
	assert.True(t, ok)
	assert.Equal(t, "Ali", name)

	_, ok = cache.Name(ctx, 2)
	assert.False(t, ok)
}
