package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndexKey(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "pagecache:index:1", IndexKey(1))
	assert.Equal(t, "pagecache:index:42", IndexKey(42))
}

func TestMemoryBackendTTL(t *testing.T) {
	t.Parallel()

	current := time.Now()
	pc := NewPageCache(nil, 20*time.Second).WithClock(func() time.Time { return current })
	ctx := context.Background()

	_, ok := pc.Get(ctx, IndexKey(1))
	require.False(t, ok, "empty cache must miss")

	pc.Set(ctx, IndexKey(1), "<html>page one</html>")

	body, ok := pc.Get(ctx, IndexKey(1))
	require.True(t, ok)
	assert.Equal(t, "<html>page one</html>", body)

	// one second before expiry: still fresh
	current = current.Add(19 * time.Second)
	_, ok = pc.Get(ctx, IndexKey(1))
	require.True(t, ok)

	// past the TTL: gone
	current = current.Add(2 * time.Second)
	_, ok = pc.Get(ctx, IndexKey(1))
	require.False(t, ok)
}

func TestMemoryBackendFlush(t *testing.T) {
	t.Parallel()

	pc := NewPageCache(nil, time.Minute)
	ctx := context.Background()

	pc.Set(ctx, IndexKey(1), "one")
	pc.Set(ctx, IndexKey(2), "two")
	pc.Flush(ctx)

	_, ok := pc.Get(ctx, IndexKey(1))
	assert.False(t, ok)
	_, ok = pc.Get(ctx, IndexKey(2))
	assert.False(t, ok)
}

func TestRedisBackendTTL(t *testing.T) {
	t.Parallel()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	pc := NewPageCache(client, 20*time.Second)
	ctx := context.Background()

	pc.Set(ctx, IndexKey(1), "<html>cached</html>")

	body, ok := pc.Get(ctx, IndexKey(1))
	require.True(t, ok)
	assert.Equal(t, "<html>cached</html>", body)

	mr.FastForward(21 * time.Second)

	_, ok = pc.Get(ctx, IndexKey(1))
	require.False(t, ok, "entry must expire after the TTL")
}

func TestRedisBackendFlush(t *testing.T) {
	t.Parallel()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	pc := NewPageCache(client, time.Minute)
	ctx := context.Background()

	pc.Set(ctx, IndexKey(1), "one")
	pc.Set(ctx, IndexKey(2), "two")

	// unrelated keys survive the flush
	require.NoError(t, client.Set(ctx, "session:abc", "keep", 0).Err())

	pc.Flush(ctx)

	_, ok := pc.Get(ctx, IndexKey(1))
	assert.False(t, ok)
	_, ok = pc.Get(ctx, IndexKey(2))
	assert.False(t, ok)

	keep, err := client.Get(ctx, "session:abc").Result()
	require.NoError(t, err)
	assert.Equal(t, "keep", keep)
}

func TestZeroTTLFallsBackToDefault(t *testing.T) {
	t.Parallel()

	pc := NewPageCache(nil, 0)
	assert.Equal(t, DefaultIndexTTL, pc.TTL())
}
