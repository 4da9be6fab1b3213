package storage

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestRedisStorage(t *testing.T) (*RedisStorage, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisStorage(client, zap.NewNop()), mr
}

func TestRedisStorageSave(t *testing.T) {
	ctx := context.Background()
	createdAt := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("Writes both keys with expiry", func(t *testing.T) {
		store, mr := newTestRedisStorage(t)

		err := store.Save(ctx, "abc1234", "https://example.com", time.Hour, createdAt)
		require.NoError(t, err)

		url, err := mr.Get("url:abc1234")
		require.NoError(t, err)
		assert.Equal(t, "https://example.com", url)

		assert.Equal(t, "https://example.com", mr.HGet("meta:abc1234", "url"))
		assert.Equal(t, "0", mr.HGet("meta:abc1234", "clicks"))
		assert.Equal(t, createdAt.Format(time.RFC3339), mr.HGet("meta:abc1234", "created_at"))

		assert.Equal(t, time.Hour, mr.TTL("url:abc1234"), "Value key should carry the TTL")
		assert.Equal(t, time.Hour, mr.TTL("meta:abc1234"), "Meta key should carry the TTL")
	})

	t.Run("Conditional create rejects a taken code", func(t *testing.T) {
		store, mr := newTestRedisStorage(t)

		require.NoError(t, store.Save(ctx, "dup", "https://first.com", time.Hour, createdAt))
		err := store.Save(ctx, "dup", "https://second.com", time.Hour, createdAt)
		assert.ErrorIs(t, err, ErrShortCodeExists)

		// The first mapping is untouched.
		url, err := mr.Get("url:dup")
		require.NoError(t, err)
		assert.Equal(t, "https://first.com", url)
	})

	t.Run("Expired code can be reused", func(t *testing.T) {
		store, mr := newTestRedisStorage(t)

		require.NoError(t, store.Save(ctx, "reuse", "https://first.com", time.Minute, createdAt))
		mr.FastForward(2 * time.Minute)

		err := store.Save(ctx, "reuse", "https://second.com", time.Hour, createdAt)
		assert.NoError(t, err, "Save should succeed once the previous mapping expired")
	})

	t.Run("Unreachable store degrades to failure", func(t *testing.T) {
		store, mr := newTestRedisStorage(t)
		mr.Close()

		err := store.Save(ctx, "down", "https://example.com", time.Hour, createdAt)
		assert.ErrorIs(t, err, ErrStorageUnavailable)
	})
}

func TestRedisStorageGet(t *testing.T) {
	ctx := context.Background()
	createdAt := time.Now().UTC()

	t.Run("Returns URL and increments clicks atomically", func(t *testing.T) {
		store, mr := newTestRedisStorage(t)
		require.NoError(t, store.Save(ctx, "abc1234", "https://example.com", time.Hour, createdAt))

		url, err := store.Get(ctx, "abc1234")
		require.NoError(t, err)
		assert.Equal(t, "https://example.com", url)
		assert.Equal(t, "1", mr.HGet("meta:abc1234", "clicks"), "Exactly one click should have been recorded")

		_, err = store.Get(ctx, "abc1234")
		require.NoError(t, err)
		assert.Equal(t, "2", mr.HGet("meta:abc1234", "clicks"))
	})

	t.Run("Absent code performs no increment", func(t *testing.T) {
		store, mr := newTestRedisStorage(t)

		_, err := store.Get(ctx, "missing")
		assert.ErrorIs(t, err, ErrShortCodeNotFound)
		assert.False(t, mr.Exists("meta:missing"), "No stray metadata should be created for an absent code")
	})

	t.Run("Expired code is absent", func(t *testing.T) {
		store, mr := newTestRedisStorage(t)
		require.NoError(t, store.Save(ctx, "gone", "https://example.com", time.Minute, createdAt))
		mr.FastForward(2 * time.Minute)

		_, err := store.Get(ctx, "gone")
		assert.ErrorIs(t, err, ErrShortCodeNotFound)
	})
}

func TestRedisStorageStats(t *testing.T) {
	ctx := context.Background()
	createdAt := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("Reports metadata and derived expiry", func(t *testing.T) {
		store, _ := newTestRedisStorage(t)
		require.NoError(t, store.Save(ctx, "abc1234", "https://example.com", time.Hour, createdAt))

		for i := 0; i < 3; i++ {
			_, err := store.Get(ctx, "abc1234")
			require.NoError(t, err)
		}

		stats, err := store.Stats(ctx, "abc1234")
		require.NoError(t, err)
		assert.Equal(t, "https://example.com", stats.OriginalURL)
		assert.Equal(t, int64(3), stats.Clicks)
		assert.Equal(t, createdAt, stats.CreatedAt)
		require.NotNil(t, stats.ExpiresAt, "expires_at should be present while the TTL is positive")
		assert.WithinDuration(t, time.Now().Add(time.Hour), *stats.ExpiresAt, 2*time.Second)
	})

	t.Run("Absent code", func(t *testing.T) {
		store, _ := newTestRedisStorage(t)

		_, err := store.Stats(ctx, "missing")
		assert.ErrorIs(t, err, ErrShortCodeNotFound)
	})
}

func TestRedisStorageExists(t *testing.T) {
	ctx := context.Background()
	store, mr := newTestRedisStorage(t)

	assert.False(t, store.Exists(ctx, "abc1234"), "Exists should be false before save")

	require.NoError(t, store.Save(ctx, "abc1234", "https://example.com", time.Hour, time.Now().UTC()))
	assert.True(t, store.Exists(ctx, "abc1234"), "Exists should be true after save")

	require.NoError(t, store.Delete(ctx, "abc1234"))
	assert.False(t, store.Exists(ctx, "abc1234"), "Exists should be false after delete")

	mr.Close()
	assert.False(t, store.Exists(ctx, "abc1234"), "Transport faults should degrade to false")
}

func TestRedisStorageDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("Removes both keys", func(t *testing.T) {
		store, mr := newTestRedisStorage(t)
		require.NoError(t, store.Save(ctx, "abc1234", "https://example.com", time.Hour, time.Now().UTC()))

		require.NoError(t, store.Delete(ctx, "abc1234"))
		assert.False(t, mr.Exists("url:abc1234"))
		assert.False(t, mr.Exists("meta:abc1234"))
	})

	t.Run("Idempotent not-found", func(t *testing.T) {
		store, _ := newTestRedisStorage(t)

		assert.ErrorIs(t, store.Delete(ctx, "never"), ErrShortCodeNotFound)
		assert.ErrorIs(t, store.Delete(ctx, "never"), ErrShortCodeNotFound, "Repeated delete should keep reporting not-found")
	})
}

func TestRedisStorageHealthCheck(t *testing.T) {
	ctx := context.Background()
	store, mr := newTestRedisStorage(t)

	assert.True(t, store.HealthCheck(ctx))

	mr.Close()
	assert.False(t, store.HealthCheck(ctx), "Health check should degrade to unhealthy, not fail")
}
