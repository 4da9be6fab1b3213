package storage

import (
	"context"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"go-url-shortener/config"
	"go-url-shortener/types"
)

// saveScript creates the value key and the metadata hash as one atomic
// unit, refusing to touch either key when the code is already taken. This
// makes code reservation a conditional write instead of check-then-set.
var saveScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 1 then
	return 0
end
redis.call('SET', KEYS[1], ARGV[1], 'EX', ARGV[2])
redis.call('HSET', KEYS[2], 'created_at', ARGV[3], 'clicks', 0, 'url', ARGV[1])
redis.call('EXPIRE', KEYS[2], ARGV[2])
return 1
`)

// getScript reads the URL and increments the click counter in the same
// atomic command. An absent value key leaves the metadata untouched.
var getScript = redis.NewScript(`
local url = redis.call('GET', KEYS[1])
if not url then
	return false
end
redis.call('HINCRBY', KEYS[2], 'clicks', 1)
return url
`)

// RedisStorage implements the Storage interface on top of a Redis client.
// It holds no mutable state beyond the connection pool, so its methods are
// safe for concurrent use without in-process locking.
type RedisStorage struct {
	client *redis.Client
	logger *zap.Logger
}

// NewRedisStorage wraps an existing Redis client.
func NewRedisStorage(client *redis.Client, logger *zap.Logger) *RedisStorage {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisStorage{client: client, logger: logger}
}

// Connect builds a pooled Redis client from the configuration and verifies
// connectivity with a ping.
func Connect(cfg *config.RedisConfig, logger *zap.Logger) (*RedisStorage, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr(),
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), cfg.DialTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, errors.Wrap(err, "redis connect failed")
	}

	logger.Info("Redis connection pool initialized", zap.String("addr", cfg.Addr()), zap.Int("pool_size", cfg.PoolSize))
	return &RedisStorage{client: client, logger: logger}, nil
}

func (s *RedisStorage) Save(ctx context.Context, shortCode, originalURL string, ttl time.Duration, createdAt time.Time) error {
	seconds := int64(ttl.Seconds())
	stamp := createdAt.UTC().Truncate(time.Second).Format(time.RFC3339)

	created, err := saveScript.Run(ctx, s.client,
		[]string{URLKey(shortCode), MetaKey(shortCode)},
		originalURL, seconds, stamp,
	).Int()
	if err != nil {
		s.logger.Error("Failed to save URL mapping", zap.String("short_code", shortCode), zap.Error(err))
		return ErrStorageUnavailable
	}
	if created == 0 {
		return ErrShortCodeExists
	}
	return nil
}

func (s *RedisStorage) Get(ctx context.Context, shortCode string) (string, error) {
	url, err := getScript.Run(ctx, s.client,
		[]string{URLKey(shortCode), MetaKey(shortCode)},
	).Text()
	if err == redis.Nil {
		return "", ErrShortCodeNotFound
	}
	if err != nil {
		s.logger.Error("Failed to get URL mapping", zap.String("short_code", shortCode), zap.Error(err))
		return "", ErrShortCodeNotFound
	}
	return url, nil
}

func (s *RedisStorage) Stats(ctx context.Context, shortCode string) (types.URLStats, error) {
	var (
		metaCmd *redis.MapStringStringCmd
		ttlCmd  *redis.DurationCmd
	)
	_, err := s.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		metaCmd = pipe.HGetAll(ctx, MetaKey(shortCode))
		ttlCmd = pipe.TTL(ctx, URLKey(shortCode))
		return nil
	})
	if err != nil {
		s.logger.Error("Failed to get URL stats", zap.String("short_code", shortCode), zap.Error(err))
		return types.URLStats{}, ErrShortCodeNotFound
	}

	meta := metaCmd.Val()
	if len(meta) == 0 {
		return types.URLStats{}, ErrShortCodeNotFound
	}

	createdAt, err := time.Parse(time.RFC3339, meta["created_at"])
	if err != nil {
		s.logger.Error("Malformed created_at in metadata", zap.String("short_code", shortCode), zap.Error(err))
		return types.URLStats{}, ErrShortCodeNotFound
	}
	clicks, _ := strconv.ParseInt(meta["clicks"], 10, 64)

	stats := types.URLStats{
		OriginalURL: meta["url"],
		Clicks:      clicks,
		CreatedAt:   createdAt,
	}
	if ttl := ttlCmd.Val(); ttl > 0 {
		expiresAt := time.Now().UTC().Truncate(time.Second).Add(ttl)
		stats.ExpiresAt = &expiresAt
	}
	return stats, nil
}

func (s *RedisStorage) Exists(ctx context.Context, shortCode string) bool {
	n, err := s.client.Exists(ctx, URLKey(shortCode)).Result()
	if err != nil {
		s.logger.Error("Failed to check short code existence", zap.String("short_code", shortCode), zap.Error(err))
		return false
	}
	return n > 0
}

func (s *RedisStorage) Delete(ctx context.Context, shortCode string) error {
	// Checked first so an already-absent code reports not-found instead of
	// the unconditional success a bare DEL would give.
	if !s.Exists(ctx, shortCode) {
		return ErrShortCodeNotFound
	}

	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, URLKey(shortCode))
		pipe.Del(ctx, MetaKey(shortCode))
		return nil
	})
	if err != nil {
		s.logger.Error("Failed to delete URL mapping", zap.String("short_code", shortCode), zap.Error(err))
		return ErrShortCodeNotFound
	}
	return nil
}

func (s *RedisStorage) HealthCheck(ctx context.Context) bool {
	if err := s.client.Ping(ctx).Err(); err != nil {
		s.logger.Error("Redis health check failed", zap.Error(err))
		return false
	}
	return true
}

// Close releases the connection pool.
func (s *RedisStorage) Close() error {
	s.logger.Info("Redis connection pool closed")
	return s.client.Close()
}
