package storage

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"go-url-shortener/types"
)

type memoryEntry struct {
	originalURL string
	clicks      int64
	createdAt   time.Time
	expiresAt   time.Time
}

// InMemoryStorage implements the Storage interface using an in-memory map.
// Expiry is enforced lazily: expired entries are treated as absent and
// removed when touched. Intended for tests and single-process deployments
// without a Redis instance.
type InMemoryStorage struct {
	entries map[string]memoryEntry
	mu      sync.RWMutex // guards entries; Get takes the write lock since reading increments clicks
	logger  *zap.Logger
}

// NewInMemoryStorage creates and returns a new InMemoryStorage instance.
func NewInMemoryStorage(logger *zap.Logger) *InMemoryStorage {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InMemoryStorage{
		entries: make(map[string]memoryEntry),
		logger:  logger,
	}
}

func (s *InMemoryStorage) live(shortCode string, now time.Time) (memoryEntry, bool) {
	entry, ok := s.entries[shortCode]
	if !ok {
		return memoryEntry{}, false
	}
	if !now.Before(entry.expiresAt) {
		return memoryEntry{}, false
	}
	return entry, true
}

func (s *InMemoryStorage) Save(ctx context.Context, shortCode, originalURL string, ttl time.Duration, createdAt time.Time) error {
	select {
	case <-ctx.Done():
		s.logger.Warn("Save operation cancelled", zap.String("short_code", shortCode))
		return ErrStorageUnavailable
	default:
		s.mu.Lock()
		defer s.mu.Unlock()

		now := time.Now()
		if _, ok := s.live(shortCode, now); ok {
			s.logger.Warn("Attempt to create duplicate short code", zap.String("short_code", shortCode))
			return ErrShortCodeExists
		}

		createdAt = createdAt.UTC().Truncate(time.Second)
		s.entries[shortCode] = memoryEntry{
			originalURL: originalURL,
			createdAt:   createdAt,
			expiresAt:   now.Add(ttl),
		}
		s.logger.Info("Short code created",
			zap.String("short_code", shortCode),
			zap.String("original_url", originalURL),
			zap.Time("created_at", createdAt))
		return nil
	}
}

func (s *InMemoryStorage) Get(ctx context.Context, shortCode string) (string, error) {
	select {
	case <-ctx.Done():
		s.logger.Warn("Get operation cancelled", zap.String("short_code", shortCode))
		return "", ErrShortCodeNotFound
	default:
		s.mu.Lock()
		defer s.mu.Unlock()

		now := time.Now()
		entry, ok := s.live(shortCode, now)
		if !ok {
			delete(s.entries, shortCode)
			return "", ErrShortCodeNotFound
		}

		entry.clicks++
		s.entries[shortCode] = entry
		return entry.originalURL, nil
	}
}

func (s *InMemoryStorage) Stats(ctx context.Context, shortCode string) (types.URLStats, error) {
	select {
	case <-ctx.Done():
		s.logger.Warn("Stats operation cancelled", zap.String("short_code", shortCode))
		return types.URLStats{}, ErrShortCodeNotFound
	default:
		s.mu.RLock()
		defer s.mu.RUnlock()

		entry, ok := s.live(shortCode, time.Now())
		if !ok {
			return types.URLStats{}, ErrShortCodeNotFound
		}

		expiresAt := entry.expiresAt
		return types.URLStats{
			OriginalURL: entry.originalURL,
			Clicks:      entry.clicks,
			CreatedAt:   entry.createdAt,
			ExpiresAt:   &expiresAt,
		}, nil
	}
}

func (s *InMemoryStorage) Exists(ctx context.Context, shortCode string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.live(shortCode, time.Now())
	return ok
}

func (s *InMemoryStorage) Delete(ctx context.Context, shortCode string) error {
	select {
	case <-ctx.Done():
		s.logger.Warn("Delete operation cancelled", zap.String("short_code", shortCode))
		return ErrShortCodeNotFound
	default:
		s.mu.Lock()
		defer s.mu.Unlock()

		if _, ok := s.live(shortCode, time.Now()); !ok {
			delete(s.entries, shortCode)
			return ErrShortCodeNotFound
		}

		delete(s.entries, shortCode)
		s.logger.Info("Deleted short code", zap.String("short_code", shortCode))
		return nil
	}
}

func (s *InMemoryStorage) HealthCheck(ctx context.Context) bool {
	return true
}

func (s *InMemoryStorage) Close() error {
	return nil
}
