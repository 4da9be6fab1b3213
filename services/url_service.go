// Package services implements the URL shortening orchestration logic.
package services

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"go-url-shortener/storage"
	"go-url-shortener/types"
	"go-url-shortener/urlgen"
)

// Errors surfaced to the handler layer.
var (
	ErrShortCodeExists    = errors.New("short code already exists")
	ErrShortCodeNotFound  = errors.New("short code not found")
	ErrGenerateExhausted  = errors.New("exhausted attempts to generate a unique short code")
	ErrStorageUnavailable = errors.New("storage unavailable")
)

// maxGenerateAttempts bounds the collision-retry loop so a saturated code
// space or a misbehaving store cannot spin it indefinitely.
const maxGenerateAttempts = 5

func handleStorageError(err error) error {
	switch {
	case errors.Is(err, storage.ErrShortCodeExists):
		return ErrShortCodeExists
	case errors.Is(err, storage.ErrShortCodeNotFound):
		return ErrShortCodeNotFound
	case errors.Is(err, storage.ErrStorageUnavailable):
		return ErrStorageUnavailable
	default:
		return err
	}
}

// URLService defines the operations offered to the handler layer.
type URLService interface {
	CreateShortURL(ctx context.Context, originalURL, customCode string, ttl time.Duration) (types.URLData, error)
	ResolveURL(ctx context.Context, shortCode string) (string, error)
	GetStats(ctx context.Context, shortCode string) (types.URLStats, error)
	DeleteURL(ctx context.Context, shortCode string) error
}

type urlService struct {
	store      storage.Storage
	gen        *urlgen.Generator
	defaultTTL time.Duration
	logger     *zap.Logger
}

// NewURLService creates a URLService backed by the given storage and code
// generator. A non-positive request TTL falls back to defaultTTL.
func NewURLService(store storage.Storage, gen *urlgen.Generator, defaultTTL time.Duration, logger *zap.Logger) URLService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &urlService{
		store:      store,
		gen:        gen,
		defaultTTL: defaultTTL,
		logger:     logger,
	}
}

// CreateShortURL stores a new mapping under the custom code, or under a
// generated code derived from the URL and the operation timestamp. The
// timestamp is captured once and doubles as the stored created_at.
func (s *urlService) CreateShortURL(ctx context.Context, originalURL, customCode string, ttl time.Duration) (types.URLData, error) {
	if ttl <= 0 {
		ttl = s.defaultTTL
	}
	createdAt := time.Now().UTC().Truncate(time.Second)

	var shortCode string
	if customCode != "" {
		if s.store.Exists(ctx, customCode) {
			return types.URLData{}, ErrShortCodeExists
		}
		// Save is conditional at the storage layer, so a concurrent
		// request that claimed the code between the existence check and
		// the write surfaces as ErrShortCodeExists instead of silently
		// overwriting.
		if err := s.store.Save(ctx, customCode, originalURL, ttl, createdAt); err != nil {
			return types.URLData{}, handleStorageError(err)
		}
		shortCode = customCode
	} else {
		for attempt := 0; attempt < maxGenerateAttempts; attempt++ {
			candidate, err := s.gen.Generate(originalURL, createdAt.Unix()+int64(attempt))
			if err != nil {
				return types.URLData{}, err
			}
			if s.store.Exists(ctx, candidate) {
				s.logger.Warn("Generated short code collided, retrying",
					zap.String("short_code", candidate),
					zap.Int("attempt", attempt+1))
				continue
			}
			err = s.store.Save(ctx, candidate, originalURL, ttl, createdAt)
			if errors.Is(err, storage.ErrShortCodeExists) {
				// Lost the conditional save to a concurrent request; the
				// next disambiguator yields a fresh candidate.
				s.logger.Warn("Generated short code raced, retrying",
					zap.String("short_code", candidate),
					zap.Int("attempt", attempt+1))
				continue
			}
			if err != nil {
				return types.URLData{}, handleStorageError(err)
			}
			shortCode = candidate
			break
		}
		if shortCode == "" {
			s.logger.Error("Short code generation exhausted", zap.String("original_url", originalURL))
			return types.URLData{}, ErrGenerateExhausted
		}
	}

	return types.URLData{
		ShortCode:   shortCode,
		OriginalURL: originalURL,
		CreatedAt:   createdAt,
		ExpiresAt:   createdAt.Add(ttl),
	}, nil
}

// ResolveURL returns the original URL for a short code. Resolving is
// mutating: the click counter is incremented as part of the same atomic
// storage read.
func (s *urlService) ResolveURL(ctx context.Context, shortCode string) (string, error) {
	url, err := s.store.Get(ctx, shortCode)
	if err != nil {
		return "", handleStorageError(err)
	}
	return url, nil
}

// GetStats returns the click count and lifecycle metadata for a short code.
func (s *urlService) GetStats(ctx context.Context, shortCode string) (types.URLStats, error) {
	stats, err := s.store.Stats(ctx, shortCode)
	if err != nil {
		return types.URLStats{}, handleStorageError(err)
	}
	return stats, nil
}

// DeleteURL removes a short code and its metadata.
func (s *urlService) DeleteURL(ctx context.Context, shortCode string) error {
	if err := s.store.Delete(ctx, shortCode); err != nil {
		return handleStorageError(err)
	}
	return nil
}
