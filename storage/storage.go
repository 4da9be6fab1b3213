// Package storage provides interfaces and common errors for URL storage operations.
package storage

import (
	"context"
	"errors"
	"time"

	"go-url-shortener/types"
)

// Common errors returned by storage operations.
var (
	ErrShortCodeExists    = errors.New("short code already exists")
	ErrShortCodeNotFound  = errors.New("short code not found")
	ErrStorageUnavailable = errors.New("storage unavailable")
)

// Key prefixes for the persisted layout. The value key holds the raw URL,
// the meta key holds a hash of {created_at, clicks, url}; both expire
// together.
const (
	urlKeyPrefix  = "url:"
	metaKeyPrefix = "meta:"
)

// URLKey returns the value key for a short code.
func URLKey(shortCode string) string { return urlKeyPrefix + shortCode }

// MetaKey returns the metadata key for a short code.
func MetaKey(shortCode string) string { return metaKeyPrefix + shortCode }

// Storage defines the operations for persisting URL mappings. Transport
// faults never escape an implementation: they are logged and degraded to
// the sentinel errors above so callers can apply uniform error semantics.
type Storage interface {
	// Save writes the URL value and its metadata as one atomic unit with
	// the given expiry. It fails with ErrShortCodeExists when a live
	// mapping already holds the code.
	Save(ctx context.Context, shortCode, originalURL string, ttl time.Duration, createdAt time.Time) error

	// Get returns the original URL and increments the click counter in the
	// same atomic round trip. An absent code performs no increment.
	Get(ctx context.Context, shortCode string) (string, error)

	// Stats returns the stored metadata together with the derived expiry.
	Stats(ctx context.Context, shortCode string) (types.URLStats, error)

	// Exists checks the value key only. Transport faults degrade to false.
	Exists(ctx context.Context, shortCode string) bool

	// Delete removes the value and metadata keys, reporting
	// ErrShortCodeNotFound when the value key was already absent.
	Delete(ctx context.Context, shortCode string) error

	// HealthCheck reports whether the backing store is reachable.
	HealthCheck(ctx context.Context) bool

	Close() error
}
