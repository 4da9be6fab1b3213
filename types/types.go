// Package types defines the data structures used in the URL shortener service.
package types

import "time"

// ShortenRequest represents the request body for creating a short URL.
// CustomCode and TTL are optional; TTL is expressed in seconds and is
// capped at one year.
type ShortenRequest struct {
	URL        string `json:"url" validate:"required,url,max=2048"`
	CustomCode string `json:"custom_code,omitempty" validate:"omitempty,min=4,max=20,shortcode"`
	TTL        int64  `json:"ttl,omitempty" validate:"omitempty,min=1,max=31536000"`
}

// ShortenResponse represents the response body for a created short URL.
type ShortenResponse struct {
	ShortCode   string     `json:"short_code"`
	ShortURL    string     `json:"short_url"`
	OriginalURL string     `json:"original_url"`
	CreatedAt   time.Time  `json:"created_at"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
}

// StatsResponse represents the statistics returned for a short URL.
type StatsResponse struct {
	ShortCode   string     `json:"short_code"`
	OriginalURL string     `json:"original_url"`
	Clicks      int64      `json:"clicks"`
	CreatedAt   time.Time  `json:"created_at"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
}

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status  string  `json:"status"`
	Version string  `json:"version"`
	Redis   string  `json:"redis"`
	Uptime  float64 `json:"uptime"`
}

// URLData represents a stored URL mapping as seen by the service layer.
type URLData struct {
	ShortCode   string
	OriginalURL string
	CreatedAt   time.Time
	ExpiresAt   time.Time
}

// URLStats represents the stored metadata for a short URL. ExpiresAt is
// nil when the value key carries no expiry.
type URLStats struct {
	OriginalURL string
	Clicks      int64
	CreatedAt   time.Time
	ExpiresAt   *time.Time
}
