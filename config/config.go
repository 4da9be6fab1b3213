// Package config provides configuration settings for the URL shortener service.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Storage backend selectors.
const (
	StorageRedis  = "redis"
	StorageMemory = "memory"
)

// Config holds the configuration settings for the application.
type Config struct {
	AppName    string `yaml:"app_name"`
	AppVersion string `yaml:"app_version"`
	ServerPort int    `yaml:"server_port"`

	// BaseURL is the externally visible prefix used to build short URLs.
	BaseURL string `yaml:"base_url"`

	RequestTimeout  time.Duration `yaml:"request_timeout"`
	ShortCodeLength int           `yaml:"short_code_length"`

	// DefaultTTL is applied to new mappings when the request omits a TTL.
	// MaxTTL caps client-supplied values at one year.
	DefaultTTL time.Duration `yaml:"default_ttl"`
	MaxTTL     time.Duration `yaml:"max_ttl"`

	Storage string      `yaml:"storage"`
	Redis   RedisConfig `yaml:"redis"`

	RateLimit        RateLimitConfig `yaml:"rate_limit"`
	DisableRateLimit bool            `yaml:"disable_rate_limit"`
}

// RedisConfig holds the connection settings for the Redis backend.
type RedisConfig struct {
	Host         string        `yaml:"host"`
	Port         int           `yaml:"port"`
	Password     string        `yaml:"password"`
	DB           int           `yaml:"db"`
	PoolSize     int           `yaml:"pool_size"`
	DialTimeout  time.Duration `yaml:"dial_timeout"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// Addr returns the host:port pair for the Redis client.
func (r *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// RateLimitConfig holds the sliding-window rate limiter settings.
type RateLimitConfig struct {
	Requests        int           `yaml:"requests"`
	Window          time.Duration `yaml:"window"`
	CleanupInterval time.Duration `yaml:"cleanup_interval"`
}

// DefaultConfig returns the default configuration settings.
func DefaultConfig() *Config {
	return &Config{
		AppName:         "url-shortener",
		AppVersion:      "1.0.0",
		ServerPort:      8000,
		BaseURL:         "http://localhost:8000",
		RequestTimeout:  5 * time.Second,
		ShortCodeLength: 7,
		DefaultTTL:      30 * 24 * time.Hour,
		MaxTTL:          365 * 24 * time.Hour,
		Storage:         StorageRedis,
		Redis: RedisConfig{
			Host:         "localhost",
			Port:         6379,
			DB:           0,
			PoolSize:     50,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		},
		RateLimit: RateLimitConfig{
			Requests:        100,
			Window:          time.Minute,
			CleanupInterval: 5 * time.Minute,
		},
		DisableRateLimit: false,
	}
}

// Load reads the configuration from a YAML file, overlaying it on top of
// the defaults. Fields absent from the file keep their default values.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open config file failed")
	}
	defer f.Close()

	cfg := DefaultConfig()
	if err := yaml.NewDecoder(f).Decode(cfg); err != nil {
		return nil, errors.Wrap(err, "decode config file failed")
	}
	return cfg, nil
}
