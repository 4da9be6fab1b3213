// Package handlers provides HTTP request handlers for the URL shortener service.
package handlers

import (
	"context"
	"errors"
	"net/http"
	"regexp"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"go-url-shortener/config"
	"go-url-shortener/ratelimit"
	"go-url-shortener/services"
	"go-url-shortener/storage"
	"go-url-shortener/types"
)

const (
	invalidRequestBody = "Invalid request body"
	invalidInput       = "Invalid URL, custom code, or TTL"
	customCodeTaken    = "Custom code already exists"
	errorCreatingURL   = "Failed to create short URL"
	urlNotFound        = "URL not found"
	errorTimeout       = "Request timed out"
	internalError      = "Internal server error"
)

var shortCodePattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// URLHandlerInterface defines the methods that a URL handler should implement.
type URLHandlerInterface interface {
	CreateShortURL(c *gin.Context)
	GetStats(c *gin.Context)
	DeleteURL(c *gin.Context)
	RedirectURL(c *gin.Context)
	HealthCheck(c *gin.Context)
	RateLimitMiddleware() gin.HandlerFunc
}

// URLHandler struct holds the dependencies for handling URL-related operations.
type URLHandler struct {
	service   services.URLService
	store     storage.Storage
	validate  *validator.Validate
	limiter   *ratelimit.Limiter
	config    *config.Config
	logger    *zap.Logger
	startTime time.Time
}

// NewURLHandler creates and returns a new URLHandler instance. The limiter
// may be nil when rate limiting is disabled.
func NewURLHandler(service services.URLService, store storage.Storage, cfg *config.Config, limiter *ratelimit.Limiter, logger *zap.Logger) (URLHandlerInterface, error) {
	if service == nil {
		return nil, errors.New("service cannot be nil")
	}
	if store == nil {
		return nil, errors.New("store cannot be nil")
	}
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if limiter == nil && !cfg.DisableRateLimit {
		return nil, errors.New("limiter cannot be nil when rate limiting is enabled")
	}

	validate := validator.New()
	if err := validate.RegisterValidation("shortcode", func(fl validator.FieldLevel) bool {
		return shortCodePattern.MatchString(fl.Field().String())
	}); err != nil {
		return nil, err
	}

	return &URLHandler{
		service:   service,
		store:     store,
		validate:  validate,
		limiter:   limiter,
		config:    cfg,
		logger:    logger,
		startTime: time.Now(),
	}, nil
}

// handleError maps service errors onto HTTP status codes.
func (h *URLHandler) handleError(c *gin.Context, err error, notFoundMessage string) {
	switch {
	case errors.Is(err, services.ErrShortCodeExists):
		// A taken custom code is a client error: the request named a code
		// the service cannot grant.
		c.JSON(http.StatusBadRequest, gin.H{"error": customCodeTaken})
	case errors.Is(err, services.ErrShortCodeNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": notFoundMessage})
	case errors.Is(err, context.DeadlineExceeded):
		c.JSON(http.StatusRequestTimeout, gin.H{"error": errorTimeout})
	case errors.Is(err, services.ErrGenerateExhausted), errors.Is(err, services.ErrStorageUnavailable):
		c.JSON(http.StatusInternalServerError, gin.H{"error": errorCreatingURL})
	default:
		h.logger.Error("Unexpected error", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": internalError})
	}
}

// CreateShortURL handles the creation of a new shortened URL.
func (h *URLHandler) CreateShortURL(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.config.RequestTimeout)
	defer cancel()

	var input types.ShortenRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		h.logger.Warn("Error decoding request body", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": invalidRequestBody})
		return
	}

	if err := h.validate.Struct(input); err != nil {
		h.logger.Warn("Invalid input", zap.String("url", input.URL), zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": invalidInput})
		return
	}

	ttl := time.Duration(input.TTL) * time.Second
	if ttl > h.config.MaxTTL {
		h.logger.Warn("Requested TTL exceeds the configured maximum",
			zap.Int64("ttl", input.TTL),
			zap.Duration("max_ttl", h.config.MaxTTL))
		c.JSON(http.StatusBadRequest, gin.H{"error": invalidInput})
		return
	}

	urlData, err := h.service.CreateShortURL(ctx, input.URL, input.CustomCode, ttl)
	if err != nil {
		h.handleError(c, err, urlNotFound)
		return
	}

	urlsCreated.Inc()
	expiresAt := urlData.ExpiresAt
	c.JSON(http.StatusCreated, types.ShortenResponse{
		ShortCode:   urlData.ShortCode,
		ShortURL:    h.config.BaseURL + "/" + urlData.ShortCode,
		OriginalURL: urlData.OriginalURL,
		CreatedAt:   urlData.CreatedAt,
		ExpiresAt:   &expiresAt,
	})
}

// GetStats returns click count, creation time, and expiration time for a
// short code.
func (h *URLHandler) GetStats(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.config.RequestTimeout)
	defer cancel()

	shortCode := c.Param("short_code")

	stats, err := h.service.GetStats(ctx, shortCode)
	if err != nil {
		h.handleError(c, err, urlNotFound)
		return
	}

	c.JSON(http.StatusOK, types.StatsResponse{
		ShortCode:   shortCode,
		OriginalURL: stats.OriginalURL,
		Clicks:      stats.Clicks,
		CreatedAt:   stats.CreatedAt,
		ExpiresAt:   stats.ExpiresAt,
	})
}

// DeleteURL permanently removes a URL mapping and its metadata.
func (h *URLHandler) DeleteURL(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.config.RequestTimeout)
	defer cancel()

	shortCode := c.Param("short_code")

	if err := h.service.DeleteURL(ctx, shortCode); err != nil {
		h.handleError(c, err, urlNotFound)
		return
	}

	c.Status(http.StatusNoContent)
}
