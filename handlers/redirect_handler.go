// Package handlers provides HTTP request handlers for the URL shortener service.
package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"go-url-shortener/services"
)

const (
	invalidShortCode   = "Invalid short code"
	invalidRedirectURL = "Invalid redirect URL"
	errorResolvingURL  = "Error resolving URL"
)

// Short code lengths accepted on the redirect path.
const (
	minShortCodeLength = 4
	maxShortCodeLength = 20
)

// RedirectURL handles the redirection from a short code to its original
// URL. Serving the redirect increments the click counter as part of the
// same atomic storage read.
func (h *URLHandler) RedirectURL(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.config.RequestTimeout)
	defer cancel()

	shortCode := c.Param("short_code")
	if len(shortCode) < minShortCodeLength || len(shortCode) > maxShortCodeLength {
		c.JSON(http.StatusBadRequest, gin.H{"error": invalidShortCode})
		return
	}

	originalURL, err := h.service.ResolveURL(ctx, shortCode)
	if err != nil {
		h.handleRedirectError(c, err, shortCode)
		return
	}

	// Validate the stored URL to prevent open redirects.
	if err := h.validate.Var(originalURL, "url"); err != nil {
		h.logger.Warn("Invalid original URL",
			zap.String("short_code", shortCode),
			zap.String("original_url", originalURL))
		c.JSON(http.StatusBadRequest, gin.H{"error": invalidRedirectURL})
		return
	}

	redirectsServed.Inc()
	h.logger.Info("Redirecting",
		zap.String("short_code", shortCode),
		zap.String("original_url", originalURL),
		zap.String("ip", c.ClientIP()))
	c.Redirect(http.StatusMovedPermanently, originalURL)
}

func (h *URLHandler) handleRedirectError(c *gin.Context, err error, shortCode string) {
	switch {
	case errors.Is(err, services.ErrShortCodeNotFound):
		redirectsNotFound.Inc()
		h.logger.Info("Short code not found", zap.String("short_code", shortCode))
		c.JSON(http.StatusNotFound, gin.H{"error": urlNotFound})
	case errors.Is(err, context.DeadlineExceeded):
		h.logger.Warn("Request timed out", zap.String("short_code", shortCode))
		c.JSON(http.StatusRequestTimeout, gin.H{"error": errorTimeout})
	default:
		h.logger.Error("Error resolving URL", zap.String("short_code", shortCode), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": errorResolvingURL})
	}
}
