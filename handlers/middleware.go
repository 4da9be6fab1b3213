// Package handlers provides HTTP request handlers for the URL shortener service.
package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// rateLimitExemptPaths lists endpoints that must neither count against nor
// be blocked by any client's window.
var rateLimitExemptPaths = map[string]bool{
	"/health":  true,
	"/metrics": true,
}

// CORSMiddleware adds CORS headers to the response.
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS, DELETE")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type, Content-Length, Accept-Encoding")
		c.Writer.Header().Set("X-Content-Type-Options", "nosniff")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusOK)
			return
		}

		c.Next()
	}
}

// RateLimitMiddleware applies per-IP sliding-window rate limiting. Rejected
// requests receive a 429 with a Retry-After hint; admitted requests carry
// the remaining-quota headers.
func (h *URLHandler) RateLimitMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if rateLimitExemptPaths[c.Request.URL.Path] {
			c.Next()
			return
		}

		result := h.limiter.Allow(c.ClientIP(), time.Now())
		if !result.Allowed {
			c.Header("Retry-After", strconv.Itoa(int(result.RetryAfter.Seconds())))
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "Rate limit exceeded. Please try again later."})
			c.Abort()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(result.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(result.Reset.Unix(), 10))
		c.Next()
	}
}
