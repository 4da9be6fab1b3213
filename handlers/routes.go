// Package handlers provides HTTP request handlers for the URL shortener service.
package handlers

import (
	"github.com/gin-gonic/gin"

	"go-url-shortener/config"
)

// RegisterRoutes sets up all the routes for the URL shortener service and
// applies the CORS and rate-limit middleware. The health and metrics
// endpoints bypass the limiter via its path exemptions.
func RegisterRoutes(r *gin.Engine, handler URLHandlerInterface, cfg *config.Config) {
	r.Use(CORSMiddleware())
	if !cfg.DisableRateLimit {
		r.Use(handler.RateLimitMiddleware())
	}

	v1 := r.Group("/api/v1")
	{
		v1.POST("/shorten", handler.CreateShortURL)
		v1.GET("/stats/:short_code", handler.GetStats)
		v1.DELETE("/urls/:short_code", handler.DeleteURL)
	}

	r.GET("/health", handler.HealthCheck)
	r.GET("/metrics", MetricsHandler())

	// User-facing redirect route, kept outside /api/v1.
	r.GET("/:short_code", handler.RedirectURL)
}
