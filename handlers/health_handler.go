// Package handlers provides HTTP request handlers for the URL shortener service.
package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"go-url-shortener/types"
)

// HealthCheck reports service and store health for load balancers and
// orchestrators. The service degrades rather than fails when the store is
// unreachable.
func (h *URLHandler) HealthCheck(c *gin.Context) {
	redisStatus := "healthy"
	status := "healthy"
	if !h.store.HealthCheck(c.Request.Context()) {
		redisStatus = "unhealthy"
		status = "degraded"
	}

	c.JSON(http.StatusOK, types.HealthResponse{
		Status:  status,
		Version: h.config.AppVersion,
		Redis:   redisStatus,
		Uptime:  time.Since(h.startTime).Seconds(),
	})
}
