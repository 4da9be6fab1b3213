package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	urlsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "urls_created_total",
		Help: "Total number of short URLs created.",
	})
	redirectsServed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "redirects_total",
		Help: "Total number of redirects served.",
	})
	redirectsNotFound = promauto.NewCounter(prometheus.CounterOpts{
		Name: "redirects_not_found_total",
		Help: "Total number of redirect requests for unknown short codes.",
	})
)

// MetricsHandler exposes the Prometheus registry.
func MetricsHandler() gin.HandlerFunc {
	handler := promhttp.Handler()
	return func(c *gin.Context) {
		handler.ServeHTTP(c.Writer, c.Request)
	}
}
