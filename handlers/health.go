package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HealthHandler answers liveness probes.
func HealthHandler(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}

// MetricsHandler serves the Prometheus default registry.
func MetricsHandler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
