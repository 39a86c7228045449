package handlers

import "github.com/gin-gonic/gin"

// HandlerBundle groups the endpoint handlers routes are registered with.
type HandlerBundle struct {
	InboundSMSHandler gin.HandlerFunc
	HealthHandler     gin.HandlerFunc
	MetricsHandler    gin.HandlerFunc
}
