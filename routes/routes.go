package routes

import (
	"github.com/gin-gonic/gin"

	"novacuts/handlers"
	"novacuts/middleware"
)

// WebhookOptions configures the protections in front of the SMS webhook.
type WebhookOptions struct {
	TwilioAuthToken   string
	PublicBaseURL     string
	MaxRequestsPerMin int
}

// RegisterSMSRoutes registers the inbound message webhook.
func RegisterSMSRoutes(r *gin.Engine, hb *handlers.HandlerBundle, opts WebhookOptions) {
	sms := r.Group("/sms")
	{
		sms.Use(middleware.TwilioSignatureMiddleware(opts.TwilioAuthToken, opts.PublicBaseURL))
		sms.Use(middleware.RateLimitMiddleware(opts.MaxRequestsPerMin))
		sms.POST("", hb.InboundSMSHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.GET("/health", hb.HealthHandler)
}

// RegisterMetricsRoute exposes Prometheus metrics.
func RegisterMetricsRoute(r *gin.Engine, hb *handlers.HandlerBundle) {
	if hb.MetricsHandler != nil {
		r.GET("/metrics", hb.MetricsHandler)
	}
}

// RegisterRoutes centralizes registration of all endpoints.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle, opts WebhookOptions) {
	RegisterSMSRoutes(r, hb, opts)
	RegisterHealthRoute(r, hb)
	RegisterMetricsRoute(r, hb)
}
