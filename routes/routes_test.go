package routes

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"novacuts/handlers"
)

func newRouter(opts WebhookOptions) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	RegisterRoutes(r, &handlers.HandlerBundle{
		InboundSMSHandler: func(c *gin.Context) { c.String(http.StatusOK, "sms") },
		HealthHandler:     handlers.HealthHandler,
		MetricsHandler:    handlers.MetricsHandler(),
	}, opts)
	return r
}

func TestRegisterRoutes(t *testing.T) {
	r := newRouter(WebhookOptions{MaxRequestsPerMin: 10})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, "ok", w.Body.String())

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "go_goroutines")

	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/sms", strings.NewReader(url.Values{"Body": {"hi"}}.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	r.ServeHTTP(w, req)
	assert.Equal(t, "sms", w.Body.String())
}

func TestRegisterRoutes_SignatureRequired(t *testing.T) {
	r := newRouter(WebhookOptions{TwilioAuthToken: "secret", PublicBaseURL: "https://bookings.example.com"})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/sms", strings.NewReader(url.Values{"Body": {"hi"}}.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}
