package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/twilio/twilio-go/client"
	"go.uber.org/zap"
)

const twilioSignatureHeader = "X-Twilio-Signature"

// TwilioSignatureMiddleware rejects webhook calls whose X-Twilio-Signature
// does not match authToken. publicBaseURL is the scheme and host Twilio was
// configured with, since the service usually sits behind a proxy and cannot
// see it. An empty authToken turns the check off.
func TwilioSignatureMiddleware(authToken, publicBaseURL string) gin.HandlerFunc {
	if authToken == "" {
		return func(c *gin.Context) { c.Next() }
	}
	validator := client.NewRequestValidator(authToken)
	base := strings.TrimRight(publicBaseURL, "/")

	return func(c *gin.Context) {
		if err := c.Request.ParseForm(); err != nil {
			c.AbortWithStatus(http.StatusBadRequest)
			return
		}

		params := make(map[string]string, len(c.Request.PostForm))
		for k, v := range c.Request.PostForm {
			if len(v) > 0 {
				params[k] = v[0]
			}
		}

		url := base + c.Request.URL.RequestURI()
		if !validator.Validate(url, params, c.GetHeader(twilioSignatureHeader)) {
			zap.L().Warn("Invalid Twilio signature", zap.String("url", url), zap.String("ip", getClientIP(c)))
			c.AbortWithStatus(http.StatusForbidden)
			return
		}
		c.Next()
	}
}
