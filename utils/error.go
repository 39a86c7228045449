package utils

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorHandler recovers from panics and answers with a single TwiML apology.
func ErrorHandler(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				logger.Error("Unhandled panic",
					zap.Any("error", err),
					zap.String("path", c.Request.URL.Path),
					zap.String("requestID", c.GetString(RequestIDKey)),
				)

				c.Data(http.StatusOK, XMLContentType,
					[]byte(MustRenderMessage(fmt.Sprintf("Sorry, I hit a snag: %v", err))))
				c.Abort()
			}
		}()
		c.Next()
	}
}
