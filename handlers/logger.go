package handlers

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"novacuts/utils"
)

// getLogger retrieves the request-scoped Zap logger from the Gin context, or
// the global one when the request logger middleware is not installed.
func getLogger(c *gin.Context) *zap.Logger {
	if l, exists := c.Get(utils.LoggerKey); exists {
		if logger, ok := l.(*zap.Logger); ok {
			return logger
		}
	}
	return zap.L()
}
