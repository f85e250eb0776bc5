package handlers

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"roomm8/utils"
)

// getLogger retrieves a Zap logger from the Gin context or falls back to the global one.
func getLogger(c *gin.Context) *zap.Logger {
	if l, exists := c.Get("logger"); exists {
		if logger, ok := l.(*zap.Logger); ok {
			return logger
		}
	}
	logger := utils.GetLogger()
	if id := c.GetString(utils.ContextSessionID); id != "" {
		logger = logger.With(zap.String("sessionId", id))
	}
	return logger
}
