// middleware/logger.go
package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	logger "github.com/MZain-ul-Abideen/MAS-Explainability/logging"
)

// RequestLogger logs every HTTP request with latency and outcome.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)

		requestLog := logger.WithContext(
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.String("query", query),
			zap.String("ip", c.ClientIP()),
		)

		if len(c.Errors) > 0 {
			for _, e := range c.Errors.Errors() {
				requestLog.Error("Request error", zap.String("error", e))
			}
			return
		}

		requestLog.Info("Request processed",
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
		)
	}
}
