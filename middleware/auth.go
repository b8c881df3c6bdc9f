// middleware/auth.go
package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apperrors "github.com/MZain-ul-Abideen/MAS-Explainability/errors"
	logger "github.com/MZain-ul-Abideen/MAS-Explainability/logging"
	"github.com/MZain-ul-Abideen/MAS-Explainability/util"
)

// APIKeyAuth rejects requests whose X-API-Key header does not match the
// configured key. An empty configured key disables the check at wiring time,
// not here.
func APIKeyAuth(apiKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		provided := c.GetHeader("X-API-Key")
		if subtle.ConstantTimeCompare([]byte(provided), []byte(apiKey)) != 1 {
			logger.Warn("Rejected request with invalid API key",
				zap.String("path", c.Request.URL.Path),
				zap.String("ip", c.ClientIP()))
			util.RespondWithError(c, http.StatusUnauthorized, "Invalid or missing API key", apperrors.ErrUnauthorized)
			c.Abort()
			return
		}
		c.Next()
	}
}
