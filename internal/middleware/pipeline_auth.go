package middleware

import (
	"crypto/subtle"

	"github.com/gin-gonic/gin"

	apperrors "budgettracker/internal/errors"
)

// PipelineAuthMiddleware guards endpoints called by external schedulers. The
// X-API-Key header must equal apiKey; an empty apiKey disables the endpoints.
func PipelineAuthMiddleware(apiKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if apiKey == "" {
			abortWithError(c, apperrors.ErrPipelineNotConfigured)
			return
		}
		if subtle.ConstantTimeCompare([]byte(c.GetHeader("X-API-Key")), []byte(apiKey)) != 1 {
			abortWithError(c, apperrors.ErrInvalidAPIKey)
			return
		}
		c.Next()
	}
}
