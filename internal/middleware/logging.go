package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"budgettracker/internal/logger"
)

const (
	requestIDKey    = "requestID"
	requestIDHeader = "X-Request-ID"
)

// RequestID returns the id RequestLogging assigned to the request, or "".
func RequestID(c *gin.Context) string {
	return c.GetString(requestIDKey)
}

// RequestLogging tags each request with an id, reusing a well-formed incoming
// X-Request-ID, and logs one line when it completes. 5xx responses log at
// error level and 4xx at warn.
func RequestLogging() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		requestID := c.GetHeader(requestIDHeader)
		if _, err := uuid.Parse(requestID); err != nil {
			requestID = uuid.NewString()
		}
		c.Set(requestIDKey, requestID)
		c.Writer.Header().Set(requestIDHeader, requestID)

		c.Next()

		status := c.Writer.Status()
		fields := []interface{}{
			"request_id", requestID,
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", status,
			"latency_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
		}
		if userID := c.GetString("userID"); userID != "" {
			fields = append(fields, "user_id", userID)
		}

		log := logger.Named("http")
		switch {
		case status >= http.StatusInternalServerError:
			log.Errorw("request", fields...)
		case status >= http.StatusBadRequest:
			log.Warnw("request", fields...)
		default:
			log.Infow("request", fields...)
		}
	}
}
