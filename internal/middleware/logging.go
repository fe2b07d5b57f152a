package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"stockstalk/internal/logger"
	"stockstalk/internal/requestid"
)

const requestIDKey = "requestID"

// RequestLogging returns a Gin middleware that logs each request with its
// request ID, method, path, status code, latency, and client IP using Zap.
// A valid incoming X-Request-ID is reused.
func RequestLogging() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		id := requestid.FromHeader(c.GetHeader(requestid.Header))
		c.Set(requestIDKey, id)
		c.Writer.Header().Set(requestid.Header, id)

		c.Next()

		fields := []interface{}{
			"request_id", id,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
		}
		if c.Writer.Status() >= 500 {
			logger.Get().Warnw("request", fields...)
			return
		}
		logger.Get().Infow("request", fields...)
	}
}
