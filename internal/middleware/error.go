package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"

	apperrors "stockstalk/internal/errors"
	"stockstalk/internal/logger"
)

// ErrorHandler renders the last error a handler pushed with c.Error, unless
// the handler already wrote a response. The body is {"error": message}.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		last := c.Errors.Last()
		if last == nil || c.Writer.Written() {
			return
		}

		log := logger.Get().With(
			"request_id", c.GetString(requestIDKey),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
		)

		appErr := apperrors.ErrInternalServer
		var target *apperrors.AppError
		switch {
		case errors.As(last.Err, &target):
			appErr = target
			if appErr.Internal != nil {
				log.Errorw("request failed", "code", appErr.Code, "internal", appErr.Internal)
			}
		default:
			log.Errorw("unhandled error", "error", last.Err)
		}
		c.AbortWithStatusJSON(appErr.StatusCode, gin.H{"error": appErr.Message})
	}
}
