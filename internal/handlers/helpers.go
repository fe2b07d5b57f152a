package handlers

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "stockstalk/internal/errors"
	"stockstalk/internal/logger"
	"stockstalk/internal/validator"
)

// ErrorResponse is the body of every error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// getUserID reads the ID set by middleware.AuthMiddleware.
func getUserID(c *gin.Context) (uint, error) {
	if id, ok := c.Get("userID"); ok {
		if userID, ok := id.(uint); ok && userID != 0 {
			return userID, nil
		}
	}
	return 0, apperrors.ErrUnauthorized
}

// actorID is the audit actor: the caller's ID, or 0 on public routes.
func actorID(c *gin.Context) uint {
	return c.GetUint("userID")
}

func parsePathID(c *gin.Context, param string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(param), 10, 32)
	if err != nil || id == 0 {
		return 0, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid "+param)
	}
	return uint(id), nil
}

// respondWithError writes {"error": message}. Errors other than *AppError
// are logged and hidden behind the generic internal message.
func respondWithError(c *gin.Context, err error) {
	log := logger.Get().With("method", c.Request.Method, "path", c.Request.URL.Path)

	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		log.Errorw("unhandled error", "error", err)
		appErr = apperrors.ErrInternalServer
	} else if appErr.Internal != nil {
		log.Errorw("request failed", "code", appErr.Code, "status", appErr.StatusCode, "internal", appErr.Internal)
	}
	c.JSON(appErr.StatusCode, ErrorResponse{Error: appErr.Message})
}

func bindError(err error) error {
	return apperrors.WithMessage(apperrors.ErrInvalidInput, validator.Describe(err))
}
