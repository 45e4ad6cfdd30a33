package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"

	apperrors "budgettracker/internal/errors"
	"budgettracker/internal/logger"
)

// WriteError renders err as {"error": {"code", "message", "field"}}. An
// *AppError keeps its status and code; anything else is logged and becomes
// INTERNAL_ERROR so details never reach the client.
func WriteError(c *gin.Context, err error) {
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		logger.Get().Errorw("unexpected error",
			"error", err.Error(),
			"path", c.Request.URL.Path,
			"method", c.Request.Method,
			"request_id", RequestID(c),
		)
		appErr = apperrors.ErrInternalServer
	} else if appErr.Internal != nil {
		logger.Get().Errorw("app error",
			"code", appErr.Code,
			"internal", appErr.Internal.Error(),
			"path", c.Request.URL.Path,
			"request_id", RequestID(c),
		)
	}

	body := gin.H{"code": appErr.Code, "message": appErr.Message}
	if appErr.Field != "" {
		body["field"] = appErr.Field
	}
	c.JSON(appErr.StatusCode, gin.H{"error": body})
}

func abortWithError(c *gin.Context, err error) {
	c.Abort()
	WriteError(c, err)
}

// ErrorHandler renders the last error attached with c.Error when no response
// has been written yet. Bind errors become INVALID_INPUT.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		last := c.Errors.Last()
		if last == nil || c.Writer.Written() {
			return
		}

		err := last.Err
		if last.IsType(gin.ErrorTypeBind) {
			err = apperrors.WithMessage(apperrors.ErrInvalidInput, last.Error())
		}
		WriteError(c, err)
	}
}
