package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/creativityhunt/creahunt/internal/middleware"
	"github.com/creativityhunt/creahunt/internal/pkg/errcode"
	appErr "github.com/creativityhunt/creahunt/internal/pkg/errors"
	"github.com/creativityhunt/creahunt/internal/pkg/response"
)

func getUserID(c *gin.Context) string {
	value, _ := c.Get(middleware.ContextUserIDKey)
	userID, _ := value.(string)
	return userID
}

// handleError converts service errors into envelope failures. Unexpected
// errors are logged with full detail and surfaced as a generic internal
// failure only.
func handleError(c *gin.Context, err error) {
	switch {
	case err == nil:
		return
	case err == appErr.ErrUnauthorized:
		response.Fail(c, errcode.ErrUnauthorized, "unauthorized")
	case err == appErr.ErrInvalid:
		response.FailValidation(c, "invalid request")
	case err == appErr.ErrNotFound:
		response.Fail(c, errcode.ErrNotFound, "not found")
	case err == appErr.ErrConflict:
		response.Fail(c, errcode.ErrConflict, "email already registered")
	case err == appErr.ErrTooMany:
		response.Fail(c, errcode.ErrTooMany, "too many requests")
	case err == appErr.ErrInvalidVerification:
		response.Fail(c, errcode.ErrInvalidVerification, "Invalid or expired verification code")
	case err == appErr.ErrMailUnavailable:
		response.Fail(c, errcode.ErrMailUnavailable, "email service unavailable")
	case err == appErr.ErrMailSendFailed:
		response.Fail(c, errcode.ErrMailSendFailed, "failed to send verification code")
	case err == appErr.ErrInvalidLoginMethod:
		response.Fail(c, errcode.ErrInvalidLoginMethod, "unsupported login method")
	default:
		logutil.GetLogger(c.Request.Context()).Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.String("user_id", getUserID(c)),
			zap.Error(err),
		)
		response.FailInternal(c)
	}
}
