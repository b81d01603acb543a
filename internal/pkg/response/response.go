// Package response implements the uniform API envelope. Every response,
// success or failure, ships with a zero/non-zero business code plus fresh
// trace and request identifiers; the HTTP status stays 200 and clients
// branch on the code field.
package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/creativityhunt/creahunt/internal/pkg/errcode"
	"github.com/creativityhunt/creahunt/internal/pkg/timeutil"
)

const ContextRequestIDKey = "request_id"

type Envelope struct {
	Code        int         `json:"code"`
	Message     string      `json:"message"`
	Data        interface{} `json:"data"`
	TraceID     string      `json:"trace_id"`
	RequestID   string      `json:"request_id"`
	RequestTime int64       `json:"request_time"`
}

func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, build(c, 0, "success", data))
}

// Fail is the single canonical failure constructor; both code and message
// are required.
func Fail(c *gin.Context, code int, message string) {
	c.JSON(http.StatusOK, build(c, code, message, nil))
}

func FailInternal(c *gin.Context) {
	Fail(c, errcode.ErrInternal, "internal error")
}

func FailValidation(c *gin.Context, message string) {
	Fail(c, errcode.ErrInvalidParams, message)
}

func build(c *gin.Context, code int, message string, data interface{}) Envelope {
	return Envelope{
		Code:        code,
		Message:     message,
		Data:        data,
		TraceID:     uuid.NewString(),
		RequestID:   requestID(c),
		RequestTime: timeutil.NowUnixMilli(),
	}
}

func requestID(c *gin.Context) string {
	if v, ok := c.Get(ContextRequestIDKey); ok {
		if id, ok := v.(string); ok && id != "" {
			return id
		}
	}
	return uuid.NewString()
}
