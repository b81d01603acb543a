package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/creativityhunt/creahunt/internal/pkg/response"
)

func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		reqID := c.GetHeader("X-Request-Id")
		if reqID == "" {
			reqID = uuid.NewString()
		}
		c.Writer.Header().Set("X-Request-Id", reqID)
		c.Set(response.ContextRequestIDKey, reqID)
		c.Next()
	}
}
