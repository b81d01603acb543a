package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/creativityhunt/creahunt/internal/pkg/errcode"
	"github.com/creativityhunt/creahunt/internal/pkg/response"
	"github.com/creativityhunt/creahunt/internal/pkg/token"
)

const (
	ContextUserIDKey    = "user_id"
	ContextUserEmailKey = "user_email"
)

// SessionAuth authenticates requests via the Bearer session token. A missing
// header, a malformed header and a bad token all fail the same way.
func SessionAuth(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.Fail(c, errcode.ErrUnauthorized, "unauthorized")
			c.Abort()
			return
		}
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			response.Fail(c, errcode.ErrUnauthorized, "unauthorized")
			c.Abort()
			return
		}
		claims, err := token.ParseSessionToken(parts[1], secret)
		if err != nil {
			response.Fail(c, errcode.ErrUnauthorized, "unauthorized")
			c.Abort()
			return
		}
		c.Set(ContextUserIDKey, claims.UserID)
		if claims.Email != "" {
			c.Set(ContextUserEmailKey, claims.Email)
		}
		c.Next()
	}
}
