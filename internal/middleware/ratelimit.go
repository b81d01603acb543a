package middleware

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/creativityhunt/creahunt/internal/pkg/errcode"
	"github.com/creativityhunt/creahunt/internal/pkg/response"
)

type rateLimiter struct {
	mu            sync.Mutex
	window        time.Duration
	last          map[string]time.Time
	lastSweep     time.Time
	sweepInterval time.Duration
	now           func() time.Time
}

// RateLimit allows one request per key (ip+user+path) per window. Used on
// the code-request endpoint to keep the mailer from being farmed.
func RateLimit(window time.Duration) gin.HandlerFunc {
	limiter := &rateLimiter{
		window:        window,
		last:          make(map[string]time.Time),
		sweepInterval: window,
		now:           time.Now,
	}
	return limiter.handle
}

func (l *rateLimiter) handle(c *gin.Context) {
	if l.window <= 0 {
		c.Next()
		return
	}
	ip := c.ClientIP()
	uid := "0"
	if v, ok := c.Get(ContextUserIDKey); ok {
		if id, ok := v.(string); ok && id != "" {
			uid = id
		}
	}
	path := c.FullPath()
	if path == "" {
		path = c.Request.URL.Path
	}
	key := strings.Join([]string{ip, uid, path}, "|")

	now := l.now()
	l.mu.Lock()
	l.cleanupExpiredLocked(now)
	last, exists := l.last[key]
	if exists && now.Sub(last) < l.window {
		l.mu.Unlock()
		logutil.GetLogger(c.Request.Context()).Warn("rate limit hit",
			zap.String("ip", ip),
			zap.String("user_id", uid),
			zap.String("path", path),
		)
		response.Fail(c, errcode.ErrTooMany, http.StatusText(http.StatusTooManyRequests))
		c.Abort()
		return
	}
	l.last[key] = now
	l.mu.Unlock()
	c.Next()
}

func (l *rateLimiter) cleanupExpiredLocked(now time.Time) {
	if !l.lastSweep.IsZero() && now.Sub(l.lastSweep) < l.sweepInterval {
		return
	}
	for key, last := range l.last {
		if now.Sub(last) >= l.window {
			delete(l.last, key)
		}
	}
	l.lastSweep = now
}
