package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"staffportal/internal/model"
	"staffportal/internal/util"
	"staffportal/pkg/metrics"
)

const sessionContextKey = "session"

// SessionResolver turns an explicit request credential into a valid session,
// or nil when the caller is unauthenticated.
type SessionResolver interface {
	CurrentSession(ctx context.Context, token string) (*model.SessionUser, error)
}

// AuthMiddleware guards identity-requiring routes. Absent, invalid and
// expired credentials are all rejected the same way.
func AuthMiddleware(auth SessionResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := util.ExtractToken(c.Request)
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			c.Abort()
			return
		}

		sess, err := auth.CurrentSession(c.Request.Context(), token)
		if err != nil || sess == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			c.Abort()
			return
		}

		c.Set(sessionContextKey, sess)
		c.Next()
	}
}

func sessionFromContext(c *gin.Context) *model.SessionUser {
	v, ok := c.Get(sessionContextKey)
	if !ok {
		return nil
	}
	sess, ok := v.(*model.SessionUser)
	if !ok {
		return nil
	}
	return sess
}

// MetricsMiddleware records request latency per route.
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		metrics.RecordHTTPRequestDuration(
			c.Request.Method,
			path,
			strconv.Itoa(c.Writer.Status()),
			time.Since(start),
		)
	}
}
