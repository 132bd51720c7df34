package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// HeaderUserID names the acting user. Requests without it are anonymous and
// may only read or run a shared refresh.
const HeaderUserID = "X-User-ID"

const (
	ctxKeyUserID = "userID"
	maxUserIDLen = 64
)

// Actor resolves the acting user once per request and stores it under the
// "userID" context key. A value already set by an upstream authenticator
// wins over the header. Oversized ids are dropped.
func Actor() gin.HandlerFunc {
	return func(c *gin.Context) {
		if UserID(c) == "" {
			if id := strings.TrimSpace(c.GetHeader(HeaderUserID)); id != "" && len(id) <= maxUserIDLen {
				c.Set(ctxKeyUserID, id)
			}
		}
		c.Next()
	}
}

// UserID returns the acting user, or "" for anonymous requests.
func UserID(c *gin.Context) string {
	if c == nil {
		return ""
	}
	if v, ok := c.Get(ctxKeyUserID); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
