package middleware

import (
	"levelup/utils"

	"github.com/gin-gonic/gin"
)

// SessionChecker reports whether the engine currently holds a session.
type SessionChecker interface {
	Authenticated() bool
}

// AuthMiddleware rejects engine actions while logged out, before any
// handler runs.
func AuthMiddleware(sessions SessionChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !sessions.Authenticated() {
			utils.Unauthorized(c, "Not authenticated")
			c.Abort()
			return
		}
		c.Next()
	}
}
