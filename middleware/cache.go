package middleware

import "github.com/gin-gonic/gin"

// NoStoreMiddleware keeps renderers from caching view state.
func NoStoreMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Cache-Control", "no-store")
		c.Next()
	}
}
