package middleware

import (
	"levelup/utils"

	"github.com/gin-gonic/gin"
)

const (
	ClientDeviceKey = "client_device"
	ClientLabelKey  = "client_label"
)

// ClientInfoMiddleware records which renderer is calling, for logs and
// the request metrics.
func ClientInfoMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		userAgent := c.Request.UserAgent()
		_, _, device := utils.ParseUserAgent(userAgent)
		c.Set(ClientDeviceKey, device)
		c.Set(ClientLabelKey, utils.ClientLabel(userAgent))
		c.Next()
	}
}
