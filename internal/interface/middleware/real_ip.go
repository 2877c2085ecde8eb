package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// RealIP resolves the client IP behind proxies, preferring X-Forwarded-For
// then X-Real-IP, and stores it as "real_ip" in the context.
func RealIP() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		if fwd := c.GetHeader("X-Forwarded-For"); fwd != "" {
			parts := strings.Split(fwd, ",")
			if first := strings.TrimSpace(parts[0]); first != "" {
				ip = first
			}
		} else if real := c.GetHeader("X-Real-IP"); real != "" {
			ip = real
		}
		c.Set("real_ip", ip)
		c.Next()
	}
}
