package middleware

import (
	"net"
	"net/netip"
	"strings"

	"github.com/gin-gonic/gin"
)

// getClientIP returns the originating client address, trusting the first
// well-formed X-Forwarded-For entry, then X-Real-IP, then the socket address.
func getClientIP(c *gin.Context) string {
	if xff := c.GetHeader("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if addr, err := netip.ParseAddr(strings.TrimSpace(first)); err == nil {
			return addr.String()
		}
	}

	if xri := c.GetHeader("X-Real-IP"); xri != "" {
		if addr, err := netip.ParseAddr(strings.TrimSpace(xri)); err == nil {
			return addr.String()
		}
	}

	ip := c.Request.RemoteAddr
	// RemoteAddr is normally "ip:port".
	if host, _, err := net.SplitHostPort(ip); err == nil {
		return host
	}
	return ip
}
