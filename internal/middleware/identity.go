package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// IdentityHeader carries the caller's user id. The API trusts an
// upstream gateway to authenticate; this layer only requires that an
// identity is present.
const IdentityHeader = "X-User-ID"

// Identity extracts the caller's user id from the identity header and
// sets it in the context for handlers.
func Identity() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetHeader(IdentityHeader)
		if userID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "X-User-ID header is required"})
			c.Abort()
			return
		}

		c.Set("userID", userID)
		c.Next()
	}
}
