package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const ownerHeader = "X-Owner-ID"

const ownerContextKey = "ownerID"

// RequireOwner extracts the owner id from the X-Owner-ID header. Callers are
// pre-authenticated upstream; the id is opaque and trusted here, it only
// scopes the board. Requests without it are rejected.
func RequireOwner() gin.HandlerFunc {
	return func(c *gin.Context) {
		ownerID := c.GetHeader(ownerHeader)
		if ownerID == "" {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"error": "X-Owner-ID header is required",
			})
			return
		}
		c.Set(ownerContextKey, ownerID)
		c.Next()
	}
}

func ownerID(c *gin.Context) string {
	return c.GetString(ownerContextKey)
}
