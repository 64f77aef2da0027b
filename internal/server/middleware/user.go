package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// UserHeader carries the authenticated user id set by the gateway in front of the API.
const UserHeader = "X-User-ID"

const userKey = "user_id"

// RequireUser rejects requests without a user id and stores it on the context.
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := strings.TrimSpace(c.GetHeader(UserHeader))
		if userID == "" || len(userID) > 128 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing or invalid " + UserHeader + " header"})
			return
		}
		c.Set(userKey, userID)
		c.Next()
	}
}

// UserID returns the id stored by RequireUser.
func UserID(c *gin.Context) string {
	return c.GetString(userKey)
}
