package middleware

import "github.com/gin-gonic/gin"

// userKey is the key used to store the authenticated username in the request context.
const userKey = contextKey("username")

// GetUsernameFromContext retrieves the authenticated username from the Gin context.
// It returns the username and a boolean indicating whether it was found.
func GetUsernameFromContext(c *gin.Context) (string, bool) {
	val := c.Request.Context().Value(userKey)
	if val == nil {
		return "", false
	}
	username, ok := val.(string)
	return username, ok
}
