package util

import (
	"github.com/gin-gonic/gin"
)

// ContextUserIDKey is where the auth middleware stores the authenticated user id
const ContextUserIDKey = "user_id"

// ViewerID returns the authenticated user id, if any. It never writes a response,
// so it suits routes where authentication is optional.
func ViewerID(c *gin.Context) (string, bool) {
	userID, exists := c.Get(ContextUserIDKey)
	if !exists {
		return "", false
	}
	userIDStr, ok := userID.(string)
	if !ok || userIDStr == "" {
		return "", false
	}
	return userIDStr, true
}

// GetUserIDFromContext extracts the user ID from the Gin context.
// Returns the user ID and true if found, or empty string and false if not authenticated.
// If the user is not authenticated, it automatically responds with 401 Unauthorized.
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	userID, ok := ViewerID(c)
	if !ok {
		RespondUnauthorized(c)
		return "", false
	}
	return userID, true
}
