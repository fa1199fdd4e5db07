package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/hirelens/hirelens_backend/internal/core/domain"
)

// userIDKey is the key used to store the authenticated user's ID in the
// request context.
const userIDKey = contextKey("userID")

// authzResultKey is the key used to store the authorization result computed
// by the guard middleware.
const authzResultKey = contextKey("authzResult")

// GetUserIDFromContext retrieves the authenticated user ID from the Gin context.
// It returns the user ID and a boolean indicating if it was found.
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	userIDVal, exists := c.Get(string(userIDKey))
	if !exists {
		// check in the request context as well
		userIDVal := c.Request.Context().Value(userIDKey)
		if userIDVal != nil {
			return userIDVal.(string), true
		}
		return "", false
	}

	userID, ok := userIDVal.(string)
	if !ok {
		return "", false
	}
	return userID, true
}

// GetAuthzResultFromContext retrieves the authorization result attached by
// the guard middleware, letting handlers reuse the resolved workspace, role
// and capability set without recomputation.
func GetAuthzResultFromContext(c *gin.Context) (*domain.AuthzResult, bool) {
	val := c.Request.Context().Value(authzResultKey)
	if val == nil {
		return nil, false
	}
	result, ok := val.(*domain.AuthzResult)
	return result, ok
}

// withAuthzResult returns a context carrying the authorization result.
func withAuthzResult(ctx context.Context, result *domain.AuthzResult) context.Context {
	return context.WithValue(ctx, authzResultKey, result)
}
