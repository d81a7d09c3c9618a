package auth

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/circle-social/circle-backend/internal/auth/token"
)

const (
	CtxUserID   = "user_id"
	CtxUsername = "username"
	CtxClaims   = "claims"
)

// UserID extracts the authenticated user's id from the Gin context.
// This is set by middleware.RequireAuth.
func UserID(c *gin.Context) string {
	return strings.TrimSpace(c.GetString(CtxUserID))
}

// Username extracts the authenticated username from the Gin context.
func Username(c *gin.Context) string {
	return strings.TrimSpace(c.GetString(CtxUsername))
}

// Claims returns the full token claims, or nil when unauthenticated.
func Claims(c *gin.Context) *token.Claims {
	v, ok := c.Get(CtxClaims)
	if !ok {
		return nil
	}
	claims, _ := v.(*token.Claims)
	return claims
}
