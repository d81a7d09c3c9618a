package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/circle-social/circle-backend/internal/auth"
)

// PermissionChecker answers the three guard questions against a user's
// effective permission set.
type PermissionChecker interface {
	HasPermission(ctx context.Context, userID, permission string) (bool, error)
	HasAnyPermission(ctx context.Context, userID string, permissions ...string) (bool, error)
	HasAllPermissions(ctx context.Context, userID string, permissions ...string) (bool, error)
}

// RequirePermission rejects with 403 unless the caller holds the permission.
// Must run after auth middleware; callers without an identity get 401.
func RequirePermission(checker PermissionChecker, permission string) gin.HandlerFunc {
	return func(c *gin.Context) {
		check(c, permission, func(ctx context.Context, userID string) (bool, error) {
			return checker.HasPermission(ctx, userID, permission)
		})
	}
}

// RequireAnyPermission passes when the caller holds at least one of the
// given permissions.
func RequireAnyPermission(checker PermissionChecker, permissions ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		check(c, "", func(ctx context.Context, userID string) (bool, error) {
			return checker.HasAnyPermission(ctx, userID, permissions...)
		})
	}
}

// RequireAllPermissions passes only when the caller holds every one of the
// given permissions.
func RequireAllPermissions(checker PermissionChecker, permissions ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		check(c, "", func(ctx context.Context, userID string) (bool, error) {
			return checker.HasAllPermissions(ctx, userID, permissions...)
		})
	}
}

func check(c *gin.Context, permission string, allowed func(ctx context.Context, userID string) (bool, error)) {
	userID := auth.UserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		c.Abort()
		return
	}

	ok, err := allowed(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to check permissions"})
		c.Abort()
		return
	}
	if !ok {
		body := gin.H{"error": "insufficient permissions"}
		if permission != "" {
			body["required"] = permission
		}
		c.JSON(http.StatusForbidden, body)
		c.Abort()
		return
	}

	c.Next()
}
