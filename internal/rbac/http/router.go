package http

import (
	"github.com/gin-gonic/gin"

	"github.com/circle-social/circle-backend/internal/rbac/middleware"
)

// Register mounts the role administration routes. Everything here is behind
// the roles:manage permission.
func (h *Handler) Register(rg *gin.RouterGroup, checker middleware.PermissionChecker) {
	manage := rg.Group("", middleware.RequirePermission(checker, "roles:manage"))

	manage.GET("/roles", h.ListRoles)
	manage.POST("/roles", h.CreateRole)
	manage.DELETE("/roles/:role", h.DeleteRole)
	manage.POST("/roles/:role/permissions", h.GrantPermission)
	manage.DELETE("/roles/:role/permissions", h.RevokePermission)
	manage.POST("/users/:username/roles", h.AssignRole)
	manage.DELETE("/users/:username/roles", h.RevokeRole)
}
