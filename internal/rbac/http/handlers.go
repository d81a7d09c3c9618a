package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/circle-social/circle-backend/internal/rbac/domain"
)

// ListRoles returns every role with its permission set.
func (h *Handler) ListRoles(c *gin.Context) {
	roles, err := h.rbacService.ListRoles(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list roles"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"roles": roles})
}

func (h *Handler) CreateRole(c *gin.Context) {
	var req createRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	if err := h.rbacService.CreateRole(c.Request.Context(), req.Name, req.Description); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create role"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"role": req.Name})
}

func (h *Handler) DeleteRole(c *gin.Context) {
	role := c.Param("role")

	err := h.rbacService.DeleteRole(c.Request.Context(), role)
	switch {
	case errors.Is(err, domain.ErrRoleProtected):
		c.JSON(http.StatusForbidden, gin.H{"error": "built-in role cannot be deleted"})
	case errors.Is(err, domain.ErrRoleNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "role not found"})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete role"})
	default:
		c.JSON(http.StatusOK, gin.H{"status": "deleted"})
	}
}

func (h *Handler) GrantPermission(c *gin.Context) {
	var req permissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	err := h.rbacService.GrantPermission(c.Request.Context(), c.Param("role"), req.Permission)
	if errors.Is(err, domain.ErrRoleNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "role not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to grant permission"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "granted"})
}

func (h *Handler) RevokePermission(c *gin.Context) {
	var req permissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.rbacService.RevokePermission(c.Request.Context(), c.Param("role"), req.Permission); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to revoke permission"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "revoked"})
}

func (h *Handler) AssignRole(c *gin.Context) {
	var req roleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	err := h.rbacService.AssignRole(c.Request.Context(), c.Param("username"), req.Role)
	if errors.Is(err, domain.ErrRoleNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "user or role not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to assign role"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "assigned"})
}

func (h *Handler) RevokeRole(c *gin.Context) {
	var req roleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.rbacService.RevokeRole(c.Request.Context(), c.Param("username"), req.Role); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to revoke role"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "revoked"})
}
