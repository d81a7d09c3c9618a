package http

import "github.com/circle-social/circle-backend/internal/rbac/service"

type Handler struct {
	rbacService *service.RBACService
}

func New(rbacService *service.RBACService) *Handler {
	return &Handler{
		rbacService: rbacService,
	}
}

type createRoleRequest struct {
	Name        string `json:"name" binding:"required,min=2,max=32"`
	Description string `json:"description" binding:"max=128"`
}

type permissionRequest struct {
	Permission string `json:"permission" binding:"required,min=2,max=64"`
}

type roleRequest struct {
	Role string `json:"role" binding:"required"`
}
