package http

import (
	"context"

	"github.com/circle-social/circle-backend/internal/auth/service"
)

// PermissionResolver supplies the effective permission set shown on /auth/me.
type PermissionResolver interface {
	PermissionsForUser(ctx context.Context, userID string) ([]string, error)
}

type Handler struct {
	authService *service.AuthService
	permissions PermissionResolver
}

func New(authService *service.AuthService, permissions PermissionResolver) *Handler {
	return &Handler{
		authService: authService,
		permissions: permissions,
	}
}

type registerRequest struct {
	Username    string `json:"username" binding:"required,min=3,max=32,alphanum"`
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=8,max=72"`
	DisplayName string `json:"display_name" binding:"max=64"`
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type logoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}
