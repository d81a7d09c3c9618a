package http

import "github.com/gin-gonic/gin"

// RegisterPublic mounts the routes that must work without a token.
func (h *Handler) RegisterPublic(rg *gin.RouterGroup) {
	rg.POST("/register", h.Register)
	rg.POST("/login", h.Login)
	rg.POST("/refresh", h.Refresh)
}

// RegisterProtected mounts the routes behind RequireAuth.
func (h *Handler) RegisterProtected(rg *gin.RouterGroup) {
	rg.POST("/logout", h.Logout)
	rg.GET("/me", h.Me)
}
