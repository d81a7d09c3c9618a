package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/circle-social/circle-backend/internal/rbac/middleware"
	"github.com/circle-social/circle-backend/internal/stats/service"
)

type Handler struct {
	statsService *service.StatsService
}

func New(statsService *service.StatsService) *Handler {
	return &Handler{statsService: statsService}
}

// Get serves the cached graph statistics snapshot.
func (h *Handler) Get(c *gin.Context) {
	stats, err := h.statsService.Get(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load stats"})
		return
	}
	c.JSON(http.StatusOK, stats)
}

// Refresh recomputes the snapshot on demand.
func (h *Handler) Refresh(c *gin.Context) {
	stats, err := h.statsService.Refresh(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to refresh stats"})
		return
	}
	c.JSON(http.StatusOK, stats)
}

// Register mounts the read endpoint; RegisterAdmin mounts the refresh
// endpoint under the admin group.
func (h *Handler) Register(rg *gin.RouterGroup, checker middleware.PermissionChecker) {
	rg.GET("/stats", middleware.RequirePermission(checker, "stats:read"), h.Get)
}

func (h *Handler) RegisterAdmin(rg *gin.RouterGroup, checker middleware.PermissionChecker) {
	rg.POST("/stats/refresh", middleware.RequirePermission(checker, "stats:refresh"), h.Refresh)
}
