package http

import (
	"github.com/gin-gonic/gin"

	"github.com/circle-social/circle-backend/internal/rbac/middleware"
)

// Register mounts the social routes behind the social:read / social:write
// permissions. All routes assume auth middleware has already run.
func (h *Handler) Register(rg *gin.RouterGroup, checker middleware.PermissionChecker) {
	read := middleware.RequirePermission(checker, "social:read")
	write := middleware.RequirePermission(checker, "social:write")

	users := rg.Group("/users")
	users.GET("/:username", read, h.GetUser)
	users.GET("/:username/friends", read, h.ListUserFriends)

	friends := rg.Group("/friends")
	friends.GET("", read, h.ListFriends)
	friends.GET("/suggestions", read, h.Suggestions)
	friends.GET("/of-friends", read, h.FriendsOfFriends)
	friends.GET("/mutual/:username", read, h.MutualFriends)
	friends.GET("/path/:username", read, h.Path)
	friends.DELETE("/:username", write, h.Unfriend)

	requests := friends.Group("/requests")
	requests.POST("", write, h.SendFriendRequest)
	requests.GET("", read, h.PendingRequests)
	requests.POST("/:username/accept", write, h.AcceptFriendRequest)
	requests.POST("/:username/decline", write, h.DeclineFriendRequest)
	requests.DELETE("/:username", write, h.CancelFriendRequest)
}
