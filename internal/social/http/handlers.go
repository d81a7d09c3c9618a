package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/circle-social/circle-backend/internal/auth"
	authdomain "github.com/circle-social/circle-backend/internal/auth/domain"
	"github.com/circle-social/circle-backend/internal/social/domain"
)

// SendFriendRequest creates a pending request from the caller.
func (h *Handler) SendFriendRequest(c *gin.Context) {
	var body sendRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	err := h.socialService.SendFriendRequest(c.Request.Context(), auth.Username(c), body.Username)
	switch {
	case errors.Is(err, domain.ErrSelfFriendship):
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot befriend yourself"})
	case errors.Is(err, domain.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
	case errors.Is(err, domain.ErrAlreadyFriends):
		c.JSON(http.StatusConflict, gin.H{"error": "already friends"})
	case errors.Is(err, domain.ErrRequestExists):
		c.JSON(http.StatusConflict, gin.H{"error": "friend request already pending"})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to send friend request"})
	default:
		c.JSON(http.StatusCreated, gin.H{"status": "requested"})
	}
}

// PendingRequests lists the caller's open requests, both directions.
func (h *Handler) PendingRequests(c *gin.Context) {
	pending, err := h.socialService.PendingRequests(c.Request.Context(), auth.Username(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list requests"})
		return
	}
	c.JSON(http.StatusOK, pending)
}

func (h *Handler) AcceptFriendRequest(c *gin.Context) {
	err := h.socialService.AcceptFriendRequest(c.Request.Context(), auth.Username(c), c.Param("username"))
	h.respondRequestMutation(c, err, "accepted")
}

func (h *Handler) DeclineFriendRequest(c *gin.Context) {
	err := h.socialService.DeclineFriendRequest(c.Request.Context(), auth.Username(c), c.Param("username"))
	h.respondRequestMutation(c, err, "declined")
}

func (h *Handler) CancelFriendRequest(c *gin.Context) {
	err := h.socialService.CancelFriendRequest(c.Request.Context(), auth.Username(c), c.Param("username"))
	h.respondRequestMutation(c, err, "cancelled")
}

func (h *Handler) respondRequestMutation(c *gin.Context, err error, status string) {
	switch {
	case errors.Is(err, domain.ErrRequestNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "friend request not found"})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update friend request"})
	default:
		c.JSON(http.StatusOK, gin.H{"status": status})
	}
}

func (h *Handler) Unfriend(c *gin.Context) {
	err := h.socialService.Unfriend(c.Request.Context(), auth.Username(c), c.Param("username"))
	switch {
	case errors.Is(err, domain.ErrSelfFriendship):
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot unfriend yourself"})
	case errors.Is(err, domain.ErrNotFriends):
		c.JSON(http.StatusNotFound, gin.H{"error": "users are not friends"})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to unfriend"})
	default:
		c.JSON(http.StatusOK, gin.H{"status": "unfriended"})
	}
}

// ListFriends returns the caller's direct friends.
func (h *Handler) ListFriends(c *gin.Context) {
	h.listFriendsOf(c, auth.Username(c))
}

// ListUserFriends returns another user's friends.
func (h *Handler) ListUserFriends(c *gin.Context) {
	h.listFriendsOf(c, c.Param("username"))
}

func (h *Handler) listFriendsOf(c *gin.Context, username string) {
	friends, err := h.socialService.ListFriends(c.Request.Context(), username)
	if errors.Is(err, domain.ErrUserNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list friends"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"friends": friends, "count": len(friends)})
}

// FriendsOfFriends returns second-degree connections with mutual counts.
func (h *Handler) FriendsOfFriends(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))

	suggestions, err := h.socialService.FriendsOfFriends(c.Request.Context(), auth.Username(c), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to find friends of friends"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": suggestions})
}

// Suggestions returns friend candidates ranked by mutual friends.
func (h *Handler) Suggestions(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))

	suggestions, err := h.socialService.SuggestedFriends(c.Request.Context(), auth.Username(c), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to suggest friends"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"suggestions": suggestions})
}

// MutualFriends lists friends the caller shares with another user.
func (h *Handler) MutualFriends(c *gin.Context) {
	mutual, err := h.socialService.MutualFriends(c.Request.Context(), auth.Username(c), c.Param("username"))
	if errors.Is(err, domain.ErrUserNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to find mutual friends"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"mutual_friends": mutual, "count": len(mutual)})
}

// Path returns the shortest friendship chain to another user.
func (h *Handler) Path(c *gin.Context) {
	path, err := h.socialService.PathBetween(c.Request.Context(), auth.Username(c), c.Param("username"))
	switch {
	case errors.Is(err, domain.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
	case errors.Is(err, domain.ErrNoPath):
		c.JSON(http.StatusNotFound, gin.H{"error": "no path between users"})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to find path"})
	default:
		c.JSON(http.StatusOK, gin.H{"path": path, "degrees": len(path) - 1})
	}
}

// GetUser returns another member's public profile.
func (h *Handler) GetUser(c *gin.Context) {
	username := c.Param("username")

	user, err := h.users.GetByUsername(c.Request.Context(), username)
	if errors.Is(err, authdomain.ErrUserNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load user"})
		return
	}

	friends, err := h.socialService.ListFriends(c.Request.Context(), username)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load user"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": publicProfile{
		Username:    user.Username,
		DisplayName: user.DisplayName,
		CreatedAt:   user.CreatedAt.Format(time.RFC3339),
		FriendCount: len(friends),
	}})
}
