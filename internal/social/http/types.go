package http

import (
	"context"

	authdomain "github.com/circle-social/circle-backend/internal/auth/domain"
	"github.com/circle-social/circle-backend/internal/social/service"
)

// UserLookup resolves public profiles for GET /users/:username.
type UserLookup interface {
	GetByUsername(ctx context.Context, username string) (*authdomain.User, error)
}

type Handler struct {
	socialService *service.SocialService
	users         UserLookup
}

func New(socialService *service.SocialService, users UserLookup) *Handler {
	return &Handler{
		socialService: socialService,
		users:         users,
	}
}

type sendRequestBody struct {
	Username string `json:"username" binding:"required"`
}

// publicProfile is the subset of a user shown to other members.
type publicProfile struct {
	Username    string `json:"username"`
	DisplayName string `json:"display_name,omitempty"`
	CreatedAt   string `json:"created_at"`
	FriendCount int    `json:"friend_count"`
}
