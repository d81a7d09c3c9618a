package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/circle-social/circle-backend/internal/social/domain"
	"github.com/circle-social/circle-backend/internal/social/repository"
)

const (
	// DefaultSuggestionLimit caps friends-of-friends listings.
	DefaultSuggestionLimit = 20
	MaxSuggestionLimit     = 100

	// MaxPathDepth bounds shortestPath so a degenerate graph cannot blow up
	// a request.
	MaxPathDepth = 6
)

// FriendStore is the graph surface the service depends on.
type FriendStore interface {
	Relation(ctx context.Context, from, to string) (repository.RelationState, error)
	CreateRequest(ctx context.Context, from, to string) error
	AcceptRequest(ctx context.Context, from, to string) error
	DeleteRequest(ctx context.Context, from, to string) error
	DeleteFriendship(ctx context.Context, a, b string) error
	Friends(ctx context.Context, username string) ([]domain.Friend, error)
	FriendsOfFriends(ctx context.Context, username string, limit int) ([]domain.Suggestion, error)
	MutualFriends(ctx context.Context, a, b string) ([]domain.Friend, error)
	ShortestPath(ctx context.Context, a, b string, maxDepth int) ([]string, error)
	PendingRequests(ctx context.Context, username string) (*domain.PendingRequests, error)
	UserExists(ctx context.Context, username string) (bool, error)
}

type SocialService struct {
	friends FriendStore
	log     *zap.Logger
}

func NewSocialService(friends FriendStore, log *zap.Logger) *SocialService {
	return &SocialService{friends: friends, log: log}
}

// SendFriendRequest validates the pair's relation state before writing.
// An incoming request from the target is not an error here; the caller is
// told to accept it instead.
func (s *SocialService) SendFriendRequest(ctx context.Context, from, to string) error {
	if from == to {
		return domain.ErrSelfFriendship
	}

	state, err := s.friends.Relation(ctx, from, to)
	if err != nil {
		return err
	}
	switch {
	case !state.BothExist:
		return domain.ErrUserNotFound
	case state.Friends:
		return domain.ErrAlreadyFriends
	case state.RequestOutgoing || state.RequestIncoming:
		return domain.ErrRequestExists
	}

	if err := s.friends.CreateRequest(ctx, from, to); err != nil {
		return err
	}
	s.log.Info("friend request sent", zap.String("from", from), zap.String("to", to))
	return nil
}

// AcceptFriendRequest turns a pending request from `from` into a friendship.
func (s *SocialService) AcceptFriendRequest(ctx context.Context, accepter, from string) error {
	if err := s.friends.AcceptRequest(ctx, from, accepter); err != nil {
		return err
	}
	s.log.Info("friend request accepted", zap.String("from", from), zap.String("by", accepter))
	return nil
}

// DeclineFriendRequest drops an incoming request.
func (s *SocialService) DeclineFriendRequest(ctx context.Context, decliner, from string) error {
	return s.friends.DeleteRequest(ctx, from, decliner)
}

// CancelFriendRequest drops an outgoing request.
func (s *SocialService) CancelFriendRequest(ctx context.Context, canceller, to string) error {
	return s.friends.DeleteRequest(ctx, canceller, to)
}

func (s *SocialService) Unfriend(ctx context.Context, username, friend string) error {
	if username == friend {
		return domain.ErrSelfFriendship
	}
	return s.friends.DeleteFriendship(ctx, username, friend)
}

func (s *SocialService) ListFriends(ctx context.Context, username string) ([]domain.Friend, error) {
	if err := s.requireUser(ctx, username); err != nil {
		return nil, err
	}
	return s.friends.Friends(ctx, username)
}

// FriendsOfFriends lists second-degree connections ranked by mutual count.
func (s *SocialService) FriendsOfFriends(ctx context.Context, username string, limit int) ([]domain.Suggestion, error) {
	if err := s.requireUser(ctx, username); err != nil {
		return nil, err
	}
	return s.friends.FriendsOfFriends(ctx, username, clampLimit(limit))
}

// SuggestedFriends is the same traversal as FriendsOfFriends; the separate
// operation exists so the API can evolve the ranking independently.
func (s *SocialService) SuggestedFriends(ctx context.Context, username string, limit int) ([]domain.Suggestion, error) {
	return s.FriendsOfFriends(ctx, username, limit)
}

func (s *SocialService) MutualFriends(ctx context.Context, a, b string) ([]domain.Friend, error) {
	if err := s.requireUser(ctx, b); err != nil {
		return nil, err
	}
	return s.friends.MutualFriends(ctx, a, b)
}

// PathBetween finds the shortest friendship chain between two users.
func (s *SocialService) PathBetween(ctx context.Context, a, b string) ([]string, error) {
	if a == b {
		return []string{a}, nil
	}
	if err := s.requireUser(ctx, b); err != nil {
		return nil, err
	}
	return s.friends.ShortestPath(ctx, a, b, MaxPathDepth)
}

func (s *SocialService) PendingRequests(ctx context.Context, username string) (*domain.PendingRequests, error) {
	return s.friends.PendingRequests(ctx, username)
}

func (s *SocialService) requireUser(ctx context.Context, username string) error {
	exists, err := s.friends.UserExists(ctx, username)
	if err != nil {
		return err
	}
	if !exists {
		return domain.ErrUserNotFound
	}
	return nil
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return DefaultSuggestionLimit
	}
	if limit > MaxSuggestionLimit {
		return MaxSuggestionLimit
	}
	return limit
}
