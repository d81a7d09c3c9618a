package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/circle-social/circle-backend/internal/auth/domain"
	"github.com/circle-social/circle-backend/internal/auth/repository"
	"github.com/circle-social/circle-backend/internal/auth/token"
)

// DefaultRole is attached to every newly registered user.
const DefaultRole = "member"

// UserStore is the persistence surface the service needs for users.
type UserStore interface {
	Create(ctx context.Context, user *domain.User, defaultRole string) error
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
	UpdateLastLogin(ctx context.Context, id string) error
}

// SessionStore holds refresh sessions and the access-token denylist.
type SessionStore interface {
	SaveRefresh(ctx context.Context, tokenHash, userID string, ttl time.Duration) error
	ConsumeRefresh(ctx context.Context, tokenHash string) (string, error)
	DeleteRefresh(ctx context.Context, tokenHash string) error
	RevokeAccess(ctx context.Context, jti string, until time.Time) error
	IsAccessRevoked(ctx context.Context, jti string) (bool, error)
}

type AuthService struct {
	users      UserStore
	sessions   SessionStore
	issuer     *token.Issuer
	refreshTTL time.Duration
	log        *zap.Logger
}

func NewAuthService(users UserStore, sessions SessionStore, issuer *token.Issuer, refreshTTL time.Duration, log *zap.Logger) *AuthService {
	return &AuthService{
		users:      users,
		sessions:   sessions,
		issuer:     issuer,
		refreshTTL: refreshTTL,
		log:        log,
	}
}

// Register creates a user with a bcrypt-hashed password and the default role.
func (s *AuthService) Register(ctx context.Context, req *domain.RegisterRequest) (*domain.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Username:     strings.ToLower(strings.TrimSpace(req.Username)),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		DisplayName:  strings.TrimSpace(req.DisplayName),
		PasswordHash: string(hash),
	}

	if err := s.users.Create(ctx, user, DefaultRole); err != nil {
		return nil, err
	}

	s.log.Info("user registered", zap.String("user_id", user.ID), zap.String("username", user.Username))
	return user, nil
}

// Login verifies credentials and issues a session. Unknown users and wrong
// passwords are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, username, password string) (*domain.Session, error) {
	user, err := s.users.GetByUsername(ctx, strings.ToLower(strings.TrimSpace(username)))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	if err := s.users.UpdateLastLogin(ctx, user.ID); err != nil {
		s.log.Warn("failed to record login time", zap.String("user_id", user.ID), zap.Error(err))
	}

	return s.issueSession(ctx, user)
}

// Refresh rotates a refresh token. The old token is consumed whether or not
// issuing the new session succeeds.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*domain.Session, error) {
	userID, err := s.sessions.ConsumeRefresh(ctx, repository.HashToken(refreshToken))
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidToken
		}
		return nil, err
	}

	return s.issueSession(ctx, user)
}

// Logout revokes the access token and drops the refresh session.
func (s *AuthService) Logout(ctx context.Context, claims *token.Claims, refreshToken string) error {
	if claims != nil && claims.ID != "" && claims.ExpiresAt != nil {
		if err := s.sessions.RevokeAccess(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
			return err
		}
	}
	if refreshToken != "" {
		if err := s.sessions.DeleteRefresh(ctx, repository.HashToken(refreshToken)); err != nil {
			return err
		}
	}
	return nil
}

// Authenticate parses a bearer token and rejects revoked jtis. The returned
// claims are what the middleware stores in the request context.
func (s *AuthService) Authenticate(ctx context.Context, tokenString string) (*token.Claims, error) {
	claims, err := s.issuer.Parse(tokenString)
	if err != nil {
		return nil, err
	}

	revoked, err := s.sessions.IsAccessRevoked(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, domain.ErrInvalidToken
	}
	return claims, nil
}

// GetUser loads the profile for /auth/me.
func (s *AuthService) GetUser(ctx context.Context, id string) (*domain.User, error) {
	return s.users.GetByID(ctx, id)
}

func (s *AuthService) issueSession(ctx context.Context, user *domain.User) (*domain.Session, error) {
	now := time.Now().UTC()

	access, claims, err := s.issuer.Issue(user, now)
	if err != nil {
		return nil, err
	}

	refresh := uuid.New().String() + uuid.New().String()
	if err := s.sessions.SaveRefresh(ctx, repository.HashToken(refresh), user.ID, s.refreshTTL); err != nil {
		return nil, err
	}

	return &domain.Session{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "Bearer",
		ExpiresAt:    claims.ExpiresAt.Time,
		User:         user,
	}, nil
}
