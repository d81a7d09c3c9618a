package repository

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/circle-social/circle-backend/internal/auth/domain"
)

const (
	refreshKeyPrefix = "auth:refresh:" // auth:refresh:{sha256(token)} -> user_id
	revokedKeyPrefix = "auth:revoked:" // auth:revoked:{jti} -> "1", expires with the token
)

// SessionRepository keeps the short-lived auth state in Redis: refresh
// sessions (stored hashed, single use) and the denylist of revoked access
// token IDs.
type SessionRepository struct {
	client *redis.Client
}

func NewSessionRepository(client *redis.Client) *SessionRepository {
	return &SessionRepository{client: client}
}

// HashToken is the stored form of a refresh token. Only the hash ever
// touches Redis, so a dump of the store cannot be replayed.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func (r *SessionRepository) SaveRefresh(ctx context.Context, tokenHash, userID string, ttl time.Duration) error {
	if err := r.client.Set(ctx, refreshKeyPrefix+tokenHash, userID, ttl).Err(); err != nil {
		return fmt.Errorf("failed to save refresh session: %w", err)
	}
	return nil
}

// ConsumeRefresh looks up and deletes a refresh session in one step, so a
// refresh token can only ever be used once.
func (r *SessionRepository) ConsumeRefresh(ctx context.Context, tokenHash string) (string, error) {
	userID, err := r.client.GetDel(ctx, refreshKeyPrefix+tokenHash).Result()
	if err == redis.Nil {
		return "", domain.ErrInvalidToken
	}
	if err != nil {
		return "", fmt.Errorf("failed to consume refresh session: %w", err)
	}
	return userID, nil
}

func (r *SessionRepository) DeleteRefresh(ctx context.Context, tokenHash string) error {
	if err := r.client.Del(ctx, refreshKeyPrefix+tokenHash).Err(); err != nil {
		return fmt.Errorf("failed to delete refresh session: %w", err)
	}
	return nil
}

// RevokeAccess denylists a jti until the token would have expired anyway.
func (r *SessionRepository) RevokeAccess(ctx context.Context, jti string, until time.Time) error {
	ttl := time.Until(until)
	if ttl <= 0 {
		return nil
	}
	if err := r.client.Set(ctx, revokedKeyPrefix+jti, "1", ttl).Err(); err != nil {
		return fmt.Errorf("failed to revoke access token: %w", err)
	}
	return nil
}

func (r *SessionRepository) IsAccessRevoked(ctx context.Context, jti string) (bool, error) {
	_, err := r.client.Get(ctx, revokedKeyPrefix+jti).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check revocation: %w", err)
	}
	return true, nil
}
