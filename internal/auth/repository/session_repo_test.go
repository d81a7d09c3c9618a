package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/circle-social/circle-backend/internal/auth/domain"
)

func setupSessionRepo(t *testing.T) (*SessionRepository, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewSessionRepository(client), mr
}

func TestRefreshSession_SingleUse(t *testing.T) {
	repo, _ := setupSessionRepo(t)
	ctx := context.Background()

	hash := HashToken("refresh-token")
	require.NoError(t, repo.SaveRefresh(ctx, hash, "user-1", time.Hour))

	userID, err := repo.ConsumeRefresh(ctx, hash)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)

	// Second use must fail: rotation consumed the session.
	_, err = repo.ConsumeRefresh(ctx, hash)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestRefreshSession_Expiry(t *testing.T) {
	repo, mr := setupSessionRepo(t)
	ctx := context.Background()

	hash := HashToken("refresh-token")
	require.NoError(t, repo.SaveRefresh(ctx, hash, "user-1", time.Minute))

	mr.FastForward(2 * time.Minute)

	_, err := repo.ConsumeRefresh(ctx, hash)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestRevokeAccess(t *testing.T) {
	repo, mr := setupSessionRepo(t)
	ctx := context.Background()

	revoked, err := repo.IsAccessRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, repo.RevokeAccess(ctx, "jti-1", time.Now().Add(time.Hour)))

	revoked, err = repo.IsAccessRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	// The denylist entry lapses with the token's own expiry.
	mr.FastForward(2 * time.Hour)
	revoked, err = repo.IsAccessRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestRevokeAccess_AlreadyExpiredTokenIsNoop(t *testing.T) {
	repo, _ := setupSessionRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.RevokeAccess(ctx, "jti-2", time.Now().Add(-time.Minute)))

	revoked, err := repo.IsAccessRevoked(ctx, "jti-2")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestHashToken_Stable(t *testing.T) {
	assert.Equal(t, HashToken("abc"), HashToken("abc"))
	assert.NotEqual(t, HashToken("abc"), HashToken("abd"))
	assert.Len(t, HashToken("abc"), 64)
}
