package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/circle-social/circle-backend/internal/stats/domain"
)

func newTestStatsRepo(t *testing.T) (*StatsRepository, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewStatsRepository(nil, client), mr
}

func TestStatsRepository_StoreAndLoad(t *testing.T) {
	repo, _ := newTestStatsRepo(t)
	ctx := context.Background()

	stats := &domain.GraphStats{
		TotalUsers:       3,
		TotalFriendships: 2,
		PendingRequests:  1,
		TopConnected:     []domain.UserCount{{Username: "alice", Count: 2}},
		RefreshedAt:      time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC),
	}
	require.NoError(t, repo.Store(ctx, stats))

	loaded, err := repo.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, stats, loaded)
}

func TestStatsRepository_LoadColdCache(t *testing.T) {
	repo, _ := newTestStatsRepo(t)

	loaded, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestStatsRepository_SnapshotExpires(t *testing.T) {
	repo, mr := newTestStatsRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Store(ctx, &domain.GraphStats{TotalUsers: 1}))
	mr.FastForward(statsTTL + time.Minute)

	loaded, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, loaded)
}
