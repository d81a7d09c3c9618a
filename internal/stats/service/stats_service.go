package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/circle-social/circle-backend/internal/stats/domain"
)

// StatsStore separates computing a snapshot from caching it.
type StatsStore interface {
	Compute(ctx context.Context) (*domain.GraphStats, error)
	Store(ctx context.Context, stats *domain.GraphStats) error
	Load(ctx context.Context) (*domain.GraphStats, error)
}

type StatsService struct {
	store StatsStore
	log   *zap.Logger
}

func NewStatsService(store StatsStore, log *zap.Logger) *StatsService {
	return &StatsService{store: store, log: log}
}

// Get serves the cached snapshot, computing one on a cold cache.
func (s *StatsService) Get(ctx context.Context) (*domain.GraphStats, error) {
	stats, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	if stats != nil {
		return stats, nil
	}
	return s.Refresh(ctx)
}

// Refresh recomputes and stores the snapshot.
func (s *StatsService) Refresh(ctx context.Context) (*domain.GraphStats, error) {
	stats, err := s.store.Compute(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.store.Store(ctx, stats); err != nil {
		// Snapshot is still valid even if caching failed.
		s.log.Warn("failed to cache stats snapshot", zap.Error(err))
	}
	s.log.Info("graph stats refreshed",
		zap.Int64("users", stats.TotalUsers),
		zap.Int64("friendships", stats.TotalFriendships))
	return stats, nil
}
