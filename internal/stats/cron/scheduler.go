package cronjob

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/circle-social/circle-backend/internal/stats/service"
)

type Scheduler struct {
	stats *service.StatsService
	log   *zap.Logger
	cron  *cron.Cron
}

func NewScheduler(stats *service.StatsService, log *zap.Logger) *Scheduler {
	return &Scheduler{stats: stats, log: log}
}

// Start schedules the nightly stats refresh (12:00 AM).
func (s *Scheduler) Start() {
	s.cron = cron.New(cron.WithSeconds())

	_, err := s.cron.AddFunc("0 0 0 * * *", func() {
		s.refresh()
	})
	if err != nil {
		s.log.Error("failed to create cron job", zap.Error(err))
		return
	}

	s.log.Info("cron scheduler started (stats refresh nightly at 12:00AM)")
	s.cron.Start()
}

func (s *Scheduler) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}

func (s *Scheduler) refresh() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if _, err := s.stats.Refresh(ctx); err != nil {
		s.log.Error("nightly stats refresh failed", zap.Error(err))
		return
	}
}
