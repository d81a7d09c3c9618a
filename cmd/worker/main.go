package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/circle-social/circle-backend/config"
	"github.com/circle-social/circle-backend/internal/graphdb"
	"github.com/circle-social/circle-backend/internal/platform/logging"
	statscron "github.com/circle-social/circle-backend/internal/stats/cron"
	"github.com/circle-social/circle-backend/internal/stats/repository"
	"github.com/circle-social/circle-backend/internal/stats/service"
)

// Standalone stats worker. `worker refresh` recomputes the snapshot once and
// exits; `worker run` keeps the nightly schedule without serving HTTP, for
// deployments that want the refresh off the API pods.
func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: worker <refresh|run>")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.App.Environment, cfg.App.LogLevel)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	graph, err := graphdb.Connect(ctx, cfg.Neo4j, logger)
	if err != nil {
		logger.Fatal("neo4j connection failed", zap.Error(err))
	}
	defer graph.Close(context.Background()) //nolint:errcheck

	cache := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := cache.Ping(ctx).Err(); err != nil {
		logger.Fatal("redis connection failed", zap.Error(err))
	}

	stats := service.NewStatsService(repository.NewStatsRepository(graph, cache), logger)

	switch os.Args[1] {
	case "refresh":
		if _, err := stats.Refresh(ctx); err != nil {
			logger.Fatal("stats refresh failed", zap.Error(err))
		}
	case "run":
		scheduler := statscron.NewScheduler(stats, logger)
		scheduler.Start()
		defer scheduler.Stop()
		<-ctx.Done()
		logger.Info("shutting down")
	default:
		log.Fatalf("unknown command: %s", os.Args[1])
	}
}
