package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/circle-social/circle-backend/config"
	apihttp "github.com/circle-social/circle-backend/internal/api/http"
	apimw "github.com/circle-social/circle-backend/internal/api/http/middleware"
	"github.com/circle-social/circle-backend/internal/api/http/routes"
	"github.com/circle-social/circle-backend/internal/auth/token"
	"github.com/circle-social/circle-backend/internal/graphdb"
	"github.com/circle-social/circle-backend/internal/platform/logging"
	statscron "github.com/circle-social/circle-backend/internal/stats/cron"
)

const serviceName = "circle-backend"

func main() {
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

	if err := graph.EnsureSchema(ctx); err != nil {
		logger.Fatal("schema bootstrap failed", zap.Error(err))
	}

	cache := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := cache.Ping(ctx).Err(); err != nil {
		logger.Fatal("redis connection failed", zap.Error(err))
	}

	if cfg.App.Environment != "development" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(apimw.RequestID(logger))
	r.Use(apimw.Metrics())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	issuer := token.NewIssuer(cfg.JWT.Secret, cfg.JWT.AccessTTL)
	services := routes.RegisterV1(r, routes.V1Deps{
		Graph:      graph,
		Cache:      cache,
		Issuer:     issuer,
		RefreshTTL: cfg.JWT.RefreshTTL,
		Log:        logger,
	})

	if err := services.RBAC.Seed(ctx); err != nil {
		logger.Fatal("role seeding failed", zap.Error(err))
	}

	health := apihttp.NewHealthHandler(serviceName, cfg.App.Version, graph, cache)
	health.RegisterRoutes(r)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	scheduler := statscron.NewScheduler(services.Stats, logger)
	scheduler.Start()
	defer scheduler.Stop()

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: r,
	}

	go func() {
		logger.Info("listening", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown failed", zap.Error(err))
	}
}
