package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	authhttp "github.com/circle-social/circle-backend/internal/auth/http"
	authmw "github.com/circle-social/circle-backend/internal/auth/middleware"
	authrepo "github.com/circle-social/circle-backend/internal/auth/repository"
	authservice "github.com/circle-social/circle-backend/internal/auth/service"
	"github.com/circle-social/circle-backend/internal/auth/token"
	"github.com/circle-social/circle-backend/internal/graphdb"
	rbachttp "github.com/circle-social/circle-backend/internal/rbac/http"
	rbacrepo "github.com/circle-social/circle-backend/internal/rbac/repository"
	rbacservice "github.com/circle-social/circle-backend/internal/rbac/service"
	socialhttp "github.com/circle-social/circle-backend/internal/social/http"
	socialrepo "github.com/circle-social/circle-backend/internal/social/repository"
	socialservice "github.com/circle-social/circle-backend/internal/social/service"
	statshttp "github.com/circle-social/circle-backend/internal/stats/http"
	statsrepo "github.com/circle-social/circle-backend/internal/stats/repository"
	statsservice "github.com/circle-social/circle-backend/internal/stats/service"
)

type V1Deps struct {
	Graph      *graphdb.DB
	Cache      *redis.Client
	Issuer     *token.Issuer
	RefreshTTL time.Duration
	Log        *zap.Logger
}

// Services groups what RegisterV1 builds, so main can reach the pieces that
// run outside the router (seeding, cron).
type Services struct {
	Auth   *authservice.AuthService
	RBAC   *rbacservice.RBACService
	Social *socialservice.SocialService
	Stats  *statsservice.StatsService
}

func RegisterV1(r *gin.Engine, dep V1Deps) *Services {
	api := r.Group("/api/v1")

	userRepo := authrepo.NewUserRepository(dep.Graph)
	sessionRepo := authrepo.NewSessionRepository(dep.Cache)
	authSvc := authservice.NewAuthService(userRepo, sessionRepo, dep.Issuer, dep.RefreshTTL, dep.Log)

	roleRepo := rbacrepo.NewRoleRepository(dep.Graph)
	permCache := rbacrepo.NewPermissionCache(dep.Cache)
	rbacSvc := rbacservice.NewRBACService(roleRepo, permCache, dep.Log)

	friendRepo := socialrepo.NewFriendRepository(dep.Graph)
	socialSvc := socialservice.NewSocialService(friendRepo, dep.Log)

	statsRepo := statsrepo.NewStatsRepository(dep.Graph, dep.Cache)
	statsSvc := statsservice.NewStatsService(statsRepo, dep.Log)

	// Public auth routes
	authHandler := authhttp.New(authSvc, rbacSvc)
	authHandler.RegisterPublic(api.Group("/auth"))

	// Everything else requires a valid token
	protected := api.Group("", authmw.RequireAuth(authSvc))
	authHandler.RegisterProtected(protected.Group("/auth"))

	socialHandler := socialhttp.New(socialSvc, userRepo)
	socialHandler.Register(protected, rbacSvc)

	statsHandler := statshttp.New(statsSvc)
	statsHandler.Register(protected, rbacSvc)

	admin := protected.Group("/admin")
	rbacHandler := rbachttp.New(rbacSvc)
	rbacHandler.Register(admin, rbacSvc)
	statsHandler.RegisterAdmin(admin, rbacSvc)

	return &Services{
		Auth:   authSvc,
		RBAC:   rbacSvc,
		Social: socialSvc,
		Stats:  statsSvc,
	}
}
