package router

import (
	"time"

	"leadhub/internal/config"
	"leadhub/internal/handler"
	"leadhub/internal/middleware"
	"leadhub/internal/repository"
	"leadhub/internal/service"
	"leadhub/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter("api", 1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	agentRepo := repository.NewAgentRepository(db)
	buyerRepo := repository.NewBuyerRepository(db)
	historyRepo := repository.NewBuyerHistoryRepository(db)

	// Worker dispatcher — injected into services that enqueue async jobs
	dispatcher := worker.NewDispatcher(rdb)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(agentRepo, cfg)
	buyerSvc := service.NewBuyerService(buyerRepo, historyRepo, dispatcher, cfg.PDFStoragePath)
	importSvc := service.NewImportExportService(buyerRepo, historyRepo)
	statsSvc := service.NewStatsService(buyerRepo)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	agentsH := handler.NewAgentsHandler(authSvc)
	buyersH := handler.NewBuyersHandler(buyerSvc)
	importH := handler.NewImportExportHandler(importSvc)
	statsH := handler.NewStatsHandler(statsSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	v1 := r.Group("/v1", jwtMW)
	{
		// Mutations share a tighter per-IP budget than reads.
		mutateLimit := middleware.RateLimiter("mutate", 5, time.Minute)

		buyers := v1.Group("/buyers")
		{
			buyers.POST("", mutateLimit, buyersH.Create)
			buyers.GET("", buyersH.List)
			buyers.GET("/export", importH.Export)
			buyers.POST("/import", mutateLimit, importH.Import)
			buyers.GET("/:id", buyersH.Get)
			buyers.PUT("/:id", buyersH.Update)
			buyers.GET("/:id/pdf", buyersH.LeadSheet)
		}

		v1.GET("/stats/summary", statsH.Summary)

		agents := v1.Group("/agents", middleware.RequireRole("admin"))
		{
			agents.POST("", agentsH.Create)
			agents.GET("", agentsH.List)
		}
	}

	return r
}
