package api

import (
	"time"

	"vitaspoon/internal/api/handlers"
	"vitaspoon/internal/api/handlers/health"
	recipeHandler "vitaspoon/internal/api/handlers/recipe"
	"vitaspoon/internal/api/middleware"
	"vitaspoon/internal/infrastructure/config"
	"vitaspoon/internal/pkg/common"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Corpus 路由所需的資料集操作
type Corpus interface {
	recipeHandler.CorpusSource
	health.CorpusState
}

// Generator 路由所需的 AI 備援鏈操作
type Generator interface {
	recipeHandler.Generator
	handlers.StatusReporter
}

// Dependencies 路由依賴
type Dependencies struct {
	Generator Generator
	Corpus    Corpus
	// Store 可為 nil，收藏功能回 503
	Store recipeHandler.SavedStore
	// CacheStats 可為 nil，僅記憶體快取提供
	CacheStats health.CacheStats
}

// SetupRouter 設置路由
func SetupRouter(cfg *config.Config, deps Dependencies) *gin.Engine {
	common.LogInfo("Starting router setup",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
	)

	// 設置 gin 模式
	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// 註冊基礎中間件
	router.Use(middleware.Recovery())
	router.Use(middleware.Logger())
	router.Use(requestid.New())

	// CORS 設置
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.Use(middleware.BodySizeLimit(cfg.Server.MaxBodySize))
	if cfg.RateLimit.Enabled {
		router.Use(middleware.RateLimit(cfg.RateLimit.Requests, cfg.RateLimit.Window))
	}
	router.Use(middleware.Deduplication(cfg.DedupWindow))
	router.Use(middleware.Timeout(cfg.Server.RequestTimeout))

	// 健康檢查路由
	healthHandler := health.NewHandler(cfg.App.Version, deps.Corpus, deps.CacheStats)
	router.GET("/health", healthHandler.HealthCheck)
	router.GET("/ready", healthHandler.ReadinessCheck)
	router.GET("/live", health.LivenessCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	recipes := recipeHandler.NewHandler(deps.Generator, deps.Corpus, cfg.App.Debug)
	saved := recipeHandler.NewSavedHandler(deps.Store, cfg.App.Debug)
	providers := handlers.NewProviderHandler(deps.Generator)

	// API 路由組
	api := router.Group("/api/v1")
	{
		recipeGroup := api.Group("/recipe")
		{
			recipeGroup.POST("/generate", recipes.HandleGenerate)
			recipeGroup.POST("/local", recipes.HandleLocal)
		}

		api.GET("/recipes/random", recipes.HandleRandom)
		api.GET("/options", recipes.HandleOptions)
		api.GET("/providers/status", providers.HandleStatus)

		corpusGroup := api.Group("/corpus")
		{
			corpusGroup.GET("/export", recipes.HandleExport)
			corpusGroup.POST("/reload", recipes.HandleReload)
		}

		savedGroup := api.Group("/saved")
		{
			savedGroup.POST("", saved.HandleSave)
			savedGroup.GET("", saved.HandleList)
			savedGroup.GET("/:id", saved.HandleGet)
			savedGroup.DELETE("/:id", saved.HandleDelete)
		}
	}

	common.LogInfo("Router setup completed successfully",
		zap.Bool("store_enabled", deps.Store != nil),
		zap.Bool("rate_limit", cfg.RateLimit.Enabled),
		zap.Duration("timeout", cfg.Server.RequestTimeout),
		zap.Int64("max_body_size", cfg.Server.MaxBodySize),
	)

	return router
}
