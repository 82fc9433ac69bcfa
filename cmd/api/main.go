package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"vitaspoon/internal/api"
	"vitaspoon/internal/core/ai/cache"
	"vitaspoon/internal/core/ai/gemini"
	"vitaspoon/internal/core/ai/openai"
	"vitaspoon/internal/core/ai/openrouter"
	"vitaspoon/internal/core/ai/provider"
	"vitaspoon/internal/core/ai/region"
	"vitaspoon/internal/core/ai/service"
	"vitaspoon/internal/core/corpus"
	"vitaspoon/internal/core/recipe"
	"vitaspoon/internal/infrastructure/config"
	"vitaspoon/internal/infrastructure/store"
	"vitaspoon/internal/pkg/common"

	"go.uber.org/zap"
)

func main() {
	// 載入設定（含 .env）
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 初始化 logger（需在載入 config 後）
	if err := common.InitLogger(cfg.LogLevel, cfg.LogFile); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer common.Sync()

	common.LogInfo("載入設定",
		zap.String("openai_api_key", common.MaskSecret(cfg.Providers.OpenAI.APIKey)),
		zap.String("gemini_api_key", common.MaskSecret(cfg.Providers.Gemini.APIKey)),
		zap.String("deepseek_api_key", common.MaskSecret(cfg.Providers.OpenRouter.APIKey)),
		zap.String("deepseek_model", cfg.Providers.OpenRouter.Model),
	)

	// 資料集快取與本地選擇器
	corpusCache := corpus.NewCache(corpus.NewLoader(cfg.Corpus.Datasets, cfg.Corpus.XLSXSheet, common.GenerateUUID).Load)
	selector := recipe.NewSelector(corpusCache)

	// 背景預載資料集，失敗時等第一次請求重試
	go func() {
		if _, err := corpusCache.Get(context.Background()); err != nil {
			common.LogWarn("資料集預載失敗", zap.Error(err))
		}
	}()

	providers := buildProviders(cfg)

	prober := region.NewProber(cfg.Region.ProbeTimeout)
	detector := region.NewDetector(cfg.Region, prober,
		[]string{cfg.Providers.OpenAI.ProbeURL, cfg.Providers.Gemini.ProbeURL},
		cfg.Providers.OpenRouter.ProbeURL,
	)

	// 初始化回應快取
	completionCache, err := cache.New(context.Background(), cfg.Cache)
	if err != nil {
		common.LogFatal("Failed to initialize completion cache", zap.Error(err))
	}
	if completionCache != nil {
		defer completionCache.Close()
	}

	aiService := service.NewService(service.Dependencies{
		Providers: providers,
		ProxyName: provider.NameDeepSeek,
		Prober:    prober,
		Detector:  detector,
		Local:     selector,
		Cache:     completionCache,
		Breaker:   cfg.Breaker,
	})

	deps := api.Dependencies{
		Generator: aiService,
		Corpus:    corpusCache,
	}
	if stats, ok := completionCache.(*cache.CacheManager); ok {
		deps.CacheStats = stats
	}
	if cfg.Store.Enabled {
		saved, err := store.Open(cfg.Store.Path)
		if err != nil {
			common.LogFatal("Failed to open saved recipe store", zap.Error(err), zap.String("path", cfg.Store.Path))
		}
		defer saved.Close()
		deps.Store = saved
	}

	router := api.SetupRouter(cfg, deps)

	// 設置 HTTP 服務器
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// 啟動服務器
	go func() {
		common.LogInfo("啟動應用",
			zap.String("version", cfg.App.Version),
			zap.String("env", cfg.App.Env),
			zap.Bool("debug", cfg.App.Debug),
			zap.Int("port", cfg.Server.Port),
		)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			common.LogError("Failed to start server", zap.Error(err))
			os.Exit(1)
		}
	}()

	// 等待中斷信號
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	common.LogInfo("Shutting down server...")

	// 設置關閉超時
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		common.LogError("Server forced to shutdown", zap.Error(err))
		return
	}

	common.LogInfo("Server exited")
}

// buildProviders 依名義順序建立已設定金鑰的供應商
func buildProviders(cfg *config.Config) []provider.Provider {
	var providers []provider.Provider

	if c, err := openai.NewClient(cfg.Providers.OpenAI); err == nil {
		providers = append(providers, c)
	} else {
		common.LogWarn("略過 OpenAI", zap.Error(err))
	}
	if c, err := gemini.NewClient(cfg.Providers.Gemini); err == nil {
		providers = append(providers, c)
	} else {
		common.LogWarn("略過 Gemini", zap.Error(err))
	}
	if c, err := openrouter.NewClient(cfg.Providers.OpenRouter, cfg.Providers.Referer, cfg.Providers.Title); err == nil {
		providers = append(providers, c)
	} else {
		common.LogWarn("略過 DeepSeek", zap.Error(err))
	}
	return providers
}
