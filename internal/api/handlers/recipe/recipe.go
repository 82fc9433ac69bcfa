// Package recipe 提供食譜生成、隨機取用、資料集與收藏的 HTTP 處理器
package recipe

import (
	"context"
	"math/rand"
	"net/http"
	"sync"
	"time"

	"vitaspoon/internal/api/middleware"
	"vitaspoon/internal/core/corpus"
	"vitaspoon/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Generator 食譜生成（AI 備援鏈）
type Generator interface {
	GenerateRecipe(ctx context.Context, input common.UserInput) common.Recipe
	GenerateLocal(ctx context.Context, input common.UserInput) common.Recipe
}

// CorpusSource 食譜資料集
type CorpusSource interface {
	Get(ctx context.Context) ([]common.Recipe, error)
	Invalidate()
}

// Handler 食譜處理器
type Handler struct {
	generator Generator
	corpus    CorpusSource
	debug     bool

	mu  sync.Mutex
	rng *rand.Rand
}

// NewHandler 創建食譜處理器
func NewHandler(generator Generator, source CorpusSource, debug bool) *Handler {
	return &Handler{
		generator: generator,
		corpus:    source,
		debug:     debug,
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// HandleGenerate 依備援鏈生成食譜，生成失敗時仍回傳本地食譜
func (h *Handler) HandleGenerate(c *gin.Context) {
	var input common.UserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		common.LogInfo("Invalid generate request", zap.Error(err))
		respondError(c, common.ErrInvalidRequest.Wrap(err), h.debug)
		return
	}

	start := time.Now()
	r := h.generator.GenerateRecipe(c.Request.Context(), input)
	common.LogInfo("Recipe generated",
		zap.String("source", r.Source),
		zap.String("title", r.Title),
		zap.Duration("duration", time.Since(start)),
	)
	middleware.SetRecipe(c, r)
	c.JSON(http.StatusOK, r)
}

// HandleLocal 直接使用本地選擇器
func (h *Handler) HandleLocal(c *gin.Context) {
	var input common.UserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, common.ErrInvalidRequest.Wrap(err), h.debug)
		return
	}
	r := h.generator.GenerateLocal(c.Request.Context(), input)
	middleware.SetRecipe(c, r)
	c.JSON(http.StatusOK, r)
}

// HandleRandom 依查詢條件隨機取一道資料集食譜
func (h *Handler) HandleRandom(c *gin.Context) {
	recipes, err := h.corpus.Get(c.Request.Context())
	if err != nil {
		respondError(c, common.ErrCorpusUnavailable.Wrap(err), h.debug)
		return
	}

	filter := corpus.RandomFilter{
		DietType:        c.Query("diet"),
		CuisineType:     c.Query("cuisine"),
		DifficultyLevel: c.Query("difficulty"),
		PrepTime:        c.Query("prepTime"),
		ElectricityType: c.Query("electricity"),
	}

	h.mu.Lock()
	r, ok := corpus.Random(recipes, filter, h.rng)
	h.mu.Unlock()
	if !ok {
		respondError(c, common.ErrRecipeNotFound, h.debug)
		return
	}
	middleware.SetRecipe(c, r)
	c.JSON(http.StatusOK, r)
}

// HandleOptions 回傳表單選項
func (h *Handler) HandleOptions(c *gin.Context) {
	c.JSON(http.StatusOK, common.DefaultFormOptions())
}

// HandleExport 將資料集匯出為 XLSX
func (h *Handler) HandleExport(c *gin.Context) {
	recipes, err := h.corpus.Get(c.Request.Context())
	if err != nil {
		respondError(c, common.ErrCorpusUnavailable.Wrap(err), h.debug)
		return
	}

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", `attachment; filename="recetas.xlsx"`)
	c.Status(http.StatusOK)
	if err := corpus.ExportXLSX(c.Writer, recipes); err != nil {
		common.LogError("Failed to export corpus", zap.Error(err))
	}
}

// HandleReload 清除資料集快取並重新載入
func (h *Handler) HandleReload(c *gin.Context) {
	h.corpus.Invalidate()
	recipes, err := h.corpus.Get(c.Request.Context())
	if err != nil {
		respondError(c, common.ErrCorpusUnavailable.Wrap(err), h.debug)
		return
	}
	common.LogInfo("Corpus reloaded", zap.Int("recipes", len(recipes)))
	c.JSON(http.StatusOK, gin.H{
		"status":  "reloaded",
		"recipes": len(recipes),
	})
}
