package health

import (
	"net/http"
	"runtime"
	"time"

	"vitaspoon/internal/core/corpus"
	"vitaspoon/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CorpusState 回報資料集快取狀態
type CorpusState interface {
	State() corpus.State
}

// CacheStats 回報回應快取統計
type CacheStats interface {
	GetStats() map[string]interface{}
}

// HealthResponse 健康檢查響應
type HealthResponse struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Version   string                 `json:"version"`
	Runtime   map[string]interface{} `json:"runtime"`
	Corpus    string                 `json:"corpus"`
	Cache     map[string]interface{} `json:"cache,omitempty"`
}

// Handler 健康檢查處理器
type Handler struct {
	version string
	corpus  CorpusState
	cache   CacheStats
}

// NewHandler 創建健康檢查處理器，cache 可為 nil
func NewHandler(version string, c CorpusState, cache CacheStats) *Handler {
	return &Handler{version: version, corpus: c, cache: cache}
}

// HealthCheck 健康檢查處理器
func (h *Handler) HealthCheck(c *gin.Context) {
	// 獲取運行時信息
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	response := HealthResponse{
		Status:    "ok",
		Timestamp: time.Now(),
		Version:   h.version,
		Runtime: map[string]interface{}{
			"goroutines": runtime.NumGoroutine(),
			"memory": map[string]interface{}{
				"alloc":       m.Alloc,
				"total_alloc": m.TotalAlloc,
				"sys":         m.Sys,
				"num_gc":      m.NumGC,
			},
		},
		Corpus: h.corpus.State().String(),
	}
	if h.cache != nil {
		response.Cache = h.cache.GetStats()
	}

	common.LogDebug("Health check request",
		zap.String("client_ip", c.ClientIP()),
		zap.String("path", c.Request.URL.Path),
	)

	c.JSON(http.StatusOK, response)
}

// ReadinessCheck 資料集載入完成才算就緒
func (h *Handler) ReadinessCheck(c *gin.Context) {
	state := h.corpus.State()
	if state != corpus.StateReady {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "not_ready",
			"corpus": state.String(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"corpus": state.String(),
	})
}

// LivenessCheck 存活檢查處理器
func LivenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "alive",
	})
}
