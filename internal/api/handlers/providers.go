package handlers

import (
	"context"
	"net/http"

	"vitaspoon/internal/core/ai/service"

	"github.com/gin-gonic/gin"
)

// StatusReporter 回報 AI 備援鏈狀態
type StatusReporter interface {
	Status(ctx context.Context) service.Status
}

// ProviderHandler 供應商狀態處理器
type ProviderHandler struct {
	reporter StatusReporter
}

// NewProviderHandler 創建供應商狀態處理器
func NewProviderHandler(reporter StatusReporter) *ProviderHandler {
	return &ProviderHandler{reporter: reporter}
}

// HandleStatus 回傳供應商順序、可達性與斷路器狀態
func (h *ProviderHandler) HandleStatus(c *gin.Context) {
	c.JSON(http.StatusOK, h.reporter.Status(c.Request.Context()))
}
