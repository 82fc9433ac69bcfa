package recipe

import (
	"context"
	"errors"
	"net/http"

	"vitaspoon/internal/infrastructure/store"
	"vitaspoon/internal/pkg/common"

	"github.com/gin-gonic/gin"
)

// SavedStore 收藏食譜儲存
type SavedStore interface {
	Save(ctx context.Context, r common.Recipe) (common.Recipe, error)
	List(ctx context.Context) ([]common.Recipe, error)
	Get(ctx context.Context, id string) (common.Recipe, error)
	Delete(ctx context.Context, id string) error
}

// SavedHandler 收藏處理器，store 為 nil 時所有操作回 503
type SavedHandler struct {
	store SavedStore
	debug bool
}

// NewSavedHandler 創建收藏處理器
func NewSavedHandler(s SavedStore, debug bool) *SavedHandler {
	return &SavedHandler{store: s, debug: debug}
}

func (h *SavedHandler) available(c *gin.Context) bool {
	if h.store == nil {
		respondError(c, common.ErrStoreUnavailable, h.debug)
		return false
	}
	return true
}

// HandleSave 收藏食譜
func (h *SavedHandler) HandleSave(c *gin.Context) {
	if !h.available(c) {
		return
	}
	var r common.Recipe
	if err := c.ShouldBindJSON(&r); err != nil {
		respondError(c, common.ErrInvalidRequest.Wrap(err), h.debug)
		return
	}
	saved, err := h.store.Save(c.Request.Context(), r)
	if err != nil {
		respondError(c, h.storeError(err), h.debug)
		return
	}
	c.JSON(http.StatusCreated, saved)
}

// HandleList 列出收藏
func (h *SavedHandler) HandleList(c *gin.Context) {
	if !h.available(c) {
		return
	}
	recipes, err := h.store.List(c.Request.Context())
	if err != nil {
		respondError(c, asCustomError(err, common.ErrInternalError), h.debug)
		return
	}
	c.JSON(http.StatusOK, gin.H{"recipes": recipes})
}

// HandleGet 取得單一收藏
func (h *SavedHandler) HandleGet(c *gin.Context) {
	if !h.available(c) {
		return
	}
	r, err := h.store.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.storeError(err), h.debug)
		return
	}
	c.JSON(http.StatusOK, r)
}

// HandleDelete 刪除收藏
func (h *SavedHandler) HandleDelete(c *gin.Context) {
	if !h.available(c) {
		return
	}
	if err := h.store.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.storeError(err), h.debug)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *SavedHandler) storeError(err error) *common.CustomError {
	if errors.Is(err, store.ErrNotFound) {
		return common.ErrRecipeNotFound.Wrap(err)
	}
	if common.IsValidationError(err) {
		return common.ErrInvalidRequest.Wrap(err)
	}
	return asCustomError(err, common.ErrInternalError)
}
