// Package corpus 載入並快取食譜資料集。
// 資料集由內建的精選食譜與外部檔案（CSV、XLSX、HTML 表格）合併而成。
package corpus

import (
	"context"
	"errors"
	"sync"
	"time"

	"vitaspoon/internal/infrastructure/metrics"
	"vitaspoon/internal/pkg/common"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// ErrUnsupportedFormat 不支援的資料集格式
var ErrUnsupportedFormat = errors.New("unsupported dataset format")

// Provider 提供完整的食譜資料集
type Provider interface {
	GetAllRecipes(ctx context.Context) ([]common.Recipe, error)
}

// LoadFunc 實際載入資料集的函式
type LoadFunc func(ctx context.Context) ([]common.Recipe, error)

// State 快取狀態
type State int

const (
	StateEmpty State = iota
	StateLoading
	StateReady
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	default:
		return "empty"
	}
}

const loadKey = "corpus"

// Cache 只載入一次的資料集快取
// 載入期間的並行呼叫共用同一次載入；載入失敗時回到 empty 讓下次重試
// --------------------------------------------------
type Cache struct {
	load  LoadFunc
	group singleflight.Group

	mu         sync.RWMutex
	state      State
	recipes    []common.Recipe
	generation uint64
}

// NewCache 創建資料集快取
func NewCache(load LoadFunc) *Cache {
	return &Cache{load: load}
}

// GetAllRecipes 實作 Provider
func (c *Cache) GetAllRecipes(ctx context.Context) ([]common.Recipe, error) {
	return c.Get(ctx)
}

// Get 取得資料集，第一次呼叫時載入
// 回傳的切片為唯讀快照，呼叫端不可修改
func (c *Cache) Get(ctx context.Context) ([]common.Recipe, error) {
	c.mu.RLock()
	if c.state == StateReady {
		recipes := c.recipes
		c.mu.RUnlock()
		return recipes, nil
	}
	c.mu.RUnlock()

	ch := c.group.DoChan(loadKey, func() (interface{}, error) {
		return c.doLoad()
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]common.Recipe), nil
	}
}

func (c *Cache) doLoad() ([]common.Recipe, error) {
	c.mu.Lock()
	if c.state == StateReady {
		recipes := c.recipes
		c.mu.Unlock()
		return recipes, nil
	}
	c.state = StateLoading
	gen := c.generation
	c.mu.Unlock()

	start := time.Now()
	// 載入不受單一呼叫端取消影響，其他等待者仍需要結果
	recipes, err := c.load(context.Background())
	metrics.CorpusLoadDuration.Observe(time.Since(start).Seconds())

	c.mu.Lock()
	defer c.mu.Unlock()

	if err != nil {
		if c.generation == gen {
			c.state = StateEmpty
		}
		common.LogError("載入食譜資料集失敗", zap.Error(err))
		return nil, err
	}

	if c.generation == gen {
		c.recipes = recipes
		c.state = StateReady
		metrics.CorpusSize.Set(float64(len(recipes)))
	}
	common.LogInfo("食譜資料集已載入",
		zap.Int("recipes", len(recipes)),
		zap.Duration("duration", time.Since(start)),
	)
	return recipes, nil
}

// Invalidate 清除快取，下次 Get 重新載入
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generation++
	c.state = StateEmpty
	c.recipes = nil
	c.group.Forget(loadKey)
}

// State 目前的快取狀態
func (c *Cache) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}
