package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"vitaspoon/internal/core/ai/cache"
	"vitaspoon/internal/core/ai/provider"
	"vitaspoon/internal/core/recipe"
	"vitaspoon/internal/infrastructure/config"
	"vitaspoon/internal/infrastructure/metrics"
	"vitaspoon/internal/pkg/common"

	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
)

// LocalGenerator 本地食譜生成
type LocalGenerator interface {
	GenerateLocal(ctx context.Context, input common.UserInput) common.Recipe
}

// RegionDetector 受限地區判斷
type RegionDetector interface {
	Restricted(ctx context.Context) bool
}

// Reachability 批次可達性探測
type Reachability interface {
	ProbeAll(ctx context.Context, urls []string) map[string]bool
}

// Dependencies 服務依賴
type Dependencies struct {
	// Providers 依名義優先順序排列
	Providers []provider.Provider
	// ProxyName 受限地區優先使用的代理供應商
	ProxyName string
	Prober    Reachability
	Detector  RegionDetector
	Local     LocalGenerator
	// Cache 可為 nil
	Cache   cache.Store
	Breaker config.BreakerConfig
}

// Service AI 供應商備援鏈
// --------------------------------------------------
// 依序嘗試可達的供應商，失敗的供應商加入排除集合後重試，
// 全部用盡時改用本地選擇器。GenerateRecipe 不會回傳錯誤。
type Service struct {
	providers []provider.Provider
	proxy     string
	prober    Reachability
	detector  RegionDetector
	local     LocalGenerator
	cache     cache.Store
	breakers  map[string]*gobreaker.CircuitBreaker[*common.Recipe]
	newID     common.IDGenerator
	now       common.Clock
}

// Option 服務選項
type Option func(*Service)

// WithIDGenerator 替換 ID 產生器
func WithIDGenerator(gen common.IDGenerator) Option {
	return func(s *Service) { s.newID = gen }
}

// WithClock 替換時鐘
func WithClock(now common.Clock) Option {
	return func(s *Service) { s.now = now }
}

// NewService 創建備援鏈服務
func NewService(deps Dependencies, opts ...Option) *Service {
	s := &Service{
		providers: deps.Providers,
		proxy:     deps.ProxyName,
		prober:    deps.Prober,
		detector:  deps.Detector,
		local:     deps.Local,
		cache:     deps.Cache,
		breakers:  make(map[string]*gobreaker.CircuitBreaker[*common.Recipe], len(deps.Providers)),
		newID:     common.GenerateUUID,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	for _, p := range deps.Providers {
		s.breakers[p.Name()] = newBreaker(p.Name(), deps.Breaker)
	}

	common.LogInfo("AI 備援鏈已初始化",
		zap.Strings("order", s.order()),
		zap.String("proxy", s.proxy),
		zap.Bool("cache", s.cache != nil),
	)
	return s
}

func newBreaker(name string, cfg config.BreakerConfig) *gobreaker.CircuitBreaker[*common.Recipe] {
	threshold := cfg.FailureThreshold
	if threshold == 0 {
		threshold = 1
	}
	metrics.CircuitBreakerState.WithLabelValues(name).Set(0)

	return gobreaker.NewCircuitBreaker[*common.Recipe](gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			common.LogWarn("斷路器狀態變更",
				zap.String("provider", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateValue(to))
		},
	})
}

func stateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}

// GenerateRecipe 依備援鏈生成食譜
func (s *Service) GenerateRecipe(ctx context.Context, input common.UserInput) (result common.Recipe) {
	defer func() {
		if r := recover(); r != nil {
			common.LogError("備援鏈發生未預期錯誤，改用本地生成", zap.Any("panic", r))
			metrics.LocalFallbacks.WithLabelValues("panic").Inc()
			result = s.generateLocal(ctx, input)
		}
	}()

	if len(s.providers) == 0 {
		metrics.LocalFallbacks.WithLabelValues("no_providers").Inc()
		return s.generateLocal(ctx, input)
	}

	restricted := s.detector.Restricted(ctx)
	remaining := slices.Clone(s.providers)
	excluded := make(map[string]struct{}, len(remaining))
	reason := "exhausted"

	for len(remaining) > 0 {
		chosen := s.choose(ctx, remaining, restricted)
		if chosen == nil {
			common.LogWarn("沒有可達的 AI 供應商", zap.Int("remaining", len(remaining)))
			reason = "unreachable"
			break
		}

		r, err := s.invoke(ctx, chosen, input)
		if err == nil {
			common.LogInfo("AI 供應商生成成功", zap.String("provider", chosen.Name()))
			return s.stamp(*r, chosen.Name())
		}

		common.LogWarn("AI 供應商生成失敗，排除後重試",
			zap.String("provider", chosen.Name()),
			zap.Error(err),
		)
		excluded[chosen.Name()] = struct{}{}
		remaining = slices.DeleteFunc(remaining, func(p provider.Provider) bool {
			_, skip := excluded[p.Name()]
			return skip
		})
	}

	metrics.LocalFallbacks.WithLabelValues(reason).Inc()
	common.LogInfo("改用本地食譜", zap.String("reason", reason))
	return s.generateLocal(ctx, input)
}

// GenerateLocal 略過所有 AI 供應商，直接使用本地選擇器
func (s *Service) GenerateLocal(ctx context.Context, input common.UserInput) common.Recipe {
	metrics.LocalFallbacks.WithLabelValues("forced").Inc()
	return s.generateLocal(ctx, input)
}

// generateLocal 本地生成，連本地都失敗時回傳基本食譜
func (s *Service) generateLocal(ctx context.Context, input common.UserInput) (result common.Recipe) {
	defer func() {
		if r := recover(); r != nil {
			common.LogError("本地生成失敗，回傳基本食譜", zap.Any("panic", r))
			result = s.stamp(recipe.FallbackRecipe(input), provider.NameLocal)
		}
	}()
	return s.local.GenerateLocal(ctx, input)
}

// choose 探測剩餘供應商並挑選一個
// 受限地區且代理可達時優先代理，否則取第一個可達者
func (s *Service) choose(ctx context.Context, remaining []provider.Provider, restricted bool) provider.Provider {
	urls := make([]string, 0, len(remaining))
	for _, p := range remaining {
		urls = append(urls, p.Endpoint())
	}
	reach := s.prober.ProbeAll(ctx, urls)

	if restricted {
		for _, p := range remaining {
			if p.Name() == s.proxy && reach[p.Endpoint()] {
				return p
			}
		}
	}
	for _, p := range remaining {
		if reach[p.Endpoint()] {
			return p
		}
	}
	return nil
}

// invoke 經由回應快取與斷路器呼叫供應商
func (s *Service) invoke(ctx context.Context, p provider.Provider, input common.UserInput) (*common.Recipe, error) {
	name := p.Name()
	prompt := provider.BuildRecipePrompt(input)

	if r, ok := s.cached(ctx, name, prompt); ok {
		metrics.ProviderAttempts.WithLabelValues(name, "cache_hit").Inc()
		return r, nil
	}

	if timeout := p.Timeout(); timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	start := time.Now()
	r, err := s.breakers[name].Execute(func() (*common.Recipe, error) {
		return p.Generate(ctx, input)
	})
	elapsed := time.Since(start)
	metrics.ProviderDuration.WithLabelValues(name).Observe(elapsed.Seconds())
	common.LogProviderCall(name, elapsed, err)

	switch {
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		metrics.ProviderAttempts.WithLabelValues(name, "breaker_open").Inc()
		return nil, fmt.Errorf("%s circuit breaker: %w", name, err)
	case err != nil:
		metrics.ProviderAttempts.WithLabelValues(name, "error").Inc()
		return nil, err
	case r == nil:
		metrics.ProviderAttempts.WithLabelValues(name, "error").Inc()
		return nil, provider.ErrEmptyResponse
	}

	metrics.ProviderAttempts.WithLabelValues(name, "success").Inc()
	s.store(ctx, name, prompt, r)
	return r, nil
}

func (s *Service) cached(ctx context.Context, name, prompt string) (*common.Recipe, bool) {
	if s.cache == nil {
		return nil, false
	}
	raw, err := s.cache.Get(ctx, name, prompt)
	if err != nil {
		if !errors.Is(err, common.ErrCacheMiss) {
			common.LogWarn("讀取回應快取失敗", zap.String("provider", name), zap.Error(err))
		}
		metrics.CompletionCacheMisses.Inc()
		common.LogCacheMiss("completion", name)
		return nil, false
	}
	var r common.Recipe
	if err := common.ParseJSON(raw, &r); err != nil {
		metrics.CompletionCacheMisses.Inc()
		return nil, false
	}
	metrics.CompletionCacheHits.Inc()
	common.LogCacheHit("completion", name)
	return &r, true
}

func (s *Service) store(ctx context.Context, name, prompt string, r *common.Recipe) {
	if s.cache == nil {
		return
	}
	raw, err := common.ToJSON(r)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, name, prompt, raw); err != nil {
		common.LogWarn("寫入回應快取失敗", zap.String("provider", name), zap.Error(err))
	}
}

// stamp 蓋上新的 ID、建立時間與來源
func (s *Service) stamp(r common.Recipe, source string) common.Recipe {
	r.ID = s.newID()
	r.CreatedAt = common.FormatTimestamp(s.now())
	if r.Source == "" {
		r.Source = source
	}
	return r
}

func (s *Service) order() []string {
	names := make([]string, 0, len(s.providers)+1)
	for _, p := range s.providers {
		names = append(names, p.Name())
	}
	return append(names, provider.NameLocal)
}

// ProviderStatus 單一供應商狀態
type ProviderStatus struct {
	Name      string `json:"name"`
	Endpoint  string `json:"endpoint"`
	Reachable bool   `json:"reachable"`
	Breaker   string `json:"breaker"`
	Proxy     bool   `json:"proxy"`
}

// Status 備援鏈狀態
type Status struct {
	Order      []string         `json:"order"`
	Providers  []ProviderStatus `json:"providers"`
	Restricted bool             `json:"restricted"`
	Cache      bool             `json:"cache"`
}

// Status 回報供應商順序、可達性、斷路器狀態與地區訊號
func (s *Service) Status(ctx context.Context) Status {
	urls := make([]string, 0, len(s.providers))
	for _, p := range s.providers {
		urls = append(urls, p.Endpoint())
	}
	reach := s.prober.ProbeAll(ctx, urls)

	st := Status{
		Order:      s.order(),
		Providers:  make([]ProviderStatus, 0, len(s.providers)),
		Restricted: s.detector.Restricted(ctx),
		Cache:      s.cache != nil,
	}
	for _, p := range s.providers {
		st.Providers = append(st.Providers, ProviderStatus{
			Name:      p.Name(),
			Endpoint:  p.Endpoint(),
			Reachable: reach[p.Endpoint()],
			Breaker:   s.breakers[p.Name()].State().String(),
			Proxy:     p.Name() == s.proxy,
		})
	}
	return st
}
