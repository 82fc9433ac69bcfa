package recipe

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"vitaspoon/internal/core/corpus"
	"vitaspoon/internal/core/matching"
	"vitaspoon/internal/infrastructure/metrics"
	"vitaspoon/internal/pkg/common"

	"go.uber.org/zap"
)

// Stage 本地選擇流程中產生結果的階段
type Stage string

const (
	StageExact       Stage = "exact"
	StageProtein     Stage = "protein"
	StageCuisine     Stage = "cuisine"
	StagePartial     Stage = "partial"
	StageCuisineOnly Stage = "cuisine_only"
	StageRandom      Stage = "random"
	StageSynthesized Stage = "synthesized"
	StageFallback    Stage = "fallback"
)

const (
	stageLimit     = 10
	randomPoolSize = 5
	topK           = 3
)

// Selector 本地食譜選擇器
// --------------------------------------------------
type Selector struct {
	corpus corpus.Provider
	newID  common.IDGenerator
	now    common.Clock

	mu  sync.Mutex
	rng *rand.Rand
}

// Option 選擇器設定
type Option func(*Selector)

// WithRand 指定亂數來源，測試時用固定種子
func WithRand(rng *rand.Rand) Option {
	return func(s *Selector) { s.rng = rng }
}

// WithIDGenerator 指定 ID 產生器
func WithIDGenerator(gen common.IDGenerator) Option {
	return func(s *Selector) { s.newID = gen }
}

// WithClock 指定時間來源
func WithClock(clock common.Clock) Option {
	return func(s *Selector) { s.now = clock }
}

// NewSelector 創建本地食譜選擇器
func NewSelector(c corpus.Provider, opts ...Option) *Selector {
	s := &Selector{
		corpus: c,
		newID:  common.GenerateUUID,
		now:    time.Now,
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GenerateLocal 產生本地食譜，任何情況下都會回傳有效的食譜
func (s *Selector) GenerateLocal(ctx context.Context, input common.UserInput) (result common.Recipe) {
	start := time.Now()
	stage := StageFallback

	defer func() {
		if r := recover(); r != nil {
			common.LogError("本地食譜生成失敗，改用備用食譜", zap.Any("panic", r))
			stage = StageFallback
			result = s.stamp(FallbackRecipe(input), common.SourceLocal)
		}
		metrics.SelectorStage.WithLabelValues(string(stage)).Inc()
		common.LogInfo("本地食譜生成完成",
			zap.String("stage", string(stage)),
			zap.String("title", result.Title),
			zap.Duration("duration", time.Since(start)),
		)
	}()

	var recipes []common.Recipe
	if s.corpus != nil {
		var err error
		recipes, err = s.corpus.GetAllRecipes(ctx)
		if err != nil {
			common.LogWarn("讀取食譜資料集失敗，改以空資料集處理", zap.Error(err))
			recipes = nil
		}
	}

	var picked common.Recipe
	picked, stage = s.Select(recipes, input)
	return s.stamp(picked, picked.Source)
}

// Select 依序嘗試各階段並挑選食譜；沒有任何候選時以範本合成
// 回傳的食譜尚未設定 ID 與建立時間
func (s *Selector) Select(recipes []common.Recipe, input common.UserInput) (common.Recipe, Stage) {
	candidates, stage := s.cascade(recipes, input)
	if len(candidates) == 0 {
		return Synthesize(input), StageSynthesized
	}

	ranked := matching.Recipes(matching.SortByRelevance(
		matching.ScoreByIngredientMatch(candidates, input.AvailableIngredients),
	))
	chosen := ranked[s.intn(min(topK, len(ranked)))]

	common.LogDebug("本地候選食譜",
		zap.String("stage", string(stage)),
		zap.Int("candidates", len(ranked)),
		zap.String("chosen", chosen.Title),
	)
	return Personalize(chosen, input.AvailableIngredients), stage
}

// cascade 回傳第一個產生候選的階段
func (s *Selector) cascade(recipes []common.Recipe, input common.UserInput) ([]common.Recipe, Stage) {
	if len(recipes) == 0 {
		return nil, StageSynthesized
	}

	available := input.AvailableIngredients
	cuisine := input.Preferences.CuisineType

	// 1. 涵蓋全部可用食材
	if len(available) > 0 {
		var full []common.Recipe
		for _, r := range recipes {
			if matching.ContainsAllIngredients(r, available) {
				full = append(full, r)
			}
		}
		full = narrowByCuisine(full, cuisine)
		if out := matching.Filter(full, input, false); len(out) > 0 {
			return limit(out, stageLimit), StageExact
		}
	}

	// 2. 含有指定蛋白質
	if proteins := matching.ClassifyProtein(available); len(proteins) > 0 {
		var withProtein []common.Recipe
		for _, r := range recipes {
			if matching.ContainsAnyIngredient(r, proteins) {
				withProtein = append(withProtein, r)
			}
		}
		withProtein = narrowByCuisine(withProtein, cuisine)
		if out := matching.Filter(withProtein, input, false); len(out) > 0 {
			return out, StageProtein
		}
	}

	// 3. 餐別完全相同，先嚴格後寬鬆
	if cuisine != "" {
		sameCuisine := matching.ByCuisine(recipes, cuisine)
		if out := matching.Filter(sameCuisine, input, true); len(out) > 0 {
			return out, StageCuisine
		}
		if out := matching.Filter(sameCuisine, input, false); len(out) > 0 {
			return out, StageCuisine
		}
	}

	// 4. 至少含一項可用食材
	if len(available) > 0 {
		var partial []common.Recipe
		for _, r := range recipes {
			if matching.ContainsAnyIngredient(r, available) {
				partial = append(partial, r)
			}
		}
		filtered := matching.Filter(partial, input, false)
		ranked := matching.SortByRelevance(matching.ScoreByIngredientMatch(filtered, available))
		if out := matching.Recipes(ranked); len(out) > 0 {
			return limit(out, stageLimit), StagePartial
		}
	}

	// 5. 只看餐別
	if cuisine != "" {
		onlyCuisine := input
		onlyCuisine.AvailableIngredients = nil
		if out := matching.Filter(recipes, onlyCuisine, false); len(out) > 0 {
			return limit(out, stageLimit), StageCuisineOnly
		}
	}

	// 6. 從不含過敏原的食譜中隨機取樣
	safe := matching.WithoutAllergens(recipes, input.DietaryRestrictions.Allergies)
	if len(safe) == 0 {
		return nil, StageSynthesized
	}
	return s.sample(safe, randomPoolSize), StageRandom
}

func (s *Selector) stamp(r common.Recipe, source string) common.Recipe {
	if source == "" {
		source = common.SourceLocal
	}
	r.ID = s.newID()
	r.CreatedAt = common.FormatTimestamp(s.now())
	r.Source = source
	return r
}

func (s *Selector) intn(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Intn(n)
}

func (s *Selector) sample(recipes []common.Recipe, n int) []common.Recipe {
	s.mu.Lock()
	perm := s.rng.Perm(len(recipes))
	s.mu.Unlock()

	n = min(n, len(recipes))
	out := make([]common.Recipe, 0, n)
	for _, i := range perm[:n] {
		out = append(out, recipes[i])
	}
	return out
}

func narrowByCuisine(recipes []common.Recipe, cuisine string) []common.Recipe {
	if cuisine == "" {
		return recipes
	}
	if narrowed := matching.ByCuisine(recipes, cuisine); len(narrowed) > 0 {
		return narrowed
	}
	return recipes
}

func limit(recipes []common.Recipe, n int) []common.Recipe {
	if len(recipes) > n {
		return recipes[:n]
	}
	return recipes
}
