package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"vitaspoon/internal/core/ai/cache"
	"vitaspoon/internal/core/ai/provider"
	"vitaspoon/internal/infrastructure/config"
	"vitaspoon/internal/pkg/common"
)

type fakeProvider struct {
	name     string
	endpoint string
	err      error
	panics   bool

	mu    sync.Mutex
	calls int
}

func (f *fakeProvider) Name() string           { return f.name }
func (f *fakeProvider) Endpoint() string       { return f.endpoint }
func (f *fakeProvider) Timeout() time.Duration { return time.Second }

func (f *fakeProvider) Generate(ctx context.Context, input common.UserInput) (*common.Recipe, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.panics {
		panic("vendor exploded")
	}
	if f.err != nil {
		return nil, f.err
	}
	return &common.Recipe{
		Title:        "Receta de " + f.name,
		Ingredients:  []common.Ingredient{{Name: "arroz"}},
		Instructions: []string{"Cocina."},
		CuisineType:  input.Preferences.CuisineType,
		Source:       f.name,
	}, nil
}

func (f *fakeProvider) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeProber struct {
	reach  map[string]bool
	rounds int
}

func (f *fakeProber) ProbeAll(ctx context.Context, urls []string) map[string]bool {
	f.rounds++
	out := make(map[string]bool, len(urls))
	for _, u := range urls {
		out[u] = f.reach[u]
	}
	return out
}

type fakeDetector bool

func (f fakeDetector) Restricted(context.Context) bool { return bool(f) }

type fakeLocal struct {
	calls  int
	panics bool
}

func (f *fakeLocal) GenerateLocal(ctx context.Context, input common.UserInput) common.Recipe {
	f.calls++
	if f.panics {
		panic("corpus exploded")
	}
	return common.Recipe{ID: "local-id", Title: "Receta local", Source: provider.NameLocal}
}

type chain struct {
	openai, gemini, deepseek *fakeProvider
	prober                   *fakeProber
	local                    *fakeLocal
}

func newChain() *chain {
	return &chain{
		openai:   &fakeProvider{name: provider.NameOpenAI, endpoint: "https://openai.test"},
		gemini:   &fakeProvider{name: provider.NameGemini, endpoint: "https://gemini.test"},
		deepseek: &fakeProvider{name: provider.NameDeepSeek, endpoint: "https://openrouter.test"},
		prober: &fakeProber{reach: map[string]bool{
			"https://openai.test":     true,
			"https://gemini.test":     true,
			"https://openrouter.test": true,
		}},
		local: &fakeLocal{},
	}
}

func (c *chain) service(restricted bool, store cache.Store, breaker config.BreakerConfig) *Service {
	n := 0
	return NewService(Dependencies{
		Providers: []provider.Provider{c.openai, c.gemini, c.deepseek},
		ProxyName: provider.NameDeepSeek,
		Prober:    c.prober,
		Detector:  fakeDetector(restricted),
		Local:     c.local,
		Cache:     store,
		Breaker:   breaker,
	},
		WithIDGenerator(func() string { n++; return "chain-id" }),
		WithClock(func() time.Time { return time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC) }),
	)
}

var defaultBreaker = config.BreakerConfig{MaxRequests: 1, Interval: time.Minute, Timeout: time.Minute, FailureThreshold: 3}

func almuerzo() common.UserInput {
	return common.UserInput{Preferences: common.Preferences{CuisineType: "Almuerzo"}}
}

func TestGenerateUsesFirstReachableProvider(t *testing.T) {
	c := newChain()
	r := c.service(false, nil, defaultBreaker).GenerateRecipe(context.Background(), almuerzo())

	if r.Source != provider.NameOpenAI || r.ID != "chain-id" || r.CreatedAt != "2025-03-01T12:00:00Z" {
		t.Fatalf("recipe = %+v", r)
	}
	if c.gemini.Calls() != 0 || c.local.calls != 0 {
		t.Fatal("later providers should not run")
	}
}

func TestGenerateSkipsUnreachable(t *testing.T) {
	c := newChain()
	c.prober.reach["https://openai.test"] = false
	r := c.service(false, nil, defaultBreaker).GenerateRecipe(context.Background(), almuerzo())

	if r.Source != provider.NameGemini || c.openai.Calls() != 0 {
		t.Fatalf("source = %q, openai calls = %d", r.Source, c.openai.Calls())
	}
}

func TestGenerateExhaustsEachProviderOnce(t *testing.T) {
	c := newChain()
	c.openai.err = provider.ErrUpstream
	c.gemini.err = provider.ErrMalformedResponse
	c.deepseek.err = errors.New("timeout")

	r := c.service(false, nil, defaultBreaker).GenerateRecipe(context.Background(), almuerzo())

	if r.Title != "Receta local" {
		t.Fatalf("recipe = %+v", r)
	}
	for _, p := range []*fakeProvider{c.openai, c.gemini, c.deepseek} {
		if p.Calls() != 1 {
			t.Errorf("%s called %d times", p.name, p.Calls())
		}
	}
	if c.local.calls != 1 {
		t.Fatalf("local called %d times", c.local.calls)
	}
	if c.prober.rounds != 3 {
		t.Fatalf("probe rounds = %d, want one per attempt", c.prober.rounds)
	}
}

func TestGenerateNothingReachable(t *testing.T) {
	c := newChain()
	c.prober.reach = map[string]bool{}
	r := c.service(false, nil, defaultBreaker).GenerateRecipe(context.Background(), almuerzo())
	if r.Title != "Receta local" || c.openai.Calls()+c.gemini.Calls()+c.deepseek.Calls() != 0 {
		t.Fatalf("recipe = %+v", r)
	}
}

func TestRestrictedRegionPrefersProxy(t *testing.T) {
	t.Run("proxy reachable", func(t *testing.T) {
		c := newChain()
		r := c.service(true, nil, defaultBreaker).GenerateRecipe(context.Background(), almuerzo())
		if r.Source != provider.NameDeepSeek || c.openai.Calls() != 0 {
			t.Fatalf("source = %q", r.Source)
		}
	})

	t.Run("proxy unreachable", func(t *testing.T) {
		c := newChain()
		c.prober.reach["https://openrouter.test"] = false
		r := c.service(true, nil, defaultBreaker).GenerateRecipe(context.Background(), almuerzo())
		if r.Source != provider.NameOpenAI {
			t.Fatalf("source = %q", r.Source)
		}
	})

	t.Run("proxy fails then nominal order", func(t *testing.T) {
		c := newChain()
		c.deepseek.err = provider.ErrUpstream
		r := c.service(true, nil, defaultBreaker).GenerateRecipe(context.Background(), almuerzo())
		if r.Source != provider.NameOpenAI || c.deepseek.Calls() != 1 {
			t.Fatalf("source = %q, deepseek calls = %d", r.Source, c.deepseek.Calls())
		}
	})
}

func TestOpenBreakerSkipsProvider(t *testing.T) {
	c := newChain()
	c.openai.err = provider.ErrUpstream
	svc := c.service(false, nil, config.BreakerConfig{MaxRequests: 1, Interval: time.Minute, Timeout: time.Hour, FailureThreshold: 1})

	for i := 0; i < 3; i++ {
		if r := svc.GenerateRecipe(context.Background(), almuerzo()); r.Source != provider.NameGemini {
			t.Fatalf("attempt %d: source = %q", i, r.Source)
		}
	}
	if c.openai.Calls() != 1 {
		t.Fatalf("openai called %d times, breaker should reject later calls", c.openai.Calls())
	}

	st := svc.Status(context.Background())
	if st.Providers[0].Breaker != "open" {
		t.Fatalf("breaker = %q", st.Providers[0].Breaker)
	}
}

func TestCompletionCacheHit(t *testing.T) {
	c := newChain()
	store := cache.NewManager(config.CacheConfig{MaxSize: 10, TTL: time.Hour})
	defer store.Close()
	svc := c.service(false, store, defaultBreaker)

	first := svc.GenerateRecipe(context.Background(), almuerzo())
	second := svc.GenerateRecipe(context.Background(), almuerzo())

	if c.openai.Calls() != 1 {
		t.Fatalf("openai called %d times", c.openai.Calls())
	}
	if first.Title != second.Title || second.Source != provider.NameOpenAI {
		t.Fatalf("cached recipe = %+v", second)
	}

	other := almuerzo()
	other.Preferences.CuisineType = "Cena"
	svc.GenerateRecipe(context.Background(), other)
	if c.openai.Calls() != 2 {
		t.Fatal("different prompt should miss the cache")
	}
}

func TestProviderPanicFallsBackToLocal(t *testing.T) {
	c := newChain()
	c.openai.panics = true
	r := c.service(false, nil, defaultBreaker).GenerateRecipe(context.Background(), almuerzo())
	if r.Title != "Receta local" || c.local.calls != 1 {
		t.Fatalf("recipe = %+v", r)
	}
}

func TestLocalPanicReturnsFallbackRecipe(t *testing.T) {
	c := newChain()
	c.prober.reach = map[string]bool{}
	c.local.panics = true
	r := c.service(false, nil, defaultBreaker).GenerateRecipe(context.Background(), almuerzo())
	if r.Title != "Receta Básica Personalizada - Almuerzo" || r.ID != "chain-id" || r.Source != provider.NameLocal {
		t.Fatalf("recipe = %+v", r)
	}
}

func TestNoProvidersGoesLocal(t *testing.T) {
	local := &fakeLocal{}
	svc := NewService(Dependencies{Prober: &fakeProber{}, Detector: fakeDetector(false), Local: local})
	if r := svc.GenerateRecipe(context.Background(), almuerzo()); r.Title != "Receta local" {
		t.Fatalf("recipe = %+v", r)
	}
	if r := svc.GenerateLocal(context.Background(), almuerzo()); r.Title != "Receta local" || local.calls != 2 {
		t.Fatalf("recipe = %+v", r)
	}
}

func TestStatus(t *testing.T) {
	c := newChain()
	c.prober.reach["https://gemini.test"] = false
	st := c.service(true, nil, defaultBreaker).Status(context.Background())

	want := []string{"openai", "gemini", "deepseek", "local"}
	if len(st.Order) != len(want) {
		t.Fatalf("order = %v", st.Order)
	}
	for i := range want {
		if st.Order[i] != want[i] {
			t.Fatalf("order = %v", st.Order)
		}
	}
	if !st.Restricted || st.Cache {
		t.Fatalf("status = %+v", st)
	}
	if !st.Providers[0].Reachable || st.Providers[1].Reachable || !st.Providers[2].Proxy {
		t.Fatalf("providers = %+v", st.Providers)
	}
	if st.Providers[0].Breaker != "closed" {
		t.Fatalf("breaker = %q", st.Providers[0].Breaker)
	}
}
