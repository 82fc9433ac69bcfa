package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"vitaspoon/internal/core/ai/service"
	"vitaspoon/internal/core/corpus"
	"vitaspoon/internal/infrastructure/config"
	"vitaspoon/internal/infrastructure/store"
	"vitaspoon/internal/pkg/common"

	"github.com/gin-gonic/gin"
)

type fakeGenerator struct {
	lastInput common.UserInput
}

func (f *fakeGenerator) GenerateRecipe(ctx context.Context, input common.UserInput) common.Recipe {
	f.lastInput = input
	return common.Recipe{ID: "gen-1", Title: "Arroz con pollo", Source: "openai"}
}

func (f *fakeGenerator) GenerateLocal(ctx context.Context, input common.UserInput) common.Recipe {
	return common.Recipe{ID: "loc-1", Title: "Ensalada", Source: "local"}
}

func (f *fakeGenerator) Status(ctx context.Context) service.Status {
	return service.Status{
		Order:     []string{"openai", "local"},
		Providers: []service.ProviderStatus{{Name: "openai", Reachable: true, Breaker: "closed"}},
	}
}

type fakeCorpus struct {
	recipes     []common.Recipe
	err         error
	state       corpus.State
	invalidated int
}

func (f *fakeCorpus) Get(ctx context.Context) ([]common.Recipe, error) { return f.recipes, f.err }
func (f *fakeCorpus) Invalidate()                                      { f.invalidated++ }
func (f *fakeCorpus) State() corpus.State                              { return f.state }

type memoryStore struct {
	mu      sync.Mutex
	recipes map[string]common.Recipe
}

func (m *memoryStore) Save(ctx context.Context, r common.Recipe) (common.Recipe, error) {
	if strings.TrimSpace(r.Title) == "" {
		return common.Recipe{}, common.NewValidationError("recipe title is required")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if r.ID == "" {
		r.ID = "saved-1"
	}
	r.IsSaved = true
	m.recipes[r.ID] = r
	return r, nil
}

func (m *memoryStore) List(ctx context.Context) ([]common.Recipe, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]common.Recipe, 0, len(m.recipes))
	for _, r := range m.recipes {
		out = append(out, r)
	}
	return out, nil
}

func (m *memoryStore) Get(ctx context.Context, id string) (common.Recipe, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.recipes[id]
	if !ok {
		return common.Recipe{}, store.ErrNotFound
	}
	return r, nil
}

func (m *memoryStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.recipes[id]; !ok {
		return store.ErrNotFound
	}
	delete(m.recipes, id)
	return nil
}

func testConfig() *config.Config {
	gin.SetMode(gin.TestMode)
	return &config.Config{
		App: config.AppConfig{Version: "test", Debug: true},
		Server: config.ServerConfig{
			RequestTimeout: 5 * time.Second,
			MaxBodySize:    1 << 20,
		},
		DedupWindow: time.Millisecond,
	}
}

func sampleCorpus() *fakeCorpus {
	return &fakeCorpus{
		state: corpus.StateReady,
		recipes: []common.Recipe{
			{ID: "a", Title: "Tortilla", DietType: "Vegetariana", CuisineType: "Desayuno"},
			{ID: "b", Title: "Gazpacho (Sin Electricidad)", DietType: "Vegana", CuisineType: "Almuerzo"},
		},
	}
}

func request(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), v); err != nil {
		t.Fatalf("decode %s: %v", w.Body.String(), err)
	}
}

func TestGenerateRoutes(t *testing.T) {
	gen := &fakeGenerator{}
	r := SetupRouter(testConfig(), Dependencies{Generator: gen, Corpus: sampleCorpus()})

	w := request(r, http.MethodPost, "/api/v1/recipe/generate",
		`{"preferences":{"cuisineType":"Cena","dietType":"Vegana"},"availableIngredients":["arroz"]}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d body = %s", w.Code, w.Body.String())
	}
	var got common.Recipe
	decode(t, w, &got)
	if got.Source != "openai" || gen.lastInput.Preferences.CuisineType != "Cena" || len(gen.lastInput.AvailableIngredients) != 1 {
		t.Fatalf("recipe = %+v input = %+v", got, gen.lastInput)
	}

	w = request(r, http.MethodPost, "/api/v1/recipe/local", `{"preferences":{}}`)
	decode(t, w, &got)
	if w.Code != http.StatusOK || got.Source != "local" {
		t.Fatalf("local status = %d recipe = %+v", w.Code, got)
	}

	w = request(r, http.MethodPost, "/api/v1/recipe/generate", `{not json`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("bad json status = %d", w.Code)
	}
}

func TestRandomRoute(t *testing.T) {
	r := SetupRouter(testConfig(), Dependencies{Generator: &fakeGenerator{}, Corpus: sampleCorpus()})

	w := request(r, http.MethodGet, "/api/v1/recipes/random?diet=Vegana", "")
	var got common.Recipe
	decode(t, w, &got)
	if w.Code != http.StatusOK || got.ID != "b" {
		t.Fatalf("status = %d recipe = %+v", w.Code, got)
	}

	w = request(r, http.MethodGet, "/api/v1/recipes/random?electricity="+"Con%20electricidad", "")
	decode(t, w, &got)
	if got.ID != "a" {
		t.Fatalf("electricity filter picked %+v", got)
	}

	empty := SetupRouter(testConfig(), Dependencies{Generator: &fakeGenerator{}, Corpus: &fakeCorpus{state: corpus.StateReady}})
	if w := request(empty, http.MethodGet, "/api/v1/recipes/random", ""); w.Code != http.StatusNotFound {
		t.Fatalf("empty corpus status = %d", w.Code)
	}

	broken := SetupRouter(testConfig(), Dependencies{Generator: &fakeGenerator{}, Corpus: &fakeCorpus{err: errors.New("disk gone")}})
	w = request(broken, http.MethodGet, "/api/v1/recipes/random", "")
	if w.Code != http.StatusServiceUnavailable || !strings.Contains(w.Body.String(), "CORPUS_UNAVAILABLE") {
		t.Fatalf("status = %d body = %s", w.Code, w.Body.String())
	}
}

func TestCorpusRoutes(t *testing.T) {
	c := sampleCorpus()
	r := SetupRouter(testConfig(), Dependencies{Generator: &fakeGenerator{}, Corpus: c})

	w := request(r, http.MethodGet, "/api/v1/corpus/export", "")
	if w.Code != http.StatusOK {
		t.Fatalf("export status = %d", w.Code)
	}
	if !strings.Contains(w.Header().Get("Content-Disposition"), "recetas.xlsx") {
		t.Fatalf("Content-Disposition = %q", w.Header().Get("Content-Disposition"))
	}
	// xlsx 為 zip 格式
	if !strings.HasPrefix(w.Body.String(), "PK") {
		t.Fatal("export body is not an xlsx archive")
	}

	w = request(r, http.MethodPost, "/api/v1/corpus/reload", "")
	if w.Code != http.StatusOK || c.invalidated != 1 {
		t.Fatalf("reload status = %d invalidated = %d", w.Code, c.invalidated)
	}
}

func TestOptionsAndStatus(t *testing.T) {
	r := SetupRouter(testConfig(), Dependencies{Generator: &fakeGenerator{}, Corpus: sampleCorpus()})

	var opts common.FormOptions
	w := request(r, http.MethodGet, "/api/v1/options", "")
	decode(t, w, &opts)
	if len(opts.MealTypes) != 5 || len(opts.ElectricityTypes) != 2 {
		t.Fatalf("options = %+v", opts)
	}

	var st service.Status
	w = request(r, http.MethodGet, "/api/v1/providers/status", "")
	decode(t, w, &st)
	if len(st.Order) != 2 || st.Providers[0].Breaker != "closed" {
		t.Fatalf("status = %+v", st)
	}
}

func TestSavedRoutes(t *testing.T) {
	t.Run("disabled", func(t *testing.T) {
		r := SetupRouter(testConfig(), Dependencies{Generator: &fakeGenerator{}, Corpus: sampleCorpus()})
		w := request(r, http.MethodGet, "/api/v1/saved", "")
		if w.Code != http.StatusServiceUnavailable || !strings.Contains(w.Body.String(), "STORE_UNAVAILABLE") {
			t.Fatalf("status = %d body = %s", w.Code, w.Body.String())
		}
	})

	t.Run("crud", func(t *testing.T) {
		s := &memoryStore{recipes: map[string]common.Recipe{}}
		r := SetupRouter(testConfig(), Dependencies{Generator: &fakeGenerator{}, Corpus: sampleCorpus(), Store: s})

		w := request(r, http.MethodPost, "/api/v1/saved", `{"title":"Sopa"}`)
		var saved common.Recipe
		decode(t, w, &saved)
		if w.Code != http.StatusCreated || !saved.IsSaved || saved.ID == "" {
			t.Fatalf("save status = %d recipe = %+v", w.Code, saved)
		}

		w = request(r, http.MethodPost, "/api/v1/saved", `{"title":""}`)
		if w.Code != http.StatusBadRequest || !strings.Contains(w.Body.String(), common.ErrCodeInvalidRequest) {
			t.Fatalf("empty title status = %d body = %s", w.Code, w.Body.String())
		}

		var list struct {
			Recipes []common.Recipe `json:"recipes"`
		}
		decode(t, request(r, http.MethodGet, "/api/v1/saved", ""), &list)
		if len(list.Recipes) != 1 {
			t.Fatalf("list = %+v", list)
		}

		if w := request(r, http.MethodGet, "/api/v1/saved/"+saved.ID, ""); w.Code != http.StatusOK {
			t.Fatalf("get status = %d", w.Code)
		}
		if w := request(r, http.MethodDelete, "/api/v1/saved/"+saved.ID, ""); w.Code != http.StatusNoContent {
			t.Fatalf("delete status = %d", w.Code)
		}
		if w := request(r, http.MethodGet, "/api/v1/saved/"+saved.ID, ""); w.Code != http.StatusNotFound {
			t.Fatalf("get after delete status = %d", w.Code)
		}
	})
}

type fakeStats map[string]interface{}

func (f fakeStats) GetStats() map[string]interface{} { return f }

func TestHealthReportsCacheStats(t *testing.T) {
	deps := Dependencies{Generator: &fakeGenerator{}, Corpus: sampleCorpus()}
	w := request(SetupRouter(testConfig(), deps), http.MethodGet, "/health", "")
	if strings.Contains(w.Body.String(), `"cache"`) {
		t.Fatalf("cache stats without a cache: %s", w.Body.String())
	}

	deps.CacheStats = fakeStats{"size": 2, "hits": 5}
	w = request(SetupRouter(testConfig(), deps), http.MethodGet, "/health", "")
	var body struct {
		Cache map[string]float64 `json:"cache"`
	}
	decode(t, w, &body)
	if body.Cache["size"] != 2 || body.Cache["hits"] != 5 {
		t.Fatalf("cache = %v", body.Cache)
	}
}

func TestHealthRoutes(t *testing.T) {
	c := &fakeCorpus{state: corpus.StateLoading}
	r := SetupRouter(testConfig(), Dependencies{Generator: &fakeGenerator{}, Corpus: c})

	if w := request(r, http.MethodGet, "/ready", ""); w.Code != http.StatusServiceUnavailable {
		t.Fatalf("ready while loading = %d", w.Code)
	}
	c.state = corpus.StateReady
	if w := request(r, http.MethodGet, "/ready", ""); w.Code != http.StatusOK {
		t.Fatalf("ready = %d", w.Code)
	}
	if w := request(r, http.MethodGet, "/live", ""); w.Code != http.StatusOK {
		t.Fatalf("live = %d", w.Code)
	}
	w := request(r, http.MethodGet, "/health", "")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"corpus":"ready"`) {
		t.Fatalf("health = %d %s", w.Code, w.Body.String())
	}
	if w := request(r, http.MethodGet, "/metrics", ""); w.Code != http.StatusOK {
		t.Fatalf("metrics = %d", w.Code)
	}
}
