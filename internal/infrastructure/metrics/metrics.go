package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// 食譜生成相關 Prometheus 指標
var (
	// AI 供應商
	ProviderAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vitaspoon_provider_attempts_total",
			Help: "Total number of recipe generation attempts per provider",
		},
		[]string{"provider", "outcome"}, // outcome: success, error, breaker_open
	)

	ProviderDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "vitaspoon_provider_duration_seconds",
			Help:    "Duration of provider generation calls in seconds",
			Buckets: []float64{.25, .5, 1, 2, 5, 10, 20, 30},
		},
		[]string{"provider"},
	)

	LocalFallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vitaspoon_local_fallbacks_total",
			Help: "Total number of generations served by the local selector",
		},
		[]string{"reason"}, // no_providers, exhausted, panic, forced
	)

	// 本地選擇器
	SelectorStage = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vitaspoon_selector_stage_total",
			Help: "Local selector stage that produced the returned recipe",
		},
		[]string{"stage"},
	)

	// 連線探測與地區偵測
	ProbeResults = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vitaspoon_probe_results_total",
			Help: "Reachability probe results per target",
		},
		[]string{"target", "reachable"},
	)

	RestrictedRegion = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "vitaspoon_restricted_region",
			Help: "Last restricted-region signal (1 = restricted)",
		},
	)

	// 斷路器
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "vitaspoon_circuit_breaker_state",
			Help: "Circuit breaker state per provider (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	// 食譜資料集
	CorpusSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "vitaspoon_corpus_recipes",
			Help: "Number of recipes in the loaded corpus",
		},
	)

	CorpusLoadDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "vitaspoon_corpus_load_duration_seconds",
			Help:    "Duration of corpus loads in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// 回應快取
	CompletionCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "vitaspoon_completion_cache_hits_total",
			Help: "Total number of provider completion cache hits",
		},
	)

	CompletionCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "vitaspoon_completion_cache_misses_total",
			Help: "Total number of provider completion cache misses",
		},
	)
)

// RecordProbe 記錄單次探測結果
func RecordProbe(target string, reachable bool) {
	label := "false"
	if reachable {
		label = "true"
	}
	ProbeResults.WithLabelValues(target, label).Inc()
}

// SetRestricted 更新地區訊號
func SetRestricted(restricted bool) {
	if restricted {
		RestrictedRegion.Set(1)
		return
	}
	RestrictedRegion.Set(0)
}
