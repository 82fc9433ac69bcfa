package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config 應用配置
type Config struct {
	App         AppConfig       `mapstructure:"app"`
	Server      ServerConfig    `mapstructure:"server"`
	Providers   ProvidersConfig `mapstructure:"providers"`
	Breaker     BreakerConfig   `mapstructure:"breaker"`
	Region      RegionConfig    `mapstructure:"region"`
	Corpus      CorpusConfig    `mapstructure:"corpus"`
	Cache       CacheConfig     `mapstructure:"cache"`
	Store       StoreConfig     `mapstructure:"store"`
	RateLimit   RateLimitConfig `mapstructure:"rate_limit"`
	DedupWindow time.Duration   `mapstructure:"dedup_window"`
	LogLevel    string          `mapstructure:"log_level"`
	LogFile     string          `mapstructure:"log_file"`
}

// AppConfig 應用程式設定
type AppConfig struct {
	Env     string `mapstructure:"env"`
	Debug   bool   `mapstructure:"debug"`
	Version string `mapstructure:"version"`
	Name    string `mapstructure:"name"`
}

// ServerConfig 服務器配置
type ServerConfig struct {
	Port           int           `mapstructure:"port"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	IdleTimeout    time.Duration `mapstructure:"idle_timeout"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	MaxBodySize    int64         `mapstructure:"max_body_size"`
}

// ProviderConfig 單一 AI 供應商設定
type ProviderConfig struct {
	APIKey      string        `mapstructure:"api_key"`
	Model       string        `mapstructure:"model"`
	BaseURL     string        `mapstructure:"base_url"`
	AltURL      string        `mapstructure:"alt_url"`
	ProbeURL    string        `mapstructure:"probe_url"`
	MaxTokens   int           `mapstructure:"max_tokens"`
	Temperature float64       `mapstructure:"temperature"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

// Configured 是否已設定金鑰
func (p ProviderConfig) Configured() bool {
	return strings.TrimSpace(p.APIKey) != ""
}

// ProvidersConfig AI 供應商設定，順序固定為 openai、gemini、openrouter
type ProvidersConfig struct {
	OpenAI     ProviderConfig `mapstructure:"openai"`
	Gemini     ProviderConfig `mapstructure:"gemini"`
	OpenRouter ProviderConfig `mapstructure:"openrouter"`
	Referer    string         `mapstructure:"referer"`
	Title      string         `mapstructure:"title"`
}

// BreakerConfig 斷路器設定
type BreakerConfig struct {
	MaxRequests      uint32        `mapstructure:"max_requests"`
	Interval         time.Duration `mapstructure:"interval"`
	Timeout          time.Duration `mapstructure:"timeout"`
	FailureThreshold uint32        `mapstructure:"failure_threshold"`
}

// RegionConfig 地區偵測設定
type RegionConfig struct {
	Enabled             bool          `mapstructure:"enabled"`
	GeoURL              string        `mapstructure:"geo_url"`
	GeoTimeout          time.Duration `mapstructure:"geo_timeout"`
	ProbeTimeout        time.Duration `mapstructure:"probe_timeout"`
	RestrictedCountries []string      `mapstructure:"restricted_countries"`
	CongestionStartHour int           `mapstructure:"congestion_start_hour"`
	CongestionEndHour   int           `mapstructure:"congestion_end_hour"`
}

// CorpusConfig 食譜資料集設定
type CorpusConfig struct {
	Datasets  []string `mapstructure:"datasets"`
	XLSXSheet string   `mapstructure:"xlsx_sheet"`
}

// CacheConfig 緩存配置
type CacheConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	Backend         string        `mapstructure:"backend"`
	MaxSize         int           `mapstructure:"max_size"`
	TTL             time.Duration `mapstructure:"ttl"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
	RedisAddr       string        `mapstructure:"redis_addr"`
	RedisPassword   string        `mapstructure:"redis_password"`
	RedisDB         int           `mapstructure:"redis_db"`
}

// StoreConfig 收藏資料庫設定
type StoreConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// RateLimitConfig 速率限制配置
type RateLimitConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Requests int           `mapstructure:"requests"`
	Window   time.Duration `mapstructure:"window"`
}

// LoadConfig 載入設定
func LoadConfig() (*Config, error) {
	// .env 不存在時略過
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	// 設定環境變數前綴
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// 綁定環境變量
	bindings := map[string]string{
		"providers.openai.api_key":     "OPENAI_API_KEY",
		"providers.gemini.api_key":     "GEMINI_API_KEY",
		"providers.openrouter.api_key": "DEEPSEEK_API_KEY",
		"providers.openrouter.model":   "DEEPSEEK_MODEL",
		"cache.enabled":                "CACHE_ENABLED",
		"cache.backend":                "CACHE_BACKEND",
		"cache.redis_addr":             "REDIS_ADDR",
		"corpus.datasets":              "RECIPE_DATASETS",
		"store.path":                   "STORE_PATH",
		"rate_limit.enabled":           "RATE_LIMIT_ENABLED",
		"rate_limit.requests":          "RATE_LIMIT_REQUESTS",
		"rate_limit.window":            "RATE_LIMIT_WINDOW",
		"dedup_window":                 "DEDUP_WINDOW",
		"log_level":                    "LOG_LEVEL",
	}
	for key, env := range bindings {
		if err := v.BindEnv(key, "APP_"+strings.ToUpper(strings.ReplaceAll(key, ".", "_")), env); err != nil {
			return nil, fmt.Errorf("failed to bind env %s: %w", env, err)
		}
	}

	// 設定檔（可選）
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

// setDefaults 設定預設值
func setDefaults(v *viper.Viper) {
	// 應用程式設定
	v.SetDefault("app.env", "development")
	v.SetDefault("app.debug", true)
	v.SetDefault("app.version", "1.0.0")
	v.SetDefault("app.name", "vitaspoon")

	// 伺服器設定
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "60s")
	v.SetDefault("server.idle_timeout", "120s")
	v.SetDefault("server.request_timeout", "45s")
	v.SetDefault("server.max_body_size", 1<<20) // 1MB

	// AI 供應商
	v.SetDefault("providers.openai.model", "gpt-4o-mini")
	v.SetDefault("providers.openai.base_url", "https://api.openai.com/v1")
	v.SetDefault("providers.openai.probe_url", "https://api.openai.com/v1/models")
	v.SetDefault("providers.openai.max_tokens", 800)
	v.SetDefault("providers.openai.temperature", 0.7)
	v.SetDefault("providers.openai.timeout", "15s")

	v.SetDefault("providers.gemini.model", "gemini-2.0-flash")
	v.SetDefault("providers.gemini.base_url", "https://generativelanguage.googleapis.com/v1beta/models/gemini-2.0-flash:generateContent")
	v.SetDefault("providers.gemini.alt_url", "https://generativelanguage.googleapis.com/v1beta/models/gemini-pro:generateContent")
	v.SetDefault("providers.gemini.probe_url", "https://generativelanguage.googleapis.com/v1beta/models")
	v.SetDefault("providers.gemini.max_tokens", 2048)
	v.SetDefault("providers.gemini.temperature", 0.9)
	v.SetDefault("providers.gemini.timeout", "15s")

	v.SetDefault("providers.openrouter.model", "deepseek/deepseek-chat")
	v.SetDefault("providers.openrouter.base_url", "https://openrouter.ai/api/v1")
	v.SetDefault("providers.openrouter.probe_url", "https://openrouter.ai/api/v1/models")
	v.SetDefault("providers.openrouter.max_tokens", 800)
	v.SetDefault("providers.openrouter.temperature", 0.7)
	v.SetDefault("providers.openrouter.timeout", "20s")

	v.SetDefault("providers.referer", "https://vitaspoon.com")
	v.SetDefault("providers.title", "VitaSpoon Recipe Generator")

	// 斷路器
	v.SetDefault("breaker.max_requests", 1)
	v.SetDefault("breaker.interval", "1m")
	v.SetDefault("breaker.timeout", "30s")
	v.SetDefault("breaker.failure_threshold", 3)

	// 地區偵測
	v.SetDefault("region.enabled", true)
	v.SetDefault("region.geo_url", "https://ipapi.co/json/")
	v.SetDefault("region.geo_timeout", "3s")
	v.SetDefault("region.probe_timeout", "3s")
	v.SetDefault("region.restricted_countries", []string{"CU", "IR", "KP", "SY"})
	v.SetDefault("region.congestion_start_hour", 18)
	v.SetDefault("region.congestion_end_hour", 24)

	// 食譜資料集
	v.SetDefault("corpus.datasets", []string{})
	v.SetDefault("corpus.xlsx_sheet", "")

	// 快取設定
	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.backend", "memory")
	v.SetDefault("cache.max_size", 1000)
	v.SetDefault("cache.ttl", "1h")
	v.SetDefault("cache.cleanup_interval", "10m")
	v.SetDefault("cache.redis_addr", "localhost:6379")
	v.SetDefault("cache.redis_db", 0)

	// 收藏資料庫
	v.SetDefault("store.enabled", true)
	v.SetDefault("store.path", "data/vitaspoon.db")

	// 限流設定
	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.requests", 60)
	v.SetDefault("rate_limit.window", "1m")

	v.SetDefault("dedup_window", "1s")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_file", "logs/app.log")
}

// validateConfig 驗證設定
func validateConfig(config *Config) error {
	if config.Server.Port <= 0 {
		return fmt.Errorf("server port is required")
	}
	if config.Server.RequestTimeout <= 0 {
		return fmt.Errorf("invalid request timeout")
	}

	if config.Cache.Enabled {
		switch config.Cache.Backend {
		case "memory":
			if config.Cache.MaxSize <= 0 {
				return fmt.Errorf("invalid cache max size")
			}
			if config.Cache.CleanupInterval <= 0 {
				return fmt.Errorf("invalid cache cleanup interval")
			}
		case "redis":
			if config.Cache.RedisAddr == "" {
				return fmt.Errorf("redis address is required")
			}
		default:
			return fmt.Errorf("unknown cache backend %q", config.Cache.Backend)
		}
		if config.Cache.TTL <= 0 {
			return fmt.Errorf("invalid cache ttl")
		}
	}

	if config.Region.CongestionStartHour < 0 || config.Region.CongestionEndHour > 24 ||
		config.Region.CongestionStartHour > config.Region.CongestionEndHour {
		return fmt.Errorf("invalid congestion window %d-%d",
			config.Region.CongestionStartHour, config.Region.CongestionEndHour)
	}

	if config.Store.Enabled && config.Store.Path == "" {
		return fmt.Errorf("store path is required")
	}

	if config.RateLimit.Enabled && (config.RateLimit.Requests <= 0 || config.RateLimit.Window <= 0) {
		return fmt.Errorf("invalid rate limit")
	}

	return nil
}
