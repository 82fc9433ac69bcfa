package cache

import (
	"context"
	"errors"
	"fmt"

	"vitaspoon/internal/infrastructure/config"
	"vitaspoon/internal/pkg/common"

	"github.com/go-redis/redis/v8"
)

const redisKeyPrefix = "vitaspoon:completion:"

// RedisStore Redis 快取後端，多個實例可共用
type RedisStore struct {
	client *redis.Client
	cfg    config.CacheConfig
}

// NewRedisStore 創建 Redis 快取並測試連線
func NewRedisStore(ctx context.Context, cfg config.CacheConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	// 測試連接
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisStore{client: client, cfg: cfg}, nil
}

// Get 取得快取
func (s *RedisStore) Get(ctx context.Context, provider, prompt string) (string, error) {
	val, err := s.client.Get(ctx, redisKey(provider, prompt)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", common.ErrCacheMiss
		}
		return "", fmt.Errorf("failed to get cache: %w", err)
	}
	return val, nil
}

// Set 設置快取
func (s *RedisStore) Set(ctx context.Context, provider, prompt, value string) error {
	if err := s.client.Set(ctx, redisKey(provider, prompt), value, s.cfg.TTL).Err(); err != nil {
		return fmt.Errorf("failed to set cache: %w", err)
	}
	return nil
}

// Close 關閉連線
func (s *RedisStore) Close() error {
	return s.client.Close()
}

func redisKey(provider, prompt string) string {
	return redisKeyPrefix + generateKey(provider, prompt)
}

// New 依設定建立快取後端，停用時回傳 nil
func New(ctx context.Context, cfg config.CacheConfig) (Store, error) {
	if !cfg.Enabled {
		common.LogInfo("回應快取已停用")
		return nil, nil
	}
	switch cfg.Backend {
	case "redis":
		s, err := NewRedisStore(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return NewManager(cfg), nil
	}
}
