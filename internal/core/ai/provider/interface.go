package provider

import (
	"context"
	"errors"
	"time"

	"vitaspoon/internal/pkg/common"
)

// 供應商名稱，同時作為食譜的 source 標記
const (
	NameOpenAI   = "openai"
	NameGemini   = "gemini"
	NameDeepSeek = "deepseek"
	NameLocal    = "local"
)

// 供應商錯誤
var (
	ErrNotConfigured     = errors.New("provider not configured")
	ErrUpstream          = errors.New("upstream returned error status")
	ErrMalformedResponse = errors.New("malformed provider response")
	ErrEmptyResponse     = errors.New("empty provider response")
)

// Provider 定義 AI 食譜供應商介面
type Provider interface {
	// Name 供應商名稱
	Name() string

	// Endpoint 可達性探測使用的網址
	Endpoint() string

	// Timeout 單次生成的逾時
	Timeout() time.Duration

	// Generate 生成食譜，任何失敗都回傳錯誤
	Generate(ctx context.Context, input common.UserInput) (*common.Recipe, error)
}
