package openrouter

import (
	"context"
	"time"

	"vitaspoon/internal/core/ai/provider"
	"vitaspoon/internal/infrastructure/config"
	"vitaspoon/internal/pkg/common"
)

// Client 經由 OpenRouter 呼叫 DeepSeek 的代理供應商
// 在直連受限的地區通常仍可連線
type Client struct {
	cfg  config.ProviderConfig
	chat *provider.ChatClient
}

// NewClient 創建 OpenRouter 客戶端
// referer 與 title 會放入 OpenRouter 要求的 HTTP-Referer、X-Title 標頭
func NewClient(cfg config.ProviderConfig, referer, title string) (*Client, error) {
	if !cfg.Configured() {
		return nil, provider.ErrNotConfigured
	}
	headers := map[string]string{
		"HTTP-Referer": referer,
		"X-Title":      title,
	}
	return &Client{
		cfg:  cfg,
		chat: provider.NewChatClient(provider.NameDeepSeek, cfg, provider.DeepSeekSystemPrompt, headers),
	}, nil
}

// Name 供應商名稱
func (c *Client) Name() string { return provider.NameDeepSeek }

// Endpoint 探測網址
func (c *Client) Endpoint() string { return c.cfg.ProbeURL }

// Timeout 生成逾時
func (c *Client) Timeout() time.Duration { return c.cfg.Timeout }

// Generate 生成食譜
func (c *Client) Generate(ctx context.Context, input common.UserInput) (*common.Recipe, error) {
	content, err := c.chat.Complete(ctx, provider.BuildRecipePrompt(input))
	if err != nil {
		return nil, err
	}
	return provider.ParseRecipe(content, input, provider.NameDeepSeek)
}
