package openai

import (
	"context"
	"time"

	"vitaspoon/internal/core/ai/provider"
	"vitaspoon/internal/infrastructure/config"
	"vitaspoon/internal/pkg/common"
)

// Client OpenAI 食譜供應商
type Client struct {
	cfg  config.ProviderConfig
	chat *provider.ChatClient
}

// NewClient 創建 OpenAI 客戶端，未設定金鑰時回傳 ErrNotConfigured
func NewClient(cfg config.ProviderConfig) (*Client, error) {
	if !cfg.Configured() {
		return nil, provider.ErrNotConfigured
	}
	return &Client{
		cfg:  cfg,
		chat: provider.NewChatClient(provider.NameOpenAI, cfg, provider.SystemPrompt, nil),
	}, nil
}

// Name 供應商名稱
func (c *Client) Name() string { return provider.NameOpenAI }

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
	return provider.ParseRecipe(content, input, provider.NameOpenAI)
}
