package provider

import (
	"context"
	"fmt"
	"net/http"

	"vitaspoon/internal/infrastructure/config"
	"vitaspoon/internal/pkg/common"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// Message 表示與 AI 模型的對話消息
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest chat completions 請求
type ChatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
	Temperature float64   `json:"temperature,omitempty"`
}

// ChatResponse chat completions 響應
type ChatResponse struct {
	ID      string   `json:"id"`
	Choices []Choice `json:"choices"`
	Usage   Usage    `json:"usage"`
}

// Choice 選擇
type Choice struct {
	Message Message `json:"message"`
}

// Usage 使用量
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// ChatClient OpenAI 相容的 chat completions 客戶端
// --------------------------------------------------
type ChatClient struct {
	name         string
	model        string
	maxTokens    int
	temperature  float64
	systemPrompt string
	client       *resty.Client
}

// NewChatClient 創建 chat completions 客戶端，headers 為額外請求頭
func NewChatClient(name string, cfg config.ProviderConfig, systemPrompt string, headers map[string]string) *ChatClient {
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetAuthToken(cfg.APIKey).
		SetHeader("Content-Type", "application/json").
		SetHeaders(headers)
	if cfg.Timeout > 0 {
		client.SetTimeout(cfg.Timeout)
	}

	return &ChatClient{
		name:         name,
		model:        cfg.Model,
		maxTokens:    cfg.MaxTokens,
		temperature:  cfg.Temperature,
		systemPrompt: systemPrompt,
		client:       client,
	}
}

// Complete 送出提示並回傳第一個選擇的文字
func (c *ChatClient) Complete(ctx context.Context, prompt string) (string, error) {
	req := ChatRequest{
		Model: c.model,
		Messages: []Message{
			{Role: "system", Content: c.systemPrompt},
			{Role: "user", Content: prompt},
		},
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
	}

	common.LogDebug("發送 chat completions 請求",
		zap.String("provider", c.name),
		zap.String("model", c.model),
	)

	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(req).
		Post("/chat/completions")
	if err != nil {
		return "", fmt.Errorf("failed to send request to %s: %w", c.name, err)
	}

	if resp.StatusCode() != http.StatusOK {
		common.LogWarn("AI 供應商回傳錯誤狀態",
			zap.String("provider", c.name),
			zap.Int("status_code", resp.StatusCode()),
			zap.String("response", truncate(resp.String(), 300)),
		)
		return "", fmt.Errorf("%w: %s status %d", ErrUpstream, c.name, resp.StatusCode())
	}

	var result ChatResponse
	if err := common.ParseJSONBytes(resp.Body(), &result); err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrMalformedResponse, c.name, err)
	}
	if len(result.Choices) == 0 || result.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("%w: %s", ErrEmptyResponse, c.name)
	}

	common.LogDebug("chat completions 回應成功",
		zap.String("provider", c.name),
		zap.Int("total_tokens", result.Usage.TotalTokens),
	)
	return result.Choices[0].Message.Content, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
