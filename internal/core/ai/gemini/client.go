package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"vitaspoon/internal/core/ai/provider"
	"vitaspoon/internal/infrastructure/config"
	"vitaspoon/internal/pkg/common"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// errModelNotFound 主要模型網址回傳 404，改用備用網址
var errModelNotFound = errors.New("gemini model not found")

type part struct {
	Text string `json:"text"`
}

type content struct {
	Parts []part `json:"parts"`
}

type generationConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type candidate struct {
	Content content `json:"content"`
}

type generateResponse struct {
	Candidates []candidate `json:"candidates"`
	// 舊版 API 會把結果包在 response 內
	Response *struct {
		Candidates []candidate `json:"candidates"`
	} `json:"response,omitempty"`
}

// Client Google Gemini 食譜供應商
type Client struct {
	cfg    config.ProviderConfig
	client *resty.Client
}

// NewClient 創建 Gemini 客戶端
func NewClient(cfg config.ProviderConfig) (*Client, error) {
	if !cfg.Configured() {
		return nil, provider.ErrNotConfigured
	}
	client := resty.New().SetHeader("Content-Type", "application/json")
	if cfg.Timeout > 0 {
		client.SetTimeout(cfg.Timeout)
	}
	return &Client{cfg: cfg, client: client}, nil
}

// Name 供應商名稱
func (c *Client) Name() string { return provider.NameGemini }

// Endpoint 探測網址
func (c *Client) Endpoint() string { return c.cfg.ProbeURL }

// Timeout 生成逾時
func (c *Client) Timeout() time.Duration { return c.cfg.Timeout }

// Generate 生成食譜
func (c *Client) Generate(ctx context.Context, input common.UserInput) (*common.Recipe, error) {
	prompt := provider.BuildRecipePrompt(input)

	text, err := c.generate(ctx, c.cfg.BaseURL, prompt)
	if errors.Is(err, errModelNotFound) && c.cfg.AltURL != "" {
		common.LogWarn("Gemini 主要模型不可用，改用備用模型")
		text, err = c.generate(ctx, c.cfg.AltURL, prompt)
	}
	if err != nil {
		return nil, err
	}
	return provider.ParseRecipe(text, input, provider.NameGemini)
}

func (c *Client) generate(ctx context.Context, url, prompt string) (string, error) {
	body := generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
		GenerationConfig: generationConfig{
			Temperature:     c.cfg.Temperature,
			MaxOutputTokens: c.cfg.MaxTokens,
		},
	}

	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParam("key", c.cfg.APIKey).
		SetBody(body).
		Post(url)
	if err != nil {
		return "", fmt.Errorf("failed to send request to gemini: %w", err)
	}

	switch status := resp.StatusCode(); {
	case status == http.StatusNotFound:
		return "", fmt.Errorf("%w: %w", upstreamError(status), errModelNotFound)
	case status != http.StatusOK:
		common.LogWarn("Gemini 回傳錯誤狀態",
			zap.Int("status_code", status),
			zap.String("model_url", url),
		)
		return "", upstreamError(status)
	}

	var result generateResponse
	if err := common.ParseJSONBytes(resp.Body(), &result); err != nil {
		return "", fmt.Errorf("%w: gemini: %v", provider.ErrMalformedResponse, err)
	}

	candidates := result.Candidates
	if len(candidates) == 0 && result.Response != nil {
		candidates = result.Response.Candidates
	}
	if len(candidates) == 0 || len(candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("%w: gemini", provider.ErrEmptyResponse)
	}
	text := candidates[0].Content.Parts[0].Text
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%w: gemini", provider.ErrEmptyResponse)
	}
	return text, nil
}

// upstreamError 包裝非 200 狀態碼
func upstreamError(status int) error {
	return fmt.Errorf("%w: gemini status %d", provider.ErrUpstream, status)
}
