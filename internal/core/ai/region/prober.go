package region

import (
	"context"
	"time"

	"vitaspoon/internal/infrastructure/metrics"
	"vitaspoon/internal/pkg/common"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Prober 以 HEAD 請求探測端點可達性
// 任何低於 500 的回應都算可達，401/403 代表需要認證但網路是通的
type Prober struct {
	client  *resty.Client
	timeout time.Duration
}

// NewProber 創建探測器，timeout 為單次探測上限
func NewProber(timeout time.Duration) *Prober {
	return &Prober{
		client:  resty.New().SetTimeout(timeout),
		timeout: timeout,
	}
}

// Reachable 探測單一網址，錯誤或逾時一律視為不可達
func (p *Prober) Reachable(ctx context.Context, url string) bool {
	if url == "" {
		return false
	}
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	resp, err := p.client.R().SetContext(ctx).Head(url)
	if err != nil {
		common.LogDebug("端點探測失敗", zap.String("url", url), zap.Error(err))
		return false
	}
	return resp.StatusCode() < 500
}

// ProbeAll 同時探測所有網址，全部完成或逾時後才回傳
func (p *Prober) ProbeAll(ctx context.Context, urls []string) map[string]bool {
	results := make([]bool, len(urls))

	var g errgroup.Group
	for i, url := range urls {
		g.Go(func() error {
			results[i] = p.Reachable(ctx, url)
			return nil
		})
	}
	g.Wait()

	reach := make(map[string]bool, len(urls))
	for i, url := range urls {
		reach[url] = results[i]
		metrics.RecordProbe(url, results[i])
	}
	return reach
}
