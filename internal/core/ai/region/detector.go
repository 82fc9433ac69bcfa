package region

import (
	"context"
	"net/http"
	"slices"
	"strings"
	"time"

	"vitaspoon/internal/infrastructure/config"
	"vitaspoon/internal/infrastructure/metrics"
	"vitaspoon/internal/pkg/common"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// Reachability 批次可達性探測
type Reachability interface {
	ProbeAll(ctx context.Context, urls []string) map[string]bool
}

// geoResponse 地理位置查詢結果
type geoResponse struct {
	CountryCode string `json:"country_code"`
}

// Detector 判斷目前是否位於網路受限地區
// --------------------------------------------------
// 先查地理位置；查不到時改用端點探測與時段評分
type Detector struct {
	cfg     config.RegionConfig
	geo     *resty.Client
	prober  Reachability
	vendors []string
	proxy   string
	now     common.Clock
}

// DetectorOption 偵測器選項
type DetectorOption func(*Detector)

// WithClock 替換時鐘
func WithClock(now common.Clock) DetectorOption {
	return func(d *Detector) { d.now = now }
}

// NewDetector 創建地區偵測器
// vendors 為直連供應商的探測網址，proxy 為代理供應商的探測網址
func NewDetector(cfg config.RegionConfig, prober Reachability, vendors []string, proxy string, opts ...DetectorOption) *Detector {
	d := &Detector{
		cfg:     cfg,
		geo:     resty.New().SetTimeout(cfg.GeoTimeout),
		prober:  prober,
		vendors: vendors,
		proxy:   proxy,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Restricted 回傳受限地區訊號
func (d *Detector) Restricted(ctx context.Context) bool {
	if !d.cfg.Enabled {
		return false
	}

	restricted, conclusive := d.lookupCountry(ctx)
	if !conclusive {
		restricted = d.probeScore(ctx) >= 2
	}
	metrics.SetRestricted(restricted)
	return restricted
}

// lookupCountry 依國家代碼判斷，查詢失敗或沒有代碼時 conclusive 為 false
func (d *Detector) lookupCountry(ctx context.Context) (restricted, conclusive bool) {
	if d.cfg.GeoURL == "" {
		return false, false
	}
	ctx, cancel := context.WithTimeout(ctx, d.cfg.GeoTimeout)
	defer cancel()

	resp, err := d.geo.R().SetContext(ctx).Get(d.cfg.GeoURL)
	if err != nil || resp.StatusCode() != http.StatusOK {
		common.LogDebug("地理位置查詢失敗，改用探測", zap.Error(err))
		return false, false
	}

	var geo geoResponse
	if err := common.ParseJSONBytes(resp.Body(), &geo); err != nil {
		return false, false
	}
	code := strings.ToUpper(strings.TrimSpace(geo.CountryCode))
	if code == "" {
		return false, false
	}

	restricted = slices.ContainsFunc(d.cfg.RestrictedCountries, func(c string) bool {
		return strings.EqualFold(c, code)
	})
	common.LogDebug("地理位置查詢完成", zap.String("country", code), zap.Bool("restricted", restricted))
	return restricted, true
}

func (d *Detector) probeScore(ctx context.Context) int {
	targets := append(slices.Clone(d.vendors), d.proxy)
	reach := d.prober.ProbeAll(ctx, targets)

	vendorReach := make([]bool, len(d.vendors))
	for i, url := range d.vendors {
		vendorReach[i] = reach[url]
	}
	score := Score(vendorReach, reach[d.proxy], d.now().Hour(), d.cfg.CongestionStartHour, d.cfg.CongestionEndHour)

	common.LogDebug("地區評分",
		zap.Bools("vendors", vendorReach),
		zap.Bool("proxy", reach[d.proxy]),
		zap.Int("score", score),
	)
	return score
}

// Score 受限地區評分，達到 2 分視為受限
//   - 沒有任何直連供應商可達：+2
//   - 代理可達但至少一個供應商不可達：+1
//   - 位於壅塞時段 [start, end)：+1
func Score(vendorReach []bool, proxyReachable bool, hour, start, end int) int {
	anyReachable := slices.Contains(vendorReach, true)
	anyUnreachable := slices.Contains(vendorReach, false)

	score := 0
	if !anyReachable {
		score += 2
	}
	if proxyReachable && anyUnreachable {
		score++
	}
	if hour >= start && hour < end {
		score++
	}
	return score
}
