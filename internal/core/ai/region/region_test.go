package region

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"vitaspoon/internal/infrastructure/config"
)

func statusServer(status int) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodHead {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		w.WriteHeader(status)
	}))
}

func TestProberStatusClassification(t *testing.T) {
	tests := []struct {
		status int
		want   bool
	}{
		{http.StatusOK, true},
		{http.StatusUnauthorized, true},
		{http.StatusForbidden, true},
		{http.StatusNotFound, true},
		{http.StatusMethodNotAllowed, true},
		{http.StatusInternalServerError, false},
		{http.StatusServiceUnavailable, false},
	}
	p := NewProber(time.Second)
	for _, tt := range tests {
		srv := statusServer(tt.status)
		if got := p.Reachable(context.Background(), srv.URL); got != tt.want {
			t.Errorf("status %d: reachable = %v, want %v", tt.status, got, tt.want)
		}
		srv.Close()
	}
}

func TestProberUnreachable(t *testing.T) {
	srv := statusServer(http.StatusOK)
	url := srv.URL
	srv.Close()

	p := NewProber(200 * time.Millisecond)
	if p.Reachable(context.Background(), url) {
		t.Fatal("closed server should be unreachable")
	}
	if p.Reachable(context.Background(), "") {
		t.Fatal("empty url should be unreachable")
	}
}

func TestProberTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	p := NewProber(50 * time.Millisecond)
	start := time.Now()
	if p.Reachable(context.Background(), srv.URL) {
		t.Fatal("slow endpoint should be unreachable")
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Fatalf("probe took %v", elapsed)
	}
}

func TestProbeAll(t *testing.T) {
	ok := statusServer(http.StatusForbidden)
	defer ok.Close()
	down := statusServer(http.StatusBadGateway)
	defer down.Close()

	reach := NewProber(time.Second).ProbeAll(context.Background(), []string{ok.URL, down.URL})
	if len(reach) != 2 || !reach[ok.URL] || reach[down.URL] {
		t.Fatalf("reach = %v", reach)
	}
}

func TestScore(t *testing.T) {
	tests := []struct {
		name    string
		vendors []bool
		proxy   bool
		hour    int
		want    int
	}{
		{"all reachable daytime", []bool{true, true}, true, 10, 0},
		{"all reachable evening", []bool{true, true}, true, 20, 1},
		{"one blocked proxy up", []bool{true, false}, true, 10, 1},
		{"one blocked proxy up evening", []bool{true, false}, true, 19, 2},
		{"all blocked proxy down", []bool{false, false}, false, 10, 2},
		{"all blocked proxy up", []bool{false, false}, true, 10, 3},
		{"all blocked proxy up evening", []bool{false, false}, true, 23, 4},
		{"window end is exclusive", []bool{true, true}, false, 24, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Score(tt.vendors, tt.proxy, tt.hour, 18, 24); got != tt.want {
				t.Fatalf("score = %d, want %d", got, tt.want)
			}
		})
	}
}

type fakeReach map[string]bool

func (f fakeReach) ProbeAll(ctx context.Context, urls []string) map[string]bool {
	out := make(map[string]bool, len(urls))
	for _, u := range urls {
		out[u] = f[u]
	}
	return out
}

func geoServer(body string, status int) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		io.WriteString(w, body)
	}))
}

func regionConfig(geoURL string) config.RegionConfig {
	return config.RegionConfig{
		Enabled:             true,
		GeoURL:              geoURL,
		GeoTimeout:          time.Second,
		RestrictedCountries: []string{"CU", "IR", "KP", "SY"},
		CongestionStartHour: 18,
		CongestionEndHour:   24,
	}
}

func TestDetectorGeolocation(t *testing.T) {
	// 探測結果全部可達，只有地理位置能決定結果
	reach := fakeReach{"openai": true, "gemini": true, "proxy": true}

	tests := []struct {
		body string
		want bool
	}{
		{`{"country_code":"CU"}`, true},
		{`{"country_code":"ir"}`, true},
		{`{"country_code":"ES"}`, false},
	}
	for _, tt := range tests {
		srv := geoServer(tt.body, http.StatusOK)
		d := NewDetector(regionConfig(srv.URL), reach, []string{"openai", "gemini"}, "proxy")
		if got := d.Restricted(context.Background()); got != tt.want {
			t.Errorf("%s: restricted = %v, want %v", tt.body, got, tt.want)
		}
		srv.Close()
	}
}

func TestDetectorFallsBackToProbes(t *testing.T) {
	evening := func() time.Time { return time.Date(2025, 3, 1, 20, 0, 0, 0, time.Local) }
	morning := func() time.Time { return time.Date(2025, 3, 1, 9, 0, 0, 0, time.Local) }

	tests := []struct {
		name  string
		geo   *httptest.Server
		reach fakeReach
		clock func() time.Time
		want  bool
	}{
		{"geo error, vendors blocked", geoServer("", http.StatusTooManyRequests), fakeReach{"proxy": true}, morning, true},
		{"empty code, all reachable", geoServer(`{"country_code":""}`, http.StatusOK), fakeReach{"openai": true, "gemini": true, "proxy": true}, evening, false},
		{"bad json, one blocked in evening", geoServer(`nope`, http.StatusOK), fakeReach{"openai": true, "proxy": true}, evening, true},
		{"one blocked in morning", geoServer("", http.StatusInternalServerError), fakeReach{"openai": true, "proxy": true}, morning, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer tt.geo.Close()
			d := NewDetector(regionConfig(tt.geo.URL), tt.reach, []string{"openai", "gemini"}, "proxy", WithClock(tt.clock))
			if got := d.Restricted(context.Background()); got != tt.want {
				t.Fatalf("restricted = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDetectorDisabled(t *testing.T) {
	cfg := regionConfig("")
	cfg.Enabled = false
	d := NewDetector(cfg, fakeReach{}, []string{"openai"}, "proxy")
	if d.Restricted(context.Background()) {
		t.Fatal("disabled detector should never report restricted")
	}
}
