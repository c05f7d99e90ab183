package coingecko

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/crypto-navi/api/internal/config"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, rateLimitMS int) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client := New(&config.CoinGeckoConfig{
		BaseURL:     server.URL,
		RateLimitMS: rateLimitMS,
		TimeoutMS:   2000,
	})
	return client, server
}

func TestTopCoinsClampsLimit(t *testing.T) {
	var gotPerPage string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPerPage = r.URL.Query().Get("per_page")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":"bitcoin","symbol":"btc","name":"Bitcoin","current_price":15234567}]`))
	}, 1)

	coins, err := client.TopCoins(context.Background(), 1000, "jpy")
	if err != nil {
		t.Fatalf("top coins failed: %v", err)
	}
	if gotPerPage != "250" {
		t.Fatalf("expected per_page clamped to 250, got %s", gotPerPage)
	}
	if len(coins) != 1 || coins[0].ID != "bitcoin" {
		t.Fatalf("unexpected coins: %+v", coins)
	}
}

func TestTopCoinsDefaultParams(t *testing.T) {
	var query map[string][]string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.Query()
		_, _ = w.Write([]byte(`[]`))
	}, 1)

	if _, err := client.TopCoins(context.Background(), 0, ""); err != nil {
		t.Fatalf("top coins failed: %v", err)
	}
	if got := query["per_page"]; len(got) != 1 || got[0] != "50" {
		t.Fatalf("expected default per_page 50, got %v", got)
	}
	if got := query["vs_currency"]; len(got) != 1 || got[0] != "jpy" {
		t.Fatalf("expected default vs_currency jpy, got %v", got)
	}
	if got := query["order"]; len(got) != 1 || got[0] != "market_cap_desc" {
		t.Fatalf("expected market_cap_desc order, got %v", got)
	}
	if got := query["price_change_percentage"]; len(got) != 1 || got[0] != "7d,30d" {
		t.Fatalf("expected 7d,30d windows, got %v", got)
	}
}

func TestRateLimiterSpacesRequests(t *testing.T) {
	const interval = 80 * time.Millisecond
	var mu sync.Mutex
	var arrivals []time.Time
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		arrivals = append(arrivals, time.Now())
		mu.Unlock()
		_, _ = w.Write([]byte(`{}`))
	}, int(interval.Milliseconds()))

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		if _, err := client.SimplePrice(ctx, "bitcoin", nil); err != nil {
			t.Fatalf("request %d failed: %v", i, err)
		}
	}

	mu.Lock()
	defer mu.Unlock()
	if len(arrivals) != 3 {
		t.Fatalf("expected 3 requests, got %d", len(arrivals))
	}
	for i := 1; i < len(arrivals); i++ {
		gap := arrivals[i].Sub(arrivals[i-1])
		// タイマー粒度の分だけ僅かに手前に着弾しうる
		if gap < interval-10*time.Millisecond {
			t.Fatalf("request %d arrived after %v, want at least %v", i, gap, interval)
		}
	}
}

func TestRateLimitErrorOn429(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}, 1)

	_, err := client.Trending(context.Background())
	if err == nil {
		t.Fatalf("expected error")
	}
	if !IsRateLimit(err) {
		t.Fatalf("expected rate limit error, got %v", err)
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != 429 {
		t.Fatalf("expected status 429, got %v", err)
	}
}

func TestAPIErrorExtractsProviderMessage(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"status":{"error_code":10003,"error_message":"coin not found"}}`))
	}, 1)

	_, err := client.CoinDetail(context.Background(), "nope")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected api error, got %v", err)
	}
	if apiErr.StatusCode != 404 {
		t.Fatalf("expected status 404, got %d", apiErr.StatusCode)
	}
	if apiErr.Message != "CoinGecko API error: coin not found" {
		t.Fatalf("unexpected message: %s", apiErr.Message)
	}
	if IsRateLimit(err) {
		t.Fatalf("404 must not be classified as rate limit")
	}
}

func TestAPIErrorFallbackMessageOnBadBody(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`upstream exploded`))
	}, 1)

	_, err := client.MarketChart(context.Background(), "bitcoin", "30", "jpy")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected api error, got %v", err)
	}
	if apiErr.StatusCode != 502 {
		t.Fatalf("expected status 502, got %d", apiErr.StatusCode)
	}
	if apiErr.Message == "" {
		t.Fatalf("expected non-empty fallback message")
	}
}

func TestTrendingUnwrapsCoins(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"coins":[{"item":{"id":"pepe","name":"Pepe","symbol":"PEPE","market_cap_rank":40}}]}`))
	}, 1)

	coins, err := client.Trending(context.Background())
	if err != nil {
		t.Fatalf("trending failed: %v", err)
	}
	if len(coins) != 1 || coins[0].Item.ID != "pepe" {
		t.Fatalf("unexpected trending coins: %+v", coins)
	}
}

func TestMarketChartTTL(t *testing.T) {
	cases := []struct {
		days string
		want time.Duration
	}{
		{"1", time.Minute},
		{"7", 5 * time.Minute},
		{"30", 5 * time.Minute},
		{"90", time.Hour},
		{"365", time.Hour},
		{"max", time.Hour},
	}
	for _, tc := range cases {
		if got := MarketChartTTL(tc.days); got != tc.want {
			t.Fatalf("ttl for days=%s: got %v want %v", tc.days, got, tc.want)
		}
	}
}

func TestFormatHelpers(t *testing.T) {
	if got := FormatJPY(15234567); got != "￥15,234,567" {
		t.Fatalf("unexpected jpy format: %s", got)
	}
	if got := FormatPercentage(-2.5); got != "-2.50%" {
		t.Fatalf("unexpected percentage: %s", got)
	}
	if got := FormatPercentage(1.2); got != "+1.20%" {
		t.Fatalf("unexpected percentage: %s", got)
	}
	if got := FormatLargeNumber(1_500_000_000_000); got != "1.5兆" {
		t.Fatalf("unexpected large number: %s", got)
	}
	if got := FormatLargeNumber(23_400_000_000); got != "234億" {
		t.Fatalf("unexpected large number: %s", got)
	}
	if got := FormatLargeNumber(50_000); got != "5万" {
		t.Fatalf("unexpected large number: %s", got)
	}
	if got := FormatLargeNumber(9_999); got != "9,999" {
		t.Fatalf("unexpected small number: %s", got)
	}
}
