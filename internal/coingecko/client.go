package coingecko

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/crypto-navi/api/internal/config"
	"github.com/crypto-navi/api/internal/constants"
	"github.com/crypto-navi/api/internal/logger"

	"golang.org/x/time/rate"
)

const (
	defaultBaseURL  = "https://api.coingecko.com/api/v3"
	defaultInterval = 2500 * time.Millisecond // Free tier: 10-30 calls/min
	defaultTimeout  = 10 * time.Second
	defaultVsCcy    = "jpy"
	defaultTopLimit = 50
)

// 各エンドポイントのキャッシュ保持時間の目安
const (
	TTLTopCoins    = 5 * time.Minute
	TTLSimplePrice = time.Minute
	TTLMultiPrice  = 2 * time.Minute
	TTLCoinDetail  = 10 * time.Minute
	TTLTrending    = 10 * time.Minute
)

// Client CoinGecko API クライアント
// limiter がリクエスト間隔を保証するため、呼び出し側での間隔調整は不要。
type Client struct {
	baseURL    string
	apiKey     string
	vsCurrency string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// New 設定からクライアントを生成する
func New(cfg *config.CoinGeckoConfig) *Client {
	base := defaultBaseURL
	apiKey := ""
	interval := defaultInterval
	timeout := defaultTimeout
	vsCcy := defaultVsCcy
	if cfg != nil {
		if trimmed := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"); trimmed != "" {
			base = trimmed
		}
		apiKey = strings.TrimSpace(cfg.APIKey)
		if cfg.RateLimitMS > 0 {
			interval = time.Duration(cfg.RateLimitMS) * time.Millisecond
		}
		if cfg.TimeoutMS > 0 {
			timeout = time.Duration(cfg.TimeoutMS) * time.Millisecond
		}
		if trimmed := strings.TrimSpace(cfg.DefaultVsCcy); trimmed != "" {
			vsCcy = trimmed
		}
	}
	return &Client{
		baseURL:    base,
		apiKey:     apiKey,
		vsCurrency: vsCcy,
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(rate.Every(interval), 1),
	}
}

// DefaultVsCurrency 既定の表示通貨
func (c *Client) DefaultVsCurrency() string {
	return c.vsCurrency
}

// TopCoins 時価総額上位のコインを取得する（limit は最大 250 に丸める）
func (c *Client) TopCoins(ctx context.Context, limit int, currency string) ([]CoinMarket, error) {
	if limit <= 0 {
		limit = defaultTopLimit
	}
	if limit > constants.CoinGeckoMaxPerPage {
		limit = constants.CoinGeckoMaxPerPage
	}
	if currency == "" {
		currency = c.vsCurrency
	}
	params := url.Values{}
	params.Set("vs_currency", currency)
	params.Set("order", "market_cap_desc")
	params.Set("per_page", strconv.Itoa(limit))
	params.Set("page", "1")
	params.Set("sparkline", "true")
	params.Set("price_change_percentage", "7d,30d")
	params.Set("locale", "ja")

	var coins []CoinMarket
	if err := c.get(ctx, "/coins/markets", params, &coins); err != nil {
		return nil, err
	}
	return coins, nil
}

// SimplePrice 単一コインの現在価格を取得する
func (c *Client) SimplePrice(ctx context.Context, id string, currencies []string) (SimplePriceResult, error) {
	if len(currencies) == 0 {
		currencies = []string{"jpy", "usd"}
	}
	params := url.Values{}
	params.Set("ids", id)
	params.Set("vs_currencies", strings.Join(currencies, ","))
	params.Set("include_24hr_change", "true")
	params.Set("include_last_updated_at", "true")
	params.Set("include_24hr_vol", "true")
	params.Set("include_market_cap", "true")

	var result SimplePriceResult
	if err := c.get(ctx, "/simple/price", params, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// MultiPrice 複数コインの価格を一括取得する
func (c *Client) MultiPrice(ctx context.Context, ids []string, currency string) (SimplePriceResult, error) {
	if currency == "" {
		currency = c.vsCurrency
	}
	params := url.Values{}
	params.Set("ids", strings.Join(ids, ","))
	params.Set("vs_currencies", currency)
	params.Set("include_24hr_change", "true")
	params.Set("include_24hr_vol", "true")
	params.Set("include_market_cap", "true")

	var result SimplePriceResult
	if err := c.get(ctx, "/simple/price", params, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// MarketChart 価格履歴を取得する。days は "1".."365" または "max"。
func (c *Client) MarketChart(ctx context.Context, id, days, currency string) (*MarketChart, error) {
	if days == "" {
		days = "30"
	}
	if currency == "" {
		currency = c.vsCurrency
	}
	params := url.Values{}
	params.Set("vs_currency", currency)
	params.Set("days", days)

	var chart MarketChart
	if err := c.get(ctx, "/coins/"+url.PathEscape(id)+"/market_chart", params, &chart); err != nil {
		return nil, err
	}
	return &chart, nil
}

// MarketChartTTL 日数に応じたキャッシュ保持時間を返す
func MarketChartTTL(days string) time.Duration {
	if days == "1" {
		return time.Minute
	}
	if n, err := strconv.Atoi(days); err == nil && n >= 90 {
		return time.Hour
	}
	if days == "max" {
		return time.Hour
	}
	return 5 * time.Minute
}

// CoinDetail コインの詳細情報を取得する
func (c *Client) CoinDetail(ctx context.Context, id string) (*CoinDetail, error) {
	params := url.Values{}
	params.Set("localization", "true")
	params.Set("tickers", "false")
	params.Set("market_data", "true")
	params.Set("community_data", "false")
	params.Set("developer_data", "false")
	params.Set("sparkline", "false")

	var detail CoinDetail
	if err := c.get(ctx, "/coins/"+url.PathEscape(id), params, &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

// Trending 検索ランキング上位のコインを取得する
func (c *Client) Trending(ctx context.Context) ([]TrendingCoin, error) {
	var resp trendingResponse
	if err := c.get(ctx, "/search/trending", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Coins, nil
}

// get レートリミットを待ってから GET を実行し、JSON をデコードする
func (c *Client) get(ctx context.Context, endpoint string, params url.Values, dest interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	requestURL := c.baseURL + endpoint
	if len(params) > 0 {
		requestURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("x-cg-demo-api-key", c.apiKey)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.Warnw("coingecko_request_failed", "endpoint", endpoint, "error", err)
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		logger.Warnw("coingecko_rate_limited", "endpoint", endpoint)
		return NewRateLimitError()
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		message := fmt.Sprintf("CoinGecko API error: %d %s", resp.StatusCode, http.StatusText(resp.StatusCode))
		var errBody apiErrorBody
		if jsonErr := json.Unmarshal(body, &errBody); jsonErr == nil && errBody.Status.ErrorMessage != "" {
			message = "CoinGecko API error: " + errBody.Status.ErrorMessage
		}
		logger.Warnw("coingecko_api_error",
			"endpoint", endpoint,
			"status", resp.StatusCode,
			"latency_ms", time.Since(start).Milliseconds(),
		)
		return newAPIError(resp.StatusCode, message)
	}

	if err := json.Unmarshal(body, dest); err != nil {
		return fmt.Errorf("decode coingecko response failed: %w", err)
	}

	logger.Debugw("coingecko_request_done",
		"endpoint", endpoint,
		"latency_ms", time.Since(start).Milliseconds(),
	)
	return nil
}
