package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/crypto-navi/api/internal/cache"
	"github.com/crypto-navi/api/internal/coingecko"
	"github.com/crypto-navi/api/internal/config"
	"github.com/crypto-navi/api/internal/constants"
	"github.com/crypto-navi/api/internal/logger"
)

// PriceService 仮想通貨の価格データサービス
// 上流 API への問い合わせは Redis キャッシュを優先する
// レート制限に到達した場合はキャッシュのみで応答する
type PriceService struct {
	client        *coingecko.Client
	tickerCfg     config.TickerConfig
	cacheDisabled bool

	settingService *SettingService
}

// NewPriceService 価格データサービスを生成する
func NewPriceService(client *coingecko.Client, cfg *config.Config, settingService *SettingService) *PriceService {
	return &PriceService{
		client:         client,
		tickerCfg:      cfg.Ticker,
		cacheDisabled:  cfg.CoinGecko.CacheDisabled,
		settingService: settingService,
	}
}

// TopCoins 時価総額上位のコイン一覧を取得する
func (s *PriceService) TopCoins(ctx context.Context, limit int, currency string) ([]coingecko.CoinMarket, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > constants.CoinGeckoMaxPerPage {
		limit = constants.CoinGeckoMaxPerPage
	}
	currency = s.normalizeCurrency(currency)

	key := fmt.Sprintf("prices:top:%d:%s", limit, currency)
	var cached []coingecko.CoinMarket
	if s.readCache(ctx, key, &cached) {
		return cached, nil
	}

	coins, err := s.client.TopCoins(ctx, limit, currency)
	if err != nil {
		return nil, s.mapUpstreamError(err, "top_coins")
	}
	s.writeCache(ctx, key, coins, coingecko.TTLTopCoins)
	return coins, nil
}

// SimplePrice 単一コインの現在価格を取得する
func (s *PriceService) SimplePrice(ctx context.Context, id string, currencies []string) (coingecko.SimplePriceResult, error) {
	id = strings.ToLower(strings.TrimSpace(id))
	if id == "" {
		return nil, ErrNotFound
	}

	key := "prices:simple:" + id + ":" + strings.Join(currencies, ",")
	var cached coingecko.SimplePriceResult
	if s.readCache(ctx, key, &cached) {
		return cached, nil
	}

	result, err := s.client.SimplePrice(ctx, id, currencies)
	if err != nil {
		return nil, s.mapUpstreamError(err, "simple_price")
	}
	if len(result) == 0 {
		return nil, ErrNotFound
	}
	s.writeCache(ctx, key, result, coingecko.TTLSimplePrice)
	return result, nil
}

// MultiPrice 複数コインの価格を一括取得する
func (s *PriceService) MultiPrice(ctx context.Context, ids []string, currency string) (coingecko.SimplePriceResult, error) {
	normalized := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.ToLower(strings.TrimSpace(id))
		if id != "" {
			normalized = append(normalized, id)
		}
	}
	if len(normalized) == 0 {
		return coingecko.SimplePriceResult{}, nil
	}
	currency = s.normalizeCurrency(currency)

	key := "prices:multi:" + strings.Join(normalized, ",") + ":" + currency
	var cached coingecko.SimplePriceResult
	if s.readCache(ctx, key, &cached) {
		return cached, nil
	}

	result, err := s.client.MultiPrice(ctx, normalized, currency)
	if err != nil {
		return nil, s.mapUpstreamError(err, "multi_price")
	}
	s.writeCache(ctx, key, result, coingecko.TTLMultiPrice)
	return result, nil
}

// MarketChart 価格履歴を取得する
func (s *PriceService) MarketChart(ctx context.Context, id, days, currency string) (*coingecko.MarketChart, error) {
	id = strings.ToLower(strings.TrimSpace(id))
	if id == "" {
		return nil, ErrNotFound
	}
	days = normalizeChartDays(days)
	currency = s.normalizeCurrency(currency)

	key := fmt.Sprintf("prices:chart:%s:%s:%s", id, days, currency)
	var cached coingecko.MarketChart
	if s.readCache(ctx, key, &cached) {
		return &cached, nil
	}

	chart, err := s.client.MarketChart(ctx, id, days, currency)
	if err != nil {
		return nil, s.mapUpstreamError(err, "market_chart")
	}
	s.writeCache(ctx, key, chart, coingecko.MarketChartTTL(days))
	return chart, nil
}

// CoinDetail コインの詳細情報を取得する
func (s *PriceService) CoinDetail(ctx context.Context, id string) (*coingecko.CoinDetail, error) {
	id = strings.ToLower(strings.TrimSpace(id))
	if id == "" {
		return nil, ErrNotFound
	}

	key := "prices:detail:" + id
	var cached coingecko.CoinDetail
	if s.readCache(ctx, key, &cached) {
		return &cached, nil
	}

	detail, err := s.client.CoinDetail(ctx, id)
	if err != nil {
		return nil, s.mapUpstreamError(err, "coin_detail")
	}
	s.writeCache(ctx, key, detail, coingecko.TTLCoinDetail)
	return detail, nil
}

// Trending 検索ランキング上位のコインを取得する
func (s *PriceService) Trending(ctx context.Context) ([]coingecko.TrendingCoin, error) {
	key := "prices:trending"
	var cached []coingecko.TrendingCoin
	if s.readCache(ctx, key, &cached) {
		return cached, nil
	}

	coins, err := s.client.Trending(ctx)
	if err != nil {
		return nil, s.mapUpstreamError(err, "trending")
	}
	s.writeCache(ctx, key, coins, coingecko.TTLTrending)
	return coins, nil
}

// TickerSnapshot ティッカー配信用のコイン一覧を取得する
// 件数は settings の ticker_config を優先し、未設定時は config.yml に従う
func (s *PriceService) TickerSnapshot(ctx context.Context) ([]coingecko.CoinMarket, error) {
	limit := s.tickerCfg.TopCoins
	if s.settingService != nil {
		if value, err := s.settingService.GetByKey(constants.SettingKeyTickerConfig); err == nil && value != nil {
			limit = readInt(value, "top_coins", limit)
		}
	}
	return s.TopCoins(ctx, limit, s.client.DefaultVsCurrency())
}

func (s *PriceService) normalizeCurrency(currency string) string {
	currency = strings.ToLower(strings.TrimSpace(currency))
	if currency == "" {
		return s.client.DefaultVsCurrency()
	}
	return currency
}

func normalizeChartDays(days string) string {
	days = strings.ToLower(strings.TrimSpace(days))
	if days == "" {
		return "30"
	}
	if days == "max" {
		return days
	}
	if n, err := strconv.Atoi(days); err != nil || n < 1 || n > 365 {
		return "30"
	}
	return days
}

func (s *PriceService) readCache(ctx context.Context, key string, dest interface{}) bool {
	if s.cacheDisabled {
		return false
	}
	hit, err := cache.GetJSON(ctx, key, dest)
	if err != nil {
		logger.Warnw("price_cache_read_failed", "key", key, "error", err)
		return false
	}
	return hit
}

func (s *PriceService) writeCache(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	if s.cacheDisabled {
		return
	}
	if err := cache.SetJSON(ctx, key, value, ttl); err != nil {
		logger.Warnw("price_cache_write_failed", "key", key, "error", err)
	}
}

func (s *PriceService) mapUpstreamError(err error, endpoint string) error {
	if coingecko.IsRateLimit(err) {
		logger.Warnw("price_upstream_rate_limited", "endpoint", endpoint)
		return fmt.Errorf("%w: %v", ErrPriceRateLimited, err)
	}
	logger.Errorw("price_upstream_failed", "endpoint", endpoint, "error", err)
	return fmt.Errorf("%w: %v", ErrPriceUpstream, err)
}
