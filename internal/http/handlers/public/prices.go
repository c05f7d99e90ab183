package public

import (
	"errors"
	"strconv"
	"strings"

	"github.com/crypto-navi/api/internal/http/response"
	"github.com/crypto-navi/api/internal/service"

	"github.com/gin-gonic/gin"
)

// GetTopCoins 時価総額上位の通貨一覧を返す
func (h *Handler) GetTopCoins(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	currency := strings.TrimSpace(c.Query("currency"))

	coins, err := h.PriceService.TopCoins(c.Request.Context(), limit, currency)
	if err != nil {
		respondPriceError(c, err)
		return
	}

	response.Success(c, coins)
}

// GetCoinPrice 単一通貨の現在価格を返す
func (h *Handler) GetCoinPrice(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	currencies := splitCSV(c.DefaultQuery("currencies", ""))

	result, err := h.PriceService.SimplePrice(c.Request.Context(), id, currencies)
	if err != nil {
		respondPriceError(c, err)
		return
	}

	response.Success(c, result)
}

// GetMultiPrice 複数通貨の現在価格をまとめて返す
func (h *Handler) GetMultiPrice(c *gin.Context) {
	ids := splitCSV(c.Query("ids"))
	if len(ids) == 0 {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	currency := strings.TrimSpace(c.Query("currency"))

	result, err := h.PriceService.MultiPrice(c.Request.Context(), ids, currency)
	if err != nil {
		respondPriceError(c, err)
		return
	}

	response.Success(c, result)
}

// GetMarketChart 指定通貨の価格チャートを返す
func (h *Handler) GetMarketChart(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	days := strings.TrimSpace(c.DefaultQuery("days", "7"))
	currency := strings.TrimSpace(c.Query("currency"))

	chart, err := h.PriceService.MarketChart(c.Request.Context(), id, days, currency)
	if err != nil {
		respondPriceError(c, err)
		return
	}

	response.Success(c, chart)
}

// GetCoinDetail 指定通貨の詳細情報を返す
func (h *Handler) GetCoinDetail(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))

	detail, err := h.PriceService.CoinDetail(c.Request.Context(), id)
	if err != nil {
		respondPriceError(c, err)
		return
	}

	response.Success(c, detail)
}

// GetTrendingCoins 検索トレンド上位の通貨を返す
func (h *Handler) GetTrendingCoins(c *gin.Context) {
	coins, err := h.PriceService.Trending(c.Request.Context())
	if err != nil {
		respondPriceError(c, err)
		return
	}

	response.Success(c, coins)
}

// PricesWebSocket ティッカー配信の WebSocket 接続を受け付ける
func (h *Handler) PricesWebSocket(c *gin.Context) {
	if h.PriceHub == nil {
		respondError(c, response.CodeInternal, "error.price_fetch_failed", nil)
		return
	}
	h.PriceHub.ServeHTTP(c.Writer, c.Request)
}

func respondPriceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		respondError(c, response.CodeNotFound, "error.coin_not_found", nil)
	case errors.Is(err, service.ErrPriceRateLimited):
		respondError(c, response.CodeTooManyRequests, "error.price_rate_limited", nil)
	case errors.Is(err, service.ErrPriceUpstream):
		respondError(c, response.CodeBadGateway, "error.price_fetch_failed", err)
	default:
		respondError(c, response.CodeInternal, "error.price_fetch_failed", err)
	}
}

func splitCSV(raw string) []string {
	values := make([]string, 0, 8)
	for _, v := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			values = append(values, trimmed)
		}
	}
	return values
}
