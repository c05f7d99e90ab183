package public

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/crypto-navi/api/internal/cache"
	"github.com/crypto-navi/api/internal/constants"
	"github.com/crypto-navi/api/internal/http/response"
	"github.com/crypto-navi/api/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	publicConfigCacheKey = "public:config"
	publicConfigCacheTTL = 60 * time.Second
)

// GetConfig サイト全体の公開設定を返す
func (h *Handler) GetConfig(c *gin.Context) {
	// 既定値。管理画面で上書きされるまでのフォールバック
	defaults := map[string]interface{}{
		"site_name":     "クリプトナビ",
		"languages":     []string{"ja", "en"},
		"site_currency": constants.SiteCurrencyDefault,
		"contact": map[string]interface{}{
			"twitter": "https://x.com/cryptonavi_jp",
			"contact": "/contact",
		},
		"scripts": make([]interface{}, 0),
	}

	var cached map[string]interface{}
	if hit, err := cache.GetJSON(c.Request.Context(), publicConfigCacheKey, &cached); err == nil && hit {
		response.Success(c, cached)
		return
	}

	data, err := h.SettingService.GetSiteConfig(defaults)
	if err != nil {
		respondError(c, response.CodeInternal, "error.config_fetch_failed", err)
		return
	}

	if h.CaptchaService != nil {
		publicCaptcha, captchaErr := h.CaptchaService.GetPublicSetting()
		if captchaErr != nil {
			respondError(c, response.CodeInternal, "error.config_fetch_failed", captchaErr)
			return
		}
		data["captcha"] = publicCaptcha
	}

	_ = cache.SetJSON(c.Request.Context(), publicConfigCacheKey, data, publicConfigCacheTTL)
	response.Success(c, data)
}

// GetExchanges 公開中の取引所一覧を返す
func (h *Handler) GetExchanges(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	exchangeType := strings.TrimSpace(c.Query("type"))

	exchanges, total, err := h.ExchangeService.ListPublic(exchangeType, page, pageSize)
	if err != nil {
		respondError(c, response.CodeInternal, "error.exchange_fetch_failed", err)
		return
	}

	response.SuccessWithPage(c, exchanges, response.BuildPagination(page, pageSize, total))
}

// GetExchangeBySlug slug 指定で取引所詳細を返す
func (h *Handler) GetExchangeBySlug(c *gin.Context) {
	slug := c.Param("slug")

	exchange, err := h.ExchangeService.GetPublicBySlug(slug)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondError(c, response.CodeNotFound, "error.exchange_not_found", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.exchange_fetch_failed", err)
		return
	}

	response.Success(c, exchange)
}

// CompareExchanges 複数取引所の比較データを返す
func (h *Handler) CompareExchanges(c *gin.Context) {
	raw := strings.TrimSpace(c.Query("slugs"))
	if raw == "" {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	slugs := make([]string, 0, 5)
	for _, slug := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(slug); trimmed != "" {
			slugs = append(slugs, trimmed)
		}
	}

	exchanges, err := h.ExchangeService.Compare(slugs)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidExchange):
			respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		case errors.Is(err, service.ErrNotFound):
			respondError(c, response.CodeNotFound, "error.exchange_not_found", nil)
		default:
			respondError(c, response.CodeInternal, "error.exchange_fetch_failed", err)
		}
		return
	}

	response.Success(c, exchanges)
}

// GetGuides 公開中のガイド記事一覧を返す
func (h *Handler) GetGuides(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	category := strings.TrimSpace(c.Query("category"))

	guides, total, err := h.GuideService.ListPublic(category, page, pageSize)
	if err != nil {
		respondError(c, response.CodeInternal, "error.guide_fetch_failed", err)
		return
	}

	response.SuccessWithPage(c, guides, response.BuildPagination(page, pageSize, total))
}

// GetGuideBySlug slug 指定でガイド記事詳細を返す
func (h *Handler) GetGuideBySlug(c *gin.Context) {
	slug := c.Param("slug")

	guide, err := h.GuideService.GetPublicBySlug(slug)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondError(c, response.CodeNotFound, "error.guide_not_found", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.guide_fetch_failed", err)
		return
	}

	response.Success(c, guide)
}
