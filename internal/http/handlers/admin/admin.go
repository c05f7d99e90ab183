package admin

import (
	"errors"
	"strconv"

	"github.com/crypto-navi/api/internal/cache"
	"github.com/crypto-navi/api/internal/constants"
	"github.com/crypto-navi/api/internal/http/response"
	"github.com/crypto-navi/api/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// 公開設定キャッシュのキー。サイト設定更新時に破棄する。
const publicConfigCacheKey = "public:config"

// LoginRequest 管理者ログイン要求
type LoginRequest struct {
	Username       string                `json:"username" binding:"required"`
	Password       string                `json:"password" binding:"required"`
	CaptchaPayload CaptchaPayloadRequest `json:"captcha_payload"`
}

// LoginResponse ログイン応答
type LoginResponse struct {
	Token     string                 `json:"token"`
	User      map[string]interface{} `json:"user"`
	ExpiresAt string                 `json:"expires_at"`
}

// AdminLogin 管理者ログイン
func (h *Handler) AdminLogin(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	if h.CaptchaService != nil {
		if captchaErr := h.CaptchaService.Verify(constants.CaptchaSceneAdminLogin, req.CaptchaPayload.toServicePayload(), c.ClientIP()); captchaErr != nil {
			switch {
			case errors.Is(captchaErr, service.ErrCaptchaRequired):
				respondError(c, response.CodeBadRequest, "error.captcha_required", nil)
				return
			case errors.Is(captchaErr, service.ErrCaptchaInvalid):
				respondError(c, response.CodeBadRequest, "error.captcha_invalid", nil)
				return
			case errors.Is(captchaErr, service.ErrCaptchaConfigInvalid):
				respondError(c, response.CodeInternal, "error.captcha_config_invalid", captchaErr)
				return
			default:
				respondError(c, response.CodeInternal, "error.captcha_verify_failed", captchaErr)
				return
			}
		}
	}

	admin, token, expiresAt, err := h.AuthService.Login(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			respondError(c, response.CodeUnauthorized, "error.admin_login_invalid", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.login_failed", err)
		return
	}
	response.Success(c, LoginResponse{
		Token: token,
		User: map[string]interface{}{
			"id":       admin.ID,
			"username": admin.Username,
		},
		ExpiresAt: expiresAt.Format("2006-01-02T15:04:05Z07:00"),
	})
}

// UpdatePasswordRequest パスワード変更要求
type UpdatePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

// UpdateAdminPassword ログイン中の管理者パスワードを変更する
func (h *Handler) UpdateAdminPassword(c *gin.Context) {
	id, ok := getAdminID(c)
	if !ok {
		return
	}

	var req UpdatePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	if err := h.AuthService.ChangePassword(id, req.OldPassword, req.NewPassword); err != nil {
		if errors.Is(err, service.ErrInvalidPassword) {
			respondError(c, response.CodeBadRequest, "error.password_old_invalid", nil)
			return
		}
		if errors.Is(err, service.ErrWeakPassword) {
			respondErrorWithMsg(c, response.CodeBadRequest, err.Error(), nil)
			return
		}
		if errors.Is(err, service.ErrNotFound) {
			respondError(c, response.CodeNotFound, "error.admin_not_found", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.save_failed", err)
		return
	}

	response.Success(c, nil)
}

// ====================  設定管理  ====================

// GetSettings 設定を取得する
func (h *Handler) GetSettings(c *gin.Context) {
	key := c.DefaultQuery("key", constants.SettingKeySiteConfig)

	value, err := h.SettingService.GetByKey(key)
	if err != nil {
		respondError(c, response.CodeInternal, "error.settings_fetch_failed", err)
		return
	}
	if value == nil {
		response.Success(c, gin.H{})
		return
	}

	response.Success(c, value)
}

// UpdateSettingsRequest 設定更新要求
type UpdateSettingsRequest struct {
	Key   string                 `json:"key" binding:"required"`
	Value map[string]interface{} `json:"value" binding:"required"`
}

// UpdateSettings 設定を更新する
func (h *Handler) UpdateSettings(c *gin.Context) {
	var req UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	value, err := h.SettingService.Update(req.Key, req.Value)
	if err != nil {
		respondError(c, response.CodeInternal, "error.settings_save_failed", err)
		return
	}

	if req.Key == constants.SettingKeySiteConfig {
		_ = cache.Del(c.Request.Context(), publicConfigCacheKey)
	}
	if req.Key == constants.SettingKeyCaptchaConfig && h.CaptchaService != nil {
		h.CaptchaService.InvalidateCache()
	}
	response.Success(c, value)
}

// ====================  取引所管理  ====================

// ExchangeRequest 取引所の作成・更新要求
type ExchangeRequest struct {
	Slug           string                 `json:"slug" binding:"required"`
	Name           string                 `json:"name" binding:"required"`
	NameEn         string                 `json:"name_en"`
	Type           string                 `json:"type" binding:"required"`
	Status         string                 `json:"status"`
	Rating         float64                `json:"rating"`
	SupportedCoins int                    `json:"supported_coins"`
	LogoURL        string                 `json:"logo_url"`
	WebsiteURL     string                 `json:"website_url"`
	Description    string                 `json:"description"`
	MakerFeePct    float64                `json:"maker_fee_pct"`
	TakerFeePct    float64                `json:"taker_fee_pct"`
	SpreadPct      float64                `json:"spread_pct"`
	LeverageFeePct float64                `json:"leverage_fee_pct"`
	Fees           map[string]interface{} `json:"fees"`
	Features       map[string]interface{} `json:"features"`
	Security       map[string]interface{} `json:"security"`
	Campaign       map[string]interface{} `json:"campaign"`
	Pros           []string               `json:"pros"`
	Cons           []string               `json:"cons"`
	SortOrder      int                    `json:"sort_order"`
}

func (r ExchangeRequest) toServiceInput() service.ExchangeInput {
	return service.ExchangeInput{
		Slug:           r.Slug,
		Name:           r.Name,
		NameEn:         r.NameEn,
		Type:           r.Type,
		Status:         r.Status,
		Rating:         decimal.NewFromFloat(r.Rating),
		SupportedCoins: r.SupportedCoins,
		LogoURL:        r.LogoURL,
		WebsiteURL:     r.WebsiteURL,
		Description:    r.Description,
		MakerFeePct:    decimal.NewFromFloat(r.MakerFeePct),
		TakerFeePct:    decimal.NewFromFloat(r.TakerFeePct),
		SpreadPct:      decimal.NewFromFloat(r.SpreadPct),
		LeverageFeePct: decimal.NewFromFloat(r.LeverageFeePct),
		Fees:           r.Fees,
		Features:       r.Features,
		Security:       r.Security,
		Campaign:       r.Campaign,
		Pros:           r.Pros,
		Cons:           r.Cons,
		SortOrder:      r.SortOrder,
	}
}

// GetAdminExchanges 取引所一覧を取得する (Admin)
func (h *Handler) GetAdminExchanges(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)
	exchangeType := c.Query("type")
	status := c.Query("status")
	search := c.Query("search")

	exchanges, total, err := h.ExchangeService.ListAdmin(exchangeType, status, search, page, pageSize)
	if err != nil {
		respondError(c, response.CodeInternal, "error.exchange_fetch_failed", err)
		return
	}

	response.SuccessWithPage(c, exchanges, response.BuildPagination(page, pageSize, total))
}

// GetAdminExchange 取引所詳細を取得する (Admin)
func (h *Handler) GetAdminExchange(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	exchange, err := h.ExchangeService.GetByID(id)
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

// CreateExchange 取引所を登録する
func (h *Handler) CreateExchange(c *gin.Context) {
	var req ExchangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	exchange, err := h.ExchangeService.Create(req.toServiceInput())
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSlugExists):
			respondError(c, response.CodeBadRequest, "error.slug_exists", nil)
		case errors.Is(err, service.ErrInvalidExchange):
			respondError(c, response.CodeBadRequest, "error.exchange_invalid", nil)
		default:
			respondError(c, response.CodeInternal, "error.exchange_create_failed", err)
		}
		return
	}

	response.Success(c, exchange)
}

// UpdateExchange 取引所を更新する
func (h *Handler) UpdateExchange(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req ExchangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	exchange, err := h.ExchangeService.Update(id, req.toServiceInput())
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			respondError(c, response.CodeNotFound, "error.exchange_not_found", nil)
		case errors.Is(err, service.ErrSlugExists):
			respondError(c, response.CodeBadRequest, "error.slug_used", nil)
		case errors.Is(err, service.ErrInvalidExchange):
			respondError(c, response.CodeBadRequest, "error.exchange_invalid", nil)
		default:
			respondError(c, response.CodeInternal, "error.exchange_update_failed", err)
		}
		return
	}

	response.Success(c, exchange)
}

// DeleteExchange 取引所を削除する（ソフトデリート）
func (h *Handler) DeleteExchange(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.ExchangeService.Delete(id); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondError(c, response.CodeNotFound, "error.exchange_not_found", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.exchange_delete_failed", err)
		return
	}

	response.Success(c, nil)
}

// ====================  ガイド記事管理  ====================

// GuideRequest ガイド記事の作成・更新要求
type GuideRequest struct {
	Slug        string `json:"slug" binding:"required"`
	Category    string `json:"category" binding:"required"`
	Title       string `json:"title" binding:"required"`
	Summary     string `json:"summary"`
	Content     string `json:"content"`
	Thumbnail   string `json:"thumbnail"`
	ReadMinutes int    `json:"read_minutes"`
	IsPublished *bool  `json:"is_published"`
}

func (r GuideRequest) toServiceInput() service.GuideInput {
	return service.GuideInput{
		Slug:        r.Slug,
		Category:    r.Category,
		Title:       r.Title,
		Summary:     r.Summary,
		Content:     r.Content,
		Thumbnail:   r.Thumbnail,
		ReadMinutes: r.ReadMinutes,
		IsPublished: r.IsPublished,
	}
}

// GetAdminGuides ガイド記事一覧を取得する (Admin)
func (h *Handler) GetAdminGuides(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)
	category := c.Query("category")
	search := c.Query("search")

	guides, total, err := h.GuideService.ListAdmin(category, search, page, pageSize)
	if err != nil {
		respondError(c, response.CodeInternal, "error.guide_fetch_failed", err)
		return
	}

	response.SuccessWithPage(c, guides, response.BuildPagination(page, pageSize, total))
}

// GetAdminGuide ガイド記事詳細を取得する (Admin)
func (h *Handler) GetAdminGuide(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	guide, err := h.GuideService.GetByID(id)
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

// CreateGuide ガイド記事を作成する
func (h *Handler) CreateGuide(c *gin.Context) {
	var req GuideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	guide, err := h.GuideService.Create(req.toServiceInput())
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidGuideCategory):
			respondError(c, response.CodeBadRequest, "error.guide_invalid", nil)
		case errors.Is(err, service.ErrInvalidGuide):
			respondError(c, response.CodeBadRequest, "error.guide_invalid", nil)
		case errors.Is(err, service.ErrSlugExists):
			respondError(c, response.CodeBadRequest, "error.slug_exists", nil)
		default:
			respondError(c, response.CodeInternal, "error.guide_create_failed", err)
		}
		return
	}

	response.Success(c, guide)
}

// UpdateGuide ガイド記事を更新する
func (h *Handler) UpdateGuide(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req GuideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	guide, err := h.GuideService.Update(id, req.toServiceInput())
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			respondError(c, response.CodeNotFound, "error.guide_not_found", nil)
		case errors.Is(err, service.ErrInvalidGuideCategory), errors.Is(err, service.ErrInvalidGuide):
			respondError(c, response.CodeBadRequest, "error.guide_invalid", nil)
		case errors.Is(err, service.ErrSlugExists):
			respondError(c, response.CodeBadRequest, "error.slug_used", nil)
		default:
			respondError(c, response.CodeInternal, "error.guide_update_failed", err)
		}
		return
	}

	response.Success(c, guide)
}

// DeleteGuide ガイド記事を削除する（ソフトデリート）
func (h *Handler) DeleteGuide(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.GuideService.Delete(id); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondError(c, response.CodeNotFound, "error.guide_not_found", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.guide_delete_failed", err)
		return
	}

	response.Success(c, nil)
}
