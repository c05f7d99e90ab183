package public

import (
	"errors"
	"strings"

	"github.com/crypto-navi/api/internal/http/response"
	"github.com/crypto-navi/api/internal/service"

	"github.com/gin-gonic/gin"
)

// TrackClickRequest アフィリエイトクリック記録の任意パラメータ
type TrackClickRequest struct {
	Page       string `json:"page"`
	Position   string `json:"position"`
	SessionKey string `json:"session_key"`
	VisitorKey string `json:"visitor_key"`
	Campaign   string `json:"campaign"`
	Content    string `json:"content"`
}

// TrackExchangeClick クリックを記録し遷移先 URL を返す
// フロントはこの URL へ 302 相当の遷移を行う
func (h *Handler) TrackExchangeClick(c *gin.Context) {
	slug := c.Param("slug")

	// ボディは任意。空の場合は既定値で記録する
	var req TrackClickRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, response.CodeBadRequest, "error.bad_request", err)
			return
		}
	}

	result, err := h.ClickService.RecordClick(c.Request.Context(), service.ClickInput{
		ExchangeSlug: slug,
		Page:         req.Page,
		Position:     req.Position,
		SessionKey:   req.SessionKey,
		VisitorKey:   req.VisitorKey,
		ClientIP:     c.ClientIP(),
		UserAgent:    c.GetHeader("User-Agent"),
		Referrer:     c.GetHeader("Referer"),
		Campaign:     req.Campaign,
		Content:      req.Content,
	})
	if err != nil {
		respondClickError(c, err)
		return
	}

	response.Success(c, result)
}

// ResolveExchangeLink 遷移先 URL のみを返す（記録なしのプレビュー用）
func (h *Handler) ResolveExchangeLink(c *gin.Context) {
	slug := c.Param("slug")
	page := strings.TrimSpace(c.Query("page"))
	position := strings.TrimSpace(c.Query("position"))

	targetURL, asp, err := h.ClickService.ResolveTargetURL(slug, page, position)
	if err != nil {
		respondClickError(c, err)
		return
	}

	response.Success(c, gin.H{
		"target_url": targetURL,
		"asp":        asp,
	})
}

// GetImpressionTag インプレッション計測タグ URL を返す
func (h *Handler) GetImpressionTag(c *gin.Context) {
	slug := c.Param("slug")

	tag, ok, err := h.ClickService.ImpressionTag(c.Request.Context(), slug, c.Query("page"))
	if err != nil {
		respondClickError(c, err)
		return
	}

	response.Success(c, gin.H{
		"available": ok,
		"tag_url":   tag,
	})
}

// GetClickHistory 閲覧者のクリック履歴を返す
func (h *Handler) GetClickHistory(c *gin.Context) {
	entries, err := h.ClickService.ListHistory(c.Request.Context())
	if err != nil {
		respondError(c, response.CodeInternal, "error.history_fetch_failed", err)
		return
	}
	response.Success(c, entries)
}

// ClearClickHistory 閲覧者のクリック履歴を消去する
func (h *Handler) ClearClickHistory(c *gin.Context) {
	if err := h.ClickService.ClearHistory(c.Request.Context()); err != nil {
		respondError(c, response.CodeInternal, "error.history_clear_failed", err)
		return
	}
	response.Success(c, nil)
}

func respondClickError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidExchange):
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
	case errors.Is(err, service.ErrNotFound):
		respondError(c, response.CodeNotFound, "error.exchange_not_found", nil)
	case errors.Is(err, service.ErrRouteInactive):
		respondError(c, response.CodeBadRequest, "error.route_inactive", nil)
	default:
		respondError(c, response.CodeInternal, "error.click_record_failed", err)
	}
}
