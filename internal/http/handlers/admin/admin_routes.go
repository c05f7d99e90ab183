package admin

import (
	"errors"
	"strconv"

	"github.com/crypto-navi/api/internal/http/response"
	"github.com/crypto-navi/api/internal/repository"
	"github.com/crypto-navi/api/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// RouteUpsertRequest アフィリエイト経路の作成・更新要求
type RouteUpsertRequest struct {
	ExchangeID     uint    `json:"exchange_id" binding:"required"`
	ASP            string  `json:"asp" binding:"required"`
	ProgramID      string  `json:"program_id"`
	MediaID        string  `json:"media_id"`
	BaseURL        string  `json:"base_url" binding:"required"`
	ConversionType string  `json:"conversion_type"`
	RewardAmount   float64 `json:"reward_amount"`
	IsActive       *bool   `json:"is_active"`
	Note           string  `json:"note"`
}

func (r RouteUpsertRequest) toServiceInput() service.RouteInput {
	return service.RouteInput{
		ExchangeID:     r.ExchangeID,
		ASP:            r.ASP,
		ProgramID:      r.ProgramID,
		MediaID:        r.MediaID,
		BaseURL:        r.BaseURL,
		ConversionType: r.ConversionType,
		RewardAmount:   decimal.NewFromFloat(r.RewardAmount),
		IsActive:       r.IsActive,
		Note:           r.Note,
	}
}

// GetAdminRoutes アフィリエイト経路一覧を取得する (Admin)
func (h *Handler) GetAdminRoutes(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	var exchangeID uint
	if raw := c.Query("exchange_id"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			respondError(c, response.CodeBadRequest, "error.bad_request", err)
			return
		}
		exchangeID = uint(parsed)
	}

	onlyActive := false
	if raw := c.Query("only_active"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			respondError(c, response.CodeBadRequest, "error.bad_request", err)
			return
		}
		onlyActive = parsed
	}

	routes, total, err := h.RouteService.List(repository.AffiliateRouteListFilter{
		Page:       page,
		PageSize:   pageSize,
		ASP:        c.Query("asp"),
		ExchangeID: exchangeID,
		OnlyActive: onlyActive,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.route_fetch_failed", err)
		return
	}

	response.SuccessWithPage(c, routes, response.BuildPagination(page, pageSize, total))
}

// GetAdminRoute アフィリエイト経路詳細を取得する (Admin)
func (h *Handler) GetAdminRoute(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	route, err := h.RouteService.GetByID(id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondError(c, response.CodeNotFound, "error.route_not_found", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.route_fetch_failed", err)
		return
	}

	response.Success(c, route)
}

// CreateRoute アフィリエイト経路を登録する
func (h *Handler) CreateRoute(c *gin.Context) {
	var req RouteUpsertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	route, err := h.RouteService.Create(req.toServiceInput())
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidRoute):
			respondError(c, response.CodeBadRequest, "error.route_invalid", nil)
		case errors.Is(err, service.ErrNotFound):
			respondError(c, response.CodeNotFound, "error.exchange_not_found", nil)
		default:
			respondError(c, response.CodeInternal, "error.route_create_failed", err)
		}
		return
	}

	response.Success(c, route)
}

// UpdateRoute アフィリエイト経路を更新する
func (h *Handler) UpdateRoute(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req RouteUpsertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	route, err := h.RouteService.Update(id, req.toServiceInput())
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidRoute):
			respondError(c, response.CodeBadRequest, "error.route_invalid", nil)
		case errors.Is(err, service.ErrNotFound):
			respondError(c, response.CodeNotFound, "error.route_not_found", nil)
		default:
			respondError(c, response.CodeInternal, "error.route_update_failed", err)
		}
		return
	}

	response.Success(c, route)
}

// DeleteRoute アフィリエイト経路を削除する（ソフトデリート）
func (h *Handler) DeleteRoute(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.RouteService.Delete(id); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondError(c, response.CodeNotFound, "error.route_not_found", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.route_delete_failed", err)
		return
	}

	response.Success(c, nil)
}

// ListAdminClicks クリック記録一覧を取得する (Admin)
func (h *Handler) ListAdminClicks(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	createdFrom, err := parseTimeNullable(c.Query("created_from"))
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	createdTo, err := parseTimeNullable(c.Query("created_to"))
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	clicks, total, err := h.ClickService.ListForAdmin(repository.ClickListFilter{
		Page:           page,
		PageSize:       pageSize,
		ExchangeSlug:   c.Query("exchange_slug"),
		ASP:            c.Query("asp"),
		PagePath:       c.Query("page_path"),
		Position:       c.Query("position"),
		DeliveryStatus: c.Query("delivery_status"),
		CreatedFrom:    createdFrom,
		CreatedTo:      createdTo,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.click_fetch_failed", err)
		return
	}

	response.SuccessWithPage(c, clicks, response.BuildPagination(page, pageSize, total))
}
