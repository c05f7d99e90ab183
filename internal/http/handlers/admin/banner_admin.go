package admin

import (
	"errors"
	"strconv"

	"github.com/crypto-navi/api/internal/http/response"
	"github.com/crypto-navi/api/internal/service"

	"github.com/gin-gonic/gin"
)

// BannerUpsertRequest バナーの作成・更新要求
type BannerUpsertRequest struct {
	Name         string `json:"name" binding:"required"`
	Position     string `json:"position"`
	Title        string `json:"title"`
	Subtitle     string `json:"subtitle"`
	Image        string `json:"image" binding:"required"`
	MobileImage  string `json:"mobile_image"`
	LinkType     string `json:"link_type"`
	LinkValue    string `json:"link_value"`
	OpenInNewTab *bool  `json:"open_in_new_tab"`
	IsActive     *bool  `json:"is_active"`
	StartAt      string `json:"start_at"`
	EndAt        string `json:"end_at"`
	SortOrder    int    `json:"sort_order"`
}

// GetAdminBanners バナー一覧を取得する (Admin)
func (h *Handler) GetAdminBanners(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	position := c.Query("position")
	search := c.Query("search")

	var isActive *bool
	if raw := c.Query("is_active"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			respondError(c, response.CodeBadRequest, "error.bad_request", err)
			return
		}
		isActive = &parsed
	}

	banners, total, err := h.BannerService.ListAdmin(position, search, isActive, page, pageSize)
	if err != nil {
		respondError(c, response.CodeInternal, "error.banner_fetch_failed", err)
		return
	}

	response.SuccessWithPage(c, banners, response.BuildPagination(page, pageSize, total))
}

// GetAdminBanner バナー詳細を取得する (Admin)
func (h *Handler) GetAdminBanner(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	banner, err := h.BannerService.GetByID(id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondError(c, response.CodeNotFound, "error.banner_not_found", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.banner_fetch_failed", err)
		return
	}
	response.Success(c, banner)
}

func (r BannerUpsertRequest) toServiceInput(c *gin.Context) (service.BannerInput, bool) {
	startAt, err := parseTimeNullable(r.StartAt)
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return service.BannerInput{}, false
	}
	endAt, err := parseTimeNullable(r.EndAt)
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return service.BannerInput{}, false
	}

	return service.BannerInput{
		Name:         r.Name,
		Position:     r.Position,
		Title:        r.Title,
		Subtitle:     r.Subtitle,
		Image:        r.Image,
		MobileImage:  r.MobileImage,
		LinkType:     r.LinkType,
		LinkValue:    r.LinkValue,
		OpenInNewTab: r.OpenInNewTab,
		IsActive:     r.IsActive,
		StartAt:      startAt,
		EndAt:        endAt,
		SortOrder:    r.SortOrder,
	}, true
}

// CreateBanner バナーを作成する
func (h *Handler) CreateBanner(c *gin.Context) {
	var req BannerUpsertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	input, ok := req.toServiceInput(c)
	if !ok {
		return
	}

	banner, err := h.BannerService.Create(input)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidBanner):
			respondError(c, response.CodeBadRequest, "error.banner_invalid", nil)
		default:
			respondError(c, response.CodeInternal, "error.banner_create_failed", err)
		}
		return
	}

	response.Success(c, banner)
}

// UpdateBanner バナーを更新する
func (h *Handler) UpdateBanner(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req BannerUpsertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	input, ok := req.toServiceInput(c)
	if !ok {
		return
	}

	banner, err := h.BannerService.Update(id, input)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidBanner):
			respondError(c, response.CodeBadRequest, "error.banner_invalid", nil)
		case errors.Is(err, service.ErrNotFound):
			respondError(c, response.CodeNotFound, "error.banner_not_found", nil)
		default:
			respondError(c, response.CodeInternal, "error.banner_update_failed", err)
		}
		return
	}

	response.Success(c, banner)
}

// DeleteBanner バナーを削除する
func (h *Handler) DeleteBanner(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.BannerService.Delete(id); err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			respondError(c, response.CodeNotFound, "error.banner_not_found", nil)
		default:
			respondError(c, response.CodeInternal, "error.banner_delete_failed", err)
		}
		return
	}

	response.Success(c, gin.H{
		"deleted": true,
	})
}
