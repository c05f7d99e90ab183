package public

import (
	"strconv"

	"github.com/crypto-navi/api/internal/constants"
	"github.com/crypto-navi/api/internal/http/response"

	"github.com/gin-gonic/gin"
)

// GetPublicBanners 公開向けバナー一覧を返す
func (h *Handler) GetPublicBanners(c *gin.Context) {
	position := c.DefaultQuery("position", constants.BannerPositionHomeHero)
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if limit <= 0 {
		limit = 10
	}
	if limit > 50 {
		limit = 50
	}

	banners, err := h.BannerService.ListPublic(position, limit)
	if err != nil {
		respondError(c, response.CodeInternal, "error.banner_fetch_failed", err)
		return
	}

	response.Success(c, banners)
}
