package admin

import (
	"github.com/crypto-navi/api/internal/constants"
	"github.com/crypto-navi/api/internal/http/response"

	"github.com/gin-gonic/gin"
)

// GetTrackingConfig 計測設定を取得する
func (h *Handler) GetTrackingConfig(c *gin.Context) {
	value, err := h.SettingService.GetByKey(constants.SettingKeyTrackingConfig)
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

// UpdateTrackingConfigRequest 計測設定の更新要求
type UpdateTrackingConfigRequest struct {
	Value map[string]interface{} `json:"value" binding:"required"`
}

// UpdateTrackingConfig 計測設定を更新する
func (h *Handler) UpdateTrackingConfig(c *gin.Context) {
	var req UpdateTrackingConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	value, err := h.SettingService.Update(constants.SettingKeyTrackingConfig, req.Value)
	if err != nil {
		respondError(c, response.CodeInternal, "error.settings_save_failed", err)
		return
	}

	response.Success(c, value)
}
