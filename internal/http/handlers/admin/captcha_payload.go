package admin

import (
	"strings"

	"github.com/crypto-navi/api/internal/service"
)

// CaptchaPayloadRequest 管理端のキャプチャ検証ペイロード
type CaptchaPayloadRequest struct {
	CaptchaID   string `json:"captcha_id"`
	CaptchaCode string `json:"captcha_code"`
}

func (r CaptchaPayloadRequest) toServicePayload() service.CaptchaVerifyPayload {
	return service.CaptchaVerifyPayload{
		CaptchaID:   strings.TrimSpace(r.CaptchaID),
		CaptchaCode: strings.TrimSpace(r.CaptchaCode),
	}
}
