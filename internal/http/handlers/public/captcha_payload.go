package public

import (
	"strings"

	"github.com/crypto-navi/api/internal/service"
)

// CaptchaPayloadRequest 画像認証のリクエスト載荷
// captcha_id と captcha_code の組で送る
// 無効なシーンでは空載荷を許容し、必須判定は service 層が行う
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
