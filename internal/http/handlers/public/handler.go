package public

import "github.com/crypto-navi/api/internal/provider"

// Handler 公開側 API のハンドラ入口
// 比較サイトの閲覧者向けエンドポイントのみを扱う。
type Handler struct {
	*provider.Container
}

// New 公開側ハンドラを生成する
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
