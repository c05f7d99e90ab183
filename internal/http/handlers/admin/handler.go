package admin

import "github.com/crypto-navi/api/internal/provider"

// Handler 管理画面 API のハンドラ入口
// 管理端専用で、公開側 API とは分離している。
type Handler struct {
	*provider.Container
}

// New 管理ハンドラを生成する
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
