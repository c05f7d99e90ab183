package models

import (
	"time"

	"gorm.io/gorm"
)

// Admin 管理者テーブル
type Admin struct {
	ID                 uint           `gorm:"primarykey" json:"id"`                         // 主キー
	Username           string         `gorm:"uniqueIndex;not null" json:"username"`         // 管理者アカウント
	PasswordHash       string         `gorm:"not null" json:"-"`                            // パスワードハッシュ（返却しない）
	TokenVersion       uint64         `gorm:"not null;default:0" json:"-"`                  // トークンバージョン（全量失効用）
	TokenInvalidBefore *time.Time     `gorm:"index" json:"-"`                               // この時刻より前に発行したトークンは無効
	IsSuper            bool           `gorm:"not null;default:false;index" json:"is_super"` // スーパー管理者（権限チェック免除）
	LastLoginAt        *time.Time     `json:"last_login_at"`                                // 最終ログイン時刻
	CreatedAt          time.Time      `gorm:"index" json:"created_at"`                      // 作成時刻
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"-"`                               // 論理削除時刻
}

// TableName テーブル名
func (Admin) TableName() string {
	return "admins"
}
