package models

import (
	"time"

	"gorm.io/gorm"
)

// Guide 初心者向けガイド記事
type Guide struct {
	ID          uint           `gorm:"primarykey" json:"id"`                         // 主キー
	Slug        string         `gorm:"uniqueIndex;not null" json:"slug"`             // 一意スラッグ
	Category    string         `gorm:"type:varchar(40);not null;index" json:"category"` // カテゴリ（basics/exchange/tax/security）
	Title       string         `gorm:"type:varchar(200);not null" json:"title"`      // タイトル
	Summary     string         `gorm:"type:varchar(500)" json:"summary"`             // 要約
	Content     string         `gorm:"type:text" json:"content"`                     // 本文（Markdown）
	Thumbnail   string         `json:"thumbnail"`                                    // サムネイル
	ReadMinutes int            `gorm:"default:0" json:"read_minutes"`                // 想定読了時間（分）
	IsPublished bool           `gorm:"default:false;index" json:"is_published"`      // 公開フラグ
	PublishedAt *time.Time     `gorm:"index" json:"published_at"`                    // 公開時刻
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`                      // 作成時刻
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`                               // 論理削除時刻
}

// TableName テーブル名
func (Guide) TableName() string {
	return "guides"
}
