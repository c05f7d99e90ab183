package models

import (
	"time"

	"gorm.io/gorm"
)

// Banner キャンペーンバナー
type Banner struct {
	ID           uint           `gorm:"primarykey" json:"id"`                                      // 主キー
	Name         string         `gorm:"type:varchar(120);not null;index" json:"name"`              // 管理用名称
	Position     string         `gorm:"type:varchar(60);not null;index" json:"position"`           // 表示位置
	Title        string         `gorm:"type:varchar(200)" json:"title"`                            // 表示タイトル
	Subtitle     string         `gorm:"type:varchar(300)" json:"subtitle"`                         // サブタイトル
	Image        string         `gorm:"type:varchar(500);not null" json:"image"`                   // メイン画像
	MobileImage  string         `gorm:"type:varchar(500)" json:"mobile_image"`                     // モバイル用画像
	LinkType     string         `gorm:"type:varchar(20);not null;default:'none'" json:"link_type"` // リンク種別（none/internal/affiliate）
	LinkValue    string         `gorm:"type:varchar(1000)" json:"link_value"`                      // リンク先（affiliate の場合は取引所スラッグ）
	OpenInNewTab bool           `gorm:"default:false" json:"open_in_new_tab"`                      // 新しいタブで開くか
	IsActive     bool           `gorm:"default:true;index" json:"is_active"`                       // 有効フラグ
	StartAt      *time.Time     `gorm:"index" json:"start_at"`                                     // 掲載開始
	EndAt        *time.Time     `gorm:"index" json:"end_at"`                                       // 掲載終了
	SortOrder    int            `gorm:"default:0;index" json:"sort_order"`                         // 並び順
	CreatedAt    time.Time      `gorm:"index" json:"created_at"`                                   // 作成時刻
	UpdatedAt    time.Time      `json:"updated_at"`                                                // 更新時刻
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`                                            // 論理削除
}

// TableName テーブル名
func (Banner) TableName() string {
	return "banners"
}
