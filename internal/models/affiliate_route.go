package models

import (
	"time"

	"gorm.io/gorm"
)

// AffiliateRoute 取引所ごとのアフィリエイト経路設定
// ASP（A8.net / AccessTrade / TCS / 直接提携）の計測パラメータを保持する。
type AffiliateRoute struct {
	ID             uint           `gorm:"primarykey" json:"id"`                              // 主キー
	ExchangeID     uint           `gorm:"not null;uniqueIndex" json:"exchange_id"`           // 対象取引所
	ASP            string         `gorm:"type:varchar(30);not null;index" json:"asp"`        // ASP 種別
	ProgramID      string         `gorm:"type:varchar(120)" json:"program_id"`               // プログラム ID（A8 の a8mat 等）
	MediaID        string         `gorm:"type:varchar(120)" json:"media_id"`                 // メディア ID
	BaseURL        string         `gorm:"type:varchar(1000);not null" json:"base_url"`       // リンク先ベース URL
	ConversionType string         `gorm:"type:varchar(40)" json:"conversion_type"`           // 成果条件（口座開設 等）
	RewardAmount   Money          `gorm:"type:decimal(12,2)" json:"reward_amount"`           // 成果報酬額（円）
	IsActive       bool           `gorm:"default:true;index" json:"is_active"`               // 有効フラグ
	Note           string         `gorm:"type:varchar(500)" json:"note"`                     // 管理用メモ
	CreatedAt      time.Time      `gorm:"index" json:"created_at"`                           // 作成時刻
	UpdatedAt      time.Time      `json:"updated_at"`                                        // 更新時刻
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`                                    // 論理削除

	Exchange Exchange `gorm:"foreignKey:ExchangeID" json:"exchange,omitempty"` // 対象取引所
}

// TableName テーブル名
func (AffiliateRoute) TableName() string {
	return "affiliate_routes"
}
