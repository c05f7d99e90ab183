package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Exchange 取引所テーブル
// 手数料率はパーセント値（0.15 = 0.15%）で保持する。
type Exchange struct {
	ID             uint            `gorm:"primarykey" json:"id"`                                         // 主キー
	Slug           string          `gorm:"uniqueIndex;not null" json:"slug"`                             // 一意スラッグ（coincheck 等）
	Name           string          `gorm:"type:varchar(120);not null" json:"name"`                       // 表示名
	NameEn         string          `gorm:"type:varchar(120)" json:"name_en"`                             // 英語名
	Type           string          `gorm:"type:varchar(20);not null;index" json:"type"`                  // domestic / international
	Status         string          `gorm:"type:varchar(20);not null;default:'active';index" json:"status"` // 公開状態
	Rating         decimal.Decimal `gorm:"type:decimal(3,1)" json:"rating"`                              // 総合評価（5 点満点）
	SupportedCoins int             `gorm:"default:0" json:"supported_coins"`                             // 取扱通貨数
	LogoURL        string          `gorm:"type:varchar(500)" json:"logo_url"`                            // ロゴ画像
	WebsiteURL     string          `gorm:"type:varchar(500)" json:"website_url"`                         // 公式サイト
	Description    string          `gorm:"type:text" json:"description"`                                 // 紹介文
	MakerFeePct    decimal.Decimal `gorm:"type:decimal(10,6)" json:"maker_fee_pct"`                      // メイカー手数料率
	TakerFeePct    decimal.Decimal `gorm:"type:decimal(10,6)" json:"taker_fee_pct"`                      // テイカー手数料率
	SpreadPct      decimal.Decimal `gorm:"type:decimal(10,6)" json:"spread_pct"`                         // 販売所スプレッド目安
	LeverageFeePct decimal.Decimal `gorm:"type:decimal(10,6)" json:"leverage_fee_pct"`                   // レバレッジ手数料率（日次）
	FeesJSON       JSON            `gorm:"type:json" json:"fees"`                                        // 入出金手数料など
	FeaturesJSON   JSON            `gorm:"type:json" json:"features"`                                    // 提供機能（積立・貸暗号資産 等）
	SecurityJSON   JSON            `gorm:"type:json" json:"security"`                                    // セキュリティ情報（コールドウォレット 等）
	CampaignJSON   JSON            `gorm:"type:json" json:"campaign"`                                    // 開催中キャンペーン
	Pros           StringArray     `gorm:"type:json" json:"pros"`                                        // メリット
	Cons           StringArray     `gorm:"type:json" json:"cons"`                                        // デメリット
	SortOrder      int             `gorm:"default:0;index" json:"sort_order"`                            // 並び順
	CreatedAt      time.Time       `gorm:"index" json:"created_at"`                                      // 作成時刻
	UpdatedAt      time.Time       `json:"updated_at"`                                                   // 更新時刻
	DeletedAt      gorm.DeletedAt  `gorm:"index" json:"-"`                                               // 論理削除
}

// TableName テーブル名
func (Exchange) TableName() string {
	return "exchanges"
}
