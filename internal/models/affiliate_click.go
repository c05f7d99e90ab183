package models

import "time"

// AffiliateClick アフィリエイトリンクのクリック記録
type AffiliateClick struct {
	ID             uint       `gorm:"primarykey" json:"id"`                                       // 主キー
	ExchangeSlug   string     `gorm:"type:varchar(120);not null;index" json:"exchange_slug"`      // 取引所スラッグ
	ASP            string     `gorm:"type:varchar(30);index" json:"asp"`                          // 経由 ASP
	TargetURL      string     `gorm:"type:varchar(2000)" json:"target_url"`                       // 遷移先 URL
	Page           string     `gorm:"type:varchar(512);index" json:"page"`                        // クリック発生ページ
	Position       string     `gorm:"type:varchar(120);index" json:"position"`                    // ページ内の設置位置
	SessionKey     string     `gorm:"type:varchar(128);index" json:"session_key"`                 // セッション識別子
	VisitorKey     string     `gorm:"type:varchar(128);index" json:"visitor_key"`                 // 訪問者識別子
	ClientIP       string     `gorm:"type:varchar(64)" json:"client_ip"`                          // クライアント IP
	UserAgent      string     `gorm:"type:varchar(1024)" json:"user_agent"`                       // クライアント UA
	Referrer       string     `gorm:"type:varchar(1024)" json:"referrer"`                         // 参照元
	DeliveryStatus string     `gorm:"type:varchar(20);not null;default:'queued';index" json:"delivery_status"` // ASP への配信状態
	DeliveredAt    *time.Time `gorm:"index" json:"delivered_at"`                                  // 配信完了時刻
	CreatedAt      time.Time  `gorm:"index;not null;default:CURRENT_TIMESTAMP" json:"created_at"` // 作成時刻
}

// TableName テーブル名
func (AffiliateClick) TableName() string {
	return "affiliate_clicks"
}
