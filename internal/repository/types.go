package repository

import "time"

// ExchangeListFilter 取引所一覧の絞り込み条件
type ExchangeListFilter struct {
	Page       int
	PageSize   int
	Type       string
	Status     string
	Search     string
	OrderBy    string
	OnlyActive bool
}

// GuideListFilter ガイド記事一覧の絞り込み条件
type GuideListFilter struct {
	Page          int
	PageSize      int
	Category      string
	Search        string
	OnlyPublished bool
	OrderBy       string
}

// BannerListFilter バナー一覧の絞り込み条件
type BannerListFilter struct {
	Page      int
	PageSize  int
	Position  string
	Search    string
	IsActive  *bool
	OrderBy   string
	OnlyValid bool
}

// AffiliateRouteListFilter アフィリエイト経路一覧の絞り込み条件
type AffiliateRouteListFilter struct {
	Page       int
	PageSize   int
	ASP        string
	ExchangeID uint
	OnlyActive bool
}

// ClickListFilter クリック記録一覧の絞り込み条件
type ClickListFilter struct {
	Page           int
	PageSize       int
	ExchangeSlug   string
	ASP            string
	PagePath       string
	Position       string
	DeliveryStatus string
	CreatedFrom    *time.Time
	CreatedTo      *time.Time
}

// AuthzAuditLogListFilter 権限監査ログ一覧の絞り込み条件
type AuthzAuditLogListFilter struct {
	Page            int
	PageSize        int
	OperatorAdminID uint
	TargetAdminID   uint
	Action          string
	Role            string
	Object          string
	Method          string
	CreatedFrom     *time.Time
	CreatedTo       *time.Time
}
