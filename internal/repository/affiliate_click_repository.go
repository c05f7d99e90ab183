package repository

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/crypto-navi/api/internal/constants"
	"github.com/crypto-navi/api/internal/models"

	"gorm.io/gorm"
)

// AffiliateClickRepository クリック記録データアクセスインターフェース
type AffiliateClickRepository interface {
	Create(click *models.AffiliateClick) error
	GetByID(id uint) (*models.AffiliateClick, error)
	List(filter ClickListFilter) ([]models.AffiliateClick, int64, error)
	UpdateDeliveryStatus(id uint, status string, deliveredAt *time.Time) error
	HasRecentClick(visitorKey, exchangeSlug string, since time.Time) (bool, error)

	GetOverview(startAt, endAt time.Time) (ClickOverviewRow, error)
	GetDailyTrends(startAt, endAt time.Time) ([]ClickTrendRow, error)
	GetTopExchanges(startAt, endAt time.Time, limit int) ([]ExchangeClickRankingRow, error)
	GetPositionBreakdown(startAt, endAt time.Time, limit int) ([]PositionClickRow, error)
}

// ClickOverviewRow クリック統計の総覧
type ClickOverviewRow struct {
	ClicksTotal     int64
	Delivered       int64
	PendingRetry    int64
	Abandoned       int64
	UniqueSessions  int64
	UniqueExchanges int64
}

// ClickTrendRow 日次クリック推移
type ClickTrendRow struct {
	Day       string
	Clicks    int64
	Delivered int64
}

// ExchangeClickRankingRow 取引所別クリックランキング行
type ExchangeClickRankingRow struct {
	ExchangeSlug string
	ExchangeName string
	ASP          string
	Clicks       int64
	Delivered    int64
}

// PositionClickRow 設置位置別クリック集計行
type PositionClickRow struct {
	Page     string
	Position string
	Clicks   int64
}

// GormAffiliateClickRepository GORM 実装
type GormAffiliateClickRepository struct {
	db *gorm.DB
}

// NewAffiliateClickRepository クリック記録リポジトリを生成
func NewAffiliateClickRepository(db *gorm.DB) *GormAffiliateClickRepository {
	return &GormAffiliateClickRepository{db: db}
}

// Create クリック記録を作成
func (r *GormAffiliateClickRepository) Create(click *models.AffiliateClick) error {
	return r.db.Create(click).Error
}

// GetByID ID でクリック記録を取得
func (r *GormAffiliateClickRepository) GetByID(id uint) (*models.AffiliateClick, error) {
	if id == 0 {
		return nil, nil
	}
	var click models.AffiliateClick
	if err := r.db.First(&click, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &click, nil
}

// List クリック記録一覧を取得
func (r *GormAffiliateClickRepository) List(filter ClickListFilter) ([]models.AffiliateClick, int64, error) {
	query := r.db.Model(&models.AffiliateClick{})

	if slug := strings.TrimSpace(filter.ExchangeSlug); slug != "" {
		query = query.Where("exchange_slug = ?", strings.ToLower(slug))
	}
	if asp := strings.TrimSpace(filter.ASP); asp != "" {
		query = query.Where("asp = ?", asp)
	}
	if page := strings.TrimSpace(filter.PagePath); page != "" {
		query = query.Where("page = ?", page)
	}
	if position := strings.TrimSpace(filter.Position); position != "" {
		query = query.Where("position = ?", position)
	}
	if status := strings.TrimSpace(filter.DeliveryStatus); status != "" {
		query = query.Where("delivery_status = ?", status)
	}
	if filter.CreatedFrom != nil {
		query = query.Where("created_at >= ?", *filter.CreatedFrom)
	}
	if filter.CreatedTo != nil {
		query = query.Where("created_at <= ?", *filter.CreatedTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	query = applyPagination(query, filter.Page, filter.PageSize)

	clicks := make([]models.AffiliateClick, 0)
	if err := query.Order("id DESC").Find(&clicks).Error; err != nil {
		return nil, 0, err
	}
	return clicks, total, nil
}

// UpdateDeliveryStatus 配信状態を更新
func (r *GormAffiliateClickRepository) UpdateDeliveryStatus(id uint, status string, deliveredAt *time.Time) error {
	if id == 0 {
		return nil
	}
	updates := map[string]interface{}{
		"delivery_status": strings.TrimSpace(status),
	}
	if deliveredAt != nil {
		updates["delivered_at"] = *deliveredAt
	}
	return r.db.Model(&models.AffiliateClick{}).Where("id = ?", id).Updates(updates).Error
}

// HasRecentClick 同一訪問者の近接重複クリックの有無を確認
func (r *GormAffiliateClickRepository) HasRecentClick(visitorKey, exchangeSlug string, since time.Time) (bool, error) {
	key := strings.TrimSpace(visitorKey)
	if key == "" {
		return false, nil
	}
	query := r.db.Model(&models.AffiliateClick{}).
		Where("visitor_key = ? AND created_at >= ?", key, since)
	if slug := strings.TrimSpace(exchangeSlug); slug != "" {
		query = query.Where("exchange_slug = ?", strings.ToLower(slug))
	}
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return false, err
	}
	return total > 0, nil
}

// GetOverview 期間内のクリック統計総覧を取得
func (r *GormAffiliateClickRepository) GetOverview(startAt, endAt time.Time) (ClickOverviewRow, error) {
	result := ClickOverviewRow{}

	base := func() *gorm.DB {
		return r.db.Model(&models.AffiliateClick{}).
			Where("created_at >= ? AND created_at < ?", startAt, endAt)
	}

	if err := base().Count(&result.ClicksTotal).Error; err != nil {
		return result, err
	}
	if err := base().Where("delivery_status = ?", constants.ClickDeliveryDelivered).Count(&result.Delivered).Error; err != nil {
		return result, err
	}
	if err := base().Where("delivery_status = ?", constants.ClickDeliveryPending).Count(&result.PendingRetry).Error; err != nil {
		return result, err
	}
	if err := base().Where("delivery_status = ?", constants.ClickDeliveryAbandoned).Count(&result.Abandoned).Error; err != nil {
		return result, err
	}
	if err := base().Where("session_key <> ''").Distinct("session_key").Count(&result.UniqueSessions).Error; err != nil {
		return result, err
	}
	if err := base().Distinct("exchange_slug").Count(&result.UniqueExchanges).Error; err != nil {
		return result, err
	}

	return result, nil
}

// GetDailyTrends 日次クリック推移を取得
func (r *GormAffiliateClickRepository) GetDailyTrends(startAt, endAt time.Time) ([]ClickTrendRow, error) {
	type countRow struct {
		Day   string
		Total int64
	}

	dayExpr := "CAST(date(created_at) AS TEXT)"

	var totals []countRow
	if err := r.db.Model(&models.AffiliateClick{}).
		Select(fmt.Sprintf("%s as day, COUNT(*) as total", dayExpr)).
		Where("created_at >= ? AND created_at < ?", startAt, endAt).
		Group(dayExpr).
		Order("day asc").
		Scan(&totals).Error; err != nil {
		return nil, err
	}

	var delivered []countRow
	if err := r.db.Model(&models.AffiliateClick{}).
		Select(fmt.Sprintf("%s as day, COUNT(*) as total", dayExpr)).
		Where("created_at >= ? AND created_at < ? AND delivery_status = ?", startAt, endAt, constants.ClickDeliveryDelivered).
		Group(dayExpr).
		Order("day asc").
		Scan(&delivered).Error; err != nil {
		return nil, err
	}

	deliveredMap := make(map[string]int64, len(delivered))
	for _, item := range delivered {
		deliveredMap[item.Day] = item.Total
	}

	result := make([]ClickTrendRow, 0, len(totals))
	for _, item := range totals {
		result = append(result, ClickTrendRow{
			Day:       item.Day,
			Clicks:    item.Total,
			Delivered: deliveredMap[item.Day],
		})
	}
	return result, nil
}

// GetTopExchanges 取引所別クリックランキングを取得
func (r *GormAffiliateClickRepository) GetTopExchanges(startAt, endAt time.Time, limit int) ([]ExchangeClickRankingRow, error) {
	if limit <= 0 {
		limit = 5
	}
	rows := make([]ExchangeClickRankingRow, 0)
	if err := r.db.Model(&models.AffiliateClick{}).
		Select(`
			affiliate_clicks.exchange_slug as exchange_slug,
			COALESCE(exchanges.name, '') as exchange_name,
			affiliate_clicks.asp as asp,
			COUNT(*) as clicks,
			SUM(CASE WHEN affiliate_clicks.delivery_status = 'delivered' THEN 1 ELSE 0 END) as delivered
		`).
		Joins("LEFT JOIN exchanges ON exchanges.slug = affiliate_clicks.exchange_slug").
		Where("affiliate_clicks.created_at >= ? AND affiliate_clicks.created_at < ?", startAt, endAt).
		Group("affiliate_clicks.exchange_slug, exchanges.name, affiliate_clicks.asp").
		Order("clicks DESC, delivered DESC").
		Limit(limit).
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// GetPositionBreakdown ページと設置位置別のクリック集計を取得
func (r *GormAffiliateClickRepository) GetPositionBreakdown(startAt, endAt time.Time, limit int) ([]PositionClickRow, error) {
	if limit <= 0 {
		limit = 10
	}
	rows := make([]PositionClickRow, 0)
	if err := r.db.Model(&models.AffiliateClick{}).
		Select("page, position, COUNT(*) as clicks").
		Where("created_at >= ? AND created_at < ?", startAt, endAt).
		Group("page, position").
		Order("clicks DESC").
		Limit(limit).
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
