package repository

import (
	"errors"
	"strings"

	"github.com/crypto-navi/api/internal/models"

	"gorm.io/gorm"
)

// AffiliateRouteRepository アフィリエイト経路データアクセスインターフェース
type AffiliateRouteRepository interface {
	List(filter AffiliateRouteListFilter) ([]models.AffiliateRoute, int64, error)
	GetByID(id uint) (*models.AffiliateRoute, error)
	GetActiveByExchangeID(exchangeID uint) (*models.AffiliateRoute, error)
	GetActiveByExchangeSlug(slug string) (*models.AffiliateRoute, error)
	ListActive() ([]models.AffiliateRoute, error)
	Create(route *models.AffiliateRoute) error
	Update(route *models.AffiliateRoute) error
	Delete(id uint) error
}

// GormAffiliateRouteRepository GORM 実装
type GormAffiliateRouteRepository struct {
	db *gorm.DB
}

// NewAffiliateRouteRepository アフィリエイト経路リポジトリを生成
func NewAffiliateRouteRepository(db *gorm.DB) *GormAffiliateRouteRepository {
	return &GormAffiliateRouteRepository{db: db}
}

// List アフィリエイト経路一覧を取得
func (r *GormAffiliateRouteRepository) List(filter AffiliateRouteListFilter) ([]models.AffiliateRoute, int64, error) {
	query := r.db.Model(&models.AffiliateRoute{}).Preload("Exchange")

	if asp := strings.TrimSpace(filter.ASP); asp != "" {
		query = query.Where("asp = ?", asp)
	}
	if filter.ExchangeID != 0 {
		query = query.Where("exchange_id = ?", filter.ExchangeID)
	}
	if filter.OnlyActive {
		query = query.Where("is_active = ?", true)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	query = applyPagination(query, filter.Page, filter.PageSize)

	routes := make([]models.AffiliateRoute, 0)
	if err := query.Order("id ASC").Find(&routes).Error; err != nil {
		return nil, 0, err
	}
	return routes, total, nil
}

// GetByID ID でアフィリエイト経路を取得
func (r *GormAffiliateRouteRepository) GetByID(id uint) (*models.AffiliateRoute, error) {
	if id == 0 {
		return nil, nil
	}
	var route models.AffiliateRoute
	if err := r.db.Preload("Exchange").First(&route, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &route, nil
}

// GetActiveByExchangeID 取引所 ID で有効な経路を取得
func (r *GormAffiliateRouteRepository) GetActiveByExchangeID(exchangeID uint) (*models.AffiliateRoute, error) {
	if exchangeID == 0 {
		return nil, nil
	}
	var route models.AffiliateRoute
	if err := r.db.Preload("Exchange").
		Where("exchange_id = ? AND is_active = ?", exchangeID, true).
		First(&route).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &route, nil
}

// GetActiveByExchangeSlug 取引所スラッグで有効な経路を取得
func (r *GormAffiliateRouteRepository) GetActiveByExchangeSlug(slug string) (*models.AffiliateRoute, error) {
	normalized := strings.ToLower(strings.TrimSpace(slug))
	if normalized == "" {
		return nil, nil
	}
	var route models.AffiliateRoute
	if err := r.db.Preload("Exchange").
		Joins("JOIN exchanges ON exchanges.id = affiliate_routes.exchange_id").
		Where("exchanges.slug = ? AND affiliate_routes.is_active = ?", normalized, true).
		First(&route).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &route, nil
}

// ListActive 有効な経路を全件取得（報酬集計用）
func (r *GormAffiliateRouteRepository) ListActive() ([]models.AffiliateRoute, error) {
	routes := make([]models.AffiliateRoute, 0)
	if err := r.db.Preload("Exchange").
		Where("is_active = ?", true).
		Order("id ASC").
		Find(&routes).Error; err != nil {
		return nil, err
	}
	return routes, nil
}

// Create アフィリエイト経路を作成
func (r *GormAffiliateRouteRepository) Create(route *models.AffiliateRoute) error {
	return r.db.Create(route).Error
}

// Update アフィリエイト経路を更新
func (r *GormAffiliateRouteRepository) Update(route *models.AffiliateRoute) error {
	return r.db.Save(route).Error
}

// Delete アフィリエイト経路を削除（論理削除）
func (r *GormAffiliateRouteRepository) Delete(id uint) error {
	if id == 0 {
		return nil
	}
	return r.db.Delete(&models.AffiliateRoute{}, id).Error
}
