package repository

import (
	"errors"
	"strings"
	"time"

	"github.com/crypto-navi/api/internal/models"

	"gorm.io/gorm"
)

// BannerRepository バナーデータアクセスインターフェース
type BannerRepository interface {
	List(filter BannerListFilter) ([]models.Banner, int64, error)
	ListValidByPosition(position string, limit int, now time.Time) ([]models.Banner, error)
	GetByID(id uint) (*models.Banner, error)
	Create(banner *models.Banner) error
	Update(banner *models.Banner) error
	Delete(id uint) error
}

// GormBannerRepository GORM 実装
type GormBannerRepository struct {
	db *gorm.DB
}

// NewBannerRepository バナーリポジトリを生成
func NewBannerRepository(db *gorm.DB) *GormBannerRepository {
	return &GormBannerRepository{db: db}
}

// List バナー一覧を取得
func (r *GormBannerRepository) List(filter BannerListFilter) ([]models.Banner, int64, error) {
	query := r.db.Model(&models.Banner{})

	if filter.Position != "" {
		query = query.Where("position = ?", filter.Position)
	}
	if filter.IsActive != nil {
		query = query.Where("is_active = ?", *filter.IsActive)
	}
	if filter.OnlyValid {
		now := time.Now()
		query = query.Where("is_active = ?", true)
		query = query.Where("(start_at IS NULL OR start_at <= ?)", now)
		query = query.Where("(end_at IS NULL OR end_at >= ?)", now)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		condition, argCount := buildLikeCondition(r.db, []string{"name", "title"})
		if argCount > 0 {
			query = query.Where(condition, repeatLikeArgs("%"+search+"%", argCount)...)
		}
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	query = applyPagination(query, filter.Page, filter.PageSize)

	orderBy := filter.OrderBy
	if orderBy == "" {
		orderBy = "sort_order DESC, created_at DESC"
	}

	banners := make([]models.Banner, 0)
	if err := query.Order(orderBy).Find(&banners).Error; err != nil {
		return nil, 0, err
	}
	return banners, total, nil
}

// ListValidByPosition 指定位置で現在有効なバナーを取得
func (r *GormBannerRepository) ListValidByPosition(position string, limit int, now time.Time) ([]models.Banner, error) {
	query := r.db.Model(&models.Banner{}).
		Where("is_active = ?", true).
		Where("(start_at IS NULL OR start_at <= ?)", now).
		Where("(end_at IS NULL OR end_at >= ?)", now)

	if position != "" {
		query = query.Where("position = ?", position)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}

	banners := make([]models.Banner, 0)
	if err := query.Order("sort_order DESC, created_at DESC").Find(&banners).Error; err != nil {
		return nil, err
	}
	return banners, nil
}

// GetByID ID でバナーを取得
func (r *GormBannerRepository) GetByID(id uint) (*models.Banner, error) {
	if id == 0 {
		return nil, nil
	}
	var banner models.Banner
	if err := r.db.First(&banner, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &banner, nil
}

// Create バナーを作成
func (r *GormBannerRepository) Create(banner *models.Banner) error {
	return r.db.Create(banner).Error
}

// Update バナーを更新
func (r *GormBannerRepository) Update(banner *models.Banner) error {
	return r.db.Save(banner).Error
}

// Delete バナーを削除
func (r *GormBannerRepository) Delete(id uint) error {
	if id == 0 {
		return nil
	}
	return r.db.Delete(&models.Banner{}, id).Error
}
