package repository

import (
	"errors"
	"strings"

	"github.com/crypto-navi/api/internal/constants"
	"github.com/crypto-navi/api/internal/models"

	"gorm.io/gorm"
)

// ExchangeRepository 取引所データアクセスインターフェース
type ExchangeRepository interface {
	List(filter ExchangeListFilter) ([]models.Exchange, int64, error)
	GetBySlug(slug string) (*models.Exchange, error)
	GetByID(id uint) (*models.Exchange, error)
	ListBySlugs(slugs []string) ([]models.Exchange, error)
	Create(exchange *models.Exchange) error
	Update(exchange *models.Exchange) error
	Delete(id uint) error
	Count() (int64, error)
	CountBySlug(slug string, excludeID uint) (int64, error)
}

// GormExchangeRepository GORM 実装
type GormExchangeRepository struct {
	db *gorm.DB
}

// NewExchangeRepository 取引所リポジトリを生成
func NewExchangeRepository(db *gorm.DB) *GormExchangeRepository {
	return &GormExchangeRepository{db: db}
}

// List 取引所一覧を取得
func (r *GormExchangeRepository) List(filter ExchangeListFilter) ([]models.Exchange, int64, error) {
	query := r.db.Model(&models.Exchange{})

	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.OnlyActive {
		query = query.Where("status = ?", constants.ExchangeStatusActive)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		condition, argCount := buildLikeCondition(r.db, []string{"slug", "name", "name_en"})
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
		orderBy = "sort_order ASC, rating DESC, id ASC"
	}

	exchanges := make([]models.Exchange, 0)
	if err := query.Order(orderBy).Find(&exchanges).Error; err != nil {
		return nil, 0, err
	}
	return exchanges, total, nil
}

// GetBySlug スラッグで取引所を取得
func (r *GormExchangeRepository) GetBySlug(slug string) (*models.Exchange, error) {
	normalized := strings.ToLower(strings.TrimSpace(slug))
	if normalized == "" {
		return nil, nil
	}
	var exchange models.Exchange
	if err := r.db.Where("slug = ?", normalized).First(&exchange).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &exchange, nil
}

// GetByID ID で取引所を取得
func (r *GormExchangeRepository) GetByID(id uint) (*models.Exchange, error) {
	if id == 0 {
		return nil, nil
	}
	var exchange models.Exchange
	if err := r.db.First(&exchange, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &exchange, nil
}

// ListBySlugs 比較表示用に複数スラッグをまとめて取得
func (r *GormExchangeRepository) ListBySlugs(slugs []string) ([]models.Exchange, error) {
	normalized := make([]string, 0, len(slugs))
	for _, slug := range slugs {
		trimmed := strings.ToLower(strings.TrimSpace(slug))
		if trimmed == "" {
			continue
		}
		normalized = append(normalized, trimmed)
	}
	if len(normalized) == 0 {
		return []models.Exchange{}, nil
	}
	exchanges := make([]models.Exchange, 0, len(normalized))
	if err := r.db.Where("slug IN ?", normalized).
		Order("sort_order ASC, id ASC").
		Find(&exchanges).Error; err != nil {
		return nil, err
	}
	return exchanges, nil
}

// Create 取引所を作成
func (r *GormExchangeRepository) Create(exchange *models.Exchange) error {
	return r.db.Create(exchange).Error
}

// Update 取引所を更新
func (r *GormExchangeRepository) Update(exchange *models.Exchange) error {
	return r.db.Save(exchange).Error
}

// Delete 取引所を削除（論理削除）
func (r *GormExchangeRepository) Delete(id uint) error {
	if id == 0 {
		return nil
	}
	return r.db.Delete(&models.Exchange{}, id).Error
}

// Count 取引所件数
func (r *GormExchangeRepository) Count() (int64, error) {
	var count int64
	if err := r.db.Model(&models.Exchange{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountBySlug スラッグ重複チェック用の件数取得
func (r *GormExchangeRepository) CountBySlug(slug string, excludeID uint) (int64, error) {
	var count int64
	query := r.db.Model(&models.Exchange{}).Where("slug = ?", strings.ToLower(strings.TrimSpace(slug)))
	if excludeID > 0 {
		query = query.Where("id != ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
