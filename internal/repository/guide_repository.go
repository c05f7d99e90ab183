package repository

import (
	"errors"
	"strings"

	"github.com/crypto-navi/api/internal/models"

	"gorm.io/gorm"
)

// GuideRepository ガイド記事データアクセスインターフェース
type GuideRepository interface {
	List(filter GuideListFilter) ([]models.Guide, int64, error)
	GetBySlug(slug string) (*models.Guide, error)
	GetByID(id uint) (*models.Guide, error)
	Create(guide *models.Guide) error
	Update(guide *models.Guide) error
	Delete(id uint) error
	CountBySlug(slug string, excludeID uint) (int64, error)
}

// GormGuideRepository GORM 実装
type GormGuideRepository struct {
	db *gorm.DB
}

// NewGuideRepository ガイド記事リポジトリを生成
func NewGuideRepository(db *gorm.DB) *GormGuideRepository {
	return &GormGuideRepository{db: db}
}

// List ガイド記事一覧を取得
func (r *GormGuideRepository) List(filter GuideListFilter) ([]models.Guide, int64, error) {
	query := r.db.Model(&models.Guide{})

	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.OnlyPublished {
		query = query.Where("is_published = ?", true)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		condition, argCount := buildLikeCondition(r.db, []string{"slug", "title", "summary"})
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
		orderBy = "published_at DESC, id DESC"
	}

	guides := make([]models.Guide, 0)
	if err := query.Order(orderBy).Find(&guides).Error; err != nil {
		return nil, 0, err
	}
	return guides, total, nil
}

// GetBySlug スラッグでガイド記事を取得
func (r *GormGuideRepository) GetBySlug(slug string) (*models.Guide, error) {
	normalized := strings.TrimSpace(slug)
	if normalized == "" {
		return nil, nil
	}
	var guide models.Guide
	if err := r.db.Where("slug = ?", normalized).First(&guide).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &guide, nil
}

// GetByID ID でガイド記事を取得
func (r *GormGuideRepository) GetByID(id uint) (*models.Guide, error) {
	if id == 0 {
		return nil, nil
	}
	var guide models.Guide
	if err := r.db.First(&guide, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &guide, nil
}

// Create ガイド記事を作成
func (r *GormGuideRepository) Create(guide *models.Guide) error {
	return r.db.Create(guide).Error
}

// Update ガイド記事を更新
func (r *GormGuideRepository) Update(guide *models.Guide) error {
	return r.db.Save(guide).Error
}

// Delete ガイド記事を削除（論理削除）
func (r *GormGuideRepository) Delete(id uint) error {
	if id == 0 {
		return nil
	}
	return r.db.Delete(&models.Guide{}, id).Error
}

// CountBySlug スラッグ重複チェック用の件数取得
func (r *GormGuideRepository) CountBySlug(slug string, excludeID uint) (int64, error) {
	var count int64
	query := r.db.Model(&models.Guide{}).Where("slug = ?", strings.TrimSpace(slug))
	if excludeID > 0 {
		query = query.Where("id != ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
