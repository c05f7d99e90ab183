package repository

import (
	"errors"

	"github.com/crypto-navi/api/internal/models"

	"gorm.io/gorm"
)

// SettingRepository サイト設定データアクセスインターフェース
type SettingRepository interface {
	GetByKey(key string) (*models.Setting, error)
	Upsert(key string, value models.JSON) (*models.Setting, error)
}

// GormSettingRepository GORM 実装
type GormSettingRepository struct {
	db *gorm.DB
}

// NewSettingRepository 設定リポジトリを生成
func NewSettingRepository(db *gorm.DB) *GormSettingRepository {
	return &GormSettingRepository{db: db}
}

// GetByKey 設定を取得
func (r *GormSettingRepository) GetByKey(key string) (*models.Setting, error) {
	var setting models.Setting
	if err := r.db.Where("key = ?", key).First(&setting).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &setting, nil
}

// Upsert 設定を更新または作成
func (r *GormSettingRepository) Upsert(key string, value models.JSON) (*models.Setting, error) {
	setting, err := r.GetByKey(key)
	if err != nil {
		return nil, err
	}
	if setting == nil {
		setting = &models.Setting{
			Key:       key,
			ValueJSON: value,
		}
		if err := r.db.Create(setting).Error; err != nil {
			return nil, err
		}
		return setting, nil
	}

	setting.ValueJSON = value
	if err := r.db.Save(setting).Error; err != nil {
		return nil, err
	}
	return setting, nil
}
