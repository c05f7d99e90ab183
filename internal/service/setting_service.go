package service

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/crypto-navi/api/internal/constants"
	"github.com/crypto-navi/api/internal/models"
	"github.com/crypto-navi/api/internal/repository"
)

// SettingService サイト設定ビジネスサービス
type SettingService struct {
	repo repository.SettingRepository
}

// NewSettingService 設定サービスを生成
func NewSettingService(repo repository.SettingRepository) *SettingService {
	return &SettingService{repo: repo}
}

// GetSiteConfig サイト設定を取得（デフォルト値とマージ）
func (s *SettingService) GetSiteConfig(defaults map[string]interface{}) (map[string]interface{}, error) {
	data := make(map[string]interface{})
	for k, v := range defaults {
		data[k] = v
	}

	setting, err := s.repo.GetByKey(constants.SettingKeySiteConfig)
	if err != nil {
		return nil, err
	}
	if setting == nil {
		return data, nil
	}

	for k, v := range setting.ValueJSON {
		data[k] = v
	}
	return data, nil
}

// GetByKey 設定を取得
func (s *SettingService) GetByKey(key string) (models.JSON, error) {
	setting, err := s.repo.GetByKey(key)
	if err != nil {
		return nil, err
	}
	if setting == nil {
		return nil, nil
	}
	return setting.ValueJSON, nil
}

// Update 設定を保存
func (s *SettingService) Update(key string, value map[string]interface{}) (models.JSON, error) {
	normalized := normalizeSettingValueByKey(key, value)

	setting, err := s.repo.Upsert(key, normalized)
	if err != nil {
		return nil, err
	}
	return setting.ValueJSON, nil
}

// GetTrackingFlushIntervalSeconds 未配信キューの再送間隔を取得
func (s *SettingService) GetTrackingFlushIntervalSeconds(defaultValue int) (int, error) {
	if s == nil {
		return defaultValue, nil
	}
	value, err := s.GetByKey(constants.SettingKeyTrackingConfig)
	if err != nil {
		return defaultValue, err
	}
	if value == nil {
		return defaultValue, nil
	}
	raw, ok := value["flush_interval_seconds"]
	if !ok {
		return defaultValue, nil
	}
	seconds, err := parseSettingInt(raw)
	if err != nil {
		return defaultValue, err
	}
	if seconds <= 0 {
		return defaultValue, nil
	}
	return seconds, nil
}

func normalizeSettingValueByKey(key string, value map[string]interface{}) models.JSON {
	normalized := models.JSON{}
	for k, v := range value {
		if text, ok := v.(string); ok {
			normalized[k] = strings.TrimSpace(text)
			continue
		}
		normalized[k] = v
	}
	if key == constants.SettingKeyTickerConfig {
		if raw, ok := normalized["top_coins"]; ok {
			if n, err := parseSettingInt(raw); err == nil {
				if n < 1 {
					n = 1
				}
				if n > constants.CoinGeckoMaxPerPage {
					n = constants.CoinGeckoMaxPerPage
				}
				normalized["top_coins"] = n
			}
		}
	}
	return normalized
}

func parseSettingInt(value interface{}) (int, error) {
	switch v := value.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		return int(v), nil
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return int(i), nil
		}
		if f, err := v.Float64(); err == nil {
			return int(f), nil
		}
		return 0, fmt.Errorf("invalid json number")
	case string:
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			return 0, fmt.Errorf("empty string")
		}
		parsed, err := strconv.Atoi(trimmed)
		if err != nil {
			return 0, err
		}
		return parsed, nil
	default:
		return 0, fmt.Errorf("unsupported type %T", value)
	}
}
