package service

import (
	"fmt"
	"strings"

	"github.com/crypto-navi/api/internal/config"
	"github.com/crypto-navi/api/internal/constants"
	"github.com/crypto-navi/api/internal/models"
)

// CaptchaSceneSetting 認証コードの適用シーン設定
// 管理画面ログインのみが対象シーン
// settings 保存と管理 API の入出力で共通利用する
type CaptchaSceneSetting struct {
	AdminLogin bool `json:"admin_login"`
}

// CaptchaImageSetting 画像認証コード設定
type CaptchaImageSetting struct {
	Length        int `json:"length"`
	Width         int `json:"width"`
	Height        int `json:"height"`
	NoiseCount    int `json:"noise_count"`
	ShowLine      int `json:"show_line"`
	ExpireSeconds int `json:"expire_seconds"`
	MaxStore      int `json:"max_store"`
}

// CaptchaSetting 認証コード設定エンティティ
type CaptchaSetting struct {
	Provider string              `json:"provider"`
	Scenes   CaptchaSceneSetting `json:"scenes"`
	Image    CaptchaImageSetting `json:"image"`
}

// CaptchaScenePatch シーン設定パッチ
type CaptchaScenePatch struct {
	AdminLogin *bool `json:"admin_login"`
}

// CaptchaImagePatch 画像設定パッチ
type CaptchaImagePatch struct {
	Length        *int `json:"length"`
	Width         *int `json:"width"`
	Height        *int `json:"height"`
	NoiseCount    *int `json:"noise_count"`
	ShowLine      *int `json:"show_line"`
	ExpireSeconds *int `json:"expire_seconds"`
	MaxStore      *int `json:"max_store"`
}

// CaptchaSettingPatch 認証コード設定パッチ
type CaptchaSettingPatch struct {
	Provider *string            `json:"provider"`
	Scenes   *CaptchaScenePatch `json:"scenes"`
	Image    *CaptchaImagePatch `json:"image"`
}

// CaptchaDefaultSetting 静的設定からデフォルトの認証コード設定を生成する
func CaptchaDefaultSetting(cfg config.CaptchaConfig) CaptchaSetting {
	setting := CaptchaSetting{
		Provider: strings.ToLower(strings.TrimSpace(cfg.Provider)),
		Scenes: CaptchaSceneSetting{
			AdminLogin: cfg.Scenes.AdminLogin,
		},
		Image: CaptchaImageSetting{
			Length:        cfg.Image.Length,
			Width:         cfg.Image.Width,
			Height:        cfg.Image.Height,
			NoiseCount:    cfg.Image.NoiseCount,
			ShowLine:      cfg.Image.ShowLine,
			ExpireSeconds: cfg.Image.ExpireSeconds,
			MaxStore:      cfg.Image.MaxStore,
		},
	}
	return NormalizeCaptchaSetting(setting)
}

// NormalizeCaptchaSetting 認証コード設定を正規化する
func NormalizeCaptchaSetting(setting CaptchaSetting) CaptchaSetting {
	provider := strings.ToLower(strings.TrimSpace(setting.Provider))
	switch provider {
	case constants.CaptchaProviderImage, constants.CaptchaProviderNone:
		setting.Provider = provider
	default:
		setting.Provider = constants.CaptchaProviderNone
	}

	if setting.Image.Length < 4 || setting.Image.Length > 8 {
		setting.Image.Length = 5
	}
	if setting.Image.Width < 100 {
		setting.Image.Width = 240
	}
	if setting.Image.Height < 40 {
		setting.Image.Height = 80
	}
	if setting.Image.NoiseCount < 0 {
		setting.Image.NoiseCount = 2
	}
	if setting.Image.ShowLine < 0 {
		setting.Image.ShowLine = 2
	}
	if setting.Image.ExpireSeconds < 30 || setting.Image.ExpireSeconds > 3600 {
		setting.Image.ExpireSeconds = 300
	}
	if setting.Image.MaxStore < 100 {
		setting.Image.MaxStore = 10240
	}

	return setting
}

// ValidateCaptchaSetting 認証コード設定を検証する
func ValidateCaptchaSetting(setting CaptchaSetting) error {
	normalized := NormalizeCaptchaSetting(setting)

	switch normalized.Provider {
	case constants.CaptchaProviderNone, constants.CaptchaProviderImage:
	default:
		return fmt.Errorf("%w: 認証コードのプロバイダが不正です", ErrCaptchaConfigInvalid)
	}

	if normalized.Provider == constants.CaptchaProviderNone && normalized.Scenes.anyEnabled() {
		return fmt.Errorf("%w: 認証コードのシーンを有効にする場合はプロバイダを選択してください", ErrCaptchaConfigInvalid)
	}

	if normalized.Image.Length < 4 || normalized.Image.Length > 8 {
		return fmt.Errorf("%w: 画像認証コードの桁数は 4-8 の範囲で指定してください", ErrCaptchaConfigInvalid)
	}
	if normalized.Image.Width < 100 || normalized.Image.Height < 40 {
		return fmt.Errorf("%w: 画像認証コードの幅・高さが不正です", ErrCaptchaConfigInvalid)
	}
	if normalized.Image.ExpireSeconds < 30 || normalized.Image.ExpireSeconds > 3600 {
		return fmt.Errorf("%w: 画像認証コードの有効期限は 30-3600 秒の範囲で指定してください", ErrCaptchaConfigInvalid)
	}

	return nil
}

// CaptchaSettingToConfig settings の設定を実行時設定へ変換する
func CaptchaSettingToConfig(setting CaptchaSetting) config.CaptchaConfig {
	normalized := NormalizeCaptchaSetting(setting)
	return config.CaptchaConfig{
		Provider: normalized.Provider,
		Scenes: config.CaptchaSceneConfig{
			AdminLogin: normalized.Scenes.AdminLogin,
		},
		Image: config.CaptchaImageConfig{
			Length:        normalized.Image.Length,
			Width:         normalized.Image.Width,
			Height:        normalized.Image.Height,
			NoiseCount:    normalized.Image.NoiseCount,
			ShowLine:      normalized.Image.ShowLine,
			ExpireSeconds: normalized.Image.ExpireSeconds,
			MaxStore:      normalized.Image.MaxStore,
		},
	}
}

// CaptchaSettingToMap 認証コード設定を settings テーブル形式へ変換する
func CaptchaSettingToMap(setting CaptchaSetting) map[string]interface{} {
	normalized := NormalizeCaptchaSetting(setting)
	return map[string]interface{}{
		"provider": normalized.Provider,
		"scenes": map[string]interface{}{
			"admin_login": normalized.Scenes.AdminLogin,
		},
		"image": map[string]interface{}{
			"length":         normalized.Image.Length,
			"width":          normalized.Image.Width,
			"height":         normalized.Image.Height,
			"noise_count":    normalized.Image.NoiseCount,
			"show_line":      normalized.Image.ShowLine,
			"expire_seconds": normalized.Image.ExpireSeconds,
			"max_store":      normalized.Image.MaxStore,
		},
	}
}

// MaskCaptchaSettingForAdmin 管理画面向けの認証コード設定を返す
func MaskCaptchaSettingForAdmin(setting CaptchaSetting) models.JSON {
	normalized := NormalizeCaptchaSetting(setting)
	return models.JSON{
		"provider": normalized.Provider,
		"scenes": map[string]interface{}{
			"admin_login": normalized.Scenes.AdminLogin,
		},
		"image": map[string]interface{}{
			"length":         normalized.Image.Length,
			"width":          normalized.Image.Width,
			"height":         normalized.Image.Height,
			"noise_count":    normalized.Image.NoiseCount,
			"show_line":      normalized.Image.ShowLine,
			"expire_seconds": normalized.Image.ExpireSeconds,
			"max_store":      normalized.Image.MaxStore,
		},
	}
}

// PublicCaptchaSetting フロントへ公開できる認証コード設定を返す
func PublicCaptchaSetting(setting CaptchaSetting) models.JSON {
	normalized := NormalizeCaptchaSetting(setting)
	return models.JSON{
		"provider": normalized.Provider,
		"scenes": map[string]interface{}{
			"admin_login": normalized.Scenes.AdminLogin,
		},
	}
}

func (s CaptchaSceneSetting) anyEnabled() bool {
	return s.AdminLogin
}

// IsSceneEnabled 指定シーンが有効かどうかを返す
func (s CaptchaSetting) IsSceneEnabled(scene string) bool {
	switch strings.ToLower(strings.TrimSpace(scene)) {
	case constants.CaptchaSceneAdminLogin:
		return s.Scenes.AdminLogin
	default:
		return false
	}
}

// GetCaptchaSetting 認証コード設定を取得する（settings 優先、未設定時は config.yml）
func (s *SettingService) GetCaptchaSetting(defaultCfg config.CaptchaConfig) (CaptchaSetting, error) {
	fallback := CaptchaDefaultSetting(defaultCfg)
	value, err := s.GetByKey(constants.SettingKeyCaptchaConfig)
	if err != nil {
		return fallback, err
	}
	if value == nil {
		return fallback, nil
	}
	parsed := captchaSettingFromJSON(value, fallback)
	return NormalizeCaptchaSetting(parsed), nil
}

// PatchCaptchaSetting パッチに基づいて認証コード設定を更新する
func (s *SettingService) PatchCaptchaSetting(defaultCfg config.CaptchaConfig, patch CaptchaSettingPatch) (CaptchaSetting, error) {
	current, err := s.GetCaptchaSetting(defaultCfg)
	if err != nil {
		return CaptchaSetting{}, err
	}

	next := current
	if patch.Provider != nil {
		next.Provider = strings.ToLower(strings.TrimSpace(*patch.Provider))
	}
	if patch.Scenes != nil {
		if patch.Scenes.AdminLogin != nil {
			next.Scenes.AdminLogin = *patch.Scenes.AdminLogin
		}
	}
	if patch.Image != nil {
		if patch.Image.Length != nil {
			next.Image.Length = *patch.Image.Length
		}
		if patch.Image.Width != nil {
			next.Image.Width = *patch.Image.Width
		}
		if patch.Image.Height != nil {
			next.Image.Height = *patch.Image.Height
		}
		if patch.Image.NoiseCount != nil {
			next.Image.NoiseCount = *patch.Image.NoiseCount
		}
		if patch.Image.ShowLine != nil {
			next.Image.ShowLine = *patch.Image.ShowLine
		}
		if patch.Image.ExpireSeconds != nil {
			next.Image.ExpireSeconds = *patch.Image.ExpireSeconds
		}
		if patch.Image.MaxStore != nil {
			next.Image.MaxStore = *patch.Image.MaxStore
		}
	}

	normalized := NormalizeCaptchaSetting(next)
	if err := ValidateCaptchaSetting(normalized); err != nil {
		return CaptchaSetting{}, err
	}

	if _, err := s.Update(constants.SettingKeyCaptchaConfig, CaptchaSettingToMap(normalized)); err != nil {
		return CaptchaSetting{}, err
	}
	return normalized, nil
}

func captchaSettingFromJSON(raw models.JSON, fallback CaptchaSetting) CaptchaSetting {
	next := fallback
	if raw == nil {
		return next
	}

	next.Provider = readString(raw, "provider", next.Provider)

	scenesRaw, ok := raw["scenes"]
	if ok {
		if scenesMap := toStringAnyMap(scenesRaw); scenesMap != nil {
			next.Scenes.AdminLogin = readBool(scenesMap, "admin_login", next.Scenes.AdminLogin)
		}
	}

	imageRaw, ok := raw["image"]
	if ok {
		if imageMap := toStringAnyMap(imageRaw); imageMap != nil {
			next.Image.Length = readInt(imageMap, "length", next.Image.Length)
			next.Image.Width = readInt(imageMap, "width", next.Image.Width)
			next.Image.Height = readInt(imageMap, "height", next.Image.Height)
			next.Image.NoiseCount = readInt(imageMap, "noise_count", next.Image.NoiseCount)
			next.Image.ShowLine = readInt(imageMap, "show_line", next.Image.ShowLine)
			next.Image.ExpireSeconds = readInt(imageMap, "expire_seconds", next.Image.ExpireSeconds)
			next.Image.MaxStore = readInt(imageMap, "max_store", next.Image.MaxStore)
		}
	}

	return next
}
