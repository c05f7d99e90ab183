package service

import (
	"strings"
	"sync"
	"time"

	"github.com/crypto-navi/api/internal/config"
	"github.com/crypto-navi/api/internal/constants"
	"github.com/crypto-navi/api/internal/models"

	"github.com/mojocn/base64Captcha"
)

// CaptchaVerifyPayload 認証コード検証リクエスト
type CaptchaVerifyPayload struct {
	CaptchaID   string `json:"captcha_id"`
	CaptchaCode string `json:"captcha_code"`
}

// CaptchaImageChallenge 画像認証コードチャレンジ
type CaptchaImageChallenge struct {
	CaptchaID   string `json:"captcha_id"`
	ImageBase64 string `json:"image_base64"`
}

// CaptchaService 認証コードサービス
// 設定の読み込みとチャレンジの生成、検証を一手に担う
// シーン単位のスイッチで要否を判定する
// 外部からは Verify(scene, payload, clientIP) と
// 画像モード時の GenerateImageChallenge のみ呼び出せばよい
//
//nolint:govet
type CaptchaService struct {
	settingService *SettingService
	defaultConfig  config.CaptchaConfig

	cacheTTL time.Duration

	mu            sync.RWMutex
	cachedSetting CaptchaSetting
	cachedAt      time.Time

	imageStore          base64Captcha.Store
	imageStoreMaxStore  int
	imageStoreExpireSec int
}

// NewCaptchaService 認証コードサービスを生成する
func NewCaptchaService(settingService *SettingService, defaultConfig config.CaptchaConfig) *CaptchaService {
	return &CaptchaService{
		settingService: settingService,
		defaultConfig:  defaultConfig,
		cacheTTL:       30 * time.Second,
	}
}

// SetDefaultConfig デフォルト設定を更新する（管理画面の保存後に呼ばれる）
func (s *CaptchaService) SetDefaultConfig(defaultConfig config.CaptchaConfig) {
	if s == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.defaultConfig = defaultConfig
	s.cachedAt = time.Time{}
}

// InvalidateCache ローカルキャッシュの設定を無効化する
func (s *CaptchaService) InvalidateCache() {
	if s == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cachedAt = time.Time{}
}

// GetPublicSetting フロント向けの公開設定を取得する
func (s *CaptchaService) GetPublicSetting() (models.JSON, error) {
	setting, err := s.getSetting()
	if err != nil {
		return nil, err
	}
	return PublicCaptchaSetting(setting), nil
}

// GenerateImageChallenge 画像認証コードを生成する
func (s *CaptchaService) GenerateImageChallenge() (*CaptchaImageChallenge, error) {
	setting, err := s.getSetting()
	if err != nil {
		return nil, err
	}
	if setting.Provider != constants.CaptchaProviderImage {
		return nil, ErrCaptchaConfigInvalid
	}

	store := s.ensureImageStore(setting)
	driver := base64Captcha.NewDriverString(
		setting.Image.Height,
		setting.Image.Width,
		setting.Image.NoiseCount,
		setting.Image.ShowLine,
		setting.Image.Length,
		"0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ",
		nil,
		base64Captcha.DefaultEmbeddedFonts,
		nil,
	)
	captcha := base64Captcha.NewCaptcha(driver, store)
	id, b64s, _, genErr := captcha.Generate()
	if genErr != nil {
		return nil, genErr
	}

	return &CaptchaImageChallenge{
		CaptchaID:   strings.TrimSpace(id),
		ImageBase64: strings.TrimSpace(b64s),
	}, nil
}

// Verify シーン単位で認証コードを検証する
func (s *CaptchaService) Verify(scene string, payload CaptchaVerifyPayload, clientIP string) error {
	setting, err := s.getSetting()
	if err != nil {
		return err
	}

	if !setting.IsSceneEnabled(scene) {
		return nil
	}

	switch setting.Provider {
	case constants.CaptchaProviderImage:
		captchaID := strings.TrimSpace(payload.CaptchaID)
		captchaCode := strings.TrimSpace(payload.CaptchaCode)
		if captchaID == "" || captchaCode == "" {
			return ErrCaptchaRequired
		}
		store := s.ensureImageStore(setting)
		if !store.Verify(captchaID, captchaCode, true) {
			return ErrCaptchaInvalid
		}
		return nil
	default:
		return ErrCaptchaConfigInvalid
	}
}

func (s *CaptchaService) ensureImageStore(setting CaptchaSetting) base64Captcha.Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.imageStore != nil && s.imageStoreMaxStore == setting.Image.MaxStore && s.imageStoreExpireSec == setting.Image.ExpireSeconds {
		return s.imageStore
	}
	s.imageStore = base64Captcha.NewMemoryStore(setting.Image.MaxStore, time.Duration(setting.Image.ExpireSeconds)*time.Second)
	s.imageStoreMaxStore = setting.Image.MaxStore
	s.imageStoreExpireSec = setting.Image.ExpireSeconds
	return s.imageStore
}

func (s *CaptchaService) getSetting() (CaptchaSetting, error) {
	if s == nil {
		return CaptchaDefaultSetting(config.CaptchaConfig{}), nil
	}

	now := time.Now()
	s.mu.RLock()
	if !s.cachedAt.IsZero() && now.Sub(s.cachedAt) <= s.cacheTTL {
		cached := s.cachedSetting
		s.mu.RUnlock()
		return cached, nil
	}
	s.mu.RUnlock()

	fallback := s.defaultConfig
	if s.settingService == nil {
		setting := CaptchaDefaultSetting(fallback)
		s.mu.Lock()
		s.cachedSetting = setting
		s.cachedAt = now
		s.mu.Unlock()
		return setting, nil
	}

	setting, err := s.settingService.GetCaptchaSetting(fallback)
	if err != nil {
		return CaptchaSetting{}, err
	}
	setting = NormalizeCaptchaSetting(setting)

	s.mu.Lock()
	s.cachedSetting = setting
	s.cachedAt = now
	s.mu.Unlock()
	return setting, nil
}
