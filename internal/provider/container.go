package provider

import (
	"github.com/crypto-navi/api/internal/authz"
	"github.com/crypto-navi/api/internal/cache"
	"github.com/crypto-navi/api/internal/coingecko"
	"github.com/crypto-navi/api/internal/config"
	"github.com/crypto-navi/api/internal/logger"
	"github.com/crypto-navi/api/internal/models"
	"github.com/crypto-navi/api/internal/queue"
	"github.com/crypto-navi/api/internal/repository"
	"github.com/crypto-navi/api/internal/service"
	"github.com/crypto-navi/api/internal/tracking"
	"github.com/crypto-navi/api/internal/ws"
)

// Container 依存性注入コンテナ
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client

	// Repositories
	AdminRepo          repository.AdminRepository
	ExchangeRepo       repository.ExchangeRepository
	GuideRepo          repository.GuideRepository
	BannerRepo         repository.BannerRepository
	SettingRepo        repository.SettingRepository
	AffiliateRouteRepo repository.AffiliateRouteRepository
	AffiliateClickRepo repository.AffiliateClickRepository
	AuthzAuditLogRepo  repository.AuthzAuditLogRepository

	// 外部連携クライアント
	CoinGeckoClient *coingecko.Client
	DeliveryClient  *tracking.DeliveryClient
	AnalyticsSink   tracking.AnalyticsSink
	HistoryStore    *tracking.ClickHistoryStore
	PendingStore    *tracking.PendingClickStore
	PriceHub        *ws.Hub

	// Services
	AuthzService      *authz.Service
	AuthService       *service.AuthService
	CaptchaService    *service.CaptchaService
	SettingService    *service.SettingService
	ExchangeService   *service.ExchangeService
	GuideService      *service.GuideService
	BannerService     *service.BannerService
	RouteService      *service.RouteService
	ClickService      *service.ClickService
	PriceService      *service.PriceService
	StatsService      *service.StatsService
	ToolsService      *service.ToolsService
	AuthzAuditService *service.AuthzAuditService
}

// NewContainer コンテナを初期化する
func NewContainer(cfg *config.Config) *Container {
	// キャッシュの初期化
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	// キュークライアントの初期化
	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
	}

	// 1. Repositories
	c.initRepositories()

	// 2. 外部連携クライアント
	c.initClients()

	// 3. Services
	c.initServices()

	return c
}

func (c *Container) initRepositories() {
	db := models.DB
	c.AdminRepo = repository.NewAdminRepository(db)
	c.ExchangeRepo = repository.NewExchangeRepository(db)
	c.GuideRepo = repository.NewGuideRepository(db)
	c.BannerRepo = repository.NewBannerRepository(db)
	c.SettingRepo = repository.NewSettingRepository(db)
	c.AffiliateRouteRepo = repository.NewAffiliateRouteRepository(db)
	c.AffiliateClickRepo = repository.NewAffiliateClickRepository(db)
	c.AuthzAuditLogRepo = repository.NewAuthzAuditLogRepository(db)
}

func (c *Container) initClients() {
	c.CoinGeckoClient = coingecko.New(&c.Config.CoinGecko)
	c.DeliveryClient = tracking.NewDeliveryClient(&c.Config.Tracking)
	c.AnalyticsSink = tracking.LogSink{}
	c.HistoryStore = tracking.NewClickHistoryStore(tracking.CacheKV{}, c.Config.Tracking.HistoryLimit)
	c.PendingStore = tracking.NewPendingClickStore(tracking.CacheKV{}, c.Config.Tracking.PendingLimit)
	c.PriceHub = ws.NewHub(nil)
}

func (c *Container) initServices() {
	authzService, err := authz.NewService(models.DB)
	if err != nil {
		logger.Errorw("provider_init_authz_failed", "error", err)
		panic(err)
	}
	c.AuthzService = authzService
	if err := c.AuthzService.BootstrapBuiltinRoles(); err != nil {
		logger.Errorw("provider_bootstrap_builtin_roles_failed", "error", err)
		panic(err)
	}

	c.SettingService = service.NewSettingService(c.SettingRepo)
	captchaSetting, err := c.SettingService.GetCaptchaSetting(c.Config.Captcha)
	if err != nil {
		logger.Warnw("provider_load_captcha_setting_failed", "error", err)
	} else {
		c.Config.Captcha = service.CaptchaSettingToConfig(captchaSetting)
	}

	c.CaptchaService = service.NewCaptchaService(c.SettingService, c.Config.Captcha)
	c.AuthService = service.NewAuthService(c.Config, c.AdminRepo)
	c.ExchangeService = service.NewExchangeService(c.ExchangeRepo)
	c.GuideService = service.NewGuideService(c.GuideRepo)
	c.BannerService = service.NewBannerService(c.BannerRepo)
	c.RouteService = service.NewRouteService(c.AffiliateRouteRepo, c.ExchangeRepo)
	c.ClickService = service.NewClickService(
		c.AffiliateRouteRepo,
		c.AffiliateClickRepo,
		c.ExchangeRepo,
		c.DeliveryClient,
		c.AnalyticsSink,
		c.HistoryStore,
		c.PendingStore,
		c.QueueClient,
		tracking.UTMParams{
			Source: c.Config.Tracking.UTMSource,
			Medium: c.Config.Tracking.UTMMedium,
		},
	)
	c.PriceService = service.NewPriceService(c.CoinGeckoClient, c.Config, c.SettingService)
	c.StatsService = service.NewStatsService(c.AffiliateClickRepo, c.ExchangeRepo, c.AffiliateRouteRepo)
	c.ToolsService = service.NewToolsService(c.ExchangeRepo)
	c.AuthzAuditService = service.NewAuthzAuditService(c.AuthzAuditLogRepo)
}
