package router

import (
	"fmt"
	"sort"
	"strings"

	"github.com/crypto-navi/api/internal/authz"
	"github.com/crypto-navi/api/internal/cache"
	"github.com/crypto-navi/api/internal/config"
	"github.com/crypto-navi/api/internal/constants"
	adminhandlers "github.com/crypto-navi/api/internal/http/handlers/admin"
	publichandlers "github.com/crypto-navi/api/internal/http/handlers/public"
	"github.com/crypto-navi/api/internal/http/response"
	"github.com/crypto-navi/api/internal/logger"
	"github.com/crypto-navi/api/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter ルーティングを初期化する
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	// ハンドラは公開側と管理側で分ける
	publicHandler := publichandlers.New(c)
	adminHandler := adminhandlers.New(c)
	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = constants.RedisPrefixDefault
	}
	redisClient := cache.Client()
	adminLoginRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:admin_login", redisPrefix),
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxAttempts,
		MessageKey:    "error.login_too_many",
	}

	// ミドルウェア
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	// 静的ファイル（バナー画像など）
	r.Static("/uploads", "./uploads")

	// API ルートグループ
	apiV1 := r.Group("/api/v1")
	{
		// 公開 API
		public := apiV1.Group("/public")
		{
			public.GET("/config", publicHandler.GetConfig)
			public.GET("/exchanges", publicHandler.GetExchanges)
			public.GET("/exchanges/compare", publicHandler.CompareExchanges)
			public.GET("/exchanges/:slug", publicHandler.GetExchangeBySlug)
			public.GET("/guides", publicHandler.GetGuides)
			public.GET("/guides/:slug", publicHandler.GetGuideBySlug)
			public.GET("/banners", publicHandler.GetPublicBanners)
			public.GET("/captcha/image", publicHandler.GetImageCaptcha)

			// 価格データ
			public.GET("/coins", publicHandler.GetTopCoins)
			public.GET("/coins/trending", publicHandler.GetTrendingCoins)
			public.GET("/coins/prices", publicHandler.GetMultiPrice)
			public.GET("/coins/:id", publicHandler.GetCoinDetail)
			public.GET("/coins/:id/price", publicHandler.GetCoinPrice)
			public.GET("/coins/:id/chart", publicHandler.GetMarketChart)

			// 投資ツール
			public.POST("/tools/fees", publicHandler.CalculateFees)
			public.POST("/tools/simulate", publicHandler.SimulateInvestment)
		}

		// アフィリエイト計測 API
		affiliate := apiV1.Group("/affiliate")
		{
			affiliate.POST("/go/:slug", publicHandler.TrackExchangeClick)
			affiliate.GET("/go/:slug/resolve", publicHandler.ResolveExchangeLink)
			affiliate.GET("/go/:slug/impression", publicHandler.GetImpressionTag)
			affiliate.GET("/clicks/history", publicHandler.GetClickHistory)
			affiliate.DELETE("/clicks/history", publicHandler.ClearClickHistory)
		}

		// 管理 API
		admin := apiV1.Group("/admin")
		{
			// ログインは未認証で到達できる
			admin.POST("/login", RateLimitMiddleware(redisClient, adminLoginRule, KeyByIP), adminHandler.AdminLogin)

			// 要認証
			authorized := admin.Use(JWTAuthMiddleware(cfg.JWT.SecretKey, c.AdminRepo), AdminRBACMiddleware(c.AuthzService))
			{
				// 集計ダッシュボード
				authorized.GET("/stats/overview", adminHandler.GetStatsOverview)
				authorized.GET("/stats/trends", adminHandler.GetStatsTrends)
				authorized.GET("/stats/rankings", adminHandler.GetStatsRankings)
				authorized.GET("/stats/rewards", adminHandler.GetStatsRewards)

				// 取引所管理
				authorized.GET("/exchanges", adminHandler.GetAdminExchanges)
				authorized.GET("/exchanges/:id", adminHandler.GetAdminExchange)
				authorized.POST("/exchanges", adminHandler.CreateExchange)
				authorized.PUT("/exchanges/:id", adminHandler.UpdateExchange)
				authorized.DELETE("/exchanges/:id", adminHandler.DeleteExchange)

				// ガイド記事管理
				authorized.GET("/guides", adminHandler.GetAdminGuides)
				authorized.GET("/guides/:id", adminHandler.GetAdminGuide)
				authorized.POST("/guides", adminHandler.CreateGuide)
				authorized.PUT("/guides/:id", adminHandler.UpdateGuide)
				authorized.DELETE("/guides/:id", adminHandler.DeleteGuide)

				// バナー管理
				authorized.GET("/banners", adminHandler.GetAdminBanners)
				authorized.GET("/banners/:id", adminHandler.GetAdminBanner)
				authorized.POST("/banners", adminHandler.CreateBanner)
				authorized.PUT("/banners/:id", adminHandler.UpdateBanner)
				authorized.DELETE("/banners/:id", adminHandler.DeleteBanner)

				// アフィリエイト経路とクリック記録
				authorized.GET("/routes", adminHandler.GetAdminRoutes)
				authorized.GET("/routes/:id", adminHandler.GetAdminRoute)
				authorized.POST("/routes", adminHandler.CreateRoute)
				authorized.PUT("/routes/:id", adminHandler.UpdateRoute)
				authorized.DELETE("/routes/:id", adminHandler.DeleteRoute)
				authorized.GET("/clicks", adminHandler.ListAdminClicks)

				// 設定管理
				authorized.GET("/settings", adminHandler.GetSettings)
				authorized.PUT("/settings", adminHandler.UpdateSettings)
				authorized.GET("/settings/captcha", adminHandler.GetCaptchaSettings)
				authorized.PUT("/settings/captcha", adminHandler.UpdateCaptchaSettings)
				authorized.GET("/settings/tracking_config", adminHandler.GetTrackingConfig)
				authorized.PUT("/settings/tracking_config", adminHandler.UpdateTrackingConfig)
				authorized.PUT("/password", adminHandler.UpdateAdminPassword)

				// 権限管理
				authorized.GET("/authz/me", adminHandler.GetAuthzMe)
				authorized.GET("/authz/roles", adminHandler.ListAuthzRoles)
				authorized.GET("/authz/admins", adminHandler.ListAuthzAdmins)
				authorized.GET("/authz/audit-logs", adminHandler.ListAuthzAuditLogs)
				authorized.POST("/authz/admins", adminHandler.CreateAuthzAdmin)
				authorized.PUT("/authz/admins/:id", adminHandler.UpdateAuthzAdmin)
				authorized.DELETE("/authz/admins/:id", adminHandler.DeleteAuthzAdmin)
				authorized.GET("/authz/permissions/catalog", func(ctx *gin.Context) {
					response.Success(ctx, buildAdminPermissionCatalog(r))
				})
				authorized.POST("/authz/roles", adminHandler.CreateAuthzRole)
				authorized.DELETE("/authz/roles/:role", adminHandler.DeleteAuthzRole)
				authorized.GET("/authz/roles/:role/policies", adminHandler.GetAuthzRolePolicies)
				authorized.POST("/authz/policies", adminHandler.GrantAuthzPolicy)
				authorized.DELETE("/authz/policies", adminHandler.RevokeAuthzPolicy)
				authorized.GET("/authz/admins/:id/roles", adminHandler.GetAuthzAdminRoles)
				authorized.PUT("/authz/admins/:id/roles", adminHandler.SetAuthzAdminRoles)
			}
		}
	}

	// 価格ティッカーの WebSocket 配信
	r.GET("/ws/prices", publicHandler.PricesWebSocket)

	// ヘルスチェック
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return r
}

type adminPermissionCatalogItem struct {
	Module     string `json:"module"`
	Method     string `json:"method"`
	Object     string `json:"object"`
	Permission string `json:"permission"`
}

func buildAdminPermissionCatalog(engine *gin.Engine) []adminPermissionCatalogItem {
	if engine == nil {
		return []adminPermissionCatalogItem{}
	}

	routes := engine.Routes()
	seen := make(map[string]struct{}, len(routes))
	items := make([]adminPermissionCatalogItem, 0, len(routes))

	for _, item := range routes {
		method := strings.ToUpper(strings.TrimSpace(item.Method))
		if method == "" || method == "OPTIONS" || method == "HEAD" {
			continue
		}
		if !strings.HasPrefix(item.Path, "/api/v1/admin/") {
			continue
		}
		if item.Path == "/api/v1/admin/login" {
			continue
		}
		object := authz.NormalizeObject(item.Path)
		permission := method + ":" + object
		if _, exists := seen[permission]; exists {
			continue
		}
		seen[permission] = struct{}{}
		items = append(items, adminPermissionCatalogItem{
			Module:     deriveAdminPermissionModule(object),
			Method:     method,
			Object:     object,
			Permission: permission,
		})
	}

	sort.Slice(items, func(i, j int) bool {
		if items[i].Module == items[j].Module {
			if items[i].Object == items[j].Object {
				return items[i].Method < items[j].Method
			}
			return items[i].Object < items[j].Object
		}
		return items[i].Module < items[j].Module
	})

	return items
}

func deriveAdminPermissionModule(object string) string {
	normalized := strings.TrimPrefix(strings.TrimSpace(object), "/")
	if normalized == "" {
		return "system"
	}
	segments := strings.Split(normalized, "/")
	if len(segments) <= 1 {
		return segments[0]
	}
	if segments[0] != "admin" {
		return segments[0]
	}
	if segments[1] == "authz" {
		return "authz"
	}
	return segments[1]
}
