package constants

// 取引所種別
const (
	ExchangeTypeDomestic      = "domestic"
	ExchangeTypeInternational = "international"
)

// 取引所公開状態
const (
	ExchangeStatusActive = "active"
	ExchangeStatusHidden = "hidden"
)

// ASP（アフィリエイトサービスプロバイダ）種別
const (
	ASPA8          = "a8"
	ASPAccessTrade = "accesstrade"
	ASPTCS         = "tcs"
	ASPDirect      = "direct"
)

// クリック配信状態
const (
	ClickDeliveryQueued    = "queued"
	ClickDeliveryDelivered = "delivered"
	ClickDeliveryPending   = "pending_retry"
	ClickDeliveryAbandoned = "abandoned"
)

// 計測イベント名（GA4 準拠）
const (
	AnalyticsEventAffiliateClick      = "affiliate_click"
	AnalyticsEventAffiliateImpression = "affiliate_impression"
	AnalyticsEventOutboundClick       = "outbound_click"
)

// UTM デフォルト値
const (
	UTMSourceDefault = "crypto-navi"
	UTMMediumDefault = "affiliate"
)

// ガイド記事カテゴリ
const (
	GuideCategoryBasics   = "basics"
	GuideCategoryExchange = "exchange"
	GuideCategoryTax      = "tax"
	GuideCategorySecurity = "security"
)

// ログイン失敗理由
const (
	LoginFailReasonBadRequest         = "bad_request"
	LoginFailReasonCaptchaRequired    = "captcha_required"
	LoginFailReasonCaptchaInvalid     = "captcha_invalid"
	LoginFailReasonInvalidCredentials = "invalid_credentials"
	LoginFailReasonAdminDisabled      = "admin_disabled"
)

// 画像認証プロバイダ
const (
	CaptchaProviderNone  = "none"
	CaptchaProviderImage = "image"
)

// 画像認証シーン
const (
	CaptchaSceneAdminLogin = "admin_login"
)

// キュー定数
const (
	QueueDefault        = "default"
	QueueCritical       = "critical"
	TaskTrackingDeliver = "tracking:deliver_click"
	TaskTrackingFlush   = "tracking:flush_pending"
	TaskPricesRefresh   = "prices:refresh_ticker"
)

// キャッシュ既定値
const (
	RedisPrefixDefault = "cn"
)

// ストレージキー（クリック履歴・未配信キュー）
const (
	ClickHistoryKey   = "click_history"
	PendingClicksKey  = "pending_clicks"
	ClickHistoryLimit = 50
	PendingClickLimit = 100
)

// 設定キー
const (
	SettingKeySiteConfig     = "site_config"
	SettingKeyTrackingConfig = "tracking_config"
	SettingKeyTickerConfig   = "ticker_config"
	SettingKeyCaptchaConfig  = "captcha_config"
)

// 表示通貨
const (
	SiteCurrencyDefault = "JPY"
)

// バナー表示位置
const (
	BannerPositionHomeHero    = "home_hero"
	BannerPositionRankingSide = "ranking_side"
	BannerPositionArticleFoot = "article_foot"
)

// バナーリンク種別
const (
	BannerLinkTypeNone      = "none"
	BannerLinkTypeInternal  = "internal"
	BannerLinkTypeAffiliate = "affiliate"
)

// シミュレーター上限（月数）
const (
	SimulatorMaxMonths = 360
)

// CoinGecko API の制約値
const (
	CoinGeckoMaxPerPage = 250
)
