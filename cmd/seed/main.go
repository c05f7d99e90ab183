package main

import (
	"fmt"
	"time"

	"github.com/crypto-navi/api/internal/config"
	"github.com/crypto-navi/api/internal/constants"
	"github.com/crypto-navi/api/internal/logger"
	"github.com/crypto-navi/api/internal/models"

	"github.com/shopspring/decimal"
)

func main() {
	// データベース接続
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	// 自動マイグレーション
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	// 取引所を追加
	exchanges := []models.Exchange{
		{
			Slug:           "coincheck",
			Name:           "コインチェック",
			NameEn:         "Coincheck",
			Type:           constants.ExchangeTypeDomestic,
			Status:         constants.ExchangeStatusActive,
			Rating:         decimal.NewFromFloat(4.5),
			SupportedCoins: 29,
			LogoURL:        "https://cdn.crypto-navi.jp/logos/coincheck.png",
			WebsiteURL:     "https://coincheck.com/ja/",
			Description:    "アプリダウンロード数国内トップクラス。初心者でも使いやすい画面設計で、500円から暗号資産を購入できる。",
			MakerFeePct:    decimal.Zero,
			TakerFeePct:    decimal.Zero,
			SpreadPct:      decimal.NewFromFloat(3.0),
			LeverageFeePct: decimal.Zero,
			FeesJSON: models.JSON(map[string]interface{}{
				"jpy_deposit":    "無料（銀行振込）",
				"jpy_withdrawal": "407円",
				"btc_withdrawal": "0.0005 BTC",
			}),
			FeaturesJSON: models.JSON(map[string]interface{}{
				"tsumitate":  true,
				"lending":    true,
				"nft":        true,
				"staking":    false,
				"app_rating": 4.3,
			}),
			SecurityJSON: models.JSON(map[string]interface{}{
				"cold_wallet": true,
				"two_factor":  true,
				"multisig":    true,
			}),
			CampaignJSON: models.JSON(map[string]interface{}{
				"title":    "口座開設＋入金で1,500円相当のBTCプレゼント",
				"deadline": "2026-09-30",
			}),
			Pros:      models.StringArray([]string{"アプリが直感的で初心者向き", "取扱通貨数が国内最多クラス", "積立や貸暗号資産などサービスが豊富"}),
			Cons:      models.StringArray([]string{"販売所のスプレッドが広め", "レバレッジ取引は非対応"}),
			SortOrder: 300,
		},
		{
			Slug:           "bitflyer",
			Name:           "ビットフライヤー",
			NameEn:         "bitFlyer",
			Type:           constants.ExchangeTypeDomestic,
			Status:         constants.ExchangeStatusActive,
			Rating:         decimal.NewFromFloat(4.3),
			SupportedCoins: 22,
			LogoURL:        "https://cdn.crypto-navi.jp/logos/bitflyer.png",
			WebsiteURL:     "https://bitflyer.com/ja-jp/",
			Description:    "ビットコイン取引量国内No.1。1円から購入でき、セキュリティ面の実績も厚い老舗取引所。",
			MakerFeePct:    decimal.NewFromFloat(0.01),
			TakerFeePct:    decimal.NewFromFloat(0.15),
			SpreadPct:      decimal.NewFromFloat(2.5),
			LeverageFeePct: decimal.NewFromFloat(0.04),
			FeesJSON: models.JSON(map[string]interface{}{
				"jpy_deposit":    "無料（住信SBI）",
				"jpy_withdrawal": "220円〜770円",
				"btc_withdrawal": "0.0004 BTC",
			}),
			FeaturesJSON: models.JSON(map[string]interface{}{
				"tsumitate": true,
				"lending":   false,
				"nft":       false,
				"staking":   false,
				"leverage":  true,
			}),
			SecurityJSON: models.JSON(map[string]interface{}{
				"cold_wallet": true,
				"two_factor":  true,
				"multisig":    true,
			}),
			CampaignJSON: models.JSON(map[string]interface{}{
				"title":    "新規口座開設で1,000円相当のBTCプレゼント",
				"deadline": "2026-10-31",
			}),
			Pros:      models.StringArray([]string{"ビットコイン取引量が国内トップ", "1円から積立できる", "ハッキング被害ゼロの運営実績"}),
			Cons:      models.StringArray([]string{"出金手数料がやや高い", "アルトコインの板取引銘柄が少ない"}),
			SortOrder: 290,
		},
		{
			Slug:           "gmo-coin",
			Name:           "GMOコイン",
			NameEn:         "GMO Coin",
			Type:           constants.ExchangeTypeDomestic,
			Status:         constants.ExchangeStatusActive,
			Rating:         decimal.NewFromFloat(4.4),
			SupportedCoins: 26,
			LogoURL:        "https://cdn.crypto-navi.jp/logos/gmo-coin.png",
			WebsiteURL:     "https://coin.z.com/jp/",
			Description:    "入出金と送金の手数料が無料。取引所形式のメイカー手数料がマイナスで、コスト重視派に人気。",
			MakerFeePct:    decimal.NewFromFloat(-0.01),
			TakerFeePct:    decimal.NewFromFloat(0.05),
			SpreadPct:      decimal.NewFromFloat(2.0),
			LeverageFeePct: decimal.NewFromFloat(0.04),
			FeesJSON: models.JSON(map[string]interface{}{
				"jpy_deposit":    "無料",
				"jpy_withdrawal": "無料",
				"btc_withdrawal": "無料",
			}),
			FeaturesJSON: models.JSON(map[string]interface{}{
				"tsumitate": true,
				"lending":   true,
				"staking":   true,
				"leverage":  true,
			}),
			SecurityJSON: models.JSON(map[string]interface{}{
				"cold_wallet": true,
				"two_factor":  true,
				"multisig":    true,
			}),
			CampaignJSON: models.JSON(map[string]interface{}{
				"title":    "毎日抽選で現金1,000円が当たる",
				"deadline": "2026-09-15",
			}),
			Pros:      models.StringArray([]string{"各種手数料が無料", "メイカー手数料がマイナス", "ステーキング対応銘柄が多い"}),
			Cons:      models.StringArray([]string{"最低出金額が1万円", "大口出金は日数がかかる場合がある"}),
			SortOrder: 280,
		},
		{
			Slug:           "bitbank",
			Name:           "ビットバンク",
			NameEn:         "bitbank",
			Type:           constants.ExchangeTypeDomestic,
			Status:         constants.ExchangeStatusActive,
			Rating:         decimal.NewFromFloat(4.2),
			SupportedCoins: 38,
			LogoURL:        "https://cdn.crypto-navi.jp/logos/bitbank.png",
			WebsiteURL:     "https://bitbank.cc/",
			Description:    "全銘柄が取引所形式で売買可能。アルトコインの板取引をしたいトレーダー向け。",
			MakerFeePct:    decimal.NewFromFloat(-0.02),
			TakerFeePct:    decimal.NewFromFloat(0.12),
			SpreadPct:      decimal.Zero,
			LeverageFeePct: decimal.Zero,
			FeesJSON: models.JSON(map[string]interface{}{
				"jpy_deposit":    "無料",
				"jpy_withdrawal": "550円〜770円",
				"btc_withdrawal": "0.0006 BTC",
			}),
			FeaturesJSON: models.JSON(map[string]interface{}{
				"tsumitate": false,
				"lending":   true,
				"staking":   false,
			}),
			SecurityJSON: models.JSON(map[string]interface{}{
				"cold_wallet": true,
				"two_factor":  true,
				"multisig":    true,
			}),
			Pros:      models.StringArray([]string{"国内最多クラスの銘柄を板取引できる", "メイカー手数料がマイナス", "セキュリティ評価が高い"}),
			Cons:      models.StringArray([]string{"積立サービスがない", "レバレッジ取引は非対応"}),
			SortOrder: 270,
		},
		{
			Slug:           "binance",
			Name:           "バイナンス",
			NameEn:         "Binance",
			Type:           constants.ExchangeTypeInternational,
			Status:         constants.ExchangeStatusActive,
			Rating:         decimal.NewFromFloat(4.1),
			SupportedCoins: 350,
			LogoURL:        "https://cdn.crypto-navi.jp/logos/binance.png",
			WebsiteURL:     "https://www.binance.com/ja",
			Description:    "世界最大の取引量を誇る海外取引所。取扱銘柄と取引手段の豊富さは圧倒的。",
			MakerFeePct:    decimal.NewFromFloat(0.1),
			TakerFeePct:    decimal.NewFromFloat(0.1),
			SpreadPct:      decimal.Zero,
			LeverageFeePct: decimal.NewFromFloat(0.01),
			FeesJSON: models.JSON(map[string]interface{}{
				"btc_withdrawal": "0.0002 BTC",
			}),
			FeaturesJSON: models.JSON(map[string]interface{}{
				"staking":  true,
				"leverage": true,
				"futures":  true,
			}),
			SecurityJSON: models.JSON(map[string]interface{}{
				"cold_wallet": true,
				"two_factor":  true,
				"safu_fund":   true,
			}),
			Pros:      models.StringArray([]string{"取扱銘柄数が桁違いに多い", "手数料が安くBNB払いでさらに割引", "ステーキングなど運用手段が豊富"}),
			Cons:      models.StringArray([]string{"日本円の直接入金に非対応", "金融庁登録外のためリスクは自己責任"}),
			SortOrder: 200,
		},
		{
			Slug:           "bybit",
			Name:           "バイビット",
			NameEn:         "Bybit",
			Type:           constants.ExchangeTypeInternational,
			Status:         constants.ExchangeStatusActive,
			Rating:         decimal.NewFromFloat(4.0),
			SupportedCoins: 400,
			LogoURL:        "https://cdn.crypto-navi.jp/logos/bybit.png",
			WebsiteURL:     "https://www.bybit.com/ja-JP/",
			Description:    "日本語サポートが充実した海外デリバティブ取引所。最大100倍のレバレッジ取引に対応。",
			MakerFeePct:    decimal.NewFromFloat(0.1),
			TakerFeePct:    decimal.NewFromFloat(0.1),
			SpreadPct:      decimal.Zero,
			LeverageFeePct: decimal.NewFromFloat(0.01),
			FeaturesJSON: models.JSON(map[string]interface{}{
				"staking":      true,
				"leverage":     true,
				"futures":      true,
				"copy_trading": true,
			}),
			SecurityJSON: models.JSON(map[string]interface{}{
				"cold_wallet": true,
				"two_factor":  true,
			}),
			Pros:      models.StringArray([]string{"日本語UIとサポートが整っている", "デリバティブの流動性が高い", "キャンペーンボーナスが手厚い"}),
			Cons:      models.StringArray([]string{"現物の日本円建て取引は不可", "国内法の保護対象外"}),
			SortOrder: 190,
		},
		{
			Slug:           "sbivc",
			Name:           "SBI VCトレード",
			NameEn:         "SBI VC Trade",
			Type:           constants.ExchangeTypeDomestic,
			Status:         constants.ExchangeStatusHidden,
			Rating:         decimal.NewFromFloat(3.9),
			SupportedCoins: 24,
			LogoURL:        "https://cdn.crypto-navi.jp/logos/sbivc.png",
			WebsiteURL:     "https://www.sbivc.co.jp/",
			Description:    "SBIグループ運営の取引所。掲載準備中のため現在は非公開。",
			MakerFeePct:    decimal.NewFromFloat(-0.01),
			TakerFeePct:    decimal.NewFromFloat(0.05),
			SpreadPct:      decimal.NewFromFloat(2.2),
			LeverageFeePct: decimal.Zero,
			SortOrder:      100,
		},
	}

	for _, ex := range exchanges {
		var existing models.Exchange
		if err := models.DB.Where("slug = ?", ex.Slug).First(&existing).Error; err != nil {
			// 存在しなければ作成
			if err := models.DB.Create(&ex).Error; err != nil {
				stdLog.Printf("Failed to create exchange %s: %v", ex.Slug, err)
			} else {
				stdLog.Printf("Created exchange: %s", ex.Slug)
			}
		} else {
			existing.Name = ex.Name
			existing.NameEn = ex.NameEn
			existing.Type = ex.Type
			existing.Status = ex.Status
			existing.Rating = ex.Rating
			existing.SupportedCoins = ex.SupportedCoins
			existing.LogoURL = ex.LogoURL
			existing.WebsiteURL = ex.WebsiteURL
			existing.Description = ex.Description
			existing.MakerFeePct = ex.MakerFeePct
			existing.TakerFeePct = ex.TakerFeePct
			existing.SpreadPct = ex.SpreadPct
			existing.LeverageFeePct = ex.LeverageFeePct
			existing.FeesJSON = ex.FeesJSON
			existing.FeaturesJSON = ex.FeaturesJSON
			existing.SecurityJSON = ex.SecurityJSON
			existing.CampaignJSON = ex.CampaignJSON
			existing.Pros = ex.Pros
			existing.Cons = ex.Cons
			existing.SortOrder = ex.SortOrder
			if err := models.DB.Save(&existing).Error; err != nil {
				stdLog.Printf("Failed to update exchange %s: %v", ex.Slug, err)
			} else {
				stdLog.Printf("Updated exchange: %s", ex.Slug)
			}
		}
	}

	// 取引所IDを取得
	exchangeIDs := map[string]uint{}
	var exchangeList []models.Exchange
	if err := models.DB.Find(&exchangeList).Error; err != nil {
		stdLog.Printf("Failed to load exchanges: %v", err)
	}
	for _, ex := range exchangeList {
		exchangeIDs[ex.Slug] = ex.ID
	}

	// アフィリエイト経路を追加
	routes := []struct {
		ExchangeSlug string
		Route        models.AffiliateRoute
	}{
		{
			ExchangeSlug: "coincheck",
			Route: models.AffiliateRoute{
				ASP:            constants.ASPA8,
				ProgramID:      "3NDEMO+8XYZ12+4AAA+5ZZZZ",
				MediaID:        "a22000000000",
				BaseURL:        "https://px.a8.net/svt/ejp?a8mat=3NDEMO+8XYZ12+4AAA+5ZZZZ",
				ConversionType: "口座開設",
				RewardAmount:   models.NewMoneyFromDecimal(decimal.NewFromInt(10000)),
				IsActive:       true,
				Note:           "A8.net 経由。入金完了まで成果対象。",
			},
		},
		{
			ExchangeSlug: "bitflyer",
			Route: models.AffiliateRoute{
				ASP:            constants.ASPAccessTrade,
				ProgramID:      "at-demo-bitflyer",
				MediaID:        "r00000000000",
				BaseURL:        "https://h.accesstrade.net/sp/cc?rk=demo000bitflyer",
				ConversionType: "口座開設",
				RewardAmount:   models.NewMoneyFromDecimal(decimal.NewFromInt(8000)),
				IsActive:       true,
				Note:           "アクセストレード経由。",
			},
		},
		{
			ExchangeSlug: "gmo-coin",
			Route: models.AffiliateRoute{
				ASP:            constants.ASPTCS,
				ProgramID:      "tcs-demo-gmocoin",
				MediaID:        "m0000000",
				BaseURL:        "https://www.tcs-asp.net/alink?AC=demo&LC=GMOCOIN&SQ=0",
				ConversionType: "口座開設＋入金",
				RewardAmount:   models.NewMoneyFromDecimal(decimal.NewFromInt(9000)),
				IsActive:       true,
				Note:           "TCSアフィリエイト経由。入金条件あり。",
			},
		},
		{
			ExchangeSlug: "bitbank",
			Route: models.AffiliateRoute{
				ASP:            constants.ASPA8,
				ProgramID:      "3NDEMO+9ABC34+3BBB+6YYYY",
				MediaID:        "a22000000000",
				BaseURL:        "https://px.a8.net/svt/ejp?a8mat=3NDEMO+9ABC34+3BBB+6YYYY",
				ConversionType: "口座開設",
				RewardAmount:   models.NewMoneyFromDecimal(decimal.NewFromInt(6000)),
				IsActive:       true,
				Note:           "A8.net 経由。",
			},
		},
		{
			ExchangeSlug: "binance",
			Route: models.AffiliateRoute{
				ASP:            constants.ASPDirect,
				ProgramID:      "CRYPTONAVI",
				BaseURL:        "https://accounts.binance.com/ja/register?ref=CRYPTONAVI",
				ConversionType: "口座開設",
				RewardAmount:   models.NewMoneyFromDecimal(decimal.NewFromInt(4000)),
				IsActive:       true,
				Note:           "直接提携の紹介コード。報酬は手数料シェア。",
			},
		},
		{
			ExchangeSlug: "bybit",
			Route: models.AffiliateRoute{
				ASP:            constants.ASPDirect,
				ProgramID:      "CNAVI2026",
				BaseURL:        "https://www.bybit.com/ja-JP/invite?ref=CNAVI2026",
				ConversionType: "口座開設＋取引",
				RewardAmount:   models.NewMoneyFromDecimal(decimal.NewFromInt(3000)),
				IsActive:       false,
				Note:           "提携条件見直し中のため停止。",
			},
		},
	}

	for _, item := range routes {
		exchangeID := exchangeIDs[item.ExchangeSlug]
		if exchangeID == 0 {
			stdLog.Printf("Skip route for %s: exchange not found", item.ExchangeSlug)
			continue
		}
		route := item.Route
		route.ExchangeID = exchangeID

		var existing models.AffiliateRoute
		if err := models.DB.Where("exchange_id = ?", exchangeID).First(&existing).Error; err != nil {
			if err := models.DB.Create(&route).Error; err != nil {
				stdLog.Printf("Failed to create route for %s: %v", item.ExchangeSlug, err)
			} else {
				stdLog.Printf("Created route: %s (%s)", item.ExchangeSlug, route.ASP)
			}
		} else {
			existing.ASP = route.ASP
			existing.ProgramID = route.ProgramID
			existing.MediaID = route.MediaID
			existing.BaseURL = route.BaseURL
			existing.ConversionType = route.ConversionType
			existing.RewardAmount = route.RewardAmount
			existing.IsActive = route.IsActive
			existing.Note = route.Note
			if err := models.DB.Save(&existing).Error; err != nil {
				stdLog.Printf("Failed to update route for %s: %v", item.ExchangeSlug, err)
			} else {
				stdLog.Printf("Updated route: %s (%s)", item.ExchangeSlug, existing.ASP)
			}
		}
	}

	// ガイド記事を追加
	publishedAt := time.Now().Add(-72 * time.Hour)
	guides := []models.Guide{
		{
			Slug:        "what-is-bitcoin",
			Category:    constants.GuideCategoryBasics,
			Title:       "ビットコインとは？仕組みと始め方をやさしく解説",
			Summary:     "ビットコインの基本的な仕組みと、初心者が最初に知っておくべきポイントをまとめました。",
			Content:     "## ビットコインとは\n\nビットコインは2009年に誕生した世界初の暗号資産です。\n\n### ブロックチェーンの仕組み\n\n取引はブロックチェーンと呼ばれる分散台帳に記録され、改ざんが極めて困難な構造になっています。\n\n### 購入までの流れ\n\n1. 国内取引所で口座を開設する\n2. 本人確認を完了させる\n3. 日本円を入金して購入する\n\n500円程度から購入できる取引所が多いので、まずは無理のない金額から始めましょう。",
			Thumbnail:   "https://cdn.crypto-navi.jp/guides/what-is-bitcoin.jpg",
			ReadMinutes: 8,
			IsPublished: true,
			PublishedAt: &publishedAt,
		},
		{
			Slug:        "how-to-choose-exchange",
			Category:    constants.GuideCategoryExchange,
			Title:       "暗号資産取引所の選び方｜比較すべき5つのポイント",
			Summary:     "手数料・取扱銘柄・セキュリティなど、取引所を比較する際に見るべき観点を解説します。",
			Content:     "## 取引所選びの基準\n\n取引所を選ぶ際は以下の5点を比較しましょう。\n\n1. 取引手数料とスプレッド\n2. 取扱銘柄数\n3. セキュリティ体制\n4. アプリの使いやすさ\n5. 積立やステーキングなどの付帯サービス\n\n### 販売所と取引所形式の違い\n\n販売所は操作が簡単な代わりにスプレッドが広く、取引所形式は板取引のため実質コストを抑えられます。",
			Thumbnail:   "https://cdn.crypto-navi.jp/guides/how-to-choose-exchange.jpg",
			ReadMinutes: 10,
			IsPublished: true,
			PublishedAt: &publishedAt,
		},
		{
			Slug:        "crypto-tax-basics",
			Category:    constants.GuideCategoryTax,
			Title:       "暗号資産の税金入門｜確定申告が必要になるケース",
			Summary:     "暗号資産の利益は雑所得として課税されます。申告が必要になる条件と計算方法の基礎を解説。",
			Content:     "## 課税のタイミング\n\n暗号資産の利益は原則として雑所得に区分され、以下のタイミングで損益が確定します。\n\n- 売却して日本円にしたとき\n- 他の暗号資産と交換したとき\n- 商品やサービスの決済に使ったとき\n\n### 申告が必要になる目安\n\n給与所得者の場合、雑所得の合計が年間20万円を超えると確定申告が必要です。詳細は必ず税理士や税務署に確認してください。",
			Thumbnail:   "https://cdn.crypto-navi.jp/guides/crypto-tax-basics.jpg",
			ReadMinutes: 12,
			IsPublished: true,
			PublishedAt: &publishedAt,
		},
		{
			Slug:        "protect-your-crypto",
			Category:    constants.GuideCategorySecurity,
			Title:       "暗号資産を守るセキュリティ対策チェックリスト",
			Summary:     "二段階認証やフィッシング対策など、資産を守るために最低限やっておくべき設定をまとめました。",
			Content:     "## 必ずやっておくべき設定\n\n- 二段階認証（SMSではなく認証アプリを推奨）\n- 取引所ごとに異なる強固なパスワード\n- 出金先アドレスのホワイトリスト登録\n\n### フィッシングへの注意\n\n取引所を装ったメールやSMSのリンクは開かず、必ずブックマークからアクセスしましょう。大きな金額を長期保有する場合はハードウェアウォレットの利用も検討してください。",
			Thumbnail:   "https://cdn.crypto-navi.jp/guides/protect-your-crypto.jpg",
			ReadMinutes: 7,
			IsPublished: true,
			PublishedAt: &publishedAt,
		},
		{
			Slug:        "defi-glossary-draft",
			Category:    constants.GuideCategoryBasics,
			Title:       "DeFi用語集（執筆中）",
			Summary:     "DeFi関連の頻出用語を初心者向けに整理する記事。公開前の下書き。",
			Content:     "## 下書き\n\nDEX、流動性プール、イールドファーミングなどの用語解説を執筆中。",
			ReadMinutes: 5,
			IsPublished: false,
		},
	}

	for _, guide := range guides {
		var existing models.Guide
		if err := models.DB.Where("slug = ?", guide.Slug).First(&existing).Error; err != nil {
			if err := models.DB.Create(&guide).Error; err != nil {
				stdLog.Printf("Failed to create guide %s: %v", guide.Slug, err)
			} else {
				stdLog.Printf("Created guide: %s", guide.Slug)
			}
		} else {
			stdLog.Printf("Guide already exists: %s", guide.Slug)
		}
	}

	// バナーを追加
	now := time.Now()
	heroStart := now.Add(-24 * time.Hour)
	heroEnd := now.AddDate(0, 2, 0)
	sideStart := now.Add(-12 * time.Hour)
	sideEnd := now.AddDate(0, 1, 0)
	footStart := now.Add(-6 * time.Hour)
	footEnd := now.AddDate(0, 0, 15)

	banners := []models.Banner{
		{
			Name:         "トップ主視覚-コインチェック開設CP",
			Position:     constants.BannerPositionHomeHero,
			Title:        "口座開設で1,500円相当のBTCがもらえる",
			Subtitle:     "コインチェックの期間限定キャンペーン実施中",
			Image:        "https://cdn.crypto-navi.jp/banners/coincheck-hero.png",
			MobileImage:  "https://cdn.crypto-navi.jp/banners/coincheck-hero-sp.png",
			LinkType:     constants.BannerLinkTypeAffiliate,
			LinkValue:    "coincheck",
			OpenInNewTab: true,
			IsActive:     true,
			StartAt:      &heroStart,
			EndAt:        &heroEnd,
			SortOrder:    300,
		},
		{
			Name:         "ランキング横-GMOコイン",
			Position:     constants.BannerPositionRankingSide,
			Title:        "各種手数料が無料",
			Subtitle:     "コスト重視ならGMOコイン",
			Image:        "https://cdn.crypto-navi.jp/banners/gmo-side.png",
			MobileImage:  "https://cdn.crypto-navi.jp/banners/gmo-side-sp.png",
			LinkType:     constants.BannerLinkTypeAffiliate,
			LinkValue:    "gmo-coin",
			OpenInNewTab: true,
			IsActive:     true,
			StartAt:      &sideStart,
			EndAt:        &sideEnd,
			SortOrder:    200,
		},
		{
			Name:         "記事下-手数料シミュレーター誘導",
			Position:     constants.BannerPositionArticleFoot,
			Title:        "あなたに合う取引所を手数料で比較",
			Subtitle:     "取引金額を入れるだけのかんたんシミュレーション",
			Image:        "https://cdn.crypto-navi.jp/banners/simulator-foot.png",
			LinkType:     constants.BannerLinkTypeInternal,
			LinkValue:    "/tools/fees",
			OpenInNewTab: false,
			IsActive:     true,
			StartAt:      &footStart,
			EndAt:        &footEnd,
			SortOrder:    150,
		},
		{
			Name:      "トップ主視覚-予備素材",
			Position:  constants.BannerPositionHomeHero,
			Title:     "掲載準備中バナー",
			Subtitle:  "管理画面の掲載開始・停止の動作確認用",
			Image:     "https://cdn.crypto-navi.jp/banners/placeholder.png",
			LinkType:  constants.BannerLinkTypeNone,
			IsActive:  false,
			SortOrder: 100,
		},
	}

	for _, banner := range banners {
		var existing models.Banner
		if err := models.DB.Where("name = ? AND position = ?", banner.Name, banner.Position).First(&existing).Error; err != nil {
			if err := models.DB.Select("*").Create(&banner).Error; err != nil {
				stdLog.Printf("Failed to create banner %s: %v", banner.Name, err)
			} else {
				stdLog.Printf("Created banner: %s", banner.Name)
			}
		} else {
			existing.Title = banner.Title
			existing.Subtitle = banner.Subtitle
			existing.Image = banner.Image
			existing.MobileImage = banner.MobileImage
			existing.LinkType = banner.LinkType
			existing.LinkValue = banner.LinkValue
			existing.OpenInNewTab = banner.OpenInNewTab
			existing.IsActive = banner.IsActive
			existing.StartAt = banner.StartAt
			existing.EndAt = banner.EndAt
			existing.SortOrder = banner.SortOrder
			if err := models.DB.Save(&existing).Error; err != nil {
				stdLog.Printf("Failed to update banner %s: %v", banner.Name, err)
			} else {
				stdLog.Printf("Updated banner: %s", banner.Name)
			}
		}
	}

	// サイト設定と計測設定を更新
	settings := map[string]map[string]interface{}{
		constants.SettingKeySiteConfig: {
			"site_name":   "Crypto Navi",
			"description": "国内・海外の暗号資産取引所を手数料やキャンペーンで比較できる情報サイト",
			"contact": map[string]string{
				"twitter": "https://x.com/cryptonavi_jp",
				"email":   "support@crypto-navi.jp",
			},
			"disclaimer": "当サイトはアフィリエイト広告を利用しています。掲載情報は最新の公式情報をご確認ください。",
		},
		constants.SettingKeyTrackingConfig: {
			"flush_interval_seconds": 30,
			"history_limit":          50,
			"sinks": map[string]interface{}{
				"ga4": map[string]interface{}{
					"enabled":        true,
					"measurement_id": "G-DEMO000000",
				},
				"plausible": map[string]interface{}{
					"enabled": false,
					"domain":  "crypto-navi.jp",
				},
			},
		},
	}

	for key, value := range settings {
		var setting models.Setting
		if err := models.DB.Where("key = ?", key).First(&setting).Error; err != nil {
			// 存在しなければ作成
			setting = models.Setting{
				Key:       key,
				ValueJSON: models.JSON(value),
			}
			if err := models.DB.Create(&setting).Error; err != nil {
				stdLog.Printf("Failed to create setting %s: %v", key, err)
			} else {
				stdLog.Printf("Created setting: %s", key)
			}
		} else {
			setting.ValueJSON = models.JSON(value)
			if err := models.DB.Save(&setting).Error; err != nil {
				stdLog.Printf("Failed to update setting %s: %v", key, err)
			} else {
				stdLog.Printf("Updated setting: %s", key)
			}
		}
	}

	fmt.Println("\n✅ Seed data created successfully!")
	fmt.Println("Summary:")
	fmt.Println("- 7 Exchanges (国内5 + 海外2)")
	fmt.Println("- 6 Affiliate routes (a8 / accesstrade / tcs / direct)")
	fmt.Println("- 5 Guides (4 published + 1 draft)")
	fmt.Println("- 4 Banners (home_hero / ranking_side / article_foot)")
	fmt.Println("- Site and tracking configuration")
}
