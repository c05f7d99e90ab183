//go:build integration
// +build integration

package repository

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/crypto-navi/api/internal/constants"
	"github.com/crypto-navi/api/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// setupPostgresIntegrationDB PostgreSQL 結合テスト用データベースを初期化する。
func setupPostgresIntegrationDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := strings.TrimSpace(os.Getenv("TEST_POSTGRES_DSN"))
	if dsn == "" {
		t.Skip("skip postgres integration test: TEST_POSTGRES_DSN is empty")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open postgres failed: %v", err)
	}

	cleanupModels := []interface{}{
		&models.AffiliateClick{},
		&models.AffiliateRoute{},
		&models.Exchange{},
		&models.Guide{},
		&models.Banner{},
	}
	_ = db.Migrator().DropTable(cleanupModels...)

	if err := db.AutoMigrate(
		&models.Exchange{},
		&models.AffiliateRoute{},
		&models.AffiliateClick{},
		&models.Guide{},
		&models.Banner{},
	); err != nil {
		t.Fatalf("migrate postgres models failed: %v", err)
	}

	t.Cleanup(func() {
		_ = db.Migrator().DropTable(cleanupModels...)
		sqlDB, err := db.DB()
		if err == nil {
			_ = sqlDB.Close()
		}
	})

	return db
}

func TestPostgresSearchRepositories(t *testing.T) {
	db := setupPostgresIntegrationDB(t)

	exchangeRepo := NewExchangeRepository(db)
	exchange := &models.Exchange{
		Slug:        "pg-exchange",
		Name:        "ロケット取引所",
		NameEn:      "Rocket Exchange",
		Type:        constants.ExchangeTypeDomestic,
		Status:      constants.ExchangeStatusActive,
		Rating:      decimal.NewFromFloat(4.0),
		TakerFeePct: decimal.NewFromFloat(0.1),
	}
	if err := exchangeRepo.Create(exchange); err != nil {
		t.Fatalf("create exchange failed: %v", err)
	}

	exchangeRows, exchangeTotal, err := exchangeRepo.List(ExchangeListFilter{
		Page:   1,
		Search: "ロケット",
	})
	if err != nil {
		t.Fatalf("exchange list search ja failed: %v", err)
	}
	if exchangeTotal != 1 || len(exchangeRows) != 1 {
		t.Fatalf("exchange list search ja want 1 got total=%d len=%d", exchangeTotal, len(exchangeRows))
	}

	exchangeRows, exchangeTotal, err = exchangeRepo.List(ExchangeListFilter{
		Page:   1,
		Search: "Rocket",
	})
	if err != nil {
		t.Fatalf("exchange list search en failed: %v", err)
	}
	if exchangeTotal != 1 || len(exchangeRows) != 1 {
		t.Fatalf("exchange list search en want 1 got total=%d len=%d", exchangeTotal, len(exchangeRows))
	}

	guideRepo := NewGuideRepository(db)
	publishedAt := time.Now().UTC()
	guide := &models.Guide{
		Slug:        "pg-guide-tax",
		Category:    constants.GuideCategoryTax,
		Title:       "暗号資産の確定申告ガイド",
		IsPublished: true,
		PublishedAt: &publishedAt,
	}
	if err := guideRepo.Create(guide); err != nil {
		t.Fatalf("create guide failed: %v", err)
	}

	guideRows, guideTotal, err := guideRepo.List(GuideListFilter{
		Page:   1,
		Search: "確定申告",
	})
	if err != nil {
		t.Fatalf("guide list search failed: %v", err)
	}
	if guideTotal != 1 || len(guideRows) != 1 {
		t.Fatalf("guide list search want 1 got total=%d len=%d", guideTotal, len(guideRows))
	}

	bannerRepo := NewBannerRepository(db)
	banner := &models.Banner{
		Name:     "pg-home-banner",
		Position: constants.BannerPositionHomeHero,
		Title:    "春の口座開設キャンペーン",
		Image:    "/banner.png",
		LinkType: constants.BannerLinkTypeNone,
		IsActive: true,
	}
	if err := bannerRepo.Create(banner); err != nil {
		t.Fatalf("create banner failed: %v", err)
	}

	bannerRows, bannerTotal, err := bannerRepo.List(BannerListFilter{
		Page:   1,
		Search: "口座開設",
	})
	if err != nil {
		t.Fatalf("banner list search failed: %v", err)
	}
	if bannerTotal != 1 || len(bannerRows) != 1 {
		t.Fatalf("banner list search want 1 got total=%d len=%d", bannerTotal, len(bannerRows))
	}
}

func TestPostgresClickAggregationQueries(t *testing.T) {
	db := setupPostgresIntegrationDB(t)
	repo := NewAffiliateClickRepository(db)
	now := time.Now().UTC().Truncate(time.Second)

	clicks := []models.AffiliateClick{
		{
			ExchangeSlug:   "pg-exchange",
			ASP:            constants.ASPA8,
			Page:           "/ranking",
			Position:       "rank_1",
			SessionKey:     "sess-a",
			VisitorKey:     "visitor-a",
			DeliveryStatus: constants.ClickDeliveryDelivered,
			DeliveredAt:    &now,
			CreatedAt:      now,
		},
		{
			ExchangeSlug:   "pg-exchange",
			ASP:            constants.ASPA8,
			Page:           "/ranking",
			Position:       "rank_1",
			SessionKey:     "sess-b",
			VisitorKey:     "visitor-b",
			DeliveryStatus: constants.ClickDeliveryPending,
			CreatedAt:      now,
		},
		{
			ExchangeSlug:   "pg-exchange-2",
			ASP:            constants.ASPDirect,
			Page:           "/guides/what-is-bitcoin",
			Position:       "article_foot",
			SessionKey:     "sess-a",
			VisitorKey:     "visitor-a",
			DeliveryStatus: constants.ClickDeliveryQueued,
			CreatedAt:      now,
		},
	}
	for i := range clicks {
		if err := repo.Create(&clicks[i]); err != nil {
			t.Fatalf("create click failed: %v", err)
		}
	}

	startAt := now.Add(-time.Hour)
	endAt := now.Add(time.Hour)

	overview, err := repo.GetOverview(startAt, endAt)
	if err != nil {
		t.Fatalf("get overview failed: %v", err)
	}
	if overview.ClicksTotal != 3 {
		t.Fatalf("overview clicks want 3 got %d", overview.ClicksTotal)
	}
	if overview.Delivered != 1 || overview.PendingRetry != 1 {
		t.Fatalf("overview delivered=%d pending=%d", overview.Delivered, overview.PendingRetry)
	}
	if overview.UniqueSessions != 2 {
		t.Fatalf("overview unique sessions want 2 got %d", overview.UniqueSessions)
	}
	if overview.UniqueExchanges != 2 {
		t.Fatalf("overview unique exchanges want 2 got %d", overview.UniqueExchanges)
	}

	trends, err := repo.GetDailyTrends(startAt, endAt)
	if err != nil {
		t.Fatalf("get daily trends failed: %v", err)
	}
	if len(trends) == 0 {
		t.Fatalf("daily trends should not be empty")
	}
	if strings.TrimSpace(trends[0].Day) == "" {
		t.Fatalf("trend day should not be empty")
	}

	rankings, err := repo.GetTopExchanges(startAt, endAt, 5)
	if err != nil {
		t.Fatalf("get top exchanges failed: %v", err)
	}
	if len(rankings) != 2 {
		t.Fatalf("rankings len want 2 got %d", len(rankings))
	}
	if rankings[0].ExchangeSlug != "pg-exchange" || rankings[0].Clicks != 2 {
		t.Fatalf("top ranking want pg-exchange/2 got %s/%d", rankings[0].ExchangeSlug, rankings[0].Clicks)
	}

	positions, err := repo.GetPositionBreakdown(startAt, endAt, 5)
	if err != nil {
		t.Fatalf("get position breakdown failed: %v", err)
	}
	if len(positions) != 2 {
		t.Fatalf("position breakdown len want 2 got %d", len(positions))
	}
}
