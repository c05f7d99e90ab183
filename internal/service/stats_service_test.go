package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/crypto-navi/api/internal/constants"
	"github.com/crypto-navi/api/internal/models"
	"github.com/crypto-navi/api/internal/repository"

	"github.com/shopspring/decimal"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupStatsServiceTest(t *testing.T) (*StatsService, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:stats_service_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Exchange{}, &models.AffiliateRoute{}, &models.AffiliateClick{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}

	svc := NewStatsService(repository.NewAffiliateClickRepository(db), repository.NewExchangeRepository(db), repository.NewAffiliateRouteRepository(db))
	return svc, db
}

func seedStatsClick(t *testing.T, db *gorm.DB, slug, status, sessionKey string, createdAt time.Time) {
	t.Helper()

	click := models.AffiliateClick{
		ExchangeSlug:   slug,
		ASP:            constants.ASPA8,
		Page:           "/ranking",
		Position:       "rank_1",
		SessionKey:     sessionKey,
		VisitorKey:     sessionKey,
		DeliveryStatus: status,
		CreatedAt:      createdAt,
	}
	if status == constants.ClickDeliveryDelivered {
		click.DeliveredAt = &createdAt
	}
	if err := db.Create(&click).Error; err != nil {
		t.Fatalf("create click failed: %v", err)
	}
}

func TestResolveStatsWindow(t *testing.T) {
	now := time.Date(2026, 8, 28, 15, 4, 5, 0, time.UTC)
	from := now.AddDate(0, 0, -3)
	to := now
	tooOld := now.AddDate(0, 0, -120)

	cases := []struct {
		name     string
		input    StatsQueryInput
		wantErr  bool
		wantDays int
	}{
		{name: "default is 7d", input: StatsQueryInput{Timezone: "UTC"}, wantDays: 7},
		{name: "today", input: StatsQueryInput{Range: "today", Timezone: "UTC"}, wantDays: 1},
		{name: "30d", input: StatsQueryInput{Range: "30d", Timezone: "UTC"}, wantDays: 30},
		{name: "custom ok", input: StatsQueryInput{Range: "custom", From: &from, To: &to}},
		{name: "custom missing bounds", input: StatsQueryInput{Range: "custom"}, wantErr: true},
		{name: "custom reversed", input: StatsQueryInput{Range: "custom", From: &to, To: &from}, wantErr: true},
		{name: "custom too long", input: StatsQueryInput{Range: "custom", From: &tooOld, To: &to}, wantErr: true},
		{name: "unknown range", input: StatsQueryInput{Range: "1y"}, wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			window, err := resolveStatsWindow(tc.input, now)
			if tc.wantErr {
				if !errors.Is(err, ErrStatsRangeInvalid) {
					t.Fatalf("want ErrStatsRangeInvalid got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !window.endAt.After(window.startAt) {
				t.Fatalf("window should be positive: %v..%v", window.startAt, window.endAt)
			}
			if tc.wantDays > 0 {
				got := int(window.endAt.Sub(window.startAt).Hours() / 24)
				if got != tc.wantDays {
					t.Fatalf("window days want %d got %d", tc.wantDays, got)
				}
			}
		})
	}
}

func TestStatsServiceOverview(t *testing.T) {
	svc, db := setupStatsServiceTest(t)
	now := time.Now()

	if err := db.Create(&models.Exchange{
		Slug:   "bitflyer",
		Name:   "ビットフライヤー",
		Type:   constants.ExchangeTypeDomestic,
		Status: constants.ExchangeStatusActive,
		Rating: decimal.NewFromFloat(4.0),
	}).Error; err != nil {
		t.Fatalf("create exchange failed: %v", err)
	}

	seedStatsClick(t, db, "bitflyer", constants.ClickDeliveryDelivered, "sess-a", now)
	seedStatsClick(t, db, "bitflyer", constants.ClickDeliveryPending, "sess-b", now)
	seedStatsClick(t, db, "coincheck", constants.ClickDeliveryQueued, "sess-a", now)
	seedStatsClick(t, db, "coincheck", constants.ClickDeliveryAbandoned, "sess-c", now.AddDate(0, 0, -10))

	overview, err := svc.GetOverview(context.Background(), StatsQueryInput{Range: "today", ForceRefresh: true})
	if err != nil {
		t.Fatalf("get overview failed: %v", err)
	}
	if overview.KPI.ClicksTotal != 3 {
		t.Fatalf("clicks total want 3 got %d", overview.KPI.ClicksTotal)
	}
	if overview.KPI.Delivered != 1 || overview.KPI.PendingRetry != 1 || overview.KPI.Abandoned != 0 {
		t.Fatalf("delivery counts delivered=%d pending=%d abandoned=%d", overview.KPI.Delivered, overview.KPI.PendingRetry, overview.KPI.Abandoned)
	}
	if overview.KPI.UniqueSessions != 2 {
		t.Fatalf("unique sessions want 2 got %d", overview.KPI.UniqueSessions)
	}
	if overview.KPI.UniqueExchanges != 2 {
		t.Fatalf("unique exchanges want 2 got %d", overview.KPI.UniqueExchanges)
	}
	if overview.KPI.ActiveExchanges != 1 {
		t.Fatalf("active exchanges want 1 got %d", overview.KPI.ActiveExchanges)
	}
	if overview.Delivery.DeliveredRate != "33.33" {
		t.Fatalf("delivered rate want 33.33 got %s", overview.Delivery.DeliveredRate)
	}
	if overview.Delivery.PendingRate != "33.33" {
		t.Fatalf("pending rate want 33.33 got %s", overview.Delivery.PendingRate)
	}
}

func TestStatsServiceTrendsFillsMissingDays(t *testing.T) {
	svc, db := setupStatsServiceTest(t)
	now := time.Now()

	seedStatsClick(t, db, "bitflyer", constants.ClickDeliveryDelivered, "sess-a", now)
	seedStatsClick(t, db, "bitflyer", constants.ClickDeliveryQueued, "sess-b", now)

	trends, err := svc.GetTrends(context.Background(), StatsQueryInput{Range: "7d", ForceRefresh: true})
	if err != nil {
		t.Fatalf("get trends failed: %v", err)
	}
	if len(trends.Points) != 7 {
		t.Fatalf("trend points want 7 got %d", len(trends.Points))
	}

	last := trends.Points[len(trends.Points)-1]
	if last.Date != now.Format("2006-01-02") {
		t.Fatalf("last point date want %s got %s", now.Format("2006-01-02"), last.Date)
	}
	if last.Clicks != 2 || last.Delivered != 1 {
		t.Fatalf("last point clicks=%d delivered=%d", last.Clicks, last.Delivered)
	}
	for _, point := range trends.Points[:len(trends.Points)-1] {
		if point.Clicks != 0 {
			t.Fatalf("past day %s should have 0 clicks got %d", point.Date, point.Clicks)
		}
	}
}

func TestStatsServiceRankings(t *testing.T) {
	svc, db := setupStatsServiceTest(t)
	now := time.Now()

	if err := db.Create(&models.Exchange{
		Slug:   "bitflyer",
		Name:   "ビットフライヤー",
		Type:   constants.ExchangeTypeDomestic,
		Status: constants.ExchangeStatusActive,
		Rating: decimal.NewFromFloat(4.0),
	}).Error; err != nil {
		t.Fatalf("create exchange failed: %v", err)
	}

	seedStatsClick(t, db, "bitflyer", constants.ClickDeliveryDelivered, "sess-a", now)
	seedStatsClick(t, db, "bitflyer", constants.ClickDeliveryQueued, "sess-b", now)
	seedStatsClick(t, db, "gone-exchange", constants.ClickDeliveryQueued, "sess-c", now)

	rankings, err := svc.GetRankings(context.Background(), StatsQueryInput{Range: "today", ForceRefresh: true})
	if err != nil {
		t.Fatalf("get rankings failed: %v", err)
	}
	if len(rankings.TopExchanges) != 2 {
		t.Fatalf("top exchanges want 2 got %d", len(rankings.TopExchanges))
	}
	if rankings.TopExchanges[0].ExchangeSlug != "bitflyer" || rankings.TopExchanges[0].Clicks != 2 {
		t.Fatalf("top exchange want bitflyer/2 got %s/%d", rankings.TopExchanges[0].ExchangeSlug, rankings.TopExchanges[0].Clicks)
	}
	if rankings.TopExchanges[0].ExchangeName != "ビットフライヤー" {
		t.Fatalf("top exchange name want ビットフライヤー got %s", rankings.TopExchanges[0].ExchangeName)
	}
	if rankings.TopExchanges[1].ExchangeName != "-" {
		t.Fatalf("missing exchange name should fall back to '-' got %s", rankings.TopExchanges[1].ExchangeName)
	}
	if len(rankings.TopPositions) == 0 {
		t.Fatalf("top positions should not be empty")
	}
}

func TestStatsServiceRewardSummary(t *testing.T) {
	svc, db := setupStatsServiceTest(t)
	now := time.Now()

	exchanges := []models.Exchange{
		{Slug: "bitflyer", Name: "ビットフライヤー", Type: constants.ExchangeTypeDomestic, Status: constants.ExchangeStatusActive, Rating: decimal.NewFromFloat(4.0)},
		{Slug: "coincheck", Name: "コインチェック", Type: constants.ExchangeTypeDomestic, Status: constants.ExchangeStatusActive, Rating: decimal.NewFromFloat(4.2)},
	}
	for i := range exchanges {
		if err := db.Create(&exchanges[i]).Error; err != nil {
			t.Fatalf("create exchange failed: %v", err)
		}
	}

	routes := []models.AffiliateRoute{
		{ExchangeID: exchanges[0].ID, ASP: constants.ASPA8, BaseURL: "https://px.a8.net/svt/ejp", RewardAmount: models.NewMoneyFromDecimal(decimal.NewFromInt(10000)), IsActive: true},
		{ExchangeID: exchanges[1].ID, ASP: constants.ASPAccessTrade, BaseURL: "https://h.accesstrade.net/sp/cc", RewardAmount: models.NewMoneyFromDecimal(decimal.NewFromInt(8500)), IsActive: true},
	}
	for i := range routes {
		if err := db.Create(&routes[i]).Error; err != nil {
			t.Fatalf("create route failed: %v", err)
		}
	}

	seedStatsClick(t, db, "bitflyer", constants.ClickDeliveryDelivered, "sess-a", now)
	seedStatsClick(t, db, "bitflyer", constants.ClickDeliveryDelivered, "sess-b", now)
	seedStatsClick(t, db, "bitflyer", constants.ClickDeliveryQueued, "sess-c", now)
	seedStatsClick(t, db, "coincheck", constants.ClickDeliveryDelivered, "sess-a", now)

	rewards, err := svc.GetRewardSummary(context.Background(), StatsQueryInput{Range: "today", ForceRefresh: true})
	if err != nil {
		t.Fatalf("get reward summary failed: %v", err)
	}
	if len(rewards.Rows) != 2 {
		t.Fatalf("reward rows want 2 got %d", len(rewards.Rows))
	}

	first := rewards.Rows[0]
	if first.ASP != constants.ASPA8 || first.DeliveredClicks != 2 {
		t.Fatalf("first row want a8/2 got %s/%d", first.ASP, first.DeliveredClicks)
	}
	if first.ActiveRoutes != 1 {
		t.Fatalf("first row active routes want 1 got %d", first.ActiveRoutes)
	}
	if first.EstimatedReward != "20000.00" {
		t.Fatalf("first row estimated want 20000.00 got %s", first.EstimatedReward)
	}

	second := rewards.Rows[1]
	if second.ASP != constants.ASPAccessTrade || second.EstimatedReward != "8500.00" {
		t.Fatalf("second row want accesstrade/8500.00 got %s/%s", second.ASP, second.EstimatedReward)
	}
	if rewards.TotalEstimated != "28500.00" {
		t.Fatalf("total estimated want 28500.00 got %s", rewards.TotalEstimated)
	}
}
