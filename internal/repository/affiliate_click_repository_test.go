package repository

import (
	"testing"
	"time"

	"github.com/crypto-navi/api/internal/constants"
	"github.com/crypto-navi/api/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupClickRepositoryTest(t *testing.T) (*GormAffiliateClickRepository, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.AffiliateClick{}, &models.Exchange{}); err != nil {
		t.Fatalf("migrate click/exchange failed: %v", err)
	}
	return NewAffiliateClickRepository(db), db
}

func createClick(t *testing.T, repo *GormAffiliateClickRepository, slug, status, visitorKey string, createdAt time.Time) *models.AffiliateClick {
	t.Helper()
	click := &models.AffiliateClick{
		ExchangeSlug:   slug,
		ASP:            constants.ASPA8,
		TargetURL:      "https://example.com/lp",
		Page:           "/exchanges/" + slug,
		Position:       "comparison_table",
		SessionKey:     "sess-" + visitorKey,
		VisitorKey:     visitorKey,
		DeliveryStatus: status,
		CreatedAt:      createdAt,
	}
	if err := repo.Create(click); err != nil {
		t.Fatalf("create click failed: %v", err)
	}
	return click
}

func TestClickUpdateDeliveryStatus(t *testing.T) {
	repo, db := setupClickRepositoryTest(t)
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	click := createClick(t, repo, "status-ex", constants.ClickDeliveryQueued, "v-status", now)

	deliveredAt := now.Add(2 * time.Second)
	if err := repo.UpdateDeliveryStatus(click.ID, constants.ClickDeliveryDelivered, &deliveredAt); err != nil {
		t.Fatalf("update delivery status failed: %v", err)
	}

	var got models.AffiliateClick
	if err := db.First(&got, click.ID).Error; err != nil {
		t.Fatalf("reload click failed: %v", err)
	}
	if got.DeliveryStatus != constants.ClickDeliveryDelivered {
		t.Fatalf("status want delivered got %s", got.DeliveryStatus)
	}
	if got.DeliveredAt == nil {
		t.Fatalf("delivered_at should be set")
	}
}

func TestClickHasRecentClick(t *testing.T) {
	repo, _ := setupClickRepositoryTest(t)
	base := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
	createClick(t, repo, "recent-ex", constants.ClickDeliveryQueued, "v-recent", base)

	found, err := repo.HasRecentClick("v-recent", "recent-ex", base.Add(-time.Hour))
	if err != nil {
		t.Fatalf("has recent click failed: %v", err)
	}
	if !found {
		t.Fatalf("recent click should be found")
	}

	found, err = repo.HasRecentClick("v-recent", "recent-ex", base.Add(time.Hour))
	if err != nil {
		t.Fatalf("has recent click after window failed: %v", err)
	}
	if found {
		t.Fatalf("click outside window should not be found")
	}

	found, err = repo.HasRecentClick("", "recent-ex", base.Add(-time.Hour))
	if err != nil {
		t.Fatalf("has recent click blank key failed: %v", err)
	}
	if found {
		t.Fatalf("blank visitor key should not match")
	}
}

func TestClickGetOverviewCountsByDeliveryStatus(t *testing.T) {
	repo, _ := setupClickRepositoryTest(t)
	// 他テストと期間を分けて集計対象を固定する
	base := time.Date(2030, 1, 10, 0, 0, 0, 0, time.UTC)
	createClick(t, repo, "overview-a", constants.ClickDeliveryDelivered, "v-ov-1", base.Add(time.Hour))
	createClick(t, repo, "overview-a", constants.ClickDeliveryQueued, "v-ov-2", base.Add(2*time.Hour))
	createClick(t, repo, "overview-b", constants.ClickDeliveryPending, "v-ov-3", base.Add(3*time.Hour))
	createClick(t, repo, "overview-b", constants.ClickDeliveryAbandoned, "v-ov-3", base.Add(4*time.Hour))
	createClick(t, repo, "overview-out", constants.ClickDeliveryDelivered, "v-ov-4", base.Add(48*time.Hour))

	overview, err := repo.GetOverview(base, base.AddDate(0, 0, 1))
	if err != nil {
		t.Fatalf("get overview failed: %v", err)
	}
	if overview.ClicksTotal != 4 {
		t.Fatalf("clicks total want 4 got %d", overview.ClicksTotal)
	}
	if overview.Delivered != 1 {
		t.Fatalf("delivered want 1 got %d", overview.Delivered)
	}
	if overview.PendingRetry != 1 {
		t.Fatalf("pending retry want 1 got %d", overview.PendingRetry)
	}
	if overview.Abandoned != 1 {
		t.Fatalf("abandoned want 1 got %d", overview.Abandoned)
	}
	if overview.UniqueSessions != 3 {
		t.Fatalf("unique sessions want 3 got %d", overview.UniqueSessions)
	}
	if overview.UniqueExchanges != 2 {
		t.Fatalf("unique exchanges want 2 got %d", overview.UniqueExchanges)
	}
}

func TestClickGetDailyTrends(t *testing.T) {
	repo, _ := setupClickRepositoryTest(t)
	base := time.Date(2031, 2, 1, 0, 0, 0, 0, time.UTC)
	createClick(t, repo, "trend-ex", constants.ClickDeliveryDelivered, "v-tr-1", base.Add(9*time.Hour))
	createClick(t, repo, "trend-ex", constants.ClickDeliveryQueued, "v-tr-2", base.Add(10*time.Hour))
	createClick(t, repo, "trend-ex", constants.ClickDeliveryDelivered, "v-tr-3", base.AddDate(0, 0, 1).Add(9*time.Hour))

	trends, err := repo.GetDailyTrends(base, base.AddDate(0, 0, 2))
	if err != nil {
		t.Fatalf("get daily trends failed: %v", err)
	}
	if len(trends) != 2 {
		t.Fatalf("trend days want 2 got %d", len(trends))
	}
	if trends[0].Day != "2031-02-01" || trends[0].Clicks != 2 || trends[0].Delivered != 1 {
		t.Fatalf("day1 mismatch: %+v", trends[0])
	}
	if trends[1].Day != "2031-02-02" || trends[1].Clicks != 1 || trends[1].Delivered != 1 {
		t.Fatalf("day2 mismatch: %+v", trends[1])
	}
}

func TestClickGetTopExchangesJoinsExchangeName(t *testing.T) {
	repo, db := setupClickRepositoryTest(t)
	if err := db.Create(&models.Exchange{
		Slug:   "rank-bitflyer",
		Name:   "ビットフライヤー",
		Type:   constants.ExchangeTypeDomestic,
		Status: constants.ExchangeStatusActive,
	}).Error; err != nil {
		t.Fatalf("create exchange failed: %v", err)
	}

	base := time.Date(2032, 3, 1, 0, 0, 0, 0, time.UTC)
	createClick(t, repo, "rank-bitflyer", constants.ClickDeliveryDelivered, "v-rk-1", base.Add(time.Hour))
	createClick(t, repo, "rank-bitflyer", constants.ClickDeliveryQueued, "v-rk-2", base.Add(2*time.Hour))
	createClick(t, repo, "rank-unknown", constants.ClickDeliveryQueued, "v-rk-3", base.Add(3*time.Hour))

	rows, err := repo.GetTopExchanges(base, base.AddDate(0, 0, 1), 5)
	if err != nil {
		t.Fatalf("get top exchanges failed: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("ranking rows want 2 got %d", len(rows))
	}
	if rows[0].ExchangeSlug != "rank-bitflyer" || rows[0].Clicks != 2 || rows[0].Delivered != 1 {
		t.Fatalf("top row mismatch: %+v", rows[0])
	}
	if rows[0].ExchangeName != "ビットフライヤー" {
		t.Fatalf("exchange name want ビットフライヤー got %s", rows[0].ExchangeName)
	}
	if rows[1].ExchangeSlug != "rank-unknown" || rows[1].ExchangeName != "" {
		t.Fatalf("unknown slug row mismatch: %+v", rows[1])
	}
}

func TestClickListFiltersByStatusAndPeriod(t *testing.T) {
	repo, _ := setupClickRepositoryTest(t)
	base := time.Date(2033, 4, 1, 0, 0, 0, 0, time.UTC)
	createClick(t, repo, "filter-ex", constants.ClickDeliveryQueued, "v-fl-1", base.Add(time.Hour))
	createClick(t, repo, "filter-ex", constants.ClickDeliveryDelivered, "v-fl-2", base.Add(2*time.Hour))

	from := base
	to := base.AddDate(0, 0, 1)
	rows, total, err := repo.List(ClickListFilter{
		Page:           1,
		PageSize:       10,
		ExchangeSlug:   "Filter-EX",
		DeliveryStatus: constants.ClickDeliveryQueued,
		CreatedFrom:    &from,
		CreatedTo:      &to,
	})
	if err != nil {
		t.Fatalf("list clicks failed: %v", err)
	}
	if total != 1 || len(rows) != 1 {
		t.Fatalf("filtered rows want 1 got total=%d len=%d", total, len(rows))
	}
	if rows[0].VisitorKey != "v-fl-1" {
		t.Fatalf("visitor key want v-fl-1 got %s", rows[0].VisitorKey)
	}
}
