package repository

import (
	"testing"

	"github.com/crypto-navi/api/internal/constants"
	"github.com/crypto-navi/api/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func setupExchangeRepositoryTest(t *testing.T) (*GormExchangeRepository, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Exchange{}); err != nil {
		t.Fatalf("migrate exchange failed: %v", err)
	}
	return NewExchangeRepository(db), db
}

func createExchange(t *testing.T, repo *GormExchangeRepository, slug, name, exchangeType, status string, sortOrder int) *models.Exchange {
	t.Helper()
	exchange := &models.Exchange{
		Slug:      slug,
		Name:      name,
		Type:      exchangeType,
		Status:    status,
		Rating:    decimal.NewFromFloat(4.0),
		SortOrder: sortOrder,
	}
	if err := repo.Create(exchange); err != nil {
		t.Fatalf("create exchange failed: %v", err)
	}
	return exchange
}

func TestExchangeListFiltersByTypeAndStatus(t *testing.T) {
	repo, _ := setupExchangeRepositoryTest(t)
	createExchange(t, repo, "list-domestic-a", "国内A", constants.ExchangeTypeDomestic, constants.ExchangeStatusActive, 1)
	createExchange(t, repo, "list-domestic-b", "国内B", constants.ExchangeTypeDomestic, constants.ExchangeStatusHidden, 2)
	createExchange(t, repo, "list-intl-a", "海外A", constants.ExchangeTypeInternational, constants.ExchangeStatusActive, 3)

	rows, total, err := repo.List(ExchangeListFilter{
		Page:     1,
		PageSize: 10,
		Type:     constants.ExchangeTypeDomestic,
		Search:   "list-",
	})
	if err != nil {
		t.Fatalf("list by type failed: %v", err)
	}
	if total != 2 || len(rows) != 2 {
		t.Fatalf("domestic rows want 2 got total=%d len=%d", total, len(rows))
	}

	rows, total, err = repo.List(ExchangeListFilter{
		Page:       1,
		PageSize:   10,
		Type:       constants.ExchangeTypeDomestic,
		Search:     "list-",
		OnlyActive: true,
	})
	if err != nil {
		t.Fatalf("list active failed: %v", err)
	}
	if total != 1 || len(rows) != 1 {
		t.Fatalf("active domestic rows want 1 got total=%d len=%d", total, len(rows))
	}
	if rows[0].Slug != "list-domestic-a" {
		t.Fatalf("active domestic slug want list-domestic-a got %s", rows[0].Slug)
	}
}

func TestExchangeListOrdersBySortOrder(t *testing.T) {
	repo, _ := setupExchangeRepositoryTest(t)
	createExchange(t, repo, "order-second", "二番手", constants.ExchangeTypeDomestic, constants.ExchangeStatusActive, 20)
	createExchange(t, repo, "order-first", "一番手", constants.ExchangeTypeDomestic, constants.ExchangeStatusActive, 10)

	rows, _, err := repo.List(ExchangeListFilter{Page: 1, PageSize: 10, Search: "order-"})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows want 2 got %d", len(rows))
	}
	if rows[0].Slug != "order-first" || rows[1].Slug != "order-second" {
		t.Fatalf("order mismatch got %s, %s", rows[0].Slug, rows[1].Slug)
	}
}

func TestExchangeGetBySlugNormalizesAndReturnsNilWhenMissing(t *testing.T) {
	repo, _ := setupExchangeRepositoryTest(t)
	createExchange(t, repo, "slug-coincheck", "コインチェック", constants.ExchangeTypeDomestic, constants.ExchangeStatusActive, 1)

	got, err := repo.GetBySlug("  Slug-Coincheck  ")
	if err != nil {
		t.Fatalf("get by slug failed: %v", err)
	}
	if got == nil || got.Slug != "slug-coincheck" {
		t.Fatalf("get by slug want slug-coincheck got %+v", got)
	}

	missing, err := repo.GetBySlug("slug-unknown")
	if err != nil {
		t.Fatalf("get missing slug failed: %v", err)
	}
	if missing != nil {
		t.Fatalf("missing slug want nil got %+v", missing)
	}
}

func TestExchangeListBySlugsSkipsBlanks(t *testing.T) {
	repo, _ := setupExchangeRepositoryTest(t)
	createExchange(t, repo, "multi-a", "マルチA", constants.ExchangeTypeDomestic, constants.ExchangeStatusActive, 1)
	createExchange(t, repo, "multi-b", "マルチB", constants.ExchangeTypeDomestic, constants.ExchangeStatusActive, 2)

	rows, err := repo.ListBySlugs([]string{" multi-a ", "", "MULTI-B", "multi-missing"})
	if err != nil {
		t.Fatalf("list by slugs failed: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows want 2 got %d", len(rows))
	}

	rows, err = repo.ListBySlugs([]string{"", "  "})
	if err != nil {
		t.Fatalf("list by blank slugs failed: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("blank slugs rows want 0 got %d", len(rows))
	}
}

func TestExchangeCountBySlugExcludesSelf(t *testing.T) {
	repo, _ := setupExchangeRepositoryTest(t)
	exchange := createExchange(t, repo, "count-self", "重複チェック", constants.ExchangeTypeDomestic, constants.ExchangeStatusActive, 1)

	count, err := repo.CountBySlug("count-self", 0)
	if err != nil {
		t.Fatalf("count by slug failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("count want 1 got %d", count)
	}

	count, err = repo.CountBySlug("count-self", exchange.ID)
	if err != nil {
		t.Fatalf("count excluding self failed: %v", err)
	}
	if count != 0 {
		t.Fatalf("count excluding self want 0 got %d", count)
	}
}
