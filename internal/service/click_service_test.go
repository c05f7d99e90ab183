package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/crypto-navi/api/internal/config"
	"github.com/crypto-navi/api/internal/constants"
	"github.com/crypto-navi/api/internal/models"
	"github.com/crypto-navi/api/internal/queue"
	"github.com/crypto-navi/api/internal/repository"
	"github.com/crypto-navi/api/internal/tracking"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

// memoryKV クリック履歴・未配信キューの保存先スタブ
type memoryKV struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemoryKV() *memoryKV {
	return &memoryKV{data: make(map[string][]byte)}
}

func (m *memoryKV) GetJSON(_ context.Context, key string, dest interface{}) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	raw, ok := m.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dest)
}

func (m *memoryKV) SetJSON(_ context.Context, key string, value interface{}, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = raw
	return nil
}

func (m *memoryKV) Del(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

// captureSink 送信された計測イベントを記録するスタブ
type captureSink struct {
	mu     sync.Mutex
	events []string
}

func (s *captureSink) Emit(_ context.Context, event string, _ map[string]interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
}

func (s *captureSink) count(event string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0
	for _, item := range s.events {
		if item == event {
			total++
		}
	}
	return total
}

type clickServiceHarness struct {
	svc       *ClickService
	clickRepo repository.AffiliateClickRepository
	kv        *memoryKV
	sink      *captureSink
	history   *tracking.ClickHistoryStore
	pending   *tracking.PendingClickStore
	db        *gorm.DB
}

func setupClickServiceTest(t *testing.T, endpointURL string) *clickServiceHarness {
	t.Helper()

	dsn := fmt.Sprintf("file:click_service_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Exchange{}, &models.AffiliateRoute{}, &models.AffiliateClick{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}

	exchange := &models.Exchange{
		Slug:       "bitflyer",
		Name:       "ビットフライヤー",
		Type:       constants.ExchangeTypeDomestic,
		Status:     constants.ExchangeStatusActive,
		WebsiteURL: "https://bitflyer.com/ja-jp/",
	}
	if err := db.Create(exchange).Error; err != nil {
		t.Fatalf("create exchange failed: %v", err)
	}
	route := &models.AffiliateRoute{
		ExchangeID: exchange.ID,
		ASP:        constants.ASPA8,
		ProgramID:  "a8mat=TEST",
		MediaID:    "a12345678901",
		BaseURL:    "https://px.a8.net/svt/ejp?a8mat=TEST",
		IsActive:   true,
	}
	if err := db.Create(route).Error; err != nil {
		t.Fatalf("create route failed: %v", err)
	}
	direct := &models.Exchange{
		Slug:       "gmo-coin",
		Name:       "GMOコイン",
		Type:       constants.ExchangeTypeDomestic,
		Status:     constants.ExchangeStatusActive,
		WebsiteURL: "https://coin.z.com/jp/",
	}
	if err := db.Create(direct).Error; err != nil {
		t.Fatalf("create exchange failed: %v", err)
	}

	kv := newMemoryKV()
	sink := &captureSink{}
	history := tracking.NewClickHistoryStore(kv, 0)
	pending := tracking.NewPendingClickStore(kv, 0)

	delivery := tracking.NewDeliveryClient(&config.TrackingConfig{EndpointURL: endpointURL, TimeoutMS: 2000})
	queueClient, err := queue.NewClient(nil)
	if err != nil {
		t.Fatalf("queue client failed: %v", err)
	}

	clickRepo := repository.NewAffiliateClickRepository(db)
	svc := NewClickService(
		repository.NewAffiliateRouteRepository(db),
		clickRepo,
		repository.NewExchangeRepository(db),
		delivery,
		sink,
		history,
		pending,
		queueClient,
		tracking.UTMParams{},
	)

	return &clickServiceHarness{
		svc:       svc,
		clickRepo: clickRepo,
		kv:        kv,
		sink:      sink,
		history:   history,
		pending:   pending,
		db:        db,
	}
}

// waitForDeliveryStatus 非同期配信の完了を待って記録を返す
func waitForDeliveryStatus(t *testing.T, repo repository.AffiliateClickRepository, clickID uint, status string) *models.AffiliateClick {
	t.Helper()

	deadline := time.Now().Add(3 * time.Second)
	for {
		click, err := repo.GetByID(clickID)
		if err != nil {
			t.Fatalf("GetByID error: %v", err)
		}
		if click != nil && click.DeliveryStatus == status {
			return click
		}
		if time.Now().After(deadline) {
			got := "<nil>"
			if click != nil {
				got = click.DeliveryStatus
			}
			t.Fatalf("delivery status want %s got %s", status, got)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestRecordClickBuildsURLAndDelivers(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	h := setupClickServiceTest(t, server.URL)

	result, err := h.svc.RecordClick(context.Background(), ClickInput{
		ExchangeSlug: "bitflyer",
		Page:         "/ranking",
		Position:     "ranking_side",
		VisitorKey:   "visitor-1",
		SessionKey:   "session-1",
	})
	if err != nil {
		t.Fatalf("RecordClick error: %v", err)
	}
	if result.Duplicate {
		t.Fatal("expected non-duplicate click")
	}
	if result.ASP != constants.ASPA8 {
		t.Fatalf("expected ASP %s, got %s", constants.ASPA8, result.ASP)
	}

	parsed, err := url.Parse(result.TargetURL)
	if err != nil {
		t.Fatalf("parse target url failed: %v", err)
	}
	query := parsed.Query()
	if query.Get("utm_source") != constants.UTMSourceDefault {
		t.Fatalf("expected default utm_source, got %s", query.Get("utm_source"))
	}
	if query.Get("utm_content") != "bitflyer" {
		t.Fatalf("expected utm_content bitflyer, got %s", query.Get("utm_content"))
	}
	if query.Get("ref_page") != "/ranking" {
		t.Fatalf("expected ref_page /ranking, got %s", query.Get("ref_page"))
	}
	if query.Get("a8mat") != "TEST" {
		t.Fatalf("expected original a8mat param preserved, got %s", query.Get("a8mat"))
	}

	click := waitForDeliveryStatus(t, h.clickRepo, result.ClickID, constants.ClickDeliveryDelivered)
	if click.DeliveredAt == nil {
		t.Fatal("expected delivered_at set")
	}

	if h.sink.count(constants.AnalyticsEventAffiliateClick) != 1 {
		t.Fatalf("expected 1 click event, got %d", h.sink.count(constants.AnalyticsEventAffiliateClick))
	}

	entries, err := h.history.List(context.Background())
	if err != nil {
		t.Fatalf("history list error: %v", err)
	}
	if len(entries) != 1 || entries[0].ExchangeSlug != "bitflyer" {
		t.Fatalf("unexpected history entries: %+v", entries)
	}
}

func TestRecordClickDuplicateSkipsRecording(t *testing.T) {
	h := setupClickServiceTest(t, "")

	first, err := h.svc.RecordClick(context.Background(), ClickInput{
		ExchangeSlug: "bitflyer",
		Page:         "/",
		Position:     "home_hero",
		VisitorKey:   "visitor-dup",
	})
	if err != nil {
		t.Fatalf("RecordClick error: %v", err)
	}

	second, err := h.svc.RecordClick(context.Background(), ClickInput{
		ExchangeSlug: "bitflyer",
		Page:         "/",
		Position:     "home_hero",
		VisitorKey:   "visitor-dup",
	})
	if err != nil {
		t.Fatalf("RecordClick error: %v", err)
	}
	if !second.Duplicate {
		t.Fatal("expected duplicate flag on the second click")
	}
	if second.ClickID != 0 {
		t.Fatal("duplicate click must not create a record")
	}
	if second.TargetURL == "" || second.TargetURL != first.TargetURL {
		t.Fatalf("duplicate click should still resolve the same url, got %s", second.TargetURL)
	}

	var total int64
	if err := h.db.Model(&models.AffiliateClick{}).Count(&total).Error; err != nil {
		t.Fatalf("count clicks failed: %v", err)
	}
	if total != 1 {
		t.Fatalf("expected 1 stored click, got %d", total)
	}
}

func TestRecordClickFallsBackToWebsiteURL(t *testing.T) {
	h := setupClickServiceTest(t, "")

	result, err := h.svc.RecordClick(context.Background(), ClickInput{
		ExchangeSlug: "gmo-coin",
		Page:         "/exchanges/gmo-coin",
		Position:     "article_foot",
	})
	if err != nil {
		t.Fatalf("RecordClick error: %v", err)
	}
	if result.ASP != constants.ASPDirect {
		t.Fatalf("expected direct ASP fallback, got %s", result.ASP)
	}
	if !strings.HasPrefix(result.TargetURL, "https://coin.z.com/jp/") {
		t.Fatalf("expected official site url, got %s", result.TargetURL)
	}
	if h.sink.count(constants.AnalyticsEventOutboundClick) != 1 {
		t.Fatalf("expected 1 outbound event, got %d", h.sink.count(constants.AnalyticsEventOutboundClick))
	}
}

func TestImpressionTagEmitsImpressionEvent(t *testing.T) {
	h := setupClickServiceTest(t, "")

	tag, ok, err := h.svc.ImpressionTag(context.Background(), "bitflyer", "/ranking")
	if err != nil {
		t.Fatalf("ImpressionTag error: %v", err)
	}
	if !ok || tag == "" {
		t.Fatalf("expected impression tag, got ok=%v url=%s", ok, tag)
	}
	if h.sink.count(constants.AnalyticsEventAffiliateImpression) != 1 {
		t.Fatalf("expected 1 impression event, got %d", h.sink.count(constants.AnalyticsEventAffiliateImpression))
	}

	// 直接提携の取引所はタグ無し。イベントも送られない
	tag, ok, err = h.svc.ImpressionTag(context.Background(), "gmo-coin", "/ranking")
	if err != nil {
		t.Fatalf("ImpressionTag error: %v", err)
	}
	if ok || tag != "" {
		t.Fatalf("expected no tag for direct exchange, got ok=%v url=%s", ok, tag)
	}
	if h.sink.count(constants.AnalyticsEventAffiliateImpression) != 1 {
		t.Fatalf("impression count should stay 1, got %d", h.sink.count(constants.AnalyticsEventAffiliateImpression))
	}
}

func TestRecordClickUnknownExchange(t *testing.T) {
	h := setupClickServiceTest(t, "")

	if _, err := h.svc.RecordClick(context.Background(), ClickInput{ExchangeSlug: "unknown"}); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeliverClickFailureQueuesPendingAndFlushRecovers(t *testing.T) {
	var failing struct {
		mu   sync.Mutex
		fail bool
	}
	failing.fail = true

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		failing.mu.Lock()
		shouldFail := failing.fail
		failing.mu.Unlock()
		if shouldFail {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	h := setupClickServiceTest(t, server.URL)

	result, err := h.svc.RecordClick(context.Background(), ClickInput{
		ExchangeSlug: "bitflyer",
		Page:         "/ranking",
		Position:     "ranking_side",
	})
	if err != nil {
		t.Fatalf("RecordClick error: %v", err)
	}

	waitForDeliveryStatus(t, h.clickRepo, result.ClickID, constants.ClickDeliveryPending)

	queued, err := h.pending.List(context.Background())
	if err != nil {
		t.Fatalf("pending list error: %v", err)
	}
	if len(queued) != 1 || queued[0].ClickID != result.ClickID {
		t.Fatalf("unexpected pending queue: %+v", queued)
	}

	failing.mu.Lock()
	failing.fail = false
	failing.mu.Unlock()

	delivered, remaining, err := h.svc.FlushPending(context.Background())
	if err != nil {
		t.Fatalf("FlushPending error: %v", err)
	}
	if delivered != 1 || remaining != 0 {
		t.Fatalf("expected 1 delivered and 0 remaining, got %d/%d", delivered, remaining)
	}

	click, err := h.clickRepo.GetByID(result.ClickID)
	if err != nil {
		t.Fatalf("GetByID error: %v", err)
	}
	if click.DeliveryStatus != constants.ClickDeliveryDelivered {
		t.Fatalf("expected delivered status after flush, got %s", click.DeliveryStatus)
	}

	queued, err = h.pending.List(context.Background())
	if err != nil {
		t.Fatalf("pending list error: %v", err)
	}
	if len(queued) != 0 {
		t.Fatalf("expected drained pending queue, got %+v", queued)
	}
}

func TestRecordClickWithNilSinkStillAppendsHistory(t *testing.T) {
	h := setupClickServiceTest(t, "")
	h.svc.sink = nil

	result, err := h.svc.RecordClick(context.Background(), ClickInput{
		ExchangeSlug: "bitflyer",
		Page:         "/ranking",
		Position:     "ranking_side",
		SessionKey:   "session-nil-sink",
	})
	if err != nil {
		t.Fatalf("RecordClick error: %v", err)
	}
	if result.ClickID == 0 {
		t.Fatal("expected stored click")
	}

	entries, err := h.history.List(context.Background())
	if err != nil {
		t.Fatalf("history list error: %v", err)
	}
	if len(entries) != 1 || entries[0].ExchangeSlug != "bitflyer" {
		t.Fatalf("unexpected history entries: %+v", entries)
	}
}

func TestRecordClickWithoutEndpointMarksDeliveredLocally(t *testing.T) {
	h := setupClickServiceTest(t, "")

	result, err := h.svc.RecordClick(context.Background(), ClickInput{
		ExchangeSlug: "bitflyer",
		Page:         "/",
		Position:     "home_hero",
	})
	if err != nil {
		t.Fatalf("RecordClick error: %v", err)
	}

	click, err := h.clickRepo.GetByID(result.ClickID)
	if err != nil {
		t.Fatalf("GetByID error: %v", err)
	}
	if click.DeliveryStatus != constants.ClickDeliveryDelivered {
		t.Fatalf("expected delivered status without endpoint, got %s", click.DeliveryStatus)
	}
}
