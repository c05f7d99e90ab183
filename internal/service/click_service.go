package service

import (
	"context"
	"strings"
	"time"

	"github.com/crypto-navi/api/internal/constants"
	"github.com/crypto-navi/api/internal/logger"
	"github.com/crypto-navi/api/internal/models"
	"github.com/crypto-navi/api/internal/queue"
	"github.com/crypto-navi/api/internal/repository"
	"github.com/crypto-navi/api/internal/tracking"
)

const (
	// clickDedupeWindow 同一訪問者の連続クリックを重複とみなす時間幅
	clickDedupeWindow = 5 * time.Minute
	// pendingClickMaxAge これより古い未配信クリックは放棄する
	pendingClickMaxAge = 7 * 24 * time.Hour
	// inlineDeliveryTimeout キュー非使用時の非同期配信の上限時間
	inlineDeliveryTimeout = 10 * time.Second
)

// ClickInput クリック記録の入力
type ClickInput struct {
	ExchangeSlug string
	Page         string
	Position     string
	SessionKey   string
	VisitorKey   string
	ClientIP     string
	UserAgent    string
	Referrer     string
	Campaign     string
	Content      string
}

// ClickResult クリック記録の結果
type ClickResult struct {
	ClickID   uint   `json:"click_id"`
	TargetURL string `json:"target_url"`
	ASP       string `json:"asp"`
	Duplicate bool   `json:"duplicate"`
}

// ClickService アフィリエイトクリックの記録・配信パイプライン
// 経路解決、遷移先 URL の生成、計測イベント送信、DB 記録、
// ASP への配信キュー投入までを一括で担う
type ClickService struct {
	routeRepo    repository.AffiliateRouteRepository
	clickRepo    repository.AffiliateClickRepository
	exchangeRepo repository.ExchangeRepository

	delivery *tracking.DeliveryClient
	sink     tracking.AnalyticsSink
	history  *tracking.ClickHistoryStore
	pending  *tracking.PendingClickStore

	queueClient *queue.Client
	utmDefaults tracking.UTMParams
}

// NewClickService クリックサービスを生成する
func NewClickService(
	routeRepo repository.AffiliateRouteRepository,
	clickRepo repository.AffiliateClickRepository,
	exchangeRepo repository.ExchangeRepository,
	delivery *tracking.DeliveryClient,
	sink tracking.AnalyticsSink,
	history *tracking.ClickHistoryStore,
	pending *tracking.PendingClickStore,
	queueClient *queue.Client,
	utmDefaults tracking.UTMParams,
) *ClickService {
	return &ClickService{
		routeRepo:    routeRepo,
		clickRepo:    clickRepo,
		exchangeRepo: exchangeRepo,
		delivery:     delivery,
		sink:         sink,
		history:      history,
		pending:      pending,
		queueClient:  queueClient,
		utmDefaults:  utmDefaults,
	}
}

// ResolveTargetURL 遷移先 URL のみを解決する（リダイレクト前のプレビュー用）
func (s *ClickService) ResolveTargetURL(slug, page, position string) (string, string, error) {
	route, exchange, err := s.resolveRoute(slug)
	if err != nil {
		return "", "", err
	}
	targetURL, asp := s.buildTargetURL(route, exchange, page, position, "", "")
	return targetURL, asp, nil
}

// RecordClick クリックを記録し、遷移先 URL を返す
func (s *ClickService) RecordClick(ctx context.Context, input ClickInput) (*ClickResult, error) {
	slug := strings.ToLower(strings.TrimSpace(input.ExchangeSlug))
	if slug == "" {
		return nil, ErrInvalidExchange
	}

	route, exchange, err := s.resolveRoute(slug)
	if err != nil {
		return nil, err
	}
	targetURL, asp := s.buildTargetURL(route, exchange, input.Page, input.Position, input.Campaign, input.Content)

	// 同一訪問者の短時間の連打は遷移のみ行い、記録と配信はスキップする
	if strings.TrimSpace(input.VisitorKey) != "" {
		recent, dupErr := s.clickRepo.HasRecentClick(input.VisitorKey, slug, time.Now().Add(-clickDedupeWindow))
		if dupErr != nil {
			logger.Warnw("click_dedupe_check_failed", "exchange", slug, "error", dupErr)
		} else if recent {
			return &ClickResult{TargetURL: targetURL, ASP: asp, Duplicate: true}, nil
		}
	}

	click := &models.AffiliateClick{
		ExchangeSlug:   slug,
		ASP:            asp,
		TargetURL:      targetURL,
		Page:           strings.TrimSpace(input.Page),
		Position:       strings.TrimSpace(input.Position),
		SessionKey:     strings.TrimSpace(input.SessionKey),
		VisitorKey:     strings.TrimSpace(input.VisitorKey),
		ClientIP:       strings.TrimSpace(input.ClientIP),
		UserAgent:      input.UserAgent,
		Referrer:       strings.TrimSpace(input.Referrer),
		DeliveryStatus: constants.ClickDeliveryQueued,
	}
	if err := s.clickRepo.Create(click); err != nil {
		return nil, err
	}

	tracking.EmitClick(ctx, s.sink, tracking.ClickEventParams{
		ExchangeSlug: slug,
		ExchangeName: exchange.Name,
		Placement:    click.Position,
		PagePath:     click.Page,
		CampaignID:   strings.TrimSpace(input.Campaign),
	})
	// 経路未提携の公式サイト遷移は外部リンクとしても計測する
	if asp == constants.ASPDirect && route == nil {
		tracking.EmitOutbound(ctx, s.sink, targetURL, exchange.Name, click.Page)
	}

	if s.history != nil {
		entry := tracking.HistoryEntry{
			ExchangeSlug: slug,
			ASP:          asp,
			Page:         click.Page,
			Position:     click.Position,
			ClickedAt:    time.Now().UTC(),
		}
		if histErr := s.history.Append(ctx, entry); histErr != nil {
			logger.Warnw("click_history_append_failed", "exchange", slug, "error", histErr)
		}
	}

	s.dispatchDelivery(click)

	return &ClickResult{ClickID: click.ID, TargetURL: targetURL, ASP: asp}, nil
}

// dispatchDelivery 配信経路を選ぶ。キューが使えなければ非同期で直接配信する。
// リダイレクト応答は配信結果を待たない。
func (s *ClickService) dispatchDelivery(click *models.AffiliateClick) {
	if s.delivery == nil || !s.delivery.Enabled() {
		// 配信先未設定の環境ではローカル完結とみなす
		now := time.Now()
		if err := s.clickRepo.UpdateDeliveryStatus(click.ID, constants.ClickDeliveryDelivered, &now); err != nil {
			logger.Warnw("click_status_update_failed", "click_id", click.ID, "error", err)
		}
		return
	}

	if s.queueClient.Enabled() {
		err := s.queueClient.EnqueueTrackingDeliver(queue.TrackingDeliverPayload{ClickID: click.ID})
		if err == nil {
			return
		}
		logger.Warnw("click_enqueue_failed", "click_id", click.ID, "error", err)
	}

	go func() {
		detached, cancel := context.WithTimeout(context.Background(), inlineDeliveryTimeout)
		defer cancel()
		if err := s.DeliverClick(detached, click.ID); err != nil {
			logger.Warnw("click_inline_delivery_failed", "click_id", click.ID, "error", err)
		}
	}()
}

// DeliverClick 記録済みクリックを ASP へ配信する
// 失敗時は未配信キューへ退避し、ステータスを pending_retry にする
func (s *ClickService) DeliverClick(ctx context.Context, clickID uint) error {
	click, err := s.clickRepo.GetByID(clickID)
	if err != nil {
		return err
	}
	if click == nil {
		return ErrNotFound
	}
	if click.DeliveryStatus == constants.ClickDeliveryDelivered {
		return nil
	}

	event := buildClickEvent(click)
	if s.delivery == nil || !s.delivery.Enabled() {
		now := time.Now()
		return s.clickRepo.UpdateDeliveryStatus(click.ID, constants.ClickDeliveryDelivered, &now)
	}

	if deliverErr := s.delivery.Deliver(ctx, event); deliverErr != nil {
		if s.pending != nil {
			if queueErr := s.pending.Enqueue(ctx, event); queueErr != nil {
				logger.Errorw("click_pending_enqueue_failed", "click_id", click.ID, "error", queueErr)
			}
		}
		if statusErr := s.clickRepo.UpdateDeliveryStatus(click.ID, constants.ClickDeliveryPending, nil); statusErr != nil {
			logger.Warnw("click_status_update_failed", "click_id", click.ID, "error", statusErr)
		}
		return nil
	}

	now := time.Now()
	return s.clickRepo.UpdateDeliveryStatus(click.ID, constants.ClickDeliveryDelivered, &now)
}

// FlushPending 未配信キューを再送する
// 期限切れのイベントは放棄としてキューから取り除く
func (s *ClickService) FlushPending(ctx context.Context) (int, int, error) {
	if s.pending == nil || s.delivery == nil || !s.delivery.Enabled() {
		return 0, 0, nil
	}

	cutoff := time.Now().Add(-pendingClickMaxAge)
	delivered, remaining, err := s.pending.Flush(ctx, func(ctx context.Context, event tracking.ClickEvent) error {
		if ts, parseErr := time.Parse(time.RFC3339, event.Timestamp); parseErr == nil && ts.Before(cutoff) {
			s.markEvent(event, constants.ClickDeliveryAbandoned, nil)
			return nil
		}
		if deliverErr := s.delivery.Deliver(ctx, event); deliverErr != nil {
			return deliverErr
		}
		now := time.Now()
		s.markEvent(event, constants.ClickDeliveryDelivered, &now)
		return nil
	})
	if err != nil {
		return delivered, remaining, err
	}
	if delivered > 0 || remaining > 0 {
		logger.Infow("click_pending_flushed", "delivered", delivered, "remaining", remaining)
	}
	return delivered, remaining, nil
}

// ListHistory 直近のクリック履歴を返す
func (s *ClickService) ListHistory(ctx context.Context) ([]tracking.HistoryEntry, error) {
	if s.history == nil {
		return []tracking.HistoryEntry{}, nil
	}
	return s.history.List(ctx)
}

// ClearHistory クリック履歴を消去する
func (s *ClickService) ClearHistory(ctx context.Context) error {
	if s.history == nil {
		return nil
	}
	return s.history.Clear(ctx)
}

// ListForAdmin 管理画面向けにクリック記録を検索する
func (s *ClickService) ListForAdmin(filter repository.ClickListFilter) ([]models.AffiliateClick, int64, error) {
	return s.clickRepo.List(filter)
}

// ImpressionTag 指定取引所のインプレッション計測タグ URL を返す
// タグが得られた場合は affiliate_impression イベントも送信する
func (s *ClickService) ImpressionTag(ctx context.Context, slug, page string) (string, bool, error) {
	route, exchange, err := s.resolveRoute(slug)
	if err != nil {
		return "", false, err
	}
	if route == nil {
		return "", false, nil
	}
	tag, ok := tracking.ImpressionTagURL(route.ASP, route.ProgramID, route.MediaID)
	if ok {
		tracking.EmitImpression(ctx, s.sink, exchange.Slug, exchange.Name, "impression_tag", strings.TrimSpace(page), 0)
	}
	return tag, ok, nil
}

// resolveRoute スラッグから有効な経路と取引所を解決する
// 経路が無い場合は公式サイトへの直接遷移にフォールバックする
func (s *ClickService) resolveRoute(slug string) (*models.AffiliateRoute, *models.Exchange, error) {
	slug = strings.ToLower(strings.TrimSpace(slug))
	if slug == "" {
		return nil, nil, ErrInvalidExchange
	}

	exchange, err := s.exchangeRepo.GetBySlug(slug)
	if err != nil {
		return nil, nil, err
	}
	if exchange == nil || exchange.Status != constants.ExchangeStatusActive {
		return nil, nil, ErrNotFound
	}

	route, err := s.routeRepo.GetActiveByExchangeSlug(slug)
	if err != nil {
		return nil, nil, err
	}
	if route == nil && strings.TrimSpace(exchange.WebsiteURL) == "" {
		return nil, nil, ErrRouteInactive
	}
	return route, exchange, nil
}

func (s *ClickService) buildTargetURL(route *models.AffiliateRoute, exchange *models.Exchange, page, position, campaign, content string) (string, string) {
	baseURL := exchange.WebsiteURL
	asp := constants.ASPDirect
	if route != nil {
		baseURL = route.BaseURL
		asp = route.ASP
	}

	opts := &tracking.RouteURLOptions{
		Page:     strings.TrimSpace(page),
		Position: strings.TrimSpace(position),
	}
	utm := tracking.UTMParams{
		Campaign: strings.TrimSpace(campaign),
		Content:  strings.TrimSpace(content),
	}
	if utm.Content == "" {
		utm.Content = exchange.Slug
	}
	opts.UTM = &utm

	return tracking.BuildRouteURL(baseURL, s.utmDefaults, opts), asp
}

func buildClickEvent(click *models.AffiliateClick) tracking.ClickEvent {
	return tracking.ClickEvent{
		ClickID:    click.ID,
		ExchangeID: click.ExchangeSlug,
		ASP:        click.ASP,
		URL:        click.TargetURL,
		Page:       click.Page,
		Position:   click.Position,
		Timestamp:  click.CreatedAt.UTC().Format(time.RFC3339),
		SessionID:  click.SessionKey,
	}
}

func (s *ClickService) markEvent(event tracking.ClickEvent, status string, deliveredAt *time.Time) {
	if event.ClickID == 0 {
		return
	}
	if err := s.clickRepo.UpdateDeliveryStatus(event.ClickID, status, deliveredAt); err != nil {
		logger.Warnw("click_status_update_failed", "click_id", event.ClickID, "error", err)
	}
}
