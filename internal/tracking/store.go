package tracking

import (
	"context"
	"sync"
	"time"

	"github.com/crypto-navi/api/internal/cache"
	"github.com/crypto-navi/api/internal/constants"
)

// KV ストアが利用する最小限のキャッシュ操作
type KV interface {
	GetJSON(ctx context.Context, key string, dest interface{}) (bool, error)
	SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Del(ctx context.Context, key string) error
}

// CacheKV cache パッケージ経由の KV 実装
type CacheKV struct{}

// GetJSON キャッシュから JSON を取得
func (CacheKV) GetJSON(ctx context.Context, key string, dest interface{}) (bool, error) {
	return cache.GetJSON(ctx, key, dest)
}

// SetJSON キャッシュへ JSON を書き込み
func (CacheKV) SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return cache.SetJSON(ctx, key, value, ttl)
}

// Del キャッシュキーを削除
func (CacheKV) Del(ctx context.Context, key string) error {
	return cache.Del(ctx, key)
}

// HistoryEntry クリック履歴の 1 件
type HistoryEntry struct {
	ExchangeSlug string    `json:"exchange_slug"`
	ASP          string    `json:"asp"`
	Page         string    `json:"page"`
	Position     string    `json:"position"`
	ClickedAt    time.Time `json:"clicked_at"`
}

// ClickHistoryStore 直近クリック履歴の上限付きストア
// 上限超過時は古い方から切り捨てる。
type ClickHistoryStore struct {
	kv    KV
	key   string
	limit int
}

// NewClickHistoryStore クリック履歴ストアを生成
func NewClickHistoryStore(kv KV, limit int) *ClickHistoryStore {
	if limit <= 0 {
		limit = constants.ClickHistoryLimit
	}
	return &ClickHistoryStore{
		kv:    kv,
		key:   constants.ClickHistoryKey,
		limit: limit,
	}
}

// Append 履歴に 1 件追加し、上限までに切り詰める
func (s *ClickHistoryStore) Append(ctx context.Context, entry HistoryEntry) error {
	entries, err := s.List(ctx)
	if err != nil {
		return err
	}
	entries = append(entries, entry)
	if len(entries) > s.limit {
		entries = entries[len(entries)-s.limit:]
	}
	return s.kv.SetJSON(ctx, s.key, entries, 0)
}

// List 保存済み履歴を取得。キーが無ければ空スライス。
func (s *ClickHistoryStore) List(ctx context.Context) ([]HistoryEntry, error) {
	entries := make([]HistoryEntry, 0)
	if _, err := s.kv.GetJSON(ctx, s.key, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// Clear 履歴を全削除
func (s *ClickHistoryStore) Clear(ctx context.Context) error {
	return s.kv.Del(ctx, s.key)
}

// PendingClickStore 未配信クリックの上限付きキュー
type PendingClickStore struct {
	kv    KV
	key   string
	limit int
}

// NewPendingClickStore 未配信キューを生成
func NewPendingClickStore(kv KV, limit int) *PendingClickStore {
	if limit <= 0 {
		limit = constants.PendingClickLimit
	}
	return &PendingClickStore{
		kv:    kv,
		key:   constants.PendingClicksKey,
		limit: limit,
	}
}

// Enqueue イベントを追加し、上限超過分は古い方から捨てる
func (s *PendingClickStore) Enqueue(ctx context.Context, event ClickEvent) error {
	events, err := s.List(ctx)
	if err != nil {
		return err
	}
	events = append(events, event)
	if len(events) > s.limit {
		events = events[len(events)-s.limit:]
	}
	return s.kv.SetJSON(ctx, s.key, events, 0)
}

// List 未配信イベント一覧を取得。キーが無ければ空スライス。
func (s *PendingClickStore) List(ctx context.Context) ([]ClickEvent, error) {
	events := make([]ClickEvent, 0)
	if _, err := s.kv.GetJSON(ctx, s.key, &events); err != nil {
		return nil, err
	}
	return events, nil
}

// Flush 全件の配信を並行で試み、失敗分のみ元の順序で残す。
// 全件配信できたらキー自体を削除する。戻り値は (配信成功数, 残存数)。
func (s *PendingClickStore) Flush(ctx context.Context, deliver func(context.Context, ClickEvent) error) (int, int, error) {
	events, err := s.List(ctx)
	if err != nil {
		return 0, 0, err
	}
	if len(events) == 0 {
		return 0, 0, nil
	}

	results := make([]error, len(events))
	var wg sync.WaitGroup
	for i := range events {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = deliver(ctx, events[i])
		}(i)
	}
	wg.Wait()

	remaining := make([]ClickEvent, 0, len(events))
	delivered := 0
	for i, event := range events {
		if results[i] != nil {
			remaining = append(remaining, event)
			continue
		}
		delivered++
	}

	if len(remaining) == 0 {
		if err := s.kv.Del(ctx, s.key); err != nil {
			return delivered, 0, err
		}
		return delivered, 0, nil
	}
	if err := s.kv.SetJSON(ctx, s.key, remaining, 0); err != nil {
		return delivered, len(remaining), err
	}
	return delivered, len(remaining), nil
}
