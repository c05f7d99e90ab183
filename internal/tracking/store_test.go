package tracking

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/crypto-navi/api/internal/constants"
)

type memoryKV struct {
	data map[string][]byte
}

func newMemoryKV() *memoryKV {
	return &memoryKV{data: make(map[string][]byte)}
}

func (m *memoryKV) GetJSON(_ context.Context, key string, dest interface{}) (bool, error) {
	raw, ok := m.data[key]
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return false, err
	}
	return true, nil
}

func (m *memoryKV) SetJSON(_ context.Context, key string, value interface{}, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.data[key] = raw
	return nil
}

func (m *memoryKV) Del(_ context.Context, key string) error {
	delete(m.data, key)
	return nil
}

func TestClickHistoryStoreKeepsMostRecentEntries(t *testing.T) {
	kv := newMemoryKV()
	store := NewClickHistoryStore(kv, 3)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		err := store.Append(ctx, HistoryEntry{
			ExchangeSlug: fmt.Sprintf("exchange-%d", i),
			ClickedAt:    time.Date(2024, 5, 1, 0, i, 0, 0, time.UTC),
		})
		if err != nil {
			t.Fatalf("append %d failed: %v", i, err)
		}
	}

	entries, err := store.List(ctx)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("entries want 3 got %d", len(entries))
	}
	// 古い 2 件が落ち、最新 3 件が残る
	for i, want := range []string{"exchange-2", "exchange-3", "exchange-4"} {
		if entries[i].ExchangeSlug != want {
			t.Fatalf("entries[%d] want %s got %s", i, want, entries[i].ExchangeSlug)
		}
	}
}

func TestClickHistoryStoreEmptyWhenKeyMissing(t *testing.T) {
	store := NewClickHistoryStore(newMemoryKV(), 0)
	entries, err := store.List(context.Background())
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("entries want 0 got %d", len(entries))
	}
	if store.limit != constants.ClickHistoryLimit {
		t.Fatalf("default limit want %d got %d", constants.ClickHistoryLimit, store.limit)
	}
}

func TestPendingClickStoreCapsQueue(t *testing.T) {
	kv := newMemoryKV()
	store := NewPendingClickStore(kv, 2)
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		err := store.Enqueue(ctx, ClickEvent{ExchangeID: fmt.Sprintf("ex-%d", i)})
		if err != nil {
			t.Fatalf("enqueue %d failed: %v", i, err)
		}
	}

	events, err := store.List(ctx)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("events want 2 got %d", len(events))
	}
	if events[0].ExchangeID != "ex-2" || events[1].ExchangeID != "ex-3" {
		t.Fatalf("queue should keep newest events, got %+v", events)
	}
}

func TestPendingClickStoreFlushKeepsFailures(t *testing.T) {
	kv := newMemoryKV()
	store := NewPendingClickStore(kv, 10)
	ctx := context.Background()

	for _, id := range []string{"ok-1", "ng-1", "ok-2"} {
		if err := store.Enqueue(ctx, ClickEvent{ExchangeID: id}); err != nil {
			t.Fatalf("enqueue failed: %v", err)
		}
	}

	delivered, remaining, err := store.Flush(ctx, func(_ context.Context, event ClickEvent) error {
		if event.ExchangeID == "ng-1" {
			return errors.New("endpoint unavailable")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("flush failed: %v", err)
	}
	if delivered != 2 || remaining != 1 {
		t.Fatalf("flush want delivered=2 remaining=1 got delivered=%d remaining=%d", delivered, remaining)
	}

	events, err := store.List(ctx)
	if err != nil {
		t.Fatalf("list after flush failed: %v", err)
	}
	if len(events) != 1 || events[0].ExchangeID != "ng-1" {
		t.Fatalf("failed event should remain, got %+v", events)
	}
}

func TestPendingClickStoreFlushDeliversConcurrently(t *testing.T) {
	kv := newMemoryKV()
	store := NewPendingClickStore(kv, 10)
	ctx := context.Background()

	const total = 5
	for i := 0; i < total; i++ {
		if err := store.Enqueue(ctx, ClickEvent{ExchangeID: fmt.Sprintf("ev-%d", i)}); err != nil {
			t.Fatalf("enqueue failed: %v", err)
		}
	}

	// 全件が配信関数へ同時に入るまで完了させない。
	// 逐次配信に退行すると最初の 1 件でタイムアウトする。
	var entered sync.WaitGroup
	entered.Add(total)
	release := make(chan struct{})
	go func() {
		entered.Wait()
		close(release)
	}()

	delivered, remaining, err := store.Flush(ctx, func(_ context.Context, _ ClickEvent) error {
		entered.Done()
		select {
		case <-release:
			return nil
		case <-time.After(3 * time.Second):
			return errors.New("delivery was not concurrent")
		}
	})
	if err != nil {
		t.Fatalf("flush failed: %v", err)
	}
	if delivered != total || remaining != 0 {
		t.Fatalf("flush want delivered=%d remaining=0 got delivered=%d remaining=%d", total, delivered, remaining)
	}
}

func TestPendingClickStoreFlushDeletesKeyWhenDrained(t *testing.T) {
	kv := newMemoryKV()
	store := NewPendingClickStore(kv, 10)
	ctx := context.Background()

	if err := store.Enqueue(ctx, ClickEvent{ExchangeID: "ok"}); err != nil {
		t.Fatalf("enqueue failed: %v", err)
	}

	delivered, remaining, err := store.Flush(ctx, func(_ context.Context, _ ClickEvent) error {
		return nil
	})
	if err != nil {
		t.Fatalf("flush failed: %v", err)
	}
	if delivered != 1 || remaining != 0 {
		t.Fatalf("flush want delivered=1 remaining=0 got delivered=%d remaining=%d", delivered, remaining)
	}
	if _, ok := kv.data[constants.PendingClicksKey]; ok {
		t.Fatalf("pending key should be removed after full drain")
	}

	delivered, remaining, err = store.Flush(ctx, func(_ context.Context, _ ClickEvent) error {
		t.Fatalf("deliver should not be called for empty queue")
		return nil
	})
	if err != nil {
		t.Fatalf("flush empty failed: %v", err)
	}
	if delivered != 0 || remaining != 0 {
		t.Fatalf("empty flush want 0/0 got delivered=%d remaining=%d", delivered, remaining)
	}
}
