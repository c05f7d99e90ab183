package tracking

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/crypto-navi/api/internal/config"
)

func TestDeliverPostsClickPayload(t *testing.T) {
	var got ClickEvent
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("expected json content type, got %s", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode payload failed: %v", err)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client := NewDeliveryClient(&config.TrackingConfig{EndpointURL: server.URL, TimeoutMS: 1000})
	event := ClickEvent{
		ExchangeID: "coincheck",
		ASP:        "accesstrade",
		URL:        "https://coincheck.com/ja/",
		Page:       "/exchanges",
		Position:   "comparison_table",
		Timestamp:  "2026-08-28T00:00:00Z",
		SessionID:  "sess-1",
	}
	if err := client.Deliver(context.Background(), event); err != nil {
		t.Fatalf("deliver failed: %v", err)
	}
	if got.ExchangeID != "coincheck" || got.SessionID != "sess-1" {
		t.Fatalf("unexpected payload: %+v", got)
	}
}

func TestDeliverFailsOnServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewDeliveryClient(&config.TrackingConfig{EndpointURL: server.URL, TimeoutMS: 1000})
	if err := client.Deliver(context.Background(), ClickEvent{ExchangeID: "bitflyer"}); err == nil {
		t.Fatalf("expected error on 500")
	}
}

func TestDeliverDisabledWithoutEndpoint(t *testing.T) {
	client := NewDeliveryClient(&config.TrackingConfig{})
	if client.Enabled() {
		t.Fatalf("client must be disabled without endpoint")
	}
	err := client.Deliver(context.Background(), ClickEvent{})
	if !errors.Is(err, ErrDeliveryDisabled) {
		t.Fatalf("expected ErrDeliveryDisabled, got %v", err)
	}
}
