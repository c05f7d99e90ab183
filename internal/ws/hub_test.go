package ws

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func dialTestHub(t *testing.T, server *httptest.Server) *websocket.Conn {
	t.Helper()

	url := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	return conn
}

func waitForClients(t *testing.T, hub *Hub, want int) {
	t.Helper()

	deadline := time.Now().Add(3 * time.Second)
	for hub.ClientCount() != want {
		if time.Now().After(deadline) {
			t.Fatalf("client count want %d got %d", want, hub.ClientCount())
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func readJSONMessage(t *testing.T, conn *websocket.Conn, dest interface{}) {
	t.Helper()

	_ = conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	_, raw, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read message failed: %v", err)
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		t.Fatalf("unmarshal message failed: %v", err)
	}
}

func TestHubBroadcastReachesClientsAndReplaysLast(t *testing.T) {
	hub := NewHub(nil)
	server := httptest.NewServer(hub)
	defer server.Close()
	defer hub.Close(context.Background())

	first := dialTestHub(t, server)
	defer first.Close()
	waitForClients(t, hub, 1)

	hub.Broadcast(map[string]string{"symbol": "btc", "price": "9800000"})

	var payload map[string]string
	readJSONMessage(t, first, &payload)
	if payload["symbol"] != "btc" {
		t.Fatalf("broadcast payload want btc got %+v", payload)
	}

	// 新規接続には直近のスナップショットが即時配信される
	second := dialTestHub(t, server)
	defer second.Close()

	var replay map[string]string
	readJSONMessage(t, second, &replay)
	if replay["price"] != "9800000" {
		t.Fatalf("replay payload want last snapshot got %+v", replay)
	}
}

func TestHubBroadcastDuringDisconnectDoesNotPanic(t *testing.T) {
	hub := NewHub(nil)

	clients := make([]*client, 0, 64)
	for i := 0; i < 64; i++ {
		c := &client{send: make(chan []byte, 1)}
		hub.mu.Lock()
		hub.clients[c] = struct{}{}
		hub.mu.Unlock()
		clients = append(clients, c)
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 2000; i++ {
			hub.Broadcast(map[string]int{"seq": i})
		}
	}()
	go func() {
		defer wg.Done()
		for _, c := range clients {
			hub.remove(c)
		}
	}()
	wg.Wait()

	if got := hub.ClientCount(); got != 0 {
		t.Fatalf("client count want 0 got %d", got)
	}
}
