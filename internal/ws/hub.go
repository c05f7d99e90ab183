package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/crypto-navi/api/internal/logger"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingInterval   = 54 * time.Second
	maxMessageSize = 512
)

// Hub 価格ティッカーの WebSocket 配信ハブ
// 接続中の全クライアントへ同一スナップショットをブロードキャストする
type Hub struct {
	mu      sync.RWMutex
	clients map[*client]struct{}

	upgrader websocket.Upgrader
	lastMsg  []byte
}

type client struct {
	conn *websocket.Conn
	send chan []byte

	mu     sync.Mutex
	closed bool
}

// trySend 非ブロッキング送信。切断済みか詰まっていれば false
func (c *client) trySend(msg []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.send <- msg:
		return true
	default:
		return false
	}
}

func (c *client) closeSend() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.send)
}

// NewHub ハブを生成する
func NewHub(checkOrigin func(r *http.Request) bool) *Hub {
	if checkOrigin == nil {
		checkOrigin = func(*http.Request) bool { return true }
	}
	return &Hub{
		clients: make(map[*client]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     checkOrigin,
		},
	}
}

// ClientCount 接続中のクライアント数
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Broadcast ペイロードを JSON にして全クライアントへ送信する
// 直近のメッセージは保持し、新規接続へ即時送信する
func (h *Hub) Broadcast(payload interface{}) {
	raw, err := json.Marshal(payload)
	if err != nil {
		logger.Warnw("ws_broadcast_marshal_failed", "error", err)
		return
	}

	h.mu.Lock()
	h.lastMsg = raw
	targets := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		targets = append(targets, c)
	}
	h.mu.Unlock()

	for _, c := range targets {
		if !c.trySend(raw) {
			// 送信が詰まったクライアントは切り離す
			h.remove(c)
		}
	}
}

// ServeHTTP HTTP 接続を WebSocket へアップグレードする
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Warnw("ws_upgrade_failed", "error", err)
		return
	}

	c := &client{conn: conn, send: make(chan []byte, 8)}

	h.mu.Lock()
	h.clients[c] = struct{}{}
	last := h.lastMsg
	h.mu.Unlock()

	if last != nil {
		c.trySend(last)
	}

	go h.writeLoop(c)
	go h.readLoop(c)
}

// Close 全クライアントを切断する
func (h *Hub) Close(ctx context.Context) {
	h.mu.Lock()
	targets := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		targets = append(targets, c)
	}
	h.clients = make(map[*client]struct{})
	h.mu.Unlock()

	for _, c := range targets {
		c.closeSend()
	}
	_ = ctx
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	delete(h.clients, c)
	h.mu.Unlock()
	c.closeSend()
}

// readLoop クライアントからの受信は ping/pong の維持のみに使う
func (h *Hub) readLoop(c *client) {
	defer func() {
		h.remove(c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) writeLoop(c *client) {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
