package tracking

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/crypto-navi/api/internal/config"
	"github.com/crypto-navi/api/internal/logger"
)

const defaultDeliveryTimeout = 5 * time.Second

// ErrDeliveryDisabled 計測エンドポイントが未設定の場合のエラー
var ErrDeliveryDisabled = errors.New("tracking delivery is not configured")

// ClickEvent ASP 計測エンドポイントへ配信するクリックデータ
type ClickEvent struct {
	ClickID    uint   `json:"click_id,omitempty"`
	ExchangeID string `json:"exchange_id"`
	ASP        string `json:"asp"`
	URL        string `json:"url"`
	Page       string `json:"page"`
	Position   string `json:"position"`
	Timestamp  string `json:"timestamp"`
	SessionID  string `json:"session_id,omitempty"`
	UserID     string `json:"user_id,omitempty"`
}

// DeliveryClient クリックデータの外部配信クライアント。
// 配信は非同期前提のため、タイムアウトは短く抑える。
type DeliveryClient struct {
	endpoint   string
	httpClient *http.Client
}

// NewDeliveryClient 設定から配信クライアントを生成する
func NewDeliveryClient(cfg *config.TrackingConfig) *DeliveryClient {
	endpoint := ""
	timeout := defaultDeliveryTimeout
	if cfg != nil {
		endpoint = strings.TrimSpace(cfg.EndpointURL)
		if cfg.TimeoutMS > 0 {
			timeout = time.Duration(cfg.TimeoutMS) * time.Millisecond
		}
	}
	return &DeliveryClient{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Enabled 配信先が設定されているか
func (c *DeliveryClient) Enabled() bool {
	return c.endpoint != ""
}

// Deliver クリックデータを配信する。非 2xx はエラーとする。
func (c *DeliveryClient) Deliver(ctx context.Context, event ClickEvent) error {
	if !c.Enabled() {
		return ErrDeliveryDisabled
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.Warnw("tracking_delivery_failed",
			"exchange", event.ExchangeID,
			"error", err,
		)
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		logger.Warnw("tracking_delivery_rejected",
			"exchange", event.ExchangeID,
			"status", resp.StatusCode,
		)
		return fmt.Errorf("tracking endpoint responded with status %d", resp.StatusCode)
	}
	return nil
}
