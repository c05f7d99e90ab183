package worker

import (
	"context"
	"errors"
	"time"

	"github.com/crypto-navi/api/internal/config"
	"github.com/crypto-navi/api/internal/logger"
	"github.com/crypto-navi/api/internal/queue"

	"github.com/hibiken/asynq"
)

const (
	defaultFlushInterval  = time.Minute
	defaultTickerInterval = 30 * time.Second
	minTickerInterval     = 5 * time.Second
)

// Service 非同期キューサービス
type Service struct {
	name     string
	server   *asynq.Server
	mux      *asynq.ServeMux
	consumer *Consumer
}

// NewService 非同期キューサービスを生成する
func NewService(cfg *config.QueueConfig, consumer *Consumer) (*Service, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, errors.New("queue disabled")
	}
	if consumer == nil {
		return nil, errors.New("consumer is nil")
	}
	opt, serverCfg := queue.BuildServerConfig(cfg)
	server := asynq.NewServer(opt, serverCfg)
	mux := asynq.NewServeMux()
	consumer.Register(mux)
	return &Service{
		name:     "worker",
		server:   server,
		mux:      mux,
		consumer: consumer,
	}, nil
}

// Name サービス名
func (s *Service) Name() string {
	if s == nil || s.name == "" {
		return "worker"
	}
	return s.name
}

// Start サービスを起動する
func (s *Service) Start(ctx context.Context) error {
	if s == nil || s.server == nil || s.mux == nil {
		return errors.New("worker not initialized")
	}
	if s.consumer != nil && s.consumer.ClickService != nil {
		go s.runFlushLoop(ctx)
	}
	if s.consumer != nil && s.consumer.PriceService != nil && s.consumer.Config != nil && s.consumer.Config.Ticker.Enabled {
		go s.runTickerLoop(ctx)
	}
	return s.server.Run(s.mux)
}

// Stop サービスを停止する
func (s *Service) Stop(ctx context.Context) error {
	if s == nil || s.server == nil {
		return nil
	}
	_ = ctx
	s.server.Shutdown()
	return nil
}

// flushInterval 再送間隔を決める。settings の tracking_config が設定値より優先する
func (s *Service) flushInterval() time.Duration {
	interval := defaultFlushInterval
	if s.consumer.Config != nil && s.consumer.Config.Tracking.FlushIntervalSec > 0 {
		interval = time.Duration(s.consumer.Config.Tracking.FlushIntervalSec) * time.Second
	}
	if s.consumer.SettingService != nil {
		seconds, err := s.consumer.SettingService.GetTrackingFlushIntervalSeconds(int(interval / time.Second))
		if err != nil {
			logger.Warnw("worker_flush_interval_load_failed", "error", err)
		}
		if seconds > 0 {
			interval = time.Duration(seconds) * time.Second
		}
	}
	return interval
}

// runFlushLoop 未配信クリックを定期的に再送する
// 間隔は settings の tracking_config を優先する
func (s *Service) runFlushLoop(ctx context.Context) {
	if s == nil || s.consumer == nil || s.consumer.ClickService == nil {
		return
	}

	interval := s.flushInterval()

	runOnce := func() {
		delivered, remaining, err := s.consumer.ClickService.FlushPending(ctx)
		if err != nil {
			logger.Warnw("worker_flush_pending_failed", "delivered", delivered, "remaining", remaining, "error", err)
		}
	}
	runOnce()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			runOnce()
		}
	}
}

// runTickerLoop ティッカー価格を定期取得して WebSocket へ配信する
func (s *Service) runTickerLoop(ctx context.Context) {
	if s == nil || s.consumer == nil || s.consumer.PriceService == nil {
		return
	}

	interval := defaultTickerInterval
	if s.consumer.Config != nil && s.consumer.Config.Ticker.RefreshIntervalSec > 0 {
		interval = time.Duration(s.consumer.Config.Ticker.RefreshIntervalSec) * time.Second
	}
	if interval < minTickerInterval {
		interval = minTickerInterval
	}

	runOnce := func() {
		coins, err := s.consumer.PriceService.TickerSnapshot(ctx)
		if err != nil {
			logger.Warnw("worker_ticker_refresh_failed", "error", err)
			return
		}
		if s.consumer.PriceHub != nil {
			s.consumer.PriceHub.Broadcast(coins)
		}
	}
	runOnce()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			runOnce()
		}
	}
}
