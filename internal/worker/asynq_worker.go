package worker

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/crypto-navi/api/internal/logger"
	"github.com/crypto-navi/api/internal/provider"
	"github.com/crypto-navi/api/internal/queue"
	"github.com/crypto-navi/api/internal/service"

	"github.com/hibiken/asynq"
)

// Consumer 非同期タスクのコンシューマ
type Consumer struct {
	*provider.Container
}

// NewConsumer コンシューマを生成する
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register ハンドラを登録する
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskTrackingDeliver, c.handleTrackingDeliver)
	mux.HandleFunc(queue.TaskTrackingFlush, c.handleTrackingFlush)
	mux.HandleFunc(queue.TaskPricesRefresh, c.handlePricesRefresh)
}

func (c *Consumer) handleTrackingDeliver(ctx context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_tracking_deliver_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.TrackingDeliverPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_tracking_deliver_unmarshal_failed", "error", err)
		return err
	}
	if payload.ClickID == 0 {
		logger.Debugw("worker_tracking_deliver_skip_invalid_payload", "click_id", payload.ClickID)
		return nil
	}
	if c.ClickService == nil {
		logger.Warnw("worker_tracking_deliver_skip_service_nil", "click_id", payload.ClickID)
		return nil
	}
	if err := c.ClickService.DeliverClick(ctx, payload.ClickID); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			logger.Debugw("worker_tracking_deliver_skip_click_not_found", "click_id", payload.ClickID)
			return nil
		}
		logger.Warnw("worker_tracking_deliver_failed", "click_id", payload.ClickID, "error", err)
		return err
	}
	return nil
}

func (c *Consumer) handleTrackingFlush(ctx context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_tracking_flush_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	if c.ClickService == nil {
		logger.Warnw("worker_tracking_flush_skip_service_nil")
		return nil
	}
	delivered, remaining, err := c.ClickService.FlushPending(ctx)
	if err != nil {
		logger.Warnw("worker_tracking_flush_failed", "delivered", delivered, "remaining", remaining, "error", err)
		return err
	}
	return nil
}

func (c *Consumer) handlePricesRefresh(ctx context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_prices_refresh_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	if c.PriceService == nil {
		logger.Warnw("worker_prices_refresh_skip_service_nil")
		return nil
	}
	coins, err := c.PriceService.TickerSnapshot(ctx)
	if err != nil {
		if errors.Is(err, service.ErrPriceRateLimited) {
			logger.Debugw("worker_prices_refresh_rate_limited")
			return nil
		}
		logger.Warnw("worker_prices_refresh_failed", "error", err)
		return err
	}
	if c.PriceHub != nil {
		c.PriceHub.Broadcast(coins)
	}
	return nil
}
