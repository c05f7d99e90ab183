package queue

import (
	"encoding/json"

	"github.com/crypto-navi/api/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskTrackingDeliver クリックデータの個別配信タスク
	TaskTrackingDeliver = constants.TaskTrackingDeliver
	// TaskTrackingFlush 未配信キューの一括再送タスク
	TaskTrackingFlush = constants.TaskTrackingFlush
	// TaskPricesRefresh ティッカー価格の更新タスク
	TaskPricesRefresh = constants.TaskPricesRefresh
)

// TrackingDeliverPayload クリック配信タスクのペイロード
type TrackingDeliverPayload struct {
	ClickID uint `json:"click_id"`
}

// TrackingFlushPayload 一括再送タスクのペイロード
type TrackingFlushPayload struct {
	Reason string `json:"reason"`
}

// PricesRefreshPayload 価格更新タスクのペイロード
type PricesRefreshPayload struct {
	Limit int `json:"limit"`
}

// NewTrackingDeliverTask クリック配信タスクを生成する
func NewTrackingDeliverTask(payload TrackingDeliverPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTrackingDeliver, body), nil
}

// NewTrackingFlushTask 一括再送タスクを生成する
func NewTrackingFlushTask(payload TrackingFlushPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTrackingFlush, body), nil
}

// NewPricesRefreshTask 価格更新タスクを生成する
func NewPricesRefreshTask(payload PricesRefreshPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskPricesRefresh, body), nil
}
