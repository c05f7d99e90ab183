package worker

import (
	"context"
	"testing"

	"github.com/crypto-navi/api/internal/provider"
	"github.com/crypto-navi/api/internal/queue"

	"github.com/hibiken/asynq"
)

func TestRegisterNilSafe(t *testing.T) {
	var c *Consumer
	c.Register(asynq.NewServeMux())

	NewConsumer(nil).Register(nil)
}

func TestHandleTrackingDeliverInvalidPayload(t *testing.T) {
	c := NewConsumer(&provider.Container{})

	task := asynq.NewTask(queue.TaskTrackingDeliver, []byte("{not-json"))
	if err := c.handleTrackingDeliver(context.Background(), task); err == nil {
		t.Fatal("expected unmarshal error for broken payload")
	}
}

func TestHandleTrackingDeliverSkipsZeroID(t *testing.T) {
	c := NewConsumer(&provider.Container{})

	task, err := queue.NewTrackingDeliverTask(queue.TrackingDeliverPayload{ClickID: 0})
	if err != nil {
		t.Fatalf("build task failed: %v", err)
	}
	if err := c.handleTrackingDeliver(context.Background(), task); err != nil {
		t.Fatalf("expected nil for zero click id, got %v", err)
	}
}

func TestHandleTrackingFlushSkipsWithoutService(t *testing.T) {
	c := NewConsumer(&provider.Container{})

	task, err := queue.NewTrackingFlushTask(queue.TrackingFlushPayload{Reason: "interval"})
	if err != nil {
		t.Fatalf("build task failed: %v", err)
	}
	if err := c.handleTrackingFlush(context.Background(), task); err != nil {
		t.Fatalf("expected nil without click service, got %v", err)
	}
}
