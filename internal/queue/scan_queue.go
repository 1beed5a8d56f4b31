package queue

import (
	"context"
	"go-gin-ticket-scanner/internal/model"
	"go-gin-ticket-scanner/pkg/logger"
	"time"

	"go.uber.org/zap"
)

type Delivery struct {
	Data *model.ScanEvent
	Ack  func()
	Nack func(requeue bool)
}

type ScanEventQueue interface {
	// 發送掃描事件到隊列
	PublishScan(ctx context.Context, event *model.ScanEvent) error
	// 訂閱掃描事件
	SubscribeScans(ctx context.Context) (<-chan Delivery, error)
}

// RetryPolicy Nack(requeue) 後等 Backoff 再重送；同一事件重送超過 MaxRetries 次即丟棄
type RetryPolicy struct {
	Backoff    time.Duration
	MaxRetries int
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{Backoff: time.Second, MaxRetries: 5}
}

func (p RetryPolicy) withDefaults() RetryPolicy {
	def := DefaultRetryPolicy()
	if p.Backoff <= 0 {
		p.Backoff = def.Backoff
	}
	if p.MaxRetries <= 0 {
		p.MaxRetries = def.MaxRetries
	}
	return p
}

// sleepCtx 等待 d；ctx 先結束時回傳 false
func sleepCtx(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-ctx.Done():
		return false
	}
}

type pendingScan struct {
	event    *model.ScanEvent
	attempts int
}

type MemoryScanEventQueue struct {
	// 使用 Go channel 模擬 MQ 隊列
	ch    chan pendingScan
	retry RetryPolicy
}

func NewMemoryScanEventQueue(bufferSize int) ScanEventQueue {
	return NewMemoryScanEventQueueWithRetry(bufferSize, DefaultRetryPolicy())
}

func NewMemoryScanEventQueueWithRetry(bufferSize int, retry RetryPolicy) ScanEventQueue {
	return &MemoryScanEventQueue{
		ch:    make(chan pendingScan, bufferSize),
		retry: retry.withDefaults(),
	}
}

// PublishScan 隊列滿時會等待，直到 ctx 結束
func (q *MemoryScanEventQueue) PublishScan(ctx context.Context, event *model.ScanEvent) error {
	select {
	case q.ch <- pendingScan{event: event}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (q *MemoryScanEventQueue) SubscribeScans(ctx context.Context) (<-chan Delivery, error) {
	out := make(chan Delivery)

	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case p := <-q.ch:
				select {
				case out <- q.newDelivery(ctx, p):
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out, nil
}

func (q *MemoryScanEventQueue) newDelivery(ctx context.Context, p pendingScan) Delivery {
	return Delivery{
		Data: p.event,
		Ack:  func() {},
		Nack: func(requeue bool) {
			if !requeue {
				return
			}
			if p.attempts >= q.retry.MaxRetries {
				logger.WithComponent("mq").Warn("discard scan event after max retries",
					zap.String("event_id", p.event.EventID.String()), zap.Int("retries", p.attempts))
				return
			}
			next := pendingScan{event: p.event, attempts: p.attempts + 1}
			// 延遲後再放回隊列，不阻塞 worker
			go func() {
				if !sleepCtx(ctx, q.retry.Backoff) {
					return
				}
				select {
				case q.ch <- next:
				case <-ctx.Done():
				}
			}()
		},
	}
}
