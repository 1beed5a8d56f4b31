package worker

import (
	"context"
	"go-gin-ticket-scanner/internal/model"
	"go-gin-ticket-scanner/internal/queue"
	"go-gin-ticket-scanner/pkg/logger"

	"go.uber.org/zap"
)

// CheckInRecorder 寫入掃描紀錄
type CheckInRecorder interface {
	RecordCheckIn(ctx context.Context, event *model.ScanEvent) error
}

type CheckInWorker interface {
	// 訂閱掃描事件隊列並寫入紀錄
	Start(ctx context.Context) error
	// 等待處理迴圈結束（ctx 取消後）
	Wait()
}

type CheckInWorkerImpl struct {
	recorder CheckInRecorder
	queue    queue.ScanEventQueue
	done     chan struct{}
}

func NewCheckInWorker(recorder CheckInRecorder, queue queue.ScanEventQueue) CheckInWorker {
	return &CheckInWorkerImpl{
		recorder: recorder,
		queue:    queue,
		done:     make(chan struct{}),
	}
}

func (w *CheckInWorkerImpl) Start(ctx context.Context) error {
	msgs, err := w.queue.SubscribeScans(ctx)
	if err != nil {
		close(w.done)
		return err
	}

	log := logger.WithComponent("worker")

	go func() {
		defer close(w.done)
		for msg := range msgs {
			err := w.recorder.RecordCheckIn(ctx, msg.Data)
			if err != nil {
				// 資料庫暫時無法寫入，交給隊列重試
				log.Warn("record check-in failed, requeue",
					zap.String("event_id", msg.Data.EventID.String()), zap.Error(err))
				msg.Nack(true)
				continue
			}
			msg.Ack()
		}
	}()
	return nil
}

func (w *CheckInWorkerImpl) Wait() {
	<-w.done
}
