package worker_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go-gin-ticket-scanner/internal/model"
	"go-gin-ticket-scanner/internal/queue"
	"go-gin-ticket-scanner/internal/worker"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRecorder struct {
	mu       sync.Mutex
	failures int
	always   bool
	calls    int
	recorded chan *model.ScanEvent
}

func (f *fakeRecorder) RecordCheckIn(ctx context.Context, event *model.ScanEvent) error {
	f.mu.Lock()
	f.calls++
	fail := f.always || f.failures > 0
	if fail && !f.always {
		f.failures--
	}
	f.mu.Unlock()

	if fail {
		return errors.New("database unavailable")
	}
	f.recorded <- event
	return nil
}

func TestCheckInWorker(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		q := queue.NewMemoryScanEventQueue(10)
		rec := &fakeRecorder{recorded: make(chan *model.ScanEvent, 1)}
		w := worker.NewCheckInWorker(rec, q)
		require.NoError(t, w.Start(ctx))

		event := &model.ScanEvent{EventID: uuid.New(), TicketID: "A1", IsValid: true}
		require.NoError(t, q.PublishScan(ctx, event))

		select {
		case got := <-rec.recorded:
			assert.Equal(t, event.EventID, got.EventID)
		case <-time.After(time.Second):
			t.Fatal("worker did not record check-in in time")
		}
	})

	t.Run("RetryAfterFailure", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		q := queue.NewMemoryScanEventQueueWithRetry(10, queue.RetryPolicy{Backoff: 20 * time.Millisecond, MaxRetries: 3})
		rec := &fakeRecorder{failures: 1, recorded: make(chan *model.ScanEvent, 1)}
		w := worker.NewCheckInWorker(rec, q)
		require.NoError(t, w.Start(ctx))

		require.NoError(t, q.PublishScan(ctx, &model.ScanEvent{EventID: uuid.New(), TicketID: "A1"}))

		select {
		case <-rec.recorded:
		case <-time.After(time.Second):
			t.Fatal("worker did not retry")
		}
		rec.mu.Lock()
		assert.Equal(t, 2, rec.calls)
		rec.mu.Unlock()
	})

	t.Run("PersistentFailure - BoundedRetries", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		q := queue.NewMemoryScanEventQueueWithRetry(10, queue.RetryPolicy{Backoff: 20 * time.Millisecond, MaxRetries: 3})
		rec := &fakeRecorder{always: true, recorded: make(chan *model.ScanEvent, 1)}
		w := worker.NewCheckInWorker(rec, q)
		require.NoError(t, w.Start(ctx))

		require.NoError(t, q.PublishScan(ctx, &model.ScanEvent{EventID: uuid.New(), TicketID: "A1"}))

		calls := func() int {
			rec.mu.Lock()
			defer rec.mu.Unlock()
			return rec.calls
		}
		// 第一次 + 3 次重試後放棄
		assert.Eventually(t, func() bool { return calls() == 4 }, time.Second, 5*time.Millisecond)
		time.Sleep(150 * time.Millisecond)
		assert.Equal(t, 4, calls())
	})

	t.Run("StopsOnCancel", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		w := worker.NewCheckInWorker(&fakeRecorder{recorded: make(chan *model.ScanEvent, 1)}, queue.NewMemoryScanEventQueue(1))
		require.NoError(t, w.Start(ctx))
		cancel()

		stopped := make(chan struct{})
		go func() {
			w.Wait()
			close(stopped)
		}()
		select {
		case <-stopped:
		case <-time.After(time.Second):
			t.Fatal("worker did not stop")
		}
	})
}
