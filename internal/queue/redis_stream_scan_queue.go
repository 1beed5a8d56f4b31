package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"go-gin-ticket-scanner/internal/model"
	"go-gin-ticket-scanner/pkg/logger"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// 掃描事件以 JSON 存在 stream entry 的 "scan" 欄位；所有 check-in worker 共用一個 consumer group，
// 同一筆掃描只會被其中一台寫入。
const (
	StreamKey          = "scans:stream"
	ConsumerGroupName  = "checkin-workers"
	ConsumerNamePrefix = "worker"
	messageField       = "scan"
)

// RedisStreamQueueConfig 掃描事件 stream 的重送設定；零值欄位使用預設
type RedisStreamQueueConfig struct {
	ClaimMinIdleTime   time.Duration // 寫入 check-in 失敗後，最快多久重送
	MaxRetryCount      int           // 同一筆掃描的投遞次數上限，超過即放棄
	ReadGroupBlockTime time.Duration
	StreamKey          string
}

func defaultRedisStreamConfig() RedisStreamQueueConfig {
	return RedisStreamQueueConfig{
		ClaimMinIdleTime:   5 * time.Second,
		MaxRetryCount:      5,
		ReadGroupBlockTime: 2 * time.Second,
		StreamKey:          StreamKey,
	}
}

type RedisStreamScanEventQueue struct {
	client       *redis.Client
	groupName    string
	consumerName string
	cfg          RedisStreamQueueConfig
}

// NewRedisStreamScanEventQueue consumerID 為空時自動產生；config 可為 nil
func NewRedisStreamScanEventQueue(ctx context.Context, client *redis.Client, consumerID string, config *RedisStreamQueueConfig) (ScanEventQueue, error) {
	if consumerID == "" {
		consumerID = uuid.New().String()
	}
	cfg := defaultRedisStreamConfig()
	if config != nil {
		if config.ClaimMinIdleTime > 0 {
			cfg.ClaimMinIdleTime = config.ClaimMinIdleTime
		}
		if config.MaxRetryCount > 0 {
			cfg.MaxRetryCount = config.MaxRetryCount
		}
		if config.ReadGroupBlockTime > 0 {
			cfg.ReadGroupBlockTime = config.ReadGroupBlockTime
		}
		if config.StreamKey != "" {
			cfg.StreamKey = config.StreamKey
		}
	}
	q := &RedisStreamScanEventQueue{
		client:       client,
		groupName:    ConsumerGroupName,
		consumerName: fmt.Sprintf("%s:%s", ConsumerNamePrefix, consumerID),
		cfg:          cfg,
	}
	if err := q.ensureConsumerGroup(ctx); err != nil {
		return nil, fmt.Errorf("ensure consumer group: %w", err)
	}
	return q, nil
}

func (q *RedisStreamScanEventQueue) ensureConsumerGroup(ctx context.Context) error {
	err := q.client.XGroupCreateMkStream(ctx, q.cfg.StreamKey, q.groupName, "0").Err()
	if err != nil && !strings.HasPrefix(err.Error(), "BUSYGROUP") {
		return err
	}
	return nil
}

func (q *RedisStreamScanEventQueue) PublishScan(ctx context.Context, event *model.ScanEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal scan event: %w", err)
	}
	_, err = q.client.XAdd(ctx, &redis.XAddArgs{
		Stream: q.cfg.StreamKey,
		ID:     "*",
		Values: map[string]interface{}{messageField: string(payload)},
	}).Result()
	if err != nil {
		return fmt.Errorf("xadd: %w", err)
	}
	return nil
}

// SubscribeScans 同時跑新事件讀取與閒置事件領回，兩者共用 out
func (q *RedisStreamScanEventQueue) SubscribeScans(ctx context.Context) (<-chan Delivery, error) {
	out := make(chan Delivery)
	go func() {
		defer close(out)
		done := make(chan struct{})
		go func() {
			defer close(done)
			q.runAutoClaim(ctx, out)
		}()
		q.runReadLoop(ctx, out)
		<-done
	}()
	return out, nil
}

// runReadLoop 只取新的掃描事件；寫入失敗而留在 PEL 的由 runAutoClaim 負責
func (q *RedisStreamScanEventQueue) runReadLoop(ctx context.Context, out chan<- Delivery) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
			q.readAndDeliver(ctx, out)
		}
	}
}

func (q *RedisStreamScanEventQueue) readAndDeliver(ctx context.Context, out chan<- Delivery) {
	streams, err := q.client.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    q.groupName,
		Consumer: q.consumerName,
		Streams:  []string{q.cfg.StreamKey, ">"},
		Count:    10,
		Block:    q.cfg.ReadGroupBlockTime,
	}).Result()

	if errors.Is(err, redis.Nil) {
		return
	}
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		logger.WithComponent("mq").Error("XReadGroup failed", zap.Error(err))
		select {
		case <-time.After(time.Second):
		case <-ctx.Done():
		}
		return
	}

	for _, stream := range streams {
		if stream.Stream != q.cfg.StreamKey {
			continue
		}
		for _, msg := range stream.Messages {
			if d := q.newDelivery(ctx, msg); d != nil {
				select {
				case out <- *d:
				case <-ctx.Done():
					return
				}
			}
		}
	}
}

// withinRetryBudget 投遞次數已達上限的掃描事件直接 ack 放棄，避免資料庫壞掉時無限重送
func (q *RedisStreamScanEventQueue) withinRetryBudget(ctx context.Context, messageID string) bool {
	n, err := q.deliveryCount(ctx, messageID)
	if err != nil {
		// 查不到次數時寧可多送一次，check-in 寫入以 event_id 去重
		logger.WithComponent("mq").Warn("read delivery count failed", zap.String("message_id", messageID), zap.Error(err))
		return true
	}
	if n >= q.cfg.MaxRetryCount {
		q.discard(ctx, messageID, "max retries reached", zap.Int("deliveries", n))
		return false
	}
	return true
}

func (q *RedisStreamScanEventQueue) deliveryCount(ctx context.Context, messageID string) (int, error) {
	pending, err := q.client.XPendingExt(ctx, &redis.XPendingExtArgs{
		Stream: q.cfg.StreamKey,
		Group:  q.groupName,
		Start:  messageID,
		End:    messageID,
		Count:  1,
	}).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, err
	}
	if len(pending) == 0 {
		return 0, nil
	}
	return int(pending[0].RetryCount), nil
}

// runAutoClaim 每隔 ClaimMinIdleTime 領回閒置的掃描事件重送，間隔即為重試的 backoff
func (q *RedisStreamScanEventQueue) runAutoClaim(ctx context.Context, out chan<- Delivery) {
	ticker := time.NewTicker(q.cfg.ClaimMinIdleTime)
	defer ticker.Stop()
	cursor := "0-0"

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			next, ok := q.claimIdle(ctx, out, cursor)
			if !ok {
				return
			}
			cursor = next
		}
	}
}

// claimIdle 從 cursor 起領回一批閒置事件並投遞；回傳下一輪的 cursor，ctx 結束時 ok=false
func (q *RedisStreamScanEventQueue) claimIdle(ctx context.Context, out chan<- Delivery, cursor string) (string, bool) {
	claimed, nextID, err := q.client.XAutoClaim(ctx, &redis.XAutoClaimArgs{
		Stream:   q.cfg.StreamKey,
		Group:    q.groupName,
		Consumer: q.consumerName,
		MinIdle:  q.cfg.ClaimMinIdleTime,
		Count:    10,
		Start:    cursor,
	}).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		if ctx.Err() != nil {
			return cursor, false
		}
		logger.WithComponent("mq").Error("XAutoClaim failed", zap.Error(err))
		return cursor, true
	}
	// 掃到尾端後從頭開始
	if nextID == "" {
		nextID = "0-0"
	}

	for _, msg := range claimed {
		if !q.withinRetryBudget(ctx, msg.ID) {
			continue
		}
		if d := q.newDelivery(ctx, msg); d != nil {
			select {
			case out <- *d:
			case <-ctx.Done():
				return nextID, false
			}
		}
	}
	return nextID, true
}

// discard ack 掉不再處理的掃描事件
func (q *RedisStreamScanEventQueue) discard(ctx context.Context, messageID, reason string, fields ...zap.Field) {
	fields = append(fields, zap.String("message_id", messageID), zap.String("reason", reason))
	logger.WithComponent("mq").Warn("discard scan event", fields...)
	if err := q.client.XAck(ctx, q.cfg.StreamKey, q.groupName, messageID).Err(); err != nil {
		logger.WithComponent("mq").Error("XAck discard failed", zap.String("message_id", messageID), zap.Error(err))
	}
}

// newDelivery 將 stream entry 還原為 ScanEvent；內容損壞的直接放棄
func (q *RedisStreamScanEventQueue) newDelivery(ctx context.Context, msg redis.XMessage) *Delivery {
	log := logger.WithComponent("mq").With(zap.String("message_id", msg.ID))
	payload, ok := msg.Values[messageField].(string)
	if !ok {
		q.discard(ctx, msg.ID, "missing scan field")
		return nil
	}
	var event model.ScanEvent
	if err := json.Unmarshal([]byte(payload), &event); err != nil {
		q.discard(ctx, msg.ID, "undecodable scan event", zap.Error(err))
		return nil
	}
	msgID := msg.ID
	return &Delivery{
		Data: &event,
		Ack: func() {
			if err := q.client.XAck(ctx, q.cfg.StreamKey, q.groupName, msgID).Err(); err != nil {
				log.Error("XAck failed", zap.Error(err))
			}
		},
		Nack: func(requeue bool) {
			if requeue {
				// 留在 PEL，由 runAutoClaim 稍後重送
				log.Info("check-in deferred, will retry",
					zap.String("event_id", event.EventID.String()), zap.Duration("after", q.cfg.ClaimMinIdleTime))
				return
			}
			q.discard(ctx, msgID, "nack without requeue", zap.String("event_id", event.EventID.String()))
		},
	}
}
