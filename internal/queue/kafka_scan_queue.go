package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"go-gin-ticket-scanner/internal/model"
	"go-gin-ticket-scanner/pkg/logger"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// KafkaMessageReader *kafka.Reader 的子集
type KafkaMessageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaMessageWriter *kafka.Writer 的子集
type KafkaMessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaScanEventQueue 以 Kafka topic 傳遞掃描事件，key 為 ticket id 使同一張票的事件落在同一 partition
type KafkaScanEventQueue struct {
	writer KafkaMessageWriter
	reader KafkaMessageReader
	retry  RetryPolicy
}

func NewKafkaScanEventQueue(brokers []string, topic, groupID string) (*KafkaScanEventQueue, error) {
	if len(brokers) == 0 || topic == "" {
		return nil, errors.New("kafka brokers and topic are required")
	}
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
		BatchTimeout:           50 * time.Millisecond,
	}
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers: brokers,
		GroupID: groupID,
		Topic:   topic,
	})
	return NewKafkaScanEventQueueFromClients(writer, reader, DefaultRetryPolicy()), nil
}

func NewKafkaScanEventQueueFromClients(writer KafkaMessageWriter, reader KafkaMessageReader, retry RetryPolicy) *KafkaScanEventQueue {
	return &KafkaScanEventQueue{writer: writer, reader: reader, retry: retry.withDefaults()}
}

func (q *KafkaScanEventQueue) PublishScan(ctx context.Context, event *model.ScanEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal scan event: %w", err)
	}
	err = q.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.TicketID),
		Value: payload,
		Time:  event.ScannedAt,
	})
	if err != nil {
		return fmt.Errorf("kafka write: %w", err)
	}
	return nil
}

// SubscribeScans 逐筆處理：一則消息 Ack 或放棄後才 fetch 下一則，
// 因為 commit 較大的 offset 會連同前面未處理的消息一起提交。
// Nack(requeue) 會在 Backoff 後重送同一則，超過 MaxRetries 次即提交丟棄。
func (q *KafkaScanEventQueue) SubscribeScans(ctx context.Context) (<-chan Delivery, error) {
	out := make(chan Delivery)
	go func() {
		defer close(out)
		log := logger.WithComponent("mq")
		for {
			m, err := q.reader.FetchMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				log.Warn("kafka fetch error", zap.Error(err))
				if !sleepCtx(ctx, q.retry.Backoff) {
					return
				}
				continue
			}

			var event model.ScanEvent
			if err := json.Unmarshal(m.Value, &event); err != nil {
				log.Warn("unmarshal scan event failed",
					zap.String("topic", m.Topic), zap.Int("partition", m.Partition), zap.Int64("offset", m.Offset), zap.Error(err))
				q.commit(ctx, log, m)
				continue
			}

			if !q.deliverUntilSettled(ctx, log, out, m, &event) {
				return
			}
		}
	}()
	return out, nil
}

// deliverUntilSettled 投遞同一則消息直到 Ack、Nack(false) 或重試用盡；ctx 結束時回傳 false
func (q *KafkaScanEventQueue) deliverUntilSettled(ctx context.Context, log *zap.Logger, out chan<- Delivery, m kafka.Message, event *model.ScanEvent) bool {
	for attempt := 0; ; attempt++ {
		requeue := make(chan bool, 1)
		var once sync.Once
		settle := func(r bool) { once.Do(func() { requeue <- r }) }

		d := Delivery{
			Data: event,
			Ack:  func() { settle(false) },
			Nack: func(r bool) { settle(r) },
		}
		select {
		case out <- d:
		case <-ctx.Done():
			return false
		}

		var again bool
		select {
		case again = <-requeue:
		case <-ctx.Done():
			return false
		}

		if !again {
			q.commit(ctx, log, m)
			return true
		}
		if attempt >= q.retry.MaxRetries {
			log.Warn("discard scan event after max retries",
				zap.String("event_id", event.EventID.String()), zap.Int64("offset", m.Offset), zap.Int("retries", attempt))
			q.commit(ctx, log, m)
			return true
		}
		if !sleepCtx(ctx, q.retry.Backoff) {
			return false
		}
	}
}

func (q *KafkaScanEventQueue) commit(ctx context.Context, log *zap.Logger, m kafka.Message) {
	if err := q.reader.CommitMessages(ctx, m); err != nil {
		log.Error("kafka commit failed", zap.Int64("offset", m.Offset), zap.Error(err))
	}
}

func (q *KafkaScanEventQueue) Close() error {
	return errors.Join(q.writer.Close(), q.reader.Close())
}
