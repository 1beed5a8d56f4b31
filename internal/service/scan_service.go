package service

import (
	"context"
	"fmt"
	"time"

	"go-gin-ticket-scanner/internal/cache"
	"go-gin-ticket-scanner/internal/clock"
	"go-gin-ticket-scanner/internal/model"
	"go-gin-ticket-scanner/internal/qrcode"
	"go-gin-ticket-scanner/internal/scanner"
	apperrors "go-gin-ticket-scanner/pkg/app_errors"
	"go-gin-ticket-scanner/pkg/logger"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

const publishTimeout = 2 * time.Second

var tracer = otel.Tracer("go-gin-ticket-scanner/internal/service")

type ScanService interface {
	// 處理一次掃描：解析 → 驗證 → 產生 QR → 防抖 → 發送事件
	Scan(ctx context.Context, req model.ScanRequest) (*model.ScanResult, error)
	// 依票券代號重新產生 QR PNG
	RenderTicketQR(ctx context.Context, ticketID string) ([]byte, error)
}

// ScanEventPublisher 掃描事件的發送端，可為 nil（不記錄事件）
type ScanEventPublisher interface {
	PublishScan(ctx context.Context, event *model.ScanEvent) error
}

type ScanServiceOptions struct {
	EventLabel string
	Clock      clock.Clock
}

type ScanServiceImpl struct {
	dataset    scanner.RecordLookup
	gate       cache.ScanGate
	renderer   *qrcode.Renderer
	publisher  ScanEventPublisher
	clock      clock.Clock
	eventLabel string
}

func NewScanService(
	dataset scanner.RecordLookup,
	gate cache.ScanGate,
	renderer *qrcode.Renderer,
	publisher ScanEventPublisher,
	opts ScanServiceOptions,
) ScanService {
	if opts.Clock == nil {
		opts.Clock = clock.NewSystem()
	}
	return &ScanServiceImpl{
		dataset:    dataset,
		gate:       gate,
		renderer:   renderer,
		publisher:  publisher,
		clock:      opts.Clock,
		eventLabel: opts.EventLabel,
	}
}

func (s *ScanServiceImpl) Scan(ctx context.Context, req model.ScanRequest) (*model.ScanResult, error) {
	ctx, span := tracer.Start(ctx, "ScanService.Scan")
	defer span.End()

	deviceID := req.DeviceID
	if deviceID == "" {
		deviceID = model.DefaultDeviceID
	}
	log := logger.WithComponent("service").With(zap.String("device_id", deviceID))

	// 1. 解析與驗證；格式錯誤不是錯誤，只會得到無效結果
	ref, valid := scanner.Check(s.dataset, req.Payload)

	var qr string
	if valid {
		var err error
		if qr, err = s.renderer.Base64PNG(ref.TicketID); err != nil {
			return nil, fmt.Errorf("render ticket qr: %w", err)
		}
	}

	// 2. 防抖：結果顯示期間同一裝置不再觸發；產生結果失敗時不佔用視窗
	ok, err := s.gate.Acquire(ctx, deviceID)
	if err != nil {
		return nil, fmt.Errorf("scan gate: %w", err)
	}
	if !ok {
		return nil, apperrors.ErrScanSuppressed
	}

	result := &model.ScanResult{
		IsValid:   valid,
		Status:    model.ScanStatusInvalid,
		TicketID:  ref.TicketID,
		GuestName: ref.GuestName,
		ScannedAt: s.clock.Now(),
	}
	if valid {
		result.Status = model.ScanStatusValid
		result.EventLabel = s.eventLabel
		result.QRCode = qr
	}

	span.SetAttributes(
		attribute.String("ticket.id", ref.TicketID),
		attribute.Bool("ticket.valid", valid),
	)
	log.Info("ticket scanned", zap.String("ticket_id", ref.TicketID), zap.Bool("valid", valid))

	// 3. 發送事件失敗只記錄，不影響掃描結果
	s.publish(ctx, log, &model.ScanEvent{
		EventID:    uuid.New(),
		DeviceID:   deviceID,
		TicketID:   ref.TicketID,
		GuestName:  ref.GuestName,
		IsValid:    valid,
		RawPayload: req.Payload,
		ScannedAt:  result.ScannedAt,
	})

	return result, nil
}

func (s *ScanServiceImpl) publish(ctx context.Context, log *zap.Logger, event *model.ScanEvent) {
	if s.publisher == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()
	if err := s.publisher.PublishScan(ctx, event); err != nil {
		log.Warn("failed to publish scan event", zap.String("event_id", event.EventID.String()), zap.Error(err))
	}
}

func (s *ScanServiceImpl) RenderTicketQR(ctx context.Context, ticketID string) ([]byte, error) {
	_, span := tracer.Start(ctx, "ScanService.RenderTicketQR")
	defer span.End()

	record, ok := s.dataset.Lookup(ticketID)
	if !ok || record.TicketID != ticketID {
		return nil, apperrors.ErrTicketNotFound
	}
	return s.renderer.PNG(ticketID)
}
