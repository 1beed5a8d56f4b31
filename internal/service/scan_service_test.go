package service_test

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"image/png"
	"testing"
	"time"

	"go-gin-ticket-scanner/internal/cache"
	"go-gin-ticket-scanner/internal/clock"
	"go-gin-ticket-scanner/internal/dataset"
	"go-gin-ticket-scanner/internal/model"
	"go-gin-ticket-scanner/internal/qrcode"
	"go-gin-ticket-scanner/internal/service"
	apperrors "go-gin-ticket-scanner/pkg/app_errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	events []*model.ScanEvent
	err    error
}

func (p *recordingPublisher) PublishScan(ctx context.Context, event *model.ScanEvent) error {
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, event)
	return nil
}

type brokenGate struct{}

func (brokenGate) Acquire(ctx context.Context, deviceID string) (bool, error) {
	return false, errors.New("redis down")
}

func (brokenGate) Window() time.Duration { return time.Second }

type fixture struct {
	svc       service.ScanService
	clock     *clock.Manual
	publisher *recordingPublisher
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	clk := clock.NewManual(time.Date(2025, 3, 1, 18, 0, 0, 0, time.UTC))
	pub := &recordingPublisher{}
	ds := dataset.New(map[string]model.TicketRecord{
		"A1": {TicketID: "A1", Name: "Jane Doe"},
		"X9": {TicketID: "X9", Name: "bob"},
		"M1": {TicketID: "OTHER", Name: "Mismatch"},
	})
	svc := service.NewScanService(
		ds,
		cache.NewMemoryScanGate(3*time.Second, clk),
		qrcode.NewRenderer(200),
		pub,
		service.ScanServiceOptions{EventLabel: "Farewell 2024-2025", Clock: clk},
	)
	return &fixture{svc: svc, clock: clk, publisher: pub}
}

func TestScanService_Scan(t *testing.T) {
	ctx := context.Background()

	t.Run("Success - Valid", func(t *testing.T) {
		f := newFixture(t)
		result, err := f.svc.Scan(ctx, model.ScanRequest{Payload: "TicketId: X9, Name: Bob,", DeviceID: "door-1"})
		require.NoError(t, err)

		assert.True(t, result.IsValid)
		assert.Equal(t, model.ScanStatusValid, result.Status)
		assert.Equal(t, "X9", result.TicketID)
		assert.Equal(t, "Bob", result.GuestName)
		assert.Equal(t, "Farewell 2024-2025", result.EventLabel)
		assert.Equal(t, f.clock.Now(), result.ScannedAt)

		raw, err := base64.StdEncoding.DecodeString(result.QRCode)
		require.NoError(t, err)
		_, err = png.Decode(bytes.NewReader(raw))
		assert.NoError(t, err)

		require.Len(t, f.publisher.events, 1)
		event := f.publisher.events[0]
		assert.Equal(t, "door-1", event.DeviceID)
		assert.Equal(t, "X9", event.TicketID)
		assert.True(t, event.IsValid)
		assert.Equal(t, "TicketId: X9, Name: Bob,", event.RawPayload)
	})

	t.Run("Success - UnknownTicketIsInvalid", func(t *testing.T) {
		f := newFixture(t)
		result, err := f.svc.Scan(ctx, model.ScanRequest{Payload: "('TicketId: ZZ, Guest Name: Someone,)"})
		require.NoError(t, err)

		assert.False(t, result.IsValid)
		assert.Equal(t, model.ScanStatusInvalid, result.Status)
		assert.Equal(t, "ZZ", result.TicketID)
		assert.Equal(t, "Someone", result.GuestName)
		assert.Empty(t, result.QRCode)
		assert.Empty(t, result.EventLabel)

		require.Len(t, f.publisher.events, 1)
		assert.Equal(t, model.DefaultDeviceID, f.publisher.events[0].DeviceID)
		assert.False(t, f.publisher.events[0].IsValid)
	})

	t.Run("Success - MalformedPayloadIsInvalid", func(t *testing.T) {
		f := newFixture(t)
		result, err := f.svc.Scan(ctx, model.ScanRequest{Payload: "https://example.com/not-a-ticket"})
		require.NoError(t, err)
		assert.False(t, result.IsValid)
		assert.Equal(t, "", result.TicketID)
	})

	t.Run("Success - NameMismatchIsInvalid", func(t *testing.T) {
		f := newFixture(t)
		result, err := f.svc.Scan(ctx, model.ScanRequest{Payload: "TicketId: A1, Name: John Doe"})
		require.NoError(t, err)
		assert.False(t, result.IsValid)
		assert.Equal(t, "A1", result.TicketID)
	})

	t.Run("Failed - Debounced", func(t *testing.T) {
		f := newFixture(t)
		req := model.ScanRequest{Payload: "TicketId: A1, Guest Name: Jane Doe", DeviceID: "door-1"}

		_, err := f.svc.Scan(ctx, req)
		require.NoError(t, err)

		f.clock.Advance(time.Second)
		_, err = f.svc.Scan(ctx, req)
		assert.ErrorIs(t, err, apperrors.ErrScanSuppressed)

		// 另一台裝置不受影響
		_, err = f.svc.Scan(ctx, model.ScanRequest{Payload: req.Payload, DeviceID: "door-2"})
		assert.NoError(t, err)

		f.clock.Advance(2 * time.Second)
		_, err = f.svc.Scan(ctx, req)
		assert.NoError(t, err)
		assert.Len(t, f.publisher.events, 3)
	})

	t.Run("Success - PublishFailureIgnored", func(t *testing.T) {
		f := newFixture(t)
		f.publisher.err = errors.New("queue unavailable")
		result, err := f.svc.Scan(ctx, model.ScanRequest{Payload: "TicketId: A1, Guest Name: JANE DOE"})
		require.NoError(t, err)
		assert.True(t, result.IsValid)
	})

	t.Run("Success - NilPublisher", func(t *testing.T) {
		svc := service.NewScanService(
			dataset.New(map[string]model.TicketRecord{"A1": {TicketID: "A1", Name: "Jane Doe"}}),
			cache.NewMemoryScanGate(0, nil),
			qrcode.NewRenderer(0),
			nil,
			service.ScanServiceOptions{},
		)
		result, err := svc.Scan(ctx, model.ScanRequest{Payload: "TicketId: A1, Name: jane doe"})
		require.NoError(t, err)
		assert.True(t, result.IsValid)
	})

	t.Run("Failed - RenderErrorKeepsDeviceOpen", func(t *testing.T) {
		clk := clock.NewManual(time.Date(2025, 3, 1, 18, 0, 0, 0, time.UTC))
		// 空字串票號可通過驗證，但無法產生 QR
		ds := dataset.New(map[string]model.TicketRecord{
			"":   {TicketID: "", Name: "bob"},
			"X9": {TicketID: "X9", Name: "bob"},
		})
		svc := service.NewScanService(ds, cache.NewMemoryScanGate(3*time.Second, clk), qrcode.NewRenderer(200), nil,
			service.ScanServiceOptions{Clock: clk})

		_, err := svc.Scan(ctx, model.ScanRequest{Payload: "Name: bob", DeviceID: "door-1"})
		require.Error(t, err)
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
		assert.NotErrorIs(t, err, apperrors.ErrScanSuppressed)

		result, err := svc.Scan(ctx, model.ScanRequest{Payload: "TicketId: X9, Name: bob", DeviceID: "door-1"})
		require.NoError(t, err)
		assert.True(t, result.IsValid)
	})

	t.Run("Failed - GateError", func(t *testing.T) {
		svc := service.NewScanService(dataset.New(nil), brokenGate{}, qrcode.NewRenderer(0), nil, service.ScanServiceOptions{})
		_, err := svc.Scan(ctx, model.ScanRequest{Payload: "TicketId: A1"})
		assert.Error(t, err)
		assert.NotErrorIs(t, err, apperrors.ErrScanSuppressed)
	})
}

func TestScanService_RenderTicketQR(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	t.Run("Success", func(t *testing.T) {
		img, err := f.svc.RenderTicketQR(ctx, "A1")
		require.NoError(t, err)
		_, err = png.Decode(bytes.NewReader(img))
		assert.NoError(t, err)
	})

	t.Run("Failed - NotFound", func(t *testing.T) {
		_, err := f.svc.RenderTicketQR(ctx, "ZZ")
		assert.ErrorIs(t, err, apperrors.ErrTicketNotFound)
	})

	t.Run("Failed - KeyMismatch", func(t *testing.T) {
		_, err := f.svc.RenderTicketQR(ctx, "M1")
		assert.ErrorIs(t, err, apperrors.ErrTicketNotFound)
	})
}
