package model

import (
	"time"

	"github.com/google/uuid"
)

// ScanStatus 掃描結果狀態
type ScanStatus string

const (
	ScanStatusValid   ScanStatus = "valid"
	ScanStatusInvalid ScanStatus = "invalid"
)

// DefaultDeviceID 未提供裝置代號時使用
const DefaultDeviceID = "default"

// ScanRequest 掃描請求
type ScanRequest struct {
	Payload  string `json:"payload" binding:"required"`
	DeviceID string `json:"device_id"`
}

// ScanResult 掃描響應，QRCode 僅在有效票券時提供（base64 PNG）
type ScanResult struct {
	IsValid    bool       `json:"is_valid"`
	Status     ScanStatus `json:"status"`
	TicketID   string     `json:"ticket_id"`
	GuestName  string     `json:"guest_name"`
	EventLabel string     `json:"event_label,omitempty"`
	QRCode     string     `json:"qr_code,omitempty"`
	ScannedAt  time.Time  `json:"scanned_at"`
}

// ScanEvent 每次處理完的掃描都會發送一筆事件
type ScanEvent struct {
	EventID    uuid.UUID `json:"event_id"`
	DeviceID   string    `json:"device_id"`
	TicketID   string    `json:"ticket_id"`
	GuestName  string    `json:"guest_name"`
	IsValid    bool      `json:"is_valid"`
	RawPayload string    `json:"raw_payload"`
	ScannedAt  time.Time `json:"scanned_at"`
}

// CheckIn 已持久化的掃描紀錄
type CheckIn struct {
	ID         int       `json:"id" db:"id"`
	EventID    uuid.UUID `json:"event_id" db:"event_id"`
	DeviceID   string    `json:"device_id" db:"device_id"`
	TicketID   string    `json:"ticket_id" db:"ticket_id"`
	GuestName  string    `json:"guest_name" db:"guest_name"`
	IsValid    bool      `json:"is_valid" db:"is_valid"`
	RawPayload string    `json:"raw_payload" db:"raw_payload"`
	ScannedAt  time.Time `json:"scanned_at" db:"scanned_at"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// NewCheckIn 將掃描事件轉為持久化模型
func NewCheckIn(e *ScanEvent) *CheckIn {
	return &CheckIn{
		EventID:    e.EventID,
		DeviceID:   e.DeviceID,
		TicketID:   e.TicketID,
		GuestName:  e.GuestName,
		IsValid:    e.IsValid,
		RawPayload: e.RawPayload,
		ScannedAt:  e.ScannedAt,
	}
}
