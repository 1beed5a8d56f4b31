package repository

import (
	"context"
	"errors"
	"go-gin-ticket-scanner/internal/model"
	apperrors "go-gin-ticket-scanner/pkg/app_errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type CheckInRepository interface {
	// 寫入掃描紀錄；同一 event_id 重送時不重複寫入
	Create(ctx context.Context, checkIn *model.CheckIn) (*model.CheckIn, error)
	List(ctx context.Context, limit int) ([]*model.CheckIn, error)
	FindByEventID(ctx context.Context, eventID uuid.UUID) (*model.CheckIn, error)
}

type CheckInRepositoryImpl struct {
	pool *pgxpool.Pool
}

func NewCheckInRepository(pool *pgxpool.Pool) CheckInRepository {
	return &CheckInRepositoryImpl{
		pool: pool,
	}
}

func (r *CheckInRepositoryImpl) Create(ctx context.Context, checkIn *model.CheckIn) (*model.CheckIn, error) {
	query := `
		INSERT INTO check_ins (
		event_id, device_id, ticket_id, guest_name, is_valid, raw_payload, scanned_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (event_id) DO NOTHING
		RETURNING id, created_at
	`

	err := r.pool.QueryRow(ctx, query,
		checkIn.EventID, checkIn.DeviceID, checkIn.TicketID, checkIn.GuestName,
		checkIn.IsValid, checkIn.RawPayload, checkIn.ScannedAt,
	).Scan(&checkIn.ID, &checkIn.CreatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		// 已經寫入過（訊息重送）
		return r.FindByEventID(ctx, checkIn.EventID)
	}
	if err != nil {
		return nil, err
	}

	return checkIn, nil
}

func (r *CheckInRepositoryImpl) List(ctx context.Context, limit int) ([]*model.CheckIn, error) {
	if limit <= 0 {
		return nil, apperrors.ErrInvalidInput
	}

	query := `
		SELECT id, event_id, device_id, ticket_id, guest_name,
				is_valid, raw_payload, scanned_at, created_at
		FROM check_ins
		ORDER BY scanned_at DESC, id DESC
		LIMIT $1
	`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	checkIns := make([]*model.CheckIn, 0)

	for rows.Next() {
		var c model.CheckIn
		err := rows.Scan(
			&c.ID,
			&c.EventID,
			&c.DeviceID,
			&c.TicketID,
			&c.GuestName,
			&c.IsValid,
			&c.RawPayload,
			&c.ScannedAt,
			&c.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		checkIns = append(checkIns, &c)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return checkIns, nil
}

func (r *CheckInRepositoryImpl) FindByEventID(ctx context.Context, eventID uuid.UUID) (*model.CheckIn, error) {
	query := `
		SELECT id, event_id, device_id, ticket_id, guest_name,
				is_valid, raw_payload, scanned_at, created_at
		FROM check_ins
		WHERE event_id = $1
	`

	var c model.CheckIn
	err := r.pool.QueryRow(ctx, query, eventID).Scan(
		&c.ID,
		&c.EventID,
		&c.DeviceID,
		&c.TicketID,
		&c.GuestName,
		&c.IsValid,
		&c.RawPayload,
		&c.ScannedAt,
		&c.CreatedAt,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrCheckInNotFound
		}
		return nil, err
	}

	return &c, nil
}
