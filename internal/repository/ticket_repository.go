package repository

import (
	"context"
	"go-gin-ticket-scanner/internal/model"

	"github.com/jackc/pgx/v5/pgxpool"
)

type TicketRepository interface {
	// 讀取整個票券資料集（啟動時載入一次）
	ListRecords(ctx context.Context) ([]model.TicketRecord, error)
	// 匯入或更新票券（管理/測試用）
	Upsert(ctx context.Context, records []model.TicketRecord) error
}

type TicketRepositoryImpl struct {
	pool *pgxpool.Pool
}

func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &TicketRepositoryImpl{
		pool: pool,
	}
}

func (r *TicketRepositoryImpl) ListRecords(ctx context.Context) ([]model.TicketRecord, error) {
	query := `
		SELECT ticket_id, name
		FROM tickets
		ORDER BY ticket_id
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]model.TicketRecord, 0)

	for rows.Next() {
		var record model.TicketRecord
		if err := rows.Scan(&record.TicketID, &record.Name); err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return records, nil
}

func (r *TicketRepositoryImpl) Upsert(ctx context.Context, records []model.TicketRecord) error {
	query := `
		INSERT INTO tickets (ticket_id, name)
		VALUES ($1, $2)
		ON CONFLICT (ticket_id) DO UPDATE SET name = EXCLUDED.name
	`

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, record := range records {
		if _, err := tx.Exec(ctx, query, record.TicketID, record.Name); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}
