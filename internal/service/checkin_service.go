package service

import (
	"context"

	"go-gin-ticket-scanner/internal/model"
	"go-gin-ticket-scanner/internal/repository"
	apperrors "go-gin-ticket-scanner/pkg/app_errors"
)

const MaxCheckInListLimit = 500

type CheckInService interface {
	// 由 worker 呼叫，將掃描事件寫入資料庫
	RecordCheckIn(ctx context.Context, event *model.ScanEvent) error
	List(ctx context.Context, limit int) ([]*model.CheckIn, error)
}

type CheckInServiceImpl struct {
	repo repository.CheckInRepository
}

func NewCheckInService(repo repository.CheckInRepository) CheckInService {
	return &CheckInServiceImpl{repo: repo}
}

func (s *CheckInServiceImpl) RecordCheckIn(ctx context.Context, event *model.ScanEvent) error {
	_, err := s.repo.Create(ctx, model.NewCheckIn(event))
	return err
}

// List 回傳最新的掃描紀錄，limit 上限 MaxCheckInListLimit
func (s *CheckInServiceImpl) List(ctx context.Context, limit int) ([]*model.CheckIn, error) {
	if limit <= 0 {
		return nil, apperrors.ErrInvalidInput
	}
	if limit > MaxCheckInListLimit {
		limit = MaxCheckInListLimit
	}
	return s.repo.List(ctx, limit)
}
