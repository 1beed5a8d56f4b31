package dataset

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"go-gin-ticket-scanner/internal/model"
	apperrors "go-gin-ticket-scanner/pkg/app_errors"
	"go-gin-ticket-scanner/pkg/logger"

	"go.uber.org/zap"
)

//go:embed ticket_db.json
var bundled []byte

// RecordSource 可以列出票券紀錄的來源（例如 Postgres 的 tickets 表）
type RecordSource interface {
	ListRecords(ctx context.Context) ([]model.TicketRecord, error)
}

// rawRecord 使用指標以區分欄位缺漏與空字串
type rawRecord struct {
	TicketID *string `json:"ticketId"`
	Name     *string `json:"name"`
}

// Default 回傳隨程式打包的資料集
func Default() (*Dataset, error) {
	return LoadJSON(bytes.NewReader(bundled))
}

// LoadFile 從 JSON 檔載入資料集
func LoadFile(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset %s: %w", path, err)
	}
	defer f.Close()

	return LoadJSON(f)
}

// LoadJSON 解析 {"<id>": {"ticketId": "...", "name": "..."}} 格式。
// 每筆都必須同時有 ticketId 與 name，鍵不可為空。
func LoadJSON(r io.Reader) (*Dataset, error) {
	var raw map[string]rawRecord
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrInvalidDataset, err)
	}

	records := make(map[string]model.TicketRecord, len(raw))
	for key, rec := range raw {
		if key == "" {
			return nil, fmt.Errorf("%w: empty ticket key", apperrors.ErrInvalidDataset)
		}
		if rec.TicketID == nil || rec.Name == nil {
			return nil, fmt.Errorf("%w: entry %q must have ticketId and name", apperrors.ErrInvalidDataset, key)
		}
		records[key] = model.TicketRecord{TicketID: *rec.TicketID, Name: *rec.Name}
	}

	return build(records), nil
}

// LoadFromRepository 從資料庫讀取資料集，重複的 ticket_id 視為資料錯誤
func LoadFromRepository(ctx context.Context, source RecordSource) (*Dataset, error) {
	list, err := source.ListRecords(ctx)
	if err != nil {
		return nil, fmt.Errorf("list ticket records: %w", err)
	}

	records := make(map[string]model.TicketRecord, len(list))
	for _, rec := range list {
		if rec.TicketID == "" {
			return nil, fmt.Errorf("%w: empty ticket id", apperrors.ErrInvalidDataset)
		}
		if _, dup := records[rec.TicketID]; dup {
			return nil, fmt.Errorf("%w: duplicate ticket id %q", apperrors.ErrInvalidDataset, rec.TicketID)
		}
		records[rec.TicketID] = rec
	}

	return build(records), nil
}

func build(records map[string]model.TicketRecord) *Dataset {
	log := logger.WithComponent("dataset")
	for key, rec := range records {
		// 鍵與紀錄不一致的票券永遠不會通過驗證，保留但提出警告
		if key != rec.TicketID {
			log.Warn("ticket key does not match record ticketId",
				zap.String("key", key), zap.String("ticket_id", rec.TicketID))
		}
	}
	ds := &Dataset{records: records}
	log.Info("ticket dataset loaded", zap.Int("tickets", ds.Len()))
	return ds
}
