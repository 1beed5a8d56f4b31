package dataset

import (
	"sort"

	"go-gin-ticket-scanner/internal/model"
)

// Dataset 不可變的票券對照表，建立後只提供讀取，可在多個 goroutine 間共用
type Dataset struct {
	records map[string]model.TicketRecord
}

// New 複製傳入的 map 建立資料集，之後修改原 map 不影響資料集
func New(records map[string]model.TicketRecord) *Dataset {
	copied := make(map[string]model.TicketRecord, len(records))
	for id, r := range records {
		copied[id] = r
	}
	return &Dataset{records: copied}
}

func (d *Dataset) Lookup(ticketID string) (model.TicketRecord, bool) {
	if d == nil {
		return model.TicketRecord{}, false
	}
	r, ok := d.records[ticketID]
	return r, ok
}

func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.records)
}

// IDs 依字典序回傳所有票券鍵
func (d *Dataset) IDs() []string {
	if d == nil {
		return nil
	}
	ids := make([]string, 0, len(d.records))
	for id := range d.records {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
