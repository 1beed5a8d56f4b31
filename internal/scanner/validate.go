package scanner

import (
	"strings"

	"go-gin-ticket-scanner/internal/model"
)

// RecordLookup 唯讀的票券查詢
type RecordLookup interface {
	Lookup(ticketID string) (model.TicketRecord, bool)
}

// Validate 檢查票券是否存在、紀錄中的 ticketId 與查詢鍵一致，且姓名在忽略大小寫後相同。
// 除大小寫外不做任何正規化，空白差異視為不符。
func Validate(dataset RecordLookup, ticketID, guestName string) bool {
	if dataset == nil {
		return false
	}

	record, ok := dataset.Lookup(ticketID)
	if !ok {
		return false
	}

	return ticketID == record.TicketID &&
		strings.ToLower(guestName) == strings.ToLower(record.Name)
}

// Check 解析後直接驗證，回傳解析結果與是否有效
func Check(dataset RecordLookup, raw string) (model.TicketRef, bool) {
	ref := Parse(raw)
	return ref, Validate(dataset, ref.TicketID, ref.GuestName)
}
