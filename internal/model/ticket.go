package model

// TicketRecord 票券資料集中的一筆紀錄
type TicketRecord struct {
	TicketID string `json:"ticketId" db:"ticket_id"`
	Name     string `json:"name" db:"name"`
}

// TicketRef 從 QR 內容解析出的票券參照，找不到的欄位為空字串
type TicketRef struct {
	TicketID  string `json:"ticket_id"`
	GuestName string `json:"guest_name"`
}

// IsEmpty 檢查是否沒有解析出任何欄位
func (r TicketRef) IsEmpty() bool {
	return r.TicketID == "" && r.GuestName == ""
}
