// Package scanner 將掃描到的 QR 內容解析為票券參照並與資料集比對。
package scanner

import (
	"strings"

	"go-gin-ticket-scanner/internal/model"
)

const (
	tuplePrefix       = "('"
	tupleSuffix       = ",)"
	quotedTupleSuffix = "',)"

	ticketIDMarker    = "TicketId:"
	ticketIDSeparator = "TicketId: "
	guestNameMarker   = "Guest Name:"
	nameMarker        = "Name:"
	fieldSeparator    = ","
)

// Parse 解析掃描器輸出的原始字串。
// 格式不符時不回傳錯誤，找不到的欄位保持空字串，之後的驗證自然會失敗。
//
// 兩個欄位的判斷彼此獨立：同一段同時含有 TicketId 與 Name 時兩者都會被擷取，
// 後面出現的欄位會覆蓋前面的結果。
func Parse(raw string) model.TicketRef {
	var ref model.TicketRef

	for _, field := range strings.Split(unwrapTuple(raw), fieldSeparator) {
		if strings.Contains(field, ticketIDMarker) {
			ref.TicketID = strings.TrimSpace(segment(field, ticketIDSeparator))
		}
		if strings.Contains(field, guestNameMarker) || strings.Contains(field, nameMarker) {
			ref.GuestName = strings.TrimSpace(segment(field, ":"))
		}
	}

	return ref
}

// unwrapTuple 去掉 Python tuple 字串化後的外框 ('...',)
func unwrapTuple(raw string) string {
	if !strings.HasPrefix(raw, tuplePrefix) || !strings.HasSuffix(raw, tupleSuffix) {
		return raw
	}
	inner := raw[len(tuplePrefix):]
	if strings.HasSuffix(inner, quotedTupleSuffix) {
		return strings.TrimSuffix(inner, quotedTupleSuffix)
	}
	return strings.TrimSuffix(inner, tupleSuffix)
}

// segment 回傳 sep 第一次與第二次出現之間的文字；sep 不存在時回傳空字串
func segment(s, sep string) string {
	parts := strings.SplitN(s, sep, 3)
	if len(parts) < 2 {
		return ""
	}
	return parts[1]
}
