package models

import "time"

// Источник посещения.
const (
	SourceKiosk      = "kiosk"
	SourceKioskStaff = "kiosk_staff"
)

// Сообщения киоска.
const (
	ScanMessageStaff   = "OK: STAFF ACCESS"
	ScanMessageValid   = "OK: subscription valid"
	ScanMessageInvalid = "No active subscription for today"
)

// Attendance запись о проходе через киоск. Только добавляется.
type Attendance struct {
	ID             int64     `json:"id"`
	MemberID       string    `json:"member_id"`
	Date           time.Time `json:"date"`
	Valid          bool      `json:"valid"`
	SubscriptionID *int64    `json:"subscription_id"`
	FromSessions   bool      `json:"from_sessions"`
	Source         string    `json:"source"`
	ScannedBy      string    `json:"scanned_by"`
	CreatedAt      time.Time `json:"created_at"`
}

// ScanResult ответ киоска.
type ScanResult struct {
	Valid          bool   `json:"valid"`
	MemberID       string `json:"member_id"`
	SubscriptionID *int64 `json:"subscription_id"`
	Message        string `json:"message"`
}
