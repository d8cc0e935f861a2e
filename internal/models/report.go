package models

import "time"

// KPI показатели для дашборда администратора.
type KPI struct {
	ActiveMembers     int            `json:"active_members"`
	DropinWithCredits int            `json:"dropin_with_credits"`
	ExpiringIn7Days   int            `json:"expiring_in_7_days"`
	TodaysCheckins    int            `json:"todays_checkins"`
	ActiveByType      map[string]int `json:"active_by_type"`
}

// DailyRevenue выручка за день.
type DailyRevenue struct {
	Date        string `json:"date"`
	AmountCents int64  `json:"amount_cents"`
}

// Revenue выручка за период.
type Revenue struct {
	From       string           `json:"from"`
	To         string           `json:"to"`
	TotalCents int64            `json:"total_cents"`
	ByPlan     map[string]int64 `json:"by_plan"`
	Daily      []DailyRevenue   `json:"daily"`
}

// RevenueRow оплата, попавшая в период.
type RevenueRow struct {
	Plan        string    `db:"plan"`
	PaidOn      time.Time `db:"paid_on"`
	AmountCents int64     `db:"amount_cents"`
}

// AttendanceExportRow строка выгрузки посещений.
type AttendanceExportRow struct {
	ID             int64     `db:"id"`
	MemberID       string    `db:"member_id"`
	MemberEmail    string    `db:"member_email"`
	FirstName      string    `db:"first_name"`
	LastName       string    `db:"last_name"`
	Date           time.Time `db:"date"`
	Valid          bool      `db:"valid"`
	FromSessions   bool      `db:"from_sessions"`
	SubscriptionID *int64    `db:"subscription_id"`
}

// SubscriptionExportRow строка выгрузки абонементов.
type SubscriptionExportRow struct {
	ID            int64      `db:"id"`
	MemberID      string     `db:"member_id"`
	MemberEmail   string     `db:"member_email"`
	FirstName     string     `db:"first_name"`
	LastName      string     `db:"last_name"`
	Plan          string     `db:"plan"`
	Type          string     `db:"subscription_type"`
	Status        string     `db:"status"`
	StartDate     time.Time  `db:"start_date"`
	EndDate       time.Time  `db:"end_date"`
	SessionsTotal int        `db:"sessions_total"`
	SessionsUsed  int        `db:"sessions_used"`
	AmountCents   int64      `db:"amount_cents"`
	PaidAt        *time.Time `db:"paid_at"`
}

// CSVFile готовая выгрузка.
type CSVFile struct {
	Filename string
	Content  []byte
}
