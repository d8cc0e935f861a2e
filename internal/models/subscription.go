package models

import "time"

// Plan тарифный план абонемента.
type Plan string

const (
	Plan1M        Plan = "1m"
	Plan3M        Plan = "3m"
	Plan6M        Plan = "6m"
	Plan12M       Plan = "12m"
	PlanSessions  Plan = "sessions"
	PlanMonthly   Plan = "monthly"
	PlanQuarterly Plan = "quarterly"
	PlanYearly    Plan = "yearly"
	PlanDropIn    Plan = "dropin"
)

// IssueMonths длительность планов, которые оформляет стойка.
var IssueMonths = map[Plan]int{Plan1M: 1, Plan3M: 3, Plan6M: 6, Plan12M: 12}

// RenewMonths длительность планов продления.
var RenewMonths = map[Plan]int{PlanMonthly: 1, PlanQuarterly: 3, PlanYearly: 12}

// SubscriptionType вид ограничения абонемента.
type SubscriptionType string

const (
	TypeTime     SubscriptionType = "time"
	TypeSessions SubscriptionType = "sessions"
)

// SubscriptionStatus статус абонемента.
type SubscriptionStatus string

const (
	StatusActive   SubscriptionStatus = "active"
	StatusPaused   SubscriptionStatus = "paused"
	StatusExpired  SubscriptionStatus = "expired"
	StatusCanceled SubscriptionStatus = "canceled"
)

// Параметры пакета занятий.
const (
	SessionPackDays    = 45
	SessionPackMax     = 10
	SessionPackDefault = 10
)

// Subscription абонемент участника: по времени или пакет занятий.
type Subscription struct {
	ID            int64              `json:"id"`
	MemberID      string             `json:"member_id"`
	Plan          Plan               `json:"plan"`
	Type          SubscriptionType   `json:"subscription_type"`
	Status        SubscriptionStatus `json:"status"`
	StartDate     time.Time          `json:"start_date"`
	EndDate       time.Time          `json:"end_date"`
	SessionsTotal int                `json:"sessions_total"`
	SessionsUsed  int                `json:"sessions_used"`
	AmountCents   int64              `json:"amount_cents"`
	PaidAt        *time.Time         `json:"paid_at,omitempty"`
	CreatedAt     time.Time          `json:"created_at"`
}

// SessionsLeft остаток занятий пакета.
func (s Subscription) SessionsLeft() int {
	if left := s.SessionsTotal - s.SessionsUsed; left > 0 {
		return left
	}
	return 0
}

// IsDropIn разовое посещение.
func (s Subscription) IsDropIn() bool {
	return s.Plan == PlanDropIn
}

// CoversDay действует ли абонемент в указанный день.
func (s Subscription) CoversDay(day time.Time) bool {
	return !day.Before(s.StartDate) && !day.After(s.EndDate)
}

// EffectiveStatus статус с учётом даты: активный абонемент с прошедшей датой окончания считается истёкшим.
func (s Subscription) EffectiveStatus(today time.Time) SubscriptionStatus {
	if s.Status == StatusActive && s.EndDate.Before(today) {
		return StatusExpired
	}
	return s.Status
}

// IssueRequest оформление абонемента на стойке.
type IssueRequest struct {
	MemberID      string `json:"memberId"`
	MemberQR      string `json:"member_qr"`
	MemberEmail   string `json:"member_email"`
	Plan          string `json:"plan"`
	StartDate     string `json:"start_date"`
	SessionsTotal int    `json:"sessions_total"`
	Amount        string `json:"amount"`
	PaymentMethod string `json:"payment_method"`
}

// Действия администратора над абонементом участника.
const (
	ActionRenew     = "renew"
	ActionPause     = "pause"
	ActionResume    = "resume"
	ActionAddDropIn = "add_dropin"
)

// ActionRequest действие администратора.
type ActionRequest struct {
	MemberID      string `json:"member_id"`
	Action        string `json:"action"`
	Plan          string `json:"plan"`
	StartDate     string `json:"start_date"`
	Amount        string `json:"amount"`
	PaymentMethod string `json:"payment_method"`
}

// ActionResult итог действия.
type ActionResult struct {
	Action       string        `json:"action"`
	Mode         string        `json:"mode,omitempty"`
	Subscription *Subscription `json:"subscription,omitempty"`
}

// Payment запись об оплате.
type Payment struct {
	ID             int64     `json:"id"`
	MemberID       string    `json:"member_id"`
	SubscriptionID *int64    `json:"subscription_id,omitempty"`
	AmountCents    int64     `json:"amount_cents"`
	Method         string    `json:"method"`
	PaidAt         time.Time `json:"paid_at"`
	RecordedBy     string    `json:"recorded_by"`
}
