package models

import (
	"strings"
	"time"
)

// Виды уведомлений.
const (
	KindInfo        = "info"
	KindOrderUpdate = "order_update"
	KindBilling     = "billing"
	KindPromo       = "promo"
)

// NotificationKinds допустимые виды.
var NotificationKinds = []string{KindInfo, KindOrderUpdate, KindBilling, KindPromo}

// NormalizeKind возвращает допустимый вид или info.
func NormalizeKind(s string) string {
	v := strings.TrimSpace(strings.ToLower(s))
	for _, k := range NotificationKinds {
		if k == v {
			return k
		}
	}
	return KindInfo
}

// Аудитории рассылки.
const (
	AudienceAllMembers          = "all_members"
	AudienceAllCoaches          = "all_coaches"
	AudienceAllAssistantCoaches = "all_assistant_coaches"
	AudienceAllStaff            = "all_staff"
	AudienceCustom              = "custom"
)

// Notification сообщение пользователю. Только добавляется, меняется лишь read_at.
type Notification struct {
	ID        int64      `json:"id"`
	UserID    string     `json:"user_id"`
	Kind      string     `json:"kind"`
	Title     string     `json:"title"`
	Body      string     `json:"body"`
	SenderID  *string    `json:"sender_id,omitempty"`
	ReadAt    *time.Time `json:"read_at"`
	CreatedAt time.Time  `json:"created_at"`
}

// NewNotification уведомление до вставки.
type NewNotification struct {
	UserID   string
	Kind     string
	Title    string
	Body     string
	SenderID *string
}

// BroadcastRequest рассылка администратора.
type BroadcastRequest struct {
	Title    string   `json:"title" validate:"max=200"`
	Body     string   `json:"body" validate:"max=5000"`
	Kind     string   `json:"kind"`
	Audience string   `json:"audience"`
	UserIDs  []string `json:"user_ids"`
	Emails   []string `json:"emails"`
}

// NotificationFilter параметры ленты уведомлений. SenderID выбирает отправленные вместо полученных.
type NotificationFilter struct {
	UserID     string
	SenderID   string
	UnreadOnly bool
	Kind       string
	Query      string
	Page       int
	Limit      int
}

// NotificationPage страница ленты.
type NotificationPage struct {
	Page     int            `json:"page"`
	PageSize int            `json:"pageSize"`
	Total    int            `json:"total"`
	Items    []Notification `json:"items"`
}

// ContactRequest обращение участника к администрации.
type ContactRequest struct {
	Subject string `json:"subject" validate:"max=200"`
	Message string `json:"message" validate:"max=5000"`
}
