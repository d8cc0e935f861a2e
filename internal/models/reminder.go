package models

import "time"

// Виды напоминаний.
const (
	ReminderExpire7d    = "expire_7d"
	ReminderSessionsLow = "sessions_low"
)

// SessionsLowThreshold остаток занятий, при котором отправляется напоминание.
const SessionsLowThreshold = 2

// ReminderCandidate абонемент, по которому нужно напоминание.
type ReminderCandidate struct {
	Kind           string    `json:"kind"`
	SubscriptionID int64     `json:"subscription_id"`
	MemberID       string    `json:"member_id"`
	Email          string    `json:"email"`
	FirstName      string    `json:"first_name"`
	EndDate        time.Time `json:"end_date"`
	SessionsLeft   int       `json:"sessions_left"`
}

// EmailJob письмо, которое отправитель забирает из очереди.
type EmailJob struct {
	Kind           string `json:"kind"`
	SubscriptionID int64  `json:"subscription_id,omitempty"`
	To             string `json:"to"`
	Subject        string `json:"subject"`
	Body           string `json:"body"`
}

// ReminderRunResult итог прогона напоминаний.
type ReminderRunResult struct {
	Dry        bool                `json:"dry"`
	Candidates int                 `json:"candidates"`
	Queued     int                 `json:"queued"`
	Skipped    int                 `json:"skipped"`
	Items      []ReminderCandidate `json:"items,omitempty"`
}
