package models

import "time"

// Статусы заявки на заморозку.
const (
	FreezePending   = "pending"
	FreezeApproved  = "approved"
	FreezeDenied    = "denied"
	FreezeCancelled = "cancelled"
)

// Действия над заявкой.
const (
	FreezeActionApprove = "approve"
	FreezeActionDeny    = "deny"
	FreezeActionCancel  = "cancel"
)

// MinFreezeReasonLen минимальная длина причины.
const MinFreezeReasonLen = 8

// FreezeRequest заявка участника на заморозку абонемента.
type FreezeRequest struct {
	ID                 int64      `json:"id"`
	MemberID           string     `json:"member_id"`
	RequestedStartDate time.Time  `json:"requested_start_date"`
	Reason             string     `json:"reason"`
	Status             string     `json:"status"`
	AdminNote          *string    `json:"admin_note"`
	ProcessedBy        *string    `json:"processed_by"`
	ProcessedAt        *time.Time `json:"processed_at"`
	CreatedAt          time.Time  `json:"created_at"`
}

// FreezeCreateRequest тело заявки.
type FreezeCreateRequest struct {
	RequestedStartDate string `json:"requested_start_date"`
	Reason             string `json:"reason" validate:"max=2000"`
}

// FreezeProcessRequest тело обработки заявки.
type FreezeProcessRequest struct {
	Action    string `json:"action"`
	AdminNote string `json:"admin_note" validate:"max=2000"`
}
