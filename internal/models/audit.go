package models

import (
	"encoding/json"
	"time"
)

// AuditLog запись журнала действий персонала.
type AuditLog struct {
	ID           int64           `json:"id"`
	ActorUserID  string          `json:"actor_user_id"`
	TargetUserID *string         `json:"target_user_id"`
	Action       string          `json:"action"`
	Details      json.RawMessage `json:"action_details"`
	CreatedAt    time.Time       `json:"created_at"`
}

// NewAuditLog запись до вставки; Details сериализуется в jsonb.
type NewAuditLog struct {
	ActorUserID  string
	TargetUserID string
	Action       string
	Details      map[string]any
}
