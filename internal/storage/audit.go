package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/magabrotheeeer/atom-backoffice/internal/models"
)

// CreateAuditLog пишет запись журнала.
func (s *Storage) CreateAuditLog(ctx context.Context, l models.NewAuditLog) error {
	const op = "storage.CreateAuditLog"
	details := l.Details
	if details == nil {
		details = map[string]any{}
	}
	raw, err := json.Marshal(details)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if _, err := s.DB.ExecContext(ctx, `INSERT INTO audit_logs (actor_user_id, target_user_id, action, action_details)
		VALUES ($1, $2, $3, $4)`, l.ActorUserID, nullString(l.TargetUserID), l.Action, string(raw)); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ListAuditLogs последние записи журнала.
func (s *Storage) ListAuditLogs(ctx context.Context, limit int) ([]models.AuditLog, error) {
	const op = "storage.ListAuditLogs"
	rows, err := s.DB.QueryContext(ctx, `SELECT id, actor_user_id, target_user_id, action, action_details, created_at
		FROM audit_logs ORDER BY created_at DESC, id DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	out := []models.AuditLog{}
	for rows.Next() {
		var l models.AuditLog
		var target sql.NullString
		var details []byte
		if err := rows.Scan(&l.ID, &l.ActorUserID, &target, &l.Action, &details, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if target.Valid {
			v := target.String
			l.TargetUserID = &v
		}
		l.Details = json.RawMessage(details)
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return out, nil
}
