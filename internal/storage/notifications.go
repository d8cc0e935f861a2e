package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/magabrotheeeer/atom-backoffice/internal/models"
)

// InsertNotifications вставляет уведомления одним многострочным INSERT.
func (s *Storage) InsertNotifications(ctx context.Context, batch []models.NewNotification) (int, error) {
	const op = "storage.InsertNotifications"
	if len(batch) == 0 {
		return 0, nil
	}
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	values := make([]string, 0, len(batch))
	args := make([]any, 0, len(batch)*5)
	for i, n := range batch {
		b := i * 5
		values = append(values, fmt.Sprintf("($%d, $%d, $%d, $%d, $%d)", b+1, b+2, b+3, b+4, b+5))
		args = append(args, n.UserID, n.Kind, n.Title, n.Body, n.SenderID)
	}
	res, err := s.DB.ExecContext(ctx, `INSERT INTO notifications (user_id, kind, title, body, sender_id) VALUES `+
		strings.Join(values, ", "), args...)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, mapError(err))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(n), nil
}

// ListNotifications лента пользователя, новые первыми.
func (s *Storage) ListNotifications(ctx context.Context, f models.NotificationFilter) ([]models.Notification, int, error) {
	const op = "storage.ListNotifications"
	select {
	case <-ctx.Done():
		return nil, 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	conds := []string{"user_id = $1"}
	args := []any{f.UserID}
	if f.SenderID != "" {
		conds[0] = "sender_id = $1"
		args[0] = f.SenderID
	}
	if f.UnreadOnly {
		conds = append(conds, "read_at IS NULL")
	}
	if f.Kind != "" {
		args = append(args, f.Kind)
		conds = append(conds, fmt.Sprintf("kind = $%d", len(args)))
	}
	if q := strings.TrimSpace(f.Query); q != "" {
		args = append(args, "%"+q+"%")
		conds = append(conds, fmt.Sprintf("(title ILIKE $%d OR body ILIKE $%d)", len(args), len(args)))
	}
	where := " WHERE " + strings.Join(conds, " AND ")

	var total int
	if err := s.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM notifications`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}

	args = append(args, f.Limit, offset(f.Page, f.Limit))
	rows, err := s.DB.QueryContext(ctx, fmt.Sprintf(`SELECT id, user_id, kind, title, body, sender_id, read_at, created_at
		FROM notifications%s ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d`,
		where, len(args)-1, len(args)), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	items := []models.Notification{}
	for rows.Next() {
		var n models.Notification
		var sender sql.NullString
		var readAt sql.NullTime
		if err := rows.Scan(&n.ID, &n.UserID, &n.Kind, &n.Title, &n.Body, &sender, &readAt, &n.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("%s: %w", op, err)
		}
		if sender.Valid {
			v := sender.String
			n.SenderID = &v
		}
		if readAt.Valid {
			t := readAt.Time
			n.ReadAt = &t
		}
		items = append(items, n)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	return items, total, nil
}

// MarkNotificationsRead отмечает прочитанными только собственные непрочитанные уведомления.
func (s *Storage) MarkNotificationsRead(ctx context.Context, userID string, ids []int64) (int, error) {
	const op = "storage.MarkNotificationsRead"
	res, err := s.DB.ExecContext(ctx, `UPDATE notifications SET read_at = now()
		WHERE user_id = $1 AND id = ANY($2) AND read_at IS NULL`, userID, ids)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(n), nil
}
