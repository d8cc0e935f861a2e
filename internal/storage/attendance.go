package storage

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/atom-backoffice/internal/models"
)

// CreateAttendance добавляет строку посещения.
func (s *Storage) CreateAttendance(ctx context.Context, a models.Attendance) (int64, error) {
	const op = "storage.CreateAttendance"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var id int64
	err := s.DB.QueryRowContext(ctx, `INSERT INTO attendance
		(member_id, date, valid, subscription_id, from_sessions, source, scanned_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`,
		a.MemberID, a.Date, a.Valid, a.SubscriptionID, a.FromSessions, a.Source, nullString(a.ScannedBy)).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, mapError(err))
	}
	return id, nil
}
