package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/magabrotheeeer/atom-backoffice/internal/models"
)

// ReminderCandidates абонементы, по которым нужно напоминание на дату today:
// временные, заканчивающиеся ровно через 7 дней, и пакеты с остатком не больше порога.
func (s *Storage) ReminderCandidates(ctx context.Context, today time.Time) ([]models.ReminderCandidate, error) {
	const op = "storage.ReminderCandidates"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	rows, err := s.DB.QueryContext(ctx, `
		SELECT 'expire_7d', s.id, s.member_id, p.email, p.first_name, s.end_date, 0
		FROM subscriptions s JOIN profiles p ON p.user_id = s.member_id
		WHERE s.status = 'active' AND s.subscription_type = 'time' AND s.end_date = $1::date + 7
		UNION ALL
		SELECT 'sessions_low', s.id, s.member_id, p.email, p.first_name, s.end_date,
			s.sessions_total - s.sessions_used
		FROM subscriptions s JOIN profiles p ON p.user_id = s.member_id
		WHERE s.status = 'active' AND s.subscription_type = 'sessions' AND s.end_date >= $1
		  AND s.sessions_total - s.sessions_used <= $2
		ORDER BY 2`, today, models.SessionsLowThreshold)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	out := []models.ReminderCandidate{}
	for rows.Next() {
		var c models.ReminderCandidate
		if err := rows.Scan(&c.Kind, &c.SubscriptionID, &c.MemberID, &c.Email, &c.FirstName,
			&c.EndDate, &c.SessionsLeft); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		c.EndDate = dateOnly(c.EndDate)
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return out, nil
}

// ClaimOutbox резервирует отправку напоминания. false означает, что оно уже было отправлено.
func (s *Storage) ClaimOutbox(ctx context.Context, c models.ReminderCandidate) (bool, error) {
	const op = "storage.ClaimOutbox"
	var id int64
	err := s.DB.QueryRowContext(ctx, `INSERT INTO notifications_outbox (kind, subscription_id, member_id, email)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (kind, subscription_id) DO NOTHING
		RETURNING id`, c.Kind, c.SubscriptionID, c.MemberID, c.Email).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return true, nil
}

// ReleaseOutbox снимает резерв, если публикация не удалась.
func (s *Storage) ReleaseOutbox(ctx context.Context, kind string, subscriptionID int64) error {
	const op = "storage.ReleaseOutbox"
	if _, err := s.DB.ExecContext(ctx, `DELETE FROM notifications_outbox WHERE kind = $1 AND subscription_id = $2`,
		kind, subscriptionID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// IsOutboxClaimed проверяет, отправлялось ли напоминание (для пробного прогона).
func (s *Storage) IsOutboxClaimed(ctx context.Context, kind string, subscriptionID int64) (bool, error) {
	const op = "storage.IsOutboxClaimed"
	var exists bool
	if err := s.DB.QueryRowContext(ctx, `SELECT EXISTS (
		SELECT 1 FROM notifications_outbox WHERE kind = $1 AND subscription_id = $2)`,
		kind, subscriptionID).Scan(&exists); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return exists, nil
}
