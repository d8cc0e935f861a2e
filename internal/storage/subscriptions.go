package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/magabrotheeeer/atom-backoffice/internal/models"
)

const subscriptionColumns = `id, member_id, plan, subscription_type, status, start_date, end_date,
	sessions_total, sessions_used, amount_cents, paid_at, created_at`

func scanSubscription(row rowScanner) (*models.Subscription, error) {
	var s models.Subscription
	var paidAt sql.NullTime
	if err := row.Scan(&s.ID, &s.MemberID, &s.Plan, &s.Type, &s.Status, &s.StartDate, &s.EndDate,
		&s.SessionsTotal, &s.SessionsUsed, &s.AmountCents, &paidAt, &s.CreatedAt); err != nil {
		return nil, err
	}
	if paidAt.Valid {
		t := paidAt.Time
		s.PaidAt = &t
	}
	s.StartDate = dateOnly(s.StartDate)
	s.EndDate = dateOnly(s.EndDate)
	return &s, nil
}

// dateOnly приводит DATE из драйвера к полуночи UTC.
func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// CreateSubscription вставляет абонемент и возвращает его с id.
func (s *Storage) CreateSubscription(ctx context.Context, sub models.Subscription) (*models.Subscription, error) {
	const op = "storage.CreateSubscription"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	row := s.DB.QueryRowContext(ctx, `INSERT INTO subscriptions
		(member_id, plan, subscription_type, status, start_date, end_date,
		 sessions_total, sessions_used, amount_cents, paid_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING `+subscriptionColumns,
		sub.MemberID, string(sub.Plan), string(sub.Type), string(sub.Status), sub.StartDate, sub.EndDate,
		sub.SessionsTotal, sub.SessionsUsed, sub.AmountCents, sub.PaidAt)
	created, err := scanSubscription(row)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}
	return created, nil
}

// LatestSubscription последний по дате окончания абонемент участника.
func (s *Storage) LatestSubscription(ctx context.Context, memberID string) (*models.Subscription, error) {
	const op = "storage.LatestSubscription"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	row := s.DB.QueryRowContext(ctx, `SELECT `+subscriptionColumns+` FROM subscriptions
		WHERE member_id = $1 ORDER BY end_date DESC, id DESC LIMIT 1`, memberID)
	sub, err := scanSubscription(row)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}
	return sub, nil
}

// ExtendSubscription переносит дату окончания и активирует абонемент.
func (s *Storage) ExtendSubscription(ctx context.Context, id int64, end time.Time) (*models.Subscription, error) {
	const op = "storage.ExtendSubscription"
	row := s.DB.QueryRowContext(ctx, `UPDATE subscriptions SET end_date = $2, status = 'active'
		WHERE id = $1 RETURNING `+subscriptionColumns, id, end)
	sub, err := scanSubscription(row)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}
	return sub, nil
}

// SetSubscriptionStatus меняет статус абонемента.
func (s *Storage) SetSubscriptionStatus(ctx context.Context, id int64, status models.SubscriptionStatus) (*models.Subscription, error) {
	const op = "storage.SetSubscriptionStatus"
	row := s.DB.QueryRowContext(ctx, `UPDATE subscriptions SET status = $2
		WHERE id = $1 RETURNING `+subscriptionColumns, id, string(status))
	sub, err := scanSubscription(row)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}
	return sub, nil
}

// ListMemberSubscriptions абонементы участника, новые первыми.
func (s *Storage) ListMemberSubscriptions(ctx context.Context, memberID string) ([]models.Subscription, error) {
	const op = "storage.ListMemberSubscriptions"
	return s.querySubscriptions(ctx, op, `SELECT `+subscriptionColumns+` FROM subscriptions
		WHERE member_id = $1 ORDER BY created_at DESC, id DESC`, memberID)
}

// ActiveSubscriptionsOn активные абонементы, действующие в день day; сначала с поздней датой окончания.
func (s *Storage) ActiveSubscriptionsOn(ctx context.Context, memberID string, day time.Time, limit int) ([]models.Subscription, error) {
	const op = "storage.ActiveSubscriptionsOn"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}
	return s.querySubscriptions(ctx, op, `SELECT `+subscriptionColumns+` FROM subscriptions
		WHERE member_id = $1 AND status = 'active' AND start_date <= $2 AND end_date >= $2
		ORDER BY end_date DESC, id DESC LIMIT $3`, memberID, day, limit)
}

// ConsumeSession списывает одно занятие пакета.
// Возвращает false, если пакет уже исчерпан: условие в WHERE сериализует конкурентные списания.
func (s *Storage) ConsumeSession(ctx context.Context, id int64) (bool, error) {
	const op = "storage.ConsumeSession"
	var got int64
	err := s.DB.QueryRowContext(ctx, `UPDATE subscriptions SET sessions_used = sessions_used + 1
		WHERE id = $1 AND sessions_used < sessions_total RETURNING id`, id).Scan(&got)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return true, nil
}

// ExpireSubscriptions переводит активные абонементы с end_date < today в expired.
func (s *Storage) ExpireSubscriptions(ctx context.Context, today time.Time) (int64, error) {
	const op = "storage.ExpireSubscriptions"
	res, err := s.DB.ExecContext(ctx, `UPDATE subscriptions SET status = 'expired'
		WHERE status = 'active' AND end_date < $1`, today)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return n, nil
}

// CreatePayment записывает оплату.
func (s *Storage) CreatePayment(ctx context.Context, p models.Payment) (int64, error) {
	const op = "storage.CreatePayment"
	var id int64
	err := s.DB.QueryRowContext(ctx, `INSERT INTO payments
		(member_id, subscription_id, amount_cents, method, paid_at, recorded_by)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
		p.MemberID, p.SubscriptionID, p.AmountCents, p.Method, p.PaidAt, nullString(p.RecordedBy)).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, mapError(err))
	}
	return id, nil
}

func (s *Storage) querySubscriptions(ctx context.Context, op, query string, args ...any) ([]models.Subscription, error) {
	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var out []models.Subscription
	for rows.Next() {
		sub, err := scanSubscription(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		out = append(out, *sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return out, nil
}
