package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/magabrotheeeer/atom-backoffice/internal/models"
)

// KPI считает показатели дашборда на дату today.
func (s *Storage) KPI(ctx context.Context, today time.Time) (*models.KPI, error) {
	const op = "storage.KPI"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var counts struct {
		Active   int `db:"active_members"`
		Dropin   int `db:"dropin_with_credits"`
		Expiring int `db:"expiring_in_7_days"`
		Checkins int `db:"todays_checkins"`
	}
	err := s.X.GetContext(ctx, &counts, `SELECT
		(SELECT COUNT(DISTINCT member_id) FROM subscriptions
			WHERE status = 'active' AND start_date <= $1 AND end_date >= $1
			  AND (subscription_type = 'time' OR sessions_used < sessions_total)) AS active_members,
		(SELECT COUNT(*) FROM subscriptions
			WHERE status = 'active' AND subscription_type = 'sessions'
			  AND start_date <= $1 AND end_date >= $1 AND sessions_used < sessions_total) AS dropin_with_credits,
		(SELECT COUNT(*) FROM subscriptions
			WHERE status = 'active' AND subscription_type = 'time'
			  AND end_date > $1 AND end_date <= $1::date + 7) AS expiring_in_7_days,
		(SELECT COUNT(*) FROM attendance WHERE date = $1 AND valid) AS todays_checkins`, today)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var byType []struct {
		Bucket string `db:"bucket"`
		Count  int    `db:"cnt"`
	}
	err = s.X.SelectContext(ctx, &byType, `SELECT
			CASE
				WHEN plan IN ('1m', 'monthly') THEN 'monthly'
				WHEN plan IN ('3m', 'quarterly') THEN 'quarterly'
				WHEN plan = '6m' THEN 'semiannual'
				WHEN plan IN ('12m', 'yearly') THEN 'yearly'
				ELSE 'dropin'
			END AS bucket,
			COUNT(*) AS cnt
		FROM subscriptions
		WHERE status = 'active' AND start_date <= $1 AND end_date >= $1
		GROUP BY bucket`, today)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	kpi := &models.KPI{
		ActiveMembers:     counts.Active,
		DropinWithCredits: counts.Dropin,
		ExpiringIn7Days:   counts.Expiring,
		TodaysCheckins:    counts.Checkins,
		ActiveByType:      map[string]int{"monthly": 0, "quarterly": 0, "semiannual": 0, "yearly": 0, "dropin": 0},
	}
	for _, b := range byType {
		kpi.ActiveByType[b.Bucket] = b.Count
	}
	return kpi, nil
}

// RevenueRows оплаченные абонементы с paid_at в [from, to] по календарным дням.
func (s *Storage) RevenueRows(ctx context.Context, from, to time.Time) ([]models.RevenueRow, error) {
	const op = "storage.RevenueRows"
	var rows []models.RevenueRow
	err := s.X.SelectContext(ctx, &rows, `SELECT plan, paid_at::date AS paid_on, amount_cents
		FROM subscriptions
		WHERE paid_at IS NOT NULL AND paid_at >= $1 AND paid_at < $2::date + 1
		ORDER BY paid_at`, from, to)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return rows, nil
}

// AttendanceExport посещения за период с данными участника.
func (s *Storage) AttendanceExport(ctx context.Context, from, to time.Time) ([]models.AttendanceExportRow, error) {
	const op = "storage.AttendanceExport"
	var rows []models.AttendanceExportRow
	err := s.X.SelectContext(ctx, &rows, `SELECT a.id, a.member_id, p.email AS member_email,
			p.first_name, p.last_name, a.date, a.valid, a.from_sessions, a.subscription_id
		FROM attendance a JOIN profiles p ON p.user_id = a.member_id
		WHERE a.date BETWEEN $1 AND $2
		ORDER BY a.date, a.id`, from, to)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return rows, nil
}

const subscriptionExportSelect = `SELECT s.id, s.member_id, p.email AS member_email, p.first_name, p.last_name,
		s.plan, s.subscription_type, s.status, s.start_date, s.end_date,
		s.sessions_total, s.sessions_used, s.amount_cents, s.paid_at
	FROM subscriptions s JOIN profiles p ON p.user_id = s.member_id`

// SubscriptionExport абонементы, пересекающиеся с периодом.
func (s *Storage) SubscriptionExport(ctx context.Context, from, to time.Time) ([]models.SubscriptionExportRow, error) {
	const op = "storage.SubscriptionExport"
	var rows []models.SubscriptionExportRow
	err := s.X.SelectContext(ctx, &rows, subscriptionExportSelect+`
		WHERE s.start_date <= $2 AND s.end_date >= $1
		ORDER BY s.start_date, s.id`, from, to)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return rows, nil
}

// ActiveNowExport абонементы, действующие на дату today.
func (s *Storage) ActiveNowExport(ctx context.Context, today time.Time) ([]models.SubscriptionExportRow, error) {
	const op = "storage.ActiveNowExport"
	var rows []models.SubscriptionExportRow
	err := s.X.SelectContext(ctx, &rows, subscriptionExportSelect+`
		WHERE s.status = 'active' AND s.start_date <= $1 AND s.end_date >= $1
		ORDER BY s.end_date, s.id`, today)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return rows, nil
}
