package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgtype"

	"github.com/magabrotheeeer/atom-backoffice/internal/models"
)

const promotionColumns = `id, title, description, discount_type, discount_value, applies_to,
	min_months, start_date, end_date, is_active, created_at`

var typeMap = pgtype.NewMap()

func scanPromotion(row rowScanner) (*models.Promotion, error) {
	var p models.Promotion
	var start, end sql.NullTime
	if err := row.Scan(&p.ID, &p.Title, &p.Description, &p.DiscountType, &p.DiscountValue,
		typeMap.SQLScanner(&p.AppliesTo), &p.MinMonths, &start, &end, &p.IsActive, &p.CreatedAt); err != nil {
		return nil, err
	}
	if start.Valid {
		t := dateOnly(start.Time)
		p.StartDate = &t
	}
	if end.Valid {
		t := dateOnly(end.Time)
		p.EndDate = &t
	}
	return &p, nil
}

// ListPromotions акции; onlyActive оставляет включённые и действующие на дату today.
func (s *Storage) ListPromotions(ctx context.Context, onlyActive bool, today time.Time) ([]models.Promotion, error) {
	const op = "storage.ListPromotions"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + promotionColumns + ` FROM promotions`
	var args []any
	if onlyActive {
		query += ` WHERE is_active
			AND (start_date IS NULL OR start_date <= $1) AND (end_date IS NULL OR end_date >= $1)`
		args = append(args, today)
	}
	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	out := []models.Promotion{}
	for rows.Next() {
		p, err := scanPromotion(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		out = append(out, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return out, nil
}

// CreatePromotion вставляет акцию.
func (s *Storage) CreatePromotion(ctx context.Context, p models.Promotion) (*models.Promotion, error) {
	const op = "storage.CreatePromotion"
	row := s.DB.QueryRowContext(ctx, `INSERT INTO promotions
		(title, description, discount_type, discount_value, applies_to, min_months, start_date, end_date, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING `+promotionColumns,
		p.Title, p.Description, p.DiscountType, p.DiscountValue, p.AppliesTo, p.MinMonths,
		p.StartDate, p.EndDate, p.IsActive)
	created, err := scanPromotion(row)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}
	return created, nil
}

// UpdatePromotion заменяет поля акции.
func (s *Storage) UpdatePromotion(ctx context.Context, p models.Promotion) (*models.Promotion, error) {
	const op = "storage.UpdatePromotion"
	row := s.DB.QueryRowContext(ctx, `UPDATE promotions SET
			title = $2, description = $3, discount_type = $4, discount_value = $5, applies_to = $6,
			min_months = $7, start_date = $8, end_date = $9, is_active = $10
		WHERE id = $1 RETURNING `+promotionColumns,
		p.ID, p.Title, p.Description, p.DiscountType, p.DiscountValue, p.AppliesTo, p.MinMonths,
		p.StartDate, p.EndDate, p.IsActive)
	updated, err := scanPromotion(row)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}
	return updated, nil
}

// DeletePromotion удаляет акцию.
func (s *Storage) DeletePromotion(ctx context.Context, id int64) error {
	const op = "storage.DeletePromotion"
	return s.execOne(ctx, op, `DELETE FROM promotions WHERE id = $1`, id)
}
