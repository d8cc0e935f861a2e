package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/magabrotheeeer/atom-backoffice/internal/models"
)

// ListExpenseCategories справочник категорий расходов.
func (s *Storage) ListExpenseCategories(ctx context.Context) ([]models.ExpenseCategory, error) {
	const op = "storage.ListExpenseCategories"
	rows, err := s.DB.QueryContext(ctx, `SELECT key, label FROM expense_categories ORDER BY label`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	out := []models.ExpenseCategory{}
	for rows.Next() {
		var c models.ExpenseCategory
		if err := rows.Scan(&c.Key, &c.Label); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return out, nil
}

// CreateExpenseCategory добавляет категорию; существующий ключ даёт models.ErrDuplicate.
func (s *Storage) CreateExpenseCategory(ctx context.Context, c models.ExpenseCategory) error {
	const op = "storage.CreateExpenseCategory"
	if _, err := s.DB.ExecContext(ctx, `INSERT INTO expense_categories (key, label) VALUES ($1, $2)`,
		c.Key, c.Label); err != nil {
		return fmt.Errorf("%s: %w", op, mapError(err))
	}
	return nil
}

// ExpenseCategoryExists проверяет ключ категории.
func (s *Storage) ExpenseCategoryExists(ctx context.Context, key string) (bool, error) {
	const op = "storage.ExpenseCategoryExists"
	var exists bool
	if err := s.DB.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM expense_categories WHERE key = $1)`,
		key).Scan(&exists); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return exists, nil
}

// ListExpenses расходы за период включительно, свежие первыми.
func (s *Storage) ListExpenses(ctx context.Context, from, to time.Time) ([]models.Expense, error) {
	const op = "storage.ListExpenses"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	rows, err := s.DB.QueryContext(ctx, `SELECT id, date, category_key, description, amount_cents, created_by, created_at
		FROM expenses WHERE date BETWEEN $1 AND $2 ORDER BY date DESC, id DESC`, from, to)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	out := []models.Expense{}
	for rows.Next() {
		var e models.Expense
		var by sql.NullString
		if err := rows.Scan(&e.ID, &e.Date, &e.CategoryKey, &e.Description, &e.AmountCents, &by, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		e.Date = dateOnly(e.Date)
		e.CreatedBy = by.String
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return out, nil
}

// CreateExpense вставляет расход.
func (s *Storage) CreateExpense(ctx context.Context, e models.Expense) (*models.Expense, error) {
	const op = "storage.CreateExpense"
	err := s.DB.QueryRowContext(ctx, `INSERT INTO expenses (date, category_key, description, amount_cents, created_by)
		VALUES ($1, $2, $3, $4, $5) RETURNING id, created_at`,
		e.Date, e.CategoryKey, e.Description, e.AmountCents, nullString(e.CreatedBy)).Scan(&e.ID, &e.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}
	return &e, nil
}

// DeleteExpense удаляет расход.
func (s *Storage) DeleteExpense(ctx context.Context, id int64) error {
	const op = "storage.DeleteExpense"
	return s.execOne(ctx, op, `DELETE FROM expenses WHERE id = $1`, id)
}
