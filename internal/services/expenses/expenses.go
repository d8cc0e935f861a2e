// Package expenses учёт расходов клуба по категориям.
package expenses

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/magabrotheeeer/atom-backoffice/internal/lib/money"
	"github.com/magabrotheeeer/atom-backoffice/internal/lib/month"
	"github.com/magabrotheeeer/atom-backoffice/internal/models"
)

// DefaultRangeDays период списка расходов по умолчанию.
const DefaultRangeDays = 30

var categoryKey = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]{1,39}$`)

// Repository категории и расходы.
type Repository interface {
	ListExpenseCategories(ctx context.Context) ([]models.ExpenseCategory, error)
	CreateExpenseCategory(ctx context.Context, c models.ExpenseCategory) error
	ExpenseCategoryExists(ctx context.Context, key string) (bool, error)
	ListExpenses(ctx context.Context, from, to time.Time) ([]models.Expense, error)
	CreateExpense(ctx context.Context, e models.Expense) (*models.Expense, error)
	DeleteExpense(ctx context.Context, id int64) error
}

// Service расходы.
type Service struct {
	repo Repository
	loc  *time.Location
	log  *slog.Logger
	now  func() time.Time
}

// NewService создаёт сервис расходов.
func NewService(repo Repository, loc *time.Location, log *slog.Logger) *Service {
	return &Service{repo: repo, loc: loc, log: log, now: time.Now}
}

// Categories список категорий.
func (s *Service) Categories(ctx context.Context) ([]models.ExpenseCategory, error) {
	const op = "expenses.Categories"
	items, err := s.repo.ListExpenseCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if items == nil {
		items = []models.ExpenseCategory{}
	}
	return items, nil
}

// CreateCategory добавляет категорию с ключом-слагом.
func (s *Service) CreateCategory(ctx context.Context, in models.CategoryInput) (*models.ExpenseCategory, error) {
	const op = "expenses.CreateCategory"
	key := strings.TrimSpace(strings.ToLower(in.Key))
	if !categoryKey.MatchString(key) {
		return nil, models.ErrInvalidCategoryKey
	}
	label := strings.TrimSpace(in.Label)
	if label == "" {
		return nil, models.ErrMissingName
	}
	c := models.ExpenseCategory{Key: key, Label: label}
	err := s.repo.CreateExpenseCategory(ctx, c)
	if errors.Is(err, models.ErrDuplicate) {
		return nil, models.ErrCategoryExists
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &c, nil
}

// List расходы за период. Пустые границы дают последние DefaultRangeDays дней.
func (s *Service) List(ctx context.Context, fromRaw, toRaw string) ([]models.Expense, error) {
	const op = "expenses.List"
	today := month.Today(s.now(), s.loc)
	from, to := month.AddDays(today, -(DefaultRangeDays - 1)), today

	if v := strings.TrimSpace(fromRaw); v != "" {
		d, err := month.Parse(v)
		if err != nil {
			return nil, models.ErrInvalidRange
		}
		from = d
	}
	if v := strings.TrimSpace(toRaw); v != "" {
		d, err := month.Parse(v)
		if err != nil {
			return nil, models.ErrInvalidRange
		}
		to = d
	}
	if from.After(to) {
		return nil, models.ErrInvalidRange
	}

	items, err := s.repo.ListExpenses(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if items == nil {
		items = []models.Expense{}
	}
	return items, nil
}

// Create записывает расход.
func (s *Service) Create(ctx context.Context, actor models.Profile, in models.ExpenseInput) (*models.Expense, error) {
	const op = "expenses.Create"

	date := month.Today(s.now(), s.loc)
	if v := strings.TrimSpace(in.Date); v != "" {
		d, err := month.Parse(v)
		if err != nil {
			return nil, models.ErrInvalidDate
		}
		date = d
	}
	desc := strings.TrimSpace(in.Description)
	if desc == "" {
		return nil, models.ErrMissingDescription
	}
	amount := money.ParsePriceToCents(in.Amount)
	if amount <= 0 {
		return nil, models.ErrInvalidAmount
	}
	key := strings.TrimSpace(strings.ToLower(in.CategoryKey))
	exists, err := s.repo.ExpenseCategoryExists(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !exists {
		return nil, models.ErrUnknownCategory
	}

	e, err := s.repo.CreateExpense(ctx, models.Expense{
		Date: date, CategoryKey: key, Description: desc, AmountCents: amount, CreatedBy: actor.UserID,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("expense recorded", slog.String("op", op), slog.Int64("id", e.ID), slog.Int64("amount_cents", amount))
	return e, nil
}

// Delete удаляет расход.
func (s *Service) Delete(ctx context.Context, id int64) error {
	const op = "expenses.Delete"
	if id <= 0 {
		return models.ErrMissingID
	}
	err := s.repo.DeleteExpense(ctx, id)
	if errors.Is(err, models.ErrRecordNotFound) {
		return models.ErrExpenseNotFound
	}
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
