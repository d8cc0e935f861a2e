// Package promotions акции клуба: super_admin ведёт список, остальные видят действующие.
package promotions

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/magabrotheeeer/atom-backoffice/internal/lib/month"
	"github.com/magabrotheeeer/atom-backoffice/internal/models"
)

// Repository хранилище акций.
type Repository interface {
	ListPromotions(ctx context.Context, onlyActive bool, today time.Time) ([]models.Promotion, error)
	CreatePromotion(ctx context.Context, p models.Promotion) (*models.Promotion, error)
	UpdatePromotion(ctx context.Context, p models.Promotion) (*models.Promotion, error)
	DeletePromotion(ctx context.Context, id int64) error
}

// Service акции.
type Service struct {
	repo Repository
	loc  *time.Location
	log  *slog.Logger
	now  func() time.Time
}

// NewService создаёт сервис акций.
func NewService(repo Repository, loc *time.Location, log *slog.Logger) *Service {
	return &Service{repo: repo, loc: loc, log: log, now: time.Now}
}

// List действующие сегодня акции; super_admin с all получает все.
func (s *Service) List(ctx context.Context, actor models.Profile, all bool) ([]models.Promotion, error) {
	const op = "promotions.List"
	onlyActive := !(all && actor.Role == models.RoleSuperAdmin)
	items, err := s.repo.ListPromotions(ctx, onlyActive, month.Today(s.now(), s.loc))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if items == nil {
		items = []models.Promotion{}
	}
	return items, nil
}

// Create добавляет акцию.
func (s *Service) Create(ctx context.Context, in models.PromotionInput) (*models.Promotion, error) {
	const op = "promotions.Create"
	p, err := build(in)
	if err != nil {
		return nil, err
	}
	created, err := s.repo.CreatePromotion(ctx, *p)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("promotion created", slog.String("op", op), slog.Int64("id", created.ID))
	return created, nil
}

// Update полностью заменяет акцию.
func (s *Service) Update(ctx context.Context, id int64, in models.PromotionInput) (*models.Promotion, error) {
	const op = "promotions.Update"
	if id <= 0 {
		return nil, models.ErrMissingID
	}
	p, err := build(in)
	if err != nil {
		return nil, err
	}
	p.ID = id
	updated, err := s.repo.UpdatePromotion(ctx, *p)
	if errors.Is(err, models.ErrRecordNotFound) {
		return nil, models.ErrPromotionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return updated, nil
}

// Delete удаляет акцию.
func (s *Service) Delete(ctx context.Context, id int64) error {
	const op = "promotions.Delete"
	if id <= 0 {
		return models.ErrMissingID
	}
	err := s.repo.DeletePromotion(ctx, id)
	if errors.Is(err, models.ErrRecordNotFound) {
		return models.ErrPromotionNotFound
	}
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func build(in models.PromotionInput) (*models.Promotion, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, models.ErrMissingTitle
	}
	kind := strings.TrimSpace(strings.ToLower(in.DiscountType))
	if kind != models.DiscountPercent && kind != models.DiscountAmount {
		return nil, models.ErrInvalidDiscount
	}
	if in.DiscountValue <= 0 || (kind == models.DiscountPercent && in.DiscountValue > 100) {
		return nil, models.ErrInvalidDiscount
	}

	var targets []string
	for _, t := range in.AppliesTo {
		t = strings.TrimSpace(strings.ToLower(t))
		if !slices.Contains(models.PromotionTargets, t) {
			return nil, models.ErrInvalidAppliesTo.WithDetails(t)
		}
		if !slices.Contains(targets, t) {
			targets = append(targets, t)
		}
	}
	if len(targets) == 0 {
		return nil, models.ErrInvalidAppliesTo
	}
	if in.MinMonths < 0 {
		return nil, models.ErrInvalidInput.WithDetails("min_months")
	}

	start, err := optionalDate(in.StartDate)
	if err != nil {
		return nil, err
	}
	end, err := optionalDate(in.EndDate)
	if err != nil {
		return nil, err
	}
	if start != nil && end != nil && start.After(*end) {
		return nil, models.ErrInvalidDateRange
	}

	active := true
	if in.IsActive != nil {
		active = *in.IsActive
	}
	return &models.Promotion{
		Title:         title,
		Description:   strings.TrimSpace(in.Description),
		DiscountType:  kind,
		DiscountValue: in.DiscountValue,
		AppliesTo:     targets,
		MinMonths:     in.MinMonths,
		StartDate:     start,
		EndDate:       end,
		IsActive:      active,
	}, nil
}

func optionalDate(v string) (*time.Time, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil, nil
	}
	d, err := month.Parse(v)
	if err != nil {
		return nil, models.ErrInvalidDate
	}
	return &d, nil
}
