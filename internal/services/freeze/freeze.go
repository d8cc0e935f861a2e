// Package freeze заявки участников на заморозку абонемента.
package freeze

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/magabrotheeeer/atom-backoffice/internal/lib/month"
	"github.com/magabrotheeeer/atom-backoffice/internal/lib/sl"
	"github.com/magabrotheeeer/atom-backoffice/internal/models"
)

// Repository заявки и уведомления.
type Repository interface {
	CreateFreezeRequest(ctx context.Context, f models.FreezeRequest) (*models.FreezeRequest, error)
	GetFreezeRequest(ctx context.Context, id int64) (*models.FreezeRequest, error)
	HasPendingFreeze(ctx context.Context, memberID string) (bool, error)
	UpdateFreezeStatus(ctx context.Context, id int64, status, processedBy, note string) (*models.FreezeRequest, error)
	ListFreezeRequests(ctx context.Context, memberID, status string) ([]models.FreezeRequest, error)
	InsertNotifications(ctx context.Context, batch []models.NewNotification) (int, error)
}

// Service заявки на заморозку.
type Service struct {
	repo Repository
	loc  *time.Location
	log  *slog.Logger
	now  func() time.Time
}

// NewService создаёт сервис заявок.
func NewService(repo Repository, loc *time.Location, log *slog.Logger) *Service {
	return &Service{repo: repo, loc: loc, log: log, now: time.Now}
}

// Create подаёт заявку. У участника может быть только одна ожидающая заявка.
func (s *Service) Create(ctx context.Context, actor models.Profile, req models.FreezeCreateRequest) (*models.FreezeRequest, error) {
	const op = "freeze.Create"

	if actor.Role != models.RoleMember {
		return nil, models.ErrForbidden
	}
	start, err := month.Parse(strings.TrimSpace(req.RequestedStartDate))
	if err != nil {
		return nil, models.ErrInvalidDate
	}
	if start.Before(month.Today(s.now(), s.loc)) {
		return nil, models.ErrInvalidDate.WithDetails("requested_start_date is in the past")
	}
	reason := strings.TrimSpace(req.Reason)
	if utf8.RuneCountInString(reason) < models.MinFreezeReasonLen {
		return nil, models.ErrReasonTooShort
	}

	pending, err := s.repo.HasPendingFreeze(ctx, actor.UserID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if pending {
		return nil, models.ErrPendingExists
	}

	f, err := s.repo.CreateFreezeRequest(ctx, models.FreezeRequest{
		MemberID:           actor.UserID,
		RequestedStartDate: start,
		Reason:             reason,
		Status:             models.FreezePending,
	})
	if errors.Is(err, models.ErrDuplicate) {
		return nil, models.ErrPendingExists
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("freeze requested", slog.String("op", op), sl.UserID(actor.UserID), slog.Int64("id", f.ID))
	return f, nil
}

var actionStatus = map[string]string{
	models.FreezeActionApprove: models.FreezeApproved,
	models.FreezeActionDeny:    models.FreezeDenied,
	models.FreezeActionCancel:  models.FreezeCancelled,
}

// Process отменяет заявку владельцем или решает её администратором.
func (s *Service) Process(ctx context.Context, actor models.Profile, id int64, req models.FreezeProcessRequest) (*models.FreezeRequest, error) {
	const op = "freeze.Process"
	log := s.log.With(slog.String("op", op), slog.Int64("id", id), slog.String("actor", actor.UserID))

	action := strings.TrimSpace(strings.ToLower(req.Action))
	status, ok := actionStatus[action]
	if !ok {
		return nil, models.ErrInvalidAction
	}

	f, err := s.repo.GetFreezeRequest(ctx, id)
	if errors.Is(err, models.ErrRecordNotFound) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if action == models.FreezeActionCancel {
		if f.MemberID != actor.UserID {
			return nil, models.ErrForbidden
		}
	} else if !actor.Role.IsAdmin() {
		return nil, models.ErrForbidden
	}
	if f.Status != models.FreezePending {
		return nil, models.ErrNotPending
	}

	note := strings.TrimSpace(req.AdminNote)
	if action == models.FreezeActionCancel {
		note = ""
	}
	updated, err := s.repo.UpdateFreezeStatus(ctx, id, status, actor.UserID, note)
	if errors.Is(err, models.ErrRecordNotFound) {
		return nil, models.ErrNotPending
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	log.Info("freeze request processed", slog.String("status", status))

	if action != models.FreezeActionCancel {
		s.notifyMember(ctx, actor, updated)
	}
	return updated, nil
}

func (s *Service) notifyMember(ctx context.Context, actor models.Profile, f *models.FreezeRequest) {
	body := fmt.Sprintf("Your freeze request starting %s was %s.", month.Format(f.RequestedStartDate), f.Status)
	if f.AdminNote != nil && *f.AdminNote != "" {
		body += " Note: " + *f.AdminNote
	}
	sender := actor.UserID
	if _, err := s.repo.InsertNotifications(ctx, []models.NewNotification{{
		UserID:   f.MemberID,
		Kind:     models.KindBilling,
		Title:    "Freeze request " + f.Status,
		Body:     body,
		SenderID: &sender,
	}}); err != nil {
		s.log.Warn("freeze notification failed", sl.UserID(f.MemberID), sl.Err(err))
	}
}

// List администраторы видят все заявки, остальные только свои.
func (s *Service) List(ctx context.Context, actor models.Profile, status string) ([]models.FreezeRequest, error) {
	const op = "freeze.List"
	status = strings.TrimSpace(strings.ToLower(status))
	if status == "all" {
		status = ""
	}
	memberID := actor.UserID
	if actor.Role.IsAdmin() {
		memberID = ""
	}
	items, err := s.repo.ListFreezeRequests(ctx, memberID, status)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return items, nil
}
