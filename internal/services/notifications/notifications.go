// Package notifications рассылки администраторов, лента пользователя и обращения участников.
package notifications

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/magabrotheeeer/atom-backoffice/internal/lib/sl"
	"github.com/magabrotheeeer/atom-backoffice/internal/models"
)

// ChunkSize размер пачки вставки.
const ChunkSize = 500

// Размеры страниц ленты.
const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// Repository уведомления и поиск получателей.
type Repository interface {
	InsertNotifications(ctx context.Context, batch []models.NewNotification) (int, error)
	ListNotifications(ctx context.Context, f models.NotificationFilter) ([]models.Notification, int, error)
	MarkNotificationsRead(ctx context.Context, userID string, ids []int64) (int, error)
	ProfileIDsByRoles(ctx context.Context, roles []models.Role) ([]string, error)
	ProfileIDsByEmails(ctx context.Context, emails []string) ([]string, error)
	ExistingProfileIDs(ctx context.Context, ids []string) ([]string, error)
}

// Metrics счётчик отправленных уведомлений.
type Metrics interface {
	AddNotifications(kind string, n int)
}

// Service уведомления.
type Service struct {
	repo    Repository
	metrics Metrics
	log     *slog.Logger
}

// NewService создаёт сервис уведомлений.
func NewService(repo Repository, metrics Metrics, log *slog.Logger) *Service {
	return &Service{repo: repo, metrics: metrics, log: log}
}

var audienceRoles = map[string][]models.Role{
	models.AudienceAllMembers:          {models.RoleMember},
	models.AudienceAllCoaches:          {models.RoleCoach},
	models.AudienceAllAssistantCoaches: {models.RoleAssistantCoach},
	models.AudienceAllStaff:            {models.RoleCoach, models.RoleAssistantCoach},
}

// Send рассылает уведомление аудитории и возвращает число вставленных строк.
func (s *Service) Send(ctx context.Context, actor models.Profile, req models.BroadcastRequest) (int, error) {
	const op = "notifications.Send"
	log := s.log.With(slog.String("op", op), slog.String("actor", actor.UserID))

	body := strings.TrimSpace(req.Body)
	if body == "" {
		return 0, models.ErrMissingBody
	}
	kind := models.NormalizeKind(req.Kind)

	recipients, err := s.recipients(ctx, req)
	if err != nil {
		return 0, err
	}

	sender := actor.UserID
	title := strings.TrimSpace(req.Title)
	inserted := 0
	for start := 0; start < len(recipients); start += ChunkSize {
		end := min(start+ChunkSize, len(recipients))
		batch := make([]models.NewNotification, 0, end-start)
		for _, id := range recipients[start:end] {
			batch = append(batch, models.NewNotification{
				UserID: id, Kind: kind, Title: title, Body: body, SenderID: &sender,
			})
		}
		n, err := s.repo.InsertNotifications(ctx, batch)
		if err != nil {
			log.Error("broadcast interrupted", slog.Int("inserted", inserted), sl.Err(err))
			return inserted, fmt.Errorf("%s: %w", op, err)
		}
		inserted += n
	}
	s.metrics.AddNotifications(kind, inserted)
	log.Info("broadcast sent", slog.String("audience", req.Audience), slog.String("kind", kind), slog.Int("count", inserted))
	return inserted, nil
}

// recipients собирает уникальных получателей в порядке появления.
func (s *Service) recipients(ctx context.Context, req models.BroadcastRequest) ([]string, error) {
	const op = "notifications.recipients"
	audience := strings.TrimSpace(strings.ToLower(req.Audience))

	if roles, ok := audienceRoles[audience]; ok {
		ids, err := s.repo.ProfileIDsByRoles(ctx, roles)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		return ids, nil
	}
	if audience != models.AudienceCustom {
		return nil, models.ErrInvalidAudience
	}

	var ids []string
	var rawIDs []string
	for _, id := range req.UserIDs {
		if id = strings.TrimSpace(id); id != "" {
			rawIDs = append(rawIDs, id)
		}
	}
	if len(rawIDs) > 0 {
		found, err := s.repo.ExistingProfileIDs(ctx, rawIDs)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		ids = append(ids, found...)
	}
	var emails []string
	for _, e := range req.Emails {
		if e = strings.ToLower(strings.TrimSpace(e)); e != "" {
			emails = append(emails, e)
		}
	}
	if len(emails) > 0 {
		found, err := s.repo.ProfileIDsByEmails(ctx, emails)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		ids = append(ids, found...)
	}

	ids = unique(ids)
	if len(ids) == 0 {
		return nil, models.ErrNoRecipients
	}
	return ids, nil
}

// List лента уведомлений пользователя.
func (s *Service) List(ctx context.Context, userID string, f models.NotificationFilter) (*models.NotificationPage, error) {
	const op = "notifications.List"
	f.UserID = userID
	f.SenderID = ""
	return s.page(ctx, op, f)
}

// Sent уведомления, разосланные администратором.
func (s *Service) Sent(ctx context.Context, senderID string, f models.NotificationFilter) (*models.NotificationPage, error) {
	const op = "notifications.Sent"
	f.SenderID = senderID
	f.UnreadOnly = false
	return s.page(ctx, op, f)
}

func (s *Service) page(ctx context.Context, op string, f models.NotificationFilter) (*models.NotificationPage, error) {
	f.Page = max(f.Page, 1)
	if f.Limit <= 0 {
		f.Limit = DefaultLimit
	}
	f.Limit = min(f.Limit, MaxLimit)
	if k := strings.TrimSpace(strings.ToLower(f.Kind)); k == "all" {
		f.Kind = ""
	} else {
		f.Kind = k
	}

	items, total, err := s.repo.ListNotifications(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if items == nil {
		items = []models.Notification{}
	}
	return &models.NotificationPage{Page: f.Page, PageSize: f.Limit, Total: total, Items: items}, nil
}

// MarkRead отмечает прочитанными только собственные уведомления.
func (s *Service) MarkRead(ctx context.Context, userID string, ids []int64) (int, error) {
	const op = "notifications.MarkRead"
	var clean []int64
	for _, id := range ids {
		if id > 0 {
			clean = append(clean, id)
		}
	}
	if len(clean) == 0 {
		return 0, models.ErrNoIDs
	}
	n, err := s.repo.MarkNotificationsRead(ctx, userID, clean)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return n, nil
}

// Contact пересылает обращение участника супер-администраторам, а если их нет, администраторам.
func (s *Service) Contact(ctx context.Context, actor models.Profile, req models.ContactRequest) (int, error) {
	const op = "notifications.Contact"

	if actor.Role != models.RoleMember {
		return 0, models.ErrForbidden
	}
	msg := strings.TrimSpace(req.Message)
	if msg == "" {
		return 0, models.ErrMissingMessage
	}

	recipients, err := s.repo.ProfileIDsByRoles(ctx, []models.Role{models.RoleSuperAdmin})
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	if len(recipients) == 0 {
		if recipients, err = s.repo.ProfileIDsByRoles(ctx, []models.Role{models.RoleAdmin}); err != nil {
			return 0, fmt.Errorf("%s: %w", op, err)
		}
	}
	if len(recipients) == 0 {
		return 0, models.ErrNoStaffRecipients
	}

	title := strings.TrimSpace(req.Subject)
	if title == "" {
		title = "Message from " + actor.DisplayName()
	}
	sender := actor.UserID
	batch := make([]models.NewNotification, 0, len(recipients))
	for _, id := range recipients {
		batch = append(batch, models.NewNotification{
			UserID: id, Kind: models.KindInfo, Title: title, Body: msg, SenderID: &sender,
		})
	}
	n, err := s.repo.InsertNotifications(ctx, batch)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	s.metrics.AddNotifications(models.KindInfo, n)
	s.log.Info("contact message delivered", slog.String("op", op), sl.UserID(actor.UserID), slog.Int("recipients", n))
	return n, nil
}

func unique(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := ids[:0]
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
