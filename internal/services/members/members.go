// Package members управляет участниками клуба: создание на стойке с приглашением,
// поиск, списки неактивных, смена ролей и список тренеров.
package members

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator"
	"github.com/google/uuid"

	"github.com/magabrotheeeer/atom-backoffice/internal/lib/jwt"
	"github.com/magabrotheeeer/atom-backoffice/internal/lib/month"
	"github.com/magabrotheeeer/atom-backoffice/internal/lib/sl"
	"github.com/magabrotheeeer/atom-backoffice/internal/models"
)

// Ограничения списков.
const (
	SearchDefaultLimit = 50
	SearchMaxLimit     = 200
	InactivePageSize   = 20
)

// Repository профили участников.
type Repository interface {
	GetProfile(ctx context.Context, userID string) (*models.Profile, error)
	GetProfileByEmail(ctx context.Context, email string) (*models.Profile, error)
	CreateProfile(ctx context.Context, p models.Profile) error
	PatchProfile(ctx context.Context, userID string, patch models.ProfilePatch) (*models.Profile, error)
	SearchMembers(ctx context.Context, q, digits, exactID string, limit int) ([]models.Profile, error)
	ListInactiveMembers(ctx context.Context, day time.Time, page, limit int) ([]models.Profile, int, error)
	MemberStats(ctx context.Context, day time.Time) (models.MemberStats, error)
	SetRole(ctx context.Context, userID string, role models.Role) error
	ListProfilesByRoles(ctx context.Context, roles []models.Role) ([]models.Profile, error)
	CreateAuditLog(ctx context.Context, l models.NewAuditLog) error
}

// InviteIssuer выпускает токен приглашения.
type InviteIssuer interface {
	GenerateInviteToken(userID string) (jwt.Issued, error)
}

// Mailer отправляет письмо.
type Mailer interface {
	Send(ctx context.Context, to []string, subject, body string) error
}

// ProfileInvalidator сбрасывает кеш профиля.
type ProfileInvalidator interface {
	InvalidateProfile(ctx context.Context, userID string)
}

// Service бизнес-логика участников.
type Service struct {
	repo      Repository
	invites   InviteIssuer
	mailer    Mailer
	profiles  ProfileInvalidator
	appURL    string
	loc       *time.Location
	validate  *validator.Validate
	log       *slog.Logger
	now       func() time.Time
	newUserID func() string
}

// NewService создаёт сервис участников.
func NewService(repo Repository, invites InviteIssuer, mailer Mailer, profiles ProfileInvalidator,
	appURL string, loc *time.Location, log *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		invites:   invites,
		mailer:    mailer,
		profiles:  profiles,
		appURL:    strings.TrimRight(appURL, "/"),
		loc:       loc,
		validate:  validator.New(),
		log:       log,
		now:       time.Now,
		newUserID: uuid.NewString,
	}
}

// CreateMember создаёт участника и отправляет приглашение либо дополняет существующий профиль.
func (s *Service) CreateMember(ctx context.Context, actor models.Profile, req models.NewMemberRequest) (*models.CreateMemberResult, error) {
	const op = "members.CreateMember"
	log := s.log.With(slog.String("op", op), slog.String("actor", actor.UserID))

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		return nil, models.ErrMissingEmail
	}
	if err := s.validate.Var(email, "email"); err != nil {
		return nil, models.ErrInvalidEmail
	}
	patch := models.ProfilePatch{
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		Phone:     strings.TrimSpace(req.Phone),
	}

	existing, err := s.repo.GetProfileByEmail(ctx, email)
	switch {
	case err == nil:
		p := existing
		if !patch.Empty() {
			if p, err = s.repo.PatchProfile(ctx, existing.UserID, patch); err != nil {
				return nil, fmt.Errorf("%s: %w", op, err)
			}
			s.profiles.InvalidateProfile(ctx, existing.UserID)
		}
		log.Info("member already exists", sl.UserID(existing.UserID))
		return &models.CreateMemberResult{UserID: p.UserID, Existed: true, Profile: *p}, nil
	case !errors.Is(err, models.ErrRecordNotFound):
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	id := s.newUserID()
	p := models.Profile{
		UserID:      id,
		Email:       email,
		FirstName:   patch.FirstName,
		LastName:    patch.LastName,
		Phone:       patch.Phone,
		Role:        models.RoleMember,
		QRCode:      models.QRCodeFor(id),
		InviteState: models.InvitePending,
		CreatedAt:   s.now(),
	}
	if err := s.repo.CreateProfile(ctx, p); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	log.Info("member created", sl.UserID(id))

	s.audit(ctx, actor.UserID, id, "member_create", map[string]any{"email": email})
	sent := s.sendInvite(ctx, p)
	return &models.CreateMemberResult{UserID: id, InviteSent: sent, Profile: p}, nil
}

func (s *Service) sendInvite(ctx context.Context, p models.Profile) bool {
	invite, err := s.invites.GenerateInviteToken(p.UserID)
	if err != nil {
		s.log.Error("failed to issue invite token", sl.UserID(p.UserID), sl.Err(err))
		return false
	}
	link := s.appURL + "/auth/complete-invite?token=" + invite.Token
	body := fmt.Sprintf("Hello %s,\n\nYou have been registered at ATOM Jiu-Jitsu.\n"+
		"Set your password to access the member portal:\n%s\n", p.DisplayName(), link)
	if err := s.mailer.Send(ctx, []string{p.Email}, "Welcome to ATOM Jiu-Jitsu", body); err != nil {
		s.log.Warn("invite email failed", sl.UserID(p.UserID), sl.Err(err))
		return false
	}
	return true
}

var nonDigits = regexp.MustCompile(`\D`)

// Search ищет участников. limit ограничивается SearchMaxLimit.
func (s *Service) Search(ctx context.Context, q string, limit int) ([]models.Profile, error) {
	const op = "members.Search"
	q = strings.TrimSpace(q)
	if limit <= 0 {
		limit = SearchDefaultLimit
	}
	if limit > SearchMaxLimit {
		limit = SearchMaxLimit
	}

	var digits, exactID string
	if d := nonDigits.ReplaceAllString(q, ""); len(d) >= 4 {
		digits = d
	}
	if _, err := uuid.Parse(q); err == nil {
		exactID = strings.ToLower(q)
	}

	items, err := s.repo.SearchMembers(ctx, q, digits, exactID, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if items == nil {
		items = []models.Profile{}
	}
	return items, nil
}

// Inactive участники без действующего абонемента на сегодня.
func (s *Service) Inactive(ctx context.Context, page int) ([]models.Profile, int, error) {
	const op = "members.Inactive"
	if page < 1 {
		page = 1
	}
	items, total, err := s.repo.ListInactiveMembers(ctx, s.today(), page, InactivePageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	if items == nil {
		items = []models.Profile{}
	}
	return items, total, nil
}

// Stats сводка по участникам.
func (s *Service) Stats(ctx context.Context) (models.MemberStats, error) {
	const op = "members.Stats"
	st, err := s.repo.MemberStats(ctx, s.today())
	if err != nil {
		return st, fmt.Errorf("%s: %w", op, err)
	}
	return st, nil
}

// ChangeRole меняет роль пользователя с учётом прав actor.
func (s *Service) ChangeRole(ctx context.Context, actor models.Profile, req models.RoleChange) (*models.Profile, error) {
	const op = "members.ChangeRole"
	userID := strings.TrimSpace(req.UserID)
	if userID == "" {
		return nil, models.ErrMissingUserID
	}
	target, ok := models.ParseRole(req.Role)
	if !ok || strings.TrimSpace(req.Role) == "" {
		return nil, models.ErrInvalidRole
	}

	p, err := s.repo.GetProfile(ctx, userID)
	if errors.Is(err, models.ErrRecordNotFound) {
		return nil, models.ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !actor.Role.CanAssign(p.Role, target) {
		return nil, models.ErrForbidden
	}

	if p.Role != target {
		if err := s.repo.SetRole(ctx, userID, target); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		s.profiles.InvalidateProfile(ctx, userID)
		s.audit(ctx, actor.UserID, userID, "role_change", map[string]any{"from": p.Role, "to": target})
		s.log.Info("role changed", slog.String("op", op), sl.UserID(userID), slog.String("role", string(target)))
	}
	p.Role = target
	return p, nil
}

// StaffList тренеры и ассистенты.
func (s *Service) StaffList(ctx context.Context) ([]models.Profile, error) {
	const op = "members.StaffList"
	items, err := s.repo.ListProfilesByRoles(ctx, []models.Role{models.RoleCoach, models.RoleAssistantCoach})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if items == nil {
		items = []models.Profile{}
	}
	return items, nil
}

func (s *Service) today() time.Time {
	return month.Today(s.now(), s.loc)
}

func (s *Service) audit(ctx context.Context, actorID, targetID, action string, details map[string]any) {
	if err := s.repo.CreateAuditLog(ctx, models.NewAuditLog{
		ActorUserID: actorID, TargetUserID: targetID, Action: action, Details: details,
	}); err != nil {
		s.log.Warn("failed to write audit log", slog.String("action", action), sl.Err(err))
	}
}
