// Package checkin проверяет QR-коды на входе и пишет посещения.
package checkin

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/atom-backoffice/internal/lib/month"
	"github.com/magabrotheeeer/atom-backoffice/internal/lib/sl"
	"github.com/magabrotheeeer/atom-backoffice/internal/models"
)

// activeLimit сколько действующих абонементов рассматривается при проходе.
const activeLimit = 50

// Результаты сканирования для метрик.
const (
	ResultStaff   = "staff"
	ResultValid   = "valid"
	ResultInvalid = "invalid"
	ResultUnknown = "unknown"
)

// Repository профили, абонементы и посещения.
type Repository interface {
	GetProfile(ctx context.Context, userID string) (*models.Profile, error)
	GetProfileByQRCode(ctx context.Context, code string) (*models.Profile, error)
	ActiveSubscriptionsOn(ctx context.Context, memberID string, day time.Time, limit int) ([]models.Subscription, error)
	ConsumeSession(ctx context.Context, id int64) (bool, error)
	CreateAttendance(ctx context.Context, a models.Attendance) (int64, error)
}

// Metrics счётчик сканирований.
type Metrics interface {
	IncScan(result string)
}

// Service киоск.
type Service struct {
	repo    Repository
	metrics Metrics
	loc     *time.Location
	log     *slog.Logger
	now     func() time.Time
}

// NewService создаёт сервис киоска.
func NewService(repo Repository, metrics Metrics, loc *time.Location, log *slog.Logger) *Service {
	return &Service{repo: repo, metrics: metrics, loc: loc, log: log, now: time.Now}
}

// Scan разбирает код, находит участника и списывает посещение.
// Если списать не удалось, проход записывается как недействительный.
func (s *Service) Scan(ctx context.Context, actor models.Profile, code string) (*models.ScanResult, error) {
	const op = "checkin.Scan"
	log := s.log.With(slog.String("op", op), slog.String("scanned_by", actor.UserID))

	code = strings.TrimSpace(code)
	if code == "" {
		return nil, models.ErrMissingQR
	}
	member, err := s.resolve(ctx, code)
	if errors.Is(err, models.ErrRecordNotFound) {
		s.metrics.IncScan(ResultUnknown)
		return nil, models.ErrInvalidQR
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	today := month.Today(s.now(), s.loc)
	att := models.Attendance{
		MemberID:  member.UserID,
		Date:      today,
		Source:    models.SourceKiosk,
		ScannedBy: actor.UserID,
	}
	res := &models.ScanResult{MemberID: member.UserID}

	if member.Role.IsStaff() {
		att.Valid = true
		att.Source = models.SourceKioskStaff
		res.Valid = true
		res.Message = models.ScanMessageStaff
		if _, err := s.repo.CreateAttendance(ctx, att); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		s.metrics.IncScan(ResultStaff)
		log.Info("staff access", sl.UserID(member.UserID))
		return res, nil
	}

	sub, err := s.pick(ctx, member.UserID, today)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if sub != nil {
		att.Valid = true
		att.SubscriptionID = &sub.ID
		att.FromSessions = sub.Type == models.TypeSessions
	}
	if _, err := s.repo.CreateAttendance(ctx, att); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if !att.Valid {
		res.Message = models.ScanMessageInvalid
		s.metrics.IncScan(ResultInvalid)
		log.Info("scan rejected", sl.UserID(member.UserID))
		return res, nil
	}
	res.Valid = true
	res.SubscriptionID = att.SubscriptionID
	res.Message = models.ScanMessageValid
	s.metrics.IncScan(ResultValid)
	log.Info("scan accepted", sl.UserID(member.UserID), slog.Int64("subscription_id", sub.ID),
		slog.Bool("from_sessions", att.FromSessions))
	return res, nil
}

// resolve ищет профиль по коду: atom:{uuid}, голый uuid или значение qr_code.
func (s *Service) resolve(ctx context.Context, code string) (*models.Profile, error) {
	id := code
	if len(code) > len(models.QRPrefix) && strings.EqualFold(code[:len(models.QRPrefix)], models.QRPrefix) {
		id = code[len(models.QRPrefix):]
	}
	if u, err := uuid.Parse(id); err == nil {
		return s.repo.GetProfile(ctx, u.String())
	}
	if strings.HasPrefix(code, "ATOM:") {
		code = models.QRPrefix + code[len("ATOM:"):]
	}
	return s.repo.GetProfileByQRCode(ctx, code)
}

// pick выбирает абонемент для прохода: сначала по времени, затем пакет с остатком.
// Для пакета занятие списывается условным обновлением; nil значит проход не засчитан,
// в том числе когда списание завершилось ошибкой.
func (s *Service) pick(ctx context.Context, memberID string, today time.Time) (*models.Subscription, error) {
	subs, err := s.repo.ActiveSubscriptionsOn(ctx, memberID, today, activeLimit)
	if err != nil {
		return nil, err
	}
	for i := range subs {
		if subs[i].Type == models.TypeTime {
			return &subs[i], nil
		}
	}
	for i := range subs {
		if subs[i].Type != models.TypeSessions || subs[i].SessionsLeft() == 0 {
			continue
		}
		ok, err := s.repo.ConsumeSession(ctx, subs[i].ID)
		if err != nil {
			s.log.Error("failed to consume session, scan recorded as invalid",
				slog.String("op", "checkin.pick"), sl.UserID(memberID),
				slog.Int64("subscription_id", subs[i].ID), sl.Err(err))
			return nil, nil
		}
		if !ok {
			return nil, nil
		}
		return &subs[i], nil
	}
	return nil, nil
}
