// Package subscriptions оформляет, продлевает и закрывает абонементы участников.
package subscriptions

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/atom-backoffice/internal/lib/money"
	"github.com/magabrotheeeer/atom-backoffice/internal/lib/month"
	"github.com/magabrotheeeer/atom-backoffice/internal/lib/sl"
	"github.com/magabrotheeeer/atom-backoffice/internal/models"
)

// Repository доступ к профилям, абонементам и оплатам.
type Repository interface {
	GetProfile(ctx context.Context, userID string) (*models.Profile, error)
	GetProfileByEmail(ctx context.Context, email string) (*models.Profile, error)
	GetProfileByQRCode(ctx context.Context, code string) (*models.Profile, error)
	CreateSubscription(ctx context.Context, sub models.Subscription) (*models.Subscription, error)
	LatestSubscription(ctx context.Context, memberID string) (*models.Subscription, error)
	ExtendSubscription(ctx context.Context, id int64, end time.Time) (*models.Subscription, error)
	SetSubscriptionStatus(ctx context.Context, id int64, status models.SubscriptionStatus) (*models.Subscription, error)
	ListMemberSubscriptions(ctx context.Context, memberID string) ([]models.Subscription, error)
	ExpireSubscriptions(ctx context.Context, today time.Time) (int64, error)
	CreatePayment(ctx context.Context, p models.Payment) (int64, error)
	CreateAuditLog(ctx context.Context, l models.NewAuditLog) error
}

// Service абонементы.
type Service struct {
	repo Repository
	loc  *time.Location
	log  *slog.Logger
	now  func() time.Time
}

// NewService создаёт сервис абонементов.
func NewService(repo Repository, loc *time.Location, log *slog.Logger) *Service {
	return &Service{repo: repo, loc: loc, log: log, now: time.Now}
}

// Issue оформляет абонемент на стойке.
func (s *Service) Issue(ctx context.Context, actor models.Profile, req models.IssueRequest) (*models.Subscription, error) {
	const op = "subscriptions.Issue"
	log := s.log.With(slog.String("op", op), slog.String("actor", actor.UserID))

	plan := models.Plan(strings.TrimSpace(strings.ToLower(req.Plan)))
	months, timePlan := models.IssueMonths[plan]
	if !timePlan && plan != models.PlanSessions {
		return nil, models.ErrInvalidPlan
	}
	amount := money.ParsePriceToCents(req.Amount)
	if amount < 0 {
		return nil, models.ErrInvalidAmount
	}

	member, err := s.resolveMember(ctx, req)
	if err != nil {
		return nil, err
	}

	now := s.now()
	today := month.Today(now, s.loc)
	sub := models.Subscription{
		MemberID:    member.UserID,
		Plan:        plan,
		Status:      models.StatusActive,
		AmountCents: amount,
		PaidAt:      &now,
	}

	if plan == models.PlanSessions {
		start, err := month.Parse(strings.TrimSpace(req.StartDate))
		if err != nil {
			start = today
		}
		total := req.SessionsTotal
		if total == 0 {
			total = models.SessionPackDefault
		}
		total = max(1, min(models.SessionPackMax, total))

		sub.Type = models.TypeSessions
		sub.StartDate = start
		sub.EndDate = month.AddDays(start, models.SessionPackDays)
		sub.SessionsTotal = total
	} else {
		start, err := month.Parse(strings.TrimSpace(req.StartDate))
		if err != nil {
			return nil, models.ErrStartDateRequired
		}
		sub.Type = models.TypeTime
		sub.StartDate = start
		sub.EndDate = month.Add(start, months)
	}

	created, err := s.repo.CreateSubscription(ctx, sub)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.recordPayment(ctx, actor, created, amount, req.PaymentMethod)
	s.audit(ctx, actor.UserID, member.UserID, "subscription_issue", map[string]any{
		"subscription_id": created.ID,
		"plan":            created.Plan,
		"start_date":      month.Format(created.StartDate),
		"end_date":        month.Format(created.EndDate),
		"amount_cents":    amount,
	})
	log.Info("subscription issued", sl.UserID(member.UserID), slog.Int64("subscription_id", created.ID))
	return created, nil
}

// resolveMember ищет участника по id, QR-коду или email в этом порядке.
func (s *Service) resolveMember(ctx context.Context, req models.IssueRequest) (*models.Profile, error) {
	const op = "subscriptions.resolveMember"

	var (
		p   *models.Profile
		err error
	)
	id := strings.TrimSpace(req.MemberID)
	qr := strings.TrimSpace(req.MemberQR)
	email := strings.ToLower(strings.TrimSpace(req.MemberEmail))
	switch {
	case id != "":
		if _, perr := uuid.Parse(id); perr != nil {
			return nil, models.ErrInvalidMemberID
		}
		p, err = s.repo.GetProfile(ctx, id)
	case qr != "":
		if strings.HasPrefix(qr, "ATOM:") {
			qr = models.QRPrefix + qr[len("ATOM:"):]
		}
		p, err = s.repo.GetProfileByQRCode(ctx, qr)
	case email != "":
		p, err = s.repo.GetProfileByEmail(ctx, email)
	default:
		return nil, models.ErrInvalidMemberID
	}
	if errors.Is(err, models.ErrRecordNotFound) {
		return nil, models.ErrInvalidMemberID
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

// Action выполняет действие администратора над последним абонементом участника.
func (s *Service) Action(ctx context.Context, actor models.Profile, req models.ActionRequest) (*models.ActionResult, error) {
	const op = "subscriptions.Action"

	memberID := strings.TrimSpace(req.MemberID)
	if memberID == "" {
		return nil, models.ErrMissingUserID
	}
	if _, err := uuid.Parse(memberID); err != nil {
		return nil, models.ErrInvalidMemberID
	}
	action := strings.TrimSpace(strings.ToLower(req.Action))
	switch action {
	case models.ActionRenew, models.ActionPause, models.ActionResume, models.ActionAddDropIn:
	default:
		return nil, models.ErrInvalidAction
	}
	amount := money.ParsePriceToCents(req.Amount)
	if amount < 0 {
		return nil, models.ErrInvalidAmount
	}

	today := month.Today(s.now(), s.loc)
	start := today
	if v := strings.TrimSpace(req.StartDate); v != "" {
		d, err := month.Parse(v)
		if err != nil {
			return nil, models.ErrInvalidDate
		}
		start = d
	}

	if _, err := s.repo.GetProfile(ctx, memberID); err != nil {
		if errors.Is(err, models.ErrRecordNotFound) {
			return nil, models.ErrProfileNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	latest, err := s.repo.LatestSubscription(ctx, memberID)
	if err != nil && !errors.Is(err, models.ErrRecordNotFound) {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if errors.Is(err, models.ErrRecordNotFound) {
		latest = nil
	}

	var res *models.ActionResult
	switch action {
	case models.ActionRenew:
		res, err = s.renew(ctx, actor, memberID, req.Plan, start, latest, amount)
	case models.ActionPause:
		res, err = s.setStatus(ctx, actor, memberID, action, models.StatusPaused, latest)
	case models.ActionResume:
		res, err = s.setStatus(ctx, actor, memberID, action, models.StatusActive, latest)
	case models.ActionAddDropIn:
		res, err = s.addDropIn(ctx, actor, memberID, start, amount)
	}
	if err != nil {
		return nil, err
	}
	if res.Subscription != nil {
		s.recordPayment(ctx, actor, res.Subscription, amount, req.PaymentMethod)
	}
	return res, nil
}

func (s *Service) renew(ctx context.Context, actor models.Profile, memberID, rawPlan string,
	start time.Time, latest *models.Subscription, amount int64) (*models.ActionResult, error) {
	const op = "subscriptions.renew"

	plan := models.Plan(strings.TrimSpace(strings.ToLower(rawPlan)))
	if plan == "" {
		plan = models.PlanMonthly
	}
	months, ok := models.RenewMonths[plan]
	if !ok {
		return nil, models.ErrInvalidPlan
	}

	if latest == nil || latest.Type == models.TypeSessions {
		var paidAt *time.Time
		if amount > 0 {
			now := s.now()
			paidAt = &now
		}
		created, err := s.repo.CreateSubscription(ctx, models.Subscription{
			MemberID:    memberID,
			Plan:        plan,
			Type:        models.TypeTime,
			Status:      models.StatusActive,
			StartDate:   start,
			EndDate:     month.Add(start, months),
			AmountCents: amount,
			PaidAt:      paidAt,
		})
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		s.audit(ctx, actor.UserID, memberID, models.ActionRenew, map[string]any{
			"mode":       "insert",
			"plan":       plan,
			"start_date": month.Format(created.StartDate),
			"end_date":   month.Format(created.EndDate),
		})
		return &models.ActionResult{Action: models.ActionRenew, Mode: "insert", Subscription: created}, nil
	}

	base := month.Later(latest.EndDate, start)
	extended, err := s.repo.ExtendSubscription(ctx, latest.ID, month.Add(base, months))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.audit(ctx, actor.UserID, memberID, models.ActionRenew, map[string]any{
		"mode":            "extend",
		"plan":            plan,
		"base_from":       month.Format(base),
		"start_requested": month.Format(start),
		"new_end_date":    month.Format(extended.EndDate),
	})
	return &models.ActionResult{Action: models.ActionRenew, Mode: "extend", Subscription: extended}, nil
}

func (s *Service) setStatus(ctx context.Context, actor models.Profile, memberID, action string,
	status models.SubscriptionStatus, latest *models.Subscription) (*models.ActionResult, error) {
	const op = "subscriptions.setStatus"
	if latest == nil || latest.Type == models.TypeSessions {
		return nil, models.ErrNoSubscription
	}
	updated, err := s.repo.SetSubscriptionStatus(ctx, latest.ID, status)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.audit(ctx, actor.UserID, memberID, action, map[string]any{"sub_id": latest.ID})
	return &models.ActionResult{Action: action, Subscription: updated}, nil
}

func (s *Service) addDropIn(ctx context.Context, actor models.Profile, memberID string,
	day time.Time, amount int64) (*models.ActionResult, error) {
	const op = "subscriptions.addDropIn"
	var paidAt *time.Time
	if amount > 0 {
		now := s.now()
		paidAt = &now
	}
	created, err := s.repo.CreateSubscription(ctx, models.Subscription{
		MemberID:      memberID,
		Plan:          models.PlanDropIn,
		Type:          models.TypeSessions,
		Status:        models.StatusActive,
		StartDate:     day,
		EndDate:       day,
		SessionsTotal: 1,
		AmountCents:   amount,
		PaidAt:        paidAt,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.audit(ctx, actor.UserID, memberID, models.ActionAddDropIn, map[string]any{
		"sub_id": created.ID,
		"date":   month.Format(day),
	})
	return &models.ActionResult{Action: models.ActionAddDropIn, Subscription: created}, nil
}

// Expire переводит просроченные активные абонементы в expired.
func (s *Service) Expire(ctx context.Context) (int64, error) {
	const op = "subscriptions.Expire"
	today := month.Today(s.now(), s.loc)
	n, err := s.repo.ExpireSubscriptions(ctx, today)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("subscriptions expired", slog.String("op", op), slog.Int64("count", n),
		slog.String("today", month.Format(today)))
	return n, nil
}

// Mine абонементы участника, новые первыми.
func (s *Service) Mine(ctx context.Context, memberID string) ([]models.Subscription, error) {
	const op = "subscriptions.Mine"
	subs, err := s.repo.ListMemberSubscriptions(ctx, memberID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	today := month.Today(s.now(), s.loc)
	for i := range subs {
		subs[i].Status = subs[i].EffectiveStatus(today)
	}
	if subs == nil {
		subs = []models.Subscription{}
	}
	return subs, nil
}

func (s *Service) recordPayment(ctx context.Context, actor models.Profile, sub *models.Subscription, amount int64, method string) {
	if amount <= 0 {
		return
	}
	id := sub.ID
	if _, err := s.repo.CreatePayment(ctx, models.Payment{
		MemberID:       sub.MemberID,
		SubscriptionID: &id,
		AmountCents:    amount,
		Method:         models.NormalizePaymentMethod(method),
		PaidAt:         s.now(),
		RecordedBy:     actor.UserID,
	}); err != nil {
		s.log.Error("failed to record payment", sl.UserID(sub.MemberID), slog.Int64("subscription_id", sub.ID), sl.Err(err))
	}
}

func (s *Service) audit(ctx context.Context, actorID, targetID, action string, details map[string]any) {
	if err := s.repo.CreateAuditLog(ctx, models.NewAuditLog{
		ActorUserID: actorID, TargetUserID: targetID, Action: action, Details: details,
	}); err != nil {
		s.log.Warn("failed to write audit log", slog.String("action", action), sl.Err(err))
	}
}
