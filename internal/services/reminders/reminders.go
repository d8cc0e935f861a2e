// Package reminders ищет абонементы, по которым пора напомнить участнику,
// ставит письма в очередь и отправляет их из очереди.
package reminders

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/magabrotheeeer/atom-backoffice/internal/lib/month"
	"github.com/magabrotheeeer/atom-backoffice/internal/lib/sl"
	"github.com/magabrotheeeer/atom-backoffice/internal/lib/smtp"
	"github.com/magabrotheeeer/atom-backoffice/internal/models"
)

// Repository кандидаты и outbox.
type Repository interface {
	ReminderCandidates(ctx context.Context, today time.Time) ([]models.ReminderCandidate, error)
	ClaimOutbox(ctx context.Context, c models.ReminderCandidate) (bool, error)
	ReleaseOutbox(ctx context.Context, kind string, subscriptionID int64) error
	IsOutboxClaimed(ctx context.Context, kind string, subscriptionID int64) (bool, error)
}

// Publisher очередь писем.
type Publisher interface {
	PublishEmail(ctx context.Context, job any) error
}

// Metrics счётчик поставленных напоминаний.
type Metrics interface {
	IncReminder(kind string)
}

// Service прогон напоминаний.
type Service struct {
	repo      Repository
	publisher Publisher
	metrics   Metrics
	loc       *time.Location
	log       *slog.Logger
	now       func() time.Time
}

// NewService создаёт сервис напоминаний.
func NewService(repo Repository, publisher Publisher, metrics Metrics, loc *time.Location, log *slog.Logger) *Service {
	return &Service{repo: repo, publisher: publisher, metrics: metrics, loc: loc, log: log, now: time.Now}
}

// Run ищет кандидатов на сегодня. При dry ничего не резервирует и не публикует,
// а только считает, что было бы поставлено в очередь.
func (s *Service) Run(ctx context.Context, dry bool) (*models.ReminderRunResult, error) {
	const op = "reminders.Run"
	log := s.log.With(slog.String("op", op), slog.Bool("dry", dry))
	today := month.Today(s.now(), s.loc)

	candidates, err := s.repo.ReminderCandidates(ctx, today)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	res := &models.ReminderRunResult{Dry: dry, Candidates: len(candidates)}
	if dry {
		res.Items = []models.ReminderCandidate{}
	}

	for _, c := range candidates {
		if strings.TrimSpace(c.Email) == "" {
			res.Skipped++
			continue
		}
		if dry {
			claimed, err := s.repo.IsOutboxClaimed(ctx, c.Kind, c.SubscriptionID)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", op, err)
			}
			if claimed {
				res.Skipped++
				continue
			}
			res.Queued++
			res.Items = append(res.Items, c)
			continue
		}

		claimed, err := s.repo.ClaimOutbox(ctx, c)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if !claimed {
			res.Skipped++
			continue
		}
		if err := s.publisher.PublishEmail(ctx, BuildJob(c)); err != nil {
			log.Error("failed to publish reminder", slog.Int64("subscription_id", c.SubscriptionID), sl.Err(err))
			if relErr := s.repo.ReleaseOutbox(ctx, c.Kind, c.SubscriptionID); relErr != nil {
				log.Error("failed to release outbox", slog.Int64("subscription_id", c.SubscriptionID), sl.Err(relErr))
			}
			res.Skipped++
			continue
		}
		if s.metrics != nil {
			s.metrics.IncReminder(c.Kind)
		}
		res.Queued++
	}

	log.Info("reminder run finished",
		slog.Int("candidates", res.Candidates), slog.Int("queued", res.Queued), slog.Int("skipped", res.Skipped))
	return res, nil
}

// Schedule выполняет Run сразу и затем каждые interval, пока жив ctx.
func (s *Service) Schedule(ctx context.Context, interval time.Duration) {
	s.runOnce(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			s.log.Info("reminder scheduler stopped")
			return
		case <-ticker.C:
			s.runOnce(ctx)
		}
	}
}

func (s *Service) runOnce(ctx context.Context) {
	if _, err := s.Run(ctx, false); err != nil {
		s.log.Error("reminder run failed", sl.Err(err))
	}
}

// BuildJob письмо для кандидата.
func BuildJob(c models.ReminderCandidate) models.EmailJob {
	name := strings.TrimSpace(c.FirstName)
	if name == "" {
		name = "there"
	}
	job := models.EmailJob{Kind: c.Kind, SubscriptionID: c.SubscriptionID, To: c.Email}
	switch c.Kind {
	case models.ReminderSessionsLow:
		left := max(c.SessionsLeft, 0)
		job.Subject = fmt.Sprintf("Only %d session(s) left", left)
		job.Body = fmt.Sprintf("Hello %s,\n\nYou have only %d session(s) remaining on your current pack.\n"+
			"If you want to top up or have questions, reply to this email or visit the front desk.\n\nSee you soon!", name, left)
	default:
		job.Subject = "Your membership expires in 7 days"
		job.Body = fmt.Sprintf("Hello %s,\n\nThis is a friendly reminder that your membership will expire in 7 days (on %s).\n"+
			"If you need any help renewing, just reply to this email or visit the front desk.\n\nThank you!",
			name, month.Format(c.EndDate))
	}
	return job
}

// Mailer отправка писем.
type Mailer interface {
	Send(ctx context.Context, to []string, subject, body string) error
}

// Sender обрабатывает сообщения очереди reminders.email.
type Sender struct {
	mailer  Mailer
	log     *slog.Logger
	timeout time.Duration
}

// NewSender создаёт отправителя. timeout ограничивает одну отправку.
func NewSender(mailer Mailer, timeout time.Duration, log *slog.Logger) *Sender {
	return &Sender{mailer: mailer, timeout: timeout, log: log}
}

// Handle разбирает EmailJob и отправляет письмо. Ошибка возвращает сообщение в очередь,
// поэтому битый JSON и постоянный отказ SMTP (5xx) подтверждаются без повтора.
func (s *Sender) Handle(body []byte) error {
	const op = "reminders.Handle"
	var job models.EmailJob
	if err := json.Unmarshal(body, &job); err != nil {
		s.log.Error("failed to unmarshal email job, dropping", slog.String("op", op), sl.Err(err))
		return nil
	}
	if strings.TrimSpace(job.To) == "" {
		s.log.Warn("email job without recipient, dropping", slog.String("op", op), slog.String("kind", job.Kind))
		return nil
	}

	ctx := context.Background()
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	if err := s.mailer.Send(ctx, []string{job.To}, job.Subject, job.Body); err != nil {
		if smtp.IsPermanent(err) {
			s.log.Warn("email rejected permanently, dropping", slog.String("op", op),
				slog.String("kind", job.Kind), slog.Int64("subscription_id", job.SubscriptionID), sl.Err(err))
			return nil
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("reminder sent", slog.String("kind", job.Kind), slog.Int64("subscription_id", job.SubscriptionID))
	return nil
}
