// Package reports показатели дашборда, выручка, CSV выгрузки и журнал действий.
package reports

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/magabrotheeeer/atom-backoffice/internal/lib/csvexport"
	"github.com/magabrotheeeer/atom-backoffice/internal/lib/money"
	"github.com/magabrotheeeer/atom-backoffice/internal/lib/month"
	"github.com/magabrotheeeer/atom-backoffice/internal/lib/sl"
	"github.com/magabrotheeeer/atom-backoffice/internal/models"
)

const (
	// KPITTL время жизни кеша KPI.
	KPITTL = 60 * time.Second
	// RevenueRangeDays период выручки по умолчанию.
	RevenueRangeDays = 30
	// AuditDefaultLimit и AuditMaxLimit размер страницы журнала.
	AuditDefaultLimit = 50
	AuditMaxLimit     = 200
)

// Типы статистики.
const (
	TypeKPI     = "kpi"
	TypeRevenue = "revenue"
)

// Repository запросы отчётов.
type Repository interface {
	KPI(ctx context.Context, today time.Time) (*models.KPI, error)
	RevenueRows(ctx context.Context, from, to time.Time) ([]models.RevenueRow, error)
	AttendanceExport(ctx context.Context, from, to time.Time) ([]models.AttendanceExportRow, error)
	SubscriptionExport(ctx context.Context, from, to time.Time) ([]models.SubscriptionExportRow, error)
	ActiveNowExport(ctx context.Context, today time.Time) ([]models.SubscriptionExportRow, error)
	ListAuditLogs(ctx context.Context, limit int) ([]models.AuditLog, error)
}

// Cache кеш KPI.
type Cache interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
}

// Service отчёты для администраторов.
type Service struct {
	repo  Repository
	cache Cache
	loc   *time.Location
	log   *slog.Logger
	now   func() time.Time
}

// NewService создаёт сервис отчётов. cache может быть nil.
func NewService(repo Repository, cache Cache, loc *time.Location, log *slog.Logger) *Service {
	return &Service{repo: repo, cache: cache, loc: loc, log: log, now: time.Now}
}

// Stats выбирает отчёт по типу.
func (s *Service) Stats(ctx context.Context, kind, fromRaw, toRaw string) (any, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case TypeKPI:
		return s.KPI(ctx)
	case TypeRevenue:
		return s.Revenue(ctx, fromRaw, toRaw)
	default:
		return nil, models.ErrInvalidType
	}
}

// KPI показатели на сегодня. Кешируются на KPITTL.
func (s *Service) KPI(ctx context.Context) (*models.KPI, error) {
	const op = "reports.KPI"
	today := month.Today(s.now(), s.loc)
	key := "kpi:" + month.Format(today)

	if s.cache != nil {
		var cached models.KPI
		found, err := s.cache.Get(ctx, key, &cached)
		if err != nil {
			s.log.Warn("kpi cache read failed", slog.String("op", op), sl.Err(err))
		}
		if found {
			return &cached, nil
		}
	}

	kpi, err := s.repo.KPI(ctx, today)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if s.cache != nil {
		if err := s.cache.Set(ctx, key, kpi, KPITTL); err != nil {
			s.log.Warn("kpi cache write failed", slog.String("op", op), sl.Err(err))
		}
	}
	return kpi, nil
}

// Revenue выручка за период. Некорректные границы заменяются последними
// RevenueRangeDays днями, дни без оплат заполняются нулями.
func (s *Service) Revenue(ctx context.Context, fromRaw, toRaw string) (*models.Revenue, error) {
	const op = "reports.Revenue"
	today := month.Today(s.now(), s.loc)
	from, errFrom := month.Parse(strings.TrimSpace(fromRaw))
	to, errTo := month.Parse(strings.TrimSpace(toRaw))
	if errFrom != nil || errTo != nil || from.After(to) {
		from, to = month.AddDays(today, -(RevenueRangeDays-1)), today
	}

	rows, err := s.repo.RevenueRows(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	days := month.Range(from, to)
	byDay := make(map[string]int64, len(days))
	res := &models.Revenue{
		From:   month.Format(from),
		To:     month.Format(to),
		ByPlan: map[string]int64{},
		Daily:  make([]models.DailyRevenue, 0, len(days)),
	}
	for _, r := range rows {
		res.TotalCents += r.AmountCents
		res.ByPlan[r.Plan] += r.AmountCents
		byDay[month.Format(r.PaidOn)] += r.AmountCents
	}
	for _, d := range days {
		key := month.Format(d)
		res.Daily = append(res.Daily, models.DailyRevenue{Date: key, AmountCents: byDay[key]})
	}
	return res, nil
}

func parseRange(fromRaw, toRaw string) (time.Time, time.Time, error) {
	from, err := month.Parse(strings.TrimSpace(fromRaw))
	if err != nil {
		return time.Time{}, time.Time{}, models.ErrInvalidRange
	}
	to, err := month.Parse(strings.TrimSpace(toRaw))
	if err != nil {
		return time.Time{}, time.Time{}, models.ErrInvalidRange
	}
	if from.After(to) {
		return time.Time{}, time.Time{}, models.ErrInvalidRange
	}
	return from, to, nil
}

// ExportAttendance выгрузка посещений. from и to обязательны.
func (s *Service) ExportAttendance(ctx context.Context, fromRaw, toRaw string) (*models.CSVFile, error) {
	const op = "reports.ExportAttendance"
	from, to, err := parseRange(fromRaw, toRaw)
	if err != nil {
		return nil, err
	}
	rows, err := s.repo.AttendanceExport(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	w := csvexport.NewWriter("id", "member_id", "member_email", "first_name", "last_name",
		"date", "valid", "from_sessions", "subscription_id")
	for _, r := range rows {
		subID := ""
		if r.SubscriptionID != nil {
			subID = strconv.FormatInt(*r.SubscriptionID, 10)
		}
		w.Write(
			strconv.FormatInt(r.ID, 10),
			r.MemberID,
			r.MemberEmail,
			r.FirstName,
			r.LastName,
			month.Format(r.Date),
			strconv.FormatBool(r.Valid),
			strconv.FormatBool(r.FromSessions),
			subID,
		)
	}
	s.log.Info("attendance exported", slog.String("op", op), slog.Int("rows", len(rows)))
	return &models.CSVFile{
		Filename: fmt.Sprintf("attendance_%s_to_%s.csv", month.Format(from), month.Format(to)),
		Content:  w.Bytes(),
	}, nil
}

// ExportSubscriptions выгрузка абонементов, пересекающихся с периодом.
func (s *Service) ExportSubscriptions(ctx context.Context, fromRaw, toRaw string) (*models.CSVFile, error) {
	const op = "reports.ExportSubscriptions"
	from, to, err := parseRange(fromRaw, toRaw)
	if err != nil {
		return nil, err
	}
	rows, err := s.repo.SubscriptionExport(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	w := csvexport.NewWriter(subscriptionHeader(false)...)
	for _, r := range rows {
		w.Write(subscriptionCells(r, false)...)
	}
	return &models.CSVFile{
		Filename: fmt.Sprintf("subscriptions_%s_to_%s.csv", month.Format(from), month.Format(to)),
		Content:  w.Bytes(),
	}, nil
}

// ExportActiveNow абонементы, действующие сегодня, с остатком занятий.
func (s *Service) ExportActiveNow(ctx context.Context) (*models.CSVFile, error) {
	const op = "reports.ExportActiveNow"
	today := month.Today(s.now(), s.loc)
	rows, err := s.repo.ActiveNowExport(ctx, today)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	w := csvexport.NewWriter(subscriptionHeader(true)...)
	for _, r := range rows {
		w.Write(subscriptionCells(r, true)...)
	}
	return &models.CSVFile{
		Filename: fmt.Sprintf("subscriptions_active_now_%s.csv", month.Format(today)),
		Content:  w.Bytes(),
	}, nil
}

func subscriptionHeader(remaining bool) []string {
	h := []string{"id", "member_id", "member_email", "first_name", "last_name",
		"plan", "subscription_type", "status", "start_date", "end_date",
		"sessions_total", "sessions_used"}
	if remaining {
		h = append(h, "sessions_remaining")
	}
	return append(h, "amount", "paid_at")
}

func subscriptionCells(r models.SubscriptionExportRow, remaining bool) []string {
	cells := []string{
		strconv.FormatInt(r.ID, 10),
		r.MemberID,
		r.MemberEmail,
		r.FirstName,
		r.LastName,
		r.Plan,
		r.Type,
		r.Status,
		month.Format(r.StartDate),
		month.Format(r.EndDate),
		strconv.Itoa(r.SessionsTotal),
		strconv.Itoa(r.SessionsUsed),
	}
	if remaining {
		left := ""
		if r.Type == string(models.TypeSessions) {
			left = strconv.Itoa(max(r.SessionsTotal-r.SessionsUsed, 0))
		}
		cells = append(cells, left)
	}
	paidAt := ""
	if r.PaidAt != nil {
		paidAt = r.PaidAt.UTC().Format(time.RFC3339)
	}
	return append(cells, money.ToPriceString(r.AmountCents), paidAt)
}

// AuditLog последние записи журнала.
func (s *Service) AuditLog(ctx context.Context, limit int) ([]models.AuditLog, error) {
	const op = "reports.AuditLog"
	if limit <= 0 {
		limit = AuditDefaultLimit
	}
	limit = min(limit, AuditMaxLimit)
	items, err := s.repo.ListAuditLogs(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if items == nil {
		items = []models.AuditLog{}
	}
	return items, nil
}
