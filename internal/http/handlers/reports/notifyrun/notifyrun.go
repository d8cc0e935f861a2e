// Package notifyrun ручной запуск рассылки напоминаний.
package notifyrun

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/atom-backoffice/internal/http/response"
	"github.com/magabrotheeeer/atom-backoffice/internal/models"
)

// Service напоминания.
type Service interface {
	Run(ctx context.Context, dry bool) (*models.ReminderRunResult, error)
}

// Handler POST /reports/notify-run.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создаёт Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Запустить напоминания
// @Description Ищет абонементы, истекающие через 7 дней, и пакеты с остатком не больше 2 занятий. dry=1 только показывает кандидатов.
// @Tags Reports
// @Produce json
// @Security BearerAuth
// @Param dry query int false "1 без отправки"
// @Success 200 {object} models.ReminderRunResult
// @Router /reports/notify-run [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.reports.notifyrun"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	dry := r.URL.Query().Get("dry") == "1"
	res, err := h.service.Run(r.Context(), dry)
	if err != nil {
		response.Fail(w, r, log, err, "NOTIFY_RUN_FAILED")
		return
	}
	fields := response.Fields{
		"dry":        res.Dry,
		"candidates": res.Candidates,
		"queued":     res.Queued,
		"skipped":    res.Skipped,
	}
	if dry {
		fields["items"] = res.Items
	}
	response.OK(w, r, fields)
}
