// Package stats KPI клуба и выручка за период.
package stats

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/atom-backoffice/internal/http/response"
)

// Service статистика.
type Service interface {
	Stats(ctx context.Context, kind, fromRaw, toRaw string) (any, error)
}

// Handler GET /reports/stats.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создаёт Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Статистика
// @Description type=kpi текущие показатели (кэш 60с), type=revenue выручка по дням и планам.
// @Tags Reports
// @Produce json
// @Security BearerAuth
// @Param type query string true "kpi или revenue"
// @Param from query string false "YYYY-MM-DD"
// @Param to query string false "YYYY-MM-DD"
// @Success 200 {object} map[string]any
// @Failure 400 {object} response.ErrorResponse "INVALID_TYPE"
// @Router /reports/stats [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.reports.stats"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	q := r.URL.Query()
	data, err := h.service.Stats(r.Context(), q.Get("type"), q.Get("from"), q.Get("to"))
	if err != nil {
		response.Fail(w, r, log, err, "STATS_FAILED")
		return
	}
	response.OK(w, r, response.Fields{"type": q.Get("type"), "data": data})
}
