// Package export отдаёт CSV выгрузки посещений и абонементов.
package export

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/atom-backoffice/internal/http/response"
	"github.com/magabrotheeeer/atom-backoffice/internal/lib/sl"
	"github.com/magabrotheeeer/atom-backoffice/internal/models"
)

// Виды выгрузок в пути запроса.
const (
	KindAttendance    = "attendance"
	KindSubscriptions = "subscriptions"
	KindActiveNow     = "active-now"
)

// Service выгрузки.
type Service interface {
	ExportAttendance(ctx context.Context, fromRaw, toRaw string) (*models.CSVFile, error)
	ExportSubscriptions(ctx context.Context, fromRaw, toRaw string) (*models.CSVFile, error)
	ExportActiveNow(ctx context.Context) (*models.CSVFile, error)
}

// Handler GET /reports/export/{kind}.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создаёт Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary CSV выгрузка
// @Tags Reports
// @Produce text/csv
// @Security BearerAuth
// @Param kind path string true "attendance, subscriptions, active-now"
// @Param from query string false "YYYY-MM-DD, обязателен кроме active-now"
// @Param to query string false "YYYY-MM-DD, обязателен кроме active-now"
// @Success 200 {file} file
// @Failure 400 {object} response.ErrorResponse "INVALID_RANGE, INVALID_TYPE"
// @Router /reports/export/{kind} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.reports.export"
	kind := chi.URLParam(r, "kind")
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
		slog.String("kind", kind),
	)

	q := r.URL.Query()
	var (
		file *models.CSVFile
		err  error
	)
	switch kind {
	case KindAttendance:
		file, err = h.service.ExportAttendance(r.Context(), q.Get("from"), q.Get("to"))
	case KindSubscriptions:
		file, err = h.service.ExportSubscriptions(r.Context(), q.Get("from"), q.Get("to"))
	case KindActiveNow:
		file, err = h.service.ExportActiveNow(r.Context())
	default:
		err = models.ErrInvalidType
	}
	if err != nil {
		response.Fail(w, r, log, err, "EXPORT_FAILED")
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(file.Content)))
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(file.Content); err != nil {
		log.Warn("failed to write csv", sl.Err(err))
		return
	}
	log.Info("csv exported", slog.String("filename", file.Filename), slog.Int("bytes", len(file.Content)))
}
