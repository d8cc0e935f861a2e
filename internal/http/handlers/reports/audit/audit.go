// Package audit журнал действий персонала.
package audit

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/atom-backoffice/internal/http/response"
	"github.com/magabrotheeeer/atom-backoffice/internal/models"
)

// Service журнал.
type Service interface {
	AuditLog(ctx context.Context, limit int) ([]models.AuditLog, error)
}

// Handler GET /reports/audit.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создаёт Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Журнал аудита
// @Tags Reports
// @Produce json
// @Security BearerAuth
// @Param limit query int false "По умолчанию 50, не больше 200"
// @Success 200 {object} map[string]any
// @Router /reports/audit [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.reports.audit"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	items, err := h.service.AuditLog(r.Context(), limit)
	if err != nil {
		response.Fail(w, r, log, err, "AUDIT_FAILED")
		return
	}
	response.OK(w, r, response.Fields{"items": items})
}
