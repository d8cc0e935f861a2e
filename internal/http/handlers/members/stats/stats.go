// Package stats сводка по участникам.
package stats

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/atom-backoffice/internal/http/response"
	"github.com/magabrotheeeer/atom-backoffice/internal/models"
)

// Service сводка.
type Service interface {
	Stats(ctx context.Context) (models.MemberStats, error)
}

// Handler GET /members/stats.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создаёт Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Сводка по участникам
// @Tags Members
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.MemberStats
// @Router /members/stats [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.members.stats"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	st, err := h.service.Stats(r.Context())
	if err != nil {
		response.Fail(w, r, log, err, "STATS_FAILED")
		return
	}
	response.OK(w, r, response.Fields{"total": st.Total, "active": st.Active, "inactive": st.Inactive})
}
