// Package inactive список участников без действующего абонемента.
package inactive

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/atom-backoffice/internal/http/response"
	"github.com/magabrotheeeer/atom-backoffice/internal/models"
	"github.com/magabrotheeeer/atom-backoffice/internal/services/members"
)

// Service участники без абонемента.
type Service interface {
	Inactive(ctx context.Context, page int) ([]models.Profile, int, error)
}

// Handler GET /members/inactive?page=.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создаёт Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Неактивные участники
// @Tags Members
// @Produce json
// @Security BearerAuth
// @Param page query int false "Страница с 1"
// @Success 200 {object} map[string]any
// @Router /members/inactive [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.members.inactive"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	page = max(page, 1)
	items, total, err := h.service.Inactive(r.Context(), page)
	if err != nil {
		response.Fail(w, r, log, err, "INACTIVE_FAILED")
		return
	}
	response.OK(w, r, response.Fields{
		"page":     page,
		"pageSize": members.InactivePageSize,
		"total":    total,
		"items":    items,
	})
}
