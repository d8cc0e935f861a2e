// Package staff список тренеров и помощников.
package staff

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/atom-backoffice/internal/http/response"
	"github.com/magabrotheeeer/atom-backoffice/internal/models"
)

// Service список тренеров.
type Service interface {
	StaffList(ctx context.Context) ([]models.Profile, error)
}

// Handler GET /staff.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создаёт Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Тренерский состав
// @Tags Members
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]any
// @Router /staff [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.members.staff"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	items, err := h.service.StaffList(r.Context())
	if err != nil {
		response.Fail(w, r, log, err, "STAFF_FAILED")
		return
	}
	response.OK(w, r, response.Fields{"items": items})
}
