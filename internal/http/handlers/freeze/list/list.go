// Package list заявки на заморозку.
package list

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/atom-backoffice/internal/http/middlewarectx"
	"github.com/magabrotheeeer/atom-backoffice/internal/http/response"
	"github.com/magabrotheeeer/atom-backoffice/internal/models"
)

// Service список заявок.
type Service interface {
	List(ctx context.Context, actor models.Profile, status string) ([]models.FreezeRequest, error)
}

// Handler GET /freeze-requests.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создаёт Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Заявки на заморозку
// @Description Администраторы видят все заявки, участники только свои.
// @Tags Freeze
// @Produce json
// @Security BearerAuth
// @Param status query string false "pending, approved, denied, cancelled"
// @Success 200 {object} map[string]any
// @Router /freeze-requests [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.freeze.list"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	actor, ok := middlewarectx.ActorOrFail(w, r)
	if !ok {
		return
	}
	items, err := h.service.List(r.Context(), *actor, r.URL.Query().Get("status"))
	if err != nil {
		response.Fail(w, r, log, err, "FREEZE_LIST_FAILED")
		return
	}
	response.OK(w, r, response.Fields{"items": items})
}
