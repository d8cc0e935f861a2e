// Package list акции клуба.
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

// Service акции.
type Service interface {
	List(ctx context.Context, actor models.Profile, all bool) ([]models.Promotion, error)
}

// Handler GET /promotions.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создаёт Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Акции
// @Description Все видят действующие акции; super_admin с all=1 видит все.
// @Tags Promotions
// @Produce json
// @Security BearerAuth
// @Param all query int false "1 все акции"
// @Success 200 {object} map[string]any
// @Router /promotions [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.promotions.list"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	actor, ok := middlewarectx.ActorOrFail(w, r)
	if !ok {
		return
	}
	items, err := h.service.List(r.Context(), *actor, r.URL.Query().Get("all") == "1")
	if err != nil {
		response.Fail(w, r, log, err, "PROMOTIONS_FAILED")
		return
	}
	response.OK(w, r, response.Fields{"items": items})
}
