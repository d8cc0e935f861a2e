// Package orderlist список заказов.
package orderlist

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/atom-backoffice/internal/http/middlewarectx"
	"github.com/magabrotheeeer/atom-backoffice/internal/http/response"
	"github.com/magabrotheeeer/atom-backoffice/internal/models"
)

// Service заказы.
type Service interface {
	ListOrders(ctx context.Context, actor models.Profile, all bool, page, limit int) ([]models.Order, int, error)
}

// Handler GET /store/orders.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создаёт Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Заказы
// @Description Свои заказы; super_admin с view=all видит все.
// @Tags Store
// @Produce json
// @Security BearerAuth
// @Param view query string false "all"
// @Param page query int false "Страница"
// @Param limit query int false "Не больше 100"
// @Success 200 {object} map[string]any
// @Router /store/orders [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.store.orderlist"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	actor, ok := middlewarectx.ActorOrFail(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))

	items, total, err := h.service.ListOrders(r.Context(), *actor, q.Get("view") == "all", page, limit)
	if err != nil {
		response.Fail(w, r, log, err, "ORDERS_FAILED")
		return
	}
	response.OK(w, r, response.Fields{"items": items, "total": total, "page": max(page, 1)})
}
