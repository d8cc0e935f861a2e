// Package productlist каталог магазина.
package productlist

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/atom-backoffice/internal/http/middlewarectx"
	"github.com/magabrotheeeer/atom-backoffice/internal/http/response"
	"github.com/magabrotheeeer/atom-backoffice/internal/models"
	"github.com/magabrotheeeer/atom-backoffice/internal/services/store"
)

// Service каталог.
type Service interface {
	ListProducts(ctx context.Context, actor models.Profile, q store.ProductQuery) ([]models.Product, int, error)
}

// Handler GET /store/products.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создаёт Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Каталог
// @Tags Store
// @Produce json
// @Security BearerAuth
// @Param category query string false "kimono, rashguard, short, belt"
// @Param q query string false "Поиск по названию"
// @Param all query int false "1 для неактивных (super_admin)"
// @Param page query int false "Страница"
// @Param limit query int false "Не больше 50"
// @Success 200 {object} map[string]any
// @Failure 400 {object} response.ErrorResponse "INVALID_CATEGORY"
// @Router /store/products [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.store.productlist"
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
	query := store.ProductQuery{
		Category: q.Get("category"),
		Query:    q.Get("q"),
		All:      q.Get("all") == "1",
		Page:     page,
		Limit:    limit,
	}

	items, total, err := h.service.ListProducts(r.Context(), *actor, query)
	if err != nil {
		response.Fail(w, r, log, err, "PRODUCTS_FAILED")
		return
	}
	response.OK(w, r, response.Fields{"items": items, "total": total, "page": max(page, 1)})
}
