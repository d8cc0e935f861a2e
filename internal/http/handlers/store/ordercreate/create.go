// Package ordercreate оформляет заказ в магазине клуба.
package ordercreate

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/atom-backoffice/internal/http/middlewarectx"
	"github.com/magabrotheeeer/atom-backoffice/internal/http/response"
	"github.com/magabrotheeeer/atom-backoffice/internal/models"
)

// Service оформление заказа.
type Service interface {
	CreateOrder(ctx context.Context, actor models.Profile, req models.CreateOrderRequest) (*models.CreateOrderResult, error)
}

// Handler POST /store/orders.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New создаёт Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service, validate: validator.New()}
}

// ServeHTTP godoc
// @Summary Оформить заказ
// @Description Цены фиксируются на момент заказа, скидка по роли распределяется по строкам.
// @Tags Store
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.CreateOrderRequest true "Корзина"
// @Success 201 {object} models.CreateOrderResult
// @Failure 400 {object} response.ErrorResponse "NO_ITEMS, PRODUCTS_NOT_FOUND, PRODUCT_INACTIVE"
// @Failure 403 {object} response.ErrorResponse
// @Router /store/orders [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.store.ordercreate"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	actor, ok := middlewarectx.ActorOrFail(w, r)
	if !ok {
		return
	}
	var req models.CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.InvalidBody(w, r, log, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		response.Invalid(w, r, log, err)
		return
	}

	res, err := h.service.CreateOrder(r.Context(), *actor, req)
	if err != nil {
		response.Fail(w, r, log, err, "ORDER_CREATE_FAILED")
		return
	}
	response.Status(w, r, http.StatusCreated, response.Fields{
		"id":           res.ID,
		"total_cents":  res.TotalCents,
		"discount_pct": res.DiscountPct,
		"status":       res.Status,
	})
}
