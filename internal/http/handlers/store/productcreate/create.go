// Package productcreate добавляет товар в каталог.
package productcreate

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/atom-backoffice/internal/http/response"
	"github.com/magabrotheeeer/atom-backoffice/internal/models"
)

// Service создание товара.
type Service interface {
	CreateProduct(ctx context.Context, in models.ProductInput) (*models.Product, error)
}

// Handler POST /store/products.
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
// @Summary Создать товар
// @Tags Store
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.ProductInput true "Товар"
// @Success 201 {object} map[string]any
// @Failure 400 {object} response.ErrorResponse "INVALID_CATEGORY, INVALID_PRICE, INVALID_INVENTORY"
// @Router /store/products [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.store.productcreate"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var in models.ProductInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		response.InvalidBody(w, r, log, err)
		return
	}
	if err := h.validate.Struct(in); err != nil {
		response.Invalid(w, r, log, err)
		return
	}
	p, err := h.service.CreateProduct(r.Context(), in)
	if err != nil {
		response.Fail(w, r, log, err, "PRODUCT_CREATE_FAILED")
		return
	}
	response.Status(w, r, http.StatusCreated, response.Fields{"product": p})
}
