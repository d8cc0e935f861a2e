// Package productupdate частично обновляет товар.
package productupdate

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/atom-backoffice/internal/http/response"
	"github.com/magabrotheeeer/atom-backoffice/internal/models"
)

// Service обновление товара.
type Service interface {
	UpdateProduct(ctx context.Context, in models.ProductPatch) (*models.Product, error)
}

// Handler PATCH /store/products/{id}.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создаёт Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Обновить товар
// @Tags Store
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID товара"
// @Param request body models.ProductPatch true "Изменяемые поля"
// @Success 200 {object} map[string]any
// @Failure 400 {object} response.ErrorResponse "MISSING_ID, NO_FIELDS_TO_UPDATE"
// @Failure 404 {object} response.ErrorResponse "PRODUCT_NOT_FOUND"
// @Router /store/products/{id} [patch]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.store.productupdate"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var in models.ProductPatch
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		response.InvalidBody(w, r, log, err)
		return
	}
	if raw := chi.URLParam(r, "id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			response.Fail(w, r, log, models.ErrMissingID, "")
			return
		}
		in.ID = id
	}

	p, err := h.service.UpdateProduct(r.Context(), in)
	if err != nil {
		response.Fail(w, r, log, err, "PRODUCT_UPDATE_FAILED")
		return
	}
	response.OK(w, r, response.Fields{"product": p})
}
