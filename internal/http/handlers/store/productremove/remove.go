// Package productremove удаляет товар.
package productremove

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/atom-backoffice/internal/http/response"
	"github.com/magabrotheeeer/atom-backoffice/internal/models"
)

// Service удаление товара.
type Service interface {
	DeleteProduct(ctx context.Context, id int64) error
}

// Handler DELETE /store/products/{id}.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создаёт Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Удалить товар
// @Tags Store
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID товара"
// @Success 200 {object} map[string]any
// @Failure 404 {object} response.ErrorResponse "PRODUCT_NOT_FOUND"
// @Router /store/products/{id} [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.store.productremove"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.Fail(w, r, log, models.ErrMissingID, "")
		return
	}
	if err := h.service.DeleteProduct(r.Context(), id); err != nil {
		response.Fail(w, r, log, err, "PRODUCT_DELETE_FAILED")
		return
	}
	response.OK(w, r, response.Fields{"id": id})
}
