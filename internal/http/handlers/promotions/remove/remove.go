// Package remove удаляет акцию.
package remove

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

// Service удаление акции.
type Service interface {
	Delete(ctx context.Context, id int64) error
}

// Handler DELETE /promotions/{id}.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создаёт Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Удалить акцию
// @Tags Promotions
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID акции"
// @Success 200 {object} map[string]any
// @Failure 404 {object} response.ErrorResponse "PROMOTION_NOT_FOUND"
// @Router /promotions/{id} [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.promotions.remove"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.Fail(w, r, log, models.ErrMissingID, "")
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		response.Fail(w, r, log, err, "PROMOTION_DELETE_FAILED")
		return
	}
	response.OK(w, r, response.Fields{"id": id})
}
