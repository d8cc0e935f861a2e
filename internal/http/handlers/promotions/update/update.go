// Package update заменяет поля акции.
package update

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/atom-backoffice/internal/http/response"
	"github.com/magabrotheeeer/atom-backoffice/internal/models"
)

// Service обновление акции.
type Service interface {
	Update(ctx context.Context, id int64, in models.PromotionInput) (*models.Promotion, error)
}

// Handler PUT /promotions/{id}.
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
// @Summary Обновить акцию
// @Tags Promotions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID акции"
// @Param request body models.PromotionInput true "Акция"
// @Success 200 {object} map[string]any
// @Failure 400 {object} response.ErrorResponse "MISSING_ID"
// @Failure 404 {object} response.ErrorResponse "PROMOTION_NOT_FOUND"
// @Router /promotions/{id} [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.promotions.update"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.Fail(w, r, log, models.ErrMissingID, "")
		return
	}
	var in models.PromotionInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		response.InvalidBody(w, r, log, err)
		return
	}
	if err := h.validate.Struct(in); err != nil {
		response.Invalid(w, r, log, err)
		return
	}
	p, err := h.service.Update(r.Context(), id, in)
	if err != nil {
		response.Fail(w, r, log, err, "PROMOTION_UPDATE_FAILED")
		return
	}
	response.OK(w, r, response.Fields{"promotion": p})
}
