// Package create создаёт акцию.
package create

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

// Service создание акции.
type Service interface {
	Create(ctx context.Context, in models.PromotionInput) (*models.Promotion, error)
}

// Handler POST /promotions.
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
// @Summary Создать акцию
// @Tags Promotions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.PromotionInput true "Акция"
// @Success 201 {object} map[string]any
// @Failure 400 {object} response.ErrorResponse "MISSING_TITLE, INVALID_DISCOUNT, INVALID_APPLIES_TO, INVALID_DATE_RANGE"
// @Router /promotions [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.promotions.create"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var in models.PromotionInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		response.InvalidBody(w, r, log, err)
		return
	}
	if err := h.validate.Struct(in); err != nil {
		response.Invalid(w, r, log, err)
		return
	}
	p, err := h.service.Create(r.Context(), in)
	if err != nil {
		response.Fail(w, r, log, err, "PROMOTION_CREATE_FAILED")
		return
	}
	response.Status(w, r, http.StatusCreated, response.Fields{"promotion": p})
}
