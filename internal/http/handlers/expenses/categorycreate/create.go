// Package categorycreate добавляет категорию расходов.
package categorycreate

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

// Service создание категории.
type Service interface {
	CreateCategory(ctx context.Context, in models.CategoryInput) (*models.ExpenseCategory, error)
}

// Handler POST /expenses/categories.
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
// @Summary Создать категорию
// @Tags Expenses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.CategoryInput true "Категория"
// @Success 201 {object} map[string]any
// @Failure 400 {object} response.ErrorResponse "INVALID_CATEGORY_KEY"
// @Failure 409 {object} response.ErrorResponse "CATEGORY_EXISTS"
// @Router /expenses/categories [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.expenses.categorycreate"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var in models.CategoryInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		response.InvalidBody(w, r, log, err)
		return
	}
	if err := h.validate.Struct(in); err != nil {
		response.Invalid(w, r, log, err)
		return
	}
	c, err := h.service.CreateCategory(r.Context(), in)
	if err != nil {
		response.Fail(w, r, log, err, "CATEGORY_CREATE_FAILED")
		return
	}
	response.Status(w, r, http.StatusCreated, response.Fields{"category": c})
}
