// Package create записывает расход.
package create

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

// Service создание расхода.
type Service interface {
	Create(ctx context.Context, actor models.Profile, in models.ExpenseInput) (*models.Expense, error)
}

// Handler POST /expenses.
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
// @Summary Записать расход
// @Tags Expenses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.ExpenseInput true "Расход"
// @Success 201 {object} map[string]any
// @Failure 400 {object} response.ErrorResponse "UNKNOWN_CATEGORY, INVALID_AMOUNT, MISSING_DESCRIPTION"
// @Router /expenses [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.expenses.create"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	actor, ok := middlewarectx.ActorOrFail(w, r)
	if !ok {
		return
	}
	var in models.ExpenseInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		response.InvalidBody(w, r, log, err)
		return
	}
	if err := h.validate.Struct(in); err != nil {
		response.Invalid(w, r, log, err)
		return
	}
	e, err := h.service.Create(r.Context(), *actor, in)
	if err != nil {
		response.Fail(w, r, log, err, "EXPENSE_CREATE_FAILED")
		return
	}
	response.Status(w, r, http.StatusCreated, response.Fields{"expense": e})
}
