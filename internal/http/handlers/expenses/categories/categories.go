// Package categories справочник категорий расходов.
package categories

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/atom-backoffice/internal/http/response"
	"github.com/magabrotheeeer/atom-backoffice/internal/models"
)

// Service категории.
type Service interface {
	Categories(ctx context.Context) ([]models.ExpenseCategory, error)
}

// Handler GET /expenses/categories.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создаёт Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Категории расходов
// @Tags Expenses
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]any
// @Router /expenses/categories [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.expenses.categories"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	items, err := h.service.Categories(r.Context())
	if err != nil {
		response.Fail(w, r, log, err, "CATEGORIES_FAILED")
		return
	}
	response.OK(w, r, response.Fields{"items": items})
}
