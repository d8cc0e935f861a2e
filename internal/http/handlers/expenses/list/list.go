// Package list расходы за период.
package list

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/atom-backoffice/internal/http/response"
	"github.com/magabrotheeeer/atom-backoffice/internal/models"
)

// Service расходы.
type Service interface {
	List(ctx context.Context, fromRaw, toRaw string) ([]models.Expense, error)
}

// Handler GET /expenses.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создаёт Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Расходы
// @Tags Expenses
// @Produce json
// @Security BearerAuth
// @Param from query string false "YYYY-MM-DD"
// @Param to query string false "YYYY-MM-DD"
// @Success 200 {object} map[string]any
// @Failure 400 {object} response.ErrorResponse "INVALID_RANGE"
// @Router /expenses [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.expenses.list"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	q := r.URL.Query()
	items, err := h.service.List(r.Context(), q.Get("from"), q.Get("to"))
	if err != nil {
		response.Fail(w, r, log, err, "EXPENSES_FAILED")
		return
	}
	response.OK(w, r, response.Fields{"items": items})
}
