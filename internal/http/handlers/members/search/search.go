// Package search ищет участников по имени, email, телефону или id.
package search

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/atom-backoffice/internal/http/response"
	"github.com/magabrotheeeer/atom-backoffice/internal/models"
)

// Service поиск.
type Service interface {
	Search(ctx context.Context, q string, limit int) ([]models.Profile, error)
}

// Handler GET /members/search?q=&limit=.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создаёт Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Поиск участников
// @Tags Members
// @Produce json
// @Security BearerAuth
// @Param q query string false "Строка поиска"
// @Param limit query int false "Не больше 200"
// @Success 200 {object} map[string]any
// @Router /members/search [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.members.search"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	items, err := h.service.Search(r.Context(), r.URL.Query().Get("q"), limit)
	if err != nil {
		response.Fail(w, r, log, err, "SEARCH_FAILED")
		return
	}
	response.OK(w, r, response.Fields{"items": items})
}
