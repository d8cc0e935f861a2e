// Package expire переводит просроченные абонементы в expired.
package expire

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/atom-backoffice/internal/http/response"
)

// Service закрытие просроченных.
type Service interface {
	Expire(ctx context.Context) (int64, error)
}

// Handler POST /subscriptions/expire.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создаёт Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Закрыть просроченные абонементы
// @Tags Subscriptions
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]any
// @Router /subscriptions/expire [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscriptions.expire"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	n, err := h.service.Expire(r.Context())
	if err != nil {
		response.Fail(w, r, log, err, "EXPIRE_FAILED")
		return
	}
	response.OK(w, r, response.Fields{"expired": n})
}
