// Package health отвечает на проверки живости и готовности.
package health

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/atom-backoffice/internal/http/response"
	"github.com/magabrotheeeer/atom-backoffice/internal/lib/sl"
)

// Pinger проверяет зависимость.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler проверка готовности.
type Handler struct {
	log  *slog.Logger
	deps map[string]Pinger
}

// New создаёт Handler. deps проверяются на каждом запросе.
func New(log *slog.Logger, deps map[string]Pinger) *Handler {
	return &Handler{log: log, deps: deps}
}

// ServeHTTP godoc
// @Summary Проверка готовности
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]any
// @Failure 503 {object} response.ErrorResponse
// @Router /health [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.health"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	for name, dep := range h.deps {
		if err := dep.Ping(r.Context()); err != nil {
			log.Error("dependency is down", slog.String("dependency", name), sl.Err(err))
			response.Error(w, r, http.StatusServiceUnavailable, "DEPENDENCY_DOWN", name)
			return
		}
	}
	response.OK(w, r, response.Fields{"status": "ok"})
}
