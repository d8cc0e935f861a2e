// Package logout отзывает текущий токен.
package logout

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/atom-backoffice/internal/http/middlewarectx"
	"github.com/magabrotheeeer/atom-backoffice/internal/http/response"
	"github.com/magabrotheeeer/atom-backoffice/internal/lib/jwt"
)

// Service выход.
type Service interface {
	Logout(ctx context.Context, claims *jwt.CustomClaims) error
}

// Handler обрабатывает выход.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создаёт Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Выход
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]any
// @Router /auth/logout [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.logout"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	if err := h.service.Logout(r.Context(), middlewarectx.Claims(r.Context())); err != nil {
		response.Fail(w, r, log, err, "LOGOUT_FAILED")
		return
	}
	response.OK(w, r, nil)
}
