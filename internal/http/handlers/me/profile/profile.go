// Package profile отдаёт профиль текущего пользователя вместе с его абонементами.
package profile

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/atom-backoffice/internal/http/middlewarectx"
	"github.com/magabrotheeeer/atom-backoffice/internal/http/response"
	"github.com/magabrotheeeer/atom-backoffice/internal/models"
	profilesvc "github.com/magabrotheeeer/atom-backoffice/internal/services/profile"
)

// Service чтение своего профиля.
type Service interface {
	Me(ctx context.Context, p models.Profile) (*profilesvc.Me, error)
}

// Handler GET /me.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создаёт Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Мой профиль
// @Tags Me
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]any
// @Failure 401 {object} response.ErrorResponse
// @Router /me [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.me.profile"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	actor, ok := middlewarectx.ActorOrFail(w, r)
	if !ok {
		return
	}
	me, err := h.service.Me(r.Context(), *actor)
	if err != nil {
		response.Fail(w, r, log, err, "PROFILE_FAILED")
		return
	}
	response.OK(w, r, response.Fields{"profile": me.Profile, "subscriptions": me.Subscriptions})
}
