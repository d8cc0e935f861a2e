// Package role меняет роль пользователя.
package role

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/atom-backoffice/internal/http/middlewarectx"
	"github.com/magabrotheeeer/atom-backoffice/internal/http/response"
	"github.com/magabrotheeeer/atom-backoffice/internal/models"
)

// Service смена роли.
type Service interface {
	ChangeRole(ctx context.Context, actor models.Profile, req models.RoleChange) (*models.Profile, error)
}

// Handler POST /members/role.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создаёт Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Сменить роль
// @Tags Members
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.RoleChange true "Пользователь и роль"
// @Success 200 {object} map[string]any
// @Failure 400 {object} response.ErrorResponse "MISSING_USER_ID, INVALID_ROLE"
// @Failure 403 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse "PROFILE_NOT_FOUND"
// @Router /members/role [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.members.role"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	actor, ok := middlewarectx.ActorOrFail(w, r)
	if !ok {
		return
	}
	var req models.RoleChange
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.InvalidBody(w, r, log, err)
		return
	}
	p, err := h.service.ChangeRole(r.Context(), *actor, req)
	if err != nil {
		response.Fail(w, r, log, err, "ROLE_CHANGE_FAILED")
		return
	}
	response.OK(w, r, response.Fields{"user_id": p.UserID, "role": p.Role})
}
