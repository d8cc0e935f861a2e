// Package action продление, пауза, возобновление и разовое посещение.
package action

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

// Service действие над абонементом.
type Service interface {
	Action(ctx context.Context, actor models.Profile, req models.ActionRequest) (*models.ActionResult, error)
}

// Handler POST /subscriptions/action.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создаёт Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Действие над абонементом
// @Description action: renew, pause, resume, add_dropin.
// @Tags Subscriptions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.ActionRequest true "Действие"
// @Success 200 {object} models.ActionResult
// @Failure 400 {object} response.ErrorResponse "INVALID_ACTION, INVALID_PLAN"
// @Failure 404 {object} response.ErrorResponse "NO_SUBSCRIPTION"
// @Router /subscriptions/action [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscriptions.action"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	actor, ok := middlewarectx.ActorOrFail(w, r)
	if !ok {
		return
	}
	var req models.ActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.InvalidBody(w, r, log, err)
		return
	}

	res, err := h.service.Action(r.Context(), *actor, req)
	if err != nil {
		response.Fail(w, r, log, err, "ACTION_FAILED")
		return
	}
	response.OK(w, r, response.Fields{"action": res.Action, "mode": res.Mode, "subscription": res.Subscription})
}
