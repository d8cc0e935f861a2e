// Package issue оформляет абонемент на стойке.
package issue

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

// Service оформление абонемента.
type Service interface {
	Issue(ctx context.Context, actor models.Profile, req models.IssueRequest) (*models.Subscription, error)
}

// Handler POST /subscriptions.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создаёт Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Оформить абонемент
// @Description Участник ищется по memberId, member_qr или member_email.
// @Tags Subscriptions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.IssueRequest true "Абонемент"
// @Success 201 {object} map[string]any
// @Failure 400 {object} response.ErrorResponse "INVALID_PLAN, INVALID_MEMBER_ID, START_DATE_REQUIRED"
// @Router /subscriptions [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscriptions.issue"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	actor, ok := middlewarectx.ActorOrFail(w, r)
	if !ok {
		return
	}
	var req models.IssueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.InvalidBody(w, r, log, err)
		return
	}

	sub, err := h.service.Issue(r.Context(), *actor, req)
	if err != nil {
		response.Fail(w, r, log, err, "SUBSCRIPTION_CREATE_FAILED")
		return
	}
	log.Info("subscription issued", slog.Int64("id", sub.ID))
	response.Status(w, r, http.StatusCreated, response.Fields{"subscription": sub})
}
