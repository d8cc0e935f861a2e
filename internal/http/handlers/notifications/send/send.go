// Package send рассылка уведомлений администраторами.
package send

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/atom-backoffice/internal/http/middlewarectx"
	"github.com/magabrotheeeer/atom-backoffice/internal/http/response"
	"github.com/magabrotheeeer/atom-backoffice/internal/models"
)

// Service рассылка.
type Service interface {
	Send(ctx context.Context, actor models.Profile, req models.BroadcastRequest) (int, error)
}

// Handler POST /notifications.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New создаёт Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service, validate: validator.New()}
}

// ServeHTTP godoc
// @Summary Разослать уведомление
// @Description audience: all_members, all_coaches, all_assistant_coaches, all_staff, custom.
// @Tags Notifications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.BroadcastRequest true "Уведомление"
// @Success 200 {object} map[string]any
// @Failure 400 {object} response.ErrorResponse "MISSING_BODY, INVALID_AUDIENCE, NO_RECIPIENTS"
// @Router /notifications [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.notifications.send"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	actor, ok := middlewarectx.ActorOrFail(w, r)
	if !ok {
		return
	}
	var req models.BroadcastRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.InvalidBody(w, r, log, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		response.Invalid(w, r, log, err)
		return
	}

	n, err := h.service.Send(r.Context(), *actor, req)
	if err != nil {
		response.Fail(w, r, log, err, "SEND_FAILED")
		return
	}
	log.Info("notifications sent", slog.Int("count", n), slog.String("audience", req.Audience))
	response.OK(w, r, response.Fields{"sent": n})
}
