// Package contact обращение участника к администрации клуба.
package contact

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

// Service обращение.
type Service interface {
	Contact(ctx context.Context, actor models.Profile, req models.ContactRequest) (int, error)
}

// Handler POST /notifications/contact.
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
// @Summary Написать администрации
// @Tags Notifications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.ContactRequest true "Сообщение"
// @Success 200 {object} map[string]any
// @Failure 400 {object} response.ErrorResponse "MISSING_MESSAGE, NO_SUPER_ADMINS_OR_ADMINS"
// @Failure 403 {object} response.ErrorResponse
// @Router /notifications/contact [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.notifications.contact"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	actor, ok := middlewarectx.ActorOrFail(w, r)
	if !ok {
		return
	}
	var req models.ContactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.InvalidBody(w, r, log, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		response.Invalid(w, r, log, err)
		return
	}
	n, err := h.service.Contact(r.Context(), *actor, req)
	if err != nil {
		response.Fail(w, r, log, err, "CONTACT_FAILED")
		return
	}
	response.OK(w, r, response.Fields{"sent": n})
}
