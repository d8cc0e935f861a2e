// Package create заявка участника на заморозку абонемента.
package create

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

// Service заявки на заморозку.
type Service interface {
	Create(ctx context.Context, actor models.Profile, req models.FreezeCreateRequest) (*models.FreezeRequest, error)
}

// Handler POST /freeze-requests.
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
// @Summary Заявка на заморозку
// @Tags Freeze
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.FreezeCreateRequest true "Заявка"
// @Success 201 {object} map[string]any
// @Failure 409 {object} response.ErrorResponse "PENDING_EXISTS"
// @Failure 422 {object} response.ErrorResponse "INVALID_DATE, REASON_TOO_SHORT"
// @Router /freeze-requests [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.freeze.create"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	actor, ok := middlewarectx.ActorOrFail(w, r)
	if !ok {
		return
	}
	var req models.FreezeCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.InvalidBody(w, r, log, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		response.Invalid(w, r, log, err)
		return
	}
	f, err := h.service.Create(r.Context(), *actor, req)
	if err != nil {
		response.Fail(w, r, log, err, "FREEZE_CREATE_FAILED")
		return
	}
	response.Status(w, r, http.StatusCreated, response.Fields{"request": f})
}
