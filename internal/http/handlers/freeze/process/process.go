// Package process отмена, одобрение и отклонение заявки на заморозку.
package process

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/atom-backoffice/internal/http/middlewarectx"
	"github.com/magabrotheeeer/atom-backoffice/internal/http/response"
	"github.com/magabrotheeeer/atom-backoffice/internal/models"
)

// Service обработка заявки.
type Service interface {
	Process(ctx context.Context, actor models.Profile, id int64, req models.FreezeProcessRequest) (*models.FreezeRequest, error)
}

// Handler PATCH /freeze-requests/{id}.
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
// @Summary Обработать заявку
// @Description cancel доступен владельцу, approve и deny администраторам.
// @Tags Freeze
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID заявки"
// @Param request body models.FreezeProcessRequest true "Действие"
// @Success 200 {object} map[string]any
// @Failure 400 {object} response.ErrorResponse "INVALID_ACTION"
// @Failure 403 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Failure 409 {object} response.ErrorResponse "NOT_PENDING"
// @Router /freeze-requests/{id} [patch]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.freeze.process"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	actor, ok := middlewarectx.ActorOrFail(w, r)
	if !ok {
		return
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.Fail(w, r, log, models.ErrNotFound, "")
		return
	}
	var req models.FreezeProcessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.InvalidBody(w, r, log, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		response.Invalid(w, r, log, err)
		return
	}

	f, err := h.service.Process(r.Context(), *actor, id, req)
	if err != nil {
		response.Fail(w, r, log, err, "FREEZE_PROCESS_FAILED")
		return
	}
	response.OK(w, r, response.Fields{"request": f})
}
