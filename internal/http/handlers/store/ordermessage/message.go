// Package ordermessage добавляет сообщение администратора к заказу.
package ordermessage

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

// Request текст сообщения.
type Request struct {
	Body string `json:"body" validate:"max=5000"`
}

// Service сообщения по заказу.
type Service interface {
	AddMessage(ctx context.Context, actor models.Profile, orderID int64, body string) (*models.OrderMessage, error)
}

// Handler POST /store/orders/{id}/messages.
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
// @Summary Сообщение по заказу
// @Tags Store
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID заказа"
// @Param request body Request true "Сообщение"
// @Success 201 {object} map[string]any
// @Failure 400 {object} response.ErrorResponse "INVALID_INPUT"
// @Failure 404 {object} response.ErrorResponse "ORDER_NOT_FOUND"
// @Router /store/orders/{id}/messages [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.store.ordermessage"
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
		response.Fail(w, r, log, models.ErrMissingOrderID, "")
		return
	}
	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.InvalidBody(w, r, log, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		response.Invalid(w, r, log, err)
		return
	}

	msg, err := h.service.AddMessage(r.Context(), *actor, id, req.Body)
	if err != nil {
		response.Fail(w, r, log, err, "MESSAGE_FAILED")
		return
	}
	response.Status(w, r, http.StatusCreated, response.Fields{"message": msg})
}
