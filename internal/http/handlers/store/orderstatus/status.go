// Package orderstatus меняет статус заказа и уведомляет покупателя.
package orderstatus

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/atom-backoffice/internal/http/middlewarectx"
	"github.com/magabrotheeeer/atom-backoffice/internal/http/response"
	"github.com/magabrotheeeer/atom-backoffice/internal/models"
)

// Request новый статус.
type Request struct {
	Status string `json:"status"`
}

// Service смена статуса.
type Service interface {
	UpdateStatus(ctx context.Context, actor models.Profile, id int64, rawStatus string) (*models.StatusChangeResult, error)
}

// Handler PATCH /store/orders/{id}/status.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создаёт Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Статус заказа
// @Tags Store
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID заказа"
// @Param request body Request true "Статус"
// @Success 200 {object} models.StatusChangeResult
// @Failure 400 {object} response.ErrorResponse "MISSING_ORDER_ID, INVALID_STATUS"
// @Failure 404 {object} response.ErrorResponse "ORDER_NOT_FOUND"
// @Router /store/orders/{id}/status [patch]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.store.orderstatus"
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

	res, err := h.service.UpdateStatus(r.Context(), *actor, id, req.Status)
	if err != nil {
		response.Fail(w, r, log, err, "ORDER_UPDATE_FAILED")
		return
	}
	fields := response.Fields{"id": res.ID, "status": res.Status}
	if res.Warn != "" {
		fields["warn"] = res.Warn
	}
	response.OK(w, r, fields)
}
