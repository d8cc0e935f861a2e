// Package markread отмечает уведомления прочитанными.
package markread

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/atom-backoffice/internal/http/middlewarectx"
	"github.com/magabrotheeeer/atom-backoffice/internal/http/response"
)

// Request id уведомлений.
type Request struct {
	IDs []int64 `json:"ids"`
}

// Service отметка прочтения.
type Service interface {
	MarkRead(ctx context.Context, userID string, ids []int64) (int, error)
}

// Handler POST /notifications/read.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создаёт Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Отметить прочитанными
// @Tags Notifications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body Request true "ids"
// @Success 200 {object} map[string]any
// @Failure 400 {object} response.ErrorResponse "NO_IDS"
// @Router /notifications/read [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.notifications.markread"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	actor, ok := middlewarectx.ActorOrFail(w, r)
	if !ok {
		return
	}
	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.InvalidBody(w, r, log, err)
		return
	}
	n, err := h.service.MarkRead(r.Context(), actor.UserID, req.IDs)
	if err != nil {
		response.Fail(w, r, log, err, "MARK_READ_FAILED")
		return
	}
	response.OK(w, r, response.Fields{"updated": n})
}
