// Package list лента уведомлений пользователя.
package list

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/atom-backoffice/internal/http/middlewarectx"
	"github.com/magabrotheeeer/atom-backoffice/internal/http/response"
	"github.com/magabrotheeeer/atom-backoffice/internal/models"
)

// Service лента.
type Service interface {
	List(ctx context.Context, userID string, f models.NotificationFilter) (*models.NotificationPage, error)
}

// Handler GET /notifications.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создаёт Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Мои уведомления
// @Tags Notifications
// @Produce json
// @Security BearerAuth
// @Param page query int false "Страница"
// @Param limit query int false "Не больше 100"
// @Param unread query int false "1 только непрочитанные"
// @Param kind query string false "info, order_update, billing, promo"
// @Param q query string false "Поиск по заголовку и тексту"
// @Success 200 {object} models.NotificationPage
// @Router /notifications [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.notifications.list"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	actor, ok := middlewarectx.ActorOrFail(w, r)
	if !ok {
		return
	}
	page, err := h.service.List(r.Context(), actor.UserID, Filter(r))
	if err != nil {
		response.Fail(w, r, log, err, "NOTIFICATIONS_FAILED")
		return
	}
	response.OK(w, r, response.Fields{
		"page":     page.Page,
		"pageSize": page.PageSize,
		"total":    page.Total,
		"items":    page.Items,
	})
}
