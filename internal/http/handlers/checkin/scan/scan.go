// Package scan обрабатывает сканирование QR на киоске у входа.
package scan

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

// Request отсканированный код.
type Request struct {
	QR string `json:"qr"`
}

// Service отметка посещения.
type Service interface {
	Scan(ctx context.Context, actor models.Profile, code string) (*models.ScanResult, error)
}

// Handler POST /checkin/scan.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создаёт Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Сканирование QR
// @Description Отмечает посещение и списывает занятие из пакета. valid=false, если абонемента нет.
// @Tags Checkin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body Request true "Код"
// @Success 200 {object} models.ScanResult
// @Failure 400 {object} response.ErrorResponse "MISSING_QR"
// @Failure 404 {object} response.ErrorResponse "INVALID_QR"
// @Router /checkin/scan [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.checkin.scan"
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

	res, err := h.service.Scan(r.Context(), *actor, req.QR)
	if err != nil {
		response.Fail(w, r, log, err, "SCAN_FAILED")
		return
	}
	response.OK(w, r, response.Fields{
		"valid":           res.Valid,
		"member_id":       res.MemberID,
		"subscription_id": res.SubscriptionID,
		"message":         res.Message,
	})
}
