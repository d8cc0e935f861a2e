// Package qr отдаёт PNG с QR-кодом участника для входа через киоск.
package qr

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/atom-backoffice/internal/http/middlewarectx"
	"github.com/magabrotheeeer/atom-backoffice/internal/http/response"
	"github.com/magabrotheeeer/atom-backoffice/internal/lib/sl"
	"github.com/magabrotheeeer/atom-backoffice/internal/models"
)

// Service рендер QR.
type Service interface {
	QRCode(p models.Profile) ([]byte, error)
}

// Handler GET /me/qr.png.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создаёт Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary QR-код участника
// @Tags Me
// @Produce png
// @Security BearerAuth
// @Success 200 {file} binary
// @Router /me/qr.png [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.me.qr"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	actor, ok := middlewarectx.ActorOrFail(w, r)
	if !ok {
		return
	}
	png, err := h.service.QRCode(*actor)
	if err != nil {
		response.Fail(w, r, log, err, "QR_FAILED")
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "private, max-age=300")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(png); err != nil {
		log.Error("failed to write qr", sl.Err(err))
	}
}
