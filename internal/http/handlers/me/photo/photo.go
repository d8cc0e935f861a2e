// Package photo загружает фото для пропуска участника.
package photo

import (
	"context"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/atom-backoffice/internal/http/middlewarectx"
	"github.com/magabrotheeeer/atom-backoffice/internal/http/response"
	"github.com/magabrotheeeer/atom-backoffice/internal/models"
)

// MaxUploadBytes предел размера тела запроса.
const MaxUploadBytes = 8 << 20

// Service сохранение фото.
type Service interface {
	UploadPhoto(ctx context.Context, userID string, r io.Reader) (string, error)
}

// Handler POST /me/photo, multipart поле photo.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создаёт Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Загрузить фото
// @Tags Me
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param photo formData file true "Фото"
// @Success 200 {object} map[string]any
// @Failure 400 {object} response.ErrorResponse "INVALID_PHOTO"
// @Router /me/photo [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.me.photo"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	actor, ok := middlewarectx.ActorOrFail(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadBytes)
	file, _, err := r.FormFile("photo")
	if err != nil {
		response.Fail(w, r, log, models.ErrInvalidPhoto.WithDetails(err.Error()), "")
		return
	}
	defer file.Close()

	key, err := h.service.UploadPhoto(r.Context(), actor.UserID, file)
	if err != nil {
		response.Fail(w, r, log, err, "UPLOAD_FAILED")
		return
	}
	response.OK(w, r, response.Fields{"id_photo_path": key})
}
