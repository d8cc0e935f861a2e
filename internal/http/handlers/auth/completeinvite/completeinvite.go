// Package completeinvite задаёт пароль по ссылке из письма-приглашения.
package completeinvite

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/atom-backoffice/internal/http/response"
)

// Request токен приглашения и новый пароль.
type Request struct {
	Token    string `json:"token" validate:"required"`
	Password string `json:"password" validate:"required,max=200"`
}

// Service завершение приглашения.
type Service interface {
	CompleteInvite(ctx context.Context, token, password string) error
}

// Handler обрабатывает завершение приглашения.
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
// @Summary Завершить приглашение
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body Request true "Токен и пароль"
// @Success 200 {object} map[string]any
// @Failure 400 {object} response.ErrorResponse "WEAK_PASSWORD"
// @Failure 401 {object} response.ErrorResponse "INVALID_TOKEN"
// @Router /auth/complete-invite [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.completeinvite"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.InvalidBody(w, r, log, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		response.Invalid(w, r, log, err)
		return
	}
	if err := h.service.CompleteInvite(r.Context(), req.Token, req.Password); err != nil {
		response.Fail(w, r, log, err, "INVITE_FAILED")
		return
	}
	response.OK(w, r, nil)
}
