// Package create реализует создание участника на стойке.
//
// Тело принимает имена как в snake_case, так и в camelCase: форма стойки
// и старые клиенты отправляют разные варианты.
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

// Request данные нового участника.
type Request struct {
	Email          string `json:"email" validate:"max=254"`
	FirstName      string `json:"first_name" validate:"max=100"`
	FirstNameCamel string `json:"firstName" validate:"max=100"`
	LastName       string `json:"last_name" validate:"max=100"`
	LastNameCamel  string `json:"lastName" validate:"max=100"`
	Phone          string `json:"phone" validate:"max=40"`
}

func (r Request) toModel() models.NewMemberRequest {
	req := models.NewMemberRequest{Email: r.Email, FirstName: r.FirstName, LastName: r.LastName, Phone: r.Phone}
	if req.FirstName == "" {
		req.FirstName = r.FirstNameCamel
	}
	if req.LastName == "" {
		req.LastName = r.LastNameCamel
	}
	return req
}

// Service создание участника.
type Service interface {
	CreateMember(ctx context.Context, actor models.Profile, req models.NewMemberRequest) (*models.CreateMemberResult, error)
}

// Handler POST /members.
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
// @Summary Создать участника
// @Description Создаёт профиль и отправляет приглашение. Для существующего email дополняет профиль.
// @Tags Members
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body Request true "Участник"
// @Success 200 {object} models.CreateMemberResult
// @Failure 400 {object} response.ErrorResponse "MISSING_EMAIL, INVALID_EMAIL"
// @Failure 403 {object} response.ErrorResponse
// @Router /members [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.members.create"
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
	if err := h.validate.Struct(req); err != nil {
		response.Invalid(w, r, log, err)
		return
	}

	res, err := h.service.CreateMember(r.Context(), *actor, req.toModel())
	if err != nil {
		response.Fail(w, r, log, err, "MEMBER_CREATE_FAILED")
		return
	}
	response.OK(w, r, response.Fields{
		"user_id":     res.UserID,
		"existed":     res.Existed,
		"invite_sent": res.InviteSent,
		"profile":     res.Profile,
	})
}
