// Package response формирует JSON ответы API в едином конверте
// {"ok":true,...} или {"ok":false,"error":"CODE","details":"..."}.
package response

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/atom-backoffice/internal/lib/sl"
	"github.com/magabrotheeeer/atom-backoffice/internal/models"
)

// ServerError код ответа для непредвиденных ошибок.
const ServerError = "SERVER_ERROR"

// Fields поля успешного ответа рядом с ok.
type Fields map[string]any

// ErrorResponse описание ошибки для Swagger.
type ErrorResponse struct {
	OK      bool   `json:"ok" example:"false"`
	Error   string `json:"error" example:"INVALID_BODY"`
	Details string `json:"details,omitempty" example:"unexpected EOF"`
}

// OK отвечает 200 с ok=true и переданными полями.
func OK(w http.ResponseWriter, r *http.Request, fields Fields) {
	Status(w, r, http.StatusOK, fields)
}

// Status отвечает с указанным статусом и ok=true.
func Status(w http.ResponseWriter, r *http.Request, status int, fields Fields) {
	body := make(map[string]any, len(fields)+1)
	for k, v := range fields {
		body[k] = v
	}
	body["ok"] = true
	render.Status(r, status)
	render.JSON(w, r, body)
}

// Error отвечает ошибкой с кодом.
func Error(w http.ResponseWriter, r *http.Request, status int, code, details string) {
	render.Status(r, status)
	render.JSON(w, r, ErrorResponse{Error: code, Details: details})
}

// HTTPStatus статус ответа для класса ошибки.
func HTTPStatus(kind models.Kind) int {
	switch kind {
	case models.KindInvalid:
		return http.StatusBadRequest
	case models.KindUnprocessable:
		return http.StatusUnprocessableEntity
	case models.KindUnauthenticated:
		return http.StatusUnauthorized
	case models.KindForbidden:
		return http.StatusForbidden
	case models.KindNotFound:
		return http.StatusNotFound
	case models.KindConflict:
		return http.StatusConflict
	case models.KindTooMany:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// Fail отвечает на ошибку сервиса. Кодированные ошибки уходят клиенту как есть,
// остальные логируются и превращаются в 500 с кодом fallback.
func Fail(w http.ResponseWriter, r *http.Request, log *slog.Logger, err error, fallback string) {
	var coded *models.CodedError
	if errors.As(err, &coded) {
		log.Info("request rejected", slog.String("code", coded.Code), slog.String("details", coded.Details))
		Error(w, r, HTTPStatus(coded.Kind), coded.Code, coded.Details)
		return
	}
	if fallback == "" {
		fallback = ServerError
	}
	log.Error("request failed", sl.Err(err))
	Error(w, r, http.StatusInternalServerError, fallback, "")
}

// InvalidBody отвечает 400 INVALID_BODY на нечитаемый JSON.
func InvalidBody(w http.ResponseWriter, r *http.Request, log *slog.Logger, err error) {
	log.Warn("failed to decode request body", sl.Err(err))
	Error(w, r, http.StatusBadRequest, models.ErrInvalidBody.Code, err.Error())
}

// Invalid отвечает 422 VALIDATION_FAILED с перечнем нарушений.
func Invalid(w http.ResponseWriter, r *http.Request, log *slog.Logger, err error) {
	details := err.Error()
	var errs validator.ValidationErrors
	if errors.As(err, &errs) {
		details = ValidationError(errs)
	}
	log.Warn("validation failed", slog.String("details", details))
	Error(w, r, http.StatusUnprocessableEntity, models.ErrValidation.Code, details)
}

// ValidationError собирает человекочитаемый текст нарушений через запятую.
func ValidationError(errs validator.ValidationErrors) string {
	msgs := make([]string, 0, len(errs))
	for _, err := range errs {
		switch err.ActualTag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("field %s is a required field", err.Field()))
		case "email":
			msgs = append(msgs, fmt.Sprintf("field %s must be a valid email", err.Field()))
		case "max":
			msgs = append(msgs, fmt.Sprintf("field %s is too long", err.Field()))
		case "min":
			msgs = append(msgs, fmt.Sprintf("field %s is too short", err.Field()))
		case "uuid":
			msgs = append(msgs, fmt.Sprintf("field %s can contain only uuid", err.Field()))
		default:
			msgs = append(msgs, fmt.Sprintf("field %s is not a valid", err.Field()))
		}
	}
	return strings.Join(msgs, ", ")
}
