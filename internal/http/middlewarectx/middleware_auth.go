// Package middlewarectx содержит HTTP middleware портала: проверку сессии,
// ограничение по ролям, ограничение частоты запросов и метрики.
//
// Session проверяет Bearer токен через сервис аутентификации и кладёт в
// контекст профиль пользователя и claims токена. Обработчики достают их
// через Actor и Claims.
package middlewarectx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/atom-backoffice/internal/http/response"
	"github.com/magabrotheeeer/atom-backoffice/internal/lib/jwt"
	"github.com/magabrotheeeer/atom-backoffice/internal/models"
)

// Key тип для ключей контекста HTTP-запроса.
type Key string

const (
	// User ключ профиля в контексте.
	User Key = "user"
	// Token ключ claims токена в контексте.
	Token Key = "token"
)

// WithActor кладёт профиль и claims в контекст.
func WithActor(ctx context.Context, p *models.Profile, claims *jwt.CustomClaims) context.Context {
	ctx = context.WithValue(ctx, User, p)
	return context.WithValue(ctx, Token, claims)
}

// Actor профиль текущего пользователя.
func Actor(ctx context.Context) (*models.Profile, bool) {
	p, ok := ctx.Value(User).(*models.Profile)
	return p, ok && p != nil
}

// Claims claims токена текущей сессии.
func Claims(ctx context.Context) *jwt.CustomClaims {
	c, _ := ctx.Value(Token).(*jwt.CustomClaims)
	return c
}

// Session требует валидный Bearer токен.
func Session(auth Authenticator, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.Session"
			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				log.Info("missing or invalid authorization header")
				response.Error(w, r, http.StatusUnauthorized, models.ErrNotAuthenticated.Code, "")
				return
			}
			token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))

			p, claims, err := auth.Authenticate(r.Context(), token)
			if err != nil {
				if errors.Is(err, models.ErrNotAuthenticated) {
					response.Error(w, r, http.StatusUnauthorized, models.ErrNotAuthenticated.Code, "")
					return
				}
				response.Fail(w, r, log, err, response.ServerError)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), p, claims)))
		})
	}
}

// ActorOrFail достаёт профиль или отвечает 401.
func ActorOrFail(w http.ResponseWriter, r *http.Request) (*models.Profile, bool) {
	p, ok := Actor(r.Context())
	if !ok {
		response.Error(w, r, http.StatusUnauthorized, models.ErrNotAuthenticated.Code, "")
	}
	return p, ok
}
