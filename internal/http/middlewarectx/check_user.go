package middlewarectx

import (
	"log/slog"
	"net/http"

	"github.com/magabrotheeeer/atom-backoffice/internal/http/response"
	"github.com/magabrotheeeer/atom-backoffice/internal/models"
)

// RequireRoles пропускает только пользователей с одной из ролей.
// Ставится после Session.
func RequireRoles(log *slog.Logger, roles ...models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := Actor(r.Context())
			if !ok {
				log.Error("user identification missing")
				response.Error(w, r, http.StatusUnauthorized, models.ErrNotAuthenticated.Code, "")
				return
			}
			if !p.Role.In(roles...) {
				log.Info("access denied", slog.String("role", string(p.Role)), slog.String("path", r.URL.Path))
				response.Error(w, r, http.StatusForbidden, models.ErrForbidden.Code, "")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
