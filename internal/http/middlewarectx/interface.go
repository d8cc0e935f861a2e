package middlewarectx

import (
	"context"
	"time"

	"github.com/magabrotheeeer/atom-backoffice/internal/lib/jwt"
	"github.com/magabrotheeeer/atom-backoffice/internal/models"
)

// Authenticator проверяет токен сессии и возвращает профиль владельца.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*models.Profile, *jwt.CustomClaims, error)
}

// Recorder принимает длительность обработанного запроса.
type Recorder interface {
	ObserveRequest(method, route string, status int, d time.Duration)
}
