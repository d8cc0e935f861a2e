// Package auth отвечает за вход по паролю, завершение приглашения, выход
// и проверку токена сессии.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/magabrotheeeer/atom-backoffice/internal/lib/jwt"
	"github.com/magabrotheeeer/atom-backoffice/internal/lib/password"
	"github.com/magabrotheeeer/atom-backoffice/internal/lib/sl"
	"github.com/magabrotheeeer/atom-backoffice/internal/models"
)

// ProfileTTL время жизни профиля в кеше сессии.
const ProfileTTL = 5 * time.Minute

// UserRepository профили в хранилище.
type UserRepository interface {
	GetProfile(ctx context.Context, userID string) (*models.Profile, error)
	GetProfileByEmail(ctx context.Context, email string) (*models.Profile, error)
	SetPassword(ctx context.Context, userID, hash string) error
}

// Cache кеш профилей и список отозванных токенов.
type Cache interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	Invalidate(ctx context.Context, key string) error
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// Session результат входа.
type Session struct {
	Token     string         `json:"token"`
	ExpiresAt time.Time      `json:"expires_at"`
	Profile   models.Profile `json:"profile"`
}

// Service реализует аутентификацию.
type Service struct {
	users    UserRepository
	cache    Cache
	jwtMaker *jwt.Maker
	log      *slog.Logger
	now      func() time.Time
}

// NewService создаёт сервис аутентификации.
func NewService(users UserRepository, cache Cache, jwtMaker *jwt.Maker, log *slog.Logger) *Service {
	return &Service{users: users, cache: cache, jwtMaker: jwtMaker, log: log, now: time.Now}
}

// ProfileCacheKey ключ профиля в кеше.
func ProfileCacheKey(userID string) string {
	return "profile:" + userID
}

// Login проверяет пароль и выпускает токен сессии.
func (s *Service) Login(ctx context.Context, email, rawPassword string) (*Session, error) {
	const op = "auth.Login"
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || rawPassword == "" {
		return nil, models.ErrInvalidCredentials
	}

	p, err := s.users.GetProfileByEmail(ctx, email)
	if errors.Is(err, models.ErrRecordNotFound) {
		return nil, models.ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := password.CompareHash(p.PasswordHash, rawPassword); err != nil {
		s.log.Info("login rejected", slog.String("op", op), sl.UserID(p.UserID))
		return nil, models.ErrInvalidCredentials
	}

	issued, err := s.jwtMaker.GenerateToken(p.UserID, string(p.Role))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("user logged in", slog.String("op", op), sl.UserID(p.UserID))
	return &Session{Token: issued.Token, ExpiresAt: issued.ExpiresAt, Profile: *p}, nil
}

// CompleteInvite устанавливает пароль по токену приглашения.
func (s *Service) CompleteInvite(ctx context.Context, token, rawPassword string) error {
	const op = "auth.CompleteInvite"
	claims, err := s.jwtMaker.ParseInviteToken(token)
	if err != nil {
		return models.ErrInvalidToken
	}
	if err := password.Validate(rawPassword); err != nil {
		return models.ErrWeakPassword.WithDetails(err.Error())
	}

	hash, err := password.GetHash(rawPassword)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := s.users.SetPassword(ctx, claims.UserID(), hash); err != nil {
		if errors.Is(err, models.ErrRecordNotFound) {
			return models.ErrInvalidToken
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	s.InvalidateProfile(ctx, claims.UserID())
	s.log.Info("invite completed", slog.String("op", op), sl.UserID(claims.UserID()))
	return nil
}

// Logout отзывает токен до истечения его срока.
func (s *Service) Logout(ctx context.Context, claims *jwt.CustomClaims) error {
	const op = "auth.Logout"
	if claims == nil || claims.ExpiresAt == nil {
		return nil
	}
	ttl := claims.ExpiresAt.Sub(s.now())
	if err := s.cache.Revoke(ctx, claims.ID, ttl); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Authenticate проверяет токен сессии и возвращает профиль владельца.
func (s *Service) Authenticate(ctx context.Context, token string) (*models.Profile, *jwt.CustomClaims, error) {
	const op = "auth.Authenticate"
	claims, err := s.jwtMaker.ParseToken(token)
	if err != nil {
		return nil, nil, models.ErrNotAuthenticated
	}

	revoked, err := s.cache.IsRevoked(ctx, claims.ID)
	if err != nil {
		s.log.Warn("revocation check failed", slog.String("op", op), sl.Err(err))
	}
	if revoked {
		return nil, nil, models.ErrNotAuthenticated
	}

	p, err := s.profile(ctx, claims.UserID())
	if errors.Is(err, models.ErrRecordNotFound) {
		return nil, nil, models.ErrNotAuthenticated
	}
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}
	return p, claims, nil
}

func (s *Service) profile(ctx context.Context, userID string) (*models.Profile, error) {
	key := ProfileCacheKey(userID)
	var cached models.Profile
	found, err := s.cache.Get(ctx, key, &cached)
	if err != nil {
		s.log.Warn("profile cache read failed", slog.String("key", key), sl.Err(err))
	}
	if found && err == nil {
		return &cached, nil
	}

	p, err := s.users.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, key, p, ProfileTTL); err != nil {
		s.log.Warn("failed to cache profile", slog.String("key", key), sl.Err(err))
	}
	return p, nil
}

// InvalidateProfile удаляет профиль из кеша после изменения роли или контактов.
func (s *Service) InvalidateProfile(ctx context.Context, userID string) {
	if err := s.cache.Invalidate(ctx, ProfileCacheKey(userID)); err != nil {
		s.log.Warn("failed to invalidate profile cache", sl.UserID(userID), sl.Err(err))
	}
}
