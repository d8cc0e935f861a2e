// Package profile обслуживает личный кабинет: свой профиль, QR-код и фото.
package profile

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/atom-backoffice/internal/lib/month"
	"github.com/magabrotheeeer/atom-backoffice/internal/lib/qrcode"
	"github.com/magabrotheeeer/atom-backoffice/internal/lib/sl"
	"github.com/magabrotheeeer/atom-backoffice/internal/models"
	"github.com/magabrotheeeer/atom-backoffice/internal/objectstore"
)

// Repository профили и абонементы.
type Repository interface {
	ListMemberSubscriptions(ctx context.Context, memberID string) ([]models.Subscription, error)
	SetPhotoPath(ctx context.Context, userID, path string) error
}

// PhotoUploader загружает фото в объектное хранилище.
type PhotoUploader interface {
	UploadProfilePhoto(ctx context.Context, userID string, r io.Reader) (string, error)
}

// ProfileInvalidator сбрасывает кеш профиля.
type ProfileInvalidator interface {
	InvalidateProfile(ctx context.Context, userID string)
}

// Me профиль вместе с абонементами.
type Me struct {
	Profile       models.Profile        `json:"profile"`
	Subscriptions []models.Subscription `json:"subscriptions"`
}

// Service личный кабинет.
type Service struct {
	repo     Repository
	photos   PhotoUploader
	profiles ProfileInvalidator
	loc      *time.Location
	log      *slog.Logger
	now      func() time.Time
}

// NewService создаёт сервис.
func NewService(repo Repository, photos PhotoUploader, profiles ProfileInvalidator, loc *time.Location, log *slog.Logger) *Service {
	return &Service{repo: repo, photos: photos, profiles: profiles, loc: loc, log: log, now: time.Now}
}

// Me возвращает профиль и абонементы, статус которых пересчитан на сегодня.
func (s *Service) Me(ctx context.Context, p models.Profile) (*Me, error) {
	const op = "profile.Me"
	subs, err := s.repo.ListMemberSubscriptions(ctx, p.UserID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	today := month.Today(s.now(), s.loc)
	for i := range subs {
		subs[i].Status = subs[i].EffectiveStatus(today)
	}
	if subs == nil {
		subs = []models.Subscription{}
	}
	return &Me{Profile: p, Subscriptions: subs}, nil
}

// QRCode PNG с кодом участника.
func (s *Service) QRCode(p models.Profile) ([]byte, error) {
	code := p.QRCode
	if code == "" {
		code = models.QRCodeFor(p.UserID)
	}
	return qrcode.PNG(code, qrcode.DefaultSize)
}

// UploadPhoto нормализует фото, сохраняет его и записывает путь в профиль.
func (s *Service) UploadPhoto(ctx context.Context, userID string, r io.Reader) (string, error) {
	const op = "profile.UploadPhoto"
	log := s.log.With(slog.String("op", op), sl.UserID(userID))

	key, err := s.photos.UploadProfilePhoto(ctx, userID, r)
	if errors.Is(err, objectstore.ErrInvalidImage) {
		return "", models.ErrInvalidPhoto
	}
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if err := s.repo.SetPhotoPath(ctx, userID, key); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	s.profiles.InvalidateProfile(ctx, userID)
	log.Info("profile photo uploaded", slog.String("key", key))
	return key, nil
}
