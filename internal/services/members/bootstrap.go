package members

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator"
	"github.com/google/uuid"

	"github.com/magabrotheeeer/atom-backoffice/internal/lib/password"
	"github.com/magabrotheeeer/atom-backoffice/internal/lib/sl"
	"github.com/magabrotheeeer/atom-backoffice/internal/models"
)

// AdminRepository операции хранилища для первичной настройки super_admin.
type AdminRepository interface {
	GetProfileByEmail(ctx context.Context, email string) (*models.Profile, error)
	CreateProfile(ctx context.Context, p models.Profile) error
	SetRole(ctx context.Context, userID string, role models.Role) error
	SetPassword(ctx context.Context, userID, hash string) error
	CreateAuditLog(ctx context.Context, l models.NewAuditLog) error
}

// BootstrapResult итог BootstrapAdmin.
type BootstrapResult struct {
	UserID   string
	Created  bool
	Promoted bool
}

// BootstrapAdmin создаёт super_admin с паролем или повышает существующий профиль.
func BootstrapAdmin(ctx context.Context, repo AdminRepository, email, rawPassword string, log *slog.Logger) (*BootstrapResult, error) {
	const op = "members.BootstrapAdmin"

	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, models.ErrMissingEmail
	}
	if err := validator.New().Var(email, "email"); err != nil {
		return nil, models.ErrInvalidEmail
	}
	if err := password.Validate(rawPassword); err != nil {
		return nil, models.ErrWeakPassword
	}
	hash, err := password.GetHash(rawPassword)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	res := &BootstrapResult{}
	existing, err := repo.GetProfileByEmail(ctx, email)
	switch {
	case err == nil:
		res.UserID = existing.UserID
		if existing.Role != models.RoleSuperAdmin {
			if err := repo.SetRole(ctx, existing.UserID, models.RoleSuperAdmin); err != nil {
				return nil, fmt.Errorf("%s: %w", op, err)
			}
			res.Promoted = true
		}
	case errors.Is(err, models.ErrRecordNotFound):
		id := uuid.NewString()
		if err := repo.CreateProfile(ctx, models.Profile{
			UserID:      id,
			Email:       email,
			Role:        models.RoleSuperAdmin,
			QRCode:      models.QRCodeFor(id),
			InviteState: models.InvitePending,
			CreatedAt:   time.Now(),
		}); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		res.UserID = id
		res.Created = true
	default:
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := repo.SetPassword(ctx, res.UserID, hash); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := repo.CreateAuditLog(ctx, models.NewAuditLog{
		ActorUserID: res.UserID, TargetUserID: res.UserID, Action: "bootstrap_admin",
		Details: map[string]any{"created": res.Created, "promoted": res.Promoted},
	}); err != nil {
		log.Warn("failed to write audit log", slog.String("op", op), sl.Err(err))
	}
	log.Info("super admin ready", slog.String("op", op), sl.UserID(res.UserID), slog.Bool("created", res.Created))
	return res, nil
}
