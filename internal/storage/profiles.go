package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/magabrotheeeer/atom-backoffice/internal/models"
)

const profileColumns = `user_id, email, first_name, last_name, phone, role, qr_code,
	id_photo_path, invite_state, password_hash, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProfile(row rowScanner) (*models.Profile, error) {
	var p models.Profile
	var role string
	if err := row.Scan(&p.UserID, &p.Email, &p.FirstName, &p.LastName, &p.Phone, &role,
		&p.QRCode, &p.IDPhotoPath, &p.InviteState, &p.PasswordHash, &p.CreatedAt); err != nil {
		return nil, err
	}
	p.Role = models.Role(role)
	return &p, nil
}

// CreateProfile вставляет профиль. Повтор email или QR даёт models.ErrDuplicate.
func (s *Storage) CreateProfile(ctx context.Context, p models.Profile) error {
	const op = "storage.CreateProfile"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	_, err := s.DB.ExecContext(ctx, `INSERT INTO profiles
		(user_id, email, first_name, last_name, phone, role, qr_code, invite_state, password_hash)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		p.UserID, p.Email, p.FirstName, p.LastName, p.Phone, string(p.Role), p.QRCode, p.InviteState, p.PasswordHash)
	if err != nil {
		return fmt.Errorf("%s: %w", op, mapError(err))
	}
	return nil
}

// GetProfile возвращает профиль по user_id.
func (s *Storage) GetProfile(ctx context.Context, userID string) (*models.Profile, error) {
	return s.getProfileBy(ctx, "storage.GetProfile", "user_id = $1", userID)
}

// GetProfileByEmail ищет профиль по email без учёта регистра.
func (s *Storage) GetProfileByEmail(ctx context.Context, email string) (*models.Profile, error) {
	return s.getProfileBy(ctx, "storage.GetProfileByEmail", "lower(email) = lower($1)", email)
}

// GetProfileByQRCode ищет профиль по qr_code без учёта регистра.
func (s *Storage) GetProfileByQRCode(ctx context.Context, code string) (*models.Profile, error) {
	return s.getProfileBy(ctx, "storage.GetProfileByQRCode", "lower(qr_code) = lower($1)", code)
}

func (s *Storage) getProfileBy(ctx context.Context, op, where string, arg any) (*models.Profile, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	row := s.DB.QueryRowContext(ctx, `SELECT `+profileColumns+` FROM profiles WHERE `+where, arg)
	p, err := scanProfile(row)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}
	return p, nil
}

// PatchProfile обновляет непустые поля и возвращает профиль.
func (s *Storage) PatchProfile(ctx context.Context, userID string, patch models.ProfilePatch) (*models.Profile, error) {
	const op = "storage.PatchProfile"
	row := s.DB.QueryRowContext(ctx, `UPDATE profiles SET
			first_name = COALESCE(NULLIF($2, ''), first_name),
			last_name  = COALESCE(NULLIF($3, ''), last_name),
			phone      = COALESCE(NULLIF($4, ''), phone)
		WHERE user_id = $1
		RETURNING `+profileColumns,
		userID, patch.FirstName, patch.LastName, patch.Phone)
	p, err := scanProfile(row)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}
	return p, nil
}

// SetRole меняет роль пользователя.
func (s *Storage) SetRole(ctx context.Context, userID string, role models.Role) error {
	const op = "storage.SetRole"
	return s.execOne(ctx, op, `UPDATE profiles SET role = $2 WHERE user_id = $1`, userID, string(role))
}

// SetPassword сохраняет хеш пароля и отмечает приглашение принятым.
func (s *Storage) SetPassword(ctx context.Context, userID, hash string) error {
	const op = "storage.SetPassword"
	return s.execOne(ctx, op, `UPDATE profiles SET password_hash = $2, invite_state = $3 WHERE user_id = $1`,
		userID, hash, models.InviteAccepted)
}

// SetPhotoPath сохраняет ключ фото в объектном хранилище.
func (s *Storage) SetPhotoPath(ctx context.Context, userID, path string) error {
	const op = "storage.SetPhotoPath"
	return s.execOne(ctx, op, `UPDATE profiles SET id_photo_path = $2 WHERE user_id = $1`, userID, path)
}

func (s *Storage) execOne(ctx context.Context, op, query string, args ...any) error {
	res, err := s.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, mapError(err))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, models.ErrRecordNotFound)
	}
	return nil
}

// SearchMembers ищет участников по имени, email, телефону и id.
// digits заполняется, если в запросе не меньше четырёх цифр; exactID, если запрос является uuid.
func (s *Storage) SearchMembers(ctx context.Context, q, digits, exactID string, limit int) ([]models.Profile, error) {
	const op = "storage.SearchMembers"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	conds := []string{}
	args := []any{string(models.RoleMember)}
	if q != "" {
		args = append(args, "%"+q+"%")
		n := len(args)
		conds = append(conds, fmt.Sprintf(
			"first_name ILIKE $%d OR last_name ILIKE $%d OR email ILIKE $%d OR phone ILIKE $%d OR (first_name || ' ' || last_name) ILIKE $%d",
			n, n, n, n, n))
	}
	if digits != "" {
		args = append(args, "%"+digits+"%")
		conds = append(conds, fmt.Sprintf("regexp_replace(phone, '\\D', '', 'g') LIKE $%d", len(args)))
	}
	if exactID != "" {
		args = append(args, exactID)
		conds = append(conds, fmt.Sprintf("user_id::text = $%d", len(args)))
	}

	query := `SELECT ` + profileColumns + ` FROM profiles WHERE role = $1`
	if len(conds) > 0 {
		query += ` AND (` + strings.Join(conds, " OR ") + `)`
	}
	args = append(args, limit)
	query += fmt.Sprintf(` ORDER BY last_name, first_name, email LIMIT $%d`, len(args))

	return s.queryProfiles(ctx, op, query, args...)
}

// ListInactiveMembers участники без действующего абонемента на дату day.
func (s *Storage) ListInactiveMembers(ctx context.Context, day time.Time, page, limit int) ([]models.Profile, int, error) {
	const op = "storage.ListInactiveMembers"
	const where = `role = 'member' AND NOT EXISTS (
		SELECT 1 FROM subscriptions s
		WHERE s.member_id = profiles.user_id AND s.status = 'active'
		  AND s.start_date <= $1 AND s.end_date >= $1)`

	var total int
	if err := s.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM profiles WHERE `+where, day).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	items, err := s.queryProfiles(ctx, op,
		`SELECT `+profileColumns+` FROM profiles WHERE `+where+` ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		day, limit, offset(page, limit))
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// MemberStats общее число участников и число с действующим абонементом.
func (s *Storage) MemberStats(ctx context.Context, day time.Time) (models.MemberStats, error) {
	const op = "storage.MemberStats"
	var st models.MemberStats
	err := s.DB.QueryRowContext(ctx, `SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE EXISTS (
				SELECT 1 FROM subscriptions s
				WHERE s.member_id = p.user_id AND s.status = 'active'
				  AND s.start_date <= $1 AND s.end_date >= $1))
		FROM profiles p WHERE p.role = 'member'`, day).Scan(&st.Total, &st.Active)
	if err != nil {
		return st, fmt.Errorf("%s: %w", op, err)
	}
	st.Inactive = st.Total - st.Active
	return st, nil
}

// ListProfilesByRoles профили с указанными ролями.
func (s *Storage) ListProfilesByRoles(ctx context.Context, roles []models.Role) ([]models.Profile, error) {
	const op = "storage.ListProfilesByRoles"
	return s.queryProfiles(ctx, op,
		`SELECT `+profileColumns+` FROM profiles WHERE role = ANY($1) ORDER BY role, first_name, last_name`,
		roleStrings(roles))
}

// ProfileIDsByRoles user_id профилей с указанными ролями.
func (s *Storage) ProfileIDsByRoles(ctx context.Context, roles []models.Role) ([]string, error) {
	const op = "storage.ProfileIDsByRoles"
	return s.queryIDs(ctx, op, `SELECT user_id::text FROM profiles WHERE role = ANY($1)`, roleStrings(roles))
}

// ProfileIDsByEmails user_id профилей с указанными email (в нижнем регистре).
func (s *Storage) ProfileIDsByEmails(ctx context.Context, emails []string) ([]string, error) {
	const op = "storage.ProfileIDsByEmails"
	return s.queryIDs(ctx, op, `SELECT user_id::text FROM profiles WHERE lower(email) = ANY($1)`, emails)
}

// ExistingProfileIDs оставляет только существующие user_id.
func (s *Storage) ExistingProfileIDs(ctx context.Context, ids []string) ([]string, error) {
	const op = "storage.ExistingProfileIDs"
	return s.queryIDs(ctx, op, `SELECT user_id::text FROM profiles WHERE user_id::text = ANY($1)`, ids)
}

func (s *Storage) queryProfiles(ctx context.Context, op, query string, args ...any) ([]models.Profile, error) {
	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var out []models.Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		out = append(out, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return out, nil
}

func (s *Storage) queryIDs(ctx context.Context, op, query string, args ...any) ([]string, error) {
	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return ids, nil
}

func roleStrings(roles []models.Role) []string {
	out := make([]string, len(roles))
	for i, r := range roles {
		out[i] = string(r)
	}
	return out
}
