package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/magabrotheeeer/atom-backoffice/internal/models"
)

const freezeColumns = `id, member_id, requested_start_date, reason, status, admin_note,
	processed_by, processed_at, created_at`

func scanFreeze(row rowScanner) (*models.FreezeRequest, error) {
	var f models.FreezeRequest
	var note, by sql.NullString
	var at sql.NullTime
	if err := row.Scan(&f.ID, &f.MemberID, &f.RequestedStartDate, &f.Reason, &f.Status,
		&note, &by, &at, &f.CreatedAt); err != nil {
		return nil, err
	}
	f.RequestedStartDate = dateOnly(f.RequestedStartDate)
	if note.Valid {
		v := note.String
		f.AdminNote = &v
	}
	if by.Valid {
		v := by.String
		f.ProcessedBy = &v
	}
	if at.Valid {
		t := at.Time
		f.ProcessedAt = &t
	}
	return &f, nil
}

// CreateFreezeRequest вставляет заявку. Вторая ожидающая заявка участника даёт models.ErrDuplicate.
func (s *Storage) CreateFreezeRequest(ctx context.Context, f models.FreezeRequest) (*models.FreezeRequest, error) {
	const op = "storage.CreateFreezeRequest"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	row := s.DB.QueryRowContext(ctx, `INSERT INTO freeze_requests (member_id, requested_start_date, reason, status)
		VALUES ($1, $2, $3, 'pending') RETURNING `+freezeColumns, f.MemberID, f.RequestedStartDate, f.Reason)
	created, err := scanFreeze(row)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}
	return created, nil
}

// GetFreezeRequest заявка по id.
func (s *Storage) GetFreezeRequest(ctx context.Context, id int64) (*models.FreezeRequest, error) {
	const op = "storage.GetFreezeRequest"
	f, err := scanFreeze(s.DB.QueryRowContext(ctx, `SELECT `+freezeColumns+` FROM freeze_requests WHERE id = $1`, id))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}
	return f, nil
}

// HasPendingFreeze есть ли у участника ожидающая заявка.
func (s *Storage) HasPendingFreeze(ctx context.Context, memberID string) (bool, error) {
	const op = "storage.HasPendingFreeze"
	var exists bool
	err := s.DB.QueryRowContext(ctx, `SELECT EXISTS (
		SELECT 1 FROM freeze_requests WHERE member_id = $1 AND status = 'pending')`, memberID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return exists, nil
}

// UpdateFreezeStatus переводит ожидающую заявку в новый статус.
// Если заявка уже обработана, возвращает models.ErrRecordNotFound.
func (s *Storage) UpdateFreezeStatus(ctx context.Context, id int64, status, processedBy, note string) (*models.FreezeRequest, error) {
	const op = "storage.UpdateFreezeStatus"
	row := s.DB.QueryRowContext(ctx, `UPDATE freeze_requests
		SET status = $2, processed_by = $3, processed_at = now(), admin_note = COALESCE($4, admin_note)
		WHERE id = $1 AND status = 'pending' RETURNING `+freezeColumns,
		id, status, nullString(processedBy), nullString(note))
	f, err := scanFreeze(row)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}
	return f, nil
}

// ListFreezeRequests заявки; пустой memberID означает всех участников.
func (s *Storage) ListFreezeRequests(ctx context.Context, memberID, status string) ([]models.FreezeRequest, error) {
	const op = "storage.ListFreezeRequests"
	rows, err := s.DB.QueryContext(ctx, `SELECT `+freezeColumns+` FROM freeze_requests
		WHERE ($1 = '' OR member_id::text = $1) AND ($2 = '' OR status = $2)
		ORDER BY created_at DESC, id DESC LIMIT 500`, memberID, status)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	out := []models.FreezeRequest{}
	for rows.Next() {
		f, err := scanFreeze(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		out = append(out, *f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return out, nil
}
