package freeze

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/atom-backoffice/internal/models"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) freeze(args mock.Arguments) (*models.FreezeRequest, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.FreezeRequest), args.Error(1)
}

func (m *RepoMock) CreateFreezeRequest(ctx context.Context, f models.FreezeRequest) (*models.FreezeRequest, error) {
	return m.freeze(m.Called(ctx, f))
}

func (m *RepoMock) GetFreezeRequest(ctx context.Context, id int64) (*models.FreezeRequest, error) {
	return m.freeze(m.Called(ctx, id))
}

func (m *RepoMock) HasPendingFreeze(ctx context.Context, memberID string) (bool, error) {
	args := m.Called(ctx, memberID)
	return args.Bool(0), args.Error(1)
}

func (m *RepoMock) UpdateFreezeStatus(ctx context.Context, id int64, status, processedBy, note string) (*models.FreezeRequest, error) {
	return m.freeze(m.Called(ctx, id, status, processedBy, note))
}

func (m *RepoMock) ListFreezeRequests(ctx context.Context, memberID, status string) ([]models.FreezeRequest, error) {
	args := m.Called(ctx, memberID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.FreezeRequest), args.Error(1)
}

func (m *RepoMock) InsertNotifications(ctx context.Context, batch []models.NewNotification) (int, error) {
	args := m.Called(ctx, batch)
	return args.Int(0), args.Error(1)
}

var (
	member = models.Profile{UserID: "m1", Role: models.RoleMember}
	admin  = models.Profile{UserID: "a1", Role: models.RoleAdmin}
)

func newTestService(repo *RepoMock) *Service {
	s := NewService(repo, time.UTC, slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})))
	s.now = func() time.Time { return time.Date(2025, 4, 10, 23, 0, 0, 0, time.UTC) }
	return s
}

func TestService_Create(t *testing.T) {
	tests := []struct {
		name    string
		actor   models.Profile
		req     models.FreezeCreateRequest
		pending bool
		dupErr  bool
		wantErr error
	}{
		{name: "coaches cannot request", actor: admin, req: models.FreezeCreateRequest{RequestedStartDate: "2025-05-01", Reason: "travelling abroad"}, wantErr: models.ErrForbidden},
		{name: "bad date", actor: member, req: models.FreezeCreateRequest{RequestedStartDate: "May 1", Reason: "travelling abroad"}, wantErr: models.ErrInvalidDate},
		{name: "past date", actor: member, req: models.FreezeCreateRequest{RequestedStartDate: "2025-04-09", Reason: "travelling abroad"}, wantErr: models.ErrInvalidDate},
		{name: "short reason", actor: member, req: models.FreezeCreateRequest{RequestedStartDate: "2025-04-10", Reason: "  injury "}, wantErr: models.ErrReasonTooShort},
		{name: "already pending", actor: member, req: models.FreezeCreateRequest{RequestedStartDate: "2025-04-10", Reason: "knee injury"}, pending: true, wantErr: models.ErrPendingExists},
		{name: "race on unique index", actor: member, req: models.FreezeCreateRequest{RequestedStartDate: "2025-04-10", Reason: "knee injury"}, dupErr: true, wantErr: models.ErrPendingExists},
		{name: "ok today", actor: member, req: models.FreezeCreateRequest{RequestedStartDate: "2025-04-10", Reason: " knee injury "}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &RepoMock{}
			repo.On("HasPendingFreeze", mock.Anything, "m1").Return(tt.pending, nil)
			if tt.dupErr {
				repo.On("CreateFreezeRequest", mock.Anything, mock.Anything).Return(nil, models.ErrDuplicate)
			} else {
				repo.On("CreateFreezeRequest", mock.Anything, mock.MatchedBy(func(f models.FreezeRequest) bool {
					return f.Reason == "knee injury" && f.Status == models.FreezePending &&
						f.RequestedStartDate.Equal(time.Date(2025, 4, 10, 0, 0, 0, 0, time.UTC))
				})).Return(&models.FreezeRequest{ID: 1, Status: models.FreezePending}, nil)
			}

			f, err := newTestService(repo).Create(context.Background(), tt.actor, tt.req)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, int64(1), f.ID)
		})
	}
}

func TestService_Process(t *testing.T) {
	pending := &models.FreezeRequest{ID: 5, MemberID: "m1", Status: models.FreezePending}
	approved := &models.FreezeRequest{ID: 5, MemberID: "m1", Status: models.FreezeApproved}

	tests := []struct {
		name       string
		actor      models.Profile
		action     string
		current    *models.FreezeRequest
		getErr     error
		updateErr  error
		wantErr    error
		wantStatus string
		wantNote   string
		notifies   bool
	}{
		{name: "unknown action", actor: admin, action: "delete", wantErr: models.ErrInvalidAction},
		{name: "missing", actor: admin, action: "approve", getErr: models.ErrRecordNotFound, wantErr: models.ErrNotFound},
		{name: "member cannot approve", actor: member, action: "approve", current: pending, wantErr: models.ErrForbidden},
		{name: "other member cannot cancel", actor: models.Profile{UserID: "m2", Role: models.RoleMember}, action: "cancel", current: pending, wantErr: models.ErrForbidden},
		{name: "already processed", actor: admin, action: "deny", current: approved, wantErr: models.ErrNotPending},
		{name: "lost race", actor: admin, action: "deny", current: pending, updateErr: models.ErrRecordNotFound, wantErr: models.ErrNotPending},
		{name: "owner cancels", actor: member, action: "cancel", current: pending, wantStatus: models.FreezeCancelled},
		{name: "admin approves", actor: admin, action: "Approve", current: pending, wantStatus: models.FreezeApproved, wantNote: "ok", notifies: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &RepoMock{}
			repo.On("GetFreezeRequest", mock.Anything, int64(5)).Return(tt.current, tt.getErr)
			if tt.updateErr != nil {
				repo.On("UpdateFreezeStatus", mock.Anything, int64(5), mock.Anything, mock.Anything, mock.Anything).Return(nil, tt.updateErr)
			} else {
				repo.On("UpdateFreezeStatus", mock.Anything, int64(5), tt.wantStatus, tt.actor.UserID, tt.wantNote).
					Return(&models.FreezeRequest{ID: 5, MemberID: "m1", Status: tt.wantStatus}, nil)
			}
			repo.On("InsertNotifications", mock.Anything, mock.Anything).Return(1, nil)

			f, err := newTestService(repo).Process(context.Background(), tt.actor, 5,
				models.FreezeProcessRequest{Action: tt.action, AdminNote: " ok "})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, f.Status)
			if tt.notifies {
				repo.AssertCalled(t, "InsertNotifications", mock.Anything, mock.Anything)
			} else {
				repo.AssertNotCalled(t, "InsertNotifications", mock.Anything, mock.Anything)
			}
		})
	}
}

func TestService_Process_NotificationFailureIgnored(t *testing.T) {
	repo := &RepoMock{}
	repo.On("GetFreezeRequest", mock.Anything, int64(5)).Return(&models.FreezeRequest{ID: 5, MemberID: "m1", Status: models.FreezePending}, nil)
	repo.On("UpdateFreezeStatus", mock.Anything, int64(5), models.FreezeDenied, "a1", "").
		Return(&models.FreezeRequest{ID: 5, MemberID: "m1", Status: models.FreezeDenied}, nil)
	repo.On("InsertNotifications", mock.Anything, mock.Anything).Return(0, errors.New("db down"))

	f, err := newTestService(repo).Process(context.Background(), admin, 5, models.FreezeProcessRequest{Action: "deny"})
	require.NoError(t, err)
	assert.Equal(t, models.FreezeDenied, f.Status)
}

func TestService_List(t *testing.T) {
	repo := &RepoMock{}
	repo.On("ListFreezeRequests", mock.Anything, "", "pending").Return([]models.FreezeRequest{{ID: 1}, {ID: 2}}, nil)
	repo.On("ListFreezeRequests", mock.Anything, "m1", "").Return([]models.FreezeRequest{{ID: 2}}, nil)
	s := newTestService(repo)

	all, err := s.List(context.Background(), admin, "Pending")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	own, err := s.List(context.Background(), member, "all")
	require.NoError(t, err)
	assert.Len(t, own, 1)
}
