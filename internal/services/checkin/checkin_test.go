package checkin

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/atom-backoffice/internal/models"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) GetProfile(ctx context.Context, userID string) (*models.Profile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Profile), args.Error(1)
}

func (m *RepoMock) GetProfileByQRCode(ctx context.Context, code string) (*models.Profile, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Profile), args.Error(1)
}

func (m *RepoMock) ActiveSubscriptionsOn(ctx context.Context, memberID string, day time.Time, limit int) ([]models.Subscription, error) {
	args := m.Called(ctx, memberID, day, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Subscription), args.Error(1)
}

func (m *RepoMock) ConsumeSession(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *RepoMock) CreateAttendance(ctx context.Context, a models.Attendance) (int64, error) {
	args := m.Called(ctx, a)
	return args.Get(0).(int64), args.Error(1)
}

type metricsStub struct {
	mu     sync.Mutex
	counts map[string]int
}

func (m *metricsStub) IncScan(result string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.counts == nil {
		m.counts = map[string]int{}
	}
	m.counts[result]++
}

const memberID = "11111111-2222-3333-4444-555555555555"

var (
	kiosk = models.Profile{UserID: "99999999-2222-3333-4444-555555555555", Role: models.RoleReception}
	today = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
)

func newTestService(repo *RepoMock, m *metricsStub) *Service {
	s := NewService(repo, m, time.UTC, slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})))
	s.now = func() time.Time { return time.Date(2025, 6, 1, 18, 30, 0, 0, time.UTC) }
	return s
}

func TestService_Scan_Resolve(t *testing.T) {
	tests := []struct {
		name  string
		code  string
		setup func(r *RepoMock)
	}{
		{name: "atom prefix", code: "atom:" + memberID, setup: func(r *RepoMock) {
			r.On("GetProfile", mock.Anything, memberID).Return(&models.Profile{UserID: memberID, Role: models.RoleMember}, nil)
		}},
		{name: "upper prefix", code: " ATOM:" + memberID + " ", setup: func(r *RepoMock) {
			r.On("GetProfile", mock.Anything, memberID).Return(&models.Profile{UserID: memberID, Role: models.RoleMember}, nil)
		}},
		{name: "bare uuid", code: memberID, setup: func(r *RepoMock) {
			r.On("GetProfile", mock.Anything, memberID).Return(&models.Profile{UserID: memberID, Role: models.RoleMember}, nil)
		}},
		{name: "legacy code", code: "ATOM:card-0042", setup: func(r *RepoMock) {
			r.On("GetProfileByQRCode", mock.Anything, "atom:card-0042").Return(&models.Profile{UserID: memberID, Role: models.RoleMember}, nil)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &RepoMock{}
			tt.setup(repo)
			repo.On("ActiveSubscriptionsOn", mock.Anything, memberID, today, activeLimit).Return(nil, nil)
			repo.On("CreateAttendance", mock.Anything, mock.Anything).Return(int64(1), nil)

			res, err := newTestService(repo, &metricsStub{}).Scan(context.Background(), kiosk, tt.code)
			require.NoError(t, err)
			assert.Equal(t, memberID, res.MemberID)
			repo.AssertExpectations(t)
		})
	}
}

func TestService_Scan_Errors(t *testing.T) {
	t.Run("empty code", func(t *testing.T) {
		_, err := newTestService(&RepoMock{}, &metricsStub{}).Scan(context.Background(), kiosk, "  ")
		assert.ErrorIs(t, err, models.ErrMissingQR)
	})
	t.Run("unknown code", func(t *testing.T) {
		repo := &RepoMock{}
		m := &metricsStub{}
		repo.On("GetProfileByQRCode", mock.Anything, "nope").Return(nil, models.ErrRecordNotFound)
		_, err := newTestService(repo, m).Scan(context.Background(), kiosk, "nope")
		assert.ErrorIs(t, err, models.ErrInvalidQR)
		assert.Equal(t, 1, m.counts[ResultUnknown])
	})
	t.Run("well-formed uuid without profile", func(t *testing.T) {
		repo := &RepoMock{}
		m := &metricsStub{}
		repo.On("GetProfile", mock.Anything, memberID).Return(nil, models.ErrRecordNotFound)
		_, err := newTestService(repo, m).Scan(context.Background(), kiosk, "atom:"+memberID)
		assert.ErrorIs(t, err, models.ErrInvalidQR)
		assert.Equal(t, 1, m.counts[ResultUnknown])
		repo.AssertNotCalled(t, "CreateAttendance", mock.Anything, mock.Anything)
	})
	t.Run("lookup failure", func(t *testing.T) {
		repo := &RepoMock{}
		repo.On("GetProfile", mock.Anything, memberID).Return(nil, errors.New("db down"))
		_, err := newTestService(repo, &metricsStub{}).Scan(context.Background(), kiosk, memberID)
		require.Error(t, err)
		assert.NotErrorIs(t, err, models.ErrInvalidQR)
	})
}

func TestService_Scan_Staff(t *testing.T) {
	repo := &RepoMock{}
	m := &metricsStub{}
	repo.On("GetProfile", mock.Anything, memberID).Return(&models.Profile{UserID: memberID, Role: models.RoleCoach}, nil)
	repo.On("CreateAttendance", mock.Anything, mock.MatchedBy(func(a models.Attendance) bool {
		return a.Valid && a.Source == models.SourceKioskStaff && a.SubscriptionID == nil
	})).Return(int64(1), nil)

	res, err := newTestService(repo, m).Scan(context.Background(), kiosk, "atom:"+memberID)
	require.NoError(t, err)
	assert.True(t, res.Valid)
	assert.Nil(t, res.SubscriptionID)
	assert.Equal(t, models.ScanMessageStaff, res.Message)
	assert.Equal(t, 1, m.counts[ResultStaff])
	repo.AssertNotCalled(t, "ActiveSubscriptionsOn", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestService_Scan_Subscriptions(t *testing.T) {
	timePlan := models.Subscription{ID: 10, Type: models.TypeTime}
	pack := models.Subscription{ID: 20, Type: models.TypeSessions, SessionsTotal: 10, SessionsUsed: 3}
	emptyPack := models.Subscription{ID: 30, Type: models.TypeSessions, SessionsTotal: 10, SessionsUsed: 10}

	tests := []struct {
		name         string
		subs         []models.Subscription
		consume      map[int64]bool
		consumeErr   error
		wantValid    bool
		wantSubID    int64
		wantSessions bool
	}{
		{name: "time plan wins over pack", subs: []models.Subscription{pack, timePlan}, wantValid: true, wantSubID: 10},
		{name: "pack decremented", subs: []models.Subscription{emptyPack, pack}, consume: map[int64]bool{20: true},
			wantValid: true, wantSubID: 20, wantSessions: true},
		{name: "pack lost race fails closed", subs: []models.Subscription{pack}, consume: map[int64]bool{20: false}},
		{name: "pack decrement error fails closed", subs: []models.Subscription{pack}, consume: map[int64]bool{20: false},
			consumeErr: errors.New("conn reset")},
		{name: "only exhausted pack", subs: []models.Subscription{emptyPack}},
		{name: "nothing active", subs: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &RepoMock{}
			m := &metricsStub{}
			repo.On("GetProfile", mock.Anything, memberID).Return(&models.Profile{UserID: memberID, Role: models.RoleMember}, nil)
			repo.On("ActiveSubscriptionsOn", mock.Anything, memberID, today, activeLimit).Return(tt.subs, nil)
			for id, ok := range tt.consume {
				repo.On("ConsumeSession", mock.Anything, id).Return(ok, tt.consumeErr).Once()
			}
			repo.On("CreateAttendance", mock.Anything, mock.MatchedBy(func(a models.Attendance) bool {
				if a.Valid != tt.wantValid || a.FromSessions != tt.wantSessions || a.Source != models.SourceKiosk {
					return false
				}
				if !tt.wantValid {
					return a.SubscriptionID == nil
				}
				return a.SubscriptionID != nil && *a.SubscriptionID == tt.wantSubID
			})).Return(int64(1), nil)

			res, err := newTestService(repo, m).Scan(context.Background(), kiosk, memberID)
			require.NoError(t, err)
			assert.Equal(t, tt.wantValid, res.Valid)
			if tt.wantValid {
				require.NotNil(t, res.SubscriptionID)
				assert.Equal(t, tt.wantSubID, *res.SubscriptionID)
				assert.Equal(t, models.ScanMessageValid, res.Message)
				assert.Equal(t, 1, m.counts[ResultValid])
			} else {
				assert.Nil(t, res.SubscriptionID)
				assert.Equal(t, models.ScanMessageInvalid, res.Message)
				assert.Equal(t, 1, m.counts[ResultInvalid])
			}
			repo.AssertExpectations(t)
			if len(tt.consume) == 0 {
				repo.AssertNotCalled(t, "ConsumeSession", mock.Anything, mock.Anything)
			}
		})
	}
}
