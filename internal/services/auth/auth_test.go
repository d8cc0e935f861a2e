package auth

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

	"github.com/magabrotheeeer/atom-backoffice/internal/lib/jwt"
	"github.com/magabrotheeeer/atom-backoffice/internal/lib/password"
	"github.com/magabrotheeeer/atom-backoffice/internal/models"
)

type UserRepoMock struct{ mock.Mock }

func (m *UserRepoMock) GetProfile(ctx context.Context, userID string) (*models.Profile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Profile), args.Error(1)
}

func (m *UserRepoMock) GetProfileByEmail(ctx context.Context, email string) (*models.Profile, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Profile), args.Error(1)
}

func (m *UserRepoMock) SetPassword(ctx context.Context, userID, hash string) error {
	return m.Called(ctx, userID, hash).Error(0)
}

type CacheMock struct{ mock.Mock }

func (m *CacheMock) Get(ctx context.Context, key string, result any) (bool, error) {
	args := m.Called(ctx, key, result)
	return args.Bool(0), args.Error(1)
}
func (m *CacheMock) Set(ctx context.Context, key string, value any, expiration time.Duration) error {
	return m.Called(ctx, key, value, expiration).Error(0)
}
func (m *CacheMock) Invalidate(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}
func (m *CacheMock) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	return m.Called(ctx, jti, ttl).Error(0)
}
func (m *CacheMock) IsRevoked(ctx context.Context, jti string) (bool, error) {
	args := m.Called(ctx, jti)
	return args.Bool(0), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func newMaker() *jwt.Maker {
	return jwt.NewMaker("test-secret", time.Hour, 72*time.Hour)
}

func TestService_Login(t *testing.T) {
	hash, err := password.GetHash("correct horse")
	require.NoError(t, err)
	profile := &models.Profile{UserID: "u1", Email: "ali@example.com", Role: models.RoleCoach, PasswordHash: hash}

	tests := []struct {
		name      string
		email     string
		password  string
		setupRepo func(r *UserRepoMock)
		wantErr   error
	}{
		{
			name:     "success with normalised email",
			email:    "  Ali@Example.com ",
			password: "correct horse",
			setupRepo: func(r *UserRepoMock) {
				r.On("GetProfileByEmail", mock.Anything, "ali@example.com").Return(profile, nil)
			},
		},
		{
			name:     "wrong password",
			email:    "ali@example.com",
			password: "nope",
			setupRepo: func(r *UserRepoMock) {
				r.On("GetProfileByEmail", mock.Anything, "ali@example.com").Return(profile, nil)
			},
			wantErr: models.ErrInvalidCredentials,
		},
		{
			name:     "unknown email",
			email:    "ghost@example.com",
			password: "whatever1",
			setupRepo: func(r *UserRepoMock) {
				r.On("GetProfileByEmail", mock.Anything, "ghost@example.com").Return(nil, models.ErrRecordNotFound)
			},
			wantErr: models.ErrInvalidCredentials,
		},
		{
			name:      "empty input",
			setupRepo: func(_ *UserRepoMock) {},
			wantErr:   models.ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(UserRepoMock)
			tt.setupRepo(repo)
			maker := newMaker()
			s := NewService(repo, new(CacheMock), maker, newNoopLogger())

			session, err := s.Login(context.Background(), tt.email, tt.password)
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr))
				return
			}
			require.NoError(t, err)
			claims, err := maker.ParseToken(session.Token)
			require.NoError(t, err)
			assert.Equal(t, "u1", claims.UserID())
			assert.Equal(t, "coach", claims.Role)
		})
	}
}

func TestService_CompleteInvite(t *testing.T) {
	maker := newMaker()
	invite, err := maker.GenerateInviteToken("u1")
	require.NoError(t, err)
	session, err := maker.GenerateToken("u1", "member")
	require.NoError(t, err)

	t.Run("sets password", func(t *testing.T) {
		repo := new(UserRepoMock)
		cache := new(CacheMock)
		repo.On("SetPassword", mock.Anything, "u1", mock.MatchedBy(func(h string) bool {
			return password.CompareHash(h, "long enough") == nil
		})).Return(nil)
		cache.On("Invalidate", mock.Anything, "profile:u1").Return(nil)

		s := NewService(repo, cache, maker, newNoopLogger())
		require.NoError(t, s.CompleteInvite(context.Background(), invite.Token, "long enough"))
		repo.AssertExpectations(t)
		cache.AssertExpectations(t)
	})

	t.Run("weak password", func(t *testing.T) {
		s := NewService(new(UserRepoMock), new(CacheMock), maker, newNoopLogger())
		err := s.CompleteInvite(context.Background(), invite.Token, "short")
		assert.True(t, errors.Is(err, models.ErrWeakPassword))
	})

	t.Run("session token is not an invite", func(t *testing.T) {
		s := NewService(new(UserRepoMock), new(CacheMock), maker, newNoopLogger())
		err := s.CompleteInvite(context.Background(), session.Token, "long enough")
		assert.True(t, errors.Is(err, models.ErrInvalidToken))
	})
}

func TestService_Authenticate(t *testing.T) {
	maker := newMaker()
	issued, err := maker.GenerateToken("u1", "member")
	require.NoError(t, err)
	profile := &models.Profile{UserID: "u1", Role: models.RoleMember}

	t.Run("loads profile and caches it", func(t *testing.T) {
		repo := new(UserRepoMock)
		cache := new(CacheMock)
		cache.On("IsRevoked", mock.Anything, issued.ID).Return(false, nil)
		cache.On("Get", mock.Anything, "profile:u1", mock.Anything).Return(false, nil)
		repo.On("GetProfile", mock.Anything, "u1").Return(profile, nil)
		cache.On("Set", mock.Anything, "profile:u1", profile, ProfileTTL).Return(nil)

		s := NewService(repo, cache, maker, newNoopLogger())
		got, claims, err := s.Authenticate(context.Background(), issued.Token)
		require.NoError(t, err)
		assert.Equal(t, "u1", got.UserID)
		assert.Equal(t, issued.ID, claims.ID)
		cache.AssertExpectations(t)
	})

	t.Run("revoked token", func(t *testing.T) {
		cache := new(CacheMock)
		cache.On("IsRevoked", mock.Anything, issued.ID).Return(true, nil)

		s := NewService(new(UserRepoMock), cache, maker, newNoopLogger())
		_, _, err := s.Authenticate(context.Background(), issued.Token)
		assert.True(t, errors.Is(err, models.ErrNotAuthenticated))
	})

	t.Run("garbage token", func(t *testing.T) {
		s := NewService(new(UserRepoMock), new(CacheMock), maker, newNoopLogger())
		_, _, err := s.Authenticate(context.Background(), "not-a-jwt")
		assert.True(t, errors.Is(err, models.ErrNotAuthenticated))
	})
}

func TestService_Logout(t *testing.T) {
	maker := newMaker()
	issued, err := maker.GenerateToken("u1", "member")
	require.NoError(t, err)
	claims, err := maker.ParseToken(issued.Token)
	require.NoError(t, err)

	cache := new(CacheMock)
	cache.On("Revoke", mock.Anything, issued.ID, mock.MatchedBy(func(ttl time.Duration) bool {
		return ttl > 59*time.Minute && ttl <= time.Hour
	})).Return(nil)

	s := NewService(new(UserRepoMock), cache, maker, newNoopLogger())
	require.NoError(t, s.Logout(context.Background(), claims))
	cache.AssertExpectations(t)
}
