package middlewarectx_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/atom-backoffice/internal/http/middlewarectx"
	"github.com/magabrotheeeer/atom-backoffice/internal/lib/jwt"
	"github.com/magabrotheeeer/atom-backoffice/internal/models"
)

type AuthMock struct {
	mock.Mock
}

func (m *AuthMock) Authenticate(ctx context.Context, token string) (*models.Profile, *jwt.CustomClaims, error) {
	args := m.Called(ctx, token)
	p, _ := args.Get(0).(*models.Profile)
	c, _ := args.Get(1).(*jwt.CustomClaims)
	return p, c, args.Error(2)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestSession(t *testing.T) {
	profile := &models.Profile{UserID: "u1", Role: models.RoleMember}

	tests := []struct {
		name       string
		header     string
		mockErr    error
		callAuth   bool
		wantStatus int
		wantCalled bool
	}{
		{name: "no header", wantStatus: http.StatusUnauthorized},
		{name: "basic auth", header: "Basic abc", wantStatus: http.StatusUnauthorized},
		{name: "bad token", header: "Bearer bad", callAuth: true, mockErr: models.ErrNotAuthenticated,
			wantStatus: http.StatusUnauthorized},
		{name: "storage failure", header: "Bearer bad", callAuth: true, mockErr: errors.New("db down"),
			wantStatus: http.StatusInternalServerError},
		{name: "valid", header: "Bearer good", callAuth: true, wantStatus: http.StatusOK, wantCalled: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			auth := new(AuthMock)
			if tt.callAuth {
				if tt.mockErr != nil {
					auth.On("Authenticate", mock.Anything, mock.Anything).Return(nil, nil, tt.mockErr)
				} else {
					auth.On("Authenticate", mock.Anything, "good").Return(profile, &jwt.CustomClaims{}, nil)
				}
			}

			called := false
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
				p, ok := middlewarectx.Actor(r.Context())
				assert.True(t, ok)
				assert.Equal(t, "u1", p.UserID)
				assert.NotNil(t, middlewarectx.Claims(r.Context()))
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			middlewarectx.Session(auth, newNoopLogger())(next).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantCalled, called)
			auth.AssertExpectations(t)
		})
	}
}

func TestRequireRoles(t *testing.T) {
	tests := []struct {
		name       string
		profile    *models.Profile
		wantStatus int
	}{
		{"anonymous", nil, http.StatusUnauthorized},
		{"member blocked", &models.Profile{Role: models.RoleMember}, http.StatusForbidden},
		{"reception allowed", &models.Profile{Role: models.RoleReception}, http.StatusOK},
		{"super admin allowed", &models.Profile{Role: models.RoleSuperAdmin}, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.profile != nil {
				req = req.WithContext(middlewarectx.WithActor(req.Context(), tt.profile, nil))
			}
			rec := httptest.NewRecorder()
			middlewarectx.RequireRoles(newNoopLogger(), models.DeskRoles...)(next).ServeHTTP(rec, req)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	limiter := middlewarectx.NewLimiter(1, 2)
	h := middlewarectx.RateLimitMiddleware(newNoopLogger(), limiter)(
		http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) }))

	do := func(addr string) int {
		req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, do("10.0.0.1:5000"))
	assert.Equal(t, http.StatusOK, do("10.0.0.1:5001"))
	assert.Equal(t, http.StatusTooManyRequests, do("10.0.0.1:5002"))
	// другой клиент получает свой бакет
	assert.Equal(t, http.StatusOK, do("10.0.0.2:5000"))
}

type recorder struct {
	route  string
	status int
}

func (r *recorder) ObserveRequest(_, route string, status int, _ time.Duration) {
	r.route = route
	r.status = status
}

func TestMetrics_UsesRoutePattern(t *testing.T) {
	rec := &recorder{}
	router := chi.NewRouter()
	router.Use(middlewarectx.Metrics(rec))
	router.Get("/orders/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/orders/42", nil))

	assert.Equal(t, "/orders/{id}", rec.route)
	assert.Equal(t, http.StatusNotFound, rec.status)
}
