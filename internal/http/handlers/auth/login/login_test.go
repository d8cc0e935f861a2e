package login

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/atom-backoffice/internal/models"
	"github.com/magabrotheeeer/atom-backoffice/internal/services/auth"
)

type AuthServiceMock struct {
	mock.Mock
}

func (m *AuthServiceMock) Login(ctx context.Context, email, password string) (*auth.Session, error) {
	args := m.Called(ctx, email, password)
	s, _ := args.Get(0).(*auth.Session)
	return s, args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestLoginHandler_ServeHTTP(t *testing.T) {
	session := &auth.Session{
		Token:     "tok",
		ExpiresAt: time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
		Profile:   models.Profile{UserID: "u1", Role: models.RoleCoach},
	}

	tests := []struct {
		name       string
		body       any
		mockResp   *auth.Session
		mockErr    error
		callLogin  bool
		wantStatus int
		wantError  string
	}{
		{
			name:       "valid login",
			body:       Request{Email: "coach@atom.eg", Password: "password123"},
			mockResp:   session,
			callLogin:  true,
			wantStatus: http.StatusOK,
		},
		{
			name:       "invalid json body",
			body:       "not a json",
			wantStatus: http.StatusBadRequest,
			wantError:  "INVALID_BODY",
		},
		{
			name:       "missing password",
			body:       Request{Email: "coach@atom.eg"},
			wantStatus: http.StatusUnprocessableEntity,
			wantError:  "VALIDATION_FAILED",
		},
		{
			name:       "wrong password",
			body:       Request{Email: "coach@atom.eg", Password: "nope-nope"},
			mockErr:    models.ErrInvalidCredentials,
			callLogin:  true,
			wantStatus: http.StatusUnauthorized,
			wantError:  "INVALID_CREDENTIALS",
		},
		{
			name:       "storage failure",
			body:       Request{Email: "coach@atom.eg", Password: "password123"},
			mockErr:    errors.New("db down"),
			callLogin:  true,
			wantStatus: http.StatusInternalServerError,
			wantError:  "LOGIN_FAILED",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(AuthServiceMock)
			if tt.callLogin {
				req := tt.body.(Request)
				svc.On("Login", mock.Anything, req.Email, req.Password).Return(tt.mockResp, tt.mockErr).Once()
			}

			var raw []byte
			if s, ok := tt.body.(string); ok {
				raw = []byte(s)
			} else {
				var err error
				raw, err = json.Marshal(tt.body)
				require.NoError(t, err)
			}

			req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader(raw))
			req = req.WithContext(context.WithValue(req.Context(), middleware.RequestIDKey, "reqid123"))
			rec := httptest.NewRecorder()

			New(newNoopLogger(), svc).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			var got map[string]any
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
			if tt.wantError != "" {
				assert.Equal(t, false, got["ok"])
				assert.Equal(t, tt.wantError, got["error"])
			} else {
				assert.Equal(t, true, got["ok"])
				assert.Equal(t, "tok", got["token"])
				profile, ok := got["profile"].(map[string]any)
				require.True(t, ok)
				assert.Equal(t, "u1", profile["user_id"])
			}
			svc.AssertExpectations(t)
		})
	}
}
