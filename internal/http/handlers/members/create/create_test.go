package create

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/atom-backoffice/internal/http/middlewarectx"
	"github.com/magabrotheeeer/atom-backoffice/internal/models"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) CreateMember(ctx context.Context, actor models.Profile, req models.NewMemberRequest) (*models.CreateMemberResult, error) {
	args := m.Called(ctx, actor, req)
	if res := args.Get(0); res != nil {
		return res.(*models.CreateMemberResult), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestCreateHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
	actor := &models.Profile{UserID: "desk-1", Role: models.RoleReception}

	tests := []struct {
		name         string
		body         string
		withActor    bool
		setupMock    func(*MockService)
		wantStatus   int
		wantContains string
	}{
		{
			name:      "camelCase names",
			body:      `{"email":"New@Atom.eg","firstName":"Omar","lastName":"Saleh"}`,
			withActor: true,
			setupMock: func(m *MockService) {
				m.On("CreateMember", mock.Anything, *actor, models.NewMemberRequest{
					Email: "New@Atom.eg", FirstName: "Omar", LastName: "Saleh",
				}).Return(&models.CreateMemberResult{UserID: "u1", InviteSent: true}, nil)
			},
			wantStatus:   http.StatusOK,
			wantContains: `"invite_sent":true`,
		},
		{
			name:      "snake_case wins over camelCase",
			body:      `{"email":"a@atom.eg","first_name":"Ali","firstName":"Other"}`,
			withActor: true,
			setupMock: func(m *MockService) {
				m.On("CreateMember", mock.Anything, *actor, models.NewMemberRequest{
					Email: "a@atom.eg", FirstName: "Ali",
				}).Return(&models.CreateMemberResult{UserID: "u2", Existed: true}, nil)
			},
			wantStatus:   http.StatusOK,
			wantContains: `"existed":true`,
		},
		{
			name:      "missing email",
			body:      `{"first_name":"Ali"}`,
			withActor: true,
			setupMock: func(m *MockService) {
				m.On("CreateMember", mock.Anything, *actor, mock.Anything).Return(nil, models.ErrMissingEmail)
			},
			wantStatus:   http.StatusBadRequest,
			wantContains: `"error":"MISSING_EMAIL"`,
		},
		{
			name:         "broken json",
			body:         `{`,
			withActor:    true,
			setupMock:    func(_ *MockService) {},
			wantStatus:   http.StatusBadRequest,
			wantContains: `"error":"INVALID_BODY"`,
		},
		{
			name:         "no session",
			body:         `{"email":"a@atom.eg"}`,
			setupMock:    func(_ *MockService) {},
			wantStatus:   http.StatusUnauthorized,
			wantContains: `"error":"NOT_AUTHENTICATED"`,
		},
		{
			name:      "storage failure",
			body:      `{"email":"a@atom.eg"}`,
			withActor: true,
			setupMock: func(m *MockService) {
				m.On("CreateMember", mock.Anything, *actor, mock.Anything).Return(nil, errors.New("db down"))
			},
			wantStatus:   http.StatusInternalServerError,
			wantContains: `"error":"MEMBER_CREATE_FAILED"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			tt.setupMock(svc)

			req := httptest.NewRequest(http.MethodPost, "/members", strings.NewReader(tt.body))
			if tt.withActor {
				req = req.WithContext(middlewarectx.WithActor(req.Context(), actor, nil))
			}
			rec := httptest.NewRecorder()

			New(logger, svc).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantContains)
			var got map[string]any
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
			svc.AssertExpectations(t)
		})
	}
}
