package scan

import (
	"context"
	"encoding/json"
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

func (m *MockService) Scan(ctx context.Context, actor models.Profile, code string) (*models.ScanResult, error) {
	args := m.Called(ctx, actor, code)
	if res := args.Get(0); res != nil {
		return res.(*models.ScanResult), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestScanHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
	actor := &models.Profile{UserID: "kiosk", Role: models.RoleReception}
	subID := int64(5)

	tests := []struct {
		name       string
		body       string
		setupMock  func(*MockService)
		wantStatus int
		check      func(t *testing.T, got map[string]any)
	}{
		{
			name: "valid pack scan",
			body: `{"qr":"atom:0b7e5a4e-3f1c-4d7a-9a57-5b9f0c8d1e2f"}`,
			setupMock: func(m *MockService) {
				m.On("Scan", mock.Anything, *actor, "atom:0b7e5a4e-3f1c-4d7a-9a57-5b9f0c8d1e2f").Return(&models.ScanResult{
					Valid: true, MemberID: "m1", SubscriptionID: &subID, Message: models.ScanMessageValid,
				}, nil)
			},
			wantStatus: http.StatusOK,
			check: func(t *testing.T, got map[string]any) {
				assert.Equal(t, true, got["valid"])
				assert.Equal(t, float64(5), got["subscription_id"])
			},
		},
		{
			name: "no subscription still 200",
			body: `{"qr":"atom:x"}`,
			setupMock: func(m *MockService) {
				m.On("Scan", mock.Anything, *actor, "atom:x").Return(&models.ScanResult{
					Valid: false, MemberID: "m2", Message: models.ScanMessageInvalid,
				}, nil)
			},
			wantStatus: http.StatusOK,
			check: func(t *testing.T, got map[string]any) {
				assert.Equal(t, false, got["valid"])
				assert.Nil(t, got["subscription_id"])
			},
		},
		{
			name: "missing code",
			body: `{}`,
			setupMock: func(m *MockService) {
				m.On("Scan", mock.Anything, *actor, "").Return(nil, models.ErrMissingQR)
			},
			wantStatus: http.StatusBadRequest,
			check: func(t *testing.T, got map[string]any) {
				assert.Equal(t, "MISSING_QR", got["error"])
			},
		},
		{
			name: "unknown code",
			body: `{"qr":"nope"}`,
			setupMock: func(m *MockService) {
				m.On("Scan", mock.Anything, *actor, "nope").Return(nil, models.ErrInvalidQR)
			},
			wantStatus: http.StatusNotFound,
			check: func(t *testing.T, got map[string]any) {
				assert.Equal(t, "INVALID_QR", got["error"])
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			tt.setupMock(svc)

			req := httptest.NewRequest(http.MethodPost, "/checkin/scan", strings.NewReader(tt.body))
			req = req.WithContext(middlewarectx.WithActor(req.Context(), actor, nil))
			rec := httptest.NewRecorder()

			New(logger, svc).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			var got map[string]any
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
			tt.check(t, got)
			svc.AssertExpectations(t)
		})
	}
}
