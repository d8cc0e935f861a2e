package orderstatus

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/atom-backoffice/internal/http/middlewarectx"
	"github.com/magabrotheeeer/atom-backoffice/internal/models"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) UpdateStatus(ctx context.Context, actor models.Profile, id int64, rawStatus string) (*models.StatusChangeResult, error) {
	args := m.Called(ctx, actor, id, rawStatus)
	if res := args.Get(0); res != nil {
		return res.(*models.StatusChangeResult), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestStatusHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
	actor := &models.Profile{UserID: "root", Role: models.RoleSuperAdmin}

	tests := []struct {
		name       string
		id         string
		body       string
		setupMock  func(*MockService)
		wantStatus int
		wantError  string
		wantWarn   bool
	}{
		{
			name: "confirmed",
			id:   "7",
			body: `{"status":"confirmed"}`,
			setupMock: func(m *MockService) {
				m.On("UpdateStatus", mock.Anything, *actor, int64(7), "confirmed").
					Return(&models.StatusChangeResult{ID: 7, Status: models.OrderConfirmed}, nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name: "notification failed",
			id:   "7",
			body: `{"status":"ready"}`,
			setupMock: func(m *MockService) {
				m.On("UpdateStatus", mock.Anything, *actor, int64(7), "ready").
					Return(&models.StatusChangeResult{ID: 7, Status: models.OrderReady, Warn: "NOTIFICATION_FAILED"}, nil)
			},
			wantStatus: http.StatusOK,
			wantWarn:   true,
		},
		{
			name:       "bad id",
			id:         "abc",
			body:       `{"status":"ready"}`,
			setupMock:  func(_ *MockService) {},
			wantStatus: http.StatusBadRequest,
			wantError:  "MISSING_ORDER_ID",
		},
		{
			name: "unknown order",
			id:   "99",
			body: `{"status":"ready"}`,
			setupMock: func(m *MockService) {
				m.On("UpdateStatus", mock.Anything, *actor, int64(99), "ready").Return(nil, models.ErrOrderNotFound)
			},
			wantStatus: http.StatusNotFound,
			wantError:  "ORDER_NOT_FOUND",
		},
		{
			name: "invalid status",
			id:   "7",
			body: `{"status":"shipped"}`,
			setupMock: func(m *MockService) {
				m.On("UpdateStatus", mock.Anything, *actor, int64(7), "shipped").Return(nil, models.ErrInvalidStatus)
			},
			wantStatus: http.StatusBadRequest,
			wantError:  "INVALID_STATUS",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			tt.setupMock(svc)

			req := httptest.NewRequest(http.MethodPatch, "/store/orders/"+tt.id+"/status", strings.NewReader(tt.body))
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("id", tt.id)
			ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
			req = req.WithContext(middlewarectx.WithActor(ctx, actor, nil))
			rec := httptest.NewRecorder()

			New(logger, svc).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			var got map[string]any
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
			if tt.wantError != "" {
				assert.Equal(t, tt.wantError, got["error"])
			}
			_, hasWarn := got["warn"]
			assert.Equal(t, tt.wantWarn, hasWarn)
			svc.AssertExpectations(t)
		})
	}
}
