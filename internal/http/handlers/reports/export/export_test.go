package export

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/atom-backoffice/internal/models"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) ExportAttendance(ctx context.Context, fromRaw, toRaw string) (*models.CSVFile, error) {
	args := m.Called(ctx, fromRaw, toRaw)
	f, _ := args.Get(0).(*models.CSVFile)
	return f, args.Error(1)
}

func (m *MockService) ExportSubscriptions(ctx context.Context, fromRaw, toRaw string) (*models.CSVFile, error) {
	args := m.Called(ctx, fromRaw, toRaw)
	f, _ := args.Get(0).(*models.CSVFile)
	return f, args.Error(1)
}

func (m *MockService) ExportActiveNow(ctx context.Context) (*models.CSVFile, error) {
	args := m.Called(ctx)
	f, _ := args.Get(0).(*models.CSVFile)
	return f, args.Error(1)
}

func TestExportHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
	content := []byte("\"date\",\"member_id\"\r\n\"2025-03-01\",\"u1\"\r\n")

	tests := []struct {
		name            string
		kind            string
		query           string
		setupMock       func(*MockService)
		wantStatus      int
		wantDisposition string
		wantBody        string
	}{
		{
			name:  "посещения за период",
			kind:  KindAttendance,
			query: "?from=2025-03-01&to=2025-03-31",
			setupMock: func(m *MockService) {
				m.On("ExportAttendance", mock.Anything, "2025-03-01", "2025-03-31").
					Return(&models.CSVFile{Filename: "attendance_2025-03-01_to_2025-03-31.csv", Content: content}, nil)
			},
			wantStatus:      http.StatusOK,
			wantDisposition: `attachment; filename="attendance_2025-03-01_to_2025-03-31.csv"`,
			wantBody:        string(content),
		},
		{
			name: "активные сейчас",
			kind: KindActiveNow,
			setupMock: func(m *MockService) {
				m.On("ExportActiveNow", mock.Anything).
					Return(&models.CSVFile{Filename: "subscriptions_active_now_2025-03-10.csv", Content: content}, nil)
			},
			wantStatus:      http.StatusOK,
			wantDisposition: `attachment; filename="subscriptions_active_now_2025-03-10.csv"`,
			wantBody:        string(content),
		},
		{
			name: "без периода",
			kind: KindSubscriptions,
			setupMock: func(m *MockService) {
				m.On("ExportSubscriptions", mock.Anything, "", "").Return(nil, models.ErrInvalidRange)
			},
			wantStatus: http.StatusBadRequest,
			wantBody:   `"error":"INVALID_RANGE"`,
		},
		{
			name:       "неизвестная выгрузка",
			kind:       "payments",
			setupMock:  func(_ *MockService) {},
			wantStatus: http.StatusBadRequest,
			wantBody:   `"error":"INVALID_TYPE"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			tt.setupMock(svc)

			req := httptest.NewRequest(http.MethodGet, "/reports/export/"+tt.kind+tt.query, nil)
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("kind", tt.kind)
			req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
			rec := httptest.NewRecorder()

			New(logger, svc).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantBody)
			if tt.wantDisposition != "" {
				assert.Equal(t, tt.wantDisposition, rec.Header().Get("Content-Disposition"))
				assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
				assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
			}
			svc.AssertExpectations(t)
		})
	}
}
