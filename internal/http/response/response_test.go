package response

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/atom-backoffice/internal/models"
)

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var got map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	return got
}

func TestOK(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	OK(rec, req, Fields{"id": 7, "ok": false})

	assert.Equal(t, http.StatusOK, rec.Code)
	got := decode(t, rec)
	assert.Equal(t, true, got["ok"])
	assert.Equal(t, float64(7), got["id"])
}

func TestFail(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		fallback   string
		wantStatus int
		wantCode   string
		wantDetail string
	}{
		{"invalid", models.ErrInvalidPlan, "", http.StatusBadRequest, "INVALID_PLAN", ""},
		{"unprocessable", models.ErrReasonTooShort, "", http.StatusUnprocessableEntity, "REASON_TOO_SHORT", ""},
		{"not found", models.ErrOrderNotFound, "", http.StatusNotFound, "ORDER_NOT_FOUND", ""},
		{"conflict", models.ErrPendingExists, "", http.StatusConflict, "PENDING_EXISTS", ""},
		{"forbidden", models.ErrForbidden, "", http.StatusForbidden, "FORBIDDEN", ""},
		{"auth", models.ErrNotAuthenticated, "", http.StatusUnauthorized, "NOT_AUTHENTICATED", ""},
		{"details", models.ErrProductInactive.WithDetails("12"), "", http.StatusBadRequest, "PRODUCT_INACTIVE", "12"},
		{"wrapped", errors.Join(errors.New("ctx"), models.ErrNoItems), "", http.StatusBadRequest, "NO_ITEMS", ""},
		{"unknown", errors.New("db down"), "ORDER_CREATE_FAILED", http.StatusInternalServerError, "ORDER_CREATE_FAILED", ""},
		{"unknown default", errors.New("db down"), "", http.StatusInternalServerError, ServerError, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/", nil)

			Fail(rec, req, newNoopLogger(), tt.err, tt.fallback)

			assert.Equal(t, tt.wantStatus, rec.Code)
			got := decode(t, rec)
			assert.Equal(t, false, got["ok"])
			assert.Equal(t, tt.wantCode, got["error"])
			if tt.wantDetail != "" {
				assert.Equal(t, tt.wantDetail, got["details"])
			}
		})
	}
}

func TestInvalid_ValidationMessages(t *testing.T) {
	type body struct {
		Email string `validate:"required"`
		Name  string `validate:"max=3"`
	}
	err := validator.New().Struct(body{Name: "too long"})
	require.Error(t, err)

	rec := httptest.NewRecorder()
	Invalid(rec, httptest.NewRequest(http.MethodPost, "/", nil), newNoopLogger(), err)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	got := decode(t, rec)
	assert.Equal(t, "VALIDATION_FAILED", got["error"])
	assert.Contains(t, got["details"], "field Email is a required field")
	assert.Contains(t, got["details"], "field Name is too long")
}
