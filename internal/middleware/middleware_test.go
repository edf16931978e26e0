package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveTenantIDFromHeader(t *testing.T) {
	m := NewTenantMiddleware(nil)

	req := httptest.NewRequest("GET", "/api/billing/invoices", nil)
	req.Header.Set("X-Tenant-ID", "7")

	id, err := m.resolveTenantID(req)
	require.NoError(t, err)
	assert.Equal(t, 7, id)
}

func TestResolveTenantIDInvalidHeader(t *testing.T) {
	m := NewTenantMiddleware(nil)

	for _, raw := range []string{"abc", "0", "-3"} {
		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set("X-Tenant-ID", raw)

		_, err := m.resolveTenantID(req)
		assert.Error(t, err, "header %q should be rejected", raw)
	}
}

func TestTenantContextRoundTrip(t *testing.T) {
	ctx := context.WithValue(context.Background(), TenantIDKey, 3)

	id, ok := GetTenantIDFromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, 3, id)

	_, ok = GetTenantIDFromContext(context.Background())
	assert.False(t, ok)
}

func TestPanicRecoveryReturnsJSONError(t *testing.T) {
	handler := PanicRecovery(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Internal server error", body["error"])
}

func TestStatusRecorderCapturesCode(t *testing.T) {
	rec := httptest.NewRecorder()
	wrapped := &statusRecorder{ResponseWriter: rec, statusCode: 200}

	wrapped.WriteHeader(http.StatusTeapot)
	assert.Equal(t, http.StatusTeapot, wrapped.statusCode)
	assert.Equal(t, http.StatusTeapot, rec.Code)
}
