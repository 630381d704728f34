package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakePool stubs database.Pool for readiness checks.
type fakePool struct {
	pingErr error
}

func (f *fakePool) Ping(ctx context.Context) error { return f.pingErr }
func (f *fakePool) Close()                         {}

func TestHandleHealthz(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	HandleHealthz()(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
}

func TestHandleReadyz(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
	rec := httptest.NewRecorder()
	HandleReadyz(&fakePool{})(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
}

func TestHandleReadyz_DatabaseDown(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
	rec := httptest.NewRecorder()
	HandleReadyz(&fakePool{pingErr: errors.New("connection refused")})(rec, req)

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "unavailable", resp.Status)
}
