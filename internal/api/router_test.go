package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/drfirst/go-x12/internal/api/handlers"
	"github.com/drfirst/go-x12/internal/engine"
	"github.com/drfirst/go-x12/internal/observability/metrics"
)

func newTestRouter(t *testing.T, ready func(context.Context) error) http.Handler {
	t.Helper()
	m := metrics.New(nil)
	x, err := handlers.NewX12Handler(engine.New(zap.NewNop(), engine.WithMetrics(m)), 4, zap.NewNop())
	require.NoError(t, err)
	return NewRouter(Deps{
		ServiceName:  "ingestion-api",
		Metrics:      m,
		APIKeys:      map[string]string{"secret": "test-client"},
		MaxBodyBytes: 1 << 10,
		X12:          x,
		Ready:        ready,
	})
}

func do(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealthAndReady(t *testing.T) {
	t.Run("Should report health without credentials", func(t *testing.T) {
		rec := do(newTestRouter(t, nil), httptest.NewRequest(http.MethodGet, "/health", nil))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"status":"healthy","service":"ingestion-api","version":"`+Version+`"}`, rec.Body.String())
	})

	t.Run("Should fail readiness when a dependency is down", func(t *testing.T) {
		r := newTestRouter(t, func(context.Context) error { return errors.New("postgres unreachable") })
		assert.Equal(t, http.StatusServiceUnavailable, do(r, httptest.NewRequest(http.MethodGet, "/ready", nil)).Code)
	})

	t.Run("Should be ready when checks pass", func(t *testing.T) {
		r := newTestRouter(t, func(context.Context) error { return nil })
		assert.Equal(t, http.StatusOK, do(r, httptest.NewRequest(http.MethodGet, "/ready", nil)).Code)
	})
}

func TestAPIRoutes(t *testing.T) {
	r := newTestRouter(t, nil)
	body := "ST*270*0001~BHT*0022*13~HL*1**22*0~NM1*IL*1*DOE*JOHN****MI*MBI123~SE*5*0001~"

	t.Run("Should require an API key", func(t *testing.T) {
		rec := do(r, httptest.NewRequest(http.MethodPost, "/api/v1/x12/parse", strings.NewReader(body)))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("Should serve authenticated requests", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/x12/parse", strings.NewReader(body))
		req.Header.Set("X-API-Key", "secret")
		rec := do(r, req)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
	})

	t.Run("Should cap request bodies", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/x12/parse", strings.NewReader(strings.Repeat("X", 2<<10)))
		req.Header.Set("X-API-Key", "secret")
		assert.Equal(t, http.StatusRequestEntityTooLarge, do(r, req).Code)
	})

	t.Run("Should expose metrics", func(t *testing.T) {
		rec := do(r, httptest.NewRequest(http.MethodGet, "/metrics", nil))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "x12_http_requests_total")
	})
}
