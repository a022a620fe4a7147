package rest

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shreyashgol/genAI-capstone-project/pkg/observability"
)

func serve(t *testing.T, h *HealthHandler, path string) *httptest.ResponseRecorder {
	t.Helper()
	mux := http.NewServeMux()
	h.RegisterRoutes(mux)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestHealthz(t *testing.T) {
	rec := serve(t, NewHealthHandler("churn-service", observability.NopLogger()), "/healthz")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	var body HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body.Status)
	assert.Equal(t, "churn-service", body.Service)
}

func TestReadyz(t *testing.T) {
	t.Run("ready when every check passes", func(t *testing.T) {
		h := NewHealthHandler("churn-service", observability.NopLogger())
		h.AddCheck("artifacts", func(context.Context) error { return nil })
		h.AddCheck("database", func(context.Context) error { return nil })

		rec := serve(t, h, "/readyz")
		assert.Equal(t, http.StatusOK, rec.Code)
		var body ReadinessResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "ready", body.Status)
		assert.Equal(t, map[string]string{"artifacts": "ok", "database": "ok"}, body.Checks)
	})

	t.Run("unavailable when a check fails", func(t *testing.T) {
		h := NewHealthHandler("churn-service", observability.NopLogger())
		h.AddCheck("artifacts", func(context.Context) error { return errors.New("artifacts not loaded") })
		h.AddCheck("database", func(context.Context) error { return nil })

		rec := serve(t, h, "/readyz")
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		var body ReadinessResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "not_ready", body.Status)
		assert.Equal(t, "artifacts not loaded", body.Checks["artifacts"])
		assert.Equal(t, "ok", body.Checks["database"])
	})
}

func TestMetricsRoute(t *testing.T) {
	plain := serve(t, NewHealthHandler("churn-service", observability.NopLogger()), "/metrics")
	assert.Equal(t, http.StatusNotFound, plain.Code)

	metrics := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("churn_predictions_total 1\n"))
	})
	rec := serve(t, NewHealthHandler("churn-service", observability.NopLogger()).WithMetrics(metrics), "/metrics")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "churn_predictions_total")
}
