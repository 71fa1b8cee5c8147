package health_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/colony/pkg/health"
)

func TestLivenessHandler(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	health.LivenessHandler()(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())

	rec = httptest.NewRecorder()
	health.LivenessHandler()(rec, httptest.NewRequest(http.MethodGet, "/health/live?format=json", nil))
	assert.JSONEq(t, `{"status":"healthy"}`, rec.Body.String())
}

func TestReadinessHandler(t *testing.T) {
	t.Parallel()

	ok := func(context.Context) error { return nil }
	fail := func(context.Context) error { return errors.New("connection refused") }

	t.Run("all healthy", func(t *testing.T) {
		t.Parallel()

		rec := httptest.NewRecorder()
		health.ReadinessHandler(health.Checks{"db": ok, "redis": ok})(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "OK", rec.Body.String())
	})

	t.Run("one failing", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Accept", "application/json")
		rec := httptest.NewRecorder()
		health.ReadinessHandler(health.Checks{"db": ok, "redis": fail})(rec, req)

		require.Equal(t, http.StatusServiceUnavailable, rec.Code)
		var resp health.Response
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, health.StatusUnhealthy, resp.Status)
		assert.Equal(t, health.StatusHealthy, resp.Checks["db"].Status)
		assert.Equal(t, "connection refused", resp.Checks["redis"].Error)
	})

	t.Run("plain text names failing checks", func(t *testing.T) {
		t.Parallel()

		rec := httptest.NewRecorder()
		checks := health.Checks{"sessions": fail, "db": fail, "redis": ok}
		health.ReadinessHandler(checks)(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		require.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Equal(t, "Service Unavailable: db, sessions", rec.Body.String())
	})

	t.Run("timeout", func(t *testing.T) {
		t.Parallel()

		slow := func(ctx context.Context) error {
			<-ctx.Done()
			return ctx.Err()
		}
		req := httptest.NewRequest(http.MethodGet, "/?format=json", nil)
		rec := httptest.NewRecorder()
		health.ReadinessHandler(health.Checks{"slow": slow}, health.WithTimeout(20*time.Millisecond))(rec, req)

		require.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Contains(t, rec.Body.String(), health.ErrCheckTimeout.Error())
	})

	t.Run("no checks", func(t *testing.T) {
		t.Parallel()

		rec := httptest.NewRecorder()
		health.ReadinessHandler(nil)(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}
