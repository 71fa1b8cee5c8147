package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordDispatch(t *testing.T) {
	Register()
	Register()

	before := testutil.ToFloat64(dispatchCounter.WithLabelValues("user", OutcomeOK))
	RecordDispatch("user", OutcomeOK, 5*time.Millisecond)
	RecordDispatch("user", OutcomeOK, time.Millisecond)
	assert.InDelta(t, before+2, testutil.ToFloat64(dispatchCounter.WithLabelValues("user", OutcomeOK)), 0)

	before = testutil.ToFloat64(dispatchCounter.WithLabelValues(UnknownAction, OutcomeNotFound))
	RecordDispatch("", OutcomeNotFound, 0)
	assert.InDelta(t, before+1, testutil.ToFloat64(dispatchCounter.WithLabelValues(UnknownAction, OutcomeNotFound)), 0)
}

func TestRecordSessionsPurged(t *testing.T) {
	Register()

	before := testutil.ToFloat64(sessionsPurged)
	RecordSessionsPurged(3)
	RecordSessionsPurged(0)
	assert.InDelta(t, before+3, testutil.ToFloat64(sessionsPurged), 0)
}

func TestHandler(t *testing.T) {
	Register()
	RecordDispatch("pages", OutcomeRedirect, time.Millisecond)

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `colony_dispatch_total{action="pages",outcome="redirect"}`)
}
