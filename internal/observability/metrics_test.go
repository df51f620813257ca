package observability

import (
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsRecordSweep(t *testing.T) {
	m := NewMetrics()
	m.RecordSweep(3, 10*time.Millisecond, nil)
	m.RecordSweep(0, time.Millisecond, errors.New("boom"))

	assert.Equal(t, 3.0, testutil.ToFloat64(m.sweepClosed))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.sweepRuns.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.sweepRuns.WithLabelValues("error")))
}

func TestMetricsHandlerExposesCounters(t *testing.T) {
	m := NewMetrics()
	m.RecordRequest("/token", "POST", 200, 5*time.Millisecond)
	m.RecordLogin("student", "success")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, 200, rec.Code)

	body := rec.Body.String()
	assert.True(t, strings.Contains(body, `placement_http_requests_total{method="POST",path="/token",status="200"} 1`))
	assert.True(t, strings.Contains(body, `placement_logins_total{class="student",outcome="success"} 1`))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordRequest("/", "GET", 200, time.Millisecond)
		m.RecordError("/", "GET", "X")
		m.RecordSweep(1, time.Millisecond, nil)
		m.RecordLogin("admin", "failure")
		m.RecordNotifications("broadcast", 2)
	})
}
