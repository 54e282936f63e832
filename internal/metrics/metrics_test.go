package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveRegistrar(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveRegistrar("list", OutcomeSuccess, 20*time.Millisecond)
	m.ObserveRegistrar("list", OutcomeSuccess, 30*time.Millisecond)
	m.ObserveRegistrar("upsert", OutcomeError, time.Second)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.registrarRequests.WithLabelValues("list", OutcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.registrarRequests.WithLabelValues("upsert", OutcomeError)))
	assert.Equal(t, 2, testutil.CollectAndCount(m.registrarDuration))
}

func TestCounters(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.IncPublish(OutcomeSuccess)
	m.IncClaim("name_taken")
	m.IncClaim("name_taken")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.publishes.WithLabelValues(OutcomeSuccess)))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.claims.WithLabelValues("name_taken")))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveRegistrar("list", OutcomeSuccess, time.Millisecond)
		m.IncPublish(OutcomeError)
		m.IncClaim(OutcomeError)
	})
	assert.NotNil(t, m.Handler())
}

func TestHandlerExposesCollectors(t *testing.T) {
	m := New(NewRegistry())
	m.IncPublish(OutcomeSuccess)

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `publisher_publish_total{outcome="success"} 1`)
	assert.Contains(t, w.Body.String(), "go_goroutines")
}
