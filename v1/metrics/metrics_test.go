package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Aleph-Alpha/vectorshard/v1/allocator"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorders(t *testing.T) {
	m := NewMetrics(Config{Namespace: "test", ServiceName: "svc"})

	m.PlacementObserved(allocator.OutcomePlaced, "P1", 20*time.Millisecond)
	m.PlacementObserved(allocator.OutcomePlaced, "P1", 30*time.Millisecond)
	m.PlacementObserved(allocator.OutcomeExhausted, "", time.Millisecond)
	m.IndexCreated("P1")
	m.ProjectExhausted("P1")
	m.ProjectExhausted("P2")
	m.ObserveDial(true)
	m.ObserveDial(false)
	m.ObserveDial(false)
	m.ObserveIdle(3)
	m.ObserveRequest("/api/v1/query", http.StatusOK, time.Now())

	assert.Equal(t, 2.0, testutil.ToFloat64(m.placementsTotal.WithLabelValues(allocator.OutcomePlaced)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.placementsTotal.WithLabelValues(allocator.OutcomeExhausted)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.indexesCreated.WithLabelValues("P1")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.projectsExhausted.WithLabelValues("P2")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.poolDialsTotal.WithLabelValues("failure")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.poolIdle))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requestsTotal.WithLabelValues("/api/v1/query", "200")))
}

func TestServiceLabelAndExposition(t *testing.T) {
	m := NewMetrics(Config{Namespace: "test", ServiceName: "svc", Address: ":0"})
	require.NotNil(t, m.Server)
	m.IndexCreated("P1")

	rec := httptest.NewRecorder()
	promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	body := rec.Body.String()
	assert.True(t, strings.Contains(body, `test_indexes_created_total{project="P1",service="svc"} 1`), body)
}

func TestNoServerWithoutAddress(t *testing.T) {
	m := NewMetrics(Config{})
	assert.Nil(t, m.Server)
}

func TestDefaultCollectors(t *testing.T) {
	m := NewMetrics(Config{EnableDefaultCollectors: true, ServiceName: "svc"})

	families, err := m.Registry.Gather()
	require.NoError(t, err)

	var found bool
	for _, f := range families {
		if f.GetName() == "go_goroutines" {
			found = true
		}
	}
	assert.True(t, found)
}
