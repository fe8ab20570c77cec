package metrics

import (
	"strconv"
	"time"

	"github.com/Aleph-Alpha/vectorshard/v1/allocator"
	"github.com/Aleph-Alpha/vectorshard/v1/pool"
)

var (
	_ allocator.Recorder = (*Metrics)(nil)
	_ pool.Observer      = (*Metrics)(nil)
)

// PlacementObserved implements allocator.Recorder.
func (m *Metrics) PlacementObserved(outcome, _ string, elapsed time.Duration) {
	m.placementsTotal.WithLabelValues(outcome).Inc()
	m.placementDuration.WithLabelValues(outcome).Observe(elapsed.Seconds())
}

func (m *Metrics) IndexCreated(project string) {
	m.indexesCreated.WithLabelValues(project).Inc()
}

func (m *Metrics) ProjectExhausted(project string) {
	m.projectsExhausted.WithLabelValues(project).Inc()
}

// ObserveDial implements pool.Observer.
func (m *Metrics) ObserveDial(success bool) {
	result := "failure"
	if success {
		result = "success"
	}
	m.poolDialsTotal.WithLabelValues(result).Inc()
}

func (m *Metrics) ObserveIdle(n int) {
	m.poolIdle.Set(float64(n))
}

// ObserveRequest records one HTTP request.
// Example: defer m.ObserveRequest("/api/v1/query", http.StatusOK, time.Now())
func (m *Metrics) ObserveRequest(route string, status int, start time.Time) {
	m.requestsTotal.WithLabelValues(route, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
}
