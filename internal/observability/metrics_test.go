package observability

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetricsCounters(t *testing.T) {
	m := NewMetrics()

	m.RecordRequest("/items", "GET", 200, 10*time.Millisecond)
	m.RecordRequest("/items", "GET", 200, 5*time.Millisecond)
	m.RecordError("/categories/:id", "DELETE", "FORBIDDEN")
	m.RecordMirrorOp("items", "update", "ok")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.requestCount.WithLabelValues("/items", "GET", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.errorCount.WithLabelValues("/categories/:id", "DELETE", "FORBIDDEN")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.mirrorOps.WithLabelValues("items", "update", "ok")))
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordRequest("/", "GET", 200, time.Millisecond)
		m.RecordError("/", "GET", "X")
		m.RecordMirrorOp("items", "list", "ok")
	})
}
