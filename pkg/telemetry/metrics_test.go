package telemetry

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.PopperCreated("popover")
		m.PopperDisposed("popover")
		m.Transition("popover", "open")
		m.ScrollLockAcquired()
		m.ScrollLockReleased()
	})
}

func TestMetricsRecord(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(WithRegistry(reg), WithNamespace("test"))

	m.PopperCreated("popover")
	m.PopperCreated("popover")
	m.PopperDisposed("popover")
	m.Transition("popover", "open")
	m.ScrollLockAcquired()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.poppersCreated.WithLabelValues("popover")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.poppersLive.WithLabelValues("popover")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.transitions.WithLabelValues("popover", "open")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.scrollLocks))

	m.ScrollLockReleased()
	assert.Equal(t, 0.0, testutil.ToFloat64(m.scrollLocks))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.scrollLockHolds))
}
