package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveTask("set_device", OutcomeSucceeded, time.Millisecond)
	m.ObserveTask("set_device", OutcomeSucceeded, time.Millisecond)
	m.ObserveTask("set_device", OutcomeFailed, time.Millisecond)
	m.ObserveRemoteError(409)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.tasks.WithLabelValues("set_device", OutcomeSucceeded)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.tasks.WithLabelValues("set_device", OutcomeFailed)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.remoteErrors.WithLabelValues("409")))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveTask("x", OutcomeFailed, time.Second)
		m.ObserveRemoteError(500)
	})
}
