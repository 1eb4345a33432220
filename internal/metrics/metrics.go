// Package metrics records task outcomes and remote failures as Prometheus
// series.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Task outcomes.
const (
	OutcomeSucceeded      = "succeeded"
	OutcomeFailed         = "failed"
	OutcomeAborted        = "aborted"
	OutcomeNotImplemented = "not_implemented"
)

// Metrics holds the collectors of one application instance. A nil *Metrics
// records nothing.
type Metrics struct {
	tasks        *prometheus.CounterVec
	taskDuration *prometheus.HistogramVec
	remoteErrors *prometheus.CounterVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		tasks: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "devicefarm",
				Name:      "tasks_total",
				Help:      "Recipe tasks executed, by action and outcome.",
			},
			[]string{"action", "outcome"},
		),
		taskDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "devicefarm",
				Name:      "task_duration_seconds",
				Help:      "Recipe task duration in seconds.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"action"},
		),
		remoteErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "devicefarm",
				Name:      "remote_errors_total",
				Help:      "Errors answered by the device farm, by status code.",
			},
			[]string{"status_code"},
		),
	}
	reg.MustRegister(m.tasks, m.taskDuration, m.remoteErrors)
	return m
}

// ObserveTask records one finished task.
func (m *Metrics) ObserveTask(action, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.tasks.WithLabelValues(action, outcome).Inc()
	m.taskDuration.WithLabelValues(action).Observe(d.Seconds())
}

// ObserveRemoteError records one error answered by the farm.
func (m *Metrics) ObserveRemoteError(status int) {
	if m == nil {
		return
	}
	m.remoteErrors.WithLabelValues(strconv.Itoa(status)).Inc()
}
