package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// CurrentEpoch reports the epoch of the currently active role state.
	CurrentEpoch = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "quorumstate_current_epoch",
			Help: "Epoch of the quorum state manager's currently active role",
		},
	)

	// CurrentRole is 1 for the labeled role that is currently active, 0 otherwise.
	CurrentRole = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "quorumstate_current_role",
			Help: "Whether the given role is the currently active one (1) or not (0)",
		},
		[]string{"role"},
	)

	// TransitionsTotal counts accepted transitions by origin and destination role.
	TransitionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quorumstate_transitions_total",
			Help: "Total number of accepted role transitions",
		},
		[]string{"from_role", "to_role"},
	)

	// TransitionsRejectedTotal counts illegal-transition errors by attempted destination.
	TransitionsRejectedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quorumstate_transitions_rejected_total",
			Help: "Total number of transitions rejected by precondition checks",
		},
		[]string{"to_role"},
	)

	// StoreWriteDuration measures latency of durable election-state writes.
	StoreWriteDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "quorumstate_store_write_duration_seconds",
			Help:    "Time taken for a durable election-state write to return",
			Buckets: prometheus.DefBuckets,
		},
	)

	// StoreWriteFailuresTotal counts election-state write failures.
	StoreWriteFailuresTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "quorumstate_store_write_failures_total",
			Help: "Total number of failed durable election-state writes",
		},
	)
)

func init() {
	prometheus.MustRegister(CurrentEpoch)
	prometheus.MustRegister(CurrentRole)
	prometheus.MustRegister(TransitionsTotal)
	prometheus.MustRegister(TransitionsRejectedTotal)
	prometheus.MustRegister(StoreWriteDuration)
	prometheus.MustRegister(StoreWriteFailuresTotal)
}

// roleNames lists every role tag so CurrentRole can be reset each transition.
var roleNames = []string{"unattached", "candidate", "leader", "follower", "resigned"}

// SetCurrentRole marks `role` as active and every other known role as inactive.
func SetCurrentRole(role string) {
	for _, name := range roleNames {
		value := 0.0
		if name == role {
			value = 1.0
		}
		CurrentRole.WithLabelValues(name).Set(value)
	}
}

// Timer is a helper for timing operations.
type Timer struct {
	start time.Time
}

// NewTimer creates a new timer.
func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// ObserveDuration records the duration to a histogram.
func (t *Timer) ObserveDuration(histogram prometheus.Histogram) {
	duration := time.Since(t.start).Seconds()
	histogram.Observe(duration)
}

// ObserveDurationVec records the duration to a histogram vec with labels.
func (t *Timer) ObserveDurationVec(histogram prometheus.ObserverVec, labels ...string) {
	duration := time.Since(t.start).Seconds()
	histogram.WithLabelValues(labels...).Observe(duration)
}

// Duration returns the elapsed time since the timer started.
func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}
