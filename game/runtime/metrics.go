package runtime

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics collects dispatch statistics of one or more loops.
type Metrics struct {
	events      *prometheus.CounterVec
	dropped     prometheus.Counter
	errors      prometheus.Counter
	transitions *prometheus.CounterVec
	dispatch    prometheus.Histogram
	queued      prometheus.Gauge
}

// NewMetrics creates the collectors and registers them with reg. A nil reg
// leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "koldun",
			Name:      "events_total",
			Help:      "Events dispatched to the state machine.",
		}, []string{"kind"}),
		dropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "koldun",
			Name:      "events_dropped_total",
			Help:      "Ticks dropped because the event queue was full.",
		}),
		errors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "koldun",
			Name:      "dispatch_errors_total",
			Help:      "Events whose handling returned an error.",
		}),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "koldun",
			Name:      "state_transitions_total",
			Help:      "State machine transitions by target state.",
		}, []string{"state"}),
		dispatch: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "koldun",
			Name:      "dispatch_duration_seconds",
			Help:      "Time spent handling one event, draw calls included.",
			Buckets:   []float64{.0001, .0005, .001, .005, .01, .025, .05, .1},
		}),
		queued: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "koldun",
			Name:      "events_queued",
			Help:      "Events waiting in the queue.",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.events, m.dropped, m.errors, m.transitions, m.dispatch, m.queued)
	}
	return m
}
