package planner

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics are the Prometheus collectors fed by a Planner.
type Metrics struct {
	// Episodes counts finished episodes by outcome ("ok", "empty", "error").
	Episodes *prometheus.CounterVec
	// Augmentations counts augmenting rounds over all episodes.
	Augmentations prometheus.Counter
	// Mutations counts augmenting rounds that rerouted committed flow.
	Mutations prometheus.Counter
	// Anomalies counts recovered irregularities by kind.
	Anomalies *prometheus.CounterVec
	// Duration observes episode wall time in seconds.
	Duration prometheus.Histogram
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)

	return &Metrics{
		Episodes: f.NewCounterVec(prometheus.CounterOpts{
			Name: "chokeflow_episodes_total",
			Help: "Planning episodes by outcome",
		}, []string{"outcome"}),
		Augmentations: f.NewCounter(prometheus.CounterOpts{
			Name: "chokeflow_augmentations_total",
			Help: "Augmenting paths saturated",
		}),
		Mutations: f.NewCounter(prometheus.CounterOpts{
			Name: "chokeflow_mutations_total",
			Help: "Augmenting paths that cancelled committed flow",
		}),
		Anomalies: f.NewCounterVec(prometheus.CounterOpts{
			Name: "chokeflow_anomalies_total",
			Help: "Locally recovered irregularities by kind",
		}, []string{"kind"}),
		Duration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "chokeflow_episode_duration_seconds",
			Help:    "Wall time of planning episodes",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}),
	}
}

// observe records one episode. m may be nil.
func (m *Metrics) observe(outcome string, d time.Duration, s Stats) {
	if m == nil {
		return
	}
	m.Episodes.WithLabelValues(outcome).Inc()
	m.Duration.Observe(d.Seconds())
	m.Augmentations.Add(float64(s.Augmentations))
	m.Mutations.Add(float64(s.Mutations))
	for kind, n := range map[string]int{
		"clamp":          s.Clamps,
		"cover_fallback": s.CoverFallbacks,
		"frozen":         s.Frozen,
		"widening":       s.Widenings,
	} {
		if n > 0 {
			m.Anomalies.WithLabelValues(kind).Add(float64(n))
		}
	}
	if s.Bounded {
		m.Anomalies.WithLabelValues("bounded").Inc()
	}
}
