// Package metrics exposes event index activity as prometheus metrics.
package metrics

import (
	"time"

	"github.com/henderiw/evtindex/pkg/eventindex"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "evtindex"

// Metrics implements eventindex.Observer.
type Metrics struct {
	rebuilds        prometheus.Counter
	rebuildDuration prometheus.Histogram
	indexedEvents   prometheus.Gauge
	queries         *prometheus.CounterVec
}

var _ eventindex.Observer = &Metrics{}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		rebuilds: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rebuilds_total",
			Help:      "Number of overlap index rebuilds.",
		}),
		rebuildDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "rebuild_duration_seconds",
			Help:      "Time spent rebuilding the overlap index.",
			Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 10),
		}),
		indexedEvents: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "indexed_events",
			Help:      "Number of events covered by the last rebuild.",
		}),
		queries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "queries_total",
			Help:      "Number of queries by direction.",
		}, []string{"direction"}),
	}

	for _, c := range []prometheus.Collector{m.rebuilds, m.rebuildDuration, m.indexedEvents, m.queries} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) ObserveRebuild(events int, took time.Duration) {
	m.rebuilds.Inc()
	m.rebuildDuration.Observe(took.Seconds())
	m.indexedEvents.Set(float64(events))
}

func (m *Metrics) ObserveQuery(direction eventindex.Direction) {
	m.queries.WithLabelValues(string(direction)).Inc()
}
