package nmslib

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsCollector receives operational metrics from the index facade.
type MetricsCollector interface {
	// RecordBuild is called after CreateIndex with the final node
	// count; err is nil on success.
	RecordBuild(nodes int, duration time.Duration, err error)

	// RecordSearch is called after each kNN search. algo names the
	// beam variant that ran.
	RecordSearch(algo string, k int, duration time.Duration, err error)

	// RecordSave is called after each index save.
	RecordSave(duration time.Duration, err error)

	// RecordLoad is called after each index load with the node count
	// that was reconstructed.
	RecordLoad(nodes int, duration time.Duration, err error)
}

// NoopMetricsCollector discards all metrics.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordBuild(int, time.Duration, error)          {}
func (NoopMetricsCollector) RecordSearch(string, int, time.Duration, error) {}
func (NoopMetricsCollector) RecordSave(time.Duration, error)                {}
func (NoopMetricsCollector) RecordLoad(int, time.Duration, error)           {}

// PrometheusCollector implements MetricsCollector on top of
// prometheus/client_golang.
type PrometheusCollector struct {
	buildSeconds   prometheus.Gauge
	indexedNodes   prometheus.Gauge
	searchesTotal  *prometheus.CounterVec
	searchSeconds  *prometheus.HistogramVec
	snapshotsTotal *prometheus.CounterVec
	errorsTotal    *prometheus.CounterVec
}

// NewPrometheusCollector registers the index metrics with reg and
// returns the collector. Pass prometheus.DefaultRegisterer to expose
// them through the default /metrics handler.
func NewPrometheusCollector(reg prometheus.Registerer) *PrometheusCollector {
	factory := promauto.With(reg)
	return &PrometheusCollector{
		buildSeconds: factory.NewGauge(prometheus.GaugeOpts{
			Name: "nmslib_index_build_seconds",
			Help: "Wall-clock duration of the last index build",
		}),
		indexedNodes: factory.NewGauge(prometheus.GaugeOpts{
			Name: "nmslib_index_nodes",
			Help: "Number of nodes in the index",
		}),
		searchesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "nmslib_searches_total",
			Help: "Total number of kNN searches",
		}, []string{"algo"}),
		searchSeconds: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "nmslib_search_duration_seconds",
			Help:    "Duration of kNN searches in seconds",
			Buckets: []float64{0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		}, []string{"algo"}),
		snapshotsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "nmslib_snapshots_total",
			Help: "Total number of index saves and loads",
		}, []string{"op"}),
		errorsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "nmslib_errors_total",
			Help: "Total number of failed operations",
		}, []string{"op"}),
	}
}

// RecordBuild implements MetricsCollector.
func (p *PrometheusCollector) RecordBuild(nodes int, duration time.Duration, err error) {
	if err != nil {
		p.errorsTotal.WithLabelValues("build").Inc()
		return
	}
	p.buildSeconds.Set(duration.Seconds())
	p.indexedNodes.Set(float64(nodes))
}

// RecordSearch implements MetricsCollector.
func (p *PrometheusCollector) RecordSearch(algo string, k int, duration time.Duration, err error) {
	if err != nil {
		p.errorsTotal.WithLabelValues("search").Inc()
		return
	}
	p.searchesTotal.WithLabelValues(algo).Inc()
	p.searchSeconds.WithLabelValues(algo).Observe(duration.Seconds())
}

// RecordSave implements MetricsCollector.
func (p *PrometheusCollector) RecordSave(duration time.Duration, err error) {
	if err != nil {
		p.errorsTotal.WithLabelValues("save").Inc()
		return
	}
	p.snapshotsTotal.WithLabelValues("save").Inc()
}

// RecordLoad implements MetricsCollector.
func (p *PrometheusCollector) RecordLoad(nodes int, duration time.Duration, err error) {
	if err != nil {
		p.errorsTotal.WithLabelValues("load").Inc()
		return
	}
	p.snapshotsTotal.WithLabelValues("load").Inc()
	p.indexedNodes.Set(float64(nodes))
}
