// Package telemetry exposes the dashboard's own metrics in prometheus format.
package telemetry

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "adspend"

// Reload outcomes
const (
	ReloadUpdated   = "updated"
	ReloadUnchanged = "unchanged"
	ReloadFailed    = "failed"
)

// Chart build outcomes
const (
	BuildOk    = "ok"
	BuildError = "error"
)

// Recorder is what the synchronizer and the web handlers report to
type Recorder interface {
	RecordChartBuild(kind string, err error)
	RecordReload(outcome string, duration time.Duration)
	RecordDataset(version int64, entities int, missingColors int)
	RecordEndpointLatency(endpoint string, latency time.Duration)
}

// Metrics is a prometheus backed Recorder with its own registry
type Metrics struct {
	registry        *prometheus.Registry
	chartBuilds     *prometheus.CounterVec
	reloads         *prometheus.CounterVec
	reloadDuration  prometheus.Histogram
	datasetVersion  prometheus.Gauge
	datasetEntities prometheus.Gauge
	missingColors   prometheus.Gauge
	lastReload      prometheus.Gauge
	latencies       *prometheus.HistogramVec
}

// NewMetrics builds and registers every collector
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		chartBuilds: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chart_builds_total",
			Help:      "Chart configurations built, by chart kind and outcome.",
		}, []string{"kind", "outcome"}),
		reloads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dataset_reloads_total",
			Help:      "Dataset synchronizations, by outcome.",
		}, []string{"outcome"}),
		reloadDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "dataset_reload_duration_seconds",
			Help:      "Time spent fetching and parsing the dataset.",
			Buckets:   prometheus.DefBuckets,
		}),
		datasetVersion: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "dataset_version",
			Help:      "Version of the dataset being served.",
		}),
		datasetEntities: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "dataset_entities",
			Help:      "Parties present in the dataset being served.",
		}),
		missingColors: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "dataset_missing_colors",
			Help:      "Labels of the dataset being served without a palette color.",
		}),
		lastReload: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "dataset_last_reload_timestamp_seconds",
			Help:      "Unix time of the last dataset change.",
		}),
		latencies: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Latency of the dashboard endpoints.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"endpoint"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.chartBuilds,
		m.reloads,
		m.reloadDuration,
		m.datasetVersion,
		m.datasetEntities,
		m.missingColors,
		m.lastReload,
		m.latencies,
	)
	return m
}

// RecordChartBuild counts a chart build
func (m *Metrics) RecordChartBuild(kind string, err error) {
	outcome := BuildOk
	if err != nil {
		outcome = BuildError
	}
	m.chartBuilds.WithLabelValues(kind, outcome).Inc()
}

// RecordReload counts a synchronization attempt
func (m *Metrics) RecordReload(outcome string, duration time.Duration) {
	m.reloads.WithLabelValues(outcome).Inc()
	m.reloadDuration.Observe(duration.Seconds())
	if outcome == ReloadUpdated {
		m.lastReload.SetToCurrentTime()
	}
}

// RecordDataset updates the gauges describing the dataset being served
func (m *Metrics) RecordDataset(version int64, entities int, missingColors int) {
	m.datasetVersion.Set(float64(version))
	m.datasetEntities.Set(float64(entities))
	m.missingColors.Set(float64(missingColors))
}

// RecordEndpointLatency observes the time taken to serve an endpoint
func (m *Metrics) RecordEndpointLatency(endpoint string, latency time.Duration) {
	m.latencies.WithLabelValues(endpoint).Observe(latency.Seconds())
}

// Gatherer exposes the registry, mostly for tests
func (m *Metrics) Gatherer() prometheus.Gatherer {
	return m.registry
}

// Handler serves the registry in the prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// NoOp discards everything. Used when no recorder is wired
type NoOp struct{}

// RecordChartBuild does nothing
func (NoOp) RecordChartBuild(string, error) {}

// RecordReload does nothing
func (NoOp) RecordReload(string, time.Duration) {}

// RecordDataset does nothing
func (NoOp) RecordDataset(int64, int, int) {}

// RecordEndpointLatency does nothing
func (NoOp) RecordEndpointLatency(string, time.Duration) {}

var _ Recorder = (*Metrics)(nil)
var _ Recorder = NoOp{}
