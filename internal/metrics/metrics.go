// Package metrics counts what a generation run produced.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the generator's collectors on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	samples          *prometheus.CounterVec
	filesWritten     *prometheus.CounterVec
	bytesWritten     *prometheus.CounterVec
	compressed       prometheus.Counter
	compressFailures prometheus.Counter
	scenarioDuration *prometheus.HistogramVec
}

// New registers all collectors on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		samples: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lightsample_samples_generated_total",
			Help: "Light samples generated, by scenario.",
		}, []string{"scenario"}),
		filesWritten: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lightsample_files_written_total",
			Help: "Fixture files written, by format.",
		}, []string{"format"}),
		bytesWritten: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lightsample_bytes_written_total",
			Help: "Bytes written to fixture files, by format.",
		}, []string{"format"}),
		compressed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "lightsample_files_compressed_total",
			Help: "Fixture files gzip-compressed.",
		}),
		compressFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "lightsample_compression_failures_total",
			Help: "Fixture files that could not be compressed.",
		}),
		scenarioDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "lightsample_scenario_duration_seconds",
			Help:    "Wall time of one scenario, generation through compression.",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 12),
		}, []string{"scenario"}),
	}

	m.registry.MustRegister(
		m.samples,
		m.filesWritten,
		m.bytesWritten,
		m.compressed,
		m.compressFailures,
		m.scenarioDuration,
	)
	return m
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// SamplesGenerated adds n samples produced by a scenario.
func (m *Metrics) SamplesGenerated(scenario string, n int) {
	m.samples.WithLabelValues(scenario).Add(float64(n))
}

// FileWritten counts one fixture file and its size, labelled by format.
func (m *Metrics) FileWritten(format string, size int) {
	m.filesWritten.WithLabelValues(format).Inc()
	m.bytesWritten.WithLabelValues(format).Add(float64(size))
}

// FileCompressed counts one gzip sibling written.
func (m *Metrics) FileCompressed() {
	m.compressed.Inc()
}

// CompressionFailed counts one file that could not be compressed.
func (m *Metrics) CompressionFailed() {
	m.compressFailures.Inc()
}

// ObserveScenario records how long a scenario took.
func (m *Metrics) ObserveScenario(scenario string, d time.Duration) {
	m.scenarioDuration.WithLabelValues(scenario).Observe(d.Seconds())
}

// WriteTextfile dumps the registry in the node_exporter textfile format.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("failed to write metrics textfile %s: %w", path, err)
	}
	return nil
}
