package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns the pipeline metrics and the registry they are registered on.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         *prometheus.Registry

	framesProcessed  prometheus.Counter
	eventsProcessed  prometheus.Counter
	modelFits        *prometheus.CounterVec
	modelFitDuration *prometheus.HistogramVec
	cacheHits        prometheus.Counter
	cacheMisses      prometheus.Counter
}

// Global metrics manager used by the CLI and the MCP server.
var globalManager = NewManager()

// NewManager creates a metrics manager. Without WithRegistry it registers on a fresh
// registry so the Go runtime collectors stay out of the exposition.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "touchline",
		subsystem:        "pipeline",
		histogramBuckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.registry == nil {
		m.registry = prometheus.NewRegistry()
	}
	m.initializeMetrics()
	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.framesProcessed = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "frames_processed_total",
		Help:      "Total number of tracking frames fed into models",
	})

	m.eventsProcessed = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "events_processed_total",
		Help:      "Total number of events read or selected",
	})

	m.modelFits = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "model_fits_total",
			Help:      "Total number of model fits by model name",
		},
		[]string{"model"},
	)

	m.modelFitDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "model_fit_duration_seconds",
			Help:      "Duration of model fits in seconds",
			Buckets:   m.histogramBuckets,
		},
		[]string{"model"},
	)

	m.cacheHits = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "cache_hits_total",
		Help:      "Total number of result cache hits",
	})

	m.cacheMisses = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "cache_misses_total",
		Help:      "Total number of result cache misses",
	})
}

// Registry returns the registry the manager's metrics are registered on.
func (m *Manager) Registry() *prometheus.Registry { return m.registry }

// AddFrames increments the processed frames counter.
func (m *Manager) AddFrames(n int) {
	if n > 0 {
		m.framesProcessed.Add(float64(n))
	}
}

// AddEvents increments the processed events counter.
func (m *Manager) AddEvents(n int) {
	if n > 0 {
		m.eventsProcessed.Add(float64(n))
	}
}

// ObserveFit records one fit of the named model and how long it took.
func (m *Manager) ObserveFit(model string, d time.Duration) {
	m.modelFits.WithLabelValues(model).Inc()
	m.modelFitDuration.WithLabelValues(model).Observe(d.Seconds())
}

// RecordCacheLookup counts a cache hit or miss.
func (m *Manager) RecordCacheLookup(hit bool) {
	if hit {
		m.cacheHits.Inc()
		return
	}
	m.cacheMisses.Inc()
}

// WriteTextfile writes the registry in text exposition format, suitable for the
// node-exporter textfile collector.
func (m *Manager) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("failed to write metrics to %s: %w", path, err)
	}
	return nil
}

// AddFrames increments the global processed frames counter.
func AddFrames(n int) { globalManager.AddFrames(n) }

// AddEvents increments the global processed events counter.
func AddEvents(n int) { globalManager.AddEvents(n) }

// ObserveFit records a model fit on the global manager.
func ObserveFit(model string, d time.Duration) { globalManager.ObserveFit(model, d) }

// RecordCacheLookup counts a cache hit or miss on the global manager.
func RecordCacheLookup(hit bool) { globalManager.RecordCacheLookup(hit) }

// WriteTextfile writes the global registry to path.
func WriteTextfile(path string) error { return globalManager.WriteTextfile(path) }

// GetRegistry returns the global registry.
func GetRegistry() *prometheus.Registry { return globalManager.registry }
