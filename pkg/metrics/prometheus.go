// Package metrics provides Prometheus metrics for teamfit scoring runs.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Run status label values.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// Manager owns every Prometheus collector emitted by a scoring run.
type Manager struct {
	namespace       string
	subsystem       string
	durationBuckets []float64
	scoreBuckets    []float64
	registry        *prometheus.Registry

	// Run outcome
	runs          *prometheus.CounterVec
	runDuration   prometheus.Histogram
	lastRunUnix   prometheus.Gauge
	errorsByStage *prometheus.CounterVec

	// Input shape
	teamSize            prometheus.Gauge
	applicantCount      prometheus.Gauge
	attributeDimensions prometheus.Gauge
	outOfRangeValues    prometheus.Counter

	// Scoring results
	applicantsScored  prometheus.Counter
	scoreDistribution prometheus.Histogram
	clampedScores     prometheus.Counter
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Dedicated registry so Go runtime collectors never end up in the textfile.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:       "teamfit",
		subsystem:       "scoring",
		durationBuckets: []float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000},
		scoreBuckets:    prometheus.LinearBuckets(0.1, 0.1, 10),
		registry:        prometheus.NewRegistry(),
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every collector
	auto := promauto.With(m.registry)

	m.runs = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "runs_total",
		Help:        "Total number of scoring runs by outcome",
	}, []string{"status"})

	m.runDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "run_duration_milliseconds",
		Help:        "Wall time of a scoring run in milliseconds",
		Buckets:     m.durationBuckets,
	})

	m.lastRunUnix = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "last_run_timestamp_seconds",
		Help:        "Unix time of the last finished scoring run",
	})

	m.errorsByStage = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "errors_total",
		Help:        "Total number of run failures by pipeline stage",
	}, []string{"stage"})

	m.teamSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "team_size",
		Help:        "Number of team members in the last run",
	})

	m.applicantCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "applicant_count",
		Help:        "Number of applicants in the last run",
	})

	m.attributeDimensions = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "attribute_dimensions",
		Help:        "Number of attributes in the team mean vector",
	})

	m.outOfRangeValues = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "out_of_range_values_total",
		Help:        "Attribute values seen outside [0, scale]",
	})

	m.applicantsScored = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "applicants_scored_total",
		Help:        "Total number of applicants scored",
	})

	m.scoreDistribution = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "score",
		Help:        "Distribution of emitted applicant scores",
		Buckets:     m.scoreBuckets,
	})

	m.clampedScores = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "clamped_scores_total",
		Help:        "Scores that fell outside [0,1] before clamping",
	})
}

// RecordRun counts a finished run and its duration.
func (m *Manager) RecordRun(status string, durationMs float64) {
	m.runs.WithLabelValues(status).Inc()
	m.runDuration.Observe(durationMs)
	m.lastRunUnix.SetToCurrentTime()
}

// RecordError counts a failure at the given pipeline stage.
func (m *Manager) RecordError(stage string) {
	m.errorsByStage.WithLabelValues(stage).Inc()
}

// UpdateInputShape sets the team, applicant and dimension gauges.
func (m *Manager) UpdateInputShape(teamSize, applicants, dimensions int) {
	m.teamSize.Set(float64(teamSize))
	m.applicantCount.Set(float64(applicants))
	m.attributeDimensions.Set(float64(dimensions))
}

// RecordOutOfRange adds n out-of-range attribute values.
func (m *Manager) RecordOutOfRange(n int) {
	m.outOfRangeValues.Add(float64(n))
}

// RecordScore observes one emitted score.
func (m *Manager) RecordScore(score float64) {
	m.applicantsScored.Inc()
	m.scoreDistribution.Observe(score)
}

// RecordClamped counts a score that had to be clamped.
func (m *Manager) RecordClamped() {
	m.clampedScores.Inc()
}

// Registry returns the registry the manager registers on.
func (m *Manager) Registry() *prometheus.Registry {
	return m.registry
}

// WriteTextfile writes the manager's metrics in the text exposition format,
// suitable for the node_exporter textfile collector.
func (m *Manager) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrWriteFailed, path, err)
	}
	return nil
}

// Default returns the process-wide manager.
func Default() *Manager {
	return globalManager
}
