// Package metrics provides Prometheus metrics for teamfit scoring runs.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Option applies a configuration option to the Manager.
type Option func(*Manager)

// WithRegistry sets a custom Prometheus registry. The registry is used both
// for registration and for gathering when the metrics are written out.
func WithRegistry(registry *prometheus.Registry) Option {
	return func(m *Manager) {
		if registry != nil {
			m.registry = registry
		}
	}
}
