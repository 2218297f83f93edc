package app

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/dinosandi/Mobile-Driver/internal/metrics"
)

// Metrics bundles the process counters and the private registry the debug
// server exposes them from.
type Metrics struct {
	Registry          *prometheus.Registry
	SessionExpired    prometheus.Counter
	TransportFailures prometheus.Counter
	FetchRetries      prometheus.Counter
	OptimisticRetired prometheus.Counter
}

// NewMetrics builds the counters and registers them on a fresh registry.
func NewMetrics() (*Metrics, error) {
	m := &Metrics{
		Registry:          prometheus.NewRegistry(),
		SessionExpired:    metrics.NewSessionExpiredTotal(),
		TransportFailures: metrics.NewTransportFailuresTotal(),
		FetchRetries:      metrics.NewFetchRetriesTotal(),
		OptimisticRetired: metrics.NewOptimisticRetiredTotal(),
	}
	for _, c := range []prometheus.Collector{m.SessionExpired, m.TransportFailures, m.FetchRetries, m.OptimisticRetired} {
		if err := m.Registry.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}
