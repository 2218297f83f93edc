package metrics

import "github.com/prometheus/client_golang/prometheus"

// NewSessionExpiredTotal returns a Prometheus counter for the number of requests rejected with 401
func NewSessionExpiredTotal() prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Name: "session_expired_total",
		Help: "Total number of requests that invalidated the session with HTTP 401",
	})
}

// NewTransportFailuresTotal returns a Prometheus counter for the number of failed backend requests
func NewTransportFailuresTotal() prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Name: "transport_failures_total",
		Help: "Total number of backend requests that failed on the wire or with a non-2xx status",
	})
}

// NewFetchRetriesTotal returns a Prometheus counter for retried read-only backend fetches
func NewFetchRetriesTotal() prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Name: "fetch_retries_total",
		Help: "Total number of read-only backend fetches retried after a network failure",
	})
}

// NewOptimisticRetiredTotal returns a Prometheus counter for optimistic chat entries retired after server confirmation
func NewOptimisticRetiredTotal() prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Name: "chat_optimistic_retired_total",
		Help: "Total number of locally appended chat messages replaced by their server copy",
	})
}
