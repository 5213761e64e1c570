// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package metrics defines the prometheus collectors shared by the storefront
client and the auth stub.

Both sides record the same pair of series, labeled by method, path and
status class:

  - <namespace>_http_requests_total (counter)
  - <namespace>_http_request_duration_seconds (histogram)

A nil [*HTTP] is valid and records nothing, so metrics stay optional.
*/
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Namespaces for the two binaries.
const (
	NamespaceClient = "tinytales_client"
	NamespaceStub   = "tinytales_authstub"
)

// StatusNone labels calls that received no response at all.
const StatusNone = "none"

// HTTP records request counts and latencies.
type HTTP struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewHTTP creates the collectors under namespace and registers them with reg.
//
// Registration panics on duplicate names, matching [prometheus.MustRegister].
func NewHTTP(reg prometheus.Registerer, namespace string) *HTTP {
	m := &HTTP{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, path and status class.",
		}, []string{"method", "path", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "path", "status"}),
	}
	reg.MustRegister(m.requests, m.duration)
	return m
}

// Observe records one finished request. A status of 0 means no response.
func (m *HTTP) Observe(method, path string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	class := StatusClass(status)
	m.requests.WithLabelValues(method, path, class).Inc()
	m.duration.WithLabelValues(method, path, class).Observe(elapsed.Seconds())
}

// StatusClass maps a status code to "2xx", "4xx" and so on.
func StatusClass(status int) string {
	if status < 100 || status > 599 {
		return StatusNone
	}
	return strconv.Itoa(status/100) + "xx"
}

// NewRegistry returns a registry preloaded with the Go runtime and process collectors.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	return reg
}
