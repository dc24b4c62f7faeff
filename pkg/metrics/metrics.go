// Package metrics holds the Prometheus collectors shared by the vendor
// client, the stats provider and the dashboard server.
package metrics

import (
	"net/http"
	"sync"

	prom "github.com/prometheus/client_golang/prometheus"
	promcollect "github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "seomonitor"

var (
	Registry = prom.NewRegistry()

	VendorRequests = prom.NewCounterVec(prom.CounterOpts{
		Namespace: namespace,
		Name:      "vendor_requests_total",
		Help:      "Requests sent to the SEO data API by endpoint and outcome",
	}, []string{"endpoint", "outcome"})

	VendorRetries = prom.NewCounterVec(prom.CounterOpts{
		Namespace: namespace,
		Name:      "vendor_retries_total",
		Help:      "Retried SEO data API requests by endpoint",
	}, []string{"endpoint"})

	VendorLatency = prom.NewHistogramVec(prom.HistogramOpts{
		Namespace: namespace,
		Name:      "vendor_request_duration_seconds",
		Help:      "SEO data API call latency including retries",
		Buckets:   prom.DefBuckets,
	}, []string{"endpoint"})

	MockFallbacks = prom.NewCounterVec(prom.CounterOpts{
		Namespace: namespace,
		Name:      "mock_fallbacks_total",
		Help:      "Stats requests answered with mock data after a live failure",
	}, []string{"reason"})

	CacheLookups = prom.NewCounterVec(prom.CounterOpts{
		Namespace: namespace,
		Name:      "stats_cache_lookups_total",
		Help:      "Stats cache lookups by result",
	}, []string{"result"})

	HTTPRequests = prom.NewCounterVec(prom.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Dashboard HTTP requests by route and status code",
	}, []string{"route", "status"})
)

var registerOnce sync.Once

// Register adds all collectors to Registry. Safe to call more than once.
func Register() {
	registerOnce.Do(func() {
		Registry.MustRegister(VendorRequests, VendorRetries, VendorLatency, MockFallbacks, CacheLookups, HTTPRequests)
		Registry.MustRegister(promcollect.NewGoCollector(), promcollect.NewProcessCollector(promcollect.ProcessCollectorOpts{}))
	})
}

// Handler serves Registry in the Prometheus text format.
func Handler() http.Handler {
	Register()
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}
